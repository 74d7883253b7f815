package catalog

import (
	"testing"
	"time"
)

func TestFilter_UnknownHiddenByDefault(t *testing.T) {
	c := testCatalog()

	for _, e := range c.Filter(Query{}, nil) {
		if e.Location == UnknownLocation {
			t.Fatal("Unknown entries must be hidden without an explicit location filter")
		}
	}

	unknowns := c.Filter(Query{Location: UnknownLocation}, nil)
	if len(unknowns) != 1 || unknowns[0].Species.ID != 3 {
		t.Errorf("explicit Unknown filter = %+v", unknowns)
	}
}

func TestFilter_ByLocationAndArea(t *testing.T) {
	c := testCatalog()

	cave := c.Filter(Query{Location: "Cave"}, nil)
	if len(cave) != 1 || cave[0].Species.ID != 2 {
		t.Fatalf("Cave filter = %+v", cave)
	}

	// Species 2's Cave presence is area 4 only.
	if got := c.Filter(Query{Location: "Cave", Area: "4"}, nil); len(got) != 1 {
		t.Errorf("Cave area 4 = %+v", got)
	}
	if got := c.Filter(Query{Location: "Cave", Area: "1"}, nil); len(got) != 0 {
		t.Errorf("Cave area 1 should be empty, got %+v", got)
	}
}

func TestFilter_ByRarityAndElement(t *testing.T) {
	c := testCatalog()

	if got := c.Filter(Query{Rarity: "Rare"}, nil); len(got) != 2 {
		t.Errorf("Rare filter = %d entries, want 2 (both zones of species 2)", len(got))
	}
	if got := c.Filter(Query{Element: "Fire"}, nil); len(got) != 1 || got[0].Species.ID != 1 {
		t.Errorf("Fire filter = %+v", got)
	}
}

func TestFilter_Search(t *testing.T) {
	c := testCatalog()

	if got := c.Filter(Query{Search: "deep"}, nil); len(got) != 2 {
		t.Errorf("search 'deep' = %d entries, want 2", len(got))
	}
	// Search matches evolution names too, not just the base form.
	if got := c.Filter(Query{Search: "flure"}, nil); len(got) != 1 || got[0].Species.ID != 1 {
		t.Errorf("search 'flure' = %+v", got)
	}
	if got := c.Filter(Query{Search: "zzz"}, nil); len(got) != 0 {
		t.Errorf("search 'zzz' = %+v", got)
	}
}

func TestFilter_Day(t *testing.T) {
	c := testCatalog()

	// Species 2 in Cave spawns mon/wed/fri (day numbers 1,3,5).
	mon := c.Filter(Query{Location: "Cave", Day: "mon"}, nil)
	if len(mon) != 1 {
		t.Errorf("Cave monday = %+v", mon)
	}
	tue := c.Filter(Query{Location: "Cave", Day: "tue"}, nil)
	if len(tue) != 0 {
		t.Errorf("Cave tuesday should be empty, got %+v", tue)
	}

	// Unrestricted entries match any day.
	if got := c.Filter(Query{Location: "Forest", Day: "tue"}, nil); len(got) != 1 {
		t.Errorf("Forest tuesday = %+v", got)
	}
}

func TestFilter_Ownership(t *testing.T) {
	c := testCatalog()
	owned := map[int]int{1: 2}

	got := c.Filter(Query{Ownership: "owned"}, owned)
	if len(got) != 1 || got[0].Species.ID != 1 {
		t.Errorf("owned filter = %+v", got)
	}

	notOwned := c.Filter(Query{Ownership: "not-owned"}, owned)
	for _, e := range notOwned {
		if e.Species.ID == 1 {
			t.Error("owned species leaked into not-owned filter")
		}
	}

	// Without an owned index the ownership filter is inert.
	all := c.Filter(Query{Ownership: "owned"}, nil)
	if len(all) != len(c.Filter(Query{}, nil)) {
		t.Error("ownership filter must be ignored when nobody is logged in")
	}
}

func TestToday(t *testing.T) {
	// 2026-08-29 is a Saturday; verify against a fixed instant so the
	// test does not depend on when it runs.
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	if got := Today(now); got != "sat" {
		t.Errorf("Today = %s, want sat", got)
	}
	// A time east of UTC can be a different local day; UTC wins.
	tokyo := time.FixedZone("UTC+9", 9*3600)
	late := time.Date(2026, 8, 30, 3, 0, 0, 0, tokyo) // still Aug 29 UTC
	if got := Today(late); got != "sat" {
		t.Errorf("Today(tokyo 3am) = %s, want sat", got)
	}
}
