package catalog

import (
	"strings"
	"time"
)

// Query is one filter request from the viewer. Empty fields match
// everything. Ownership is "owned" or "not-owned" and only applies when
// an owned-species index is supplied.
type Query struct {
	Location  string
	Area      string
	Rarity    string
	Element   string
	Day       string
	Search    string
	Ownership string
}

// Today returns the current UTC day abbreviation, the reference the
// "today" day filter uses regardless of server timezone.
func Today(now time.Time) string {
	abbrs := []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	return abbrs[int(now.UTC().Weekday())]
}

// Filter selects entries matching the query. Entries without location
// data stay hidden unless Unknown is asked for by name. The owned index
// maps species id to copy count and may be nil when nobody is logged in,
// which disables ownership filtering.
func (c *Catalog) Filter(q Query, owned map[int]int) []Entry {
	day := q.Day
	if day == "today" {
		day = Today(time.Now())
	}
	search := strings.ToLower(q.Search)

	out := make([]Entry, 0)
	for _, e := range c.entries {
		if q.Location == "" && e.Location == UnknownLocation {
			continue
		}
		if q.Location != "" && e.Location != q.Location {
			continue
		}
		if q.Area != "" {
			if _, ok := e.Areas[q.Area]; !ok {
				continue
			}
		}
		if q.Rarity != "" && e.Species.Rarity != q.Rarity {
			continue
		}
		if q.Element != "" && e.Species.Element != q.Element {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if !e.AvailableOn(day, q.Area) {
			continue
		}
		if owned != nil && q.Ownership != "" {
			has := owned[e.Species.ID] > 0
			if q.Ownership == "owned" && !has {
				continue
			}
			if q.Ownership == "not-owned" && has {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func matchesSearch(e Entry, search string) bool {
	if strings.Contains(strings.ToLower(e.Name), search) {
		return true
	}
	for _, name := range e.Species.Names {
		if strings.Contains(strings.ToLower(name), search) {
			return true
		}
	}
	return false
}
