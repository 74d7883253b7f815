package critter

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		ratings Ratings
		want    Category
	}{
		{"perfect", Ratings{3, 3, 3, 3, 3, 3}, CategoryPerfect},
		{"red speed all green", Ratings{HP: 3, Speed: 1, EA: 3, ED: 3, PA: 3, PD: 3}, CategoryRedSpeed},
		{"red speed one white", Ratings{HP: 3, Speed: 1, EA: 2, ED: 3, PA: 3, PD: 3}, CategoryRedSpeedWhite},
		{"red speed one red", Ratings{HP: 1, Speed: 1, EA: 3, ED: 3, PA: 3, PD: 3}, CategoryRedSpeedRed},
		{"red speed two whites", Ratings{HP: 2, Speed: 1, EA: 2, ED: 3, PA: 3, PD: 3}, CategoryOther},
		{"red speed two reds", Ratings{HP: 1, Speed: 1, EA: 1, ED: 3, PA: 3, PD: 3}, CategoryOther},
		{"white speed", Ratings{HP: 3, Speed: 2, EA: 3, ED: 3, PA: 3, PD: 3}, CategoryOther},
		{"all ones", Ratings{1, 1, 1, 1, 1, 1}, CategoryOther},
		{"max tier four ratings", Ratings{4, 4, 4, 4, 4, 4}, CategoryOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.ratings); got != tc.want {
				t.Errorf("Classify(%v) = %s, want %s", tc.ratings, got, tc.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A perfect copy also satisfies none of the red-speed shapes, but a
	// hypothetical overlap must resolve to the earliest rule. Red speed
	// with five greens could only bucket as red-speed, never white/red.
	r := Ratings{HP: 3, Speed: 1, EA: 3, ED: 3, PA: 3, PD: 3}
	if got := Classify(r); got != CategoryRedSpeed {
		t.Errorf("got %s, want %s", got, CategoryRedSpeed)
	}
}

func TestClassify_AbsentRatingsDefault(t *testing.T) {
	// Speed absent defaults to 1, so five explicit greens bucket as red
	// speed even with the speed key missing from the payload.
	r := Ratings{HP: 3, EA: 3, ED: 3, PA: 3, PD: 3}
	if got := Classify(r); got != CategoryRedSpeed {
		t.Errorf("got %s, want %s", got, CategoryRedSpeed)
	}
}

func TestCollectionStats(t *testing.T) {
	copies := []Ratings{
		{3, 3, 3, 3, 3, 3},
		{HP: 3, Speed: 1, EA: 3, ED: 3, PA: 3, PD: 3},
		{HP: 3, Speed: 1, EA: 2, ED: 3, PA: 3, PD: 3},
		{1, 1, 1, 1, 1, 1},
		{2, 2, 2, 2, 2, 2},
	}
	stats := CollectionStats(copies)

	if stats[CategoryPerfect] != 1 {
		t.Errorf("perfect = %d, want 1", stats[CategoryPerfect])
	}
	if stats[CategoryRedSpeed] != 1 {
		t.Errorf("red speed = %d, want 1", stats[CategoryRedSpeed])
	}
	if stats[CategoryRedSpeedWhite] != 1 {
		t.Errorf("red speed white = %d, want 1", stats[CategoryRedSpeedWhite])
	}
	if stats[CategoryOther] != 2 {
		t.Errorf("other = %d, want 2", stats[CategoryOther])
	}
	// Empty buckets are still present.
	if _, ok := stats[CategoryRedSpeedRed]; !ok {
		t.Error("expected every bucket present in the result")
	}

	total := 0
	for _, n := range stats {
		total += n
	}
	if total != len(copies) {
		t.Errorf("buckets sum to %d, want %d", total, len(copies))
	}
}
