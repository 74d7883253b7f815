package critter

// Category buckets an owned copy by how close it is to a perfect or a
// red-speed build. Red speed (base speed rating 1) is desirable for
// certain movesets, so near-perfect copies with it get their own buckets.
type Category string

const (
	CategoryPerfect       Category = "S+"
	CategoryRedSpeed      Category = "A+ RS"
	CategoryRedSpeedWhite Category = "A RS"
	CategoryRedSpeedRed   Category = "B+ RS"
	CategoryOther         Category = "other"
)

// Categories lists every bucket in priority order.
var Categories = []Category{
	CategoryPerfect,
	CategoryRedSpeed,
	CategoryRedSpeedWhite,
	CategoryRedSpeedRed,
	CategoryOther,
}

type rule struct {
	category Category
	matches  func(Ratings) bool
}

// rules are evaluated in order; the first match wins, so a copy lands in
// exactly one bucket.
var rules = []rule{
	{CategoryPerfect, func(r Ratings) bool {
		return ComputeRating(r) == "S+"
	}},
	{CategoryRedSpeed, func(r Ratings) bool {
		return r.Speed == 1 && countAtLeast(r.others(), 3) == 5
	}},
	{CategoryRedSpeedWhite, func(r Ratings) bool {
		others := r.others()
		return r.Speed == 1 && countEqual(others, 2) == 1 && countAtLeast(others, 3) == 4
	}},
	{CategoryRedSpeedRed, func(r Ratings) bool {
		others := r.others()
		return r.Speed == 1 && countEqual(others, 1) == 1 && countAtLeast(others, 3) == 4
	}},
}

// others returns the five non-speed ratings, absent values defaulted.
func (r Ratings) others() [5]int {
	n := r.normalized()
	return [5]int{n.HP, n.EA, n.ED, n.PA, n.PD}
}

func countAtLeast(vals [5]int, min int) int {
	count := 0
	for _, v := range vals {
		if v >= min {
			count++
		}
	}
	return count
}

func countEqual(vals [5]int, want int) int {
	count := 0
	for _, v := range vals {
		if v == want {
			count++
		}
	}
	return count
}

// Classify assigns an owned copy to its bucket.
func Classify(r Ratings) Category {
	n := r.normalized()
	for _, rule := range rules {
		if rule.matches(n) {
			return rule.category
		}
	}
	return CategoryOther
}

// CollectionStats counts a set of owned copies per bucket. Every bucket
// is present in the result, zero or not, so callers can render a stable
// summary.
func CollectionStats(copies []Ratings) map[Category]int {
	stats := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		stats[c] = 0
	}
	for _, r := range copies {
		stats[Classify(r)]++
	}
	return stats
}
