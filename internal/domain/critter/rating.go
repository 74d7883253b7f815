package critter

// Rating is the grade derived from a creature's six base ratings. Lower
// base sums grade worse; a perfect [3,3,3,3,3,3] grades S+.
type Rating string

const RatingUnknown Rating = "Unknown"

// ratingTable is indexed by 18 minus the base-rating sum.
var ratingTable = [...]Rating{
	"S+", "S", "A+", "A", "B+", "B", "C+", "C", "D+", "D", "F+", "F", "F-",
}

// Ratings holds the six base ratings of one owned copy. A zero value
// means the field was absent from the player payload and defaults to 1.
type Ratings struct {
	HP    int
	Speed int
	EA    int
	ED    int
	PA    int
	PD    int
}

func defaulted(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func (r Ratings) normalized() Ratings {
	return Ratings{
		HP:    defaulted(r.HP),
		Speed: defaulted(r.Speed),
		EA:    defaulted(r.EA),
		ED:    defaulted(r.ED),
		PA:    defaulted(r.PA),
		PD:    defaulted(r.PD),
	}
}

func (r Ratings) sum() int {
	return r.HP + r.Speed + r.EA + r.ED + r.PA + r.PD
}

// ComputeRating grades a creature's base ratings. Sums outside the table
// range collapse to RatingUnknown rather than panicking on hostile input.
func ComputeRating(r Ratings) Rating {
	sum := r.normalized().sum()
	if sum == 0 {
		return RatingUnknown
	}
	index := 18 - sum
	if index < 0 || index >= len(ratingTable) {
		return RatingUnknown
	}
	return ratingTable[index]
}

// RatingRank orders ratings best-first: S+ is 0, F- is 12, Unknown sorts
// after everything.
func RatingRank(r Rating) int {
	for i, candidate := range ratingTable {
		if candidate == r {
			return i
		}
	}
	return len(ratingTable)
}

// StatColor maps a single base rating to its display color.
func StatColor(v int) string {
	switch defaulted(v) {
	case 1:
		return "red"
	case 2:
		return "white"
	default:
		return "green"
	}
}
