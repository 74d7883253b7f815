package critter

import "math"

// TierSet names the growth tier of each stat for one species, as the
// catalog records them (Weak, Moderate, Strong, Max, Elite).
type TierSet struct {
	HP    string
	Speed string
	EA    string
	ED    string
	PA    string
	PD    string
}

var tierValues = map[string]int{
	"Weak":     1,
	"Moderate": 2,
	"Strong":   3,
	"Max":      4,
	"Elite":    5,
}

// TierValue resolves a tier name to its numeric growth factor. Unknown
// names resolve to 1 so malformed catalog data degrades to weak growth
// instead of failing.
func TierValue(name string) int {
	if v, ok := tierValues[name]; ok {
		return v
	}
	return 1
}

// Bonuses holds the trained bonus points of one owned copy.
type Bonuses struct {
	HP    int
	Speed int
	EA    int
	ED    int
	PA    int
	PD    int
}

// TotalStats is the fully derived stat line for one owned copy at its
// current level.
type TotalStats struct {
	HP    int `json:"hp"`
	Speed int `json:"spd"`
	EA    int `json:"ea"`
	ED    int `json:"ed"`
	PA    int `json:"pa"`
	PD    int `json:"pd"`
}

func hpStat(level, tier, rating, bonus int) int {
	base := float64(level) * ((12 + float64(tier)*2 + float64(rating)*1.5) / 5)
	return int(math.Floor(base+10)) + bonus
}

func otherStat(level, tier, rating, bonus int) int {
	base := float64(level) * ((3 + float64(tier)*2 + float64(rating)*1.5) / 6)
	return int(math.Floor(base+5)) + bonus
}

// ComputeTotalStats derives the stat line from level, species growth
// tiers, base ratings and trained bonuses. The floor is applied before
// the bonus is added, matching the game's own arithmetic.
func ComputeTotalStats(level int, tiers TierSet, ratings Ratings, bonuses Bonuses) TotalStats {
	r := ratings.normalized()
	return TotalStats{
		HP:    hpStat(level, TierValue(tiers.HP), r.HP, bonuses.HP),
		Speed: otherStat(level, TierValue(tiers.Speed), r.Speed, bonuses.Speed),
		EA:    otherStat(level, TierValue(tiers.EA), r.EA, bonuses.EA),
		ED:    otherStat(level, TierValue(tiers.ED), r.ED, bonuses.ED),
		PA:    otherStat(level, TierValue(tiers.PA), r.PA, bonuses.PA),
		PD:    otherStat(level, TierValue(tiers.PD), r.PD, bonuses.PD),
	}
}
