package catalog

import (
	"sort"
	"strings"

	"miscrits-atlas/internal/domain/critter"
)

// LocationOrder is the canonical display order for the game's zones.
var LocationOrder = []string{
	"Forest",
	"Hidden Forest",
	"Mansion",
	"Mount Gemma",
	"Cave",
	"Sunfall Shores",
	"Moon",
}

// RarityOrder is the canonical display order for rarities.
var RarityOrder = []string{"Common", "Rare", "Epic", "Exotic", "Legendary"}

// UnknownLocation labels species the catalog places nowhere.
const UnknownLocation = "Unknown"

// areaNames maps area numbers to their in-game names per location.
// Hidden Forest has no named sub-areas.
var areaNames = map[string]map[string]string{
	"Forest": {
		"1": "Azore Lake",
		"2": "Woodsman's Axe",
		"3": "Magic Flower",
		"4": "Elder Tree",
	},
	"Hidden Forest": {},
	"Mansion": {
		"1": "Outside",
		"2": "Ground Floor",
		"3": "2nd Floor",
		"4": "Attic (Middle)",
		"5": "Attic (Right)",
		"6": "Attic (Left)",
	},
	"Mount Gemma": {
		"1": "Gemma Flats",
		"2": "Eternal Falls",
		"3": "The Shack",
		"4": "Crystal Cliffs",
	},
	"Cave": {
		"1": "Cave Entrance",
		"2": "Hole",
		"3": "Lost Treasure",
		"4": "Ice Cavern",
	},
	"Sunfall Shores": {
		"1": "Sand Castle",
		"2": "Ship Graveyard",
		"3": "Jagged Treasure",
		"4": "Dead Island",
	},
	"Moon": {
		"1": "The Moon Surface",
		"2": "Cave of the Moon",
	},
}

// dayNames maps the catalog's day numbers (0 = Sunday) to abbreviations.
var dayNames = map[int]string{
	0: "sun",
	1: "mon",
	2: "tue",
	3: "wed",
	4: "thu",
	5: "fri",
	6: "sat",
}

// AllDays lists every day abbreviation, week starting Monday as the game
// displays it.
var AllDays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// SpeciesMetadata is one species entry from miscrits.json. The stat
// fields carry growth tier names (Weak through Elite). Locations maps
// zone name to area number to the day numbers the species spawns on; an
// empty day list means every day.
type SpeciesMetadata struct {
	ID        int                         `json:"id"`
	Names     []string                    `json:"names"`
	Element   string                      `json:"element"`
	Rarity    string                      `json:"rarity"`
	HP        string                      `json:"hp"`
	Speed     string                      `json:"spd"`
	EA        string                      `json:"ea"`
	ED        string                      `json:"ed"`
	PA        string                      `json:"pa"`
	PD        string                      `json:"pd"`
	Locations map[string]map[string][]int `json:"locations"`
}

// Name returns the base (first evolution) name.
func (m SpeciesMetadata) Name() string {
	if len(m.Names) == 0 {
		return "Unknown"
	}
	return m.Names[0]
}

// Tiers adapts the metadata tier names to the stat engine's input.
func (m SpeciesMetadata) Tiers() critter.TierSet {
	return critter.TierSet{
		HP:    m.HP,
		Speed: m.Speed,
		EA:    m.EA,
		ED:    m.ED,
		PA:    m.PA,
		PD:    m.PD,
	}
}

// Entry is one (species, location) pair: the unit the viewer filters and
// renders. A species spawning in three zones yields three entries.
type Entry struct {
	Species         SpeciesMetadata  `json:"species"`
	Name            string           `json:"name"`
	Location        string           `json:"location"`
	Areas           map[string][]int `json:"areas,omitempty"`
	ImageURL        string           `json:"image_url"`
	ElementImageURL string           `json:"element_image_url"`
}

// Days returns the entry's availability as day abbreviations: the union
// across its areas. One unrestricted area (empty day list) makes the
// whole entry available every day.
func (e Entry) Days() []string {
	set := make(map[string]bool)
	for _, dayNumbers := range e.Areas {
		if len(dayNumbers) == 0 {
			return append([]string(nil), AllDays...)
		}
		for _, n := range dayNumbers {
			if name, ok := dayNames[n]; ok {
				set[name] = true
			}
		}
	}
	if len(set) == 0 {
		return append([]string(nil), AllDays...)
	}
	days := make([]string, 0, len(set))
	for _, d := range AllDays {
		if set[d] {
			days = append(days, d)
		}
	}
	return days
}

// AvailableOn reports whether the entry spawns on the given day. An area
// filter narrows the check to that area; an area with an empty day list
// spawns every day.
func (e Entry) AvailableOn(day, area string) bool {
	if day == "" {
		return true
	}
	if area != "" {
		dayNumbers, ok := e.Areas[area]
		if !ok {
			return false
		}
		return daysContain(dayNumbers, day)
	}
	for _, dayNumbers := range e.Areas {
		if len(dayNumbers) == 0 {
			return true
		}
		if daysContain(dayNumbers, day) {
			return true
		}
	}
	return len(e.Areas) == 0
}

func daysContain(dayNumbers []int, day string) bool {
	if len(dayNumbers) == 0 {
		return true
	}
	for _, n := range dayNumbers {
		if dayNames[n] == day {
			return true
		}
	}
	return false
}

// AreaName resolves an area number to its in-game name, if one exists.
func AreaName(location, area string) string {
	return areaNames[location][area]
}

// locationRank orders locations canonically, unknowns after known zones.
func locationRank(location string) int {
	for i, l := range LocationOrder {
		if l == location {
			return i
		}
	}
	return len(LocationOrder)
}

// RarityRank orders rarities canonically, unknowns last.
func RarityRank(rarity string) int {
	for i, r := range RarityOrder {
		if r == rarity {
			return i
		}
	}
	return len(RarityOrder)
}

// Catalog is the loaded, expanded species database. It is built once at
// startup and read-only afterwards.
type Catalog struct {
	species  []SpeciesMetadata
	entries  []Entry
	byID     map[int]SpeciesMetadata
	assetCDN string
	siteURL  string
}

// Options carries the asset URL roots used to build image links.
type Options struct {
	AssetCDN string
	SiteURL  string
}

// New expands raw species metadata into per-location entries.
func New(species []SpeciesMetadata, opts Options) *Catalog {
	c := &Catalog{
		species:  species,
		byID:     make(map[int]SpeciesMetadata, len(species)),
		assetCDN: strings.TrimSuffix(opts.AssetCDN, "/"),
		siteURL:  strings.TrimSuffix(opts.SiteURL, "/"),
	}
	for _, s := range species {
		c.byID[s.ID] = s
		if len(s.Locations) == 0 {
			c.entries = append(c.entries, c.entry(s, UnknownLocation, nil))
			continue
		}
		for location, areas := range s.Locations {
			c.entries = append(c.entries, c.entry(s, location, areas))
		}
	}
	sort.SliceStable(c.entries, func(i, j int) bool {
		a, b := c.entries[i], c.entries[j]
		if ra, rb := locationRank(a.Location), locationRank(b.Location); ra != rb {
			return ra < rb
		}
		if ra, rb := RarityRank(a.Species.Rarity), RarityRank(b.Species.Rarity); ra != rb {
			return ra < rb
		}
		return a.Species.ID < b.Species.ID
	})
	return c
}

func (c *Catalog) entry(s SpeciesMetadata, location string, areas map[string][]int) Entry {
	return Entry{
		Species:         s,
		Name:            s.Name(),
		Location:        location,
		Areas:           areas,
		ImageURL:        c.ImageURL(s.Name()),
		ElementImageURL: c.ElementImageURL(s.Element),
	}
}

// ImageURL builds the CDN sprite link for a species name.
func (c *Catalog) ImageURL(name string) string {
	if name == "" || c.assetCDN == "" {
		return ""
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	return c.assetCDN + "/miscrits/" + normalized + "_back.png"
}

// ElementImageURL builds the element icon link.
func (c *Catalog) ElementImageURL(element string) string {
	if element == "" || c.siteURL == "" {
		return ""
	}
	return c.siteURL + "/" + strings.ToLower(element) + ".png"
}

// Species returns the raw metadata by id.
func (c *Catalog) Species(id int) (SpeciesMetadata, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Entries returns every expanded entry in canonical order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Locations lists the zones present in the catalog in canonical order.
// Unknown is included only when some species has no location data.
func (c *Catalog) Locations() []string {
	seen := make(map[string]bool)
	for _, e := range c.entries {
		seen[e.Location] = true
	}
	out := make([]string, 0, len(seen))
	for _, l := range LocationOrder {
		if seen[l] {
			out = append(out, l)
		}
	}
	if seen[UnknownLocation] {
		out = append(out, UnknownLocation)
	}
	return out
}

// Area describes one selectable sub-area of a location.
type Area struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

// Areas lists the sub-areas species actually spawn in for a location,
// numerically ordered and labeled from the static name map.
func (c *Catalog) Areas(location string) []Area {
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if e.Location != location {
			continue
		}
		for area := range e.Areas {
			seen[area] = true
		}
	}
	numbers := make([]string, 0, len(seen))
	for area := range seen {
		numbers = append(numbers, area)
	}
	sort.Strings(numbers)
	out := make([]Area, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, Area{Number: n, Name: AreaName(location, n)})
	}
	return out
}

// Elements lists the elements present in the catalog, sorted.
func (c *Catalog) Elements() []string {
	seen := make(map[string]bool)
	for _, s := range c.species {
		if s.Element != "" {
			seen[s.Element] = true
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Summary counts unique species and locations across a set of entries.
type Summary struct {
	Species   int `json:"species"`
	Locations int `json:"locations"`
}

// Summarize builds the stat line the viewer shows above the grid.
func Summarize(entries []Entry) Summary {
	species := make(map[int]bool)
	locations := make(map[string]bool)
	for _, e := range entries {
		species[e.Species.ID] = true
		locations[e.Location] = true
	}
	return Summary{Species: len(species), Locations: len(locations)}
}
