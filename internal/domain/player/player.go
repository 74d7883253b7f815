package player

import (
	"miscrits-atlas/internal/domain/critter"
)

// PlayerRecord is the decoded get_player payload.
type PlayerRecord struct {
	Username string          `json:"username"`
	Level    int             `json:"level"`
	Miscrits []OwnedCreature `json:"miscrits"`
}

// OwnedCreature is one captured copy, in the game's compact wire keys:
// m species, l level, h/s/e/d/p/pd base ratings, *b trained bonuses.
// Absent rating keys mean rating 1.
type OwnedCreature struct {
	SpeciesID    int    `json:"m"`
	Level        int    `json:"l"`
	HP           int    `json:"h"`
	Speed        int    `json:"s"`
	EA           int    `json:"e"`
	ED           int    `json:"d"`
	PA           int    `json:"p"`
	PD           int    `json:"pd"`
	HPBonus      int    `json:"hb"`
	SpeedBonus   int    `json:"sb"`
	EABonus      int    `json:"eb"`
	EDBonus      int    `json:"db"`
	PABonus      int    `json:"pb"`
	PDBonus      int    `json:"pdb"`
	Nickname     string `json:"n,omitempty"`
	Favorite     bool   `json:"fav,omitempty"`
	TeamPlayerID int    `json:"teamplayer_id,omitempty"`
}

// OnTeam reports whether the copy sits in the player's active team.
func (c OwnedCreature) OnTeam() bool {
	return c.TeamPlayerID != 0
}

// Ratings adapts the compact keys to the stat engine's input.
func (c OwnedCreature) Ratings() critter.Ratings {
	return critter.Ratings{
		HP:    c.HP,
		Speed: c.Speed,
		EA:    c.EA,
		ED:    c.ED,
		PA:    c.PA,
		PD:    c.PD,
	}
}

// Bonuses adapts the trained bonus keys to the stat engine's input.
func (c OwnedCreature) Bonuses() critter.Bonuses {
	return critter.Bonuses{
		HP:    c.HPBonus,
		Speed: c.SpeedBonus,
		EA:    c.EABonus,
		ED:    c.EDBonus,
		PA:    c.PABonus,
		PD:    c.PDBonus,
	}
}

// SpeciesIndex groups owned copies by species for ownership lookups.
func (p *PlayerRecord) SpeciesIndex() map[int][]OwnedCreature {
	index := make(map[int][]OwnedCreature)
	for _, c := range p.Miscrits {
		index[c.SpeciesID] = append(index[c.SpeciesID], c)
	}
	return index
}
