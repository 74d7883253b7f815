package marker

import "time"

// Marker is one admin-placed spawn point on the map. Coordinates are
// fractions of the map image (0..1) so the viewer can scale freely.
type Marker struct {
	ID        string    `json:"id"`
	SpeciesID int       `json:"species_id"`
	Location  string    `json:"location"`
	Area      string    `json:"area,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Days      []string  `json:"days,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
