package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miscrits-atlas/internal/domain/backend"
	"miscrits-atlas/internal/domain/catalog"
	"miscrits-atlas/internal/domain/critter"
	"miscrits-atlas/internal/domain/player"
	"miscrits-atlas/internal/domain/session"
	"miscrits-atlas/internal/domain/session/store"
	"miscrits-atlas/internal/platform/logging"
)

// PlayerService serves the logged-in player's collection with derived
// stats, grades and classification buckets.
type PlayerService struct {
	gateway  *player.Gateway
	catalog  *catalog.Catalog
	sessions store.Store
	logger   *logging.Logger
}

// NewPlayerService wires the player endpoints.
func NewPlayerService(gateway *player.Gateway, cat *catalog.Catalog, sessions store.Store, logger *logging.Logger) *PlayerService {
	return &PlayerService{
		gateway:  gateway,
		catalog:  cat,
		sessions: sessions,
		logger:   logger,
	}
}

// Start registers the player routes.
func (s *PlayerService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.GET("/player", s.handlePlayer)
	apiGroup.GET("/player/summary", s.handleSummary)

	if s.logger != nil {
		s.logger.InfoTag("PLAYER", "player routes registered")
	}
	return nil
}

// creatureView is one owned copy with everything the viewer renders.
type creatureView struct {
	SpeciesID   int                `json:"species_id"`
	Name        string             `json:"name"`
	Nickname    string             `json:"nickname,omitempty"`
	Level       int                `json:"level"`
	Element     string             `json:"element,omitempty"`
	Rarity      string             `json:"rarity,omitempty"`
	Rating      critter.Rating     `json:"rating"`
	Category    critter.Category   `json:"category"`
	Stats       critter.TotalStats `json:"stats"`
	StatColors  map[string]string  `json:"stat_colors"`
	Favorite    bool               `json:"favorite,omitempty"`
	OnTeam      bool               `json:"on_team,omitempty"`
	ImageURL    string             `json:"image_url,omitempty"`
}

type playerResponse struct {
	Username string         `json:"username"`
	Level    int            `json:"level"`
	Total    int            `json:"total"`
	Miscrits []creatureView `json:"miscrits"`
}

func (s *PlayerService) handlePlayer(c *gin.Context) {
	sess, ok := loadRequestSession(c, s.sessions)
	if !ok {
		return
	}
	record, ok := s.fetch(c, sess)
	if !ok {
		return
	}

	views := make([]creatureView, 0, len(record.Miscrits))
	for _, creature := range record.Miscrits {
		views = append(views, s.view(creature))
	}
	RespondSuccess(c, http.StatusOK, playerResponse{
		Username: record.Username,
		Level:    record.Level,
		Total:    len(record.Miscrits),
		Miscrits: views,
	}, "")
}

func (s *PlayerService) view(creature player.OwnedCreature) creatureView {
	ratings := creature.Ratings()
	v := creatureView{
		SpeciesID: creature.SpeciesID,
		Nickname:  creature.Nickname,
		Level:     creature.Level,
		Rating:    critter.ComputeRating(ratings),
		Category:  critter.Classify(ratings),
		Favorite:  creature.Favorite,
		OnTeam:    creature.OnTeam(),
		StatColors: map[string]string{
			"hp":  critter.StatColor(creature.HP),
			"spd": critter.StatColor(creature.Speed),
			"ea":  critter.StatColor(creature.EA),
			"ed":  critter.StatColor(creature.ED),
			"pa":  critter.StatColor(creature.PA),
			"pd":  critter.StatColor(creature.PD),
		},
	}
	if meta, ok := s.catalog.Species(creature.SpeciesID); ok {
		v.Name = meta.Name()
		v.Element = meta.Element
		v.Rarity = meta.Rarity
		v.Stats = critter.ComputeTotalStats(creature.Level, meta.Tiers(), ratings, creature.Bonuses())
		v.ImageURL = s.catalog.ImageURL(meta.Name())
	} else {
		// Species missing from the catalog still computes a grade; the
		// stat line needs growth tiers, so it stays zero.
		v.Name = "Unknown"
	}
	if v.Nickname == "" {
		v.Nickname = v.Name
	}
	return v
}

type summaryResponse struct {
	Username      string                   `json:"username"`
	Total         int                      `json:"total"`
	UniqueSpecies int                      `json:"unique_species"`
	Ratings       map[critter.Rating]int   `json:"ratings"`
	Categories    map[critter.Category]int `json:"categories"`
}

func (s *PlayerService) handleSummary(c *gin.Context) {
	sess, ok := loadRequestSession(c, s.sessions)
	if !ok {
		return
	}
	record, ok := s.fetch(c, sess)
	if !ok {
		return
	}

	ratings := make([]critter.Ratings, 0, len(record.Miscrits))
	gradeCounts := make(map[critter.Rating]int)
	for _, creature := range record.Miscrits {
		r := creature.Ratings()
		ratings = append(ratings, r)
		gradeCounts[critter.ComputeRating(r)]++
	}

	RespondSuccess(c, http.StatusOK, summaryResponse{
		Username:      record.Username,
		Total:         len(record.Miscrits),
		UniqueSpecies: len(record.SpeciesIndex()),
		Ratings:       gradeCounts,
		Categories:    critter.CollectionStats(ratings),
	}, "")
}

// fetch pulls the player record and maps domain failures onto HTTP
// statuses. A false return means the response is written.
func (s *PlayerService) fetch(c *gin.Context, sess session.Session) (*player.PlayerRecord, bool) {
	record, err := s.gateway.FetchPlayerData(c.Request.Context(), sess)
	if err == nil {
		return record, true
	}

	var rpcErr *backend.RPCError
	var serverErr *player.ServerError
	var malformed *player.MalformedPayloadError
	switch {
	case errors.Is(err, backend.ErrNotAuthenticated):
		RespondError(c, http.StatusUnauthorized, "not logged in", nil)
	case errors.As(err, &rpcErr):
		if s.logger != nil {
			s.logger.WarnTag("PLAYER", "rpc failed with status %d", rpcErr.Status)
		}
		if rpcErr.Status == http.StatusUnauthorized {
			RespondError(c, http.StatusUnauthorized, "session rejected by backend", nil)
		} else {
			RespondError(c, http.StatusBadGateway, "backend rpc failed", nil)
		}
	case errors.As(err, &serverErr):
		RespondError(c, http.StatusBadGateway, "backend reported an error", gin.H{"code": serverErr.Code})
	case errors.As(err, &malformed):
		if s.logger != nil {
			s.logger.ErrorTag("PLAYER", "malformed payload: %v", err)
		}
		RespondError(c, http.StatusBadGateway, "malformed backend payload", nil)
	default:
		if s.logger != nil {
			s.logger.ErrorTag("PLAYER", "fetch failed: %v", err)
		}
		RespondError(c, http.StatusBadGateway, "backend unreachable", nil)
	}
	return nil, false
}
