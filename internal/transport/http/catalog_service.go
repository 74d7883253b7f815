package httptransport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"miscrits-atlas/internal/domain/catalog"
	"miscrits-atlas/internal/domain/player"
	"miscrits-atlas/internal/domain/session/store"
	"miscrits-atlas/internal/platform/logging"
)

// CatalogService serves the species database and its filter queries.
type CatalogService struct {
	catalog  *catalog.Catalog
	gateway  *player.Gateway
	sessions store.Store
	logger   *logging.Logger
}

// NewCatalogService wires the catalog endpoints. Gateway and sessions
// are optional; without them the ownership filter is inert.
func NewCatalogService(cat *catalog.Catalog, gateway *player.Gateway, sessions store.Store, logger *logging.Logger) *CatalogService {
	return &CatalogService{
		catalog:  cat,
		gateway:  gateway,
		sessions: sessions,
		logger:   logger,
	}
}

// Start registers the catalog routes.
func (s *CatalogService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.GET("/catalog", s.handleCatalog)
	apiGroup.GET("/catalog/locations", s.handleLocations)
	apiGroup.GET("/catalog/locations/:location/areas", s.handleAreas)
	apiGroup.GET("/catalog/elements", s.handleElements)

	if s.logger != nil {
		s.logger.InfoTag("CATALOG", "catalog routes registered")
	}
	return nil
}

type catalogResponse struct {
	Entries []catalog.Entry `json:"entries"`
	Summary catalog.Summary `json:"summary"`
}

func (s *CatalogService) handleCatalog(c *gin.Context) {
	query := catalog.Query{
		Location:  c.Query("location"),
		Area:      c.Query("area"),
		Rarity:    c.Query("rarity"),
		Element:   c.Query("element"),
		Day:       c.Query("day"),
		Search:    c.Query("search"),
		Ownership: c.Query("ownership"),
	}

	entries := s.catalog.Filter(query, s.ownedIndex(c, query))
	RespondSuccess(c, http.StatusOK, catalogResponse{
		Entries: entries,
		Summary: catalog.Summarize(entries),
	}, "")
}

// ownedIndex builds the species-id-to-copy-count map for the ownership
// filter. Any failure along the way disables the filter rather than
// failing the whole catalog request.
func (s *CatalogService) ownedIndex(c *gin.Context, query catalog.Query) map[int]int {
	if query.Ownership == "" || s.gateway == nil || s.sessions == nil {
		return nil
	}
	key := storeKey(c.GetHeader(sessionKeyHeader))
	if key == "" {
		return nil
	}
	stored, err := s.sessions.Load(c.Request.Context(), key)
	if err != nil || stored == nil {
		return nil
	}
	record, err := s.gateway.FetchPlayerData(c.Request.Context(), *stored)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnTag("CATALOG", "ownership lookup failed: %v", err)
		}
		return nil
	}
	owned := make(map[int]int)
	for _, creature := range record.Miscrits {
		owned[creature.SpeciesID]++
	}
	return owned
}

func (s *CatalogService) handleLocations(c *gin.Context) {
	RespondSuccess(c, http.StatusOK, gin.H{"locations": s.catalog.Locations()}, "")
}

func (s *CatalogService) handleAreas(c *gin.Context) {
	location := c.Param("location")
	areas := s.catalog.Areas(location)
	RespondSuccess(c, http.StatusOK, gin.H{
		"location": location,
		"areas":    areas,
	}, "")
}

func (s *CatalogService) handleElements(c *gin.Context) {
	RespondSuccess(c, http.StatusOK, gin.H{"elements": s.catalog.Elements()}, "")
}
