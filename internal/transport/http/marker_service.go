package httptransport

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"miscrits-atlas/internal/domain/marker"
	"miscrits-atlas/internal/platform/logging"
)

// MarkerService serves map markers. Reads are public; mutations sit on
// the admin-secured group.
type MarkerService struct {
	store  *marker.Store
	auth   *AdminAuth
	logger *logging.Logger
}

// NewMarkerService wires the marker endpoints.
func NewMarkerService(store *marker.Store, auth *AdminAuth, logger *logging.Logger) *MarkerService {
	return &MarkerService{
		store:  store,
		auth:   auth,
		logger: logger,
	}
}

// Start registers the marker routes. Mutations go on the secured group;
// when no secured group exists (admin auth unconfigured) they are not
// registered at all.
func (s *MarkerService) Start(ctx context.Context, engine *gin.Engine, apiGroup, secured *gin.RouterGroup) error {
	apiGroup.GET("/markers", s.handleList)
	apiGroup.GET("/markers/export", s.handleExport)
	if s.auth != nil {
		apiGroup.POST("/admin/login", s.handleAdminLogin)
	}

	if secured != nil {
		secured.POST("/markers", s.handleCreate)
		secured.PUT("/markers/:id", s.handleUpdate)
		secured.DELETE("/markers/:id", s.handleDelete)
		secured.DELETE("/markers", s.handleDeleteAll)
		secured.POST("/markers/import", s.handleImport)
	}

	if s.logger != nil {
		s.logger.InfoTag("MARKER", "marker routes registered (mutations=%v)", secured != nil)
	}
	return nil
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *MarkerService) handleAdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnTag("MARKER", "admin login rejected for %q", req.Username)
		}
		RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"token": token}, "logged in")
}

func (s *MarkerService) handleList(c *gin.Context) {
	markers, err := s.store.List(c.Request.Context(), c.Query("location"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list markers", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"markers": markers}, "")
}

func (s *MarkerService) handleCreate(c *gin.Context) {
	var m marker.Marker
	if err := c.ShouldBindJSON(&m); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid marker", nil)
		return
	}
	created, err := s.store.Create(c.Request.Context(), m)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusCreated, created, "marker created")
}

func (s *MarkerService) handleUpdate(c *gin.Context) {
	var m marker.Marker
	if err := c.ShouldBindJSON(&m); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid marker", nil)
		return
	}
	m.ID = c.Param("id")

	updated, err := s.store.Update(c.Request.Context(), m)
	if err != nil {
		RespondError(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusOK, updated, "marker updated")
}

func (s *MarkerService) handleDelete(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete marker", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "marker deleted")
}

func (s *MarkerService) handleDeleteAll(c *gin.Context) {
	if err := s.store.DeleteAll(c.Request.Context()); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete markers", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "all markers deleted")
}

func (s *MarkerService) handleExport(c *gin.Context) {
	data, err := s.store.Export(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to export markers", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="markers.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (s *MarkerService) handleImport(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "failed to read import body", nil)
		return
	}
	count, err := s.store.Import(c.Request.Context(), data)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid import payload", nil)
		return
	}
	if s.logger != nil {
		s.logger.InfoTag("MARKER", "imported %d markers", count)
	}
	RespondSuccess(c, http.StatusOK, gin.H{"imported": count}, "markers imported")
}
