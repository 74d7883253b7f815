package httptransport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"miscrits-atlas/internal/domain/backend"
	"miscrits-atlas/internal/domain/session"
	"miscrits-atlas/internal/domain/session/store"
	"miscrits-atlas/internal/platform/logging"
)

// sessionKeyHeader carries the store key on authenticated viewer calls.
const sessionKeyHeader = "X-Session-Key"

// SessionService exposes login, logout and session restore. Sessions are
// persisted server-side; the browser only ever holds the store key.
type SessionService struct {
	client *backend.Client
	store  store.Store
	ttl    time.Duration
	logger *logging.Logger
}

// NewSessionService wires the session endpoints.
func NewSessionService(client *backend.Client, sessions store.Store, ttl time.Duration, logger *logging.Logger) *SessionService {
	return &SessionService{
		client: client,
		store:  sessions,
		ttl:    ttl,
		logger: logger,
	}
}

// Start registers the session routes.
func (s *SessionService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.POST("/login", s.handleLogin)
	apiGroup.POST("/logout", s.handleLogout)
	apiGroup.POST("/session/restore", s.handleRestore)

	if s.logger != nil {
		s.logger.InfoTag("SESSION", "session routes registered")
	}
	return nil
}

// storeKey derives the durable store key from the login email.
func storeKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionView struct {
	SessionKey string    `json:"session_key"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (s *SessionService) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, http.StatusBadRequest, "email and password required", nil)
		return
	}

	sess, err := s.client.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *backend.AuthenticationError
		if errors.As(err, &authErr) {
			if s.logger != nil {
				s.logger.WarnTag("SESSION", "login rejected for %s (status %d)", storeKey(req.Email), authErr.Status)
			}
			RespondError(c, http.StatusUnauthorized, "authentication failed", nil)
			return
		}
		if s.logger != nil {
			s.logger.ErrorTag("SESSION", "login failed: %v", err)
		}
		RespondError(c, http.StatusBadGateway, "backend unreachable", nil)
		return
	}

	key := storeKey(req.Email)
	if err := s.store.Save(c.Request.Context(), key, sess, s.ttl); err != nil {
		if s.logger != nil {
			s.logger.ErrorTag("SESSION", "session persist failed: %v", err)
		}
		RespondError(c, http.StatusInternalServerError, "failed to persist session", nil)
		return
	}

	stored, err := s.store.Load(c.Request.Context(), key)
	if err != nil || stored == nil {
		RespondError(c, http.StatusInternalServerError, "failed to persist session", nil)
		return
	}
	if s.logger != nil {
		s.logger.InfoTag("SESSION", "login ok for %s", key)
	}
	RespondSuccess(c, http.StatusOK, sessionView{
		SessionKey: key,
		UserID:     stored.UserID,
		Username:   stored.Username,
		ExpiresAt:  stored.ExpiresAt,
	}, "logged in")
}

type keyRequest struct {
	SessionKey string `json:"session_key"`
}

func (s *SessionService) handleRestore(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionKey == "" {
		RespondError(c, http.StatusBadRequest, "session_key required", nil)
		return
	}
	key := storeKey(req.SessionKey)

	stored, err := s.store.Load(c.Request.Context(), key)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session store unavailable", nil)
		return
	}
	if stored == nil {
		RespondError(c, http.StatusUnauthorized, "no stored session", nil)
		return
	}

	sess, err := s.client.Restore(c.Request.Context(), *stored)
	if err != nil {
		// The backend no longer accepts the token; the stored record is
		// dead weight from here on.
		_ = s.store.Clear(c.Request.Context(), key)
		if s.logger != nil {
			s.logger.WarnTag("SESSION", "restore rejected for %s: %v", key, err)
		}
		RespondError(c, http.StatusUnauthorized, "stored session no longer valid", nil)
		return
	}
	if s.logger != nil {
		s.logger.InfoTag("SESSION", "restored session for %s", key)
	}
	RespondSuccess(c, http.StatusOK, sessionView{
		SessionKey: key,
		UserID:     sess.UserID,
		Username:   sess.Username,
		ExpiresAt:  sess.ExpiresAt,
	}, "session restored")
}

func (s *SessionService) handleLogout(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionKey == "" {
		RespondError(c, http.StatusBadRequest, "session_key required", nil)
		return
	}
	key := storeKey(req.SessionKey)

	s.client.Logout()
	if err := s.store.Clear(c.Request.Context(), key); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to clear session", nil)
		return
	}
	if s.logger != nil {
		s.logger.InfoTag("SESSION", "logged out %s", key)
	}
	RespondSuccess(c, http.StatusOK, nil, "logged out")
}

// loadRequestSession resolves the caller's stored session through the
// X-Session-Key header. A false return means the response is written.
func loadRequestSession(c *gin.Context, sessions store.Store) (session.Session, bool) {
	key := storeKey(c.GetHeader(sessionKeyHeader))
	if key == "" {
		RespondError(c, http.StatusUnauthorized, "not logged in", nil)
		return session.Session{}, false
	}
	stored, err := sessions.Load(c.Request.Context(), key)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session store unavailable", nil)
		return session.Session{}, false
	}
	if stored == nil {
		RespondError(c, http.StatusUnauthorized, "session expired", nil)
		return session.Session{}, false
	}
	return *stored, true
}
