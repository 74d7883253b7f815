package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"miscrits-atlas/internal/platform/config"
)

func testAdminAuth(t *testing.T) *AdminAuth {
	t.Helper()
	auth, err := NewAdminAuth(config.AdminConfig{
		Username:  "admin",
		Password:  "hunter2",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewAdminAuth failed: %v", err)
	}
	return auth
}

func TestNewAdminAuth_RequiresSecrets(t *testing.T) {
	if _, err := NewAdminAuth(config.AdminConfig{JWTSecret: "s"}); err == nil {
		t.Error("expected error without password")
	}
	if _, err := NewAdminAuth(config.AdminConfig{Password: "p"}); err == nil {
		t.Error("expected error without jwt secret")
	}
}

func TestAdminAuth_LoginAndVerify(t *testing.T) {
	auth := testAdminAuth(t)

	token, err := auth.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	claims, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %s", claims.Username)
	}

	if _, err := auth.Login("admin", "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := auth.Login("root", "hunter2"); err == nil {
		t.Error("expected error for wrong username")
	}
	if _, err := auth.Verify("not.a.token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestAdminAuth_Middleware(t *testing.T) {
	auth := testAdminAuth(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/secured", auth.Middleware(), func(c *gin.Context) {
		RespondSuccess(c, http.StatusOK, nil, "ok")
	})

	// No token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secured", nil)
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	// Bad token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}

	// Valid token.
	token, err := auth.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", w.Code)
	}
}
