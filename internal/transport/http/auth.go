package httptransport

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"miscrits-atlas/internal/platform/config"
	errs "miscrits-atlas/internal/platform/errors"
)

// AdminClaims are the JWT claims issued to the marker admin.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminAuth issues and verifies the admin tokens that gate marker
// mutations. A single operator credential comes from config.
type AdminAuth struct {
	username string
	password string
	secret   []byte
	tokenTTL time.Duration
}

// NewAdminAuth builds the admin authenticator. It refuses to run without
// a password and secret so a default config cannot expose mutations.
func NewAdminAuth(cfg config.AdminConfig) (*AdminAuth, error) {
	const op = "http:admin_auth"
	if cfg.Password == "" {
		return nil, errs.New(errs.KindConfig, op, "admin password not configured")
	}
	if cfg.JWTSecret == "" {
		return nil, errs.New(errs.KindConfig, op, "admin jwt secret not configured")
	}
	username := cfg.Username
	if username == "" {
		username = "admin"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AdminAuth{
		username: username,
		password: cfg.Password,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
	}, nil
}

// Login checks the credential and issues a signed token.
func (a *AdminAuth) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", errs.New(errs.KindTransport, "http:admin_login", "invalid credentials")
	}
	return a.generateToken(username)
}

func (a *AdminAuth) generateToken(username string) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses and validates a token string.
func (a *AdminAuth) Verify(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AdminClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}

// Middleware rejects requests without a valid admin bearer token.
func (a *AdminAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			RespondError(c, http.StatusUnauthorized, "missing admin token", nil)
			c.Abort()
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := a.Verify(token)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "invalid admin token", nil)
			c.Abort()
			return
		}
		c.Set("admin_username", claims.Username)
		c.Next()
	}
}
