package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"miscrits-atlas/internal/domain/session"
	errs "miscrits-atlas/internal/platform/errors"
)

// Config describes the game backend host and its application key.
type Config struct {
	Host      string
	Port      int
	UseSSL    bool
	ServerKey string
	Timeout   time.Duration
}

// Client speaks the game backend's HTTP API: credential authentication,
// session restore and RPC procedure calls. It keeps the current session
// in memory; durable persistence is the session store's job.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serverKey  string

	mutex   sync.RWMutex
	current *session.Session
}

// NewClient builds a backend client from the fixed host configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errs.New(errs.KindConfig, "backend:new", "backend host required")
	}
	if cfg.ServerKey == "" {
		return nil, errs.New(errs.KindConfig, "backend:new", "backend server key required")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	port := cfg.Port
	if port == 0 {
		if cfg.UseSSL {
			port = 443
		} else {
			port = 80
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, port),
		serverKey:  cfg.ServerKey,
	}, nil
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// Authenticate exchanges credentials for a session. The server key goes
// out as the HTTP Basic username with an empty password, matching the
// game client's handshake. Any non-2xx status, and any 2xx response
// without a token, is an AuthenticationError.
func (c *Client) Authenticate(ctx context.Context, email, password string) (session.Session, error) {
	const op = "backend:authenticate"

	body, err := json.Marshal(authenticateRequest{Email: email, Password: password})
	if err != nil {
		return session.Session{}, errs.Wrap(errs.KindBackend, op, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/account/authenticate/email", bytes.NewReader(body))
	if err != nil {
		return session.Session{}, errs.Wrap(errs.KindBackend, op, "build request", err)
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Session{}, errs.Wrap(errs.KindBackend, op, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return session.Session{}, errs.Wrap(errs.KindBackend, op, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return session.Session{}, &AuthenticationError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded authenticateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return session.Session{}, &AuthenticationError{Status: resp.StatusCode, Body: string(raw)}
	}
	if decoded.Token == "" {
		return session.Session{}, &AuthenticationError{Status: resp.StatusCode, Body: string(raw)}
	}

	sess := session.Session{
		Token:        decoded.Token,
		RefreshToken: decoded.RefreshToken,
		UserID:       decoded.User.ID,
		Username:     decoded.User.Username,
		CreatedAt:    time.Now(),
	}
	c.setSession(sess)
	return sess, nil
}

// Call invokes an RPC procedure with a raw JSON payload. A non-2xx
// response becomes an RPCError; the client's session state is left
// untouched either way.
func (c *Client) Call(ctx context.Context, sess session.Session, procedureID string, payload json.RawMessage) (json.RawMessage, error) {
	const op = "backend:call"

	if sess.Token == "" {
		return nil, ErrNotAuthenticated
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/rpc/"+procedureID+"?unwrap", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, op, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, op, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, op, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RPCError{Status: resp.StatusCode, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}

// Restore adopts a stored session and probes the account endpoint to
// confirm the backend still accepts the token. A rejected probe clears
// the in-memory state and yields a SessionInvalidError.
func (c *Client) Restore(ctx context.Context, stored session.Session) (session.Session, error) {
	const op = "backend:restore"

	if stored.Token == "" {
		return session.Session{}, &SessionInvalidError{Cause: ErrNotAuthenticated}
	}
	c.setSession(stored)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/account", nil)
	if err != nil {
		c.Logout()
		return session.Session{}, errs.Wrap(errs.KindBackend, op, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+stored.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.Logout()
		return session.Session{}, &SessionInvalidError{Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logout()
		return session.Session{}, &SessionInvalidError{
			Cause: fmt.Errorf("account probe returned status %d", resp.StatusCode),
		}
	}
	return stored, nil
}

// Logout drops the in-memory session state. The backend keeps no
// server-side session to tear down.
func (c *Client) Logout() {
	c.mutex.Lock()
	c.current = nil
	c.mutex.Unlock()
}

// IsAuthenticated reports whether a session with a token is held.
func (c *Client) IsAuthenticated() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.current != nil && c.current.Token != ""
}

// Session returns a copy of the current session, if one is held.
func (c *Client) Session() (session.Session, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.current == nil {
		return session.Session{}, false
	}
	return *c.current, true
}

func (c *Client) setSession(sess session.Session) {
	c.mutex.Lock()
	c.current = &sess
	c.mutex.Unlock()
}
