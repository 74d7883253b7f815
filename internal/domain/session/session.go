package session

import "time"

// Session is the authenticated identity bundle returned by the game
// backend. Only these fields are ever persisted, never the raw backend
// response.
type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	StoredAt     time.Time `json:"stored_at"`
}

// Valid reports whether the session carries a token that has not expired.
// A session is either fully present and unexpired or treated as absent.
func (s Session) Valid() bool {
	if s.Token == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.ExpiresAt)
}
