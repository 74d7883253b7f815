package backend

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation requires a session
// token and none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthenticationError reports a rejected credential exchange. The raw
// response body is kept for diagnostics but never persisted.
type AuthenticationError struct {
	Status int
	Body   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: status %d: %s", e.Status, e.Body)
}

// RPCError reports a non-2xx response from an RPC procedure call.
type RPCError struct {
	Status int
	Body   string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc failed: status %d: %s", e.Status, e.Body)
}

// SessionInvalidError reports that a stored session was rejected by the
// backend during restore.
type SessionInvalidError struct {
	Cause error
}

func (e *SessionInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stored session rejected: %v", e.Cause)
	}
	return "stored session rejected"
}

func (e *SessionInvalidError) Unwrap() error {
	return e.Cause
}
