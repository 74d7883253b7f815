package player

import "fmt"

// ServerError reports a get_player envelope with success=false. The code
// is the game's own error code, passed through untouched.
type ServerError struct {
	Code int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected player fetch: code %d", e.Code)
}

// MalformedPayloadError reports a payload that could not be decoded into
// a player record. No partial record is ever returned alongside it.
type MalformedPayloadError struct {
	Cause error
}

func (e *MalformedPayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed player payload: %v", e.Cause)
	}
	return "malformed player payload"
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Cause
}
