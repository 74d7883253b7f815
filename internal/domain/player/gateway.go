package player

import (
	"context"
	"encoding/json"

	"miscrits-atlas/internal/domain/backend"
	"miscrits-atlas/internal/domain/session"
	"miscrits-atlas/internal/platform/logging"
)

// RPCCaller is the slice of the backend client the gateway needs.
type RPCCaller interface {
	Call(ctx context.Context, sess session.Session, procedureID string, payload json.RawMessage) (json.RawMessage, error)
}

// Gateway fetches and decodes the player's collection from the game
// backend, with a short-lived cache in front.
type Gateway struct {
	caller RPCCaller
	cache  Cache
	logger *logging.Logger
}

// NewGateway wires the gateway. The cache may be nil to disable caching.
func NewGateway(caller RPCCaller, cache Cache, logger *logging.Logger) *Gateway {
	return &Gateway{caller: caller, cache: cache, logger: logger}
}

// rpcEnvelope is the game's RPC response wrapper. The data field is a
// tagged union: either an embedded JSON string or a plain object. That
// ambiguity is resolved here and nowhere else.
type rpcEnvelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// FetchPlayerData returns the decoded collection for the session's user.
// A cached record inside the staleness window is served as-is; otherwise
// the gateway calls get_player and caches the result. Failures never
// leave a partial record behind.
func (g *Gateway) FetchPlayerData(ctx context.Context, sess session.Session) (*PlayerRecord, error) {
	if sess.Token == "" {
		return nil, backend.ErrNotAuthenticated
	}

	cacheKey := sess.UserID
	if cacheKey == "" {
		cacheKey = sess.Username
	}
	if g.cache != nil && cacheKey != "" {
		if record, ok := g.cache.Get(ctx, cacheKey); ok {
			if g.logger != nil {
				g.logger.DebugTag("PLAYER", "serving cached collection for %s", cacheKey)
			}
			return record, nil
		}
	}

	raw, err := g.caller.Call(ctx, sess, "get_player", json.RawMessage("{}"))
	if err != nil {
		return nil, err
	}

	record, err := decodePlayerResponse(raw)
	if err != nil {
		return nil, err
	}

	if g.cache != nil && cacheKey != "" {
		if err := g.cache.Put(ctx, cacheKey, record); err != nil && g.logger != nil {
			g.logger.WarnTag("PLAYER", "cache write failed: %v", err)
		}
	}
	return record, nil
}

// Invalidate drops any cached record for the session's user, forcing the
// next fetch to go to the backend.
func (g *Gateway) Invalidate(ctx context.Context, sess session.Session) {
	if g.cache == nil {
		return
	}
	if sess.UserID != "" {
		_ = g.cache.Invalidate(ctx, sess.UserID)
	}
	if sess.Username != "" && sess.Username != sess.UserID {
		_ = g.cache.Invalidate(ctx, sess.Username)
	}
}

func decodePlayerResponse(raw json.RawMessage) (*PlayerRecord, error) {
	var envelope rpcEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &MalformedPayloadError{Cause: err}
	}
	if !envelope.Success {
		return nil, &ServerError{Code: envelope.Code}
	}

	payload := envelope.Data
	var embedded string
	if err := json.Unmarshal(envelope.Data, &embedded); err == nil {
		// data arrived as a JSON string carrying the real object.
		payload = json.RawMessage(embedded)
	}

	var record PlayerRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, &MalformedPayloadError{Cause: err}
	}
	return &record, nil
}
