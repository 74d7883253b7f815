package store

import (
	"context"
	"time"

	"miscrits-atlas/internal/domain/session"
)

// Store persists backend sessions outside of process memory.
//
// Load degrades silently: an absent, expired or unparsable record yields
// (nil, nil) and any bad record is deleted as a side effect. Errors are
// reserved for the storage layer itself misbehaving.
type Store interface {
	Save(ctx context.Context, key string, sess session.Session, ttl time.Duration) error
	Load(ctx context.Context, key string) (*session.Session, error)
	Clear(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	CleanupExpired(ctx context.Context) error
	Stats(ctx context.Context) (map[string]any, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
