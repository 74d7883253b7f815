package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"miscrits-atlas/internal/domain/session"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed session store.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "atlas:session:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

func (s *redisStore) Save(ctx context.Context, key string, sess session.Session, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("store key required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	sess.StoredAt = now
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = now.Add(ttl)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	expiry := ttl
	if until := time.Until(sess.ExpiresAt); until < expiry {
		expiry = until
	}
	return s.client.Set(ctx, s.key(key), data, expiry).Err()
}

func (s *redisStore) Load(ctx context.Context, key string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Unparsable records are treated as absent.
		_ = s.Clear(ctx, key)
		return nil, nil
	}
	if !sess.Valid() {
		_ = s.Clear(ctx, key)
		return nil, nil
	}
	return &sess, nil
}

func (s *redisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *redisStore) List(ctx context.Context) ([]string, error) {
	var cursor uint64
	keys := make([]string, 0)
	pattern := s.prefix + "*"
	for {
		res, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range res {
			keys = append(keys, strings.TrimPrefix(key, s.prefix))
		}
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return keys, nil
}

func (s *redisStore) CleanupExpired(context.Context) error {
	// Redis handles expiration via TTL.
	return nil
}

func (s *redisStore) Stats(ctx context.Context) (map[string]any, error) {
	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":  "redis",
		"total": size,
		"ttl":   int(s.ttl.Seconds()),
	}, nil
}

func (s *redisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
