package player

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds recently fetched player records so the companion UI does
// not hammer get_player on every page view. Entries past the staleness
// window are never served; corrupt entries are dropped silently.
type Cache interface {
	Get(ctx context.Context, key string) (*PlayerRecord, bool)
	Put(ctx context.Context, key string, record *PlayerRecord) error
	Invalidate(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Driver    string
	Staleness time.Duration
	Redis     *RedisCacheConfig
}

type RedisCacheConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

const defaultStaleness = 30 * time.Minute

// NewCache builds a cache for the configured driver.
func NewCache(cfg CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return newMemoryCache(cfg), nil
	case "redis":
		return newRedisCache(cfg)
	default:
		return nil, fmt.Errorf("unknown player cache driver: %s", cfg.Driver)
	}
}

type cacheEntry struct {
	Record   *PlayerRecord `json:"record"`
	StoredAt time.Time     `json:"stored_at"`
}

type memoryCache struct {
	mutex     sync.RWMutex
	entries   map[string]cacheEntry
	staleness time.Duration
}

func newMemoryCache(cfg CacheConfig) *memoryCache {
	staleness := cfg.Staleness
	if staleness <= 0 {
		staleness = defaultStaleness
	}
	return &memoryCache{
		entries:   make(map[string]cacheEntry),
		staleness: staleness,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (*PlayerRecord, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(entry.StoredAt) > c.staleness {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}
	return entry.Record, true
}

func (c *memoryCache) Put(_ context.Context, key string, record *PlayerRecord) error {
	if key == "" || record == nil {
		return nil
	}
	c.mutex.Lock()
	c.entries[key] = cacheEntry{Record: record, StoredAt: time.Now()}
	c.mutex.Unlock()
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, key string) error {
	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
	return nil
}

func (c *memoryCache) Close(context.Context) error {
	return nil
}

type redisCache struct {
	client    *redis.Client
	staleness time.Duration
	prefix    string
}

func newRedisCache(cfg CacheConfig) (*redisCache, error) {
	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis cache requires an address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	staleness := cfg.Staleness
	if staleness <= 0 {
		staleness = defaultStaleness
	}
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "atlas:player:"
	}
	return &redisCache{client: client, staleness: staleness, prefix: prefix}, nil
}

func (c *redisCache) key(k string) string {
	return c.prefix + k
}

func (c *redisCache) Get(ctx context.Context, key string) (*PlayerRecord, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Record == nil {
		_ = c.Invalidate(ctx, key)
		return nil, false
	}
	if time.Since(entry.StoredAt) > c.staleness {
		_ = c.Invalidate(ctx, key)
		return nil, false
	}
	return entry.Record, true
}

func (c *redisCache) Put(ctx context.Context, key string, record *PlayerRecord) error {
	if key == "" || record == nil {
		return nil
	}
	data, err := json.Marshal(cacheEntry{Record: record, StoredAt: time.Now()})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.staleness).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *redisCache) Close(context.Context) error {
	return c.client.Close()
}
