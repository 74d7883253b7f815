package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"miscrits-atlas/internal/domain/session"
)

type memoryEntry struct {
	sess      session.Session
	expiresAt time.Time
}

type memoryStore struct {
	items       map[string]memoryEntry
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory session store.
func NewMemory(cfg Config) Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]memoryEntry),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.CleanupExpired(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Save(_ context.Context, key string, sess session.Session, ttl time.Duration) error {
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

	s.mutex.Lock()
	s.items[key] = memoryEntry{sess: sess, expiresAt: now.Add(ttl)}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Load(_ context.Context, key string) (*session.Session, error) {
	s.mutex.RLock()
	entry, ok := s.items[key]
	s.mutex.RUnlock()
	if !ok {
		return nil, nil
	}
	now := time.Now()
	if now.After(entry.expiresAt) || !entry.sess.ExpiresAt.IsZero() && now.After(entry.sess.ExpiresAt) {
		s.mutex.Lock()
		delete(s.items, key)
		s.mutex.Unlock()
		return nil, nil
	}
	sess := entry.sess
	return &sess, nil
}

func (s *memoryStore) Clear(_ context.Context, key string) error {
	s.mutex.Lock()
	delete(s.items, key)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	now := time.Now()
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key, entry := range s.items {
		if now.Before(entry.expiresAt) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	now := time.Now()
	s.mutex.Lock()
	for key, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, key)
		}
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Stats(_ context.Context) (map[string]any, error) {
	now := time.Now()
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := len(s.items)
	active := 0
	for _, entry := range s.items {
		if now.Before(entry.expiresAt) {
			active++
		}
	}
	return map[string]any{
		"type":        "memory",
		"total":       total,
		"active":      active,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
