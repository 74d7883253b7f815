package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"miscrits-atlas/internal/domain/session"
	"miscrits-atlas/internal/platform/storage"
)

type sqliteStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSQLite builds a SQLite-backed session store.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &sqliteStore{
		db:  db,
		ttl: ttl,
	}, nil
}

func (s *sqliteStore) Save(ctx context.Context, key string, sess session.Session, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("store key required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	sess.StoredAt = now
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	expiry := now.Add(ttl)
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(expiry) {
		expiry = sess.ExpiresAt
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_key = ?", key).Delete(&storage.SessionRecord{}).Error; err != nil {
			return err
		}
		record := &storage.SessionRecord{
			StoreKey:     key,
			Token:        sess.Token,
			RefreshToken: sess.RefreshToken,
			UserID:       sess.UserID,
			Username:     sess.Username,
			CreatedAt:    sess.CreatedAt,
			ExpiresAt:    &expiry,
			StoredAt:     sess.StoredAt,
		}
		return tx.Create(record).Error
	})
}

func (s *sqliteStore) Load(ctx context.Context, key string) (*session.Session, error) {
	var record storage.SessionRecord
	err := s.db.WithContext(ctx).Where("store_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if record.Token == "" || (record.ExpiresAt != nil && time.Now().After(*record.ExpiresAt)) {
		_ = s.Clear(ctx, key)
		return nil, nil
	}
	sess := &session.Session{
		Token:        record.Token,
		RefreshToken: record.RefreshToken,
		UserID:       record.UserID,
		Username:     record.Username,
		CreatedAt:    record.CreatedAt,
		StoredAt:     record.StoredAt,
	}
	if record.ExpiresAt != nil {
		sess.ExpiresAt = *record.ExpiresAt
	}
	if len(record.Metadata) > 0 {
		var meta map[string]any
		if err := json.Unmarshal(record.Metadata, &meta); err != nil {
			// Corrupt metadata invalidates the whole record.
			_ = s.Clear(ctx, key)
			return nil, nil
		}
	}
	return sess, nil
}

func (s *sqliteStore) Clear(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("store_key = ?", key).Delete(&storage.SessionRecord{}).Error
}

func (s *sqliteStore) List(ctx context.Context) ([]string, error) {
	var records []storage.SessionRecord
	if err := s.db.WithContext(ctx).Select("store_key", "expires_at").Find(&records).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	keys := make([]string, 0, len(records))
	for _, r := range records {
		if r.ExpiresAt == nil || now.Before(*r.ExpiresAt) {
			keys = append(keys, r.StoreKey)
		}
	}
	return keys, nil
}

func (s *sqliteStore) CleanupExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&storage.SessionRecord{}).
		Error
}

func (s *sqliteStore) Stats(ctx context.Context) (map[string]any, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&storage.SessionRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}
	return map[string]any{
		"type":  "sqlite",
		"total": total,
		"ttl":   int(s.ttl.Seconds()),
	}, nil
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}
