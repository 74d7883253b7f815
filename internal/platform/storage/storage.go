package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"miscrits-atlas/internal/platform/storage/migrations"
)

// Open initializes the SQLite database used for sessions and map markers.
func Open(dataDir, dbFile string) (*gorm.DB, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if dbFile == "" {
		dbFile = "atlas.db"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

var memorySeq atomic.Int64

// OpenMemory opens a throwaway in-memory database for tests. Each call
// gets its own database so tests do not see each other's rows.
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:mem%d?mode=memory&cache=shared", memorySeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SessionRecord{}, &MapMarker{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	mgr := NewMigrationManager(db)
	mgr.AddMigration(&migrations.Migration001Initial{})

	if err := mgr.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SessionRecord is the GORM model for a persisted backend session.
type SessionRecord struct {
	ID           uint           `gorm:"primaryKey"`
	StoreKey     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"store_key"`
	Token        string         `gorm:"type:text;not null"                     json:"token"`
	RefreshToken string         `gorm:"type:text"                              json:"refresh_token"`
	UserID       string         `gorm:"type:varchar(255)"                      json:"user_id"`
	Username     string         `gorm:"type:varchar(255)"                      json:"username"`
	CreatedAt    time.Time      `                                              json:"created_at"`
	ExpiresAt    *time.Time     `                                              json:"expires_at,omitempty"`
	StoredAt     time.Time      `                                              json:"stored_at"`
	Metadata     datatypes.JSON `                                              json:"metadata,omitempty"`
}

// MapMarker is the GORM model for an admin-placed map marker.
type MapMarker struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"      json:"id"`
	SpeciesID int            `gorm:"index"                            json:"species_id"`
	Location  string         `gorm:"type:varchar(255);index;not null" json:"location"`
	Area      string         `gorm:"type:varchar(16)"                 json:"area"`
	X         float64        `                                        json:"x"`
	Y         float64        `                                        json:"y"`
	Days      datatypes.JSON `                                        json:"days,omitempty"`
	Note      string         `gorm:"type:text"                        json:"note"`
	CreatedAt time.Time      `                                        json:"created_at"`
	UpdatedAt time.Time      `                                        json:"updated_at"`
}
