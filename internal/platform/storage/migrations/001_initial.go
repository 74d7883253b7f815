package migrations

import (
	"gorm.io/gorm"
)

// Migration001Initial creates the session and marker tables.
type Migration001Initial struct{}

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create session and map marker tables"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			store_key VARCHAR(255) NOT NULL UNIQUE,
			token TEXT NOT NULL,
			refresh_token TEXT,
			user_id VARCHAR(255),
			username VARCHAR(255),
			created_at DATETIME NOT NULL,
			expires_at DATETIME,
			stored_at DATETIME NOT NULL,
			metadata JSON
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS map_markers (
			id VARCHAR(64) PRIMARY KEY,
			species_id INTEGER,
			location VARCHAR(255) NOT NULL,
			area VARCHAR(16),
			x REAL,
			y REAL,
			days JSON,
			note TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_map_markers_location ON map_markers(location)`).Error; err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_map_markers_species_id ON map_markers(species_id)`).Error
}

func (m *Migration001Initial) Down(db *gorm.DB) error {
	if err := db.Exec(`DROP TABLE IF EXISTS map_markers`).Error; err != nil {
		return err
	}
	return db.Exec(`DROP TABLE IF EXISTS session_records`).Error
}
