package store

import (
	"fmt"

	"gorm.io/gorm"
)

// Dependencies carries externally managed resources a store may need.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New builds a session store for the configured driver.
func New(cfg Config, deps Dependencies) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg), nil
	case "sqlite":
		if deps.SQLiteDB == nil {
			return nil, fmt.Errorf("sqlite session store requires an open database")
		}
		return NewSQLite(deps.SQLiteDB, cfg)
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unknown session store driver: %s", cfg.Driver)
	}
}
