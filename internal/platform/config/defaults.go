package config

import "time"

// DefaultConfig returns the built-in configuration. Values mirror the live
// game service so a bare checkout works without a config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:        "0.0.0.0",
			Port:      8080,
			StaticDir: "./web",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "atlas.log",
		},
		Backend: BackendConfig{
			Host:      "worldofmiscrits.com",
			Port:      443,
			UseSSL:    true,
			ServerKey: "a1c737cc188f54ab3658ba5da0e12ee5",
			Timeout:   30 * time.Second,
		},
		Session: SessionConfig{
			Store: StoreConfig{
				Type:    "sqlite",
				TTL:     7 * 24 * time.Hour,
				Cleanup: 5 * time.Minute,
			},
		},
		Storage: StorageConfig{
			DataDir: "./data",
			DBFile:  "atlas.db",
		},
		Catalog: CatalogConfig{
			URL:      "https://cdn.worldofmiscrits.com/miscrits.json",
			AssetCDN: "https://cdn.worldofmiscrits.com",
			SiteURL:  "https://worldofmiscrits.com",
		},
		Player: PlayerConfig{
			Cache: CacheConfig{
				Type:      "memory",
				Staleness: 30 * time.Minute,
			},
		},
		Admin: AdminConfig{
			Username: "admin",
			TokenTTL: 24 * time.Hour,
		},
	}
}
