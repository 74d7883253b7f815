package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader reads configuration from a yaml file layered over built-in
// defaults, with environment overrides for deploy-time secrets.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader that reads the default config file locations.
func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the config file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load resolves configuration: defaults, then yaml file, then environment.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()

	path := l.path
	if path == "" {
		for _, candidate := range []string{".config.yaml", "config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	l.applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

// applyEnv layers environment variables over file values. Only secrets and
// deploy-specific knobs are exposed this way.
func (l *Loader) applyEnv(cfg *Config) {
	if v := os.Getenv("ATLAS_BACKEND_HOST"); v != "" {
		cfg.Backend.Host = v
	}
	if v := os.Getenv("ATLAS_BACKEND_SERVER_KEY"); v != "" {
		cfg.Backend.ServerKey = v
	}
	if v := os.Getenv("ATLAS_ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ATLAS_ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("ATLAS_ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
	if v := os.Getenv("ATLAS_REDIS_ADDR"); v != "" {
		cfg.Session.Store.Redis.Addr = v
		cfg.Player.Cache.Redis.Addr = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Backend.Host == "" {
		return fmt.Errorf("backend host required")
	}
	if cfg.Backend.ServerKey == "" {
		return fmt.Errorf("backend server key required")
	}
	switch cfg.Session.Store.Type {
	case "", "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported session store type: %s", cfg.Session.Store.Type)
	}
	switch cfg.Player.Cache.Type {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unsupported player cache type: %s", cfg.Player.Cache.Type)
	}
	return nil
}
