package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Player  PlayerConfig  `yaml:"player"`
	Admin   AdminConfig   `yaml:"admin"`
}

type ServerConfig struct {
	IP        string `yaml:"ip"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// BackendConfig describes the game backend the client authenticates
// against. The server key is the game's compiled-in application key, not a
// per-user secret; it can still be overridden through the environment.
type BackendConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	UseSSL    bool          `yaml:"use_ssl"`
	ServerKey string        `yaml:"server_key"`
	Timeout   time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Store StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	Type    string           `yaml:"type"`
	TTL     time.Duration    `yaml:"ttl"`
	Cleanup time.Duration    `yaml:"cleanup"`
	Redis   RedisStoreConfig `yaml:"redis,omitempty"`
}

type RedisStoreConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBFile  string `yaml:"db_file"`
}

type CatalogConfig struct {
	URL      string `yaml:"url"`
	File     string `yaml:"file,omitempty"`
	AssetCDN string `yaml:"asset_cdn"`
	SiteURL  string `yaml:"site_url"`
}

type PlayerConfig struct {
	Cache CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	Type      string           `yaml:"type"`
	Staleness time.Duration    `yaml:"staleness"`
	Redis     RedisStoreConfig `yaml:"redis,omitempty"`
}

// AdminConfig gates marker mutations behind a single operator account.
type AdminConfig struct {
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}
