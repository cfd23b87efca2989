package config

import (
	"fmt"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
	StoreMemory = "memory"

	FavoritesRemote = "remote"
	FavoritesLocal  = "local"
)

// Config holds runtime settings for the APODKeeper CLI.
//
// Units: OnlineCheckInterval and RequestTimeout are time.Duration values.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	DBPath              string
	Store               string
	FavoritesMode       string
	RandomCount         int
	LogLevel            string
	Seal                bool

	S3 S3Config
}

// S3Config selects the bucket used when Store is StoreS3.
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	Prefix       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "apodkeeper.db"
	c.Store = StoreSQLite
	c.FavoritesMode = FavoritesRemote
	c.RandomCount = 5
	c.LogLevel = "warn"
	c.S3 = S3Config{Region: "us-east-1", Prefix: "apodkeeper"}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreS3, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.FavoritesMode {
	case FavoritesRemote, FavoritesLocal:
	default:
		return fmt.Errorf("unknown favorites mode %q", c.FavoritesMode)
	}
	if c.Store == StoreS3 && c.S3.Bucket == "" {
		return fmt.Errorf("s3 store needs a bucket")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
