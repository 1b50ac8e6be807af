package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences loaded from the config file.
// All fields have working defaults; the file is optional.
//
// Example ~/.config/plateforge/config.toml:
//
//	output_dir = "~/datasets/plates"
//	format = "jpg"
//	font_dirs = ["/usr/share/fonts/noto"]
//
//	[cache]
//	backend = "redis"
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
type Config struct {
	OutputDir string   `toml:"output_dir"`
	Format    string   `toml:"format"`
	Workers   int      `toml:"workers"`
	FontDirs  []string `toml:"font_dirs"`
	HanFont   string   `toml:"han_font"`
	LatinFont string   `toml:"latin_font"`

	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"` // file (default), redis, none
	Addr    string `toml:"addr"`    // redis address
	Dir     string `toml:"dir"`     // file backend directory override
}

// StoreConfig selects the manifest backend.
type StoreConfig struct {
	Backend    string `toml:"backend"` // jsonl (default), mongo
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{Backend: "file"},
		Store: StoreConfig{Backend: "jsonl"},
	}
}

// LoadConfig reads the config file at path. An empty path means the
// standard location; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		return fmt.Errorf("cache backend redis requires addr")
	}
	switch c.Store.Backend {
	case "", "jsonl", "mongo":
	default:
		return fmt.Errorf("unknown store backend %q (must be jsonl or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.MongoURI == "" {
		return fmt.Errorf("store backend mongo requires mongo_uri")
	}
	return nil
}
