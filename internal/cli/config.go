package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/openml/config.toml (or $XDG_CONFIG_HOME/openml/config.toml).
type Config struct {
	// Server is the base URL of the registry server used by push and pull.
	Server string `toml:"server"`

	// CacheTTL bounds how long pulled flows and traces stay cached.
	CacheTTL duration `toml:"cache_ttl"`

	Mongo MongoConfig `toml:"mongo"`
	Redis RedisConfig `toml:"redis"`
}

// MongoConfig selects the durable store behind "openml serve". An empty URI
// means the server runs on the in-memory store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig selects the shared cache. An empty address disables it.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration for TOML decoding ("30m", "24h").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server:   "http://localhost:8080",
		CacheTTL: duration(24 * time.Hour),
		Mongo:    MongoConfig{Database: "openml"},
	}
}

// LoadConfig reads the config file, layering it over the defaults. A
// missing or unreadable file silently yields the defaults; a present but
// malformed file does too, so a broken config never blocks the CLI.
func LoadConfig() *Config {
	cfg := defaultConfig()
	path, err := configPath()
	if err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return defaultConfig()
	}
	return cfg
}

// configPath returns the config file path using XDG standard
// (~/.config/openml/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
