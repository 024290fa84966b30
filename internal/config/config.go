package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/cardsort/internal/user"
)

const (
	DefaultAddr          = "127.0.0.1:8080"
	DefaultCommitTimeout = 10 * time.Second
	DefaultCacheTTL      = 5 * time.Minute
	DefaultLogLevel      = "info"
)

// Config represents the application configuration
type Config struct {
	// Owner scopes every board operation; defaults to the OS user
	Owner string `yaml:"owner"`

	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Log     LogConfig     `yaml:"log"`
	Theme   ColorScheme   `yaml:"theme"`
}

// StorageConfig picks the backend: Postgres when DatabaseURL is set,
// otherwise SQLite at Path
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Path        string `yaml:"path"`
}

type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ClientConfig controls how commands reach the board. With APIURL empty,
// commands open storage directly.
type ClientConfig struct {
	APIURL        string        `yaml:"api_url"`
	CommitTimeout time.Duration `yaml:"commit_timeout"`
}

type DaemonConfig struct {
	Socket string `yaml:"socket"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads the config file, a .env file in the working directory and
// CARDSORT_* environment overrides, in that order. A missing config file is
// not an error.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var config Config

	configPath, err := getConfigPath()
	if err == nil {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// DataDir is ~/.cardsort, home of the database, socket and logs
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cardsort"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "cardsort", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "cardsort", "config.yaml"), nil
}

func (c *Config) applyEnv() error {
	setString(&c.Owner, "CARDSORT_OWNER")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.Path, "CARDSORT_DB")
	setString(&c.Cache.RedisURL, "REDIS_URL")
	setString(&c.Server.Addr, "CARDSORT_ADDR")
	setString(&c.Client.APIURL, "CARDSORT_API_URL")
	setString(&c.Daemon.Socket, "CARDSORT_SOCKET")
	setString(&c.Log.Level, "CARDSORT_LOG_LEVEL")

	if v := os.Getenv("CARDSORT_COMMIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CARDSORT_COMMIT_TIMEOUT %q: %w", v, err)
		}
		c.Client.CommitTimeout = d
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.Owner == "" {
		c.Owner = user.GetCurrentUsername()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Client.CommitTimeout <= 0 {
		c.Client.CommitTimeout = DefaultCommitTimeout
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Theme.ApplyDefaults()

	if c.Storage.Path != "" && c.Daemon.Socket != "" && c.Log.File != "" {
		return nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(dataDir, "cards.db")
	}
	if c.Daemon.Socket == "" {
		c.Daemon.Socket = filepath.Join(dataDir, "cardsort.sock")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dataDir, "logs", "cardsort.log")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
