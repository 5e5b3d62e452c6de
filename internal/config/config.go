// ABOUTME: Todo configuration management with backend selection
// ABOUTME: Handles settings, log level, and storage backend factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/harper/todo/internal/storage"
)

// Backend names accepted in config and on the command line.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config stores todo configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts todo.db here. Badger keeps its files under badger/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/todo.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

const (
	dbFilename = "todo.db"
	badgerDir  = "badger"
)

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// defaultDataDir returns the default XDG data directory for todo.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "todo")
}

// defaultFirstRunConfig returns the default config for first-time runs.
// If an existing Badger directory is found, it keeps Badger as the backend.
// Otherwise it defaults to SQLite.
func defaultFirstRunConfig() *Config {
	hasBadger, err := storage.IsDirNonEmpty(filepath.Join(defaultDataDir(), badgerDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	if hasBadger {
		return &Config{Backend: BackendBadger}
	}
	return &Config{Backend: BackendSQLite}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// StoragePath returns where the configured backend keeps its data.
func (c *Config) StoragePath() string {
	if c.GetBackend() == BackendBadger {
		return filepath.Join(c.GetDataDir(), badgerDir)
	}
	return filepath.Join(c.GetDataDir(), dbFilename)
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return storage.NewSQLiteDB(c.StoragePath())
	case BackendBadger:
		return storage.NewBadgerStore(c.StoragePath())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "todo", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from XDG config dir
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { //nolint:gosec // user config directory
		return fmt.Errorf("create config directory: %w", err)
	}
	return renameio.WriteFile(path, data, 0600)
}
