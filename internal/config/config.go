// ABOUTME: Liftlog configuration: server credentials, device identity, sync tuning.
// ABOUTME: JSON file under XDG config dir with .env / environment overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/liftlog/liftlog/internal/store"
)

// Config stores liftlog settings.
type Config struct {
	ServerURL string `json:"server_url,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`

	// DataDir is the root directory for the local store database.
	// Defaults to the standard XDG data directory.
	DataDir string `json:"data_dir,omitempty"`

	// SyncIntervalSeconds is the periodic drain interval. Defaults to 30.
	SyncIntervalSeconds int `json:"sync_interval_seconds,omitempty"`

	// MaxAttempts quarantines queue items after this many failed sync
	// attempts. Zero retries forever.
	MaxAttempts int `json:"max_attempts,omitempty"`
}

// ConfigPath returns the config file path under XDG config dir.
func ConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from disk, then applies environment overrides.
// A missing config file yields defaults, not an error.
func Load() (*Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(ConfigPath())
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("LIFTLOG_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("LIFTLOG_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_USER"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("LIFTLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	return cfg, nil
}

// Save persists config to disk, generating a device ID on first save.
func (c *Config) Save() error {
	if c.DeviceID == "" {
		c.DeviceID = GenerateDeviceID()
	}

	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// GetDataDir returns the configured data directory, defaulting to the
// standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return store.DataDir()
	}
	return c.DataDir
}

// SyncInterval returns the periodic drain interval.
func (c *Config) SyncInterval() time.Duration {
	if c.SyncIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// OpenStore opens the local store at the configured data directory.
// One store instance serves the whole process; open it once at startup
// and inject it into the processor, populator, and binder.
func (c *Config) OpenStore() (*store.Store, error) {
	return store.Open(filepath.Join(c.GetDataDir(), "liftlog.db"))
}

// GenerateDeviceID creates a new unique device ID.
func GenerateDeviceID() string {
	return ulid.Make().String()
}
