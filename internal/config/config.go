// ABOUTME: gymlog configuration: data directory, log level, and backup toggle.
// ABOUTME: Stored as JSON under the XDG config home; paths resolve through adrg/xdg.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "gymlog"

// Config stores gymlog tool configuration.
type Config struct {
	// DataDir is the root directory for data storage. gymlog.db and the
	// backups/ store live here. Supports ~ expansion. Defaults to
	// $XDG_DATA_HOME/gymlog.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is a logrus level name. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// Backups disables session snapshot backups when explicitly false.
	Backups *bool `json:"backups,omitempty"`
}

// DataDir returns the default data directory.
func DataDir() string {
	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appName)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
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

// BackupsEnabled reports whether session snapshots should be written.
func (c *Config) BackupsEnabled() bool {
	return c.Backups == nil || *c.Backups
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), appName+".db")
}

// BackupDir returns the snapshot store directory.
func (c *Config) BackupDir() string {
	return filepath.Join(c.GetDataDir(), "backups")
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.json")
}

// Load reads config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
