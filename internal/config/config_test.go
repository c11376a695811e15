// ABOUTME: Tests for gymlog configuration management.
// ABOUTME: Covers load, save, defaults, derived paths, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}

	if got := cfg.GetDataDir(); got != filepath.Join("/tmp/xdg-data", "gymlog") {
		t.Errorf("GetDataDir() = %q", got)
	}
	if got := cfg.GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
	if !cfg.BackupsEnabled() {
		t.Error("backups should default to enabled")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/srv/gym"}
	if got := cfg.DBPath(); got != "/srv/gym/gymlog.db" {
		t.Errorf("DBPath() = %q", got)
	}
	if got := cfg.BackupDir(); got != "/srv/gym/backups" {
		t.Errorf("BackupDir() = %q", got)
	}
}

func TestBackupsDisabled(t *testing.T) {
	off := false
	cfg := &Config{Backups: &off}
	if cfg.BackupsEnabled() {
		t.Error("explicit false should disable backups")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/gym", filepath.Join(home, "data/gym")},
		{"data/gym", "data/gym"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()
	cfg := &Config{DataDir: "~/gym-data"}
	if got, want := cfg.GetDataDir(), filepath.Join(home, "gym-data"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.LogLevel != "" || cfg.Backups != nil {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	off := false
	cfg := &Config{DataDir: "/tmp/gym-data", LogLevel: "debug", Backups: &off}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	path := filepath.Join(tmpDir, "nonexistent", "gymlog", "config.json")
	if GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", GetConfigPath(), path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/tmp/gym-data" || loaded.LogLevel != "debug" || loaded.BackupsEnabled() {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "gymlog")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}
