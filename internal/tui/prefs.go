package tui

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nexus-forensics/nexus/internal/config"
)

// Prefs holds explorer preferences that persist across sessions.
type Prefs struct {
	// Filter is the last category filter; empty shows everything.
	Filter string `json:"filter"`
}

func prefsPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tui_prefs.json"), nil
}

// LoadPrefs loads preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	var prefs Prefs
	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // fall back to defaults
	return prefs
}

// SavePrefs persists preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
