package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no local or global config file exists.
var ErrNotFound = errors.New("config file not found")

// FileConfig is the on-disk YAML configuration shape. Pointer fields keep
// "unset" distinguishable from zero values.
type FileConfig struct {
	DataDir      *string `yaml:"data_dir"`
	DefaultTable *string `yaml:"default_table"`
	Audit        *bool   `yaml:"audit"`
	AuditPath    *string `yaml:"audit_path"`
	Format       *string `yaml:"format"`
	Top          *int    `yaml:"top"`
	NoColor      *bool   `yaml:"no_color"`
	Parallel     *bool   `yaml:"parallel"`
	Workers      *int    `yaml:"workers"`
	LogEnv       *string `yaml:"log_env"`
}

// Settings is the fully resolved configuration.
type Settings struct {
	DataDir      string `yaml:"data_dir"`
	DefaultTable string `yaml:"default_table"`
	Audit        bool   `yaml:"audit"`
	AuditPath    string `yaml:"audit_path"`
	Format       string `yaml:"format"`
	Top          int    `yaml:"top"`
	NoColor      bool   `yaml:"no_color"`
	Parallel     bool   `yaml:"parallel"`
	Workers      int    `yaml:"workers"`
	LogEnv       string `yaml:"log_env"`
}

// Defaults returns the built-in settings. AuditPath is derived from DataDir
// by Finalize when left empty.
func Defaults() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		DataDir:      filepath.Join(home, ".nexus", "data"),
		DefaultTable: "logs",
		Audit:        true,
		Format:       "simple",
		Top:          10,
		LogEnv:       "dev",
	}
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given root.
// It supports .nexus.yml/.yaml and nexus.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range []string{".nexus.yml", ".nexus.yaml", "nexus.yml", "nexus.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// Dir returns the nexus directory under the XDG config base or ~/.config.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "nexus"), nil
}

// LoadGlobal loads the global config file from the config directory.
func LoadGlobal() (FileConfig, error) {
	dir, err := Dir()
	if err != nil {
		return FileConfig{}, err
	}
	p := filepath.Join(dir, "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return FileConfig{}, ErrNotFound
}

// Merge overlays every field set in fc onto s.
func (s Settings) Merge(fc FileConfig) Settings {
	if fc.DataDir != nil {
		s.DataDir = *fc.DataDir
	}
	if fc.DefaultTable != nil {
		s.DefaultTable = *fc.DefaultTable
	}
	if fc.Audit != nil {
		s.Audit = *fc.Audit
	}
	if fc.AuditPath != nil {
		s.AuditPath = *fc.AuditPath
	}
	if fc.Format != nil {
		s.Format = *fc.Format
	}
	if fc.Top != nil {
		s.Top = *fc.Top
	}
	if fc.NoColor != nil {
		s.NoColor = *fc.NoColor
	}
	if fc.Parallel != nil {
		s.Parallel = *fc.Parallel
	}
	if fc.Workers != nil {
		s.Workers = *fc.Workers
	}
	if fc.LogEnv != nil {
		s.LogEnv = *fc.LogEnv
	}
	return s
}

// Finalize expands a leading ~ in paths and derives the audit path.
func (s Settings) Finalize() Settings {
	s.DataDir = expandHome(s.DataDir)
	if s.AuditPath == "" {
		s.AuditPath = filepath.Join(s.DataDir, "audit.jsonl")
	}
	s.AuditPath = expandHome(s.AuditPath)
	return s
}

// Resolve layers defaults, the global file, and then either the explicit
// file (when path is set) or the local file found in root. Missing global
// and local files are ignored; a missing explicit file is an error.
func Resolve(path, root string) (Settings, error) {
	s := Defaults()
	if g, err := LoadGlobal(); err == nil {
		s = s.Merge(g)
	} else if !errors.Is(err, ErrNotFound) && !errors.Is(err, os.ErrNotExist) {
		return s, fmt.Errorf("global config: %w", err)
	}

	if path != "" {
		fc, err := LoadFile(expandHome(path))
		if err != nil {
			return s, fmt.Errorf("config %s: %w", path, err)
		}
		return s.Merge(fc).Finalize(), nil
	}
	if l, err := LoadLocal(root); err == nil {
		s = s.Merge(l)
	} else if !errors.Is(err, ErrNotFound) {
		return s, fmt.Errorf("local config: %w", err)
	}
	return s.Finalize(), nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
