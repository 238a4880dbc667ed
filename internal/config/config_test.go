package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

// isolate points HOME and XDG_CONFIG_HOME at fresh temp dirs.
func isolate(t *testing.T) (home, xdg string) {
	t.Helper()
	home, xdg = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	return home, xdg
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "nexus.yaml", "top: 4\nformat: json\naudit: false\nworkers: 8\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Top == nil || *cfg.Top != 4 {
		t.Fatalf("expected top=4, got %#v", cfg.Top)
	}
	if cfg.Format == nil || *cfg.Format != "json" {
		t.Fatalf("expected format=json, got %#v", cfg.Format)
	}
	if cfg.Audit == nil || *cfg.Audit {
		t.Fatalf("expected audit=false")
	}
	if cfg.DataDir != nil {
		t.Fatalf("unset field should stay nil")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "bad.yml", "top: [1, 2\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "nexus.yml", "top: 1\n")
	writeTemp(t, dir, ".nexus.yml", "top: 2\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if *cfg.Top != 2 {
		t.Fatalf("expected dotfile to win, got %d", *cfg.Top)
	}
	if _, err := LoadLocal(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	home, _ := isolate(t)
	s, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.DataDir != filepath.Join(home, ".nexus", "data") {
		t.Fatalf("unexpected data dir %q", s.DataDir)
	}
	if s.AuditPath != filepath.Join(s.DataDir, "audit.jsonl") {
		t.Fatalf("unexpected audit path %q", s.AuditPath)
	}
	if !s.Audit || s.Top != 10 || s.Format != "simple" || s.DefaultTable != "logs" {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestResolve_Precedence(t *testing.T) {
	home, xdg := isolate(t)
	writeTemp(t, filepath.Join(xdg, "nexus"), "config.yml", "top: 3\nformat: compact\ndata_dir: ~/forensics\n")
	root := t.TempDir()
	writeTemp(t, root, ".nexus.yaml", "top: 7\n")

	s, err := Resolve("", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Top != 7 {
		t.Fatalf("local should override global, got top=%d", s.Top)
	}
	if s.Format != "compact" {
		t.Fatalf("global should override defaults, got %q", s.Format)
	}
	if s.DataDir != filepath.Join(home, "forensics") {
		t.Fatalf("expected ~ expansion, got %q", s.DataDir)
	}

	explicit := writeTemp(t, t.TempDir(), "custom.yml", "top: 12\naudit_path: /tmp/a.jsonl\n")
	s, err = Resolve(explicit, root)
	if err != nil {
		t.Fatalf("Resolve explicit: %v", err)
	}
	if s.Top != 12 || s.AuditPath != "/tmp/a.jsonl" {
		t.Fatalf("explicit file should replace local, got %+v", s)
	}
}

func TestResolve_MissingExplicit(t *testing.T) {
	isolate(t)
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.yml"), t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
