package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := LoadConfig()
	if cfg.addr() != DefaultAddr {
		t.Errorf("addr() = %q, want %q", cfg.addr(), DefaultAddr)
	}
	if cfg.markupSettle() != 0 {
		t.Errorf("markupSettle() = %v, want 0 (exporter applies defaults)", cfg.markupSettle())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
output_dir = "/tmp/exports"
addr = "localhost:9999"
markup_settle_ms = 150
scale = 1.5
width = 1024
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig()
	if cfg.OutputDir != "/tmp/exports" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.addr() != "localhost:9999" {
		t.Errorf("addr() = %q", cfg.addr())
	}
	if cfg.markupSettle() != 150*time.Millisecond {
		t.Errorf("markupSettle() = %v", cfg.markupSettle())
	}

	opts := cfg.rasterOptions()
	if opts.Scale != 1.5 {
		t.Errorf("Scale = %v, want 1.5", opts.Scale)
	}
	if opts.Width != 1024 {
		t.Errorf("Width = %d, want 1024", opts.Width)
	}
	if opts.Background == "" {
		t.Error("Background should keep its default")
	}
}

func TestLoadConfigBadFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig()
	if cfg.OutputDir != "" {
		t.Errorf("bad config should yield zero config, got OutputDir=%q", cfg.OutputDir)
	}
}
