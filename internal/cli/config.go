package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/formulalab/masterclass/pkg/raster"
)

// Config holds user preferences read from the config file. Every field
// is optional; zero values fall back to built-in defaults.
type Config struct {
	// OutputDir is where exported artifacts are written.
	OutputDir string `toml:"output_dir"`

	// Lesson is a JSON lesson file loaded on top of the built-in lesson.
	Lesson string `toml:"lesson"`

	// Addr is the listen address for the serve command.
	Addr string `toml:"addr"`

	// MarkupSettleMS bounds the per-slide settle wait for HTML exports.
	MarkupSettleMS int `toml:"markup_settle_ms"`

	// RasterSettleMS bounds the per-slide settle wait for image captures.
	RasterSettleMS int `toml:"raster_settle_ms"`

	// Scale is the capture pixel ratio.
	Scale float64 `toml:"scale"`

	// Width is the capture width in CSS pixels.
	Width int `toml:"width"`
}

// DefaultAddr is the serve command's default listen address.
const DefaultAddr = "localhost:8420"

// configPath returns the config file location using XDG standard
// (~/.config/masterclass/config.toml).
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

// LoadConfig reads the config file if present. A missing or unreadable
// file yields the zero config; commands apply defaults on top.
func LoadConfig() *Config {
	cfg := &Config{}
	path, err := configPath()
	if err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return &Config{}
	}
	return cfg
}

func (c *Config) addr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return DefaultAddr
}

func (c *Config) markupSettle() time.Duration {
	return time.Duration(c.MarkupSettleMS) * time.Millisecond
}

func (c *Config) rasterSettle() time.Duration {
	return time.Duration(c.RasterSettleMS) * time.Millisecond
}

func (c *Config) rasterOptions() raster.Options {
	opts := raster.DefaultOptions()
	if c.Scale > 0 {
		opts.Scale = c.Scale
	}
	if c.Width > 0 {
		opts.Width = c.Width
	}
	return opts
}
