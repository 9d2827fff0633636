// Package config loads the slideslot user configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/slideslot/config.toml,
// falling back to ~/.config/slideslot/config.toml. Every key is optional:
//
//	images = "assets/figures"
//	dpi    = 96
//
//	[canvas]
//	width  = 13.333
//	height = 7.5
//
//	[size]
//	width  = 3
//	height = 2
//
// Command-line flags override the file, and the file overrides the built-in
// pipeline defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName names the configuration directory.
	AppName = "slideslot"

	// FileName is the configuration file inside the directory.
	FileName = "config.toml"
)

// Config is the user configuration.
type Config struct {
	// Images is the default image catalogue directory.
	Images string `toml:"images"`
	// DPI converts pixel sizes to inches.
	DPI float64 `toml:"dpi"`
	// Canvas is the slide size in inches.
	Canvas Size `toml:"canvas"`
	// Size is the default size for requests without one.
	Size Size `toml:"size"`
	// PlanSize is the size every planned image gets.
	PlanSize Size `toml:"plan_size"`
}

// Size is a width and height in inches.
type Size struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// IsZero reports whether neither dimension is set.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Dir returns the configuration directory using the XDG standard.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the path of the default configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path. An empty path means the default
// location, where a missing file yields an empty Config. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DPI < 0 {
		return fmt.Errorf("dpi must be positive, got %v", c.DPI)
	}
	for name, s := range map[string]Size{"canvas": c.Canvas, "size": c.Size, "plan_size": c.PlanSize} {
		if s.Width < 0 || s.Height < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
		if (s.Width == 0) != (s.Height == 0) {
			return fmt.Errorf("%s needs both width and height", name)
		}
	}
	return nil
}
