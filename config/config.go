// Package config loads runtime settings from an optional YAML file and the
// environment. Environment variables win over the file, the file wins over
// the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Content string      `yaml:"content"` // content directory; empty uses the embedded game
	Tileset string      `yaml:"tileset"` // glyph atlas YAML overriding the built-in one
	FPS     int         `yaml:"fps"`
	Seed    int64       `yaml:"seed"` // 0 picks a seed at startup
	Audio   AudioConfig `yaml:"audio"`
	Log     LogConfig   `yaml:"log"`
}

// AudioConfig controls the terminal bell player.
type AudioConfig struct {
	Enabled bool     `yaml:"enabled"`
	Device  string   `yaml:"device"`
	Bells   []string `yaml:"bells"` // effect cues that ring the bell
}

// LogConfig controls logger.New.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // "-" writes to stderr
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FPS: 30,
		Audio: AudioConfig{
			Enabled: true,
			Device:  "/dev/tty",
			Bells:   []string{"quest", "error"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(os.TempDir(), "mvpquest.log"),
		},
	}
}

// Load builds the configuration. An explicit path must exist. Without one,
// MVPQUEST_CONFIG is tried, then ~/.mvpquest/config.yaml if present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MVPQUEST_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".mvpquest", "config.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.FPS <= 0 {
		cfg.FPS = Default().FPS
	}
	return cfg, nil
}

// applyEnv overlays environment variables. Unparseable numbers and booleans
// leave the current value in place.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MVPQUEST_CONTENT"); v != "" {
		cfg.Content = v
	}
	if v := os.Getenv("MVPQUEST_TILESET"); v != "" {
		cfg.Tileset = v
	}
	if v := os.Getenv("MVPQUEST_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FPS = n
		}
	}
	if v := os.Getenv("MVPQUEST_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("MVPQUEST_AUDIO"); v != "" {
		switch strings.ToLower(v) {
		case "on":
			cfg.Audio.Enabled = true
		case "off":
			cfg.Audio.Enabled = false
		default:
			if b, err := strconv.ParseBool(v); err == nil {
				cfg.Audio.Enabled = b
			}
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
