// Copyright © 2024 Galvanized Logic Inc.

// Package config loads and saves the per-user settings JSON read at
// startup and written at shutdown (spec.md §6 "Environment/config").
// Grounded on niceyeti-tabular's reinforcement.FromYaml viper usage
// (viper.New, SetConfigFile/SetConfigType, AddConfigPath, ReadInConfig,
// Unmarshal), adapted from YAML to JSON per spec.md §6's named keys.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Window holds the windowed/fullscreen display settings.
type Window struct {
	WindowWidth   int  `mapstructure:"windowWidth" json:"windowWidth"`
	WindowHeight  int  `mapstructure:"windowHeight" json:"windowHeight"`
	ScreenWidth   int  `mapstructure:"screenWidth" json:"screenWidth"`
	ScreenHeight  int  `mapstructure:"screenHeight" json:"screenHeight"`
	Fullscreen    bool `mapstructure:"fullscreen" json:"fullscreen"`
}

// Sound holds the audio device settings.
type Sound struct {
	Device  string  `mapstructure:"device" json:"device"`
	Volume  float64 `mapstructure:"volume" json:"volume"`
	Speaker string  `mapstructure:"speaker" json:"speaker"`
}

// Context holds rendering-quality knobs unrelated to the simulation
// itself.
type Context struct {
	TextureLod      int  `mapstructure:"textureLod" json:"textureLod"`
	DynamicLoading  bool `mapstructure:"dynamicLoading" json:"dynamicLoading"`
}

// Config is the full per-user settings document (spec.md §6's
// non-exhaustive key list).
type Config struct {
	Window  Window  `mapstructure:"window" json:"window"`
	Sound   Sound   `mapstructure:"sound" json:"sound"`
	Seed    string  `mapstructure:"seed" json:"seed"` // "TIME" or a decimal integer.
	Lingua  string  `mapstructure:"lingua" json:"lingua"`
	Context Context `mapstructure:"context" json:"context"`
}

// Defaults returns the configuration a fresh install starts with.
func Defaults() Config {
	return Config{
		Window:  Window{WindowWidth: 1280, WindowHeight: 720, ScreenWidth: 1280, ScreenHeight: 720},
		Sound:   Sound{Volume: 1.0},
		Seed:    "TIME",
		Lingua:  "en",
		Context: Context{TextureLod: 2, DynamicLoading: true},
	}
}

// Load reads the config JSON at path, returning Defaults() if it does
// not yet exist (first run).
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("json")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := vp.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON to path, creating parent directories
// as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for config %s: %w", path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
