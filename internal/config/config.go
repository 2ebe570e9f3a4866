// Package config loads mapty settings from an optional YAML file, MAPTY_*
// environment variables and built-in defaults, in that order of precedence
// (environment wins over the file).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/workout"
)

// Config holds all configuration for one mapty session.
type Config struct {
	Database string         `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Map      MapConfig      `mapstructure:"map"`
	UI       UIConfig       `mapstructure:"ui"`
	Position PositionConfig `mapstructure:"position"`
}

type StorageConfig struct {
	Key string `mapstructure:"key"`
}

type MapConfig struct {
	Zoom int `mapstructure:"zoom"`
}

type UIConfig struct {
	DeleteDelay time.Duration `mapstructure:"delete_delay"`
}

// PositionConfig stands in for the device location sensor.
// When disabled, acquisition fails and the map never becomes ready.
type PositionConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Lat     float64 `mapstructure:"lat"`
	Lng     float64 `mapstructure:"lng"`
}

// Coords returns the configured position.
func (p PositionConfig) Coords() workout.Coords {
	return workout.Coords{Lat: p.Lat, Lng: p.Lng}
}

// Locator returns the geo.Locator the position settings describe.
func (p PositionConfig) Locator() geo.Locator {
	if !p.Enabled {
		return geo.UnavailableLocator{}
	}
	return geo.FixedLocator{Position: p.Coords()}
}

// Load reads configuration.
//
// If file is empty, mapty.yaml is looked up in dir; a missing file there is
// not an error. An explicitly named file must exist.
func Load(dir, file string) (Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("mapty")
		v.SetConfigType("yaml")
	}

	// MAPTY_MAP_ZOOM overrides map.zoom
	v.SetEnvPrefix("mapty")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("database", "./mapty.db")
	v.SetDefault("storage.key", "workouts")
	v.SetDefault("map.zoom", geo.DefaultZoom)
	v.SetDefault("ui.delete_delay", "1s")
	v.SetDefault("position.enabled", false)
	v.SetDefault("position.lat", 0.0)
	v.SetDefault("position.lng", 0.0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no session can run with.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database path is required")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("config: storage.key is required")
	}
	if c.Map.Zoom <= 0 {
		return fmt.Errorf("config: map.zoom must be positive, got %d", c.Map.Zoom)
	}
	if c.UI.DeleteDelay < 0 {
		return fmt.Errorf("config: ui.delete_delay must not be negative, got %s", c.UI.DeleteDelay)
	}
	return nil
}
