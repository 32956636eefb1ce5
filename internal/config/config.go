package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("invalid config")

// Config holds the engine configuration.
type Config struct {
	Seed           int64   `yaml:"seed" json:"seed"`
	RenderDistance int     `yaml:"render_distance" json:"render_distance"` // chunks
	Workers        int     `yaml:"workers" json:"workers"`                 // 0 = one per CPU
	DataPack       string  `yaml:"data_pack" json:"data_pack"`             // directory with blocks.json, empty = built-in
	Noise          string  `yaml:"noise" json:"noise"`                     // "perlin" or "simplex"
	Terrain        string  `yaml:"terrain" json:"terrain"`                 // "default" or "flat"
	FlatLevel      int     `yaml:"flat_level" json:"flat_level"`
	HeightScale    float64 `yaml:"height_scale" json:"height_scale"`
	MinChunkY      int     `yaml:"min_chunk_y" json:"min_chunk_y"`
	MaxChunkY      int     `yaml:"max_chunk_y" json:"max_chunk_y"`
	Caves          bool    `yaml:"caves" json:"caves"`
	Ores           bool    `yaml:"ores" json:"ores"`

	GravityChunkThreshold int           `yaml:"gravity_chunk_threshold" json:"gravity_chunk_threshold"`
	FrameInterval         time.Duration `yaml:"frame_interval" json:"frame_interval"`
	LogLevel              string        `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RenderDistance:        10,
		Noise:                 "perlin",
		Terrain:               "default",
		FlatLevel:             4,
		HeightScale:           120,
		MinChunkY:             -4,
		MaxChunkY:             4,
		Ores:                  true,
		GravityChunkThreshold: 5000,
		FrameInterval:         50 * time.Millisecond,
		LogLevel:              "info",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case c.RenderDistance < 1:
		return fmt.Errorf("%w: render_distance must be positive", ErrInvalid)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	case c.Noise != "perlin" && c.Noise != "simplex":
		return fmt.Errorf("%w: unknown noise %q", ErrInvalid, c.Noise)
	case c.Terrain != "default" && c.Terrain != "flat":
		return fmt.Errorf("%w: unknown terrain %q", ErrInvalid, c.Terrain)
	case c.MinChunkY > c.MaxChunkY:
		return fmt.Errorf("%w: min_chunk_y above max_chunk_y", ErrInvalid)
	case c.FrameInterval <= 0:
		return fmt.Errorf("%w: frame_interval must be positive", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalid, name)
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["data-pack"] {
		cfg.DataPack = fromFile.DataPack
	}
	if !explicitFlags["noise"] {
		cfg.Noise = fromFile.Noise
	}
	if !explicitFlags["terrain"] {
		cfg.Terrain = fromFile.Terrain
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	cfg.FlatLevel = fromFile.FlatLevel
	cfg.HeightScale = fromFile.HeightScale
	cfg.MinChunkY = fromFile.MinChunkY
	cfg.MaxChunkY = fromFile.MaxChunkY
	cfg.Caves = fromFile.Caves
	cfg.Ores = fromFile.Ores
	cfg.GravityChunkThreshold = fromFile.GravityChunkThreshold
	cfg.FrameInterval = fromFile.FrameInterval
}
