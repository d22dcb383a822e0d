package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsariola/notegrid"
	"github.com/vsariola/notegrid/editor"
	"github.com/vsariola/notegrid/player"
	"gopkg.in/yaml.v3"
)

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// PlaybackConfig stores the settings of the playback engine.
type PlaybackConfig struct {
	BPM          float64       `yaml:"bpm"`
	Step         int           `yaml:"step"`         // pattern ticks per timer tick
	TickDeadline time.Duration `yaml:"tickdeadline"` // e.g. 2ms
}

// PatternConfig describes the pattern a new session starts with.
type PatternConfig struct {
	Name   string `yaml:"name,omitempty"`
	Length int    `yaml:"length"` // in ticks
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the main configuration structure
type Config struct {
	Grid     notegrid.GridConfig `yaml:"grid"`
	History  HistoryConfig       `yaml:"history"`
	Playback PlaybackConfig      `yaml:"playback"`
	Pattern  PatternConfig       `yaml:"pattern"`
	Log      LogConfig           `yaml:"log"`
	Kit      notegrid.Kit        `yaml:"kit,omitempty"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Grid:    notegrid.DefaultGridConfig,
		History: HistoryConfig{Capacity: editor.DefaultHistoryCapacity},
		Playback: PlaybackConfig{
			BPM:          player.DefaultBPM,
			Step:         1,
			TickDeadline: player.DefaultTickDeadline,
		},
		Pattern: PatternConfig{Name: "pattern", Length: notegrid.DefaultPatternLength},
		Log:     LogConfig{Level: "info"},
		Kit:     notegrid.DefaultKit.Copy(),
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notegrid"), nil
}

// Path returns the full path to config.yml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load reads the config from path, or from Path() if path is empty. A missing
// file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML config on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if c.History.Capacity < 0 {
		return notegrid.Invalid(fmt.Sprintf("history capacity %d is negative", c.History.Capacity))
	}
	if c.Playback.BPM <= 0 {
		return notegrid.Invalid(fmt.Sprintf("bpm %v must be positive", c.Playback.BPM))
	}
	if c.Playback.Step < 1 {
		return notegrid.Invalid(fmt.Sprintf("playback step %d must be positive", c.Playback.Step))
	}
	if c.Playback.TickDeadline <= 0 {
		return notegrid.Invalid(fmt.Sprintf("tick deadline %v must be positive", c.Playback.TickDeadline))
	}
	if c.Pattern.Length < 1 {
		return notegrid.Invalid(fmt.Sprintf("pattern length %d must be positive", c.Pattern.Length))
	}
	if len(c.Kit) == 0 {
		return notegrid.Invalid("the kit has no instruments")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the slog level of Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, notegrid.Invalid(fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	return l, nil
}

// Save writes the config to path, or to Path() if path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// NewPattern returns an empty pattern with the configured length and kit.
func (c *Config) NewPattern() *notegrid.Pattern {
	return notegrid.NewPattern(c.Pattern.Name, c.Pattern.Length, c.Kit)
}

// EditorOptions returns the editor options of the config.
func (c *Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithGridConfig(c.Grid),
		editor.WithHistoryCapacity(c.History.Capacity),
	}
}

// PlayerOptions returns the player options of the config.
func (c *Config) PlayerOptions() []player.Option {
	return []player.Option{
		player.WithBPM(c.Playback.BPM),
		player.WithStep(c.Playback.Step),
		player.WithTickDeadline(c.Playback.TickDeadline),
	}
}
