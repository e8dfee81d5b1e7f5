// Package config loads the TOML configuration for the layerterm demo
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/layerterm/terminal"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Render  RenderConfig  `toml:"render"`
	Camera  CameraConfig  `toml:"camera"`
	Logging LoggingConfig `toml:"logging"`
	Audio   AudioConfig   `toml:"audio"`
}

type RenderConfig struct {
	FrameInterval time.Duration `toml:"frame_interval"`
	QueueSize     int           `toml:"queue_size"`
	LayerCapacity int           `toml:"layer_capacity"` // initial slots per layer, grows on demand
	ColorMode     string        `toml:"color_mode"`     // "auto", "256" or "truecolor"
	Surface       string        `toml:"surface"`        // "auto", "screen" or "stream"
	Foreground    string        `toml:"foreground"`     // color name, "#rrggbb" or "default"
	Background    string        `toml:"background"`
}

// CameraConfig sizes the initial viewport; zero width or height follows the terminal
type CameraConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Depth  int `toml:"depth"`
}

type LoggingConfig struct {
	Debug  bool   `toml:"debug"`
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Dir    string `toml:"dir"`
}

type AudioConfig struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"` // 0.0-1.0
	SampleRate   int     `toml:"sample_rate"`
}

// Load reads path over the defaults and validates the result
// An empty path or a missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse config %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Render: RenderConfig{
			FrameInterval: 16 * time.Millisecond,
			QueueSize:     1024,
			LayerCapacity: 256,
			ColorMode:     "auto",
			Surface:       "auto",
			Foreground:    "default",
			Background:    "default",
		},
		Camera: CameraConfig{
			Depth: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "logs",
		},
		Audio: AudioConfig{
			Enabled:      false,
			MasterVolume: 0.5,
			SampleRate:   44100,
		},
	}
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	r := c.Render
	if r.FrameInterval <= 0 {
		bad("render.frame_interval must be positive, got %s", r.FrameInterval)
	}
	if r.QueueSize <= 0 {
		bad("render.queue_size must be positive, got %d", r.QueueSize)
	}
	if r.LayerCapacity <= 0 {
		bad("render.layer_capacity must be positive, got %d", r.LayerCapacity)
	}
	switch strings.ToLower(r.ColorMode) {
	case "auto", "256", "truecolor":
	default:
		bad("render.color_mode %q", r.ColorMode)
	}
	switch strings.ToLower(r.Surface) {
	case "auto", "screen", "stream":
	default:
		bad("render.surface %q", r.Surface)
	}
	if _, _, err := r.Colors(); err != nil {
		bad("render colors: %v", err)
	}

	if c.Camera.Width < 0 || c.Camera.Height < 0 || c.Camera.Depth < 0 {
		bad("camera dimensions must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		bad("logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		bad("logging.format %q", c.Logging.Format)
	}

	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		bad("audio.master_volume must be within [0, 1], got %g", c.Audio.MasterVolume)
	}
	if c.Audio.SampleRate <= 0 {
		bad("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}

	return errors.Join(errs...)
}

// Colors resolves the configured default foreground and background
func (r RenderConfig) Colors() (fg, bg terminal.Color, err error) {
	if fg, err = terminal.ParseColor(r.Foreground); err != nil {
		return
	}
	bg, err = terminal.ParseColor(r.Background)
	return
}
