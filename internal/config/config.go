// Package config loads the engine settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/helium/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log        LogConfig        `json:"log" yaml:"log"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Camera     CameraConfig     `json:"camera" yaml:"camera"`
	Viewer     ViewerConfig     `json:"viewer" yaml:"viewer"`
	Surface    SurfaceConfig    `json:"surface" yaml:"surface"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type SimulationConfig struct {
	// TickRate is in ticks per second.
	TickRate int        `json:"tick_rate" yaml:"tick_rate"`
	Gravity  [3]float32 `json:"gravity" yaml:"gravity"`
	// MaxTicks stops the engine after that many ticks; zero runs forever.
	MaxTicks uint64 `json:"max_ticks" yaml:"max_ticks"`
}

type CameraConfig struct {
	Speed      float32 `json:"speed" yaml:"speed"`
	AngleSpeed float32 `json:"angle_speed" yaml:"angle_speed"`
}

type ViewerConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

type SurfaceConfig struct {
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Simulation: SimulationConfig{
			TickRate: 60,
			Gravity:  [3]float32{0, -9.8, 0},
		},
		Camera: CameraConfig{Speed: 50, AngleSpeed: 0.01},
		Viewer: ViewerConfig{Addr: "127.0.0.1:8088"},
		Surface: SurfaceConfig{
			Width:  1280,
			Height: 720,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadYAML(f)
}

// LoadYAML decodes r over the defaults and validates the result. An empty
// document yields the defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate))
	}
	if c.Camera.Speed < 0 || c.Camera.AngleSpeed < 0 {
		errs = append(errs, errors.New("camera speeds must not be negative"))
	}
	if c.Viewer.Enabled && c.Viewer.Addr == "" {
		errs = append(errs, errors.New("viewer.addr is required when the viewer is enabled"))
	}
	if c.Surface.Width == 0 || c.Surface.Height == 0 {
		errs = append(errs, fmt.Errorf("surface must not be empty, got %dx%d", c.Surface.Width, c.Surface.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Simulation.TickRate)
}

func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}
