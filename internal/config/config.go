// Package config handles viewer configuration loading and management.
package config

import "time"

// DefaultModelURL is shown when the viewer starts without a model argument.
const DefaultModelURL = "https://raw.githubusercontent.com/mrdoob/three.js/dev/examples/models/stl/ascii/pr2_head_pan.stl"

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Model    ModelConfig    `yaml:"model"`
	Render   RenderConfig   `yaml:"render"`
	Controls ControlsConfig `yaml:"controls"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	VSync     bool `yaml:"vsync"`
	HighDPI   bool `yaml:"high_dpi"`
	ShowStats bool `yaml:"show_stats"`
}

// ModelConfig holds model loading settings.
type ModelConfig struct {
	DefaultURL   string        `yaml:"default_url"`
	ZUp          bool          `yaml:"z_up"`     // rotate Z-up CAD exports to Y-up
	Simplify     float64       `yaml:"simplify"` // triangle ratio kept, 0 disables
	Watch        bool          `yaml:"watch"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// RenderConfig holds shading settings.
type RenderConfig struct {
	Material   string  `yaml:"material"`
	Matcap     string  `yaml:"matcap"` // texture path, empty for the built-in clay
	Background string  `yaml:"background"`
	FOV        float64 `yaml:"fov"`
	Wireframe  bool    `yaml:"wireframe"`
}

// ControlsConfig holds orbit control settings.
type ControlsConfig struct {
	Damping     float64 `yaml:"damping"`
	RotateSpeed float64 `yaml:"rotate_speed"`
	ZoomSpeed   float64 `yaml:"zoom_speed"`
	PanSpeed    float64 `yaml:"pan_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			VSync:     true,
			HighDPI:   true,
			ShowStats: true,
		},
		Model: ModelConfig{
			DefaultURL:   DefaultModelURL,
			FetchTimeout: 15 * time.Second,
		},
		Render: RenderConfig{
			Material:   "matcap",
			Background: "#ffffff",
			FOV:        75,
		},
		Controls: ControlsConfig{
			Damping:     0.05,
			RotateSpeed: 1.0,
			ZoomSpeed:   1.0,
			PanSpeed:    1.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
