// Package config handles application configuration loading and management.
package config

import "time"

// Config holds all application settings.
type Config struct {
	Render   RenderConfig  `yaml:"render"`
	Window   WindowConfig  `yaml:"window"`
	Capture  CaptureConfig `yaml:"capture"`
	Assets   AssetsConfig  `yaml:"assets"`
	Logging  LoggingConfig `yaml:"logging"`
	Settings string        `yaml:"settings_file"` // Render settings document (YAML or JSON)
}

// RenderConfig holds offscreen render target settings.
type RenderConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Scale        int     `yaml:"scale"`
	FOV          float32 `yaml:"fov"` // Degrees
	Tessellation int     `yaml:"tessellation"`
	// PreserveDrawingBuffer keeps the last composite readable after the
	// frame has been presented.
	PreserveDrawingBuffer bool `yaml:"preserve_drawing_buffer"`
}

// WindowConfig holds display settings for the interactive viewer.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
}

// CaptureConfig holds turntable recording settings.
type CaptureConfig struct {
	OutputDir   string        `yaml:"output_dir"`
	MaxDuration time.Duration `yaml:"max_duration"`
	FrameDelay  time.Duration `yaml:"frame_delay"`
	NominalStep time.Duration `yaml:"nominal_step"`
	Scale       int           `yaml:"scale"`
	// FinalizeTimeout bounds the wait for the encoded GIF. Zero waits forever.
	FinalizeTimeout time.Duration `yaml:"finalize_timeout"`
}

// AssetsConfig holds remote source settings.
type AssetsConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:        128,
			Height:       128,
			Scale:        4,
			FOV:          30,
			Tessellation: 3,
		},
		Window: WindowConfig{
			Title: "picoview",
			VSync: true,
		},
		Capture: CaptureConfig{
			OutputDir:   "captures",
			MaxDuration: 10 * time.Second,
			FrameDelay:  20 * time.Millisecond,
			NominalStep: 20 * time.Millisecond,
			Scale:       4,
		},
		Assets: AssetsConfig{
			FetchTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
