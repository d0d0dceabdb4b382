package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSettings   = flag.String("settings", "", "Render settings document (YAML or JSON)")
	flagOutput     = flag.String("out", "", "Capture output directory")
	flagWidth      = flag.Int("width", 0, "Render width in pixels")
	flagHeight     = flag.Int("height", 0, "Render height in pixels")
	flagScale      = flag.Int("scale", 0, "Display scale")
	flagFOV        = flag.Float64("fov", 0, "Camera field of view in degrees")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagTexture    = flag.String("texture", "", "Texture, light-map or normal map image to apply after loading")
	flagSave       = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelSource returns the first positional argument: picoCAD text, a path or a URL.
func ModelSource() string {
	return flag.Arg(0)
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// TexturePath returns the image given via --texture.
func TexturePath() string {
	return *flagTexture
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSettings != "" {
		cfg.Settings = *flagSettings
	}
	if *flagOutput != "" {
		cfg.Capture.OutputDir = *flagOutput
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagScale > 0 {
		cfg.Render.Scale = *flagScale
	}
	if *flagFOV > 0 {
		cfg.Render.FOV = float32(*flagFOV)
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
}
