package viewer

import (
	"github.com/Faultbox/picoview/internal/capture"
	"github.com/Faultbox/picoview/internal/config"
)

// OptionsFromConfig builds viewer options from the application config.
// GIFs and snapshots share the capture output directory.
func OptionsFromConfig(cfg *config.Config) Options {
	c := cfg.Capture
	return Options{
		Capture: capture.Options{
			Width:           cfg.Render.Width,
			Height:          cfg.Render.Height,
			Scale:           c.Scale,
			MaxDuration:     c.MaxDuration.Seconds(),
			SampleInterval:  c.FrameDelay.Seconds(),
			NominalStep:     c.NominalStep.Seconds(),
			FinalizeTimeout: c.FinalizeTimeout.Seconds(),
			OutputDir:       c.OutputDir,
		},
		SnapshotDir: c.OutputDir,
	}
}
