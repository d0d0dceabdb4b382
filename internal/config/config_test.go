package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Width != 128 || cfg.Render.Height != 128 {
		t.Errorf("expected 128x128, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Scale != 4 {
		t.Errorf("expected scale 4, got %d", cfg.Render.Scale)
	}
	if cfg.Render.Tessellation != 3 {
		t.Errorf("expected tessellation 3, got %d", cfg.Render.Tessellation)
	}
	if cfg.Capture.MaxDuration != 10*time.Second {
		t.Errorf("expected max duration 10s, got %v", cfg.Capture.MaxDuration)
	}
	if cfg.Capture.FrameDelay != 20*time.Millisecond {
		t.Errorf("expected frame delay 20ms, got %v", cfg.Capture.FrameDelay)
	}
	if cfg.Capture.FinalizeTimeout != 0 {
		t.Errorf("expected no finalize timeout, got %v", cfg.Capture.FinalizeTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Render.FOV = 45
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	partial := Default()
	partial.Render.Width = 64
	if err := LoadFile(partial, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if partial.Render.FOV != 45 {
		t.Errorf("FOV = %v, want 45", partial.Render.FOV)
	}
	// The saved file carries the default width, which overrides the local edit.
	if partial.Render.Width != 128 {
		t.Errorf("Width = %d, want 128", partial.Render.Width)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if err := LoadFile(Default(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Render.Width = 0 }, true},
		{"zero delay", func(c *Config) { c.Capture.FrameDelay = 0 }, true},
		{"scale clamps", func(c *Config) { c.Render.Scale = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if cfg.Render.Scale < 1 {
				t.Error("scale should be clamped to 1")
			}
		})
	}
}

func TestSaveToUserDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("user config dir is only redirectable through XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := Default()
	cfg.Capture.OutputDir = "gifs"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "picoview", "config.yaml"); UserPath() != want {
		t.Fatalf("UserPath = %s, want %s", UserPath(), want)
	}
	if got := findConfigFile(); got != UserPath() {
		t.Errorf("findConfigFile = %q, want the saved file", got)
	}

	loaded := Default()
	if err := LoadFile(loaded, UserPath()); err != nil {
		t.Fatal(err)
	}
	if loaded.Capture.OutputDir != "gifs" {
		t.Errorf("OutputDir = %q, want gifs", loaded.Capture.OutputDir)
	}
}
