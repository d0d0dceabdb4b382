// Package app runs the interactive viewer: an SDL2 window showing the live
// engine output with keyboard, drop and clipboard input.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/capture"
	"github.com/Faultbox/picoview/internal/config"
	"github.com/Faultbox/picoview/internal/encoder"
	"github.com/Faultbox/picoview/internal/engine/input"
	"github.com/Faultbox/picoview/internal/engine/present"
	"github.com/Faultbox/picoview/internal/engine/renderer"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/internal/engine/window"
	"github.com/Faultbox/picoview/internal/logger"
	"github.com/Faultbox/picoview/internal/settings"
	"github.com/Faultbox/picoview/internal/viewer"
)

// App is the interactive viewer instance.
type App struct {
	cfg       *config.Config
	window    *window.Window
	presenter *present.Presenter
	input     *input.Input
	engine    *renderer.Engine
	worker    *encoder.Worker
	viewer    *viewer.Viewer

	running  bool
	snapshot bool
	log      *zap.Logger
}

// New opens the window and builds the engine, encoder and viewer.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("app")}
	r := cfg.Render

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      r.Width * r.Scale,
		Height:     r.Height * r.Scale,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The presenter needs the GL context the window just made current.
	a.presenter, err = present.New()
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}
	a.input = input.New()

	s := settings.Default()
	if cfg.Settings != "" {
		if err := s.MergeFile(cfg.Settings); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.engine = renderer.New(renderer.Options{
		Resolution:            renderer.Resolution{Width: r.Width, Height: r.Height, Scale: r.Scale},
		FOV:                   r.FOV,
		Tessellation:          r.Tessellation,
		PreserveDrawingBuffer: r.PreserveDrawingBuffer,
		Settings:              &s,
	})
	a.engine.SetWatermark(s.Watermark)
	a.worker = encoder.Start(ctx)
	a.viewer = viewer.New(a.engine, a.worker, viewer.OptionsFromConfig(cfg))

	a.log.Info("viewer initialized",
		zap.Int("width", r.Width),
		zap.Int("height", r.Height),
		zap.Int("scale", r.Scale))
	return a, nil
}

// Viewer returns the viewer state.
func (a *App) Viewer() *viewer.Viewer { return a.viewer }

// Run loops until the window closes, Escape is pressed or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.running = true
	last := time.Now()
	var frameBudget time.Duration
	if a.cfg.Window.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Window.FPSLimit)
	}

	a.log.Info("starting viewer loop")
	for a.running {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		dt := start.Sub(last).Seconds()
		last = start

		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ctx, ev)
		}
		a.drainEncoder()

		a.viewer.Update(dt)
		a.engine.Draw()
		if err := a.viewer.AfterDraw(); err != nil {
			a.log.Warn("capture frame failed", zap.Error(err))
		}
		a.present()
		a.updateTitle()

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

func (a *App) present() {
	img, err := a.engine.Composite()
	if err != nil {
		// Nothing drawn yet; keep showing the previous frame.
		a.presenter.Draw(a.window.DrawableSize())
		a.window.SwapBuffers()
		return
	}
	if a.snapshot {
		a.snapshot = false
		if _, err := a.viewer.Snapshot(img); err != nil {
			a.log.Error("snapshot failed", zap.Error(err))
		}
	}
	a.presenter.Upload(img)
	a.presenter.Draw(a.window.DrawableSize())
	a.window.SwapBuffers()
}

func (a *App) handle(ctx context.Context, ev input.Event) {
	switch ev.Type {
	case input.EventKeyDown:
		a.handleKey(ctx, ev)
	case input.EventDropFile:
		if err := a.viewer.OpenFile(ctx, ev.Text); err != nil {
			a.log.Error("dropped file rejected", zap.String("path", ev.Text), zap.Error(err))
		}
	case input.EventDropText:
		if err := a.viewer.DropText(ctx, ev.Text); err != nil {
			a.log.Error("dropped text rejected", zap.Error(err))
		}
	}
}

func (a *App) handleKey(ctx context.Context, ev input.Event) {
	if ev.Ctrl {
		if ev.Key == "v" {
			if err := a.viewer.Paste(ctx); err != nil {
				a.log.Error("paste failed", zap.Error(err))
			}
		}
		return
	}
	switch ev.Key {
	case "escape":
		a.running = false
	case "g":
		if !a.viewer.Recorder().Recording() {
			a.viewer.StartRecording()
		}
	case "p":
		a.snapshot = true
	case "o":
		a.openDialog(ctx)
	default:
		a.viewer.HandleKey(ev.Key)
	}
}

func (a *App) openDialog(ctx context.Context) {
	exts := make([]string, 0, len(texture.ImageExtensions))
	for _, e := range texture.ImageExtensions {
		exts = append(exts, e[1:])
	}
	path, err := dialog.File().
		Title("Open model or texture").
		Filter("picoCAD model", "txt").
		Filter("Image", exts...).
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	if err != nil {
		a.log.Error("file dialog failed", zap.Error(err))
		return
	}
	if err := a.viewer.OpenFile(ctx, path); err != nil {
		a.log.Error("open failed", zap.String("path", path), zap.Error(err))
		dialog.Message("%v", err).Title("picoview").Error()
	}
}

// drainEncoder applies every pending encoder message without blocking.
func (a *App) drainEncoder() {
	for {
		select {
		case msg, ok := <-a.worker.Responses():
			if !ok {
				return
			}
			if err := a.viewer.HandleEncoder(msg); err != nil {
				a.log.Error("gif not stored", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (a *App) updateTitle() {
	title := a.cfg.Window.Title + " - " + a.viewer.ModelName()
	s := a.viewer.Recorder().Session()
	switch s.State {
	case capture.Recording:
		title += fmt.Sprintf(" [recording %d%%]", a.viewer.Progress())
	case capture.Finalizing:
		title += " [encoding]"
	case capture.Failed:
		a.viewer.Progress()
		title += " [gif failed]"
	}
	a.window.SetTitle(title)
}

// Close releases everything in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.worker != nil {
		_ = a.worker.Close()
	}
	if a.engine != nil {
		a.engine.Stop()
		a.engine.Free()
	}
	if a.presenter != nil {
		a.presenter.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
