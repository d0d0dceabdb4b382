// Package main records one turntable GIF of a picoCAD model without a
// window.
//
//	turntable [flags] <model.txt | url>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/picoview/internal/capture"
	"github.com/Faultbox/picoview/internal/config"
	"github.com/Faultbox/picoview/internal/encoder"
	"github.com/Faultbox/picoview/internal/engine/renderer"
	"github.com/Faultbox/picoview/internal/logger"
	"github.com/Faultbox/picoview/internal/settings"
	"github.com/Faultbox/picoview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	src := config.ModelSource()
	if src == "" {
		fmt.Fprintln(os.Stderr, "usage: turntable [flags] <model.txt | url>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url, err := record(ctx, cfg, src)
	if err != nil {
		logger.Error("recording failed", zap.Error(err))
		os.Exit(1)
	}
	path, err := capture.Path(url)
	if err != nil {
		path = url
	}
	fmt.Println(path)
}

func record(ctx context.Context, cfg *config.Config, src string) (string, error) {
	r := cfg.Render
	eng := renderer.New(renderer.Options{
		Resolution:            renderer.Resolution{Width: r.Width, Height: r.Height, Scale: r.Scale},
		FOV:                   r.FOV,
		Tessellation:          r.Tessellation,
		PreserveDrawingBuffer: r.PreserveDrawingBuffer,
	})
	defer eng.Free()

	worker := encoder.NewWorker()
	defer worker.Close()
	v := viewer.New(eng, worker, viewer.OptionsFromConfig(cfg))

	if err := v.LoadModel(ctx, src); err != nil {
		return "", err
	}
	if cfg.Settings != "" {
		if err := v.LoadSettingsFile(cfg.Settings); err != nil {
			return "", err
		}
	}
	if tex := config.TexturePath(); tex != "" {
		if err := v.OpenFile(ctx, tex); err != nil {
			return "", err
		}
	}
	// A zero speed never completes a turn.
	eng.UpdateSettings(func(s *settings.Settings) {
		if s.TurntableSpeed == 0 {
			s.TurntableSpeed = settings.Default().TurntableSpeed
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, cancel := context.WithCancel(gctx)
	g.Go(func() error {
		return worker.Run(loopCtx)
	})

	var result error
	g.Go(func() error {
		defer cancel()
		v.StartRecording()
		err := eng.Run(loopCtx, 0, v.Update, func(float64) {
			if err := v.AfterDraw(); err != nil {
				logger.Warn("frame not captured", zap.Error(err))
			}
			drain(v, worker)
			switch s := v.Recorder().Session(); s.State {
			case capture.Ready:
				eng.Stop()
			case capture.Failed:
				result = s.Err
				eng.Stop()
			}
		})
		if err != nil {
			return err
		}
		return result
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	s := v.Recorder().Session()
	if s.State != capture.Ready {
		return "", errors.New("recording did not finish")
	}
	logger.Info("turntable recorded",
		zap.String("model", v.ModelName()),
		zap.Int("frames", s.Frames),
		zap.Int("bytes", len(v.Recorder().Data())))
	return s.URL, nil
}

// drain applies pending encoder messages without blocking the render loop.
func drain(v *viewer.Viewer, w *encoder.Worker) {
	for {
		select {
		case msg, ok := <-w.Responses():
			if !ok {
				return
			}
			if err := v.HandleEncoder(msg); err != nil {
				logger.Error("gif not stored", zap.Error(err))
			}
		default:
			return
		}
	}
}
