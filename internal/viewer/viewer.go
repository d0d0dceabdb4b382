// Package viewer is the interactive state around a render engine: the
// turntable, keyboard camera controls, file and clipboard routing, GIF
// recording and the gallery of finished captures. It has no window of its
// own; internal/app feeds it events and frames.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/capture"
	"github.com/Faultbox/picoview/internal/encoder"
	"github.com/Faultbox/picoview/internal/engine/renderer"
	"github.com/Faultbox/picoview/internal/logger"
	"github.com/Faultbox/picoview/internal/settings"
	pmath "github.com/Faultbox/picoview/pkg/math"
)

// Untitled names models that carry no name.
const Untitled = "untitled"

// Options configure a Viewer.
type Options struct {
	Capture capture.Options
	// SnapshotDir receives PNG snapshots. Empty uses the working directory.
	SnapshotDir string
	// Clipboard backs Paste. Nil uses the system clipboard.
	Clipboard Clipboard
}

// Viewer owns the interactive state for one engine.
type Viewer struct {
	eng    *renderer.Engine
	rec    *capture.Recorder
	sink   capture.Sink
	snaps  *capture.Snapshots
	clip   Clipboard
	Images capture.Images

	modelName string
	step      float64
	log       *zap.Logger
}

// New wraps eng. Encoder requests go to sink.
func New(eng *renderer.Engine, sink capture.Sink, opts Options) *Viewer {
	v := &Viewer{
		eng:   eng,
		sink:  sink,
		snaps: capture.NewSnapshots(opts.SnapshotDir, "picoview"),
		clip:  opts.Clipboard,
		log:   logger.Named("viewer"),
	}
	if v.clip == nil {
		v.clip = systemClipboard{}
	}
	v.rec = capture.New(eng, sink, opts.Capture)
	return v
}

// Engine returns the wrapped engine.
func (v *Viewer) Engine() *renderer.Engine { return v.eng }

// Recorder returns the GIF recorder.
func (v *Viewer) Recorder() *capture.Recorder { return v.rec }

// ModelName returns the name of the loaded model.
func (v *Viewer) ModelName() string { return v.modelName }

// LoadModel replaces the model and drops any HD texture.
func (v *Viewer) LoadModel(ctx context.Context, src any) error {
	if err := v.eng.Load(ctx, src); err != nil {
		return err
	}
	v.modelName = v.eng.Model().Name
	if v.modelName == "" {
		v.modelName = Untitled
	}
	v.eng.UpdateSettings(func(s *settings.Settings) { s.UsingHDTexture = false })
	v.eng.RemoveHDTexture()
	return nil
}

// LoadSettings merges a settings document onto the current settings and
// pushes the values the engine keeps outside its settings.
func (v *Viewer) LoadSettings(data []byte) error {
	s := v.eng.Settings()
	if err := s.Merge(data); err != nil {
		return err
	}
	v.apply(s)
	return nil
}

// LoadSettingsFile merges the document at path.
func (v *Viewer) LoadSettingsFile(path string) error {
	s := v.eng.Settings()
	if err := s.MergeFile(path); err != nil {
		return err
	}
	v.apply(s)
	return nil
}

func (v *Viewer) apply(s settings.Settings) {
	if s.Name != "" {
		v.modelName = s.Name
	}
	v.eng.SetSettings(s)
	v.eng.SetWatermark(s.Watermark)
	v.log.Debug("settings applied", zap.String("name", v.modelName), zap.String("mode", string(s.RenderMode)))
}

// Update advances the turntable and places the camera. Call it before each
// draw with the wall-clock seconds since the previous call.
func (v *Viewer) Update(delta float64) {
	v.step = v.rec.Step(delta)
	recording := v.rec.Recording()

	var vp settings.Viewport
	v.eng.UpdateSettings(func(s *settings.Settings) {
		if s.Turntable {
			s.CameraRotation = Turn(s.CameraRotation, v.step*s.TurntableSpeed, recording)
		}
		vp = s.Viewport
	})

	center := pmath.Vec3{Y: float32(vp.CameraHeight)}
	v.eng.SetTurntableCamera(float32(vp.CameraDistance), float32(vp.CameraRotation), float32(vp.CameraTilt), &center)
	v.eng.SetLightDirectionFromCamera()
}

// Turn advances rotation by amount. Outside a recording the result wraps
// to one turn and is rounded to three decimals; while recording it
// accumulates so the recorder can see a full turn.
func Turn(rotation, amount float64, recording bool) float64 {
	if recording {
		return rotation + amount
	}
	r := math.Mod(rotation+amount, capture.FullTurn)
	return math.Round(r*1000) / 1000
}

// AfterDraw feeds the finished frame to the recorder.
func (v *Viewer) AfterDraw() error {
	return v.rec.Tick(v.step, v.eng.Settings().CameraRotation)
}

// StartRecording turns the turntable on and starts a GIF capture from the
// current rotation.
func (v *Viewer) StartRecording() {
	var rot float64
	v.eng.UpdateSettings(func(s *settings.Settings) {
		s.Turntable = true
		rot = s.CameraRotation
	})
	v.rec.Start(rot)
	v.Images.Generating = true
	v.Images.Progress = 0
}

// HandleEncoder applies a message from the encoder worker. A finished GIF
// lands in the gallery.
func (v *Viewer) HandleEncoder(msg encoder.Response) error {
	if err := v.rec.Handle(msg); err != nil {
		v.Images.Generating = false
		return fmt.Errorf("store gif: %w", err)
	}
	if _, ok := msg.(encoder.GIF); ok {
		v.Images.Generating = false
		v.Images.Progress = 100
		v.Images.Add(v.rec.Session().URL)
	}
	return nil
}

// Progress mirrors the recorder progress into the gallery state and
// returns it.
func (v *Viewer) Progress() int {
	s := v.rec.Session()
	if s.State == capture.Recording {
		v.Images.Progress = s.Progress
	}
	if s.State == capture.Failed {
		v.Images.Generating = false
	}
	return v.Images.Progress
}

// Snapshot writes img as a PNG and adds it to the gallery. A nil img takes
// the engine's current composite.
func (v *Viewer) Snapshot(img image.Image) (string, error) {
	if img == nil {
		c, err := v.eng.Composite()
		if err != nil {
			return "", fmt.Errorf("snapshot: %w", err)
		}
		img = c
	}
	path, err := v.snaps.Save(img)
	if err != nil {
		return "", err
	}
	v.Images.Add(path)
	v.log.Info("snapshot saved", zap.String("path", path))
	return path, nil
}

// ErrEmptyClipboard is returned by Paste when there is nothing to load.
var ErrEmptyClipboard = errors.New("viewer: clipboard is empty")
