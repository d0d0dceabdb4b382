// Package capture records a turntable spin into an animated GIF. The
// Recorder is a state machine driven by render ticks and encoder messages;
// it never blocks on the encoder.
package capture

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/encoder"
	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/internal/logger"
)

// FullTurn is the rotation that ends a recording.
const FullTurn = 2 * math.Pi

// State is the phase of a recording session.
type State int

const (
	Idle State = iota
	Recording
	Finalizing
	Ready
	// Failed is only reached when a finalize timeout is configured.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrFinalizeTimeout is recorded on the session when the encoder does not
// answer in time.
var ErrFinalizeTimeout = errors.New("capture: encoder did not answer")

// Source is the renderer side of a recording.
type Source interface {
	Pixels() ([]byte, error)
	FrameBackgroundColor() palette.RGBA
	FramePalette() []palette.RGBA
	HasHDTexture() bool
}

// Sink receives encoder requests.
type Sink interface {
	Send(req encoder.Request) error
}

// Options tune a Recorder. Durations are in seconds of render time.
type Options struct {
	Width  int
	Height int
	Scale  int
	// MaxDuration ends the recording even if the turn is incomplete.
	MaxDuration float64
	// SampleInterval is the render time between captured frames and the
	// GIF frame delay.
	SampleInterval float64
	// NominalStep replaces the wall-clock delta while recording.
	NominalStep float64
	// FinalizeTimeout moves a session that waits this long for the
	// encoder to Failed. Zero waits forever.
	FinalizeTimeout float64
	// OutputDir receives finished GIFs. Empty uses the OS temp dir.
	OutputDir string
}

// DefaultOptions returns the standard 128x128 recording at 50 fps.
func DefaultOptions() Options {
	return Options{
		Width:          128,
		Height:         128,
		Scale:          4,
		MaxDuration:    10,
		SampleInterval: 0.02,
		NominalStep:    0.02,
	}
}

// Session is a snapshot of the current recording.
type Session struct {
	State           State
	URL             string
	Elapsed         float64
	Progress        int
	InitialRotation float64
	Frames          int
	Err             error
}

// Recorder drives one recording at a time.
type Recorder struct {
	opts Options
	src  Source
	sink Sink

	s       Session
	waited  float64
	data    []byte
	seq     int
	encoder bool
	log     *zap.Logger
}

// New creates an idle Recorder.
func New(src Source, sink Sink, opts Options) *Recorder {
	def := DefaultOptions()
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = def.SampleInterval
	}
	if opts.NominalStep <= 0 {
		opts.NominalStep = opts.SampleInterval
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = def.MaxDuration
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	return &Recorder{
		opts: opts,
		src:  src,
		sink: sink,
		log:  logger.Named("capture"),
	}
}

// Session returns the current session.
func (r *Recorder) Session() Session { return r.s }

// Recording reports whether frames are being captured.
func (r *Recorder) Recording() bool { return r.s.State == Recording }

// EncoderReady reports whether the encoder handshake arrived.
func (r *Recorder) EncoderReady() bool { return r.encoder }

// Data returns the last encoded GIF.
func (r *Recorder) Data() []byte { return r.data }

// Step returns the delta to advance the scene by: the nominal step while
// recording, delta otherwise.
func (r *Recorder) Step(delta float64) float64 {
	if r.Recording() {
		return r.opts.NominalStep
	}
	return delta
}

// Start begins a recording from the given camera rotation. The caller is
// responsible for turning the turntable on.
func (r *Recorder) Start(rotation float64) {
	r.s = Session{State: Recording, InitialRotation: rotation}
	r.waited = 0
	r.log.Info("recording started", zap.Float64("rotation", rotation))
}

// Tick advances the session by delta seconds with the camera at rotation.
// It returns an error when a frame could not be read or sent; the session
// keeps recording in that case and progress is left untouched.
func (r *Recorder) Tick(delta, rotation float64) error {
	switch r.s.State {
	case Recording:
		return r.record(delta, rotation)
	case Finalizing:
		if r.opts.FinalizeTimeout > 0 {
			r.waited += delta
			if r.waited >= r.opts.FinalizeTimeout {
				r.s.State = Failed
				r.s.Err = ErrFinalizeTimeout
				r.log.Warn("gif finalize timed out", zap.Float64("waited", r.waited))
			}
		}
	}
	return nil
}

func (r *Recorder) record(delta, rotation float64) error {
	previous := r.s.Elapsed
	r.s.Elapsed += delta
	turned := math.Abs(r.s.InitialRotation - rotation)

	if r.s.Elapsed > r.opts.MaxDuration || turned >= FullTurn {
		return r.finalize()
	}

	step := r.opts.SampleInterval
	if previous != 0 && math.Floor(previous/step) == math.Floor(r.s.Elapsed/step) {
		return nil
	}
	data, err := r.src.Pixels()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	if err := r.sink.Send(encoder.Frame{Data: data}); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	r.s.Frames++
	r.s.Progress = int(math.Floor(turned / FullTurn * 100))
	return nil
}

func (r *Recorder) finalize() error {
	r.s.State = Finalizing
	r.waited = 0

	var pal []palette.RGB
	if !r.src.HasHDTexture() {
		for _, c := range r.src.FramePalette() {
			pal = append(pal, palette.RGB{c[0], c[1], c[2]})
		}
	}
	req := encoder.Generate{
		Width:            r.opts.Width,
		Height:           r.opts.Height,
		Scale:            r.opts.Scale,
		Delay:            int(math.Round(r.opts.SampleInterval * 1000)),
		Background:       r.src.FrameBackgroundColor(),
		Palette:          pal,
		TransparentIndex: encoder.NoTransparency,
	}
	r.log.Info("recording finished",
		zap.Int("frames", r.s.Frames),
		zap.Float64("elapsed", r.s.Elapsed),
		zap.Bool("paletted", pal != nil))
	if err := r.sink.Send(req); err != nil {
		r.s.State = Failed
		r.s.Err = err
		return fmt.Errorf("send generate: %w", err)
	}
	return nil
}

// Handle applies an encoder message.
func (r *Recorder) Handle(msg encoder.Response) error {
	switch m := msg.(type) {
	case encoder.Loaded:
		r.encoder = true
		r.log.Debug("encoder ready")
	case encoder.GIF:
		u, err := r.publish(m.Data)
		if err != nil {
			return err
		}
		r.data = m.Data
		r.s.State = Ready
		r.s.URL = u
		r.s.Err = nil
		r.log.Info("gif written", zap.String("url", u), zap.Int("bytes", len(m.Data)))
	default:
		r.log.Warn("unknown encoder message", zap.String("type", msg.Type()))
	}
	return nil
}

// publish writes data to a new file and returns its URL. Earlier files are
// left in place.
func (r *Recorder) publish(data []byte) (string, error) {
	dir := r.opts.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	r.seq++
	f, err := os.CreateTemp(dir, fmt.Sprintf("turntable-%03d-*.gif", r.seq))
	if err != nil {
		return "", fmt.Errorf("create gif: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write gif: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close gif: %w", err)
	}
	abs, err := filepath.Abs(f.Name())
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Path returns the local file behind a URL produced by the Recorder.
func Path(u string) (string, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("capture: not a file url: %q", u)
	}
	return filepath.FromSlash(parsed.Path), nil
}
