package capture

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/Faultbox/picoview/internal/encoder"
	"github.com/Faultbox/picoview/internal/engine/palette"
)

type fakeSource struct {
	hd      bool
	readErr error
	reads   int
}

func (f *fakeSource) Pixels() ([]byte, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return make([]byte, 16), nil
}

func (f *fakeSource) FrameBackgroundColor() palette.RGBA { return palette.RGBA{1, 2, 3, 255} }

func (f *fakeSource) FramePalette() []palette.RGBA {
	return []palette.RGBA{{0, 0, 0, 255}, {255, 0, 77, 255}}
}

func (f *fakeSource) HasHDTexture() bool { return f.hd }

type fakeSink struct {
	reqs []encoder.Request
	err  error
}

func (f *fakeSink) Send(req encoder.Request) error {
	if f.err != nil {
		return f.err
	}
	f.reqs = append(f.reqs, req)
	return nil
}

func (f *fakeSink) count(kind string) int {
	n := 0
	for _, r := range f.reqs {
		if r.Type() == kind {
			n++
		}
	}
	return n
}

func (f *fakeSink) generate(t *testing.T) encoder.Generate {
	t.Helper()
	for _, r := range f.reqs {
		if g, ok := r.(encoder.Generate); ok {
			return g
		}
	}
	t.Fatal("no generate request sent")
	return encoder.Generate{}
}

// Binary fractions keep the sampling boundaries exact.
func testOptions() Options {
	return Options{Width: 2, Height: 2, Scale: 1, MaxDuration: 10, SampleInterval: 0.25, NominalStep: 0.125}
}

func TestFullTurnEndsRecording(t *testing.T) {
	src, sink := &fakeSource{}, &fakeSink{}
	r := New(src, sink, testOptions())

	// Just over a quarter turn per tick completes the turn on tick 4,
	// long before the time limit.
	rot := 1.0
	r.Start(rot)
	ticks := 0
	for r.Recording() {
		rot += FullTurn/4 + 0.001
		if err := r.Tick(r.Step(1), rot); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		ticks++
		if ticks > 100 {
			t.Fatal("recording never ended")
		}
	}
	if ticks != 4 {
		t.Errorf("ticks = %d, want 4", ticks)
	}
	s := r.Session()
	if s.State != Finalizing {
		t.Errorf("state = %v, want finalizing", s.State)
	}
	if s.Elapsed >= testOptions().MaxDuration {
		t.Errorf("elapsed = %v, want below max duration", s.Elapsed)
	}
	if got := sink.count(encoder.TypeGenerate); got != 1 {
		t.Errorf("generate requests = %d, want 1", got)
	}
	// Frames at 0.125 (first) and 0.25; 0.375 sits in the same interval.
	if got := sink.count(encoder.TypeFrame); got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
	if s.Progress != 50 {
		t.Errorf("progress = %d, want 50", s.Progress)
	}
}

func TestMaxDurationEndsRecording(t *testing.T) {
	src, sink := &fakeSource{}, &fakeSink{}
	opts := testOptions()
	opts.MaxDuration = 1
	r := New(src, sink, opts)

	r.Start(0)
	ticks := 0
	for r.Recording() {
		// A slow spin never reaches the full turn.
		if err := r.Tick(r.Step(0.5), float64(ticks+1)*0.01); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		ticks++
	}
	// 8 steps of 0.125 reach 1.0, the ninth exceeds it.
	if ticks != 9 {
		t.Errorf("ticks = %d, want 9", ticks)
	}
	if got := sink.count(encoder.TypeFrame); got != 5 {
		t.Errorf("frames = %d, want 5", got)
	}
	if r.Session().Progress >= 100 {
		t.Errorf("progress = %d, want < 100", r.Session().Progress)
	}
}

func TestGenerateRequest(t *testing.T) {
	tests := []struct {
		name      string
		hd        bool
		wantColor int
	}{
		{"indexed", false, 2},
		{"hd texture", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			r := New(&fakeSource{hd: tt.hd}, sink, DefaultOptions())
			r.Start(0)
			if err := r.Tick(0.02, FullTurn); err != nil {
				t.Fatalf("Tick() error = %v", err)
			}
			g := sink.generate(t)
			if g.Width != 128 || g.Height != 128 || g.Scale != 4 {
				t.Errorf("size = %dx%d@%d", g.Width, g.Height, g.Scale)
			}
			if g.Delay != 20 {
				t.Errorf("delay = %d, want 20", g.Delay)
			}
			if g.TransparentIndex != -1 {
				t.Errorf("transparent index = %d, want -1", g.TransparentIndex)
			}
			if g.Background != (palette.RGBA{1, 2, 3, 255}) {
				t.Errorf("background = %v", g.Background)
			}
			if len(g.Palette) != tt.wantColor {
				t.Errorf("palette colors = %d, want %d", len(g.Palette), tt.wantColor)
			}
			if tt.hd && g.Palette != nil {
				t.Error("palette should be nil with an hd texture")
			}
		})
	}
}

func TestReadFailureKeepsProgress(t *testing.T) {
	src := &fakeSource{readErr: errors.New("no frame")}
	r := New(src, &fakeSink{}, testOptions())
	r.Start(0)
	if err := r.Tick(r.Step(1), 1); err == nil {
		t.Fatal("Tick() error = nil, want read error")
	}
	s := r.Session()
	if s.State != Recording || s.Progress != 0 || s.Frames != 0 {
		t.Errorf("session = %+v, want untouched recording", s)
	}
}

func TestStepOnlyWhileRecording(t *testing.T) {
	r := New(&fakeSource{}, &fakeSink{}, testOptions())
	if got := r.Step(0.7); got != 0.7 {
		t.Errorf("idle Step = %v, want 0.7", got)
	}
	r.Start(0)
	if got := r.Step(0.7); got != 0.125 {
		t.Errorf("recording Step = %v, want 0.125", got)
	}
}

func TestFinalizeToReady(t *testing.T) {
	opts := testOptions()
	opts.OutputDir = t.TempDir()
	r := New(&fakeSource{}, &fakeSink{}, opts)

	if err := r.Handle(encoder.Loaded{}); err != nil {
		t.Fatal(err)
	}
	if !r.EncoderReady() {
		t.Error("EncoderReady() = false after handshake")
	}

	r.Start(0)
	if err := r.Tick(0.125, FullTurn); err != nil {
		t.Fatal(err)
	}
	// Without a timeout the session waits indefinitely.
	for i := 0; i < 1000; i++ {
		_ = r.Tick(1, 0)
	}
	if got := r.Session().State; got != Finalizing {
		t.Fatalf("state = %v, want finalizing", got)
	}

	if err := r.Handle(encoder.GIF{Data: []byte("GIF89a")}); err != nil {
		t.Fatalf("Handle(gif) error = %v", err)
	}
	s := r.Session()
	if s.State != Ready || s.URL == "" {
		t.Fatalf("session = %+v, want ready with url", s)
	}
	path, err := Path(s.URL)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "GIF89a" {
		t.Errorf("gif file = %q, %v", data, err)
	}

	// A new recording starts clean and keeps the old file.
	r.Start(2)
	if s := r.Session(); s.URL != "" || s.State != Recording || s.InitialRotation != 2 {
		t.Errorf("restarted session = %+v", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("previous gif removed: %v", err)
	}
}

func TestFinalizeTimeout(t *testing.T) {
	opts := testOptions()
	opts.FinalizeTimeout = 1
	r := New(&fakeSource{}, &fakeSink{}, opts)
	r.Start(0)
	_ = r.Tick(0.125, -FullTurn)
	_ = r.Tick(0.5, 0)
	if got := r.Session().State; got != Finalizing {
		t.Fatalf("state = %v, want finalizing", got)
	}
	_ = r.Tick(0.5, 0)
	s := r.Session()
	if s.State != Failed || !errors.Is(s.Err, ErrFinalizeTimeout) {
		t.Errorf("session = %+v, want failed with timeout", s)
	}
}

func TestSendFailure(t *testing.T) {
	r := New(&fakeSource{}, &fakeSink{err: encoder.ErrEncoderClosed}, testOptions())
	r.Start(0)
	if err := r.Tick(0.125, FullTurn); !errors.Is(err, encoder.ErrEncoderClosed) {
		t.Errorf("Tick() error = %v, want ErrEncoderClosed", err)
	}
	if got := r.Session().State; got != Failed {
		t.Errorf("state = %v, want failed", got)
	}
}

func TestProgressBounds(t *testing.T) {
	src, sink := &fakeSource{}, &fakeSink{}
	r := New(src, sink, testOptions())
	r.Start(0)
	last := -1
	for rot := 0.0; r.Recording(); rot += 0.3 {
		_ = r.Tick(r.Step(0), rot)
		p := r.Session().Progress
		if p < 0 || p >= 100 {
			t.Fatalf("progress = %d out of range", p)
		}
		if p < last {
			t.Fatalf("progress went back: %d after %d", p, last)
		}
		last = p
	}
	if math.IsNaN(r.Session().Elapsed) {
		t.Fatal("elapsed is NaN")
	}
}

func TestGallerySelection(t *testing.T) {
	var g Images
	if _, ok := g.Selected(); ok {
		t.Fatal("empty gallery has a selection")
	}
	g.Add("a")
	g.Add("b")
	if img, _ := g.Selected(); img.URL != "b" {
		t.Errorf("selected = %q, want b", img.URL)
	}
	g.Select(0)
	n := 0
	for _, img := range g.Generated {
		if img.Selected {
			n++
		}
	}
	if n != 1 {
		t.Errorf("selected count = %d, want 1", n)
	}
	g.Remove(0)
	if _, ok := g.Selected(); ok {
		t.Error("selection survived removal")
	}
	g.Remove(5)
	if len(g.Generated) != 1 {
		t.Errorf("len = %d, want 1", len(g.Generated))
	}
}
