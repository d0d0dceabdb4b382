package encoder

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"testing"
	"time"

	"github.com/Faultbox/picoview/internal/engine/palette"
)

// frame builds a bottom-up RGBA frame whose bottom row is bottom and the
// rest top.
func frame(w, h int, top, bottom palette.RGBA) []byte {
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		c := top
		if y == 0 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			copy(data[(y*w+x)*4:], c[:])
		}
	}
	return data
}

func TestEncodePaletted(t *testing.T) {
	red := palette.RGBA{255, 0, 77, 255}
	none := palette.RGBA{}
	pal := []palette.RGB{palette.Pico[0], {255, 0, 77}, {41, 173, 255}}
	g := Generate{
		Width: 4, Height: 2, Scale: 3, Delay: 20,
		Background:       palette.RGBA{41, 173, 255, 255},
		Palette:          pal,
		TransparentIndex: NoTransparency,
	}

	data, skipped, err := Encode([][]byte{frame(4, 2, red, none), frame(4, 2, red, none)}, g)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}

	out, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if len(out.Image) != 2 {
		t.Fatalf("frames = %d, want 2", len(out.Image))
	}
	if out.Config.Width != 12 || out.Config.Height != 6 {
		t.Errorf("size = %dx%d, want 12x6", out.Config.Width, out.Config.Height)
	}
	if out.Delay[0] != 2 {
		t.Errorf("delay = %d, want 2", out.Delay[0])
	}

	img := out.Image[0]
	// Top three rows come from the top source row (the last in memory).
	if got := img.ColorIndexAt(0, 0); got != 1 {
		t.Errorf("top index = %d, want 1", got)
	}
	// The transparent bottom row is flattened onto the background.
	if got := img.ColorIndexAt(11, 5); got != 2 {
		t.Errorf("bottom index = %d, want 2", got)
	}
}

func TestEncodeDithered(t *testing.T) {
	g := Generate{Width: 2, Height: 2, Scale: 1, Delay: 20, TransparentIndex: NoTransparency}
	white := palette.RGBA{255, 255, 255, 255}
	data, _, err := Encode([][]byte{frame(2, 2, white, white)}, g)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	r, gg, b, _ := out.Image[0].At(1, 1).RGBA()
	if r>>8 != 255 || gg>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel = %d,%d,%d, want white", r>>8, gg>>8, b>>8)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]byte
		g      Generate
		want   error
	}{
		{"no frames", nil, Generate{Width: 2, Height: 2}, ErrNoFrames},
		{"all wrong size", [][]byte{make([]byte, 3)}, Generate{Width: 2, Height: 2}, ErrNoFrames},
		{"zero width", [][]byte{make([]byte, 16)}, Generate{Height: 2}, ErrBadSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Encode(tt.frames, tt.g)
			if !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func recv(t *testing.T, w *Worker) Response {
	t.Helper()
	select {
	case r, ok := <-w.Responses():
		if !ok {
			t.Fatal("responses closed")
		}
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker")
	}
	return nil
}

func TestWorkerProtocol(t *testing.T) {
	w := Start(context.Background())
	defer w.Close()

	if r := recv(t, w); r.Type() != TypeLoad {
		t.Fatalf("first message = %q, want %q", r.Type(), TypeLoad)
	}

	white := palette.RGBA{255, 255, 255, 255}
	g := Generate{Width: 2, Height: 2, Scale: 2, Delay: 20, Palette: []palette.RGB{{255, 255, 255}}, TransparentIndex: NoTransparency}
	for i := 0; i < 3; i++ {
		if err := w.Send(Frame{Data: frame(2, 2, white, white)}); err != nil {
			t.Fatalf("Send(frame) error = %v", err)
		}
	}
	if err := w.Send(g); err != nil {
		t.Fatalf("Send(generate) error = %v", err)
	}

	r := recv(t, w)
	res, ok := r.(GIF)
	if !ok {
		t.Fatalf("message = %T, want GIF", r)
	}
	out, err := gif.DecodeAll(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if len(out.Image) != 3 {
		t.Errorf("frames = %d, want 3", len(out.Image))
	}

	// Frames are consumed by Generate.
	if err := w.Send(Frame{Data: frame(2, 2, white, white)}); err != nil {
		t.Fatalf("Send(frame) error = %v", err)
	}
	if err := w.Send(g); err != nil {
		t.Fatalf("Send(generate) error = %v", err)
	}
	out, err = gif.DecodeAll(bytes.NewReader(recv(t, w).(GIF).Data))
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if len(out.Image) != 1 {
		t.Errorf("second gif frames = %d, want 1", len(out.Image))
	}
}

func TestWorkerClose(t *testing.T) {
	w := Start(context.Background())
	recv(t, w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Send(Frame{}); !errors.Is(err, ErrEncoderClosed) {
		t.Errorf("Send() after Close error = %v, want ErrEncoderClosed", err)
	}
	if _, ok := <-w.Responses(); ok {
		t.Error("responses still open after Close")
	}
	// Close is idempotent.
	_ = w.Close()
}

func TestWorkerRunLifecycle(t *testing.T) {
	w := NewWorker()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	recv(t, w)
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrEncoderClosed) {
		t.Errorf("second Run() error = %v, want ErrEncoderClosed", err)
	}
	_ = w.Close()
}

func TestCloseBeforeRun(t *testing.T) {
	w := NewWorker()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrEncoderClosed) {
		t.Errorf("Run() after Close error = %v, want ErrEncoderClosed", err)
	}
	if _, ok := <-w.Responses(); ok {
		t.Error("responses open after Close")
	}
}
