// Package encoder turns captured frames into an animated GIF on a worker
// goroutine. The worker is reached only through typed messages: frames and
// a generate request go in, a load handshake and the encoded GIF come out.
package encoder

import "github.com/Faultbox/picoview/internal/engine/palette"

// Message type tags.
const (
	TypeFrame    = "frame"
	TypeGenerate = "generate"
	TypeLoad     = "load"
	TypeGIF      = "gif"
)

// NoTransparency is the only transparent-index value the worker emits.
const NoTransparency = -1

// Request is a message sent to the worker.
type Request interface {
	Type() string
}

// Response is a message sent by the worker.
type Response interface {
	Type() string
}

// Frame carries one raw RGBA frame, bottom row first. The worker takes
// ownership of Data; the sender must not touch it afterwards.
type Frame struct {
	Data []byte
}

// Type implements Request.
func (Frame) Type() string { return TypeFrame }

// Generate asks the worker to encode every frame received since the last
// Generate.
type Generate struct {
	Width  int
	Height int
	Scale  int
	// Delay between frames in milliseconds.
	Delay      int
	Background palette.RGBA
	// Palette restricts the output to these colors. Nil lets the worker
	// quantize freely.
	Palette          []palette.RGB
	TransparentIndex int
}

// Type implements Request.
func (Generate) Type() string { return TypeGenerate }

// Loaded is the handshake the worker sends once it accepts requests.
type Loaded struct{}

// Type implements Response.
func (Loaded) Type() string { return TypeLoad }

// GIF carries an encoded animation.
type GIF struct {
	Data []byte
}

// Type implements Response.
func (GIF) Type() string { return TypeGIF }
