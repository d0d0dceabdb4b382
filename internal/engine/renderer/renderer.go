// Package renderer is the picoCAD render engine. It draws a loaded model
// into an offscreen target, runs the post-processing chain over it and
// exposes the result for presentation, readback and capture.
//
// An Engine is owned by one render goroutine. Settings are the exception:
// they may be replaced from anywhere and are snapshotted once per frame.
package renderer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/assets"
	"github.com/Faultbox/picoview/internal/engine/camera"
	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/internal/engine/postfx"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/internal/logger"
	"github.com/Faultbox/picoview/internal/settings"
	"github.com/Faultbox/picoview/pkg/math"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultWidth        = 128
	DefaultHeight       = 128
	DefaultFOV          = 90
	DefaultTessellation = 3
)

var (
	// ErrNotLoaded is returned by operations that need a model.
	ErrNotLoaded = errors.New("renderer: no model loaded")
	// ErrNoFrame is returned by readback when no finished frame is available.
	ErrNoFrame = errors.New("renderer: no frame available")
	// ErrFreed is returned once the engine has been freed.
	ErrFreed = errors.New("renderer: engine freed")
)

// Resolution is the offscreen size and the integer upscale used for display.
type Resolution struct {
	Width  int
	Height int
	Scale  int
}

// Fetcher resolves a path or URL to bytes.
type Fetcher interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// Options configures a new Engine.
type Options struct {
	Resolution Resolution
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Tessellation subdivides quads; 1 or less disables it.
	Tessellation int
	// PreserveDrawingBuffer keeps the last frame readable after it has been
	// presented. Without it readback is only valid between Draw and the
	// next Composite.
	PreserveDrawingBuffer bool
	// LightDirection is the initial light; zero means (1, -1, 0).
	LightDirection math.Vec3
	Settings       *settings.Settings
	Builder        model.Builder
	Fetcher        Fetcher
	Chain          []postfx.Option
}

// Engine renders one model.
type Engine struct {
	mu      sync.Mutex
	pending settings.Settings
	frame   settings.Settings
	drawn   bool

	// Camera and LightDirection are read at the start of every Draw.
	Camera         *camera.Camera
	LightDirection math.Vec3
	Tessellation   int

	res      Resolution
	preserve bool
	targets  [2]*framebuffer.Framebuffer
	depth    *framebuffer.DepthBuffer
	ring     *postfx.Ring
	chain    *postfx.Chain
	current  *framebuffer.Framebuffer
	valid    bool

	model      *model.Model
	rendering  *model.Rendering
	index      *texture.Index
	colorIndex *texture.Index
	lightMap   *palette.LightMap
	colors     []palette.RGB
	hd         *texture.RGBA
	normalMap  *texture.RGBA

	watermark      string
	watermarkBytes []byte

	builder model.Builder
	fetcher Fetcher

	loopMu sync.Mutex
	stop   context.CancelFunc

	freed bool
	log   *zap.Logger
}

// New creates an engine with its offscreen targets allocated.
func New(opts Options) *Engine {
	e := &Engine{
		Camera:         camera.New(opts.FOV),
		LightDirection: opts.LightDirection,
		Tessellation:   opts.Tessellation,
		preserve:       opts.PreserveDrawingBuffer,
		chain:          postfx.New(opts.Chain...),
		colorIndex:     texture.ColorIndex(),
		builder:        opts.Builder,
		fetcher:        opts.Fetcher,
		log:            logger.Named("renderer"),
	}
	if e.Camera.FOV == 0 {
		e.Camera.FOV = DefaultFOV
	}
	if e.LightDirection == (math.Vec3{}) {
		e.LightDirection = math.Vec3{X: 1, Y: -1}
	}
	if e.Tessellation == 0 {
		e.Tessellation = DefaultTessellation
	}
	if e.builder == nil {
		e.builder = model.BuildPasses
	}
	if e.fetcher == nil {
		e.fetcher = assets.NewManager()
	}
	if opts.Settings != nil {
		e.pending = opts.Settings.Clone()
	} else {
		e.pending = settings.Default()
	}

	e.depth = framebuffer.NewDepth(1, 1)
	e.targets[0] = framebuffer.New(1, 1)
	e.targets[0].AttachDepth(e.depth)
	e.targets[1] = framebuffer.New(1, 1)
	e.ring = postfx.NewRing(e.targets[0], e.targets[1])

	res := opts.Resolution
	if res.Width <= 0 || res.Height <= 0 {
		res = Resolution{Width: DefaultWidth, Height: DefaultHeight, Scale: 1}
	}
	e.SetResolution(res.Width, res.Height, res.Scale)
	e.ResetLightMap()
	return e
}

// SetResolution reallocates both ping-pong targets and the shared depth
// buffer. It is a no-op when nothing changed.
func (e *Engine) SetResolution(width, height, scale int) {
	if scale < 1 {
		scale = 1
	}
	next := Resolution{Width: max(width, 1), Height: max(height, 1), Scale: scale}
	if next == e.res {
		return
	}
	e.res = next

	e.targets[0].Resize(next.Width, next.Height)
	e.targets[1].Resize(next.Width, next.Height)
	e.depth = framebuffer.NewDepth(next.Width, next.Height)
	e.targets[0].AttachDepth(e.depth)
	e.current = nil
	e.valid = false

	e.log.Debug("resolution changed",
		zap.Int("width", next.Width),
		zap.Int("height", next.Height),
		zap.Int("scale", next.Scale),
	)
}

// Resolution returns the current resolution.
func (e *Engine) Resolution() Resolution {
	return e.res
}

// Settings returns a copy of the settings the next frame will use.
func (e *Engine) Settings() settings.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Clone()
}

// SetSettings replaces the settings. Safe to call from any goroutine.
func (e *Engine) SetSettings(s settings.Settings) {
	e.mu.Lock()
	e.pending = s.Clone()
	e.mu.Unlock()
}

// UpdateSettings applies fn to the pending settings under the lock.
func (e *Engine) UpdateSettings(fn func(s *settings.Settings)) {
	e.mu.Lock()
	fn(&e.pending)
	e.mu.Unlock()
}

// snapshot copies the pending settings for the frame about to be drawn.
func (e *Engine) snapshot() *settings.Settings {
	e.mu.Lock()
	e.frame = e.pending.Clone()
	e.drawn = true
	e.mu.Unlock()
	return &e.frame
}

// frameSettings returns the settings of the last drawn frame, or the pending
// settings before the first Draw.
func (e *Engine) frameSettings() settings.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.drawn {
		return e.pending.Clone()
	}
	return e.frame.Clone()
}

// Loaded reports whether a model is loaded.
func (e *Engine) Loaded() bool {
	return e.model != nil
}

// Model returns the loaded model, or nil.
func (e *Engine) Model() *model.Model {
	return e.model
}

// Free stops the draw loop and releases every target and texture. The
// engine is unusable afterwards.
func (e *Engine) Free() {
	if e.freed {
		return
	}
	e.Stop()

	for _, fb := range e.targets {
		fb.Destroy()
	}
	e.chain.Free()
	e.depth = nil
	e.current = nil
	e.valid = false

	e.model = nil
	e.rendering = nil
	e.index = nil
	e.hd = nil
	e.normalMap = nil
	e.lightMap = nil
	e.watermarkBytes = nil

	e.freed = true
	e.log.Debug("engine freed")
}
