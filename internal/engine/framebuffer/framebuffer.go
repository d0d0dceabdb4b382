// Package framebuffer provides software render targets for offscreen rendering.
//
// Rows are stored bottom to top, matching OpenGL, so fragment coordinates
// and pixel readback keep GL conventions.
package framebuffer

// Framebuffer is an RGBA8 color target with an optional depth attachment.
type Framebuffer struct {
	width  int
	height int
	pix    []uint8
	depth  *DepthBuffer
}

// New creates a new framebuffer with the specified dimensions.
func New(width, height int) *Framebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// AttachDepth attaches a depth buffer. Several framebuffers may share one.
func (fb *Framebuffer) AttachDepth(d *DepthBuffer) {
	fb.depth = d
}

// Depth returns the depth attachment, or nil.
func (fb *Framebuffer) Depth() *DepthBuffer {
	return fb.depth
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Resize reallocates the color storage if the dimensions changed.
// Contents are cleared.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.width && height == fb.height {
		return
	}
	*fb = *New(width, height).withDepth(fb.depth)
}

func (fb *Framebuffer) withDepth(d *DepthBuffer) *Framebuffer {
	fb.depth = d
	return fb
}

// Clear fills the color attachment.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	c := [4]uint8{Quantize(r), Quantize(g), Quantize(b), Quantize(a)}
	for i := 0; i < len(fb.pix); i += 4 {
		copy(fb.pix[i:i+4], c[:])
	}
}

// Set writes a color at (x, y), quantizing each component to 8 bits.
func (fb *Framebuffer) Set(x, y int, c [4]float32) {
	o := (y*fb.width + x) * 4
	fb.pix[o] = Quantize(c[0])
	fb.pix[o+1] = Quantize(c[1])
	fb.pix[o+2] = Quantize(c[2])
	fb.pix[o+3] = Quantize(c[3])
}

// SetRGBA8 writes raw bytes at (x, y).
func (fb *Framebuffer) SetRGBA8(x, y int, c [4]uint8) {
	copy(fb.pix[(y*fb.width+x)*4:], c[:])
}

// RGBA8 returns the raw bytes at (x, y).
func (fb *Framebuffer) RGBA8(x, y int) [4]uint8 {
	o := (y*fb.width + x) * 4
	return [4]uint8{fb.pix[o], fb.pix[o+1], fb.pix[o+2], fb.pix[o+3]}
}

// Texel returns the color at (x, y) in [0, 1], clamped to the edges.
func (fb *Framebuffer) Texel(x, y int) [4]float32 {
	x = clamp(x, 0, fb.width-1)
	y = clamp(y, 0, fb.height-1)
	o := (y*fb.width + x) * 4
	return [4]float32{
		float32(fb.pix[o]) / 255,
		float32(fb.pix[o+1]) / 255,
		float32(fb.pix[o+2]) / 255,
		float32(fb.pix[o+3]) / 255,
	}
}

// Sample performs a nearest-neighbor lookup at normalized (u, v) with
// clamp-to-edge addressing; v=0 is the bottom row.
func (fb *Framebuffer) Sample(u, v float32) [4]float32 {
	return fb.Texel(floor(u*float32(fb.width)), floor(v*float32(fb.height)))
}

// ReadPixels returns a new buffer with the RGBA contents, bottom row first.
// The caller owns the returned slice.
func (fb *Framebuffer) ReadPixels() []byte {
	out := make([]byte, len(fb.pix))
	copy(out, fb.pix)
	return out
}

// Pix exposes the backing store for in-package-family readers.
func (fb *Framebuffer) Pix() []uint8 {
	return fb.pix
}

// Destroy releases the storage.
func (fb *Framebuffer) Destroy() {
	fb.pix = nil
	fb.depth = nil
}

// Quantize converts a normalized component to a byte the way GL stores
// floats into unsigned-normalized targets.
func Quantize(v float32) uint8 {
	switch {
	case v != v, v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

func floor(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
