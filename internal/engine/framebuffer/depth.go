package framebuffer

// DepthBuffer stores window-space depth in [0, 1].
type DepthBuffer struct {
	width  int
	height int
	z      []float32
}

// NewDepth creates a depth buffer cleared to 1.
func NewDepth(width, height int) *DepthBuffer {
	d := &DepthBuffer{width: width, height: height, z: make([]float32, width*height)}
	d.Clear(1)
	return d
}

// Clear fills the buffer with v.
func (d *DepthBuffer) Clear(v float32) {
	for i := range d.z {
		d.z[i] = v
	}
}

// Passes reports whether z is less than or equal to the stored depth.
func (d *DepthBuffer) Passes(x, y int, z float32) bool {
	return z <= d.z[y*d.width+x]
}

// Write stores z at (x, y).
func (d *DepthBuffer) Write(x, y int, z float32) {
	d.z[y*d.width+x] = z
}

// At returns the stored depth at (x, y).
func (d *DepthBuffer) At(x, y int) float32 {
	return d.z[y*d.width+x]
}

// Size returns the buffer dimensions.
func (d *DepthBuffer) Size() (width, height int) {
	return d.width, d.height
}
