package text

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
)

// Padding is the gap between the text and the target's edges.
const Padding = 2

// Draw writes bs with its top-left corner at (x, y) in top-down
// coordinates.
func Draw(d drivers.Displayer, x, y int, bs []byte, c color.RGBA) {
	baseline := int16(y + GlyphHeight - 1)
	for _, b := range bs {
		tinyfont.DrawChar(d, Font, int16(x), baseline, rune(b), c)
		x += Advance(b)
	}
}

// Corner returns the top-left position that places text of the given
// width in the bottom-right corner of a w x h target.
func Corner(w, h, width int) (x, y int) {
	return w - width - Padding, h - GlyphHeight - Padding
}

// Watermark draws bs in the bottom-right corner of fb.
func Watermark(fb *framebuffer.Framebuffer, bs []byte, c color.RGBA) {
	if len(bs) == 0 {
		return
	}
	d := NewDisplay(fb)
	w, h := fb.Size()
	x, y := Corner(w, h, Width(bs))
	Draw(d, x, y, bs, c)
}

// Display adapts a bottom-up framebuffer to a top-down drivers.Displayer.
// Pixels outside the target are dropped.
type Display struct {
	fb *framebuffer.Framebuffer
}

// NewDisplay wraps fb.
func NewDisplay(fb *framebuffer.Framebuffer) *Display {
	return &Display{fb: fb}
}

func (d *Display) Size() (x, y int16) {
	w, h := d.fb.Size()
	return int16(w), int16(h)
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.fb.Size()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}
	d.fb.SetRGBA8(ix, h-1-iy, [4]uint8{c.R, c.G, c.B, c.A})
}

func (d *Display) Display() error {
	return nil
}
