package texture

import (
	"image"

	"github.com/Faultbox/picoview/internal/engine/palette"
)

const (
	// Size is the edge length of the model index texture.
	Size = 128
	// Transparent is the index value that discards a fragment.
	Transparent = 255
)

// Index is a single-channel texture of palette indices, top row first.
type Index struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewIndex wraps pix as a width x height index texture.
func NewIndex(width, height int, pix []uint8) *Index {
	return &Index{Width: width, Height: height, Pix: pix}
}

// ColorIndex is the 16x1 texture holding indices 0..15, sampled with
// per-face color UVs to draw solid face colors.
func ColorIndex() *Index {
	pix := make([]uint8, palette.Size)
	for i := range pix {
		pix[i] = uint8(i)
	}
	return NewIndex(palette.Size, 1, pix)
}

// IndexFromImage converts a palette image to indices. Pixels matching the
// alpha color become Transparent; colors outside the base palette become 0.
func IndexFromImage(img *image.NRGBA, alphaIndex int) *Index {
	lookup := make(map[uint32]uint8, palette.Size)
	for i, c := range palette.Pico {
		v := uint8(i)
		if i == alphaIndex {
			v = Transparent
		}
		lookup[palette.Key(c)] = v
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := NewIndex(w, h, make([]uint8, w*h))
	for i := range out.Pix {
		o := pixOffset(img, i)
		if img.Pix[o+3] != 255 {
			continue
		}
		out.Pix[i] = lookup[palette.Key(palette.RGB{img.Pix[o], img.Pix[o+1], img.Pix[o+2]})]
	}
	return out
}

// At returns the index at (x, y), clamped to the edges.
func (t *Index) At(x, y int) uint8 {
	return t.Pix[clampInt(y, 0, t.Height-1)*t.Width+clampInt(x, 0, t.Width-1)]
}

// Sample performs a nearest-neighbor lookup with clamp-to-edge addressing.
func (t *Index) Sample(u, v float32) uint8 {
	return t.At(texel(u, t.Width), texel(v, t.Height))
}

// Image renders the indices through colors. Transparent texels stay clear.
func (t *Index) Image(colors []palette.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, idx := range t.Pix {
		if idx == Transparent || int(idx) >= len(colors) {
			continue
		}
		c := colors[idx]
		copy(img.Pix[i*4:], []uint8{c[0], c[1], c[2], 255})
	}
	return img
}

// ColorCount returns how many distinct indices the texture uses.
func (t *Index) ColorCount() int {
	var seen [256]bool
	count := 0
	for _, idx := range t.Pix {
		if !seen[idx] {
			seen[idx] = true
			count++
		}
	}
	return count
}

// RGBA is a true-color texture sampled with nearest filtering.
type RGBA struct {
	img *image.NRGBA
}

// NewRGBA wraps img for sampling.
func NewRGBA(img *image.NRGBA) *RGBA {
	return &RGBA{img: img}
}

// Image returns the underlying pixels.
func (t *RGBA) Image() *image.NRGBA {
	return t.img
}

// Sample returns the texel nearest (u, v) with components in [0, 1].
func (t *RGBA) Sample(u, v float32) [4]float32 {
	w, h := t.img.Rect.Dx(), t.img.Rect.Dy()
	x := clampInt(texel(u, w), 0, w-1)
	y := clampInt(texel(v, h), 0, h-1)
	o := y*t.img.Stride + x*4
	p := t.img.Pix[o : o+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

// texel maps a normalized coordinate to a texel column or row.
func texel(u float32, size int) int {
	f := u * float32(size)
	if f < 0 {
		return 0
	}
	return int(f)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
