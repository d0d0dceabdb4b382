package renderer

import (
	"image"
	"image/color"
	"image/draw"
	gomath "math"

	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/picoview/internal/engine/palette"
)

// Pixels returns a copy of the last finished frame as RGBA, bottom row
// first, at the offscreen resolution.
func (e *Engine) Pixels() ([]byte, error) {
	if !e.readable() {
		return nil, ErrNoFrame
	}
	return e.current.ReadPixels(), nil
}

// PixelIndices maps the last finished frame to palette indices, top row
// first. Each pixel becomes a scale x scale block; scale is floored and at
// least 1. Transparent pixels map to the background entry; colors outside
// the palette map to 0.
func (e *Engine) PixelIndices(scale float64) ([]uint8, error) {
	if !e.readable() {
		return nil, ErrNoFrame
	}
	n := max(1, int(gomath.Floor(scale)))

	s := e.frameSettings()
	pal := e.palette(&s.Shader)
	lookup := palette.ReverseIndex(pal)
	if s.BackgroundColor != nil {
		lookup[0] = uint8(len(pal) - 1)
	} else {
		lookup[0] = uint8(e.backgroundIndex())
	}

	w, h := e.current.Size()
	pix := e.current.Pix()
	outW := w * n
	out := make([]uint8, w*h*n*n)

	for y := 0; y < h; y++ {
		src := (h - 1 - y) * w * 4
		for x := 0; x < w; x++ {
			o := src + x*4
			idx := lookup[palette.PackRGBA(palette.RGBA{pix[o], pix[o+1], pix[o+2], pix[o+3]})]

			base := y*n*outW + x*n
			for sy := 0; sy < n; sy++ {
				row := out[base+sy*outW : base+sy*outW+n]
				for sx := range row {
					row[sx] = idx
				}
			}
		}
	}
	return out, nil
}

// Frame returns the last finished frame as a top-down image without the
// background.
func (e *Engine) Frame() (*image.NRGBA, error) {
	if !e.readable() {
		return nil, ErrNoFrame
	}
	w, h := e.current.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	pix := e.current.Pix()
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pix[(h-1-y)*stride:])
	}
	return img, nil
}

// Composite produces the visible image: the last frame over the rendered
// background color, upscaled by the resolution scale with nearest-neighbor
// sampling. Unless the engine preserves its drawing buffer, the frame is no
// longer readable afterwards.
func (e *Engine) Composite() (*image.RGBA, error) {
	frame, err := e.Frame()
	if err != nil {
		return nil, err
	}
	if !e.preserve {
		e.valid = false
	}

	bg := e.FrameBackgroundColor()
	b := frame.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.NewUniform(color.RGBA{bg[0], bg[1], bg[2], bg[3]}), image.Point{}, draw.Src)
	draw.Draw(flat, b, frame, b.Min, draw.Over)

	scale := e.res.Scale
	if scale <= 1 {
		return flat, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), flat, b, xdraw.Src, nil)
	return out, nil
}

func (e *Engine) readable() bool {
	return e.current != nil && e.valid
}
