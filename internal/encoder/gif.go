package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	imgpalette "image/color/palette"
	"image/draw"
	"image/gif"

	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/picoview/internal/engine/palette"
)

// MaxColors is the largest palette a GIF frame can carry.
const MaxColors = 256

var (
	// ErrNoFrames is returned when Generate arrives before any usable frame.
	ErrNoFrames = errors.New("encoder: no frames")
	// ErrBadSize is returned for non-positive output dimensions.
	ErrBadSize = errors.New("encoder: invalid dimensions")
)

// Encode builds an animated GIF from raw RGBA frames (bottom row first).
// Frames whose length does not match Width x Height are skipped; the count
// of skipped frames is returned alongside the data.
func Encode(frames [][]byte, g Generate) ([]byte, int, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, 0, ErrBadSize
	}
	if len(g.Palette) > MaxColors {
		return nil, 0, fmt.Errorf("encoder: palette has %d colors, max %d", len(g.Palette), MaxColors)
	}
	scale := max(1, g.Scale)
	bounds := image.Rect(0, 0, g.Width*scale, g.Height*scale)
	delay := max(0, (g.Delay+5)/10)

	var q quantizer
	if g.Palette != nil {
		q = newExact(g.Palette, g.Background)
	} else {
		q = dither{}
	}

	out := &gif.GIF{Config: image.Config{Width: bounds.Dx(), Height: bounds.Dy()}}
	skipped := 0
	src := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	scaled := image.NewRGBA(bounds)
	for _, data := range frames {
		if len(data) != g.Width*g.Height*4 {
			skipped++
			continue
		}
		flatten(src, data, g.Background)
		xdraw.NearestNeighbor.Scale(scaled, bounds, src, src.Bounds(), draw.Src, nil)
		out.Image = append(out.Image, q.quantize(scaled))
		out.Delay = append(out.Delay, delay)
		out.Disposal = append(out.Disposal, gif.DisposalNone)
	}
	if len(out.Image) == 0 {
		return nil, skipped, ErrNoFrames
	}
	if g.TransparentIndex >= 0 {
		out.BackgroundIndex = uint8(g.TransparentIndex)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, skipped, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), skipped, nil
}

// flatten copies a bottom-up frame into dst top-down, compositing
// translucent pixels over bg.
func flatten(dst *image.RGBA, data []byte, bg palette.RGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		row := data[(h-1-y)*w*4 : (h-y)*w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			a := uint32(row[x+3])
			switch a {
			case 255:
				copy(out[x:x+4], row[x:x+4])
			case 0:
				out[x], out[x+1], out[x+2], out[x+3] = bg[0], bg[1], bg[2], 255
			default:
				for c := 0; c < 3; c++ {
					out[x+c] = uint8((uint32(row[x+c])*a + uint32(bg[c])*(255-a) + 127) / 255)
				}
				out[x+3] = 255
			}
		}
	}
}

type quantizer interface {
	quantize(img *image.RGBA) *image.Paletted
}

// exact maps colors straight to palette indices. Colors outside the
// palette fall back to the nearest entry.
type exact struct {
	pal    color.Palette
	lookup map[uint32]uint8
}

func newExact(colors []palette.RGB, bg palette.RGBA) *exact {
	e := &exact{lookup: make(map[uint32]uint8, len(colors)+1)}
	for i, c := range colors {
		e.pal = append(e.pal, color.RGBA{c[0], c[1], c[2], 255})
		if _, ok := e.lookup[palette.Key(c)]; !ok {
			e.lookup[palette.Key(c)] = uint8(i)
		}
	}
	if len(e.pal) == 0 {
		e.pal = color.Palette{color.RGBA{bg[0], bg[1], bg[2], 255}}
	}
	return e
}

func (e *exact) quantize(img *image.RGBA) *image.Paletted {
	p := image.NewPaletted(img.Rect, e.pal)
	for i, j := 0, 0; i < len(img.Pix); i, j = i+4, j+1 {
		c := palette.RGB{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
		idx, ok := e.lookup[palette.Key(c)]
		if !ok {
			idx = uint8(e.pal.Index(color.RGBA{c[0], c[1], c[2], 255}))
			e.lookup[palette.Key(c)] = idx
		}
		p.Pix[j] = idx
	}
	return p
}

// dither quantizes true-color frames to Plan9 with error diffusion.
type dither struct{}

func (dither) quantize(img *image.RGBA) *image.Paletted {
	p := image.NewPaletted(img.Rect, imgpalette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Rect, img, image.Point{})
	return p
}
