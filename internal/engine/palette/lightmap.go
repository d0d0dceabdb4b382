package palette

import (
	"errors"
	"fmt"
	"image"
)

const (
	// LightMapWidth is two columns per base color.
	LightMapWidth = 2 * Size
	// DefaultLightMapHeight is the number of shade rows in the stock light-map.
	DefaultLightMapHeight = 7

	// MaxColors is the largest palette an index byte can address.
	MaxColors = 256
	// MaxLightMapColors leaves room for the four extras Build may append.
	MaxLightMapColors = MaxColors - 4
)

var (
	// ErrBadLightMap is returned for images that cannot serve as a light-map.
	ErrBadLightMap = errors.New("light-map must be 32 pixels wide")
	// ErrTooManyColors is returned when a light-map holds more distinct
	// colors than the output palette can index.
	ErrTooManyColors = errors.New("light-map has too many colors")
)

// darker maps each base color to the next darker shade.
var darker = [Size]uint8{0, 0, 1, 1, 2, 1, 13, 6, 2, 4, 9, 3, 13, 5, 8, 9}

// LightMap maps (index, intensity) to a shaded color. Column pair 2i,2i+1
// belongs to index i; the two columns alternate for checkerboard dithering.
// Row 0 is fully lit, the last row is darkest.
type LightMap struct {
	Width  int
	Height int
	Pix    []RGB // Row-major, top row first
}

// DefaultLightMap builds the stock 32x7 light-map. Rows step down the
// darken ramp, with odd rows mixing neighbouring shades across the column pair.
func DefaultLightMap() *LightMap {
	lm := &LightMap{Width: LightMapWidth, Height: DefaultLightMapHeight}
	lm.Pix = make([]RGB, lm.Width*lm.Height)

	for i := 0; i < Size; i++ {
		var ramp [4]uint8
		ramp[0] = uint8(i)
		for k := 1; k < len(ramp); k++ {
			ramp[k] = darker[ramp[k-1]]
		}
		for row := 0; row < lm.Height; row++ {
			even := ramp[row/2]
			odd := ramp[(row+1)/2]
			lm.Pix[row*lm.Width+2*i] = Pico[even]
			lm.Pix[row*lm.Width+2*i+1] = Pico[odd]
		}
	}
	return lm
}

// LightMapFromImage copies a 32-wide image of any height with at most
// MaxLightMapColors distinct colors.
func LightMapFromImage(img image.Image) (*LightMap, error) {
	b := img.Bounds()
	if b.Dx() != LightMapWidth || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadLightMap, b.Dx(), b.Dy())
	}

	lm := &LightMap{Width: b.Dx(), Height: b.Dy(), Pix: make([]RGB, b.Dx()*b.Dy())}
	for y := 0; y < lm.Height; y++ {
		for x := 0; x < lm.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lm.Pix[y*lm.Width+x] = RGB{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
		}
	}
	if n := lm.distinct(); n > MaxLightMapColors {
		return nil, fmt.Errorf("%w: %d, limit %d", ErrTooManyColors, n, MaxLightMapColors)
	}
	return lm, nil
}

// At returns the texel at (x, y), clamped to the edges.
func (lm *LightMap) At(x, y int) RGB {
	x = clamp(x, 0, lm.Width-1)
	y = clamp(y, 0, lm.Height-1)
	return lm.Pix[y*lm.Width+x]
}

// Colors derives the effective palette: the lit color of every index first,
// taken from every other texel of the top row, then every further distinct
// color in scan order, up to MaxLightMapColors.
func (lm *LightMap) Colors() []RGB {
	colors := make([]RGB, 0, Size)
	seen := make(map[uint32]struct{})

	for i := 0; i < Size; i++ {
		c := lm.At(2*i, 0)
		colors = append(colors, c)
		seen[Key(c)] = struct{}{}
	}

	for _, c := range lm.Pix {
		if len(colors) == MaxLightMapColors {
			break
		}
		k := Key(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		colors = append(colors, c)
	}
	return colors
}

// distinct counts Colors without the cap.
func (lm *LightMap) distinct() int {
	seen := make(map[uint32]struct{}, Size)
	for i := 0; i < Size; i++ {
		seen[Key(lm.At(2*i, 0))] = struct{}{}
	}
	for _, c := range lm.Pix {
		seen[Key(c)] = struct{}{}
	}
	return len(seen)
}

// Image renders the light-map as an RGBA image.
func (lm *LightMap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, lm.Width, lm.Height))
	for i, c := range lm.Pix {
		img.Pix[i*4+0] = c[0]
		img.Pix[i*4+1] = c[1]
		img.Pix[i*4+2] = c[2]
		img.Pix[i*4+3] = 255
	}
	return img
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
