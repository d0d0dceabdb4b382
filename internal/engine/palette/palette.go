// Package palette holds the 16-color base palette, light-maps and the
// resolved output palette used for indexed GIF export.
package palette

// RGB is an 8-bit color.
type RGB [3]uint8

// RGBA is an 8-bit color with alpha.
type RGBA [4]uint8

// Size is the number of fixed base colors.
const Size = 16

// Pico is the fixed hardware palette. Indices 0..15 never move.
var Pico = [Size]RGB{
	{0x00, 0x00, 0x00},
	{0x1d, 0x2b, 0x53},
	{0x7e, 0x25, 0x53},
	{0x00, 0x87, 0x51},
	{0xab, 0x52, 0x36},
	{0x5f, 0x57, 0x4f},
	{0xc2, 0xc3, 0xc7},
	{0xff, 0xf1, 0xe8},
	{0xff, 0x00, 0x4d},
	{0xff, 0xa3, 0x00},
	{0xff, 0xec, 0x27},
	{0x00, 0xe4, 0x36},
	{0x29, 0xad, 0xff},
	{0x83, 0x76, 0x9c},
	{0xff, 0x77, 0xa8},
	{0xff, 0xcc, 0xaa},
}

// Key packs an RGB color into the integer used for de-duplication.
func Key(c RGB) uint32 {
	return uint32(c[0]) + uint32(c[1])<<8 + uint32(c[2])<<16
}

// PackRGBA packs a color with alpha. Fully transparent black packs to 0.
func PackRGBA(c RGBA) uint32 {
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
}

// Opaque extends c with alpha 255.
func Opaque(c RGB) RGBA {
	return RGBA{c[0], c[1], c[2], 255}
}

// IndexOf returns the base palette index of c, or -1.
func IndexOf(c RGB) int {
	for i, p := range Pico {
		if p == c {
			return i
		}
	}
	return -1
}

// Luma returns the perceived brightness of an RGB color in [0, 1].
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Extras are the entries appended after the light-map colors. A nil field
// means its owning feature is off.
type Extras struct {
	Wireframe  *RGBA
	OutlineA   *RGBA
	OutlineB   *RGBA
	Background *RGBA
}

// Build returns colors as RGBA followed by the enabled extras in fixed
// order: wireframe, outline A, outline B, custom background.
func Build(colors []RGB, ex Extras) []RGBA {
	out := make([]RGBA, 0, len(colors)+4)
	for _, c := range colors {
		out = append(out, Opaque(c))
	}
	for _, extra := range []*RGBA{ex.Wireframe, ex.OutlineA, ex.OutlineB, ex.Background} {
		if extra != nil {
			out = append(out, *extra)
		}
	}
	return out
}

// ReverseIndex maps packed RGBA values to palette indices. When two
// entries share a color, the later index wins.
func ReverseIndex(pal []RGBA) map[uint32]uint8 {
	m := make(map[uint32]uint8, len(pal)+1)
	for i, c := range pal {
		m[PackRGBA(c)] = uint8(i)
	}
	return m
}

// TextColor picks the overlay text color. Without a custom background the
// color is offset 8 from the background index; with one, the entry with the
// strongest luma contrast against it wins.
func TextColor(colors []RGB, bgIndex int, custom *[3]float32) RGB {
	if custom == nil {
		return colors[(bgIndex+8)%Size]
	}

	light := Luma(float64(custom[0]), float64(custom[1]), float64(custom[2])) > 0.5
	best, bestLuma := colors[0], -1.0
	for _, c := range colors {
		l := Luma(float64(c[0])/255, float64(c[1])/255, float64(c[2])/255)
		if light {
			l = 1 - l
		}
		if l > bestLuma {
			best, bestLuma = c, l
		}
	}
	return best
}
