package text

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// GlyphHeight is the height of every glyph.
const GlyphHeight = 5

// Font is the PICO-8 font indexed by byte. Runes are read as bytes; codes
// without a bitmap (the 8-wide pictograms) draw nothing but keep their
// advance. Safe for concurrent use.
var Font tinyfont.Fonter = picoFont{}

type picoFont struct{}

func (picoFont) GetYAdvance() uint8 { return GlyphHeight + 1 }

func (picoFont) GetGlyph(r rune) tinyfont.Glypher {
	return glyph{b: byte(r)}
}

type glyph struct {
	b byte
}

// Draw plots the glyph with its top-left corner at (x, y-GlyphHeight+1),
// i.e. y is the bottom row.
func (g glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	rows, width := bitmap(g.b)
	for row, bits := range rows {
		for col := 0; col < width; col++ {
			if bits&(1<<(width-1-col)) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-int16(GlyphHeight-1-row), c)
		}
	}
}

func (g glyph) Info() tinyfont.GlyphInfo {
	w := Advance(g.b)
	return tinyfont.GlyphInfo{
		Rune:     rune(g.b),
		Width:    uint8(w - 1),
		Height:   GlyphHeight,
		XAdvance: uint8(w),
		YOffset:  -(GlyphHeight - 1),
	}
}

// bitmap returns the rows of b and their bit width. Lower and upper case
// share glyphs.
func bitmap(b byte) ([GlyphHeight]uint8, int) {
	switch {
	case b == '#':
		return hash, 5
	case b >= 'a' && b <= 'z':
		b -= 'a' - 'A'
	case b >= 128:
		return [GlyphHeight]uint8{}, 0
	}
	return glyphs[b], 3
}

var hash = [GlyphHeight]uint8{0b01010, 0b11111, 0b01010, 0b11111, 0b01010}

var glyphs = [128][GlyphHeight]uint8{
	'!':  {0b010, 0b010, 0b010, 0b000, 0b010},
	'"':  {0b101, 0b101, 0b000, 0b000, 0b000},
	'$':  {0b111, 0b110, 0b011, 0b111, 0b010},
	'%':  {0b101, 0b001, 0b010, 0b100, 0b101},
	'&':  {0b010, 0b101, 0b010, 0b101, 0b011},
	'\'': {0b010, 0b010, 0b000, 0b000, 0b000},
	'(':  {0b010, 0b100, 0b100, 0b100, 0b010},
	')':  {0b010, 0b001, 0b001, 0b001, 0b010},
	'*':  {0b101, 0b010, 0b111, 0b010, 0b101},
	'+':  {0b000, 0b010, 0b111, 0b010, 0b000},
	',':  {0b000, 0b000, 0b000, 0b010, 0b100},
	'-':  {0b000, 0b000, 0b111, 0b000, 0b000},
	'.':  {0b000, 0b000, 0b000, 0b000, 0b010},
	'/':  {0b001, 0b001, 0b010, 0b100, 0b100},
	'0':  {0b111, 0b101, 0b101, 0b101, 0b111},
	'1':  {0b110, 0b010, 0b010, 0b010, 0b111},
	'2':  {0b111, 0b001, 0b111, 0b100, 0b111},
	'3':  {0b111, 0b001, 0b011, 0b001, 0b111},
	'4':  {0b101, 0b101, 0b111, 0b001, 0b001},
	'5':  {0b111, 0b100, 0b111, 0b001, 0b111},
	'6':  {0b100, 0b100, 0b111, 0b101, 0b111},
	'7':  {0b111, 0b001, 0b001, 0b001, 0b001},
	'8':  {0b111, 0b101, 0b111, 0b101, 0b111},
	'9':  {0b111, 0b101, 0b111, 0b001, 0b001},
	':':  {0b000, 0b010, 0b000, 0b010, 0b000},
	';':  {0b000, 0b010, 0b000, 0b010, 0b100},
	'<':  {0b001, 0b010, 0b100, 0b010, 0b001},
	'=':  {0b000, 0b111, 0b000, 0b111, 0b000},
	'>':  {0b100, 0b010, 0b001, 0b010, 0b100},
	'?':  {0b111, 0b001, 0b011, 0b000, 0b010},
	'@':  {0b010, 0b101, 0b101, 0b100, 0b011},
	'A':  {0b111, 0b101, 0b111, 0b101, 0b101},
	'B':  {0b111, 0b101, 0b110, 0b101, 0b111},
	'C':  {0b011, 0b100, 0b100, 0b100, 0b011},
	'D':  {0b110, 0b101, 0b101, 0b101, 0b111},
	'E':  {0b111, 0b100, 0b110, 0b100, 0b111},
	'F':  {0b111, 0b100, 0b110, 0b100, 0b100},
	'G':  {0b011, 0b100, 0b100, 0b101, 0b111},
	'H':  {0b101, 0b101, 0b111, 0b101, 0b101},
	'I':  {0b111, 0b010, 0b010, 0b010, 0b111},
	'J':  {0b111, 0b010, 0b010, 0b010, 0b110},
	'K':  {0b101, 0b101, 0b110, 0b101, 0b101},
	'L':  {0b100, 0b100, 0b100, 0b100, 0b111},
	'M':  {0b111, 0b111, 0b101, 0b101, 0b101},
	'N':  {0b110, 0b101, 0b101, 0b101, 0b101},
	'O':  {0b011, 0b101, 0b101, 0b101, 0b110},
	'P':  {0b111, 0b101, 0b111, 0b100, 0b100},
	'Q':  {0b010, 0b101, 0b101, 0b110, 0b011},
	'R':  {0b111, 0b101, 0b110, 0b101, 0b101},
	'S':  {0b011, 0b100, 0b111, 0b001, 0b110},
	'T':  {0b111, 0b010, 0b010, 0b010, 0b010},
	'U':  {0b101, 0b101, 0b101, 0b101, 0b011},
	'V':  {0b101, 0b101, 0b101, 0b111, 0b010},
	'W':  {0b101, 0b101, 0b101, 0b111, 0b111},
	'X':  {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y':  {0b101, 0b101, 0b111, 0b001, 0b111},
	'Z':  {0b111, 0b001, 0b010, 0b100, 0b111},
	'[':  {0b110, 0b100, 0b100, 0b100, 0b110},
	'\\': {0b100, 0b100, 0b010, 0b001, 0b001},
	']':  {0b011, 0b001, 0b001, 0b001, 0b011},
	'^':  {0b010, 0b101, 0b000, 0b000, 0b000},
	'_':  {0b000, 0b000, 0b000, 0b000, 0b111},
	'`':  {0b010, 0b001, 0b000, 0b000, 0b000},
	'{':  {0b011, 0b010, 0b110, 0b010, 0b011},
	'|':  {0b010, 0b010, 0b010, 0b010, 0b010},
	'}':  {0b110, 0b010, 0b011, 0b010, 0b110},
	'~':  {0b000, 0b001, 0b111, 0b100, 0b000},
}
