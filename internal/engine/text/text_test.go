package text

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"case swap", "Ab", []byte{'a', 'B'}},
		{"digits and punctuation", "#1.", []byte{'#', '1', '.'}},
		{"fullwidth", "Ａ", []byte{'A'}},
		{"symbol", "★", []byte{146}},
		{"variation selector symbol", "⬇️", []byte{131}},
		{"hiragana vowel", "あ", []byte{154}},
		{"hiragana ka", "か", []byte{159}},
		{"dakuten", "が", []byte{159, 30}},
		{"handakuten", "ぱ", []byte{179, 31}},
		{"combining dakuten", "\u304b\u3099", []byte{159, 30}},
		{"katakana", "カ", []byte{209}},
		{"small tsu", "っ", []byte{200}},
		{"unknown", "é", []byte{Space}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		in   []byte
		want int
	}{
		{nil, 0},
		{[]byte("a"), 3},
		{[]byte("ab"), 7},
		{[]byte("#"), 5},
		{[]byte{200, 'a'}, 11},
	}
	for _, tt := range tests {
		if got := Width(tt.in); got != tt.want {
			t.Errorf("Width(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWatermarkBottomRight(t *testing.T) {
	fb := framebuffer.New(32, 16)
	c := color.RGBA{R: 255, G: 0, B: 77, A: 255}
	Watermark(fb, Encode("i"), c)

	want := [4]uint8{c.R, c.G, c.B, c.A}
	// Glyph top row (111) sits at top-down y=9, bottom-up row 6.
	for x := 27; x < 30; x++ {
		if got := fb.RGBA8(x, 6); got != want {
			t.Errorf("top row pixel %d = %v, want %v", x, got, want)
		}
	}
	if got := fb.RGBA8(28, 5); got != want {
		t.Errorf("stem pixel = %v, want %v", got, want)
	}
	if got := fb.RGBA8(27, 5); got != ([4]uint8{}) {
		t.Errorf("background pixel = %v, want empty", got)
	}
	if got := fb.RGBA8(30, 6); got != ([4]uint8{}) {
		t.Errorf("padding pixel = %v, want empty", got)
	}
}

func TestDisplayClipsOutside(t *testing.T) {
	fb := framebuffer.New(4, 4)
	d := NewDisplay(fb)
	d.SetPixel(-1, 0, color.RGBA{A: 255})
	d.SetPixel(4, 0, color.RGBA{A: 255})
	d.SetPixel(0, 0, color.RGBA{R: 1, A: 255})
	if got := fb.RGBA8(0, 3); got != ([4]uint8{1, 0, 0, 255}) {
		t.Errorf("top-left maps to bottom-up row 3, got %v", got)
	}
}

func TestWideGlyphsDrawBlank(t *testing.T) {
	fb := framebuffer.New(16, 8)
	Draw(NewDisplay(fb), 0, 0, []byte{200}, color.RGBA{R: 255, A: 255})
	for _, p := range fb.Pix() {
		if p != 0 {
			t.Fatal("pictogram should leave the target untouched")
		}
	}
}

func TestGlyphsAreIndependent(t *testing.T) {
	a := Font.GetGlyph('a')
	b := Font.GetGlyph('b')
	if got := a.Info().Rune; got != 'a' {
		t.Errorf("first glyph changed to %q after a second lookup", got)
	}
	if got := b.Info().Rune; got != 'b' {
		t.Errorf("second glyph = %q", got)
	}
}
