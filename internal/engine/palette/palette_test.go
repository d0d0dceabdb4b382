package palette

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDefaultLightMapColorsArePico(t *testing.T) {
	lm := DefaultLightMap()
	if lm.Width != 32 || lm.Height != 7 {
		t.Fatalf("size = %dx%d, want 32x7", lm.Width, lm.Height)
	}

	colors := lm.Colors()
	if len(colors) != Size {
		t.Fatalf("len(Colors) = %d, want 16", len(colors))
	}
	for i, c := range colors {
		if c != Pico[i] {
			t.Errorf("color %d = %v, want %v", i, c, Pico[i])
		}
	}
}

func TestDefaultLightMapRamp(t *testing.T) {
	lm := DefaultLightMap()
	// Index 7 (white) darkens to 6 then 13.
	if got := lm.At(14, 0); got != Pico[7] {
		t.Errorf("lit white = %v", got)
	}
	if got := lm.At(15, 1); got != Pico[6] {
		t.Errorf("dither column of row 1 = %v, want light grey", got)
	}
	if got := lm.At(14, 2); got != Pico[6] {
		t.Errorf("row 2 = %v, want light grey", got)
	}
	if got := lm.At(14, 6); got != Pico[5] {
		t.Errorf("darkest white = %v, want dark grey", got)
	}
	// Black stays black.
	for y := 0; y < lm.Height; y++ {
		if lm.At(0, y) != Pico[0] || lm.At(1, y) != Pico[0] {
			t.Errorf("black row %d not black", y)
		}
	}
}

func TestLightMapColorsAppendsUnseen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 2))
	for x := 0; x < 32; x++ {
		img.Set(x, 0, color.RGBA{uint8(x / 2), 0, 0, 255})
		img.Set(x, 1, color.RGBA{0, 0, 0, 255})
	}
	extra := color.RGBA{10, 20, 30, 255}
	img.Set(5, 1, extra)
	img.Set(7, 1, extra)

	lm, err := LightMapFromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	colors := lm.Colors()
	if len(colors) != 17 {
		t.Fatalf("len(Colors) = %d, want 17", len(colors))
	}
	if colors[3] != (RGB{3, 0, 0}) {
		t.Errorf("colors[3] = %v", colors[3])
	}
	if colors[16] != (RGB{10, 20, 30}) {
		t.Errorf("colors[16] = %v", colors[16])
	}
}

func TestLightMapFromImageRejectsWidth(t *testing.T) {
	_, err := LightMapFromImage(image.NewRGBA(image.Rect(0, 0, 16, 7)))
	if !errors.Is(err, ErrBadLightMap) {
		t.Errorf("err = %v, want ErrBadLightMap", err)
	}
}

// distinctImage is a 32 x h light-map whose first n pixels all differ; the
// rest repeat pixel 0.
func distinctImage(h, n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, LightMapWidth, h))
	for i := 0; i < LightMapWidth*h; i++ {
		v := i
		if i >= n {
			v = 0
		}
		img.Set(i%LightMapWidth, i/LightMapWidth, color.RGBA{uint8(v), uint8(v >> 8), 9, 255})
	}
	return img
}

func TestLightMapColorLimit(t *testing.T) {
	tests := []struct {
		name    string
		h, n    int
		wantErr bool
	}{
		{"tall distinct", 12, 12 * LightMapWidth, true},
		{"one past limit", 8, MaxLightMapColors + 1, true},
		{"at limit", 8, MaxLightMapColors, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm, err := LightMapFromImage(distinctImage(tt.h, tt.n))
			if tt.wantErr {
				if !errors.Is(err, ErrTooManyColors) {
					t.Fatalf("err = %v, want ErrTooManyColors", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			c := RGBA{1, 2, 3, 255}
			pal := Build(lm.Colors(), Extras{Wireframe: &c, OutlineA: &c, OutlineB: &c, Background: &c})
			if len(pal) != MaxColors {
				t.Errorf("palette has %d entries, want %d", len(pal), MaxColors)
			}
		})
	}
}

func TestColorsTruncates(t *testing.T) {
	lm := &LightMap{Width: LightMapWidth, Height: 12, Pix: make([]RGB, LightMapWidth*12)}
	for i := range lm.Pix {
		lm.Pix[i] = RGB{uint8(i), uint8(i >> 8), 9}
	}
	colors := lm.Colors()
	if len(colors) != MaxLightMapColors {
		t.Fatalf("len(Colors) = %d, want %d", len(colors), MaxLightMapColors)
	}
	idx := ReverseIndex(Build(colors, Extras{}))
	if got := idx[PackRGBA(Opaque(colors[len(colors)-1]))]; int(got) != len(colors)-1 {
		t.Errorf("last color indexed as %d", got)
	}
}

func TestBuildLength(t *testing.T) {
	base := DefaultLightMap().Colors()
	c := RGBA{1, 2, 3, 255}

	for mask := 0; mask < 16; mask++ {
		var ex Extras
		want := 16
		if mask&1 != 0 {
			ex.Wireframe = &c
			want++
		}
		if mask&2 != 0 {
			ex.OutlineA = &c
			want++
		}
		if mask&4 != 0 {
			ex.OutlineB = &c
			want++
		}
		if mask&8 != 0 {
			ex.Background = &c
			want++
		}
		if got := len(Build(base, ex)); got != want {
			t.Errorf("mask %04b: len = %d, want %d", mask, got, want)
		}
	}
}

func TestBuildOrder(t *testing.T) {
	w, a, b, bg := RGBA{1, 0, 0, 255}, RGBA{2, 0, 0, 255}, RGBA{3, 0, 0, 255}, RGBA{4, 0, 0, 255}
	pal := Build(Pico[:], Extras{Wireframe: &w, OutlineA: &a, OutlineB: &b, Background: &bg})
	got := []RGBA{pal[16], pal[17], pal[18], pal[19]}
	want := []RGBA{w, a, b, bg}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extra %d = %v, want %v", i, got[i], want[i])
		}
	}
	if pal[7] != Opaque(Pico[7]) {
		t.Errorf("base entries should be opaque")
	}
}

func TestTextColor(t *testing.T) {
	colors := Pico[:]

	if got := TextColor(colors, 0, nil); got != Pico[8] {
		t.Errorf("bg 0 -> %v, want index 8", got)
	}
	if got := TextColor(colors, 12, nil); got != Pico[4] {
		t.Errorf("bg 12 -> %v, want index 4", got)
	}

	dark := [3]float32{0, 0, 0}
	if got := TextColor(colors, 0, &dark); got != Pico[7] {
		t.Errorf("dark custom bg -> %v, want white", got)
	}
	light := [3]float32{1, 1, 1}
	if got := TextColor(colors, 0, &light); got != Pico[0] {
		t.Errorf("light custom bg -> %v, want black", got)
	}
}

func TestReverseIndexLaterWins(t *testing.T) {
	pal := []RGBA{{1, 1, 1, 255}, {2, 2, 2, 255}, {1, 1, 1, 255}}
	m := ReverseIndex(pal)
	if m[PackRGBA(pal[0])] != 2 {
		t.Errorf("duplicate color should map to the later index")
	}
	if PackRGBA(RGBA{}) != 0 {
		t.Error("transparent black must pack to 0")
	}
}
