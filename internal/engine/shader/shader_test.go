package shader

import (
	"testing"

	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/internal/engine/raster"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/pkg/math"
)

func fragment(x, y int, u, v float32, n math.Vec3) *raster.Fragment {
	f := &raster.Fragment{X: x, Y: y}
	f.Var[varU], f.Var[varV] = u, v
	f.Var[varNX], f.Var[varNY], f.Var[varNZ] = n.X, n.Y, n.Z
	return f
}

func rgb(c palette.RGB) [4]float32 {
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
}

func TestIntensity(t *testing.T) {
	up := math.Vec3{Y: 1}
	tests := []struct {
		name  string
		light math.Vec3
		want  float32
	}{
		{"facing", math.Vec3{Y: 1}, 1},
		{"facing away counts too", math.Vec3{Y: -1}, 1},
		{"grazing", math.Vec3{X: 1}, 0},
	}
	for _, tt := range tests {
		if got := Intensity(up, tt.light); got != tt.want {
			t.Errorf("%s: Intensity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLightMapRow(t *testing.T) {
	tests := []struct {
		in   float32
		rows int
		want int
	}{
		{1, 7, 0},
		{0, 7, 6},
		{0.5, 7, 3},
		{0.99, 7, 0},
	}
	for _, tt := range tests {
		if got := LightMapRow(tt.in, tt.rows); got != tt.want {
			t.Errorf("LightMapRow(%v, %d) = %d, want %d", tt.in, tt.rows, got, tt.want)
		}
	}
}

func TestIndexedLitDiscardsTransparent(t *testing.T) {
	p := &IndexedLit{
		Index:    texture.NewIndex(1, 1, []uint8{texture.Transparent}),
		LightMap: palette.DefaultLightMap(),
		LightDir: math.Vec3{Y: 1},
	}
	if _, ok := p.Fragment(fragment(0, 0, 0.5, 0.5, math.Vec3{Y: 1})); ok {
		t.Error("transparent texel should discard")
	}
}

func TestIndexedLitParityColumns(t *testing.T) {
	lm := palette.DefaultLightMap()
	p := &IndexedLit{
		Index:    texture.NewIndex(1, 1, []uint8{7}),
		LightMap: lm,
		LightDir: math.Vec3{X: 1},
	}
	n := math.Vec3{Y: 1} // grazing light: darkest row
	row := lm.Height - 1

	// Pixel centres: (0,0) sums to 1, (1,0) to 2.
	odd, _ := p.Fragment(fragment(0, 0, 0.5, 0.5, n))
	even, _ := p.Fragment(fragment(1, 0, 0.5, 0.5, n))
	if even != rgb(lm.At(14, row)) {
		t.Errorf("even parity = %v, want column 14", even)
	}
	if odd != rgb(lm.At(15, row)) {
		t.Errorf("odd parity = %v, want column 15", odd)
	}
}

func TestIndexedUnlitUsesTopRow(t *testing.T) {
	lm := palette.DefaultLightMap()
	p := &IndexedUnlit{Index: texture.NewIndex(1, 1, []uint8{12}), LightMap: lm}
	got, ok := p.Fragment(fragment(1, 0, 0.5, 0.5, math.Vec3{}))
	if !ok || got != rgb(palette.Pico[12]) {
		t.Errorf("unlit = %v, %v", got, ok)
	}
}

func TestTangent(t *testing.T) {
	tests := []struct {
		n    math.Vec3
		want math.Vec3
	}{
		{math.Vec3{Y: 1}, math.Vec3{X: 1}},  // n x Z
		{math.Vec3{Z: 1}, math.Vec3{X: -1}}, // n x Y
	}
	for _, tt := range tests {
		if got := Tangent(tt.n); got != tt.want {
			t.Errorf("Tangent(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func hdTexture(a uint8) *texture.RGBA {
	img := texture.ToNRGBA(solidImage(200, 100, 50, a))
	return texture.NewRGBA(img)
}

func TestHDLit(t *testing.T) {
	base := HDLit{
		LightDir: math.Vec3{Y: 1},
		Steps:    3,
		Ambient:  [3]float32{0.5, 0.5, 0.5},
	}

	t.Run("discards translucent", func(t *testing.T) {
		p := base
		p.Texture = hdTexture(128)
		if _, ok := p.Fragment(fragment(0, 0, 0.5, 0.5, math.Vec3{Y: 1})); ok {
			t.Error("alpha != 1 should discard")
		}
	})

	t.Run("fully lit", func(t *testing.T) {
		p := base
		p.Texture = hdTexture(255)
		got, ok := p.Fragment(fragment(0, 0, 0.5, 0.5, math.Vec3{Y: 1}))
		if !ok {
			t.Fatal("discarded")
		}
		if d := got[0] - 200.0/255; d > 1e-5 || d < -1e-5 {
			t.Errorf("red = %v, want texel color", got[0])
		}
		if got[3] != 1 {
			t.Errorf("alpha = %v", got[3])
		}
	})

	t.Run("unlit falls to ambient", func(t *testing.T) {
		p := base
		p.Texture = hdTexture(255)
		got, _ := p.Fragment(fragment(0, 0, 0.5, 0.5, math.Vec3{X: 1}))
		want := 200.0 / 255 * 0.5
		if d := got[0] - float32(want); d > 1e-5 || d < -1e-5 {
			t.Errorf("red = %v, want %v", got[0], want)
		}
	})

	t.Run("specular adds color", func(t *testing.T) {
		p := base
		p.Texture = hdTexture(255)
		p.LightDir = math.Vec3{X: 1}
		p.SpecularStrength = 1
		p.SpecularSmoothness = 1
		p.SpecularColor = [3]float32{1, 1, 1}
		got, _ := p.Fragment(fragment(0, 0, 0.5, 0.5, math.Vec3{Y: -1}))
		if got[2] <= 50.0/255*0.5+0.5 {
			t.Errorf("blue = %v, expected specular boost", got[2])
		}
	})
}

func TestFlat(t *testing.T) {
	p := &Flat{Color: [4]float32{1, 0, 1, 1}}
	got, ok := p.Fragment(&raster.Fragment{})
	if !ok || got != p.Color {
		t.Errorf("Flat = %v", got)
	}
}
