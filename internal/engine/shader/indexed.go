package shader

import (
	gomath "math"

	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/internal/engine/raster"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/pkg/math"
)

// Light-map curve: intensity = clamp(LightGradient*|n.l| + LightOffset, 0, 1).
const (
	LightGradient = 2.857142857142857
	LightOffset   = -0.3571428571428572
)

// IndexedLit looks up the texel index and shades it through the light-map
// column pair for that index, choosing the row by directional intensity.
// Screen parity picks between the two columns of the pair.
type IndexedLit struct {
	Index    *texture.Index
	LightMap *palette.LightMap
	LightDir math.Vec3 // normalized
}

func (p *IndexedLit) Varyings() int { return 5 }

func (p *IndexedLit) Vertex(mvp math.Mat4, a Attributes) raster.Vertex {
	return positionUVNormal(mvp, a)
}

func (p *IndexedLit) Fragment(f *raster.Fragment) ([4]float32, bool) {
	idx := p.Index.Sample(f.Var[varU], f.Var[varV])
	if idx == texture.Transparent {
		return [4]float32{}, false
	}
	intensity := Intensity(normalOf(f), p.LightDir)
	col := 2*int(idx) + f.Parity()
	return lightMapTexel(p.LightMap, col, intensity), true
}

// Intensity is the indexed lighting curve.
func Intensity(n, light math.Vec3) float32 {
	return clamp01(LightGradient*abs(n.Dot(light)) + LightOffset)
}

// LightMapRow maps an intensity to a light-map row; full intensity is row 0.
func LightMapRow(intensity float32, rows int) int {
	r := int(gomath.Floor(float64((1 - intensity) * float32(rows))))
	if r >= rows {
		r = rows - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

func lightMapTexel(lm *palette.LightMap, col int, intensity float32) [4]float32 {
	c := lm.At(col, LightMapRow(intensity, lm.Height))
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
}

// IndexedUnlit draws the fully lit light-map row without a light term.
type IndexedUnlit struct {
	Index    *texture.Index
	LightMap *palette.LightMap
}

func (p *IndexedUnlit) Varyings() int { return 2 }

func (p *IndexedUnlit) Vertex(mvp math.Mat4, a Attributes) raster.Vertex {
	return positionUVNormal(mvp, a)
}

func (p *IndexedUnlit) Fragment(f *raster.Fragment) ([4]float32, bool) {
	idx := p.Index.Sample(f.Var[varU], f.Var[varV])
	if idx == texture.Transparent {
		return [4]float32{}, false
	}
	return lightMapTexel(p.LightMap, 2*int(idx), 1), true
}

// Flat fills every fragment with one color. Used for wireframe lines.
type Flat struct {
	Color [4]float32
}

func (p *Flat) Varyings() int { return 0 }

func (p *Flat) Vertex(mvp math.Mat4, a Attributes) raster.Vertex {
	return raster.Vertex{Pos: mvp.ClipPoint(a.Position)}
}

func (p *Flat) Fragment(*raster.Fragment) ([4]float32, bool) {
	return p.Color, true
}
