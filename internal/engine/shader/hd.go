package shader

import (
	gomath "math"

	"github.com/Faultbox/picoview/internal/engine/raster"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/pkg/math"
)

// Additional varyings carried by the HD program.
const (
	varTX = varNZ + 1 + iota
	varTY
	varTZ
)

// HDLit shades a true-color texture with banded directional light, an
// optional tangent-space normal map and a specular highlight.
type HDLit struct {
	Texture   *texture.RGBA
	NormalMap *texture.RGBA // nil disables normal mapping

	LightDir          math.Vec3 // normalized
	Steps             float32
	Ambient           [3]float32
	NormalMapStrength float32

	SpecularStrength   float32
	SpecularSmoothness float32
	SpecularColor      [3]float32
}

func (p *HDLit) Varyings() int { return 8 }

func (p *HDLit) Vertex(mvp math.Mat4, a Attributes) raster.Vertex {
	v := positionUVNormal(mvp, a)
	t := Tangent(a.Normal)
	v.Var[varTX] = t.X
	v.Var[varTY] = t.Y
	v.Var[varTZ] = t.Z
	return v
}

// Tangent picks the longer of n×Z and n×Y as the surface tangent.
func Tangent(n math.Vec3) math.Vec3 {
	c1 := n.Cross(math.Vec3{Z: 1})
	c2 := n.Cross(math.Vec3{Y: 1})
	if c1.Length() > c2.Length() {
		return c1.Normalize()
	}
	return c2.Normalize()
}

func (p *HDLit) Fragment(f *raster.Fragment) ([4]float32, bool) {
	u, v := f.Var[varU], f.Var[varV]
	col := p.Texture.Sample(u, v)
	if col[3] != 1 {
		return [4]float32{}, false
	}

	n := normalOf(f)
	if p.NormalMap != nil {
		t := math.Vec3{X: f.Var[varTX], Y: f.Var[varTY], Z: f.Var[varTZ]}
		b := n.Cross(t).Normalize()
		s := p.NormalMap.Sample(u, v)
		nm := math.Vec3{X: s[0]*2 - 1, Y: s[1]*2 - 1, Z: s[2]*2 - 1}.Normalize()
		mapped := t.Scale(nm.X).Add(b.Scale(nm.Y)).Add(n.Scale(nm.Z)).Normalize()
		n = n.Mix(mapped, p.NormalMapStrength).Normalize()
	}

	intensity := abs(n.Dot(p.LightDir))*2.2 - 0.2
	parity := float32(f.Parity())
	intensity = float32(gomath.Floor(float64(intensity*(p.Steps+0.5)+parity/2))) / p.Steps
	intensity = clamp01(intensity)

	mirror := math.Vec3{X: p.LightDir.X, Y: -1, Z: p.LightDir.Z}
	spec := float32(gomath.Pow(float64(max(n.Dot(mirror), 0)), float64(p.SpecularSmoothness)))

	var out [4]float32
	for i := 0; i < 3; i++ {
		dark := col[i] * p.Ambient[i]
		out[i] = dark + (col[i]-dark)*intensity + p.SpecularColor[i]*spec*p.SpecularStrength
	}
	out[3] = 1
	return out, true
}
