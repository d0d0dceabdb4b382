// Package shader holds the software programs the renderer runs per pass.
// Each program has a vertex stage that fills raster varyings and a fragment
// stage that returns the final color or discards.
package shader

import (
	"github.com/Faultbox/picoview/internal/engine/raster"
	"github.com/Faultbox/picoview/pkg/math"
)

// Attributes are the per-vertex inputs of a pass.
type Attributes struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       [2]float32
}

// Program is one draw configuration.
type Program interface {
	// Varyings is the number of floats Vertex writes.
	Varyings() int
	Vertex(mvp math.Mat4, a Attributes) raster.Vertex
	Fragment(f *raster.Fragment) ([4]float32, bool)
}

// Varying slots shared by the programs.
const (
	varU = iota
	varV
	varNX
	varNY
	varNZ
)

// positionUVNormal is the vertex stage shared by the textured programs.
func positionUVNormal(mvp math.Mat4, a Attributes) raster.Vertex {
	v := raster.Vertex{Pos: mvp.ClipPoint(a.Position)}
	v.Var[varU] = a.UV[0]
	v.Var[varV] = a.UV[1]
	v.Var[varNX] = a.Normal.X
	v.Var[varNY] = a.Normal.Y
	v.Var[varNZ] = a.Normal.Z
	return v
}

func normalOf(f *raster.Fragment) math.Vec3 {
	return math.Vec3{X: f.Var[varNX], Y: f.Var[varNY], Z: f.Var[varNZ]}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
