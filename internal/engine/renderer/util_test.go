package renderer

import (
	"context"
	"fmt"

	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/pkg/math"
)

// quadModel is a single unlit, untextured, double-sided quad two units in
// front of a camera at the origin. At 90 degrees FOV it covers the middle
// half of the target.
func quadModel(color, background int) *model.Model {
	return &model.Model{
		Name:            "quad",
		BackgroundIndex: background,
		AlphaIndex:      -1,
		Texture:         make([]uint8, model.TextureSize*model.TextureSize),
		Objects: []model.Object{{
			Name: "quad",
			Vertices: []math.Vec3{
				{X: -1, Y: -1, Z: -2},
				{X: 1, Y: -1, Z: -2},
				{X: 1, Y: 1, Z: -2},
				{X: -1, Y: 1, Z: -2},
			},
			Faces: []model.Face{{
				Indices:     []int{0, 1, 2, 3},
				UVs:         [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
				Color:       color,
				DoubleSided: true,
				NoShade:     true,
				NoTexture:   true,
			}},
		}},
	}
}

const quadSource = `picocad;quad;16;1;-1
{
{
 name='quad', pos={0,0,0}, rot={0,0,0},
 v={{-1,-1,-2},{1,-1,-2},{1,1,-2},{-1,1,-2}},
 f={
  {1,2,3,4, c=8, dbl=1, noshade=1, notex=1, uv={0,0,1,0,1,1,0,1} }
 }
}
}%
`

func newTestEngine(w, h int) *Engine {
	return New(Options{Resolution: Resolution{Width: w, Height: h, Scale: 1}})
}

func mustLoad(e *Engine, src any) {
	if err := e.Load(context.Background(), src); err != nil {
		panic(fmt.Sprintf("load: %v", err))
	}
}

type mapFetcher map[string]string

func (f mapFetcher) Load(_ context.Context, ref string) ([]byte, error) {
	s, ok := f[ref]
	if !ok {
		return nil, fmt.Errorf("no such ref %q", ref)
	}
	return []byte(s), nil
}
