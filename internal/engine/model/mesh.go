package model

import (
	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/pkg/math"
)

// Transparent marks a texel that discards its fragment.
const Transparent = 255

// passKey identifies the state a face is drawn with.
type passKey struct {
	priority    bool
	doubleSided bool
	noShade     bool
	noTexture   bool
}

// BuildPasses groups faces into passes. Priority faces are drawn first; the
// first ordinary pass clears depth so ordinary geometry is never hidden by
// priority geometry. Quads are tessellated into tessellation x tessellation
// cells; other polygons are fan-triangulated.
func BuildPasses(m *Model, tessellation int) *Rendering {
	if tessellation < 1 {
		tessellation = 1
	}

	var order []passKey
	passes := make(map[passKey]*Pass)
	var wire Wireframe

	for oi := range m.Objects {
		obj := &m.Objects[oi]
		world := make([]math.Vec3, len(obj.Vertices))
		for i, v := range obj.Vertices {
			world[i] = obj.Pos.Add(v)
		}
		edges := make(map[[2]int]struct{})

		for fi := range obj.Faces {
			face := &obj.Faces[fi]
			if !validFace(face, len(world)) {
				continue
			}

			key := passKey{face.Priority, face.DoubleSided, face.NoShade, face.NoTexture}
			p, ok := passes[key]
			if !ok {
				p = &Pass{Cull: !key.doubleSided, Shading: !key.noShade, Texture: !key.noTexture}
				passes[key] = p
				order = append(order, key)
			}
			addFace(p, world, face, tessellation)

			for i, a := range face.Indices {
				b := face.Indices[(i+1)%len(face.Indices)]
				e := [2]int{min(a, b), max(a, b)}
				if _, seen := edges[e]; seen {
					continue
				}
				edges[e] = struct{}{}
				wire.Vertices = append(wire.Vertices, world[a], world[b])
			}
		}
	}

	out := &Rendering{Wireframe: wire, Texture: PackTexture(m)}
	for _, prio := range []bool{true, false} {
		first := true
		for _, k := range order {
			if k.priority != prio {
				continue
			}
			p := passes[k]
			if !prio && first {
				p.ClearDepth = true
			}
			first = false
			out.Passes = append(out.Passes, *p)
		}
	}
	return out
}

// PackTexture copies the model texture into a full 128x128 index buffer,
// replacing the alpha color with the transparent sentinel.
func PackTexture(m *Model) []uint8 {
	out := make([]uint8, TextureSize*TextureSize)
	copy(out, m.Texture)
	if m.AlphaIndex < 0 || m.AlphaIndex >= palette.Size {
		return out
	}
	for i, idx := range out {
		if int(idx) == m.AlphaIndex {
			out[i] = Transparent
		}
	}
	return out
}

func validFace(f *Face, n int) bool {
	if len(f.Indices) < 3 {
		return false
	}
	for _, i := range f.Indices {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// FaceNormal returns the unit normal of the plane through the first three
// vertices, counter-clockwise facing.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// ColorUV is the center of face color c in the 16x1 color index texture.
func ColorUV(c int) [2]float32 {
	return [2]float32{(float32(c) + 0.5) / palette.Size, 0.5}
}

func addFace(p *Pass, world []math.Vec3, f *Face, tess int) {
	pts := make([]math.Vec3, len(f.Indices))
	uvs := make([][2]float32, len(f.Indices))
	for i, idx := range f.Indices {
		pts[i] = world[idx]
		if i < len(f.UVs) {
			uvs[i] = f.UVs[i]
		}
	}
	n := FaceNormal(pts[0], pts[1], pts[2])
	cuv := ColorUV(f.Color)

	emit := func(pos math.Vec3, uv [2]float32) uint32 {
		p.Vertices = append(p.Vertices, pos)
		p.Normals = append(p.Normals, n)
		p.UVs = append(p.UVs, uv)
		p.ColorUVs = append(p.ColorUVs, cuv)
		return uint32(len(p.Vertices) - 1)
	}

	if len(pts) == 4 && tess > 1 {
		tessellateQuad(p, pts, uvs, tess, emit)
		return
	}

	base := make([]uint32, len(pts))
	for i := range pts {
		base[i] = emit(pts[i], uvs[i])
	}
	for i := 1; i+1 < len(base); i++ {
		p.Indices = append(p.Indices, base[0], base[i], base[i+1])
	}
}

// tessellateQuad splits quad 0-1-2-3 bilinearly into n x n cells, keeping
// the winding of the source polygon.
func tessellateQuad(p *Pass, pts []math.Vec3, uvs [][2]float32, n int, emit func(math.Vec3, [2]float32) uint32) {
	grid := make([]uint32, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		t := float32(j) / float32(n)
		for i := 0; i <= n; i++ {
			s := float32(i) / float32(n)
			pos := bilerp3(pts, s, t)
			uv := bilerp2(uvs, s, t)
			grid[j*(n+1)+i] = emit(pos, uv)
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := grid[j*(n+1)+i]
			b := grid[j*(n+1)+i+1]
			c := grid[(j+1)*(n+1)+i+1]
			d := grid[(j+1)*(n+1)+i]
			p.Indices = append(p.Indices, a, b, c, a, c, d)
		}
	}
}

// bilerp3 interpolates with s running 0→1 and t running 0→3.
func bilerp3(q []math.Vec3, s, t float32) math.Vec3 {
	top := q[0].Mix(q[1], s)
	bottom := q[3].Mix(q[2], s)
	return top.Mix(bottom, t)
}

func bilerp2(q [][2]float32, s, t float32) [2]float32 {
	var out [2]float32
	for k := 0; k < 2; k++ {
		top := q[0][k] + (q[1][k]-q[0][k])*s
		bottom := q[3][k] + (q[2][k]-q[3][k])*s
		out[k] = top + (bottom-top)*t
	}
	return out
}
