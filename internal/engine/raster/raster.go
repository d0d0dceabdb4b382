// Package raster scan-converts clip-space triangles and lines into a
// framebuffer, following the OpenGL rules the renderer depends on:
// pixel centers at +0.5, counter-clockwise front faces, LEQUAL depth and
// perspective-correct varyings.
package raster

import (
	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/pkg/math"
)

// MaxVaryings is the number of interpolated floats carried per vertex.
const MaxVaryings = 8

// Vertex is a clip-space position plus its varyings.
type Vertex struct {
	Pos math.Vec4
	Var [MaxVaryings]float32
}

// Fragment is handed to a FragmentFunc for every covered pixel.
type Fragment struct {
	X, Y  int // window coordinates, row 0 at the bottom
	Depth float32
	Front bool
	Var   [MaxVaryings]float32
}

// Parity is mod(gl_FragCoord.x + gl_FragCoord.y, 2). Fragment coordinates
// sit at pixel centres, so pixel (0, 0) has parity 1.
func (f *Fragment) Parity() int {
	return (f.X + f.Y + 1) & 1
}

// FragmentFunc shades a fragment. Returning false discards it.
type FragmentFunc func(f *Fragment) ([4]float32, bool)

// State is the fixed-function state for a draw.
type State struct {
	Target    *framebuffer.Framebuffer
	Depth     *framebuffer.DepthBuffer // nil disables depth test
	CullBack  bool
	Varyings  int
	DepthMask bool
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	v       [MaxVaryings]float32
}

// Triangle draws one triangle.
func (s *State) Triangle(a, b, c Vertex, shade FragmentFunc) int {
	poly := clipNear([]Vertex{a, b, c}, s.Varyings)
	if len(poly) < 3 {
		return 0
	}
	sv := make([]screenVertex, len(poly))
	for i := range poly {
		sv[i] = s.toScreen(poly[i])
	}
	n := 0
	for i := 1; i+1 < len(sv); i++ {
		n += s.fill(sv[0], sv[i], sv[i+1], shade)
	}
	return n
}

func (s *State) toScreen(v Vertex) screenVertex {
	w, h := s.Target.Size()
	invW := 1 / v.Pos[3]
	out := screenVertex{
		x:    (v.Pos[0]*invW + 1) * 0.5 * float32(w),
		y:    (v.Pos[1]*invW + 1) * 0.5 * float32(h),
		z:    v.Pos[2]*invW*0.5 + 0.5,
		invW: invW,
	}
	for i := 0; i < s.Varyings; i++ {
		out.v[i] = v.Var[i] * invW
	}
	return out
}

// fill rasterizes a screen-space triangle and returns the number of
// fragments written.
func (s *State) fill(v0, v1, v2 screenVertex, shade FragmentFunc) int {
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 || area != area {
		return 0
	}
	front := area > 0
	if !front {
		if s.CullBack {
			return 0
		}
		v1, v2 = v2, v1
		area = -area
	}

	w, h := s.Target.Size()
	minX := clampi(floori(min3(v0.x, v1.x, v2.x)), 0, w-1)
	maxX := clampi(floori(max3(v0.x, v1.x, v2.x)), 0, w-1)
	minY := clampi(floori(min3(v0.y, v1.y, v2.y)), 0, h-1)
	maxY := clampi(floori(max3(v0.y, v1.y, v2.y)), 0, h-1)

	tl0 := topLeft(v1, v2)
	tl1 := topLeft(v2, v0)
	tl2 := topLeft(v0, v1)

	inv := 1 / area
	written := 0
	var frag Fragment
	frag.Front = front
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			e0 := edge(v1.x, v1.y, v2.x, v2.y, px, py)
			e1 := edge(v2.x, v2.y, v0.x, v0.y, px, py)
			e2 := edge(v0.x, v0.y, v1.x, v1.y, px, py)
			if !inside(e0, tl0) || !inside(e1, tl1) || !inside(e2, tl2) {
				continue
			}
			l0, l1, l2 := e0*inv, e1*inv, e2*inv
			z := l0*v0.z + l1*v1.z + l2*v2.z
			if z < 0 || z > 1 {
				continue
			}
			if s.Depth != nil && !s.Depth.Passes(x, y, z) {
				continue
			}
			q := l0*v0.invW + l1*v1.invW + l2*v2.invW
			for i := 0; i < s.Varyings; i++ {
				frag.Var[i] = (l0*v0.v[i] + l1*v1.v[i] + l2*v2.v[i]) / q
			}
			frag.X, frag.Y, frag.Depth = x, y, z
			c, ok := shade(&frag)
			if !ok {
				continue
			}
			if s.Depth != nil && s.DepthMask {
				s.Depth.Write(x, y, z)
			}
			s.Target.Set(x, y, c)
			written++
		}
	}
	return written
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether the edge a→b of a counter-clockwise triangle in
// y-up coordinates is a top or left edge.
func topLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx < 0) || dy < 0
}

func inside(e float32, tl bool) bool {
	return e > 0 || (e == 0 && tl)
}

// clipNear clips a polygon against the z = -w plane.
func clipNear(in []Vertex, n int) []Vertex {
	out := make([]Vertex, 0, len(in)+1)
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da := a.Pos[2] + a.Pos[3]
		db := b.Pos[2] + b.Pos[3]
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, lerpVertex(a, b, t, n))
		}
	}
	return out
}

func lerpVertex(a, b Vertex, t float32, n int) Vertex {
	var v Vertex
	for i := 0; i < 4; i++ {
		v.Pos[i] = a.Pos[i] + (b.Pos[i]-a.Pos[i])*t
	}
	for i := 0; i < n; i++ {
		v.Var[i] = a.Var[i] + (b.Var[i]-a.Var[i])*t
	}
	return v
}

func floori(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float32) float32 { return min(a, min(b, c)) }
func max3(a, b, c float32) float32 { return max(a, max(b, c)) }
