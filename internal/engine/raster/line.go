package raster

import gomath "math"

// Line draws a one-pixel line between two clip-space vertices. Varyings are
// interpolated linearly in screen space.
func (s *State) Line(a, b Vertex, shade FragmentFunc) int {
	da := a.Pos[2] + a.Pos[3]
	db := b.Pos[2] + b.Pos[3]
	switch {
	case da < 0 && db < 0:
		return 0
	case da < 0:
		a = lerpVertex(a, b, da/(da-db), s.Varyings)
	case db < 0:
		b = lerpVertex(b, a, db/(db-da), s.Varyings)
	}
	p := s.toScreen(a)
	q := s.toScreen(b)
	// undo the perspective weighting applied by toScreen
	for i := 0; i < s.Varyings; i++ {
		p.v[i] = a.Var[i]
		q.v[i] = b.Var[i]
	}

	dx, dy := q.x-p.x, q.y-p.y
	steps := int(gomath.Ceil(float64(max(abs(dx), abs(dy)))))
	if steps == 0 {
		steps = 1
	}
	w, h := s.Target.Size()
	written := 0
	lastX, lastY := -1, -1
	var frag Fragment
	frag.Front = true
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := floori(p.x + dx*t)
		y := floori(p.y + dy*t)
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		z := p.z + (q.z-p.z)*t
		if z < 0 || z > 1 {
			continue
		}
		if s.Depth != nil && !s.Depth.Passes(x, y, z) {
			continue
		}
		for k := 0; k < s.Varyings; k++ {
			frag.Var[k] = p.v[k] + (q.v[k]-p.v[k])*t
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
	return written
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
