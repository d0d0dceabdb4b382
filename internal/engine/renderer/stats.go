package renderer

// TextureColorCount returns how many distinct indices the model texture
// uses. Face colors are not counted.
func (e *Engine) TextureColorCount() int {
	if e.model == nil {
		return 0
	}
	return e.modelIndex().ColorCount()
}

// TriangleCount returns the triangles across all passes.
func (e *Engine) TriangleCount() int {
	if e.rendering == nil {
		return 0
	}
	n := 0
	for i := range e.rendering.Passes {
		n += e.rendering.Passes[i].TriangleCount()
	}
	return n
}

// DrawCallCount estimates the draw calls per frame: the final blit, each
// non-empty pass, the wireframe and one per outline iteration.
func (e *Engine) DrawCallCount() int {
	s := e.Settings()
	n := 1
	if e.rendering != nil {
		for i := range e.rendering.Passes {
			if !e.rendering.Passes[i].Empty() {
				n++
			}
		}
	}
	if s.Wireframe.Enabled {
		n++
	}
	if s.OutlineA.Enabled {
		n += s.OutlineA.Size
	}
	if s.OutlineB.Enabled {
		n += s.OutlineB.Size
	}
	return n
}
