package renderer

import (
	"image/color"

	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/internal/engine/raster"
	"github.com/Faultbox/picoview/internal/engine/shader"
	"github.com/Faultbox/picoview/internal/engine/text"
	"github.com/Faultbox/picoview/internal/settings"
	"github.com/Faultbox/picoview/pkg/math"
)

// Draw renders one frame: model passes and wireframe into slot 0, the
// post-processing chain over the ring, then the watermark on whichever slot
// holds the result. Nothing happens without a model, or when neither the
// model nor the wireframe is drawn.
func (e *Engine) Draw() {
	if e.freed || e.rendering == nil {
		return
	}
	s := e.snapshot()
	sh := &s.Shader
	drawModel := sh.RenderMode != settings.ModeNone
	if !drawModel && !sh.Wireframe.Enabled {
		return
	}

	target := e.targets[0]
	target.Clear(0, 0, 0, 0)
	e.depth.Clear(1)

	mvp := e.Camera.ViewProjection(float32(e.res.Width) / float32(e.res.Height))
	light := e.LightDirection.Normalize()

	if drawModel {
		forceColor := sh.RenderMode == settings.ModeColor
		for i := range e.rendering.Passes {
			e.drawPass(&e.rendering.Passes[i], sh, mvp, light, forceColor)
		}
	}

	if sh.Wireframe.Enabled {
		if drawModel && sh.Wireframe.Xray {
			e.depth.Clear(1)
		}
		e.drawWireframe(sh, mvp)
	}

	e.targets[1].Clear(0, 0, 0, 0)

	// The overlay always lands on the ring's current slot, so with no
	// effects enabled it draws onto slot 0 directly.
	e.ring.Reset()
	e.chain.Run(e.ring, sh)
	e.current = e.ring.Current()

	if len(e.watermarkBytes) > 0 {
		text.Watermark(e.current, e.watermarkBytes, e.watermarkColor(sh))
	}
	e.valid = true
}

func (e *Engine) drawPass(p *model.Pass, sh *settings.Shader, mvp math.Mat4, light math.Vec3, forceColor bool) {
	if p.ClearDepth {
		e.depth.Clear(1)
	}
	if p.Empty() {
		return
	}

	useColor := forceColor || !p.Texture
	prog := e.program(p, sh, light, useColor)
	uvs := p.UVs
	if useColor {
		uvs = p.ColorUVs
	}

	verts := make([]raster.Vertex, len(p.Vertices))
	for i := range p.Vertices {
		verts[i] = prog.Vertex(mvp, shader.Attributes{
			Position: p.Vertices[i],
			Normal:   p.Normals[i],
			UV:       uvs[i],
		})
	}

	st := raster.State{
		Target:    e.targets[0],
		Depth:     e.depth,
		CullBack:  p.Cull,
		Varyings:  prog.Varyings(),
		DepthMask: true,
	}
	idx := p.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		st.Triangle(verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]], prog.Fragment)
	}
}

// program selects the shading program for a pass: HD when an HD texture is
// bound and the pass is textured, indexed-lit when shading is on globally
// and for the pass, indexed-unlit otherwise.
func (e *Engine) program(p *model.Pass, sh *settings.Shader, light math.Vec3, useColor bool) shader.Program {
	if e.hd != nil && !useColor {
		hd := &shader.HDLit{
			Texture:            e.hd,
			NormalMap:          e.normalMap,
			LightDir:           light,
			Steps:              sh.HD.ShadingSteps,
			Ambient:            sh.HD.ShadingColor,
			NormalMapStrength:  sh.HD.NormalMapStrength,
			SpecularSmoothness: sh.HD.Specular.Smoothness,
			SpecularColor:      sh.HD.Specular.Color,
		}
		if sh.HD.Specular.Enabled {
			hd.SpecularStrength = sh.HD.Specular.Strength
		}
		return hd
	}

	idx := e.index
	if useColor {
		idx = e.colorIndex
	}
	if sh.Shading && p.Shading {
		return &shader.IndexedLit{Index: idx, LightMap: e.lightMap, LightDir: light}
	}
	return &shader.IndexedUnlit{Index: idx, LightMap: e.lightMap}
}

func (e *Engine) drawWireframe(sh *settings.Shader, mvp math.Mat4) {
	c := sh.Wireframe.Color
	prog := &shader.Flat{Color: [4]float32{c[0], c[1], c[2], 1}}
	st := raster.State{
		Target:    e.targets[0],
		Depth:     e.depth,
		DepthMask: true,
	}

	v := e.rendering.Wireframe.Vertices
	for i := 0; i+1 < len(v); i += 2 {
		a := prog.Vertex(mvp, shader.Attributes{Position: v[i]})
		b := prog.Vertex(mvp, shader.Attributes{Position: v[i+1]})
		st.Line(a, b, prog.Fragment)
	}
}

// watermarkColor follows picoCAD: the color eight entries past the
// background index, or with a custom background the light-map color with
// the strongest luma contrast.
func (e *Engine) watermarkColor(sh *settings.Shader) color.RGBA {
	c := e.textColor(sh)
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}
