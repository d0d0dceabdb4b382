// Package model holds the picoCAD model representation and builds the
// draw-ready passes the renderer consumes.
package model

import "github.com/Faultbox/picoview/pkg/math"

// TextureSize is the edge length of the model index texture.
const TextureSize = 128

// Model is an immutable picoCAD scene.
type Model struct {
	Name            string
	Zoom            float32
	BackgroundIndex int
	AlphaIndex      int
	Objects         []Object
	// Texture holds TextureSize*TextureSize palette indices, top row first.
	Texture []uint8
}

// Object is a named mesh placed at Pos.
type Object struct {
	Name     string
	Pos      math.Vec3
	Rot      math.Vec3
	Vertices []math.Vec3
	Faces    []Face
}

// Face is a polygon over object vertex indices (0-based).
type Face struct {
	Indices []int
	// UVs are in texture space, one per index.
	UVs         [][2]float32
	Color       int
	DoubleSided bool
	NoShade     bool
	NoTexture   bool
	Priority    bool
}

// Pass is one draw call: geometry sharing cull, shading and texture state.
type Pass struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	UVs      [][2]float32
	// ColorUVs address the 16x1 color index texture for solid face colors.
	ColorUVs [][2]float32
	Indices  []uint32

	Cull       bool
	ClearDepth bool
	Shading    bool
	Texture    bool
}

// Empty reports whether the pass has no triangles.
func (p *Pass) Empty() bool {
	return len(p.Indices) < 3
}

// TriangleCount returns the number of whole triangles in the pass.
func (p *Pass) TriangleCount() int {
	return len(p.Indices) / 3
}

// Wireframe is a line list: consecutive vertex pairs are edges.
type Wireframe struct {
	Vertices []math.Vec3
}

// Rendering is the draw-ready form of a model.
type Rendering struct {
	Passes    []Pass
	Wireframe Wireframe
	// Texture is the packed 128x128 index texture.
	Texture []uint8
}

// Builder turns a model into passes. tessellation subdivides quads.
type Builder func(m *Model, tessellation int) *Rendering
