// Package present blits the engine's composite to the window through
// OpenGL. Rendering itself never touches GL; this is the only package that
// does besides the window.
package present

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/logger"
)

const vertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 vUV;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	vUV = aUV;
}
`

const fragmentSrc = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uFrame;

void main() {
	FragColor = texture(uFrame, vUV);
}
`

// Presenter owns the GL objects used to show one image per frame.
// Must be created after the GL context.
type Presenter struct {
	program uint32
	vao     uint32
	vbo     uint32
	tex     uint32
	frame   int32

	texW, texH int
	log        *zap.Logger
}

// New initializes GL and builds the blit program.
func New() (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log := logger.Named("present")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("blit program: %w", err)
	}
	p := &Presenter{program: program, log: log}
	p.frame = gl.GetUniformLocation(program, gl.Str("uFrame\x00"))

	// Full-screen quad; V is flipped because images are stored top row first.
	vertices := []float32{
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,
		-1, -1, 0, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}
	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &p.tex)
	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	return p, nil
}

// Upload replaces the displayed image.
func (p *Presenter) Upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if w != p.texW || h != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		p.texW, p.texH = w, h
		p.log.Debug("frame texture resized", zap.Int("width", w), zap.Int("height", h))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Draw shows the last uploaded image centered in a window of the given
// size, scaled by the largest whole factor that fits.
func (p *Presenter) Draw(windowW, windowH int) {
	gl.Viewport(0, 0, int32(windowW), int32(windowH))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if p.texW == 0 {
		return
	}
	x, y, w, h := Fit(p.texW, p.texH, windowW, windowH)
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))

	gl.UseProgram(p.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	gl.Uniform1i(p.frame, 0)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Fit returns the viewport that shows a srcW x srcH image at the largest
// whole scale inside the window, centered. Images larger than the window
// are shrunk to fit keeping their aspect.
func Fit(srcW, srcH, windowW, windowH int) (x, y, w, h int) {
	if srcW <= 0 || srcH <= 0 || windowW <= 0 || windowH <= 0 {
		return 0, 0, max(windowW, 0), max(windowH, 0)
	}
	scale := min(windowW/srcW, windowH/srcH)
	if scale >= 1 {
		w, h = srcW*scale, srcH*scale
	} else if windowW*srcH < windowH*srcW {
		w, h = windowW, srcH*windowW/srcW
	} else {
		w, h = srcW*windowH/srcH, windowH
	}
	return (windowW - w) / 2, (windowH - h) / 2, w, h
}

// Close releases the GL objects.
func (p *Presenter) Close() {
	p.log.Info("closing presenter")
	if p.tex != 0 {
		gl.DeleteTextures(1, &p.tex)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
}
