package renderer

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/internal/settings"
)

// ResetLightMap restores the stock light-map and the PICO-8 palette.
func (e *Engine) ResetLightMap() {
	e.lightMap = palette.DefaultLightMap()
	e.colors = append([]palette.RGB(nil), palette.Pico[:]...)
}

// SetLightMap installs a custom 32-pixel-wide light-map. The palette becomes
// its lit top-row colors followed by every other distinct color it holds.
func (e *Engine) SetLightMap(img image.Image) error {
	lm, err := palette.LightMapFromImage(img)
	if err != nil {
		return fmt.Errorf("setting light-map: %w", err)
	}
	e.lightMap = lm
	e.colors = lm.Colors()
	e.log.Info("light-map set", zap.Int("rows", lm.Height), zap.Int("colors", len(e.colors)))
	return nil
}

// LightMap returns the active light-map.
func (e *Engine) LightMap() *palette.LightMap {
	return e.lightMap
}

// LightMapColors returns the palette derived from the light-map, base
// colors first.
func (e *Engine) LightMapColors() []palette.RGB {
	return e.colors
}

// Palette returns the light-map colors followed by the wireframe, outline A,
// outline B and custom background colors, each only while its feature is on.
func (e *Engine) Palette() []palette.RGBA {
	s := e.Settings()
	return e.palette(&s.Shader)
}

// FramePalette is Palette resolved with the settings the last frame was
// drawn with.
func (e *Engine) FramePalette() []palette.RGBA {
	s := e.frameSettings()
	return e.palette(&s.Shader)
}

func (e *Engine) palette(sh *settings.Shader) []palette.RGBA {
	var ex palette.Extras
	if sh.Wireframe.Enabled {
		c := renderedRGBA(sh.Wireframe.Color)
		ex.Wireframe = &c
	}
	if sh.OutlineA.Enabled {
		c := renderedRGBA(sh.OutlineA.ColorFrom)
		ex.OutlineA = &c
	}
	if sh.OutlineB.Enabled {
		c := renderedRGBA(sh.OutlineB.ColorFrom)
		ex.OutlineB = &c
	}
	if sh.BackgroundColor != nil {
		c := customBackground(*sh.BackgroundColor)
		ex.Background = &c
	}
	return palette.Build(e.colors, ex)
}

// RenderedBackgroundColor is the model's background entry, or the custom
// background when one is set.
func (e *Engine) RenderedBackgroundColor() palette.RGBA {
	s := e.Settings()
	return e.backgroundColor(&s.Shader)
}

// FrameBackgroundColor is RenderedBackgroundColor for the last drawn frame.
func (e *Engine) FrameBackgroundColor() palette.RGBA {
	s := e.frameSettings()
	return e.backgroundColor(&s.Shader)
}

func (e *Engine) backgroundColor(sh *settings.Shader) palette.RGBA {
	if sh.BackgroundColor != nil {
		return customBackground(*sh.BackgroundColor)
	}
	return palette.Opaque(e.colors[e.backgroundIndex()])
}

// backgroundIndex falls back to 0 for a model whose index is off the palette.
func (e *Engine) backgroundIndex() int {
	if e.model == nil {
		return 0
	}
	if i := e.model.BackgroundIndex; i >= 0 && i < palette.Size && i < len(e.colors) {
		return i
	}
	return 0
}

func (e *Engine) textColor(sh *settings.Shader) palette.RGB {
	return palette.TextColor(e.colors, e.backgroundIndex(), (*[3]float32)(sh.BackgroundColor))
}

// renderedRGBA quantizes c the way the targets store it, so palette entries
// match the pixels drawn with that color.
func renderedRGBA(c settings.Color) palette.RGBA {
	return palette.RGBA{framebuffer.Quantize(c[0]), framebuffer.Quantize(c[1]), framebuffer.Quantize(c[2]), 255}
}

func customBackground(c settings.Color) palette.RGBA {
	b := c.Bytes()
	return palette.RGBA{b[0], b[1], b[2], 255}
}
