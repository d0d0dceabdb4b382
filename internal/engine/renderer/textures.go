package renderer

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/internal/engine/texture"
)

// SetIndexTexture replaces the model's index texture with a palette image.
// The model's alpha color becomes transparent; colors outside the base
// palette and non-opaque pixels read as index 0.
func (e *Engine) SetIndexTexture(img image.Image) error {
	if e.model == nil {
		return ErrNotLoaded
	}
	e.index = texture.IndexFromImage(texture.ToNRGBA(img), e.model.AlphaIndex)
	e.log.Debug("index texture set", zap.Int("width", e.index.Width), zap.Int("height", e.index.Height))
	return nil
}

// ModelTexture renders the loaded model's own texture through the current
// light-map colors.
func (e *Engine) ModelTexture() (*image.NRGBA, error) {
	if e.model == nil {
		return nil, ErrNotLoaded
	}
	return e.modelIndex().Image(e.colors), nil
}

func (e *Engine) modelIndex() *texture.Index {
	return texture.NewIndex(model.TextureSize, model.TextureSize, e.model.Texture)
}

// SetHDTexture binds a true-color texture for textured passes. A nil image
// removes it.
func (e *Engine) SetHDTexture(img image.Image) {
	if img == nil {
		e.RemoveHDTexture()
		return
	}
	e.hd = texture.NewRGBA(texture.ToNRGBA(img))
}

// HasHDTexture reports whether an HD texture is bound.
func (e *Engine) HasHDTexture() bool {
	return e.hd != nil
}

// RemoveHDTexture unbinds the HD texture.
func (e *Engine) RemoveHDTexture() {
	e.hd = nil
}

// SetNormalMap binds a tangent-space normal map for the HD program. A nil
// image removes it.
func (e *Engine) SetNormalMap(img image.Image) {
	if img == nil {
		e.RemoveNormalMap()
		return
	}
	e.normalMap = texture.NewRGBA(texture.ToNRGBA(img))
}

// HasNormalMap reports whether a normal map is bound.
func (e *Engine) HasNormalMap() bool {
	return e.normalMap != nil
}

// RemoveNormalMap unbinds the normal map.
func (e *Engine) RemoveNormalMap() {
	e.normalMap = nil
}
