package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/engine/renderer"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/internal/settings"
)

// ErrUnsupportedFile is returned for files that are neither models nor
// images.
var ErrUnsupportedFile = errors.New("viewer: unsupported file type")

// OpenFile reads a file from disk and routes it through HandleFile.
func (v *Viewer) OpenFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return v.HandleFile(ctx, filepath.Base(path), data)
}

// HandleFile routes a dropped or opened file by extension: .txt loads a
// model, image files go through LoadImage.
func (v *Viewer) HandleFile(ctx context.Context, name string, data []byte) error {
	switch {
	case strings.EqualFold(filepath.Ext(name), ".txt"):
		return v.LoadModel(ctx, renderer.Blob{Type: "text/plain", Data: data})
	case texture.IsImageFile(name):
		return v.LoadImage(name, data)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
}

// LoadImage decodes an image and applies it according to its kind: a
// light-map, the indexed model texture, a normal map or an HD texture.
func (v *Viewer) LoadImage(name string, data []byte) error {
	img, err := texture.Decode(data, name)
	if err != nil {
		return err
	}
	kind := texture.Classify(img)
	v.log.Info("image loaded",
		zap.String("name", name),
		zap.Stringer("kind", kind),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))

	switch kind {
	case texture.KindLightMap:
		return v.eng.SetLightMap(img)
	case texture.KindIndexed:
		v.setUsingHD(false)
		v.eng.RemoveHDTexture()
		return v.eng.SetIndexTexture(img)
	case texture.KindNormalMap:
		v.eng.SetNormalMap(img)
	default:
		v.setUsingHD(true)
		v.eng.SetHDTexture(img)
	}
	return nil
}

func (v *Viewer) setUsingHD(on bool) {
	v.eng.UpdateSettings(func(s *settings.Settings) { s.UsingHDTexture = on })
}

// Paste loads whatever is on the clipboard: an image first, then model
// text.
func (v *Viewer) Paste(ctx context.Context) error {
	img, err := v.clip.Image()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	if len(img) > 0 {
		return v.LoadImage("clipboard.png", img)
	}
	text, err := v.clip.Text()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	return v.DropText(ctx, string(text))
}

// DropText loads model source that was dropped or pasted as text.
func (v *Viewer) DropText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyClipboard
	}
	return v.LoadModel(ctx, text)
}
