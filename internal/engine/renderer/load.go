package renderer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/internal/engine/texture"
	"github.com/Faultbox/picoview/internal/picocad"
)

// ErrNotTextBlob is returned when a Blob's media type is not textual.
var ErrNotTextBlob = errors.New("renderer: picoCAD file must be a text file")

// Blob is an in-memory file with a media type, e.g. a dropped or pasted file.
type Blob struct {
	Type string
	Data []byte
}

// SourceTypeError reports a Load source of an unsupported type.
type SourceTypeError struct {
	Value any
}

func (e *SourceTypeError) Error() string {
	return fmt.Sprintf("renderer: unsupported model source %T", e.Value)
}

// Load replaces the current model. src is one of:
//   - string: picoCAD source when it starts with the "picocad;" header,
//     otherwise a path or URL to fetch
//   - *url.URL: fetched
//   - Blob or *Blob: a text file holding picoCAD source
//   - *model.Model: used as is
//
// Any other type yields a *SourceTypeError. On failure the previous model
// stays loaded.
func (e *Engine) Load(ctx context.Context, src any) error {
	if e.freed {
		return ErrFreed
	}
	m, err := e.resolve(ctx, src)
	if err != nil {
		return err
	}

	r := e.builder(m, e.Tessellation)
	e.model = m
	e.rendering = r
	e.index = texture.NewIndex(model.TextureSize, model.TextureSize, r.Texture)
	e.current = nil
	e.valid = false

	e.log.Info("model loaded",
		zap.String("name", m.Name),
		zap.Int("objects", len(m.Objects)),
		zap.Int("passes", len(r.Passes)),
		zap.Int("triangles", e.TriangleCount()),
	)
	return nil
}

func (e *Engine) resolve(ctx context.Context, src any) (*model.Model, error) {
	switch v := src.(type) {
	case string:
		if strings.HasPrefix(v, picocad.Header) {
			return e.parse(ctx, v)
		}
		return e.fetch(ctx, v)
	case *url.URL:
		if v == nil {
			break
		}
		return e.fetch(ctx, v.String())
	case Blob:
		return e.parseBlob(ctx, &v)
	case *Blob:
		if v == nil {
			break
		}
		return e.parseBlob(ctx, v)
	case *model.Model:
		if v == nil {
			break
		}
		return v, nil
	}
	return nil, &SourceTypeError{Value: src}
}

func (e *Engine) fetch(ctx context.Context, ref string) (*model.Model, error) {
	data, err := e.fetcher.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", ref, err)
	}
	return e.parse(ctx, string(data))
}

func (e *Engine) parseBlob(ctx context.Context, b *Blob) (*model.Model, error) {
	if !strings.HasPrefix(b.Type, "text") {
		return nil, fmt.Errorf("%w: got %q", ErrNotTextBlob, b.Type)
	}
	return e.parse(ctx, string(b.Data))
}

func (e *Engine) parse(ctx context.Context, src string) (*model.Model, error) {
	m, err := picocad.ParseContext(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	return m, nil
}
