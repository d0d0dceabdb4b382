// Package picocad reads picoCAD project files.
//
// A file is a header line "picocad;name;zoom;bg;alpha", a Lua table literal
// describing the objects, a '%' separator and the 128x120 texture as rows of
// hex digits.
package picocad

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/Faultbox/picoview/internal/engine/model"
	"github.com/Faultbox/picoview/internal/engine/palette"
	"github.com/Faultbox/picoview/pkg/math"
)

// Header is the magic prefix of every picoCAD file.
const Header = "picocad;"

// TextureRows is the number of texture rows stored in a file.
const TextureRows = 120

// UVScale converts picoCAD UV units to normalized texture coordinates.
const UVScale = 16

var (
	// ErrNoHeader is returned when the source does not start with Header.
	ErrNoHeader = errors.New("picocad: missing header")
	// ErrNoTexture is returned when the '%' separator is missing.
	ErrNoTexture = errors.New("picocad: missing texture section")
	// ErrBadIndex is returned when a header color index is outside the palette.
	ErrBadIndex = errors.New("picocad: color index out of range")
)

// Parse decodes a picoCAD file.
func Parse(src string) (*model.Model, error) {
	return ParseContext(context.Background(), src)
}

// ParseContext is Parse with cancellation of the Lua evaluation.
func ParseContext(ctx context.Context, src string) (*model.Model, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(src, Header) {
		return nil, ErrNoHeader
	}
	headerLine, rest, _ := strings.Cut(src, "\n")
	m, err := parseHeader(headerLine)
	if err != nil {
		return nil, err
	}

	body, tex, ok := strings.Cut(rest, "%")
	if !ok {
		return nil, ErrNoTexture
	}

	objs, err := evalObjects(ctx, body)
	if err != nil {
		return nil, err
	}
	m.Objects = objs
	m.Texture = parseTexture(tex)
	return m, nil
}

func parseHeader(line string) (*model.Model, error) {
	parts := strings.Split(strings.TrimSpace(line), ";")
	if len(parts) < 5 {
		return nil, fmt.Errorf("picocad: header has %d fields, want 5", len(parts))
	}
	zoom, err := strconv.ParseFloat(parts[2], 32)
	if err != nil {
		return nil, fmt.Errorf("picocad: zoom: %w", err)
	}
	bg, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("picocad: background index: %w", err)
	}
	if bg < 0 || bg >= palette.Size {
		return nil, fmt.Errorf("%w: background %d", ErrBadIndex, bg)
	}
	alpha, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, fmt.Errorf("picocad: alpha index: %w", err)
	}
	if alpha < -1 || alpha >= palette.Size {
		return nil, fmt.Errorf("%w: alpha %d", ErrBadIndex, alpha)
	}
	return &model.Model{
		Name:            parts[1],
		Zoom:            float32(zoom),
		BackgroundIndex: bg,
		AlphaIndex:      alpha,
	}, nil
}

// parseTexture reads hex rows into a 128x128 buffer. Missing texels are 0.
func parseTexture(s string) []uint8 {
	out := make([]uint8, model.TextureSize*model.TextureSize)
	row := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if row >= model.TextureSize {
			break
		}
		for x := 0; x < len(line) && x < model.TextureSize; x++ {
			v, err := strconv.ParseUint(line[x:x+1], 16, 8)
			if err != nil {
				continue
			}
			out[row*model.TextureSize+x] = uint8(v)
		}
		row++
	}
	return out
}

func evalObjects(ctx context.Context, body string) ([]model.Object, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString("return " + strings.TrimSpace(body)); err != nil {
		return nil, fmt.Errorf("picocad: object table: %w", err)
	}
	root, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, errors.New("picocad: object table is not a table")
	}
	L.Pop(1)

	objs := make([]model.Object, 0, root.Len())
	for i := 1; i <= root.Len(); i++ {
		t, ok := root.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("picocad: object %d is not a table", i)
		}
		obj, err := readObject(t)
		if err != nil {
			return nil, fmt.Errorf("picocad: object %d: %w", i, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func readObject(t *lua.LTable) (model.Object, error) {
	obj := model.Object{
		Name: lua.LVAsString(t.RawGetString("name")),
		Pos:  vec3(t.RawGetString("pos")),
		Rot:  vec3(t.RawGetString("rot")),
	}

	if vs, ok := t.RawGetString("v").(*lua.LTable); ok {
		obj.Vertices = make([]math.Vec3, 0, vs.Len())
		for i := 1; i <= vs.Len(); i++ {
			obj.Vertices = append(obj.Vertices, vec3(vs.RawGetInt(i)))
		}
	}

	fs, ok := t.RawGetString("f").(*lua.LTable)
	if !ok {
		return obj, nil
	}
	for i := 1; i <= fs.Len(); i++ {
		ft, ok := fs.RawGetInt(i).(*lua.LTable)
		if !ok {
			return obj, fmt.Errorf("face %d is not a table", i)
		}
		obj.Faces = append(obj.Faces, readFace(ft))
	}
	return obj, nil
}

func readFace(t *lua.LTable) model.Face {
	f := model.Face{
		Color:       int(number(t.RawGetString("c"))),
		DoubleSided: flag(t.RawGetString("dbl")),
		NoShade:     flag(t.RawGetString("noshade")),
		NoTexture:   flag(t.RawGetString("notex")),
		Priority:    flag(t.RawGetString("prio")),
	}
	for i := 1; i <= t.Len(); i++ {
		f.Indices = append(f.Indices, int(number(t.RawGetInt(i)))-1)
	}
	if uv, ok := t.RawGetString("uv").(*lua.LTable); ok {
		for i := 1; i+1 <= uv.Len(); i += 2 {
			f.UVs = append(f.UVs, [2]float32{
				float32(number(uv.RawGetInt(i))) / UVScale,
				float32(number(uv.RawGetInt(i+1))) / UVScale,
			})
		}
	}
	return f
}

func vec3(v lua.LValue) math.Vec3 {
	t, ok := v.(*lua.LTable)
	if !ok {
		return math.Vec3{}
	}
	return math.Vec3{
		X: float32(number(t.RawGetInt(1))),
		Y: float32(number(t.RawGetInt(2))),
		Z: float32(number(t.RawGetInt(3))),
	}
}

func number(v lua.LValue) float64 {
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// flag treats any non-nil, non-false, non-zero value as set.
func flag(v lua.LValue) bool {
	switch x := v.(type) {
	case lua.LNumber:
		return x != 0
	case lua.LBool:
		return bool(x)
	}
	return v != lua.LNil && v != nil
}
