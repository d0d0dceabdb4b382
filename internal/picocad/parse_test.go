package picocad

import (
	"errors"
	"strings"
	"testing"
)

func sample() string {
	var b strings.Builder
	b.WriteString("picocad;crate;16;1;0\n")
	b.WriteString(`{
{
 name='cube', pos={0,1.5,0}, rot={0,0,0},
 v={
  {-0.5,-0.5,-0.5},
  {0.5,-0.5,-0.5},
  {0.5,0.5,-0.5},
  {-0.5,0.5,-0.5}
 },
 f={
  {1,2,3,4, c=8, dbl=1, noshade=1, uv={0,0,2,0,2,2,0,2} },
  {1,2,3, c=11, prio=1, notex=1, uv={0,0,1,0,1,1} }
 }
}
}%
`)
	b.WriteString("0123456789abcdef" + strings.Repeat("0", 112) + "\n")
	b.WriteString(strings.Repeat("f", 128) + "\n")
	return b.String()
}

func TestParse(t *testing.T) {
	m, err := Parse(sample())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "crate" || m.Zoom != 16 || m.BackgroundIndex != 1 || m.AlphaIndex != 0 {
		t.Errorf("header = %q %v %d %d", m.Name, m.Zoom, m.BackgroundIndex, m.AlphaIndex)
	}
	if len(m.Objects) != 1 {
		t.Fatalf("objects = %d", len(m.Objects))
	}
	obj := m.Objects[0]
	if obj.Name != "cube" || obj.Pos.Y != 1.5 || len(obj.Vertices) != 4 {
		t.Errorf("object = %+v", obj)
	}
	if len(obj.Faces) != 2 {
		t.Fatalf("faces = %d", len(obj.Faces))
	}

	quad := obj.Faces[0]
	if len(quad.Indices) != 4 || quad.Indices[0] != 0 || quad.Indices[3] != 3 {
		t.Errorf("indices = %v, want 0-based", quad.Indices)
	}
	if quad.Color != 8 || !quad.DoubleSided || !quad.NoShade || quad.NoTexture || quad.Priority {
		t.Errorf("quad flags = %+v", quad)
	}
	if len(quad.UVs) != 4 || quad.UVs[1] != [2]float32{0.125, 0} {
		t.Errorf("uvs = %v", quad.UVs)
	}

	tri := obj.Faces[1]
	if !tri.Priority || !tri.NoTexture || tri.DoubleSided {
		t.Errorf("tri flags = %+v", tri)
	}

	if m.Texture[15] != 15 || m.Texture[1] != 1 {
		t.Errorf("texture row 0 = %v", m.Texture[:16])
	}
	if m.Texture[128] != 15 {
		t.Errorf("texture row 1 = %d", m.Texture[128])
	}
	if m.Texture[2*128] != 0 {
		t.Error("missing rows should be zero")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no header", "hello", ErrNoHeader},
		{"no texture", "picocad;a;16;1;0\n{}", ErrNoTexture},
		{"background past palette", "picocad;a;16;99;-1\n{}\n%\n", ErrBadIndex},
		{"negative background", "picocad;a;16;-1;0\n{}\n%\n", ErrBadIndex},
		{"alpha past palette", "picocad;a;16;1;16\n{}\n%\n", ErrBadIndex},
		{"alpha below none", "picocad;a;16;1;-2\n{}\n%\n", ErrBadIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"picocad;a;16\n{}%\n",
		"picocad;a;x;1;0\n{}%\n",
		"picocad;a;16;1;0\n{ {name= }%\n",
		"picocad;a;16;1;0\n{ 5 }%\n",
	}
	for _, src := range tests {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) succeeded", src)
		}
	}
}

func TestParseEmptyModel(t *testing.T) {
	m, err := Parse("picocad;empty;16;0;0\n{}%\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Objects) != 0 || len(m.Texture) != 128*128 {
		t.Errorf("model = %+v", m)
	}
}
