// Package settings holds the user-facing render settings document: camera
// and turntable values plus every shading and post-processing parameter.
//
// Documents are YAML (JSON is accepted as a YAML subset) and are merged onto
// the current values, so a partial document only touches the keys it names.
package settings

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the complete render settings document.
type Settings struct {
	Name     string `yaml:"name"`
	Viewport `yaml:",inline"`
	Shader   `yaml:",inline"`
}

// Viewport holds camera and overlay values.
type Viewport struct {
	CameraDistance  float64 `yaml:"cameraDistance"`
	CameraHeight    float64 `yaml:"cameraHeight"`
	CameraTilt      float64 `yaml:"cameraTilt"`
	CameraRotation  float64 `yaml:"cameraRotation"`
	Turntable       bool    `yaml:"turntable"`
	TurntableSpeed  float64 `yaml:"turntableSpeed"`
	Rulers          bool    `yaml:"rulers"`
	RotationOverlay bool    `yaml:"rotationOverlay"`
	Watermark       string  `yaml:"watermark"`
	IsCentered      bool    `yaml:"isCentered"`
}

// RenderMode selects how model faces are filled.
type RenderMode string

const (
	ModeTexture RenderMode = "texture"
	ModeColor   RenderMode = "color"
	ModeNone    RenderMode = "none"
)

// UnmarshalYAML accepts any letter case ("Texture", "color").
func (m *RenderMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch mode := RenderMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeTexture, ModeColor, ModeNone:
		*m = mode
		return nil
	}
	return fmt.Errorf("unknown render mode %q", s)
}

// Shader holds shading and post-processing values.
type Shader struct {
	RenderMode     RenderMode `yaml:"renderMode"`
	Shading        bool       `yaml:"shading"`
	UsingHDTexture bool       `yaml:"usingHDTexture"`
	// BackgroundColor overrides the model's background index when set.
	BackgroundColor *Color `yaml:"backgroundColor,omitempty"`

	HD                  HDOptions           `yaml:"hdOptions"`
	OutlineA            Outline             `yaml:"outlineA"`
	OutlineB            Outline             `yaml:"outlineB"`
	Wireframe           Wireframe           `yaml:"wireframe"`
	ChromaticAberration ChromaticAberration `yaml:"chromaticAberration"`
	ColorGrading        ColorGrading        `yaml:"colorGrading"`
	Posterize           Posterize           `yaml:"posterize"`
	Noise               Noise               `yaml:"noise"`
	Bloom               Bloom               `yaml:"bloom"`
	Dither              Dither              `yaml:"dither"`
	CRT                 CRT                 `yaml:"crt"`
	Pixelate            Pixelate            `yaml:"pixelate"`
	LensDistortion      LensDistortion      `yaml:"lensDistortion"`
	FloorReflection     FloorReflection     `yaml:"floorReflection"`
}

// HDOptions configures the true-color shading program.
type HDOptions struct {
	ShadingSteps      float32  `yaml:"shadingSteps"`
	ShadingColor      Color    `yaml:"shadingColor"`
	NormalMapStrength float32  `yaml:"normalMapStrength"`
	Specular          Specular `yaml:"specular"`
}

// Specular configures the HD specular term.
type Specular struct {
	Enabled    bool    `yaml:"enabled"`
	Strength   float32 `yaml:"strength"`
	Smoothness float32 `yaml:"smoothness"`
	Color      Color   `yaml:"color"`
}

// Outline configures one outline pass. Size is the iteration count.
type Outline struct {
	Enabled           bool    `yaml:"enabled"`
	Size              int     `yaml:"size"`
	ColorFrom         Color   `yaml:"colorFrom"`
	ColorTo           Color   `yaml:"colorTo"`
	Gradient          float32 `yaml:"gradient"`
	GradientDirection float32 `yaml:"gradientDirection"`
}

type Wireframe struct {
	Enabled bool  `yaml:"enabled"`
	Xray    bool  `yaml:"xray"`
	Color   Color `yaml:"color"`
}

type ChromaticAberration struct {
	Enabled       bool    `yaml:"enabled"`
	Strength      float32 `yaml:"strength"`
	RedOffset     float32 `yaml:"redOffset"`
	GreenOffset   float32 `yaml:"greenOffset"`
	BlueOffset    float32 `yaml:"blueOffset"`
	RadialFalloff float32 `yaml:"radialFalloff"`
	CenterX       float32 `yaml:"centerX"`
	CenterY       float32 `yaml:"centerY"`
}

type ColorGrading struct {
	Enabled    bool    `yaml:"enabled"`
	Brightness float32 `yaml:"brightness"`
	Contrast   float32 `yaml:"contrast"`
	Saturation float32 `yaml:"saturation"`
	Hue        float32 `yaml:"hue"`
}

type Posterize struct {
	Enabled       bool       `yaml:"enabled"`
	Levels        float32    `yaml:"levels"`
	ChannelLevels [3]float32 `yaml:"channelLevels"`
	Gamma         float32    `yaml:"gamma"`
	ColorBanding  bool       `yaml:"colorBanding"`
}

type Noise struct {
	Enabled bool    `yaml:"enabled"`
	Amount  float32 `yaml:"amount"`
}

type Bloom struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float32 `yaml:"threshold"`
	Intensity float32 `yaml:"intensity"`
	Blur      float32 `yaml:"blur"`
}

// Dither configures ordered dithering. Blend and ChannelAmount are carried
// in documents but not consumed by the effect.
type Dither struct {
	Enabled       bool       `yaml:"enabled"`
	Amount        float32    `yaml:"amount"`
	Blend         float32    `yaml:"blend"`
	ChannelAmount [3]float32 `yaml:"channelAmount"`
}

type CRT struct {
	Enabled           bool    `yaml:"enabled"`
	Curvature         float32 `yaml:"curvature"`
	ScanlineIntensity float32 `yaml:"scanlineIntensity"`
}

// Pixelate configures grid snapping. Shape and Blend are carried in
// documents but not consumed by the effect.
type Pixelate struct {
	Enabled   bool    `yaml:"enabled"`
	PixelSize float32 `yaml:"pixelSize"`
	Shape     string  `yaml:"shape"`
	Blend     float32 `yaml:"blend"`
}

type LensDistortion struct {
	Enabled  bool    `yaml:"enabled"`
	Strength float32 `yaml:"strength"`
	Zoom     float32 `yaml:"zoom"`
}

// FloorReflection is accepted for document compatibility; no pass renders it.
type FloorReflection struct {
	Enabled      bool    `yaml:"enabled"`
	Opacity      float32 `yaml:"opacity"`
	Height       float32 `yaml:"height"`
	FadeDistance float32 `yaml:"fadeDistance"`
	Color        Color   `yaml:"color"`
}

// Default returns the settings a fresh viewer starts with.
func Default() Settings {
	outline := Outline{ColorFrom: White, ColorTo: White}
	return Settings{
		Name: "untitled",
		Viewport: Viewport{
			CameraDistance: 7,
			CameraHeight:   1,
			CameraTilt:     0.1,
			Turntable:      true,
			TurntableSpeed: 1,
			IsCentered:     true,
		},
		Shader: Shader{
			RenderMode: ModeTexture,
			Shading:    true,
			HD: HDOptions{
				ShadingSteps:      3,
				ShadingColor:      Black,
				NormalMapStrength: 0.5,
				Specular:          Specular{Smoothness: 10, Color: White},
			},
			OutlineA:  outline,
			OutlineB:  outline,
			Wireframe: Wireframe{Xray: true, Color: White},
			ChromaticAberration: ChromaticAberration{
				RedOffset:     1,
				BlueOffset:    -1,
				RadialFalloff: 1.5,
				CenterX:       0.5,
				CenterY:       0.5,
			},
			ColorGrading:    ColorGrading{Brightness: 1, Contrast: 1, Saturation: 1, Hue: 1},
			Posterize:       Posterize{Levels: 4, ChannelLevels: [3]float32{1, 1, 1}, Gamma: 1},
			Noise:           Noise{Amount: 0.05},
			Bloom:           Bloom{Threshold: 0.7, Intensity: 0.5, Blur: 1},
			Dither:          Dither{Amount: 0.5, Blend: 1, ChannelAmount: [3]float32{1, 1, 1}},
			CRT:             CRT{Curvature: 0.5, ScanlineIntensity: 0.3},
			Pixelate:        Pixelate{PixelSize: 1, Shape: "square", Blend: 1},
			LensDistortion:  LensDistortion{Strength: 1, Zoom: 2},
			FloorReflection: FloorReflection{Opacity: 0.5, FadeDistance: 5, Color: Black},
		},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	if s.BackgroundColor != nil {
		bg := *s.BackgroundColor
		s.BackgroundColor = &bg
	}
	return s
}

// Merge decodes a document onto a copy of s and commits it only when the
// whole document decodes. Unknown keys are ignored. UsingHDTexture is always
// false afterwards: texture presence is re-derived from what gets loaded.
func (s *Settings) Merge(data []byte) error {
	next := s.Clone()
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	next.UsingHDTexture = false
	*s = next
	return nil
}

// MergeFile merges the document stored at path.
func (s *Settings) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading settings %s: %w", path, err)
	}
	return s.Merge(data)
}
