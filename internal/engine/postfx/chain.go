// Package postfx implements the full-screen post-processing chain.
//
// Stages run in a fixed order over a ping-pong Ring: each enabled stage reads
// the current slot, writes the other one, then the ring swaps. The fold is
// explicit so each stage can be tested alone.
package postfx

import (
	"time"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/settings"
)

// Stage is one entry of the chain.
type Stage struct {
	Name    string
	Enabled func(s *settings.Shader) bool
	// Passes returns how many times Apply runs; nil means once.
	Passes func(s *settings.Shader) int
	Apply  func(c *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer)
}

// Chain owns the stage list and the auxiliary state effects need.
type Chain struct {
	stages []Stage
	bloom  [2]*framebuffer.Framebuffer
	start  time.Time
	now    func() time.Time
}

// Option configures a Chain.
type Option func(*Chain)

// WithStages replaces the default stage list.
func WithStages(stages ...Stage) Option {
	return func(c *Chain) { c.stages = stages }
}

// WithClock sets the time source used by animated effects.
func WithClock(now func() time.Time) Option {
	return func(c *Chain) { c.now = now }
}

// New creates a chain with the default stages.
func New(opts ...Option) *Chain {
	c := &Chain{stages: DefaultStages(), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	return c
}

// DefaultStages returns the effects in their fixed order.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name:    "outlineA",
			Enabled: func(s *settings.Shader) bool { return s.OutlineA.Enabled },
			Passes:  func(s *settings.Shader) int { return s.OutlineA.Size },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Outline(&s.OutlineA, src, dst)
			},
		},
		{
			Name:    "outlineB",
			Enabled: func(s *settings.Shader) bool { return s.OutlineB.Enabled },
			Passes:  func(s *settings.Shader) int { return s.OutlineB.Size },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Outline(&s.OutlineB, src, dst)
			},
		},
		{
			Name:    "colorGrading",
			Enabled: func(s *settings.Shader) bool { return s.ColorGrading.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				ColorGrade(&s.ColorGrading, src, dst)
			},
		},
		{
			Name:    "posterize",
			Enabled: func(s *settings.Shader) bool { return s.Posterize.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Posterize(&s.Posterize, src, dst)
			},
		},
		{
			Name:    "bloom",
			Enabled: func(s *settings.Shader) bool { return s.Bloom.Enabled },
			Apply: func(c *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				c.applyBloom(&s.Bloom, src, dst)
			},
		},
		{
			Name:    "dither",
			Enabled: func(s *settings.Shader) bool { return s.Dither.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Dither(&s.Dither, src, dst)
			},
		},
		{
			Name:    "crt",
			Enabled: func(s *settings.Shader) bool { return s.CRT.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				CRT(&s.CRT, src, dst)
			},
		},
		{
			Name:    "pixelate",
			Enabled: func(s *settings.Shader) bool { return s.Pixelate.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Pixelate(&s.Pixelate, src, dst)
			},
		},
		{
			Name:    "lensDistortion",
			Enabled: func(s *settings.Shader) bool { return s.LensDistortion.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				LensDistortion(&s.LensDistortion, src, dst)
			},
		},
		{
			Name:    "noise",
			Enabled: func(s *settings.Shader) bool { return s.Noise.Enabled },
			Apply: func(c *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				Noise(&s.Noise, c.Time(), src, dst)
			},
		},
		{
			Name:    "chromaticAberration",
			Enabled: func(s *settings.Shader) bool { return s.ChromaticAberration.Enabled },
			Apply: func(_ *Chain, s *settings.Shader, src, dst *framebuffer.Framebuffer) {
				ChromaticAberration(&s.ChromaticAberration, src, dst)
			},
		},
	}
}

// Stages returns the configured stages in run order.
func (c *Chain) Stages() []Stage {
	return c.stages
}

// Run applies every enabled stage to the ring and returns the number of
// passes executed. The ring's current slot holds the result.
func (c *Chain) Run(r *Ring, s *settings.Shader) int {
	passes := 0
	for i := range c.stages {
		st := &c.stages[i]
		if !st.Enabled(s) {
			continue
		}
		n := 1
		if st.Passes != nil {
			n = st.Passes(s)
		}
		for k := 0; k < n; k++ {
			st.Apply(c, s, r.Current(), r.Other())
			r.Swap()
			passes++
		}
	}
	return passes
}

// Time is the animated-effect clock: milliseconds since the chain was
// created, divided by 10000.
func (c *Chain) Time() float32 {
	return float32(float64(c.now().Sub(c.start).Milliseconds()) / 10000)
}

// bloomTargets returns the two auxiliary bloom targets, allocating them on
// first use and resizing them to match w x h afterwards.
func (c *Chain) bloomTargets(w, h int) (*framebuffer.Framebuffer, *framebuffer.Framebuffer) {
	for i := range c.bloom {
		if c.bloom[i] == nil {
			c.bloom[i] = framebuffer.New(w, h)
		} else {
			c.bloom[i].Resize(w, h)
		}
	}
	return c.bloom[0], c.bloom[1]
}

// BloomAllocated reports whether the bloom targets exist.
func (c *Chain) BloomAllocated() bool {
	return c.bloom[0] != nil
}

// Free releases auxiliary targets.
func (c *Chain) Free() {
	for i := range c.bloom {
		if c.bloom[i] != nil {
			c.bloom[i].Destroy()
			c.bloom[i] = nil
		}
	}
}

// fullscreen runs fn for every pixel of dst with the pixel-center uv.
func fullscreen(dst *framebuffer.Framebuffer, fn func(u, v float32, x, y int) [4]float32) {
	w, h := dst.Size()
	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			dst.Set(x, y, fn(u, v, x, y))
		}
	}
}
