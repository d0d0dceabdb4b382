package postfx

import (
	"testing"
	"time"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/settings"
)

var wantOrder = []string{
	"outlineA", "outlineB", "colorGrading", "posterize", "bloom", "dither",
	"crt", "pixelate", "lensDistortion", "noise", "chromaticAberration",
}

func TestDefaultStageOrder(t *testing.T) {
	stages := DefaultStages()
	if len(stages) != len(wantOrder) {
		t.Fatalf("%d stages, want %d", len(stages), len(wantOrder))
	}
	for i, st := range stages {
		if st.Name != wantOrder[i] {
			t.Errorf("stage %d = %s, want %s", i, st.Name, wantOrder[i])
		}
	}
}

func newRing(w, h int) *Ring {
	return NewRing(framebuffer.New(w, h), framebuffer.New(w, h))
}

// tagStages wraps each default stage so it records its name and applies a
// distinct affine tint to the red channel.
func tagStages(mask int, log *[]string) []Stage {
	stages := DefaultStages()
	for i := range stages {
		i := i
		name := stages[i].Name
		stages[i].Enabled = func(*settings.Shader) bool { return mask&(1<<i) != 0 }
		stages[i].Passes = nil
		stages[i].Apply = func(_ *Chain, _ *settings.Shader, src, dst *framebuffer.Framebuffer) {
			*log = append(*log, name)
			c := src.RGBA8(0, 0)
			c[0] = tint(i, c[0])
			dst.SetRGBA8(0, 0, c)
		}
	}
	return stages
}

func tint(i int, v uint8) uint8 {
	return uint8((int(v)*3 + i + 1) % 251)
}

func TestChainAppliesEnabledStagesInOrder(t *testing.T) {
	s := settings.Default().Shader
	for mask := 0; mask < 1<<len(wantOrder); mask++ {
		var log []string
		c := New(WithStages(tagStages(mask, &log)...))
		r := newRing(1, 1)
		r.Current().SetRGBA8(0, 0, [4]uint8{7, 0, 0, 255})

		passes := c.Run(r, &s)

		want := uint8(7)
		var names []string
		for i, name := range wantOrder {
			if mask&(1<<i) != 0 {
				names = append(names, name)
				want = tint(i, want)
			}
		}
		if passes != len(names) {
			t.Fatalf("mask %b: %d passes, want %d", mask, passes, len(names))
		}
		for i := range names {
			if log[i] != names[i] {
				t.Fatalf("mask %b: order %v, want %v", mask, log, names)
			}
		}
		if got := r.Current().RGBA8(0, 0)[0]; got != want {
			t.Fatalf("mask %b: composite %d, want %d", mask, got, want)
		}
	}
}

func TestOutlinePassCountFollowsSize(t *testing.T) {
	s := settings.Default().Shader
	s.OutlineA.Enabled = true
	s.OutlineA.Size = 3
	s.OutlineB.Enabled = true
	s.OutlineB.Size = 2
	r := newRing(4, 4)
	if n := New().Run(r, &s); n != 5 {
		t.Errorf("passes = %d, want 5", n)
	}
	if r.Index() != 1 {
		t.Errorf("current slot = %d after odd pass count", r.Index())
	}
}

func TestRingSwap(t *testing.T) {
	a, b := framebuffer.New(1, 1), framebuffer.New(1, 1)
	r := NewRing(a, b)
	if r.Current() != a || r.Other() != b {
		t.Fatal("initial slots wrong")
	}
	r.Swap()
	r.Swap()
	if r.Current() != a {
		t.Error("double swap should return to the first slot")
	}
	if r.Swap() != b || r.Slot(0) != a {
		t.Error("Swap should return the new current slot")
	}
}

func TestBloomTargetsLazy(t *testing.T) {
	s := settings.Default().Shader
	c := New()
	r := newRing(2, 2)
	c.Run(r, &s)
	if c.BloomAllocated() {
		t.Fatal("bloom targets allocated while bloom disabled")
	}
	s.Bloom.Enabled = true
	c.Run(r, &s)
	if !c.BloomAllocated() {
		t.Fatal("bloom targets not allocated")
	}
	first := c.bloom[0]
	c.Run(r, &s)
	if c.bloom[0] != first {
		t.Error("bloom targets should be reused")
	}
	c.Free()
	if c.BloomAllocated() {
		t.Error("Free should release bloom targets")
	}
}

func TestTime(t *testing.T) {
	now := time.Unix(100, 0)
	c := New(WithClock(func() time.Time { return now }))
	now = now.Add(5 * time.Second)
	if got := c.Time(); got != 0.5 {
		t.Errorf("Time = %v, want 0.5", got)
	}
}
