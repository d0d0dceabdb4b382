package postfx

import "github.com/Faultbox/picoview/internal/engine/framebuffer"

// Ring is the two-slot ping-pong pair. Current holds the latest result;
// Other is the write target for the next pass.
type Ring struct {
	slots [2]*framebuffer.Framebuffer
	cur   int
}

// NewRing pairs two equally sized framebuffers with a as current.
func NewRing(a, b *framebuffer.Framebuffer) *Ring {
	return &Ring{slots: [2]*framebuffer.Framebuffer{a, b}}
}

// Current returns the slot holding the most recent result.
func (r *Ring) Current() *framebuffer.Framebuffer { return r.slots[r.cur] }

// Other returns the slot the next pass writes to.
func (r *Ring) Other() *framebuffer.Framebuffer { return r.slots[1-r.cur] }

// Slot returns slot i (0 or 1).
func (r *Ring) Slot(i int) *framebuffer.Framebuffer { return r.slots[i&1] }

// Index returns the index of the current slot.
func (r *Ring) Index() int { return r.cur }

// Swap makes Other current and returns it.
func (r *Ring) Swap() *framebuffer.Framebuffer {
	r.cur = 1 - r.cur
	return r.slots[r.cur]
}

// Reset makes slot 0 current.
func (r *Ring) Reset() { r.cur = 0 }
