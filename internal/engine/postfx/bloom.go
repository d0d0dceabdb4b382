package postfx

import (
	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/settings"
)

// blurWeights is the 5-tap Gaussian kernel; tap 0 is the center.
var blurWeights = [5]float32{0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216}

// applyBloom extracts bright pixels into the first auxiliary target, blurs
// them horizontally into the second and vertically back into the first,
// then composites the glow over src into dst.
func (c *Chain) applyBloom(b *settings.Bloom, src, dst *framebuffer.Framebuffer) {
	w, h := src.Size()
	t1, t2 := c.bloomTargets(w, h)

	BloomProgram(src, nil, b.Threshold, 1, t1)
	BloomBlur(t1, t2, b.Blur, true)
	BloomBlur(t2, t1, b.Blur, false)
	BloomProgram(src, t1, 0, b.Intensity, dst)
}

// BloomProgram is the shared threshold/composite pass. With a positive
// intensity and a zero threshold it adds glow*intensity to src; otherwise
// it keeps pixels whose brightest channel exceeds threshold and blacks out
// the rest. Output alpha is 1.
func BloomProgram(src, glow *framebuffer.Framebuffer, threshold, intensity float32, dst *framebuffer.Framebuffer) {
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		col := src.Sample(u, v)
		if intensity > 1e-4 && threshold < 1e-4 {
			if glow != nil {
				g := glow.Sample(u, v)
				for i := 0; i < 3; i++ {
					col[i] += g[i] * intensity
				}
			}
			return [4]float32{col[0], col[1], col[2], 1}
		}
		if max(col[0], col[1], col[2]) > threshold {
			return [4]float32{col[0], col[1], col[2], 1}
		}
		return [4]float32{0, 0, 0, 1}
	})
}

// BloomBlur runs one direction of the separable blur. Tap i is offset by
// i*blur texels.
func BloomBlur(src, dst *framebuffer.Framebuffer, blur float32, horizontal bool) {
	w, h := src.Size()
	var ox, oy float32
	if horizontal {
		ox = blur / float32(w)
	} else {
		oy = blur / float32(h)
	}
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		var sum [4]float32
		add := func(c [4]float32, wgt float32) {
			for i := range sum {
				sum[i] += c[i] * wgt
			}
		}
		add(src.Sample(u, v), blurWeights[0])
		for i := 1; i < len(blurWeights); i++ {
			f := float32(i)
			add(src.Sample(u+f*ox, v+f*oy), blurWeights[i])
			add(src.Sample(u-f*ox, v-f*oy), blurWeights[i])
		}
		return sum
	})
}
