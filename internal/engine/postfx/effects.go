package postfx

import (
	gomath "math"

	"github.com/Faultbox/picoview/internal/engine/framebuffer"
	"github.com/Faultbox/picoview/internal/settings"
)

// Outline grows a one-texel border around opaque pixels. Transparent pixels
// with an opaque neighbour take a gradient color between ColorFrom and
// ColorTo along GradientDirection (turns).
func Outline(o *settings.Outline, src, dst *framebuffer.Framebuffer) {
	w, h := src.Size()
	px, py := 1/float32(w), 1/float32(h)
	angle := float64(o.GradientDirection) * 2 * gomath.Pi
	dx, dy := float32(gomath.Cos(angle)), float32(gomath.Sin(angle))
	from := opaque(o.ColorFrom)
	to := opaque(o.ColorTo)
	grad := clamp01(o.Gradient)

	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		c := src.Sample(u, v)
		a := 1 - c[3]
		b := src.Sample(u+px, v)[3] + src.Sample(u-px, v)[3] +
			src.Sample(u, v+py)[3] + src.Sample(u, v-py)[3]

		t := (u-0.5)*dx + (v-0.5)*dy + 0.5
		gc := mix4(from, to, grad*t)
		base := mix4(c, [4]float32{}, a)
		return mix4(base, gc, min(1, a*b))
	})
}

// ColorGrade applies contrast around 0.5, brightness, then saturation and a
// hue rotation in HSV space.
func ColorGrade(g *settings.ColorGrading, src, dst *framebuffer.Framebuffer) {
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		c := src.Sample(u, v)
		var rgb [3]float32
		for i := 0; i < 3; i++ {
			rgb[i] = ((c[i]-0.5)*g.Contrast + 0.5) * g.Brightness
		}
		hsv := RGBToHSV(rgb)
		hsv[1] *= g.Saturation
		hsv[0] = mod(hsv[0]+g.Hue, 1)
		rgb = HSVToRGB(hsv)
		return [4]float32{rgb[0], rgb[1], rgb[2], c[3]}
	})
}

// RGBToHSV converts to hue, saturation, value, all in [0, 1] for in-gamut
// input.
func RGBToHSV(c [3]float32) [3]float32 {
	cmax := max(c[0], c[1], c[2])
	cmin := min(c[0], c[1], c[2])
	delta := cmax - cmin
	var h float32
	if delta > 0 {
		switch cmax {
		case c[0]:
			h = mod((c[1]-c[2])/delta, 6)
		case c[1]:
			h = (c[2]-c[0])/delta + 2
		default:
			h = (c[0]-c[1])/delta + 4
		}
		h /= 6
	}
	var s float32
	if cmax != 0 {
		s = delta / cmax
	}
	return [3]float32{h, s, cmax}
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(c [3]float32) [3]float32 {
	h := c[0] * 6
	s, v := c[1], c[2]
	f := fract(h)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch {
	case h < 1:
		return [3]float32{v, t, p}
	case h < 2:
		return [3]float32{q, v, p}
	case h < 3:
		return [3]float32{p, v, t}
	case h < 4:
		return [3]float32{p, q, v}
	case h < 5:
		return [3]float32{t, p, v}
	}
	return [3]float32{v, p, q}
}

// Posterize quantizes each channel to levels*channelLevels steps inside a
// gamma warp. Color banding offsets the rounding per channel.
func Posterize(p *settings.Posterize, src, dst *framebuffer.Framebuffer) {
	bias := [3]float32{}
	if p.ColorBanding {
		bias = [3]float32{0.25, 0.5, 0.75}
	}
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		c := src.Sample(u, v)
		for i := 0; i < 3; i++ {
			levels := p.Levels * p.ChannelLevels[i]
			x := pow(c[i], p.Gamma)
			x = floor(x*levels+bias[i]) / (levels - 1)
			c[i] = pow(x, 1/p.Gamma)
		}
		return c
	})
}

// bayer is the 4x4 ordered dither matrix indexed [y][x].
var bayer = [4][4]float32{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// Dither adds the Bayer threshold scaled by Amount and floors each channel.
func Dither(d *settings.Dither, src, dst *framebuffer.Framebuffer) {
	fullscreen(dst, func(u, v float32, x, y int) [4]float32 {
		c := src.Sample(u, v)
		threshold := (bayer[y&3][x&3] + 0.5) / 16 * d.Amount
		for i := 0; i < 3; i++ {
			c[i] = floor(c[i] + threshold)
		}
		return c
	})
}

// CRT barrel-distorts the image and darkens it with horizontal scanlines.
func CRT(c *settings.CRT, src, dst *framebuffer.Framebuffer) {
	_, h := src.Size()
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		x, y := u*2-1, v*2-1
		x *= 1 + c.Curvature*y*y
		y *= 1 + c.Curvature*x*x
		u, v = (x+1)*0.5, (y+1)*0.5

		col := src.Sample(u, v)
		scan := float32(gomath.Sin(float64(v*float32(h))*3.14159))*0.5 + 0.5
		k := 1 + (scan-1)*c.ScanlineIntensity
		for i := 0; i < 3; i++ {
			col[i] *= k
		}
		return col
	})
}

// Pixelate snaps every pixel to the corner of its PixelSize cell.
func Pixelate(p *settings.Pixelate, src, dst *framebuffer.Framebuffer) {
	size := p.PixelSize
	if size <= 0 {
		size = 1
	}
	fullscreen(dst, func(_, _ float32, x, y int) [4]float32 {
		sx := int(floor((float32(x)+0.5)/size) * size)
		sy := int(floor((float32(y)+0.5)/size) * size)
		return src.Texel(sx, sy)
	})
}

// LensDistortion remaps radius r to (r + k*r^3) / zoom. Samples landing
// outside the unit disc are transparent.
func LensDistortion(l *settings.LensDistortion, src, dst *framebuffer.Framebuffer) {
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		x, y := float64(u*2-1), float64(v*2-1)
		r := gomath.Hypot(x, y)
		theta := gomath.Atan2(y, x)
		rn := (r + float64(l.Strength)*r*r*r) / float64(l.Zoom)
		if rn > 1 || gomath.IsNaN(rn) {
			return [4]float32{}
		}
		su := float32((rn*gomath.Cos(theta) + 1) * 0.5)
		sv := float32((rn*gomath.Sin(theta) + 1) * 0.5)
		return src.Sample(su, sv)
	})
}

// Noise adds hashed grain to pixels with alpha above 0.01.
func Noise(n *settings.Noise, t float32, src, dst *framebuffer.Framebuffer) {
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		c := src.Sample(u, v)
		if c[3] <= 0.01 {
			return c
		}
		g := Hash(u, v, t)
		for i := 0; i < 3; i++ {
			c[i] += (g - 0.5) * n.Amount
		}
		return c
	})
}

// Hash is the per-pixel pseudo-random value in [0, 1).
func Hash(u, v, t float32) float32 {
	d := float64(u*512)*12.9898 + float64(v*512)*78.233
	return fract(float32(gomath.Sin(d)*43758.5453) + t)
}

// ChromaticAberration samples each channel displaced radially from the
// center by amount*(2*dist)^falloff texels times the channel offset. Alpha
// is the mean of the three sampled alphas.
func ChromaticAberration(a *settings.ChromaticAberration, src, dst *framebuffer.Framebuffer) {
	w, _ := src.Size()
	texel := 1 / float32(w)
	fullscreen(dst, func(u, v float32, _, _ int) [4]float32 {
		ox, oy := u-a.CenterX, v-a.CenterY
		length := float32(gomath.Hypot(float64(ox), float64(oy)))
		var dx, dy float32
		if length > 0 {
			dx, dy = ox/length, oy/length
		}
		factor := pow(length*2, a.RadialFalloff) * a.Strength * texel

		r := src.Sample(u-dx*factor*a.RedOffset, v-dy*factor*a.RedOffset)
		g := src.Sample(u-dx*factor*a.GreenOffset, v-dy*factor*a.GreenOffset)
		b := src.Sample(u-dx*factor*a.BlueOffset, v-dy*factor*a.BlueOffset)
		return [4]float32{r[0], g[1], b[2], (r[3] + g[3] + b[3]) / 3}
	})
}

func opaque(c settings.Color) [4]float32 {
	return [4]float32{c[0], c[1], c[2], 1}
}

func mix4(a, b [4]float32, t float32) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func floor(v float32) float32 {
	return float32(gomath.Floor(float64(v)))
}

func fract(v float32) float32 {
	return v - floor(v)
}

// mod follows GLSL: x - y*floor(x/y).
func mod(x, y float32) float32 {
	return x - y*floor(x/y)
}

func pow(x, y float32) float32 {
	return float32(gomath.Pow(float64(x), float64(y)))
}
