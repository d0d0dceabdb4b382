package texture

import (
	"image"

	"github.com/Faultbox/picoview/internal/engine/palette"
)

// Kind is the role an uploaded image plays.
type Kind int

const (
	KindIndexed Kind = iota
	KindHD
	KindNormalMap
	KindLightMap
)

func (k Kind) String() string {
	switch k {
	case KindIndexed:
		return "indexed"
	case KindHD:
		return "hd"
	case KindNormalMap:
		return "normal-map"
	case KindLightMap:
		return "light-map"
	}
	return "unknown"
}

const (
	// normalSampleCap bounds how many pixels the normal-map test inspects.
	normalSampleCap = 1024
	// normalBlueMean is the mean blue level above which an image reads as a normal map.
	normalBlueMean = 0.6
)

// Classify decides an image's role. Checks run in order: exact 32x7 size
// means light-map, a blue-biased pixel sample means normal map, an image
// drawn only from the 16 base colors is indexed, anything else is HD.
func Classify(img *image.NRGBA) Kind {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	switch {
	case w == palette.LightMapWidth && h == palette.DefaultLightMapHeight:
		return KindLightMap
	case IsNormalMap(img):
		return KindNormalMap
	case IsPicoTexture(img):
		return KindIndexed
	}
	return KindHD
}

// IsNormalMap samples up to normalSampleCap pixels at a fixed stride and
// tests their mean blue channel.
func IsNormalMap(img *image.NRGBA) bool {
	n := img.Rect.Dx() * img.Rect.Dy()
	if n == 0 {
		return false
	}
	stride := n / normalSampleCap
	if stride < 1 {
		stride = 1
	}

	var sum float64
	var count int
	for i := 0; i < n && count < normalSampleCap; i += stride {
		sum += float64(img.Pix[pixOffset(img, i)+2]) / 255
		count++
	}
	return sum/float64(count) > normalBlueMean
}

// IsPicoTexture reports whether every pixel's RGB is a base palette color.
// Alpha is ignored.
func IsPicoTexture(img *image.NRGBA) bool {
	allowed := make(map[uint32]struct{}, palette.Size)
	for _, c := range palette.Pico {
		allowed[palette.Key(c)] = struct{}{}
	}

	n := img.Rect.Dx() * img.Rect.Dy()
	for i := 0; i < n; i++ {
		o := pixOffset(img, i)
		k := palette.Key(palette.RGB{img.Pix[o], img.Pix[o+1], img.Pix[o+2]})
		if _, ok := allowed[k]; !ok {
			return false
		}
	}
	return true
}

// pixOffset maps a linear pixel number to its byte offset, honouring Stride.
func pixOffset(img *image.NRGBA, i int) int {
	w := img.Rect.Dx()
	return (i/w)*img.Stride + (i%w)*4
}
