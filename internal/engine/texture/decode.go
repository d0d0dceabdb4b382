// Package texture decodes uploaded images and provides the texture types the
// software renderer samples: index textures, true-color textures and the
// classifier that decides which role an image plays.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageExtensions lists the file extensions routed to image decoding.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp", ".tga"}

// IsImageFile reports whether name has one of ImageExtensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Decode decodes image bytes into non-premultiplied RGBA. The name is used
// only to route TGA files, which carry no magic number.
func Decode(data []byte, name string) (*image.NRGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", name, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to *image.NRGBA anchored at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}
