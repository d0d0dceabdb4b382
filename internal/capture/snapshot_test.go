package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

func TestSavePixelsFlips(t *testing.T) {
	s := NewSnapshots(t.TempDir(), "")
	// Bottom row red, top row blue.
	pix := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.SavePixels(pix, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("top = %v, want blue", got)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	s := NewSnapshots(t.TempDir(), "shot")
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	a, err := s.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two snapshots share the name %q", a)
	}
}

func TestSavePixelsSizeMismatch(t *testing.T) {
	s := NewSnapshots(t.TempDir(), "")
	if _, err := s.SavePixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("SavePixels() error = nil, want size mismatch")
	}
}
