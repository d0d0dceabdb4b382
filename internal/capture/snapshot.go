package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Snapshots writes still frames as PNG files.
type Snapshots struct {
	dir    string
	prefix string
	seq    int
	now    func() time.Time
}

// NewSnapshots writes into dir with names starting with prefix.
func NewSnapshots(dir, prefix string) *Snapshots {
	if prefix == "" {
		prefix = "snapshot"
	}
	return &Snapshots{dir: dir, prefix: prefix, now: time.Now}
}

// Save encodes img and returns the file path.
func (s *Snapshots) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	s.seq++
	name := fmt.Sprintf("%s_%s_%03d.png", s.prefix, s.now().Format("2006-01-02_15-04-05"), s.seq)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return path, f.Close()
}

// SavePixels saves a raw RGBA frame stored bottom row first.
func (s *Snapshots) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("snapshot: got %d bytes for %dx%d", len(pixels), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.Save(img)
}
