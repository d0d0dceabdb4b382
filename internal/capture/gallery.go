package capture

// GeneratedImage is one finished capture.
type GeneratedImage struct {
	URL      string
	Selected bool
}

// Images is the gallery of finished captures. At most one is selected.
type Images struct {
	Generating bool
	Progress   int
	Generated  []GeneratedImage
}

// Add appends an image and selects it.
func (g *Images) Add(url string) {
	for i := range g.Generated {
		g.Generated[i].Selected = false
	}
	g.Generated = append(g.Generated, GeneratedImage{URL: url, Selected: true})
}

// Select selects the image at i and clears every other selection. Out of
// range clears all.
func (g *Images) Select(i int) {
	for j := range g.Generated {
		g.Generated[j].Selected = j == i
	}
}

// Selected returns the selected image.
func (g *Images) Selected() (GeneratedImage, bool) {
	for _, img := range g.Generated {
		if img.Selected {
			return img, true
		}
	}
	return GeneratedImage{}, false
}

// Remove drops the image at i.
func (g *Images) Remove(i int) {
	if i < 0 || i >= len(g.Generated) {
		return
	}
	g.Generated = append(g.Generated[:i], g.Generated[i+1:]...)
}
