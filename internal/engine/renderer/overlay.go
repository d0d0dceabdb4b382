package renderer

import (
	"strings"

	"github.com/Faultbox/picoview/internal/engine/text"
)

// SetWatermark sets the overlay text. Blank text removes it.
func (e *Engine) SetWatermark(s string) {
	if strings.TrimSpace(s) == "" {
		s = ""
	}
	if s == e.watermark {
		return
	}
	e.watermark = s
	e.watermarkBytes = nil
	if s != "" {
		e.watermarkBytes = text.Encode(s)
	}
}

// Watermark returns the overlay text, empty when none is set.
func (e *Engine) Watermark() string {
	return e.watermark
}
