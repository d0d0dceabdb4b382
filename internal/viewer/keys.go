package viewer

import (
	"math"

	"github.com/Faultbox/picoview/internal/capture"
	"github.com/Faultbox/picoview/internal/settings"
)

// Camera steps per key press.
const (
	RotateStep   = 0.05
	TiltStep     = 0.025
	DistanceStep = 0.5
	HeightStep   = 0.05

	MaxTilt     = 1.0
	MaxDistance = 100.0
	MaxHeight   = 10.0
)

// HandleKey applies a camera key. key is a lower-case key name: a letter,
// or one of "left", "right", "up", "down", "home", "end", "pageup",
// "pagedown", "space". It reports whether the key was recognized.
func (v *Viewer) HandleKey(key string) bool {
	handled := true
	v.eng.UpdateSettings(func(s *settings.Settings) {
		handled = applyKey(&s.Viewport, key)
	})
	return handled
}

func applyKey(vp *settings.Viewport, key string) bool {
	switch key {
	case "left", "a":
		vp.Turntable = false
		vp.CameraRotation = math.Mod(vp.CameraRotation-RotateStep, capture.FullTurn)
		if vp.CameraRotation < 0 {
			vp.CameraRotation += capture.FullTurn
		}
	case "right", "d":
		vp.Turntable = false
		vp.CameraRotation = math.Mod(vp.CameraRotation+RotateStep, capture.FullTurn)
	case "up", "w":
		vp.CameraTilt = min(vp.CameraTilt+TiltStep, MaxTilt)
	case "down", "s":
		vp.CameraTilt = max(vp.CameraTilt-TiltStep, -MaxTilt)
	case "home", "e":
		vp.CameraDistance = max(vp.CameraDistance-DistanceStep, 0)
	case "end", "q":
		vp.CameraDistance = min(vp.CameraDistance+DistanceStep, MaxDistance)
	case "y", "z", "pagedown":
		vp.CameraHeight = min(vp.CameraHeight+HeightStep, MaxHeight)
	case "x", "pageup":
		vp.CameraHeight = max(vp.CameraHeight-HeightStep, -MaxHeight)
	case "t", "space":
		vp.Turntable = !vp.Turntable
	case "r":
		vp.Rulers = !vp.Rulers
	default:
		return false
	}
	return true
}
