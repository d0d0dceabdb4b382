package renderer

import (
	"context"
	"time"

	"github.com/Faultbox/picoview/internal/engine/camera"
	"github.com/Faultbox/picoview/pkg/math"
)

// FrameFunc receives the seconds elapsed since its previous call.
type FrameFunc func(dt float64)

// Run draws frames until ctx is done or Stop is called. pre runs before each
// Draw and post after it; either may be nil. A zero interval draws as fast
// as possible. Run returns nil when stopped and ctx.Err() when cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration, pre, post FrameFunc) error {
	if e.freed {
		return ErrFreed
	}
	loopCtx, cancel := context.WithCancel(ctx)
	e.loopMu.Lock()
	if e.stop != nil {
		e.stop()
	}
	e.stop = cancel
	e.loopMu.Unlock()
	defer cancel()

	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	then := time.Now()
	drawThen := then
	for {
		select {
		case <-loopCtx.Done():
			return ctx.Err()
		default:
		}

		if pre != nil {
			now := time.Now()
			pre(now.Sub(then).Seconds())
			then = now
		}
		e.Draw()
		if post != nil {
			now := time.Now()
			post(now.Sub(drawThen).Seconds())
			drawThen = now
		}

		if tick != nil {
			select {
			case <-loopCtx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}

// Stop ends a running draw loop. The frame in progress completes.
func (e *Engine) Stop() {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}

// SetTurntableCamera orbits the camera around center. See
// camera.Camera.SetTurntable for the conventions.
func (e *Engine) SetTurntableCamera(radius, spin, roll float32, center *math.Vec3) {
	c := camera.DefaultCenter
	if center != nil {
		c = *center
	}
	e.Camera.SetTurntable(radius, spin, roll, c)
}

// CameraRight returns the camera's right axis.
func (e *Engine) CameraRight() math.Vec3 { return e.Camera.Right() }

// CameraUp returns the camera's up axis.
func (e *Engine) CameraUp() math.Vec3 { return e.Camera.Up() }

// CameraForward returns the camera's forward axis.
func (e *Engine) CameraForward() math.Vec3 { return e.Camera.Forward() }

// SetLightDirectionFromCamera points the light the way native picoCAD does.
func (e *Engine) SetLightDirectionFromCamera() {
	e.LightDirection = e.Camera.LightDirection()
}
