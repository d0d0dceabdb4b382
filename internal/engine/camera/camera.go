// Package camera provides the turntable camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/picoview/pkg/math"
)

// Clip planes of the perspective projection.
const (
	Near float32 = 0.1
	Far  float32 = 400
)

// LightLift is how far the derived light direction is raised above the
// camera's forward axis.
const LightLift float32 = 0.4

// DefaultCenter is the point a picoCAD turntable orbits.
var DefaultCenter = math.Vec3{Y: 1.5}

// Camera is an Euler-rotated camera. Position is the stored offset applied
// after rotation, i.e. the negated eye position.
type Camera struct {
	Position math.Vec3
	Rotation math.Vec3
	// FOV is the vertical field of view in degrees.
	FOV float32
}

// New creates a camera with the given field of view.
func New(fov float32) *Camera {
	return &Camera{FOV: fov}
}

// SetTurntable places the camera radius away from center. spin is the
// horizontal angle and roll the vertical one; roll's sign is inverted.
func (c *Camera) SetTurntable(radius, spin, roll float32, center math.Vec3) {
	a := float64(gomath.Pi - spin)
	r := float64(-roll)
	rad := float64(radius)

	c.Position = math.Vec3{
		X: float32(rad*gomath.Cos(r)*gomath.Sin(a)) - center.X,
		Y: float32(rad*gomath.Sin(r)) - center.Y,
		Z: float32(rad*gomath.Cos(r)*gomath.Cos(a)) - center.Z,
	}
	c.Rotation = math.Vec3{X: float32(-r), Y: spin, Z: 0}
}

// ViewProjection returns P * Rx * Ry * Rz * T for the given aspect ratio.
func (c *Camera) ViewProjection(aspect float32) math.Mat4 {
	fov := c.FOV * gomath.Pi / 180
	return math.EulerView(math.Perspective(fov, aspect, Near, Far), c.Rotation, c.Position)
}

// Right returns the camera's right axis in world space.
func (c *Camera) Right() math.Vec3 { return c.transform(mgl32.Vec3{1, 0, 0}) }

// Up returns the camera's up axis in world space.
func (c *Camera) Up() math.Vec3 { return c.transform(mgl32.Vec3{0, -1, 0}) }

// Forward returns the camera's forward axis in world space.
func (c *Camera) Forward() math.Vec3 { return c.transform(mgl32.Vec3{0, 0, -1}) }

// LightDirection derives the picoCAD light from the camera: forward with a
// slight lift along up.
func (c *Camera) LightDirection() math.Vec3 {
	return c.Forward().Sub(c.Up().Scale(LightLift))
}

// transform rotates a camera-local direction about X by pi+rx, then Y by ry,
// then Z by pi+rz.
func (c *Camera) transform(v mgl32.Vec3) math.Vec3 {
	v = mgl32.Rotate3DX(gomath.Pi + c.Rotation.X).Mul3x1(v)
	v = mgl32.Rotate3DY(c.Rotation.Y).Mul3x1(v)
	v = mgl32.Rotate3DZ(gomath.Pi + c.Rotation.Z).Mul3x1(v)
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
