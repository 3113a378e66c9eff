package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinPitch = -89.0
	MaxPitch = 89.0

	// DefaultYaw points the camera down +Z once the first mouse movement is processed.
	DefaultYaw = 90.0
)

// Camera is a first-person camera driven by yaw and pitch
type Camera struct {
	Position mgl32.Vec3
	Up       mgl32.Vec3

	// Front is unit length and re-derived from Yaw/Pitch on every mouse movement.
	Front mgl32.Vec3

	// Angles in degrees
	Yaw   float32
	Pitch float32

	// Degrees per pixel of mouse movement
	Sensitivity float32
}

// New creates a camera at position looking along front
func New(position, up, front mgl32.Vec3, sensitivity float32) *Camera {
	return &Camera{
		Position:    position,
		Up:          up,
		Front:       front.Normalize(),
		Yaw:         DefaultYaw,
		Pitch:       0,
		Sensitivity: sensitivity,
	}
}

// ViewMatrix returns the right-handed look-at matrix for the current state
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProcessMouseMovement turns a cursor delta into yaw and pitch. Y is inverted.
// Pitch is clamped before Front is rebuilt so the direction never flips over the poles.
func (c *Camera) ProcessMouseMovement(dx, dy float64) {
	c.Yaw += float32(dx) * c.Sensitivity
	c.Pitch -= float32(dy) * c.Sensitivity

	c.Pitch = mgl32.Clamp(c.Pitch, MinPitch, MaxPitch)

	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))

	c.Front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the unit vector pointing to the camera's right
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

// Perspective returns a right-handed projection. fov is the vertical field of view in degrees.
func Perspective(aspect, fov, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
}

// Aspect returns width/height, falling back to 1 for a degenerate (minimized) framebuffer
func Aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
