// Package camera provides the free-look camera driven by keyboard and mouse.
package camera

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Default camera settings.
const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	// MaxPitch keeps the view from flipping over the poles.
	MaxPitch = 89.0

	minZoom = 1.0
	maxZoom = 45.0
)

// Camera construction errors.
var (
	ErrDegenerateLookAt = errors.New("camera: look-at point must differ from position in z")
	ErrDegenerateUp     = errors.New("camera: world up is zero or parallel to the view direction")
)

// Camera is a free-look camera. The orientation basis is cached and only
// rebuilt when yaw or pitch change.
type Camera struct {
	Position math.Vec3
	Front    math.Vec3
	Right    math.Vec3
	Up       math.Vec3
	WorldUp  math.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32 // Vertical field of view, degrees
}

// New creates a camera from explicit yaw and pitch angles (degrees).
func New(position, worldUp math.Vec3, yaw, pitch float32) *Camera {
	c := &Camera{
		Position:         position,
		WorldUp:          worldUp,
		Yaw:              yaw,
		Pitch:            pitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		Zoom:             DefaultZoom,
	}
	c.updateVectors()
	return c
}

// NewLookingAt creates a camera at position oriented towards lookAt.
//
// Yaw comes from atan2 of the x and z offsets; pitch from atan(dy/dz). The
// pitch term is undefined when position and lookAt share a z coordinate, so
// that configuration (which includes lookAt == position) is rejected with
// ErrDegenerateLookAt.
func NewLookingAt(position, worldUp, lookAt math.Vec3) (*Camera, error) {
	dz := position.Z - lookAt.Z
	if dz == 0 {
		return nil, ErrDegenerateLookAt
	}

	yaw := math.Degrees(math32.Atan2(lookAt.X-position.X, dz)) - 90
	pitch := math.Degrees(math32.Atan((lookAt.Y - position.Y) / dz))

	c := New(position, worldUp, yaw, pitch)
	if !c.basisValid() {
		return nil, ErrDegenerateUp
	}
	return c, nil
}

// ViewMatrix returns the world-to-view transform, row-major: the rotation
// block with rows {right, up, -front} times a translation by -position.
func (c *Camera) ViewMatrix() math.Mat4 {
	orientation := math.FromRows(c.Right, c.Up, c.Front.Negate())
	translation := math.TranslateVec3(c.Position.Negate())
	return orientation.Mul(translation)
}

// GLViewMatrix returns ViewMatrix transposed into OpenGL storage order.
func (c *Camera) GLViewMatrix() math.GLMat4 {
	return c.ViewMatrix().GL()
}

// ProcessKeyboard moves the camera along its basis. Orientation is unchanged,
// so the basis is not rebuilt.
func (c *Camera) ProcessKeyboard(dir Direction, deltaTime float32) {
	m, ok := movements[dir]
	if !ok {
		return
	}
	velocity := c.MovementSpeed * deltaTime * m.sign
	c.Position = c.Position.Add(c.basis(m.axis).Scale(velocity))
}

// ProcessMouseMovement turns the camera by a cursor offset. With
// constrainPitch the pitch is clamped to [-MaxPitch, MaxPitch].
func (c *Camera) ProcessMouseMovement(dx, dy float32, constrainPitch bool) {
	c.Yaw += dx * c.MouseSensitivity
	c.Pitch += dy * c.MouseSensitivity

	if constrainPitch {
		c.Pitch = math.Clamp(c.Pitch, -MaxPitch, MaxPitch)
	}

	c.updateVectors()
}

// ProcessMouseScroll narrows or widens the field of view.
func (c *Camera) ProcessMouseScroll(dy float32) {
	c.Zoom = math.Clamp(c.Zoom-dy, minZoom, maxZoom)
}

// updateVectors rebuilds front, right and up from the Euler angles. Right is
// derived before up, both from the fresh front, to keep the basis
// right-handed.
func (c *Camera) updateVectors() {
	yaw := math.Radians(c.Yaw)
	pitch := math.Radians(c.Pitch)

	front := math.Vec3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// basisValid reports whether worldUp is far enough from front for right to be
// meaningful. Near-parallel vectors leave only rounding noise in the cross
// product, which normalizes to an arbitrary axis.
func (c *Camera) basisValid() bool {
	upLen := c.WorldUp.Length()
	if upLen == 0 || !c.Front.IsFinite() {
		return false
	}
	return c.Front.Cross(c.WorldUp).Length()/upLen > 1e-3
}

func (c *Camera) basis(a axis) math.Vec3 {
	switch a {
	case axisRight:
		return c.Right
	case axisUp:
		return c.Up
	default:
		return c.Front
	}
}
