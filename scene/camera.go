package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/hzb-viewer/types"
)

// Default camera clip planes.
const (
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 10000
)

// Pitch is kept inside (-maxPitch, maxPitch) so the view never flips.
const maxPitch = 89.0 * math.Pi / 180.0

// CameraDirection selects a camera movement axis relative to where the
// camera is facing.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// Camera is a first person perspective camera. In view space it always looks
// down the negative z axis with y pointing up.
type Camera struct {
	Position types.Vec3

	// Orientation in radians. A zero yaw faces the positive x axis.
	Yaw   float32
	Pitch float32

	// World up vector.
	WorldUp types.Vec3

	// Vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	ViewMat     types.Mat4
	ProjMat     types.Mat4
	ViewProjMat types.Mat4
}

// Create a camera at the origin looking down the negative z axis.
func NewCamera(fov float32) *Camera {
	c := &Camera{
		Yaw:     -math.Pi / 2,
		WorldUp: types.XYZ(0, 1, 0),
		FOV:     fov,
		Aspect:  1,
		Near:    DefaultNear,
		Far:     DefaultFar,
	}
	c.SetupProjection(1)
	return c
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.Aspect = aspect
	c.ProjMat = types.Perspective4(c.FOV*math.Pi/180.0, aspect, c.Near, c.Far)
	c.Update()
}

// Direction returns the unit vector the camera is facing.
func (c *Camera) Direction() types.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(c.Yaw))
	sinPitch, cosPitch := math.Sincos(float64(c.Pitch))
	return types.XYZ(
		float32(cosPitch*cosYaw),
		float32(sinPitch),
		float32(cosPitch*sinYaw),
	).Normalize()
}

// RightVec returns the unit vector pointing to the right of the camera.
func (c *Camera) RightVec() types.Vec3 {
	return c.Direction().Cross(c.WorldUp).Normalize()
}

// Move the camera along a direction relative to its orientation.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	var delta types.Vec3
	switch dir {
	case Forward:
		delta = c.Direction().Mul(amount)
	case Backward:
		delta = c.Direction().Mul(-amount)
	case Right:
		delta = c.RightVec().Mul(amount)
	case Left:
		delta = c.RightVec().Mul(-amount)
	case Up:
		delta = c.WorldUp.Mul(amount)
	case Down:
		delta = c.WorldUp.Mul(-amount)
	}
	c.Position = c.Position.Add(delta)
	c.Update()
}

// Rotate applies yaw and pitch deltas (radians).
func (c *Camera) Rotate(yawDelta, pitchDelta float32) {
	c.Yaw += yawDelta
	c.Pitch += pitchDelta
	c.Update()
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target types.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.Len() == 0 {
		return
	}
	c.Pitch = float32(math.Asin(float64(dir[1])))
	c.Yaw = float32(math.Atan2(float64(dir[2]), float64(dir[0])))
	c.Update()
}

// Update recalculates the view and view-projection matrices.
func (c *Camera) Update() {
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	} else if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	c.ViewMat = types.LookAtV(c.Position, c.Position.Add(c.Direction()), c.WorldUp)
	c.ViewProjMat = c.ProjMat.Mul4(c.ViewMat)
}

func (c *Camera) String() string {
	dir := c.Direction()
	return fmt.Sprintf(
		"pos (%3.3f, %3.3f, %3.3f) dir (%3.3f, %3.3f, %3.3f) fov %3.1f",
		c.Position[0], c.Position[1], c.Position[2],
		dir[0], dir[1], dir[2],
		c.FOV,
	)
}
