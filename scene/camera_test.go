package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/hzb-viewer/types"
	"github.com/stretchr/testify/require"
)

func TestCameraLooksDownNegativeZ(t *testing.T) {
	c := NewCamera(54)
	dir := c.Direction()
	require.InDelta(t, 0, dir[0], 1e-6)
	require.InDelta(t, 0, dir[1], 1e-6)
	require.InDelta(t, -1, dir[2], 1e-6)

	// A point straight ahead projects to the center of the screen.
	clip := c.ViewProjMat.TransformPoint(types.XYZ(0, 0, -10))
	require.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	require.InDelta(t, 0, clip[1]/clip[3], 1e-5)
}

func TestCameraMove(t *testing.T) {
	c := NewCamera(54)
	c.Move(Forward, 2)
	require.InDelta(t, -2, c.Position[2], 1e-5)

	c.Move(Right, 1)
	require.InDelta(t, 1, c.Position[0], 1e-5)

	c.Move(Up, 3)
	require.InDelta(t, 3, c.Position[1], 1e-5)

	c.Move(Backward, 2)
	c.Move(Left, 1)
	c.Move(Down, 3)
	require.InDelta(t, 0, c.Position.Len(), 1e-5)
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewCamera(54)
	c.Rotate(0, math.Pi)
	require.InDelta(t, maxPitch, c.Pitch, 1e-6)

	c.Rotate(0, -2*math.Pi)
	require.InDelta(t, -maxPitch, c.Pitch, 1e-6)
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera(54)
	c.Position = types.XYZ(5, 0, 0)
	c.LookAt(types.XYZ(0, 0, 0))

	dir := c.Direction()
	require.InDelta(t, -1, dir[0], 1e-5)
	require.InDelta(t, 0, dir[2], 1e-5)
}
