package viewer

import (
	"math"

	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/achilleasa/hzb-viewer/types"
	"github.com/go-gl/glfw/v3.1/glfw"
)

var moveBindings = map[glfw.Key]scene.CameraDirection{
	glfw.KeyW:           scene.Forward,
	glfw.KeyUp:          scene.Forward,
	glfw.KeyS:           scene.Backward,
	glfw.KeyDown:        scene.Backward,
	glfw.KeyA:           scene.Left,
	glfw.KeyLeft:        scene.Left,
	glfw.KeyD:           scene.Right,
	glfw.KeyRight:       scene.Right,
	glfw.KeySpace:       scene.Up,
	glfw.KeyLeftControl: scene.Down,
}

// inputState tracks held keys and the cursor between frames.
type inputState struct {
	held map[glfw.Key]bool
	fast bool

	lastCursor types.Vec2
	hasCursor  bool
}

func newInputState() *inputState {
	return &inputState{
		held: make(map[glfw.Key]bool),
	}
}

func (s *inputState) onKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		s.held[key] = true
	case glfw.Release:
		delete(s.held, key)
	}
	s.fast = (mods & glfw.ModShift) == glfw.ModShift
}

// move applies held movement keys to the camera. It reports whether the
// camera moved.
func (s *inputState) move(cam *scene.Camera, speed, dt float32) bool {
	amount := speed * dt
	if s.fast {
		amount *= 2
	}

	moved := false
	for key := range s.held {
		dir, bound := moveBindings[key]
		if !bound {
			continue
		}
		cam.Move(dir, amount)
		moved = true
	}
	return moved
}

// look converts a cursor position into yaw and pitch deltas in radians.
// The first reported position only primes the tracker.
func (s *inputState) look(xPos, yPos float64, sensitivity float32) (float32, float32) {
	pos := types.XY(float32(xPos), float32(yPos))
	if !s.hasCursor {
		s.lastCursor, s.hasCursor = pos, true
		return 0, 0
	}

	delta := pos.Sub(s.lastCursor)
	s.lastCursor = pos

	// Cursor y grows downwards.
	scale := sensitivity * math.Pi / 180
	return delta[0] * scale, -delta[1] * scale
}
