package scene

import (
	"errors"
	"fmt"
)

var ErrEmptyScene = errors.New("scene: no triangles defined")

// Scene is a static triangle mesh viewed through a camera.
type Scene struct {
	Camera *Camera

	// All scene geometry merged into a single mesh.
	Mesh *Mesh
}

func NewScene() *Scene {
	return &Scene{
		Mesh: NewMesh("scene"),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a mesh to the scene.
func (s *Scene) AddMesh(mesh *Mesh) error {
	if err := mesh.Validate(); err != nil {
		return err
	}
	s.Mesh.Append(mesh)
	return nil
}

// Validate checks that the scene can be rendered.
func (s *Scene) Validate() error {
	if len(s.Mesh.Triangles) == 0 {
		return ErrEmptyScene
	}
	if s.Camera == nil {
		return errors.New("scene: no camera defined")
	}
	return s.Mesh.Validate()
}

func (s *Scene) Stats() string {
	bbox := s.Mesh.BBox()
	return fmt.Sprintf(
		"vertices %d, triangles %d, bounds min (%3.2f, %3.2f, %3.2f) max (%3.2f, %3.2f, %3.2f)",
		len(s.Mesh.Vertices), len(s.Mesh.Triangles),
		bbox.Min[0], bbox.Min[1], bbox.Min[2],
		bbox.Max[0], bbox.Max[1], bbox.Max[2],
	)
}
