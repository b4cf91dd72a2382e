package scene

import (
	"fmt"

	"github.com/achilleasa/hzb-viewer/types"
)

// Vertex indices for each box face using the AABB.Corners bit layout. Every
// face is split into two counter-clockwise triangles when seen from outside.
var boxFaces = [6][2]Triangle{
	{{0, 2, 3}, {0, 3, 1}}, // -z
	{{4, 5, 7}, {4, 7, 6}}, // +z
	{{0, 4, 6}, {0, 6, 2}}, // -x
	{{1, 3, 7}, {1, 7, 5}}, // +x
	{{0, 1, 5}, {0, 5, 4}}, // -y
	{{2, 6, 7}, {2, 7, 3}}, // +y
}

// Box returns a closed box mesh covering bbox.
func Box(name string, bbox AABB) *Mesh {
	corners := bbox.Corners()
	mesh := NewMesh(name)
	mesh.Vertices = append(mesh.Vertices, corners[:]...)
	for _, face := range boxFaces {
		mesh.Triangles = append(mesh.Triangles, face[0], face[1])
	}
	return mesh
}

// NewOccluderScene builds a wall standing in front of a rows x cols field of
// unit boxes. The camera is placed in front of the wall looking at it, so
// most of the field is hidden and makes a good occlusion culling workload.
func NewOccluderScene(rows, cols int, fov float32) (*Scene, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("scene: invalid box field size %dx%d", rows, cols)
	}

	sc := NewScene()
	halfW := float32(cols) + 2
	wall := Box("wall", AABB{Min: types.XYZ(-halfW, 0, 4), Max: types.XYZ(halfW, 4, 4.5)})
	if err := sc.AddMesh(wall); err != nil {
		return nil, err
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := float32(2*col - cols + 1)
			z := float32(2 - 2*row)
			box := Box(
				fmt.Sprintf("box-%d-%d", row, col),
				AABB{Min: types.XYZ(x-0.5, 0, z-0.5), Max: types.XYZ(x+0.5, 1, z+0.5)},
			)
			if err := sc.AddMesh(box); err != nil {
				return nil, err
			}
		}
	}

	camera := NewCamera(fov)
	camera.Position = types.XYZ(0, 1.5, 10)
	camera.LookAt(types.XYZ(0, 1.5, 0))
	sc.SetCamera(camera)

	return sc, nil
}
