package scene

import (
	"fmt"

	"github.com/achilleasa/hzb-viewer/types"
)

// Triangle references three mesh vertices. Front faces wind counter-clockwise.
type Triangle [3]uint32

// Mesh is an indexed triangle list.
type Mesh struct {
	Name      string
	Vertices  []types.Vec3
	Triangles []Triangle
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]types.Vec3, 0),
		Triangles: make([]Triangle, 0),
	}
}

// BBox returns the bounds of all mesh vertices.
func (m *Mesh) BBox() AABB {
	bbox := EmptyAABB()
	for _, v := range m.Vertices {
		bbox = bbox.Extend(v)
	}
	return bbox
}

// TriangleBBox returns the bounds of triangle i.
func (m *Mesh) TriangleBBox(i int) AABB {
	tri := m.Triangles[i]
	return EmptyAABB().
		Extend(m.Vertices[tri[0]]).
		Extend(m.Vertices[tri[1]]).
		Extend(m.Vertices[tri[2]])
}

// Append copies the vertices and triangles of other into m, rebasing the
// triangle indices.
func (m *Mesh) Append(other *Mesh) {
	offset := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, tri := range other.Triangles {
		m.Triangles = append(m.Triangles, Triangle{tri[0] + offset, tri[1] + offset, tri[2] + offset})
	}
}

// Validate ensures that all triangle indices reference existing vertices.
func (m *Mesh) Validate() error {
	numVertices := uint32(len(m.Vertices))
	for triIndex, tri := range m.Triangles {
		for _, vIndex := range tri {
			if vIndex >= numVertices {
				return fmt.Errorf("scene: mesh %q triangle %d references vertex %d; mesh has %d vertices", m.Name, triIndex, vIndex, numVertices)
			}
		}
	}
	return nil
}
