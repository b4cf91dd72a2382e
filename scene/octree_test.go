package scene

import (
	"sort"
	"testing"

	"github.com/achilleasa/hzb-viewer/types"
	"github.com/stretchr/testify/require"
)

func TestBoxMeshIsClosedAndOutwardFacing(t *testing.T) {
	bbox := AABB{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(1, 1, 1)}
	box := Box("box", bbox)
	require.Len(t, box.Vertices, 8)
	require.Len(t, box.Triangles, 12)
	require.NoError(t, box.Validate())

	center := bbox.Center()
	for idx, tri := range box.Triangles {
		v0, v1, v2 := box.Vertices[tri[0]], box.Vertices[tri[1]], box.Vertices[tri[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		outward := v0.Add(v1).Add(v2).Mul(1.0 / 3.0).Sub(center)
		require.Greater(t, normal.Dot(outward), float32(0), "triangle %d faces inwards", idx)
	}
}

func TestOccluderScene(t *testing.T) {
	_, err := NewOccluderScene(0, 3, 54)
	require.Error(t, err)

	sc, err := NewOccluderScene(4, 5, 54)
	require.NoError(t, err)
	require.NoError(t, sc.Validate())
	require.Len(t, sc.Mesh.Triangles, 12*(1+4*5))
}

func TestOctreeStoresEveryTriangleOnce(t *testing.T) {
	sc, err := NewOccluderScene(6, 6, 54)
	require.NoError(t, err)

	ot := BuildOctree(sc.Mesh, 6, 8)
	require.Equal(t, len(sc.Mesh.Triangles), ot.TriangleCount())

	seen := make(map[int32]bool)
	for _, node := range ot.Nodes {
		for _, tri := range node.Triangles {
			require.False(t, seen[tri], "triangle %d stored twice", tri)
			seen[tri] = true
			require.True(t, node.Bounds.ContainsBox(sc.Mesh.TriangleBBox(int(tri))))
		}
		for _, childIndex := range node.Children {
			if childIndex < 0 {
				continue
			}
			child := ot.Nodes[childIndex]
			require.True(t, node.Bounds.ContainsBox(child.Bounds))
			require.Equal(t, node.Depth+1, child.Depth)
		}
	}
	require.Greater(t, len(ot.Nodes), 1)
	require.Equal(t, len(sc.Mesh.Triangles), ot.Nodes[0].SubtreeTriangles)

	for _, node := range ot.Nodes {
		expCount := len(node.Triangles)
		for _, childIndex := range node.Children {
			if childIndex >= 0 {
				expCount += ot.Nodes[childIndex].SubtreeTriangles
			}
		}
		require.Equal(t, expCount, node.SubtreeTriangles)
	}
}

func TestOctreeTraversalIsFrontToBack(t *testing.T) {
	sc, err := NewOccluderScene(6, 6, 54)
	require.NoError(t, err)
	ot := BuildOctree(sc.Mesh, 6, 4)

	eye := sc.Camera.Position
	visitOrder := make(map[*OctreeNode]int)
	ot.Traverse(eye, func(node *OctreeNode) bool {
		visitOrder[node] = len(visitOrder)
		return true
	})
	require.Len(t, visitOrder, len(ot.Nodes))

	// Siblings must be visited in order of increasing distance from the eye.
	for i := range ot.Nodes {
		var siblings []*OctreeNode
		for _, childIndex := range ot.Nodes[i].Children {
			if childIndex >= 0 {
				siblings = append(siblings, &ot.Nodes[childIndex])
			}
		}
		sort.Slice(siblings, func(a, b int) bool {
			return visitOrder[siblings[a]] < visitOrder[siblings[b]]
		})
		for j := 1; j < len(siblings); j++ {
			require.GreaterOrEqual(t, siblings[j].Bounds.DistanceSq(eye), siblings[j-1].Bounds.DistanceSq(eye))
		}
	}

	// Pruning the root skips everything else.
	visited := 0
	ot.Traverse(eye, func(node *OctreeNode) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}
