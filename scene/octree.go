package scene

import (
	"sort"

	"github.com/achilleasa/hzb-viewer/types"
)

// OctreeNode partitions the triangles of a mesh spatially. Triangles that
// straddle the split planes of a node stay at that node.
type OctreeNode struct {
	// Tight bounds of every triangle stored in this node's subtree.
	Bounds AABB

	// Indices of child nodes in the octree node list; -1 for missing children.
	Children [8]int32

	// Indices of mesh triangles stored in this node.
	Triangles []int32

	// Number of triangles stored in this node and all its descendants.
	SubtreeTriangles int

	Depth int
}

// Octree is a static spatial index over the triangles of a mesh.
type Octree struct {
	Nodes []OctreeNode

	maxDepth int
	leafSize int
	mesh     *Mesh
}

// BuildOctree partitions the mesh triangles until each node holds at most
// leafSize triangles or maxDepth is reached.
func BuildOctree(mesh *Mesh, maxDepth, leafSize int) *Octree {
	ot := &Octree{
		Nodes:    make([]OctreeNode, 0),
		maxDepth: maxDepth,
		leafSize: max(leafSize, 1),
		mesh:     mesh,
	}

	triBoxes := make([]AABB, len(mesh.Triangles))
	triList := make([]int32, len(mesh.Triangles))
	for i := range mesh.Triangles {
		triBoxes[i] = mesh.TriangleBBox(i)
		triList[i] = int32(i)
	}

	ot.build(mesh.BBox(), triList, triBoxes, 0)
	return ot
}

func (ot *Octree) build(cell AABB, triList []int32, triBoxes []AABB, depth int) int32 {
	nodeIndex := int32(len(ot.Nodes))
	ot.Nodes = append(ot.Nodes, OctreeNode{Depth: depth})
	for i := range ot.Nodes[nodeIndex].Children {
		ot.Nodes[nodeIndex].Children[i] = -1
	}

	bounds := EmptyAABB()
	for _, tri := range triList {
		bounds = bounds.Union(triBoxes[tri])
	}

	if len(triList) <= ot.leafSize || depth >= ot.maxDepth {
		ot.Nodes[nodeIndex].Triangles = triList
		ot.Nodes[nodeIndex].SubtreeTriangles = len(triList)
		ot.Nodes[nodeIndex].Bounds = bounds
		return nodeIndex
	}

	var octants [8][]int32
	kept := make([]int32, 0)
	for _, tri := range triList {
		placed := false
		for i := range octants {
			if cell.Octant(i).ContainsBox(triBoxes[tri]) {
				octants[i] = append(octants[i], tri)
				placed = true
				break
			}
		}
		if !placed {
			kept = append(kept, tri)
		}
	}

	// Splitting makes no progress if every triangle straddles the planes.
	if len(kept) == len(triList) {
		ot.Nodes[nodeIndex].Triangles = triList
		ot.Nodes[nodeIndex].SubtreeTriangles = len(triList)
		ot.Nodes[nodeIndex].Bounds = bounds
		return nodeIndex
	}

	subtreeTris := len(kept)
	for i, octTris := range octants {
		if len(octTris) == 0 {
			continue
		}
		childIndex := ot.build(cell.Octant(i), octTris, triBoxes, depth+1)
		ot.Nodes[nodeIndex].Children[i] = childIndex
		subtreeTris += ot.Nodes[childIndex].SubtreeTriangles
	}
	ot.Nodes[nodeIndex].Triangles = kept
	ot.Nodes[nodeIndex].SubtreeTriangles = subtreeTris
	ot.Nodes[nodeIndex].Bounds = bounds
	return nodeIndex
}

// Traverse visits the octree nodes in front to back order as seen from eye.
// When visit returns false the children of the visited node are skipped.
func (ot *Octree) Traverse(eye types.Vec3, visit func(node *OctreeNode) bool) {
	if len(ot.Nodes) == 0 {
		return
	}
	ot.traverse(0, eye, visit)
}

func (ot *Octree) traverse(nodeIndex int32, eye types.Vec3, visit func(node *OctreeNode) bool) {
	node := &ot.Nodes[nodeIndex]
	if !visit(node) {
		return
	}

	children := make([]int32, 0, 8)
	for _, childIndex := range node.Children {
		if childIndex >= 0 {
			children = append(children, childIndex)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return ot.Nodes[children[i]].Bounds.DistanceSq(eye) < ot.Nodes[children[j]].Bounds.DistanceSq(eye)
	})

	for _, childIndex := range children {
		ot.traverse(childIndex, eye, visit)
	}
}

// TriangleCount returns the number of triangles stored in the tree.
func (ot *Octree) TriangleCount() int {
	count := 0
	for _, node := range ot.Nodes {
		count += len(node.Triangles)
	}
	return count
}
