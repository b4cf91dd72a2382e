package hzb

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/achilleasa/hzb-viewer/log"
)

// ClearDepth is the depth value of an empty depth buffer. Depth grows with
// distance from the camera so a cleared buffer never occludes anything.
const ClearDepth float32 = math.MaxFloat32

// Upper bound for width*height; keeps arena indices within int32.
const maxPixels = 1 << 30

// Node is a single quadtree node.
type Node struct {
	Code LocCode

	// The pixels covered by this node and the point where it splits.
	Region

	// Conservative depth bound: no pixel inside Region is farther than Z.
	Z float32

	// Bit i is set when the child in quadrant i exists.
	ChildMask uint8
}

// HasChild reports whether the child in quadrant q exists.
func (n Node) HasChild(q Quadrant) bool {
	return n.ChildMask&(1<<q) != 0
}

func (n Node) IsLeaf() bool {
	return n.ChildMask == 0
}

// QuadTree is a hierarchical z-buffer for a fixed framebuffer resolution.
//
// Nodes live in a flat arena and are addressed through their location code;
// parent and child relationships are derived from the code and never stored
// as references.
type QuadTree struct {
	logger log.Logger

	width, height int

	// Node arena and location code to arena index map. The root is always
	// stored at index 0 and the arena never grows once the tree is built.
	nodes []Node
	index map[LocCode]int32

	// Arena index of the leaf that covers each pixel.
	leaves []int32

	zBuffer     []float32
	frameBuffer []float32
}

// Create a quadtree covering a width x height framebuffer and subdivide it
// down to single pixel leaves.
func New(width, height int) (*QuadTree, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width*height > maxPixels || treeLevels(max(width, height)) > maxTreeDepth {
		return nil, fmt.Errorf("%w: %dx%d exceeds the addressable resolution", ErrInvalidDimensions, width, height)
	}

	numPixels := width * height
	t := &QuadTree{
		logger:      log.New("hzb"),
		width:       width,
		height:      height,
		nodes:       make([]Node, 0, numPixels+numPixels/3+1),
		index:       make(map[LocCode]int32, numPixels+numPixels/3+1),
		leaves:      make([]int32, numPixels),
		zBuffer:     make([]float32, numPixels),
		frameBuffer: make([]float32, numPixels),
	}
	for i := range t.zBuffer {
		t.zBuffer[i] = ClearDepth
	}

	start := time.Now()
	t.buildQuadTree()
	t.logger.Debugf("built %dx%d quadtree with %d nodes in %s", width, height, len(t.nodes), time.Since(start))

	return t, nil
}

// treeLevels returns the number of halvings needed to bring size down to a
// single pixel.
func treeLevels(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

func (t *QuadTree) buildQuadTree() {
	t.insert(Node{
		Code:   RootCode,
		Region: newRegion(0, t.width, 0, t.height),
		Z:      ClearDepth,
	})
	t.splitNode(0)
}

func (t *QuadTree) insert(n Node) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.index[n.Code] = idx
	return idx
}

// splitNode creates the non-degenerate children of the node at arena index
// idx and recursively subdivides them. Children inherit the parent depth.
func (t *QuadTree) splitNode(idx int32) {
	// Work on a copy; inserting children may reallocate the arena.
	node := t.nodes[idx]
	if node.isLeaf() {
		t.leaves[node.YL*t.width+node.XL] = idx
		return
	}

	var mask uint8
	for q := BottomLeft; q <= TopRight; q++ {
		if !node.hasQuadrant(q) {
			continue
		}
		t.insert(Node{
			Code:   node.Code.Child(q),
			Region: node.quadrant(q),
			Z:      node.Z,
		})
		mask |= 1 << q
	}
	t.nodes[idx].ChildMask = mask

	for q := BottomLeft; q <= TopRight; q++ {
		if mask&(1<<q) != 0 {
			t.splitNode(t.index[node.Code.Child(q)])
		}
	}
}

func (t *QuadTree) Width() int {
	return t.width
}

func (t *QuadTree) Height() int {
	return t.height
}

// Bounds returns the rect covered by the root node.
func (t *QuadTree) Bounds() Rect {
	return Rect{XL: 0, XR: t.width, YL: 0, YR: t.height}
}

func (t *QuadTree) NodeCount() int {
	return len(t.nodes)
}

func (t *QuadTree) Root() Node {
	return t.nodes[0]
}

// LookupNode returns the node with the given location code. The second
// return value is false when no such node was created.
func (t *QuadTree) LookupNode(code LocCode) (Node, bool) {
	idx, ok := t.index[code]
	if !ok {
		return Node{}, false
	}
	return t.nodes[idx], true
}

// ParentNode returns the parent of n. The root has no parent.
func (t *QuadTree) ParentNode(n Node) (Node, bool) {
	return t.LookupNode(n.Code.Parent())
}

// NodeTreeDepth returns the distance of n from the root.
func (t *QuadTree) NodeTreeDepth(n Node) int {
	depth := 0
	for lc := n.Code; lc > RootCode; lc >>= 2 {
		depth++
	}
	return depth
}

// Children returns the existing children of n in quadrant order.
func (t *QuadTree) Children(n Node) []Node {
	out := make([]Node, 0, 4)
	for q := BottomLeft; q <= TopRight; q++ {
		if n.HasChild(q) {
			out = append(out, t.nodes[t.index[n.Code.Child(q)]])
		}
	}
	return out
}

// LeafAt returns the leaf covering pixel (x, y).
func (t *QuadTree) LeafAt(x, y int) (Node, error) {
	if !t.inBounds(x, y) {
		return Node{}, t.outOfBounds(x, y)
	}
	return t.nodes[t.leaves[y*t.width+x]], nil
}

// Walk visits the tree depth-first starting at the root. Returning false from
// fn skips the children of the visited node.
func (t *QuadTree) Walk(fn func(Node) bool) {
	t.walk(0, fn)
}

func (t *QuadTree) walk(idx int32, fn func(Node) bool) {
	n := t.nodes[idx]
	if !fn(n) {
		return
	}
	for q := BottomLeft; q <= TopRight; q++ {
		if n.HasChild(q) {
			t.walk(t.index[n.Code.Child(q)], fn)
		}
	}
}

func (t *QuadTree) inBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

func (t *QuadTree) outOfBounds(x, y int) error {
	return fmt.Errorf("%w: pixel (%d, %d) not in %dx%d", ErrOutOfBounds, x, y, t.width, t.height)
}
