package hzb

import "fmt"

// QueryResult describes the outcome of a visibility query.
type QueryResult struct {
	// False if the queried box is provably hidden behind stored depths.
	Visible bool

	// Number of nodes whose bounds were compared against the query depth.
	NodesVisited int

	// The deepest node that fully contains the queried rect; traversal
	// starts there instead of the root.
	Start LocCode
}

// Query checks whether anything inside r at depth nearDepth or farther could
// still be visible. nearDepth must be the nearest depth of the tested object.
//
// A node whose bound is nearer than nearDepth hides everything behind it in
// its region and is not descended into. The object is reported visible as
// soon as a leaf inside r holds a depth at or beyond nearDepth.
func (t *QuadTree) Query(r Rect, nearDepth float32) (QueryResult, error) {
	if err := t.checkRect(r); err != nil {
		return QueryResult{}, err
	}
	if isNaN(nearDepth) {
		return QueryResult{}, fmt.Errorf("%w: NaN query depth", ErrInvalidDepth)
	}

	start := t.coveringNode(r)
	res := QueryResult{Start: t.nodes[start].Code}
	res.Visible = t.visible(start, r, nearDepth, &res.NodesVisited)
	return res, nil
}

// IsOccluded is a shortcut for Query that only reports the outcome.
func (t *QuadTree) IsOccluded(r Rect, nearDepth float32) (bool, error) {
	res, err := t.Query(r, nearDepth)
	if err != nil {
		return false, err
	}
	return !res.Visible, nil
}

// coveringNode returns the arena index of the deepest node that fully
// contains r.
func (t *QuadTree) coveringNode(r Rect) int32 {
	var idx int32
next:
	for {
		n := t.nodes[idx]
		for q := BottomLeft; q <= TopRight; q++ {
			if !n.HasChild(q) {
				continue
			}
			childIdx := t.index[n.Code.Child(q)]
			if t.nodes[childIdx].ContainsRect(r) {
				idx = childIdx
				continue next
			}
		}
		return idx
	}
}

func (t *QuadTree) visible(idx int32, r Rect, nearDepth float32, visited *int) bool {
	n := t.nodes[idx]
	*visited++
	if n.Z < nearDepth {
		return false
	}
	if n.IsLeaf() {
		return true
	}

	for q := BottomLeft; q <= TopRight; q++ {
		if !n.HasChild(q) {
			continue
		}
		childIdx := t.index[n.Code.Child(q)]
		if t.nodes[childIdx].Overlaps(r) && t.visible(childIdx, r, nearDepth, visited) {
			return true
		}
	}
	return false
}
