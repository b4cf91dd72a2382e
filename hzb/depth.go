package hzb

import (
	"fmt"
	"math"
)

// DepthBuffer returns the per-pixel depth buffer. Pixel (x, y) is stored at
// index y*Width()+x with row 0 at the bottom of the frame.
//
// Writing to the returned slice bypasses the hierarchy; callers that do so
// must call RefreshRegion for the modified pixels before issuing queries.
func (t *QuadTree) DepthBuffer() []float32 {
	return t.zBuffer
}

// FrameBuffer returns the per-pixel frame buffer. It shares the layout of the
// depth buffer and is not inspected by the tree.
func (t *QuadTree) FrameBuffer() []float32 {
	return t.frameBuffer
}

// Depth returns the stored depth for pixel (x, y).
func (t *QuadTree) Depth(x, y int) (float32, error) {
	if !t.inBounds(x, y) {
		return 0, t.outOfBounds(x, y)
	}
	return t.zBuffer[y*t.width+x], nil
}

// Clear resets the depth buffer and every node bound to depth.
func (t *QuadTree) Clear(depth float32) {
	for i := range t.zBuffer {
		t.zBuffer[i] = depth
	}
	for i := range t.nodes {
		t.nodes[i].Z = depth
	}
}

// ClearFrame fills the frame buffer with value.
func (t *QuadTree) ClearFrame(value float32) {
	for i := range t.frameBuffer {
		t.frameBuffer[i] = value
	}
}

// UpdateDepth stores depth for pixel (x, y) and refreshes the bounds of the
// covering leaf and its ancestors.
func (t *QuadTree) UpdateDepth(x, y int, depth float32) error {
	if !t.inBounds(x, y) {
		return t.outOfBounds(x, y)
	}
	if isNaN(depth) {
		return fmt.Errorf("%w: NaN at pixel (%d, %d)", ErrInvalidDepth, x, y)
	}

	t.writeDepth(y*t.width+x, depth)
	return nil
}

// TestAndSetDepth stores depth for pixel (x, y) only if it is nearer than the
// currently stored value. It reports whether the write took place.
func (t *QuadTree) TestAndSetDepth(x, y int, depth float32) (bool, error) {
	if !t.inBounds(x, y) {
		return false, t.outOfBounds(x, y)
	}
	if isNaN(depth) {
		return false, fmt.Errorf("%w: NaN at pixel (%d, %d)", ErrInvalidDepth, x, y)
	}

	pix := y*t.width + x
	if depth >= t.zBuffer[pix] {
		return false, nil
	}
	t.writeDepth(pix, depth)
	return true, nil
}

// SetFragment depth-tests a fragment and, if it passes, stores both its depth
// and its frame buffer value.
func (t *QuadTree) SetFragment(x, y int, depth, value float32) (bool, error) {
	written, err := t.TestAndSetDepth(x, y, depth)
	if written {
		t.frameBuffer[y*t.width+x] = value
	}
	return written, err
}

func (t *QuadTree) writeDepth(pix int, depth float32) {
	t.zBuffer[pix] = depth

	leafIdx := t.leaves[pix]
	t.nodes[leafIdx].Z = depth

	// Every internal node holds exactly the max of its children, so the
	// walk can stop at the first ancestor whose bound does not change.
	for code := t.nodes[leafIdx].Code.Parent(); code != 0; code = code.Parent() {
		idx := t.index[code]
		z := t.maxChildZ(t.nodes[idx])
		if z == t.nodes[idx].Z {
			return
		}
		t.nodes[idx].Z = z
	}
}

func (t *QuadTree) maxChildZ(n Node) float32 {
	z := float32(-math.MaxFloat32)
	for q := BottomLeft; q <= TopRight; q++ {
		if !n.HasChild(q) {
			continue
		}
		if cz := t.nodes[t.index[n.Code.Child(q)]].Z; cz > z {
			z = cz
		}
	}
	return z
}

// RefreshRegion reloads the leaf bounds for every pixel in r from the depth
// buffer and max-reduces all affected ancestors in a single bottom-up pass.
// It is the batch counterpart of UpdateDepth for callers that write the
// depth buffer directly.
func (t *QuadTree) RefreshRegion(r Rect) error {
	if err := t.checkRect(r); err != nil {
		return err
	}
	t.refresh(0, r)
	return nil
}

func (t *QuadTree) refresh(idx int32, r Rect) float32 {
	n := &t.nodes[idx]
	if n.IsLeaf() {
		n.Z = t.zBuffer[n.YL*t.width+n.XL]
		return n.Z
	}

	z := float32(-math.MaxFloat32)
	for q := BottomLeft; q <= TopRight; q++ {
		if !n.HasChild(q) {
			continue
		}
		childIdx := t.index[n.Code.Child(q)]
		cz := t.nodes[childIdx].Z
		if t.nodes[childIdx].Overlaps(r) {
			cz = t.refresh(childIdx, r)
		}
		if cz > z {
			z = cz
		}
	}
	n.Z = z
	return z
}

// ClipRect clips r against the framebuffer bounds. It returns false if
// nothing of r remains.
func (t *QuadTree) ClipRect(r Rect) (Rect, bool) {
	out := r.Intersect(t.Bounds())
	return out, !out.Empty()
}

func (t *QuadTree) checkRect(r Rect) error {
	if r.Empty() {
		return fmt.Errorf("%w: %s", ErrEmptyRect, r)
	}
	if !t.Bounds().ContainsRect(r) {
		return fmt.Errorf("%w: rect %s not in %dx%d", ErrOutOfBounds, r, t.width, t.height)
	}
	return nil
}

func isNaN(v float32) bool {
	return v != v
}
