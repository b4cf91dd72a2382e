package hzb

import "fmt"

// Rect is a half-open rectangle of pixel coordinates [XL, XR) x [YL, YR).
type Rect struct {
	XL, XR int
	YL, YR int
}

// Create a rect from its min corner and its size.
func RectXYWH(x, y, w, h int) Rect {
	return Rect{XL: x, XR: x + w, YL: y, YR: y + h}
}

func (r Rect) Width() int {
	return r.XR - r.XL
}

func (r Rect) Height() int {
	return r.YR - r.YL
}

// Empty reports whether the rect contains no pixels.
func (r Rect) Empty() bool {
	return r.XR <= r.XL || r.YR <= r.YL
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.XL && x < r.XR && y >= r.YL && y < r.YR
}

// ContainsRect reports whether every pixel of o lies inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.XL >= r.XL && o.XR <= r.XR && o.YL >= r.YL && o.YR <= r.YR
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.XL < o.XR && o.XL < r.XR && r.YL < o.YR && o.YL < r.YR
}

// Intersect returns the pixels shared by r and o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{XL: max(r.XL, o.XL), XR: min(r.XR, o.XR), YL: max(r.YL, o.YL), YR: min(r.YR, o.YR)}
	if out.Empty() {
		return Rect{}
	}
	return out
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.XL, r.XR, r.YL, r.YR)
}

// Region is the bounding rect of a tree node together with the split point
// used for subdividing it.
type Region struct {
	Rect
	CenterX, CenterY int
}

// The split point rounds up so that the lower half is never smaller than the
// upper one and every split strictly shrinks both axes.
func newRegion(xl, xr, yl, yr int) Region {
	return Region{
		Rect:    Rect{XL: xl, XR: xr, YL: yl, YR: yr},
		CenterX: (xl + xr + 1) / 2,
		CenterY: (yl + yr + 1) / 2,
	}
}

// isLeaf reports whether the region is at most one pixel wide on both axes.
func (r Region) isLeaf() bool {
	return r.XR-r.XL <= 1 && r.YR-r.YL <= 1
}

// hasQuadrant reports whether quadrant q would cover at least one pixel.
func (r Region) hasQuadrant(q Quadrant) bool {
	if q.isRight() && r.XR <= r.CenterX {
		return false
	}
	if q.isTop() && r.YR <= r.CenterY {
		return false
	}
	return true
}

// quadrant returns the sub-region covered by quadrant q.
func (r Region) quadrant(q Quadrant) Region {
	xl, xr := r.XL, r.CenterX
	if q.isRight() {
		xl, xr = r.CenterX, r.XR
	}
	yl, yr := r.YL, r.CenterY
	if q.isTop() {
		yl, yr = r.CenterY, r.YR
	}
	return newRegion(xl, xr, yl, yr)
}

// quadrantOf returns the quadrant that contains pixel (x, y).
func (r Region) quadrantOf(x, y int) Quadrant {
	var q Quadrant
	if x >= r.CenterX {
		q |= BottomRight
	}
	if y >= r.CenterY {
		q |= TopLeft
	}
	return q
}
