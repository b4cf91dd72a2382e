package scene

import (
	"math"

	"github.com/achilleasa/hzb-viewer/types"
)

// AABB is an axis aligned bounding box in world space.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: types.XYZ(math.MaxFloat32, math.MaxFloat32, math.MaxFloat32),
		Max: types.XYZ(-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32),
	}
}

func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box so it includes p.
func (b AABB) Extend(p types.Vec3) AABB {
	return AABB{Min: types.MinVec3(b.Min, p), Max: types.MaxVec3(b.Max, p)}
}

func (b AABB) Union(o AABB) AABB {
	return AABB{Min: types.MinVec3(b.Min, o.Min), Max: types.MaxVec3(b.Max, o.Max)}
}

func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ContainsBox reports whether o lies entirely inside b.
func (b AABB) ContainsBox(o AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if o.Min[axis] < b.Min[axis] || o.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Corners returns the 8 corners of the box. Bit 0 of the index selects the
// max x coordinate, bit 1 the max y and bit 2 the max z.
func (b AABB) Corners() [8]types.Vec3 {
	var out [8]types.Vec3
	for i := range out {
		out[i] = b.Min
		if i&1 != 0 {
			out[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			out[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			out[i][2] = b.Max[2]
		}
	}
	return out
}

// Octant returns the sub-box for octant i using the same bit layout as Corners.
func (b AABB) Octant(i int) AABB {
	c := b.Center()
	out := AABB{Min: b.Min, Max: c}
	for axis := 0; axis < 3; axis++ {
		if i&(1<<uint(axis)) != 0 {
			out.Min[axis], out.Max[axis] = c[axis], b.Max[axis]
		}
	}
	return out
}

// DistanceSq returns the squared distance from p to the closest point of the
// box; zero when p is inside.
func (b AABB) DistanceSq(p types.Vec3) float32 {
	var d float32
	for axis := 0; axis < 3; axis++ {
		var delta float32
		if p[axis] < b.Min[axis] {
			delta = b.Min[axis] - p[axis]
		} else if p[axis] > b.Max[axis] {
			delta = p[axis] - b.Max[axis]
		}
		d += delta * delta
	}
	return d
}
