package renderer

import (
	"math"

	"github.com/achilleasa/hzb-viewer/hzb"
	"github.com/achilleasa/hzb-viewer/types"
)

// A projected vertex. X and Y are in pixels with the origin at the bottom
// left corner of the frame; Z is the window depth in [0, 1].
type screenVertex struct {
	X, Y, Z float32
}

// outsideFrustum reports whether all points lie on the outer side of the same
// clip plane.
func outsideFrustum(points []types.Vec4) bool {
	var outside [6]int
	for _, p := range points {
		x, y, z, w := p[0], p[1], p[2], p[3]
		if x < -w {
			outside[0]++
		}
		if x > w {
			outside[1]++
		}
		if y < -w {
			outside[2]++
		}
		if y > w {
			outside[3]++
		}
		if z < -w {
			outside[4]++
		}
		if z > w {
			outside[5]++
		}
	}
	for _, count := range outside {
		if count == len(points) {
			return true
		}
	}
	return false
}

// nearDistance is the signed distance of p to the near clip plane; points
// with a negative distance are clipped.
func nearDistance(p types.Vec4) float32 {
	return p[2] + p[3]
}

// clipNear clips a clip space triangle against the near plane and appends
// the resulting convex polygon to out. The polygon keeps the winding of the
// input triangle and has 0, 3 or 4 vertices.
func clipNear(tri [3]types.Vec4, out []types.Vec4) []types.Vec4 {
	out = out[:0]
	for i := range tri {
		cur, next := tri[i], tri[(i+1)%3]
		dCur, dNext := nearDistance(cur), nearDistance(next)

		if dCur >= 0 {
			out = append(out, cur)
		}
		if (dCur >= 0) != (dNext >= 0) {
			out = append(out, cur.Lerp(next, dCur/(dCur-dNext)))
		}
	}
	return out
}

// project maps a clip space point to the viewport.
func project(p types.Vec4, frameW, frameH float32) screenVertex {
	invW := 1 / p[3]
	return screenVertex{
		X: (p[0]*invW*0.5 + 0.5) * frameW,
		Y: (p[1]*invW*0.5 + 0.5) * frameH,
		Z: p[2]*invW*0.5 + 0.5,
	}
}

// signedArea returns twice the signed area of a polygon. Counter-clockwise
// polygons have a positive area.
func signedArea(poly []screenVertex) float32 {
	var area float32
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		area += a.X*b.Y - b.X*a.Y
	}
	return area
}

// screenBounds returns the pixel rect that contains every pixel center
// covered by poly together with the nearest depth of the polygon. The rect is
// not clipped to the frame.
func screenBounds(poly []screenVertex, frameW, frameH int) (hzb.Rect, float32) {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	minZ := float32(math.MaxFloat32)
	for _, v := range poly {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
		minZ = min(minZ, v.Z)
	}

	return hzb.Rect{
		XL: floorToPixel(minX, frameW),
		XR: ceilToPixel(maxX, frameW),
		YL: floorToPixel(minY, frameH),
		YR: ceilToPixel(maxY, frameH),
	}, minZ
}

// Pixel coordinates are clamped just outside the frame before the integer
// conversion so far off-screen vertices cannot overflow.
func floorToPixel(v float32, size int) int {
	return int(math.Floor(float64(clampf(v, -1, float32(size+1)))))
}

func ceilToPixel(v float32, size int) int {
	return int(math.Ceil(float64(clampf(v, -1, float32(size+1)))))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
