package renderer

import (
	"github.com/achilleasa/hzb-viewer/hzb"
)

// rasterizeTriangle scan converts a triangle one pixel row at a time and
// depth tests every covered pixel inside clip. A pixel is covered when its
// center lies inside the triangle. Span ends are half-open so triangles that
// share an edge never write the same pixel twice.
func (r *softwareRenderer) rasterizeTriangle(tri [3]screenVertex, clip hzb.Rect, value float32) error {
	a, b, c := tri[0], tri[1], tri[2]
	det := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if det == 0 {
		return nil
	}

	// Window depth is affine in screen space.
	dzdx := ((b.Z-a.Z)*(c.Y-a.Y) - (c.Z-a.Z)*(b.Y-a.Y)) / det
	dzdy := ((c.Z-a.Z)*(b.X-a.X) - (b.Z-a.Z)*(c.X-a.X)) / det
	minZ, maxZ := min(a.Z, b.Z, c.Z), max(a.Z, b.Z, c.Z)

	yStart := max(clip.YL, ceilToPixel(min(a.Y, b.Y, c.Y)-0.5, r.frameH))
	yEnd := min(clip.YR, ceilToPixel(max(a.Y, b.Y, c.Y)-0.5, r.frameH))
	for y := yStart; y < yEnd; y++ {
		py := float32(y) + 0.5
		xMin, xMax, ok := spanAt(tri, py)
		if !ok {
			continue
		}

		xStart := max(clip.XL, ceilToPixel(xMin-0.5, r.frameW))
		xEnd := min(clip.XR, ceilToPixel(xMax-0.5, r.frameW))
		for x := xStart; x < xEnd; x++ {
			px := float32(x) + 0.5
			z := clampf(a.Z+dzdx*(px-a.X)+dzdy*(py-a.Y), minZ, maxZ)
			if z > 1 {
				// Beyond the far plane.
				continue
			}

			r.stats.PixelsTested++
			written, err := r.writeFragment(x, y, z, value)
			if err != nil {
				return err
			}
			if written {
				r.stats.PixelsWritten++
			}
		}
	}
	return nil
}

// spanAt returns the horizontal extent of the triangle along the line y=py.
func spanAt(tri [3]screenVertex, py float32) (float32, float32, bool) {
	var (
		xMin, xMax float32
		hits       int
	)
	for i := range tri {
		p, q := tri[i], tri[(i+1)%3]
		if (p.Y <= py) == (q.Y <= py) {
			continue
		}

		x := p.X + (py-p.Y)*(q.X-p.X)/(q.Y-p.Y)
		if hits == 0 {
			xMin, xMax = x, x
		} else {
			xMin, xMax = min(xMin, x), max(xMax, x)
		}
		hits++
	}
	return xMin, xMax, hits >= 2
}

// writeFragment depth tests a fragment. Direct writes skip the hierarchy;
// the caller refreshes it afterwards.
func (r *softwareRenderer) writeFragment(x, y int, depth, value float32) (bool, error) {
	if !r.directWrites {
		return r.tree.SetFragment(x, y, depth, value)
	}

	pix := y*r.frameW + x
	if depth >= r.zBuffer[pix] {
		return false, nil
	}
	r.zBuffer[pix] = depth
	r.frameBuffer[pix] = value
	return true, nil
}
