package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/achilleasa/hzb-viewer/hzb"
)

// BufferKind selects which renderer buffer gets exported.
type BufferKind uint8

const (
	FrameBufferKind BufferKind = iota
	DepthBufferKind
)

func (k BufferKind) String() string {
	switch k {
	case FrameBufferKind:
		return "frame"
	case DepthBufferKind:
		return "depth"
	}
	return fmt.Sprintf("buffer(%d)", uint8(k))
}

// ParseBufferKind maps a buffer name to a BufferKind.
func ParseBufferKind(name string) (BufferKind, error) {
	for _, k := range []BufferKind{FrameBufferKind, DepthBufferKind} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("renderer: unknown buffer %q", name)
}

// Image converts a buffer of tree into a grayscale image. Frame buffer
// values are mapped linearly from [0, 1]. Depth values are normalized to
// the range of depths present in the frame with near surfaces drawn bright;
// cleared pixels are black. Row 0 of the buffers is the bottom row of the
// image.
func Image(tree *hzb.QuadTree, kind BufferKind) *image.Gray {
	w, h := tree.Width(), tree.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))

	var buf []float32
	lo, hi := float32(0), float32(1)
	switch kind {
	case DepthBufferKind:
		buf = tree.DepthBuffer()
		lo, hi = depthRange(buf)
	default:
		buf = tree.FrameBuffer()
	}

	for y := 0; y < h; y++ {
		row := buf[y*w : (y+1)*w]
		for x, v := range row {
			var gray uint8
			switch {
			case kind == DepthBufferKind && v > 1:
			case kind == DepthBufferKind:
				gray = toGray(1 - 0.9*normalize(v, lo, hi))
			default:
				gray = toGray(v)
			}
			img.SetGray(x, h-1-y, color.Gray{Y: gray})
		}
	}
	return img
}

// EncodePNG writes a buffer of tree as a PNG image.
func EncodePNG(w io.Writer, tree *hzb.QuadTree, kind BufferKind) error {
	return png.Encode(w, Image(tree, kind))
}

// depthRange returns the min and max depth of the written pixels.
func depthRange(buf []float32) (float32, float32) {
	lo, hi := float32(1), float32(0)
	for _, v := range buf {
		if v > 1 {
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo > hi {
		return 0, 1
	}
	return lo, hi
}

func normalize(v, lo, hi float32) float32 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func toGray(v float32) uint8 {
	return uint8(clampf(v, 0, 1)*255 + 0.5)
}
