package renderer

import (
	"context"

	"github.com/achilleasa/hzb-viewer/hzb"
)

type Renderer interface {
	// Render a frame as seen from the scene camera.
	Render(ctx context.Context) error

	// Switch the visibility determination strategy for subsequent frames.
	SetMode(mode Mode)

	// Release renderer resources.
	Close()

	// Get statistics for the last rendered frame.
	Stats() FrameStats

	// Get the hierarchical z-buffer holding the last rendered frame.
	Buffers() *hzb.QuadTree
}
