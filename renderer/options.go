package renderer

import (
	"fmt"
	"runtime"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Visibility determination strategy.
	Mode Mode

	// Camera overrides; zero values keep the scene camera settings.
	FOV  float32
	Near float32
	Far  float32

	// Skip triangles facing away from the camera.
	BackfaceCulling bool

	// Rasterize triangles in order of increasing distance to the camera
	// so that near occluders populate the z-buffer first. Ignored by the
	// octree mode which always traverses front to back.
	SortFrontToBack bool

	// Write depths straight to the depth buffer and refresh the hierarchy
	// once per triangle instead of once per pixel.
	DeferHZBRefresh bool

	// Octree build parameters.
	OctreeMaxDepth int
	OctreeLeafSize int

	// Number of goroutines used for transforming vertices; 0 selects
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the options used by the cli when no flags are set.
func DefaultOptions() Options {
	return Options{
		FrameW:          1280,
		FrameH:          720,
		Mode:            HierarchicalZBuffer,
		BackfaceCulling: true,
		SortFrontToBack: true,
		OctreeMaxDepth:  8,
		OctreeLeafSize:  32,
	}
}

// Validate checks the options and fills in defaults for zero values.
func (o *Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidOptions, o.FrameW, o.FrameH)
	}
	if _, err := ParseMode(o.Mode.String()); err != nil {
		return err
	}
	if o.FOV < 0 || o.FOV >= 180 {
		return fmt.Errorf("%w: fov %3.1f not in (0, 180)", ErrInvalidOptions, o.FOV)
	}
	if o.Near < 0 || o.Far < 0 || (o.Near != 0 && o.Far != 0 && o.Far <= o.Near) {
		return fmt.Errorf("%w: clip planes near %f far %f", ErrInvalidOptions, o.Near, o.Far)
	}
	if o.OctreeMaxDepth < 0 || o.OctreeLeafSize < 0 || o.Workers < 0 {
		return fmt.Errorf("%w: negative octree or worker settings", ErrInvalidOptions)
	}

	if o.OctreeMaxDepth == 0 {
		o.OctreeMaxDepth = DefaultOptions().OctreeMaxDepth
	}
	if o.OctreeLeafSize == 0 {
		o.OctreeLeafSize = DefaultOptions().OctreeLeafSize
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
