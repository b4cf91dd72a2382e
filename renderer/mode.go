package renderer

import (
	"fmt"
	"strings"
)

// Mode selects the visibility determination strategy.
type Mode uint8

const (
	// Plain per-pixel z-buffer; every front facing triangle is rasterized.
	ScanLineZBuffer Mode = iota

	// Each triangle is tested against the hierarchical z-buffer before it
	// is rasterized.
	HierarchicalZBuffer

	// Scene octree nodes are traversed front to back and tested against the
	// hierarchical z-buffer; hidden nodes are skipped with all their
	// triangles.
	OctreeHierarchicalZBuffer
)

// Modes lists all supported render modes.
var Modes = []Mode{ScanLineZBuffer, HierarchicalZBuffer, OctreeHierarchicalZBuffer}

func (m Mode) String() string {
	switch m {
	case ScanLineZBuffer:
		return "scanline"
	case HierarchicalZBuffer:
		return "hierarchical"
	case OctreeHierarchicalZBuffer:
		return "octree"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Modes {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}
