package renderer

import "time"

type FrameStats struct {
	Mode Mode `json:"mode"`

	// Triangle counters. Every scene triangle ends up in exactly one of
	// the outcome buckets.
	Triangles      int `json:"triangles"`
	Backfacing     int `json:"backfacing"`
	OutsideFrustum int `json:"outside_frustum"`
	Occluded       int `json:"occluded"`
	Rasterized     int `json:"rasterized"`

	// Fragment counters.
	PixelsTested  int `json:"pixels_tested"`
	PixelsWritten int `json:"pixels_written"`

	// Hierarchical z-buffer query counters.
	HZBQueries      int `json:"hzb_queries"`
	HZBNodesVisited int `json:"hzb_nodes_visited"`

	// Octree traversal counters.
	OctreeNodesVisited int `json:"octree_nodes_visited"`
	OctreeNodesCulled  int `json:"octree_nodes_culled"`

	TransformTime time.Duration `json:"transform_time"`
	RenderTime    time.Duration `json:"render_time"`
}

// Add accumulates the counters of other into s.
func (s *FrameStats) Add(other FrameStats) {
	s.Triangles += other.Triangles
	s.Backfacing += other.Backfacing
	s.OutsideFrustum += other.OutsideFrustum
	s.Occluded += other.Occluded
	s.Rasterized += other.Rasterized
	s.PixelsTested += other.PixelsTested
	s.PixelsWritten += other.PixelsWritten
	s.HZBQueries += other.HZBQueries
	s.HZBNodesVisited += other.HZBNodesVisited
	s.OctreeNodesVisited += other.OctreeNodesVisited
	s.OctreeNodesCulled += other.OctreeNodesCulled
	s.TransformTime += other.TransformTime
	s.RenderTime += other.RenderTime
}

// Div divides all counters by n; used for averaging accumulated stats.
func (s FrameStats) Div(n int) FrameStats {
	if n <= 1 {
		return s
	}
	return FrameStats{
		Mode:               s.Mode,
		Triangles:          s.Triangles / n,
		Backfacing:         s.Backfacing / n,
		OutsideFrustum:     s.OutsideFrustum / n,
		Occluded:           s.Occluded / n,
		Rasterized:         s.Rasterized / n,
		PixelsTested:       s.PixelsTested / n,
		PixelsWritten:      s.PixelsWritten / n,
		HZBQueries:         s.HZBQueries / n,
		HZBNodesVisited:    s.HZBNodesVisited / n,
		OctreeNodesVisited: s.OctreeNodesVisited / n,
		OctreeNodesCulled:  s.OctreeNodesCulled / n,
		TransformTime:      s.TransformTime / time.Duration(n),
		RenderTime:         s.RenderTime / time.Duration(n),
	}
}

// CulledPercent returns the share of triangles that were skipped before
// rasterization.
func (s FrameStats) CulledPercent() float32 {
	if s.Triangles == 0 {
		return 0
	}
	return 100 * float32(s.Triangles-s.Rasterized) / float32(s.Triangles)
}
