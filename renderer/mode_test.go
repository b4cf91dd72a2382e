package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}

	parsed, err := ParseMode(" Octree ")
	require.NoError(t, err)
	require.Equal(t, OctreeHierarchicalZBuffer, parsed)

	_, err = ParseMode("raytrace")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	opts.OctreeLeafSize = 0
	opts.Workers = 0
	require.NoError(t, opts.Validate())
	require.Equal(t, DefaultOptions().OctreeLeafSize, opts.OctreeLeafSize)
	require.Greater(t, opts.Workers, 0)

	specs := []func(*Options){
		func(o *Options) { o.FrameW = 0 },
		func(o *Options) { o.FrameH = 0 },
		func(o *Options) { o.Mode = Mode(42) },
		func(o *Options) { o.FOV = 180 },
		func(o *Options) { o.Near, o.Far = 10, 1 },
		func(o *Options) { o.Workers = -1 },
	}
	for idx, mutate := range specs {
		opts := DefaultOptions()
		mutate(&opts)
		require.Error(t, opts.Validate(), "spec %d", idx)
	}
}

func TestFrameStatsAverage(t *testing.T) {
	var total FrameStats
	total.Add(FrameStats{Triangles: 10, Rasterized: 4, RenderTime: 2 * time.Millisecond})
	total.Add(FrameStats{Triangles: 20, Rasterized: 6, RenderTime: 4 * time.Millisecond})

	avg := total.Div(2)
	require.Equal(t, 15, avg.Triangles)
	require.Equal(t, 5, avg.Rasterized)
	require.Equal(t, 3*time.Millisecond, avg.RenderTime)
	require.InDelta(t, 66.66, avg.CulledPercent(), 0.01)
	require.Zero(t, FrameStats{}.CulledPercent())
}
