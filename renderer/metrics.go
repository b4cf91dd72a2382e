package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeLabel    = "mode"
	outcomeLabel = "outcome"
)

var (
	frameRenderSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hzb_frame_render_seconds",
		Help:    "The time spent rendering a frame.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{
		modeLabel,
	})

	frameTriangles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hzb_triangles",
		Help: "The number of processed triangles by visibility outcome.",
	}, []string{
		modeLabel,
		outcomeLabel,
	})

	framePixelsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hzb_pixels_written",
		Help: "The number of fragments that passed the depth test.",
	}, []string{
		modeLabel,
	})

	hzbNodesVisited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hzb_query_nodes_visited",
		Help: "The number of quadtree nodes inspected by visibility queries.",
	}, []string{
		modeLabel,
	})
)

func observeFrame(stats FrameStats) {
	mode := stats.Mode.String()
	frameRenderSeconds.WithLabelValues(mode).Observe(stats.RenderTime.Seconds())
	frameTriangles.WithLabelValues(mode, "backfacing").Add(float64(stats.Backfacing))
	frameTriangles.WithLabelValues(mode, "outside_frustum").Add(float64(stats.OutsideFrustum))
	frameTriangles.WithLabelValues(mode, "occluded").Add(float64(stats.Occluded))
	frameTriangles.WithLabelValues(mode, "rasterized").Add(float64(stats.Rasterized))
	framePixelsWritten.WithLabelValues(mode).Add(float64(stats.PixelsWritten))
	hzbNodesVisited.WithLabelValues(mode).Add(float64(stats.HZBNodesVisited))
}
