package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/olekukonko/tablewriter"
)

func frameStatsTable(stats []renderer.FrameStats, fps []float64) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{
		"Mode", "Triangles", "Backfacing", "Outside", "Occluded", "Rasterized", "% culled",
		"Pixels written", "HZB queries", "HZB nodes", "Octree culled", "Render time", "FPS",
	})
	for idx, stat := range stats {
		table.Append([]string{
			stat.Mode.String(),
			fmt.Sprintf("%d", stat.Triangles),
			fmt.Sprintf("%d", stat.Backfacing),
			fmt.Sprintf("%d", stat.OutsideFrustum),
			fmt.Sprintf("%d", stat.Occluded),
			fmt.Sprintf("%d", stat.Rasterized),
			fmt.Sprintf("%02.1f %%", stat.CulledPercent()),
			fmt.Sprintf("%d/%d", stat.PixelsWritten, stat.PixelsTested),
			fmt.Sprintf("%d", stat.HZBQueries),
			fmt.Sprintf("%d", stat.HZBNodesVisited),
			fmt.Sprintf("%d/%d", stat.OctreeNodesCulled, stat.OctreeNodesVisited),
			stat.RenderTime.String(),
			fmt.Sprintf("%3.1f", fps[idx]),
		})
	}
	table.Render()
	return buf.String()
}

func displayFrameStats(stats renderer.FrameStats) {
	fps := 0.0
	if stats.RenderTime > 0 {
		fps = 1 / stats.RenderTime.Seconds()
	}
	logger.Noticef("frame statistics\n%s", frameStatsTable([]renderer.FrameStats{stats}, []float64{fps}))
}
