package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/hzb-viewer/hzb"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Build a hierarchical z-buffer for the selected resolution and display
// its per-level layout.
func ShowTreeInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	tree, err := hzb.New(ctx.Int("width"), ctx.Int("height"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Depth", "Nodes", "Leaves", "Max region"})
	for _, level := range tree.Levels() {
		table.Append([]string{
			fmt.Sprintf("%d", level.Depth),
			fmt.Sprintf("%d", level.Nodes),
			fmt.Sprintf("%d", level.Leaves),
			fmt.Sprintf("%dx%d", level.MaxWidth, level.MaxHeight),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", tree.NodeCount()), fmt.Sprintf("%d", tree.Width()*tree.Height()), ""})
	table.Render()

	logger.Noticef("quadtree for %dx%d frame\n%s", tree.Width(), tree.Height(), buf.String())
	return nil
}
