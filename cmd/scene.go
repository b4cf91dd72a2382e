package cmd

import (
	"errors"

	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/achilleasa/hzb-viewer/scene/reader"
	"github.com/urfave/cli"
)

// Field of view for the procedural scene when no fov flag is given.
const defaultFOV float32 = 54

// Load the scene named by the command argument or build the procedural
// occluder scene when no argument is given.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	switch ctx.NArg() {
	case 0:
		logger.Infof("generating occluder scene with %dx%d boxes", ctx.Int("rows"), ctx.Int("cols"))
		return scene.NewOccluderScene(ctx.Int("rows"), ctx.Int("cols"), defaultFOV)
	case 1:
		return reader.ReadScene(ctx.Args().First())
	}
	return nil, errors.New("expected at most one scene file argument")
}

// Map cli flags to renderer options.
func rendererOptions(ctx *cli.Context) (renderer.Options, error) {
	mode, err := renderer.ParseMode(ctx.String("mode"))
	if err != nil {
		return renderer.Options{}, err
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		Mode:            mode,
		FOV:             float32(ctx.Float64("fov")),
		Near:            float32(ctx.Float64("near")),
		Far:             float32(ctx.Float64("far")),
		BackfaceCulling: !ctx.Bool("no-backface-culling"),
		SortFrontToBack: !ctx.Bool("no-sort"),
		DeferHZBRefresh: ctx.Bool("defer-refresh"),
		OctreeMaxDepth:  ctx.Int("octree-depth"),
		OctreeLeafSize:  ctx.Int("octree-leaf-size"),
		Workers:         ctx.Int("workers"),
	}
	if err = opts.Validate(); err != nil {
		return renderer.Options{}, err
	}
	return opts, nil
}

// Load the scene and setup a renderer for it.
func setupRenderer(ctx *cli.Context) (renderer.Renderer, *scene.Scene, renderer.Options, error) {
	opts, err := rendererOptions(ctx)
	if err != nil {
		return nil, nil, opts, err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return nil, nil, opts, err
	}

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return nil, nil, opts, err
	}
	return r, sc, opts, nil
}
