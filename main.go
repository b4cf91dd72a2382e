package main

import (
	"os"

	"github.com/achilleasa/hzb-viewer/cmd"
	"github.com/achilleasa/hzb-viewer/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  1280,
			Usage:  "frame width",
			EnvVar: "HZB_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  720,
			Usage:  "frame height",
			EnvVar: "HZB_HEIGHT",
		},
	}

	renderFlags := withFlags(frameFlags,
		cli.StringFlag{
			Name:   "mode, m",
			Value:  "hierarchical",
			Usage:  "visibility mode: scanline, hierarchical or octree",
			EnvVar: "HZB_MODE",
		},
		cli.Float64Flag{
			Name:  "fov",
			Usage: "vertical field of view in degrees; 0 keeps the scene camera value",
		},
		cli.Float64Flag{
			Name:  "near",
			Usage: "near clip plane distance; 0 keeps the scene camera value",
		},
		cli.Float64Flag{
			Name:  "far",
			Usage: "far clip plane distance; 0 keeps the scene camera value",
		},
		cli.BoolFlag{
			Name:  "no-backface-culling",
			Usage: "rasterize triangles facing away from the camera",
		},
		cli.BoolFlag{
			Name:  "no-sort",
			Usage: "do not sort triangles front to back before rasterizing",
		},
		cli.BoolFlag{
			Name:  "defer-refresh",
			Usage: "refresh the z-buffer hierarchy once per triangle instead of once per pixel",
		},
		cli.IntFlag{
			Name:  "octree-depth",
			Value: 8,
			Usage: "max depth of the scene octree",
		},
		cli.IntFlag{
			Name:  "octree-leaf-size",
			Value: 32,
			Usage: "max triangles per octree leaf",
		},
		cli.IntFlag{
			Name:   "workers",
			Usage:  "goroutines used for vertex transformation; 0 uses all cpus",
			EnvVar: "HZB_WORKERS",
		},
		cli.IntFlag{
			Name:  "rows",
			Value: 20,
			Usage: "box rows of the procedural scene used when no scene file is given",
		},
		cli.IntFlag{
			Name:  "cols",
			Value: 20,
			Usage: "box columns of the procedural scene used when no scene file is given",
		},
	)

	app := cli.NewApp()
	app.Name = "hzb-viewer"
	app.Usage = "compare occlusion culling strategies using a hierarchical z-buffer"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level: debug, info, notice, warning or error",
			EnvVar: "HZB_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:        "render",
			Usage:       "render single frame",
			Description: `Render a single frame and write its frame or depth buffer to a PNG file.`,
			ArgsUsage:   "[scene_file.obj]",
			Flags: withFlags(renderFlags,
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "buffer, b",
					Value: "frame",
					Usage: "buffer to export: frame or depth",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bench",
			Usage: "benchmark visibility modes",
			Description: `
Fly the camera along a fixed path rendering the same frames with each mode
and report the average frame statistics per mode.`,
			ArgsUsage: "[scene_file.obj]",
			Flags: withFlags(renderFlags,
				cli.IntFlag{
					Name:  "frames, n",
					Value: 100,
					Usage: "frames to render per mode",
				},
				cli.StringSliceFlag{
					Name:  "modes",
					Value: &cli.StringSlice{},
					Usage: "modes to benchmark; defaults to all modes",
				},
				cli.BoolFlag{
					Name:  "json",
					Usage: "print results as json",
				},
			),
			Action: cmd.Benchmark,
		},
		{
			Name:   "info",
			Usage:  "display the quadtree layout for a frame size",
			Flags:  frameFlags,
			Action: cmd.ShowTreeInfo,
		},
		{
			Name:      "view",
			Usage:     "render interactive view of the scene",
			ArgsUsage: "[scene_file.obj]",
			Flags: withFlags(renderFlags,
				cli.Float64Flag{
					Name:  "move-speed",
					Usage: "camera speed in units per second",
				},
				cli.Float64Flag{
					Name:  "mouse-sensitivity",
					Usage: "degrees of rotation per pixel of mouse movement",
				},
				cli.StringFlag{
					Name:   "metrics-addr",
					Usage:  "serve prometheus metrics on this address",
					EnvVar: "HZB_METRICS_ADDR",
				},
			),
			Action: cmd.RenderInteractive,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("hzb-viewer").Error(err)
		os.Exit(1)
	}
}

// withFlags returns a new flag list so commands never share a backing array.
func withFlags(base []cli.Flag, extra ...cli.Flag) []cli.Flag {
	flags := make([]cli.Flag, 0, len(base)+len(extra))
	flags = append(flags, base...)
	return append(flags, extra...)
}
