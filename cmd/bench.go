package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/achilleasa/hzb-viewer/types"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli"
)

// Max horizontal camera displacement along the benchmark path.
const benchSweep float32 = 2

type benchResult struct {
	Mode   string              `json:"mode"`
	Frames int                 `json:"frames"`
	FPS    float64             `json:"fps"`
	Avg    renderer.FrameStats `json:"avg"`
}

// Benchmark flies the camera along a fixed path rendering a number of frames
// with each selected mode and reports the average frame statistics.
func Benchmark(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	modes, err := benchModes(ctx.StringSlice("modes"))
	if err != nil {
		return err
	}
	frames := ctx.Int("frames")
	if frames <= 0 {
		return fmt.Errorf("invalid frame count %d", frames)
	}

	r, sc, _, err := setupRenderer(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results := make([]benchResult, 0, len(modes))
	for _, mode := range modes {
		r.SetMode(mode)
		avg, err := benchMode(runCtx, r, sc.Camera, frames)
		if err != nil {
			return err
		}

		fps := 0.0
		if avg.RenderTime > 0 {
			fps = 1 / avg.RenderTime.Seconds()
		}
		results = append(results, benchResult{Mode: mode.String(), Frames: frames, FPS: fps, Avg: avg})
		logger.Infof("[%s] average render time %s", mode, avg.RenderTime)
	}

	if ctx.Bool("json") {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, string(data))
		return nil
	}

	stats := make([]renderer.FrameStats, len(results))
	fps := make([]float64, len(results))
	for idx, res := range results {
		stats[idx], fps[idx] = res.Avg, res.FPS
	}
	logger.Noticef("benchmark results (%d frames per mode)\n%s", frames, frameStatsTable(stats, fps))
	return nil
}

func benchModes(names []string) ([]renderer.Mode, error) {
	if len(names) == 0 {
		return renderer.Modes, nil
	}

	modes := make([]renderer.Mode, 0, len(names))
	for _, name := range names {
		mode, err := renderer.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

// benchMode renders frames along the benchmark path and returns the average
// stats. The camera is restored afterwards so every mode sees the same path.
func benchMode(ctx context.Context, r renderer.Renderer, cam *scene.Camera, frames int) (renderer.FrameStats, error) {
	origin, yaw, pitch := cam.Position, cam.Yaw, cam.Pitch
	defer func() {
		cam.Position, cam.Yaw, cam.Pitch = origin, yaw, pitch
		cam.Update()
	}()

	var total renderer.FrameStats
	for frame := 0; frame < frames; frame++ {
		benchCameraAt(cam, origin, yaw, float32(frame)/float32(frames))
		if err := r.Render(ctx); err != nil {
			return renderer.FrameStats{}, err
		}
		total.Add(r.Stats())
	}

	avg := total.Div(frames)
	avg.Mode = r.Stats().Mode
	return avg, nil
}

// benchCameraAt places the camera at point t in [0, 1) of a path that
// sweeps sideways around origin while panning.
func benchCameraAt(cam *scene.Camera, origin types.Vec3, yaw, t float32) {
	sin, cos := math.Sincos(2 * math.Pi * float64(t))
	cam.Position = origin
	cam.Yaw = yaw + 0.2*float32(cos-1)
	cam.Update()
	cam.Move(scene.Right, benchSweep*float32(sin))
}
