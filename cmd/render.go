package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/urfave/cli"
)

// Render a still frame and write the selected buffer to a PNG file.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	kind, err := renderer.ParseBufferKind(ctx.String("buffer"))
	if err != nil {
		return err
	}

	r, sc, _, err := setupRenderer(ctx)
	if err != nil {
		return err
	}
	defer r.Close()
	logger.Noticef("camera: %s", sc.Camera)

	if err = r.Render(context.Background()); err != nil {
		return err
	}
	displayFrameStats(r.Stats())

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", imgFile, err)
	}
	defer f.Close()

	start := time.Now()
	if err = renderer.EncodePNG(f, r.Buffers(), kind); err != nil {
		return fmt.Errorf("error encoding png file: %w", err)
	}
	logger.Noticef("wrote %s buffer to %s in %d ms", kind, imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}
