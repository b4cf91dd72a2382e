package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/achilleasa/hzb-viewer/viewer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// Render an interactive view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	r, sc, opts, err := setupRenderer(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if addr := ctx.String("metrics-addr"); addr != "" {
		serveMetrics(runCtx, addr)
	}

	v, err := viewer.New(r, sc.Camera, viewer.Options{
		FrameW:           opts.FrameW,
		FrameH:           opts.FrameH,
		MoveSpeed:        float32(ctx.Float64("move-speed")),
		MouseSensitivity: float32(ctx.Float64("mouse-sensitivity")),
	})
	if err != nil {
		return err
	}
	defer v.Close()

	return v.Run(runCtx)
}

// serveMetrics exposes the renderer metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: &mux}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Warningf("shutting down the metrics server failed: %v", err)
		}
	}()

	go func() {
		logger.Noticef("serving metrics on http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warningf("metrics server stopped: %v", err)
		}
	}()
}
