package cmd

import (
	"context"
	"flag"
	"testing"

	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func newTestContext(t *testing.T, args []string, overrides map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("width", 64, "")
	set.Int("height", 48, "")
	set.String("mode", "hierarchical", "")
	set.Float64("fov", 0, "")
	set.Float64("near", 0, "")
	set.Float64("far", 0, "")
	set.Bool("no-backface-culling", false, "")
	set.Bool("no-sort", false, "")
	set.Bool("defer-refresh", false, "")
	set.Int("octree-depth", 0, "")
	set.Int("octree-leaf-size", 0, "")
	set.Int("workers", 1, "")
	set.Int("rows", 2, "")
	set.Int("cols", 3, "")
	for name, value := range overrides {
		require.NoError(t, set.Set(name, value))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestRendererOptionsFromFlags(t *testing.T) {
	ctx := newTestContext(t, nil, map[string]string{
		"mode":                "octree",
		"no-backface-culling": "true",
		"fov":                 "70",
	})
	opts, err := rendererOptions(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(64), opts.FrameW)
	require.Equal(t, uint32(48), opts.FrameH)
	require.Equal(t, renderer.OctreeHierarchicalZBuffer, opts.Mode)
	require.False(t, opts.BackfaceCulling)
	require.True(t, opts.SortFrontToBack)
	require.Equal(t, float32(70), opts.FOV)
	require.Equal(t, renderer.DefaultOptions().OctreeMaxDepth, opts.OctreeMaxDepth)

	_, err = rendererOptions(newTestContext(t, nil, map[string]string{"mode": "bogus"}))
	require.ErrorIs(t, err, renderer.ErrUnknownMode)

	_, err = rendererOptions(newTestContext(t, nil, map[string]string{"width": "0"}))
	require.ErrorIs(t, err, renderer.ErrInvalidOptions)
}

func TestLoadProceduralScene(t *testing.T) {
	sc, err := loadScene(newTestContext(t, nil, nil))
	require.NoError(t, err)
	require.Len(t, sc.Mesh.Triangles, 12*(1+2*3))

	_, err = loadScene(newTestContext(t, []string{"a.obj", "b.obj"}, nil))
	require.Error(t, err)
}

func TestBenchModes(t *testing.T) {
	modes, err := benchModes(nil)
	require.NoError(t, err)
	require.Equal(t, renderer.Modes, modes)

	modes, err = benchModes([]string{"octree", "scanline"})
	require.NoError(t, err)
	require.Equal(t, []renderer.Mode{renderer.OctreeHierarchicalZBuffer, renderer.ScanLineZBuffer}, modes)

	_, err = benchModes([]string{"nope"})
	require.Error(t, err)
}

func TestBenchRestoresCamera(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	r, sc, _, err := setupRenderer(ctx)
	require.NoError(t, err)
	defer r.Close()

	cam := sc.Camera
	origin, yaw := cam.Position, cam.Yaw

	benchCameraAt(cam, origin, yaw, 0)
	require.InDelta(t, origin[0], cam.Position[0], 1e-5)
	require.InDelta(t, yaw, cam.Yaw, 1e-6)

	benchCameraAt(cam, origin, yaw, 0.25)
	require.NotEqual(t, origin, cam.Position)

	avg, err := benchMode(context.Background(), r, cam, 4)
	require.NoError(t, err)
	require.Equal(t, renderer.HierarchicalZBuffer, avg.Mode)
	require.Equal(t, len(sc.Mesh.Triangles), avg.Triangles)
	require.Equal(t, origin, cam.Position)
	require.Equal(t, yaw, cam.Yaw)
}

