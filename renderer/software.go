package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/achilleasa/hzb-viewer/hzb"
	"github.com/achilleasa/hzb-viewer/log"
	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/achilleasa/hzb-viewer/types"
)

// The context is polled once every this many triangles.
const cancelCheckInterval = 1024

// Lowest frame buffer value written for a visible triangle so that surfaces
// seen edge-on remain distinguishable from the background.
const minShade float32 = 0.1

// A software rasterizer that renders into a hierarchical z-buffer.
type softwareRenderer struct {
	logger log.Logger

	sc     *scene.Scene
	opts   Options
	mode   Mode
	octree *scene.Octree

	tree           *hzb.QuadTree
	frameW, frameH int
	zBuffer        []float32
	frameBuffer    []float32

	// Write fragments straight to the buffers and refresh the hierarchy
	// afterwards.
	directWrites bool

	// Per-frame scratch buffers.
	clipVerts []types.Vec4
	order     []int32
	polyClip  []types.Vec4
	polyProj  []screenVertex

	processed int
	stats     FrameStats
}

// Create a new software renderer for the given scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tree, err := hzb.New(int(opts.FrameW), int(opts.FrameH))
	if err != nil {
		return nil, fmt.Errorf("renderer: could not allocate z-buffer: %w", err)
	}

	cam := sc.Camera
	if opts.FOV != 0 {
		cam.FOV = opts.FOV
	}
	if opts.Near != 0 {
		cam.Near = opts.Near
	}
	if opts.Far != 0 {
		cam.Far = opts.Far
	}
	cam.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	r := &softwareRenderer{
		logger:      log.New("renderer"),
		sc:          sc,
		opts:        opts,
		tree:        tree,
		frameW:      tree.Width(),
		frameH:      tree.Height(),
		zBuffer:     tree.DepthBuffer(),
		frameBuffer: tree.FrameBuffer(),
		polyClip:    make([]types.Vec4, 0, 4),
		polyProj:    make([]screenVertex, 0, 4),
	}
	r.SetMode(opts.Mode)

	r.logger.Infof("created %dx%d renderer; scene %s", opts.FrameW, opts.FrameH, sc.Stats())
	return r, nil
}

// Switch the visibility determination strategy for subsequent frames.
func (r *softwareRenderer) SetMode(mode Mode) {
	r.mode = mode
	r.directWrites = mode == ScanLineZBuffer || r.opts.DeferHZBRefresh

	if mode == OctreeHierarchicalZBuffer && r.octree == nil {
		start := time.Now()
		r.octree = scene.BuildOctree(r.sc.Mesh, r.opts.OctreeMaxDepth, r.opts.OctreeLeafSize)
		r.logger.Debugf("built octree with %d nodes in %d ms", len(r.octree.Nodes), time.Since(start).Nanoseconds()/1e6)
	}
}

func (r *softwareRenderer) Close() {
	r.octree = nil
	r.clipVerts = nil
	r.order = nil
}

func (r *softwareRenderer) Stats() FrameStats {
	return r.stats
}

func (r *softwareRenderer) Buffers() *hzb.QuadTree {
	return r.tree
}

// Render a frame as seen from the scene camera.
func (r *softwareRenderer) Render(ctx context.Context) error {
	start := time.Now()
	r.stats = FrameStats{Mode: r.mode}
	r.processed = 0

	r.tree.Clear(hzb.ClearDepth)
	r.tree.ClearFrame(0)

	if err := r.transformVertices(ctx); err != nil {
		return r.renderError(err)
	}
	r.stats.TransformTime = time.Since(start)

	var err error
	switch r.mode {
	case ScanLineZBuffer:
		err = r.renderTriangles(ctx, false)
		if err == nil {
			// Keep the hierarchy in sync for callers inspecting the tree.
			err = r.tree.RefreshRegion(r.tree.Bounds())
		}
	case HierarchicalZBuffer:
		err = r.renderTriangles(ctx, true)
	case OctreeHierarchicalZBuffer:
		err = r.renderOctree(ctx)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownMode, r.mode)
	}
	if err != nil {
		return r.renderError(err)
	}

	r.stats.RenderTime = time.Since(start)
	observeFrame(r.stats)
	r.logger.Debugf(
		"[%s] frame rendered in %d ms; rasterized %d/%d triangles, %d pixels written",
		r.mode, r.stats.RenderTime.Nanoseconds()/1e6, r.stats.Rasterized, r.stats.Triangles, r.stats.PixelsWritten,
	)
	return nil
}

func (r *softwareRenderer) renderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrInterrupted
	}
	return err
}

// renderTriangles processes every mesh triangle, optionally culling each one
// through the hierarchical z-buffer before it is rasterized.
func (r *softwareRenderer) renderTriangles(ctx context.Context, testHZB bool) error {
	numTris := len(r.sc.Mesh.Triangles)
	if cap(r.order) < numTris {
		r.order = make([]int32, numTris)
	}
	r.order = r.order[:numTris]
	for i := range r.order {
		r.order[i] = int32(i)
	}
	if r.opts.SortFrontToBack {
		r.sortFrontToBack()
	}

	for _, triIndex := range r.order {
		if err := r.processTriangle(ctx, triIndex, testHZB); err != nil {
			return err
		}
	}
	return nil
}

// sortFrontToBack orders triangles by the distance of their centroid to the
// camera.
func (r *softwareRenderer) sortFrontToBack() {
	mesh := r.sc.Mesh
	eye := r.sc.Camera.Position
	dist := make([]float32, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		center := mesh.Vertices[tri[0]].Add(mesh.Vertices[tri[1]]).Add(mesh.Vertices[tri[2]]).Mul(1.0 / 3.0)
		delta := center.Sub(eye)
		dist[i] = delta.Dot(delta)
	}
	sort.Slice(r.order, func(i, j int) bool {
		return dist[r.order[i]] < dist[r.order[j]]
	})
}

// renderOctree traverses the scene octree front to back. Nodes whose bounds
// are hidden behind already rendered geometry are skipped together with
// their subtree.
func (r *softwareRenderer) renderOctree(ctx context.Context) error {
	var err error
	r.octree.Traverse(r.sc.Camera.Position, func(node *scene.OctreeNode) bool {
		r.stats.OctreeNodesVisited++

		var visible bool
		if visible, err = r.octreeNodeVisible(node); err != nil {
			return false
		}
		if !visible {
			r.stats.OctreeNodesCulled++
			r.stats.Triangles += node.SubtreeTriangles
			return false
		}

		for _, triIndex := range node.Triangles {
			if err = r.processTriangle(ctx, triIndex, true); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

// octreeNodeVisible tests the bounds of an octree node against the view
// frustum and the hierarchical z-buffer. Triangles in the subtree of a
// hidden node are accounted for in the frame stats.
func (r *softwareRenderer) octreeNodeVisible(node *scene.OctreeNode) (bool, error) {
	var corners [8]types.Vec4
	straddlesNear := false
	for i, corner := range node.Bounds.Corners() {
		corners[i] = r.sc.Camera.ViewProjMat.TransformPoint(corner)
		if nearDistance(corners[i]) < 0 {
			straddlesNear = true
		}
	}

	if outsideFrustum(corners[:]) {
		r.stats.OutsideFrustum += node.SubtreeTriangles
		return false, nil
	}

	// The camera may be inside the box; its projection is unbounded.
	if straddlesNear {
		return true, nil
	}

	proj := make([]screenVertex, len(corners))
	for i, corner := range corners {
		proj[i] = project(corner, float32(r.frameW), float32(r.frameH))
	}
	rect, nearZ := screenBounds(proj, r.frameW, r.frameH)
	rect, ok := r.tree.ClipRect(rect)
	if !ok {
		r.stats.OutsideFrustum += node.SubtreeTriangles
		return false, nil
	}

	visible, err := r.queryHZB(rect, nearZ)
	if err != nil {
		return false, err
	}
	if !visible {
		r.stats.Occluded += node.SubtreeTriangles
	}
	return visible, nil
}

// processTriangle runs a single mesh triangle through clipping, backface
// culling, the optional occlusion test and rasterization. Every triangle is
// counted in exactly one outcome bucket of the frame stats.
func (r *softwareRenderer) processTriangle(ctx context.Context, triIndex int32, testHZB bool) error {
	r.processed++
	if r.processed%cancelCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	r.stats.Triangles++
	tri := r.sc.Mesh.Triangles[triIndex]
	clipTri := [3]types.Vec4{r.clipVerts[tri[0]], r.clipVerts[tri[1]], r.clipVerts[tri[2]]}
	if outsideFrustum(clipTri[:]) {
		r.stats.OutsideFrustum++
		return nil
	}

	r.polyClip = clipNear(clipTri, r.polyClip)
	if len(r.polyClip) < 3 {
		r.stats.OutsideFrustum++
		return nil
	}

	r.polyProj = r.polyProj[:0]
	for _, v := range r.polyClip {
		r.polyProj = append(r.polyProj, project(v, float32(r.frameW), float32(r.frameH)))
	}

	// Edge-on triangles cover no pixels and are treated as back facing.
	area := signedArea(r.polyProj)
	if area == 0 || (r.opts.BackfaceCulling && area < 0) {
		r.stats.Backfacing++
		return nil
	}

	rect, nearZ := screenBounds(r.polyProj, r.frameW, r.frameH)
	rect, ok := r.tree.ClipRect(rect)
	if !ok {
		r.stats.OutsideFrustum++
		return nil
	}

	if testHZB {
		visible, err := r.queryHZB(rect, nearZ)
		if err != nil {
			return err
		}
		if !visible {
			r.stats.Occluded++
			return nil
		}
	}

	r.stats.Rasterized++
	value := r.shade(tri)
	for i := 1; i+1 < len(r.polyProj); i++ {
		fan := [3]screenVertex{r.polyProj[0], r.polyProj[i], r.polyProj[i+1]}
		if err := r.rasterizeTriangle(fan, rect, value); err != nil {
			return err
		}
	}

	if r.directWrites && r.mode != ScanLineZBuffer {
		return r.tree.RefreshRegion(rect)
	}
	return nil
}

func (r *softwareRenderer) queryHZB(rect hzb.Rect, nearZ float32) (bool, error) {
	res, err := r.tree.Query(rect, nearZ)
	if err != nil {
		return false, err
	}
	r.stats.HZBQueries++
	r.stats.HZBNodesVisited += res.NodesVisited
	return res.Visible, nil
}

// shade returns the flat frame buffer value of a triangle: the cosine of the
// angle between its normal and the direction towards the camera.
func (r *softwareRenderer) shade(tri scene.Triangle) float32 {
	mesh := r.sc.Mesh
	v0, v1, v2 := mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]]
	normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	center := v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	toEye := r.sc.Camera.Position.Sub(center).Normalize()

	return max(minShade, float32(math.Abs(float64(normal.Dot(toEye)))))
}
