package renderer

import (
	"context"

	"github.com/achilleasa/hzb-viewer/types"
	"golang.org/x/sync/errgroup"
)

// Blocks smaller than this are not worth a goroutine.
const minTransformBlock = 1024

// transformVertices projects all mesh vertices into clip space. The vertex
// list is split into contiguous blocks, one per worker.
func (r *softwareRenderer) transformVertices(ctx context.Context) error {
	verts := r.sc.Mesh.Vertices
	if cap(r.clipVerts) < len(verts) {
		r.clipVerts = make([]types.Vec4, len(verts))
	}
	r.clipVerts = r.clipVerts[:len(verts)]

	viewProj := r.sc.Camera.ViewProjMat
	blockSize := max(minTransformBlock, (len(verts)+r.opts.Workers-1)/r.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(verts); start += blockSize {
		end := min(start+blockSize, len(verts))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				r.clipVerts[i] = viewProj.TransformPoint(verts[i])
			}
			return nil
		})
	}
	return g.Wait()
}
