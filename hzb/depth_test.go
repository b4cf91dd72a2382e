package hzb

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestUpdateDepthPropagation(t *testing.T) {
	tree, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			depth := float32(0.5)
			if x == 3 && y == 0 {
				depth = 0.9
			}
			if err = tree.UpdateDepth(x, y, depth); err != nil {
				t.Fatal(err)
			}
		}
	}

	if z := tree.Root().Z; z != 0.9 {
		t.Fatalf("expected root bound 0.9; got %f", z)
	}
	expZ := map[Quadrant]float32{BottomLeft: 0.5, BottomRight: 0.9, TopLeft: 0.5, TopRight: 0.5}
	for q, exp := range expZ {
		n, _ := tree.LookupNode(RootCode.Child(q))
		if n.Z != exp {
			t.Fatalf("expected %s bound %f; got %f", q, exp, n.Z)
		}
	}

	// Bringing the farthest pixel closer must lower every bound above it.
	if err = tree.UpdateDepth(3, 0, 0.2); err != nil {
		t.Fatal(err)
	}
	if z := tree.Root().Z; z != 0.5 {
		t.Fatalf("expected root bound 0.5; got %f", z)
	}
	leaf, _ := tree.LeafAt(3, 0)
	if leaf.Z != 0.2 {
		t.Fatalf("expected leaf bound 0.2; got %f", leaf.Z)
	}
	checkDepthBounds(t, tree)
}

func TestUpdateDepthRejectsInvalidInput(t *testing.T) {
	tree, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}

	for _, pix := range [][2]int{{-1, 0}, {4, 0}, {0, 4}, {0, -1}} {
		if err = tree.UpdateDepth(pix[0], pix[1], 0.1); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for pixel %v; got %v", pix, err)
		}
		if _, err = tree.TestAndSetDepth(pix[0], pix[1], 0.1); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for pixel %v; got %v", pix, err)
		}
	}

	nan := float32(math.NaN())
	if err = tree.UpdateDepth(0, 0, nan); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth; got %v", err)
	}

	if tree.Root().Z != ClearDepth {
		t.Fatalf("expected rejected updates to leave the tree untouched; root bound is %f", tree.Root().Z)
	}
	for pix, z := range tree.DepthBuffer() {
		if z != ClearDepth {
			t.Fatalf("expected pixel %d to remain cleared; got %f", pix, z)
		}
	}
}

func TestTestAndSetDepth(t *testing.T) {
	tree, err := New(2, 2)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		depth    float32
		expWrite bool
		expDepth float32
	}
	specs := []spec{
		{0.5, true, 0.5},
		{0.7, false, 0.5},
		{0.5, false, 0.5},
		{0.3, true, 0.3},
	}

	for idx, s := range specs {
		written, err := tree.SetFragment(1, 1, s.depth, float32(idx))
		if err != nil {
			t.Fatal(err)
		}
		if written != s.expWrite {
			t.Fatalf("[spec %d] expected write to be %t", idx, s.expWrite)
		}
		if d, _ := tree.Depth(1, 1); d != s.expDepth {
			t.Fatalf("[spec %d] expected stored depth %f; got %f", idx, s.expDepth, d)
		}
	}

	if v := tree.FrameBuffer()[3]; v != 3 {
		t.Fatalf("expected frame buffer to hold the last passing fragment; got %f", v)
	}
}

func TestDepthBoundsAfterRandomUpdates(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	tree, err := New(13, 7)
	if err != nil {
		t.Fatal(err)
	}

	for round := 0; round < 20; round++ {
		for i := 0; i < 50; i++ {
			x, y := rnd.Intn(tree.Width()), rnd.Intn(tree.Height())
			if err = tree.UpdateDepth(x, y, rnd.Float32()); err != nil {
				t.Fatal(err)
			}
		}
		checkDepthBounds(t, tree)
	}
}

func TestRefreshRegionMatchesPerPixelUpdates(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	batched, err := New(17, 11)
	if err != nil {
		t.Fatal(err)
	}
	incremental, err := New(17, 11)
	if err != nil {
		t.Fatal(err)
	}

	for round := 0; round < 10; round++ {
		r := RectXYWH(rnd.Intn(10), rnd.Intn(6), 1+rnd.Intn(7), 1+rnd.Intn(5))
		zBuffer := batched.DepthBuffer()
		for y := r.YL; y < r.YR; y++ {
			for x := r.XL; x < r.XR; x++ {
				depth := rnd.Float32()
				zBuffer[y*batched.Width()+x] = depth
				if err = incremental.UpdateDepth(x, y, depth); err != nil {
					t.Fatal(err)
				}
			}
		}
		if err = batched.RefreshRegion(r); err != nil {
			t.Fatal(err)
		}

		incremental.Walk(func(exp Node) bool {
			got, _ := batched.LookupNode(exp.Code)
			if got.Z != exp.Z {
				t.Fatalf("[round %d] expected node %s bound %f; got %f", round, exp.Code, exp.Z, got.Z)
			}
			return true
		})
	}
	checkDepthBounds(t, batched)
}

func TestRefreshRegionRejectsInvalidRects(t *testing.T) {
	tree, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	if err = tree.RefreshRegion(Rect{2, 2, 0, 4}); !errors.Is(err, ErrEmptyRect) {
		t.Fatalf("expected ErrEmptyRect; got %v", err)
	}
	if err = tree.RefreshRegion(Rect{4, 9, 0, 4}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds; got %v", err)
	}

	clipped, ok := tree.ClipRect(Rect{4, 9, -2, 4})
	if !ok || clipped != (Rect{4, 8, 0, 4}) {
		t.Fatalf("expected rect to be clipped to [4,8)x[0,4); got %s", clipped)
	}
	if _, ok = tree.ClipRect(Rect{9, 12, 0, 4}); ok {
		t.Fatal("expected rect outside of the framebuffer to be clipped away")
	}
}

func TestClear(t *testing.T) {
	tree, err := New(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err = tree.UpdateDepth(2, 1, 0.25); err != nil {
		t.Fatal(err)
	}

	tree.Clear(1.0)
	tree.Walk(func(n Node) bool {
		if n.Z != 1.0 {
			t.Fatalf("expected node %s bound to be reset; got %f", n.Code, n.Z)
		}
		return true
	})
	if d, _ := tree.Depth(2, 1); d != 1.0 {
		t.Fatalf("expected cleared depth 1.0; got %f", d)
	}
}

// checkDepthBounds verifies that every internal node bound equals the max of
// its children and every leaf mirrors the depth buffer.
func checkDepthBounds(t *testing.T, tree *QuadTree) {
	t.Helper()

	tree.Walk(func(n Node) bool {
		if n.IsLeaf() {
			if d, _ := tree.Depth(n.XL, n.YL); d != n.Z {
				t.Fatalf("leaf %s bound %f does not match stored depth %f", n.Code, n.Z, d)
			}
			return true
		}

		maxZ := float32(-math.MaxFloat32)
		for _, child := range tree.Children(n) {
			if child.Z > n.Z {
				t.Fatalf("child %s bound %f exceeds parent %s bound %f", child.Code, child.Z, n.Code, n.Z)
			}
			maxZ = float32(math.Max(float64(maxZ), float64(child.Z)))
		}
		if maxZ != n.Z {
			t.Fatalf("expected node %s bound %f; got %f", n.Code, maxZ, n.Z)
		}
		return true
	})
}
