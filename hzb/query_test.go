package hzb

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestQueryOnClearedTree(t *testing.T) {
	tree, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	occluded, err := tree.IsOccluded(Rect{0, 8, 0, 8}, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	if occluded {
		t.Fatal("expected nothing to be occluded by a cleared depth buffer")
	}
}

func TestQueryWithOccluder(t *testing.T) {
	tree, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	fillRect(t, tree, Rect{0, 4, 0, 4}, 0.2)

	type spec struct {
		rect       Rect
		depth      float32
		expVisible bool
	}
	specs := []spec{
		{Rect{0, 4, 0, 4}, 0.5, false},
		{Rect{0, 4, 0, 4}, 0.1, true},
		{Rect{0, 4, 0, 4}, 0.2, true},
		{Rect{0, 5, 0, 4}, 0.5, true},
		{Rect{1, 3, 1, 3}, 0.5, false},
		{Rect{3, 4, 3, 4}, 0.5, false},
		{Rect{4, 8, 4, 8}, 0.5, true},
	}

	for idx, s := range specs {
		res, err := tree.Query(s.rect, s.depth)
		if err != nil {
			t.Fatal(err)
		}
		if res.Visible != s.expVisible {
			t.Fatalf("[spec %d] expected rect %s at depth %f visible=%t; got %t", idx, s.rect, s.depth, s.expVisible, res.Visible)
		}
	}
}

func TestQueryStartsAtCoveringNode(t *testing.T) {
	tree, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	fillRect(t, tree, Rect{0, 4, 0, 4}, 0.2)

	// The rect straddles the split point of the bottom-left child, so that
	// child is the deepest node containing it. Its bound prunes the query
	// immediately.
	res, err := tree.Query(Rect{1, 3, 1, 3}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if exp := RootCode.Child(BottomLeft); res.Start != exp {
		t.Fatalf("expected traversal to start at %s; got %s", exp, res.Start)
	}
	if res.NodesVisited != 1 {
		t.Fatalf("expected a single node visit; got %d", res.NodesVisited)
	}

	res, err = tree.Query(Rect{0, 8, 0, 8}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Start.IsRoot() {
		t.Fatalf("expected full frame query to start at the root; got %s", res.Start)
	}
}

func TestQueryRejectsInvalidInput(t *testing.T) {
	tree, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		rect  Rect
		depth float32
		exp   error
	}
	specs := []spec{
		{Rect{0, 0, 0, 4}, 0.5, ErrEmptyRect},
		{Rect{3, 2, 0, 4}, 0.5, ErrEmptyRect},
		{Rect{-1, 2, 0, 4}, 0.5, ErrOutOfBounds},
		{Rect{0, 2, 0, 9}, 0.5, ErrOutOfBounds},
		{Rect{0, 2, 0, 2}, float32(math.NaN()), ErrInvalidDepth},
	}

	for idx, s := range specs {
		if _, err = tree.Query(s.rect, s.depth); !errors.Is(err, s.exp) {
			t.Fatalf("[spec %d] expected error %v; got %v", idx, s.exp, err)
		}
	}
}

// A box must only be reported occluded if every pixel it covers already holds
// a nearer depth.
func TestQuerySoundness(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	tree, err := New(23, 19)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 40; i++ {
		r := RectXYWH(rnd.Intn(18), rnd.Intn(14), 1+rnd.Intn(5), 1+rnd.Intn(5))
		fillRect(t, tree, r, 0.1+0.5*rnd.Float32())
	}

	for i := 0; i < 500; i++ {
		xl, yl := rnd.Intn(tree.Width()), rnd.Intn(tree.Height())
		r := Rect{XL: xl, XR: xl + 1 + rnd.Intn(tree.Width()-xl), YL: yl, YR: yl + 1 + rnd.Intn(tree.Height()-yl)}
		depth := rnd.Float32()

		res, err := tree.Query(r, depth)
		if err != nil {
			t.Fatal(err)
		}

		hidden := true
		for y := r.YL; y < r.YR && hidden; y++ {
			for x := r.XL; x < r.XR; x++ {
				if d, _ := tree.Depth(x, y); d >= depth {
					hidden = false
					break
				}
			}
		}

		if res.Visible == hidden {
			t.Fatalf("[query %d] rect %s at depth %f: expected visible=%t; got %t", i, r, depth, !hidden, res.Visible)
		}
	}
}

func fillRect(t *testing.T, tree *QuadTree, r Rect, depth float32) {
	t.Helper()
	for y := r.YL; y < r.YR; y++ {
		for x := r.XL; x < r.XR; x++ {
			if err := tree.UpdateDepth(x, y, depth); err != nil {
				t.Fatal(err)
			}
		}
	}
}
