package clip

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chrisbazley/3dObjLib/group"
	"github.com/chrisbazley/3dObjLib/vertex"
)

func addSquare(t *testing.T, a *vertex.Arena, g *group.Group, x0, y0, x1, y1, z float64, colour int) {
	t.Helper()
	p := g.Add()
	p.Colour = colour
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for _, c := range corners {
		if !p.AddSide(a.Add(mgl64.Vec3{c[0], c[1], z})) {
			t.Fatalf("AddSide failed unexpectedly")
		}
	}
}

func TestPolygonsDecalFullySplitsBackQuad(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 4, 4, 0, 1)
	addSquare(t, a, front, 1, 1, 3, 3, 0, 2)

	groups := []*group.Group{back, front}
	err := Polygons(a, groups, []int{0, 1}, false)
	if err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() <= 1 {
		t.Fatalf("expected the back quad to be subdivided around the interior decal, got %d pieces", back.Len())
	}
	if front.Len() != 1 {
		t.Errorf("front group should be untouched, got %d primitives", front.Len())
	}
}

// TestPolygonsDecalScenarioFromSpec reproduces the literal vertex
// coordinates of the "decal atop a quad" scenario: a floor square
// V0=(0,0,0) V1=(10,0,0) V2=(10,10,0) V3=(0,10,0) with a decal square
// V4=(2,2,0) V5=(8,2,0) V6=(8,8,0) V7=(2,8,0) painted on top of it. The
// decal is strictly interior to the floor, so clipping must carve the
// floor into a four-quad frame around a hole rather than delete it
// outright.
func TestPolygonsDecalScenarioFromSpec(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 10, 10, 0, 1)
	addSquare(t, a, front, 2, 2, 8, 8, 0, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() != 4 {
		t.Errorf("expected the floor to be split into a four-quad frame, got %d pieces", back.Len())
	}
	if front.Len() != 1 {
		t.Errorf("the decal should be untouched, got %d primitives", front.Len())
	}
}

func TestPolygonsExactDuplicateDeletesBack(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 4, 4, 0, 1)
	addSquare(t, a, front, 0, 0, 4, 4, 0, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() != 0 {
		t.Errorf("expected the fully-covered back polygon to be deleted, got %d remaining", back.Len())
	}
	if front.Len() != 1 {
		t.Errorf("front group should be untouched, got %d primitives", front.Len())
	}
}

func TestPolygonsNonOverlappingUntouched(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 2, 2, 0, 1)
	addSquare(t, a, front, 10, 10, 12, 12, 0, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() != 1 || front.Len() != 1 {
		t.Errorf("non-overlapping polygons must be left alone, got back=%d front=%d", back.Len(), front.Len())
	}
}

func TestPolygonsEdgeTouchingUntouched(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 2, 2, 0, 1)
	addSquare(t, a, front, 2, 0, 4, 2, 0, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() != 1 || front.Len() != 1 {
		t.Errorf("contiguous, non-overlapping polygons must not be split, got back=%d front=%d", back.Len(), front.Len())
	}
}

func TestPolygonsNonCoplanarUntouched(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 4, 4, 0, 1)
	addSquare(t, a, front, 1, 1, 3, 3, 0.01, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if back.Len() != 1 {
		t.Errorf("a polygon offset along z is not coplanar and must not be clipped, got %d pieces", back.Len())
	}
}

func TestPolygonsSameGroupPass(t *testing.T) {
	a := vertex.New()
	g := group.New()

	addSquare(t, a, g, 0, 0, 4, 4, 0, 1)
	addSquare(t, a, g, 1, 1, 3, 3, 0, 2)

	groups := []*group.Group{g}
	if err := Polygons(a, groups, []int{0}, false); err != nil {
		t.Fatalf("Polygons returned error: %v", err)
	}

	if g.Len() <= 2 {
		t.Fatalf("expected the first (back) polygon in the group to be subdivided around the second, got %d primitives", g.Len())
	}
}

func TestPolygonsIdempotent(t *testing.T) {
	a := vertex.New()
	back := group.New()
	front := group.New()

	addSquare(t, a, back, 0, 0, 4, 4, 0, 1)
	addSquare(t, a, front, 1, 1, 3, 3, 0, 2)

	groups := []*group.Group{back, front}
	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("first Polygons pass returned error: %v", err)
	}
	firstLen := back.Len()

	if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
		t.Fatalf("second Polygons pass returned error: %v", err)
	}
	if back.Len() != firstLen {
		t.Errorf("re-running Polygons on an already-clipped scene changed the back group from %d to %d primitives", firstLen, back.Len())
	}
}

func TestPolygonsGroupOrderControlsOutcome(t *testing.T) {
	// Two coplanar squares, one strictly containing the other. Which one is
	// "in front" (drawn later in group order) determines whether the back
	// one is subdivided around a hole or deleted outright as fully covered.
	newScene := func() (big, small *group.Group, a *vertex.Arena) {
		a = vertex.New()
		big, small = group.New(), group.New()
		addSquare(t, a, big, 0, 0, 4, 4, 0, 1)
		addSquare(t, a, small, 1, 1, 3, 3, 0, 2)
		return
	}

	t.Run("big drawn first is subdivided around the hole", func(t *testing.T) {
		big, small, a := newScene()
		groups := []*group.Group{big, small}
		if err := Polygons(a, groups, []int{0, 1}, false); err != nil {
			t.Fatalf("Polygons returned error: %v", err)
		}
		if big.Len() <= 1 {
			t.Errorf("expected the big square to be subdivided, got %d pieces", big.Len())
		}
		if small.Len() != 1 {
			t.Errorf("the smaller, frontmost square should be untouched, got %d", small.Len())
		}
	})

	t.Run("small drawn first is deleted outright", func(t *testing.T) {
		big, small, a := newScene()
		groups := []*group.Group{big, small}
		if err := Polygons(a, groups, []int{1, 0}, false); err != nil {
			t.Fatalf("Polygons returned error: %v", err)
		}
		if small.Len() != 0 {
			t.Errorf("expected the fully-covered small square to be deleted, got %d remaining", small.Len())
		}
		if big.Len() != 1 {
			t.Errorf("the bigger, frontmost square should be untouched, got %d", big.Len())
		}
	})
}
