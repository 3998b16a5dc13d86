package vertex

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAddAndFind(t *testing.T) {
	a := New()
	i0 := a.Add(mgl64.Vec3{1, 2, 3})
	i1 := a.Add(mgl64.Vec3{4, 5, 6})

	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0,1, got %d,%d", i0, i1)
	}

	found, ok := a.Find(mgl64.Vec3{1, 2, 3})
	if !ok || found != i0 {
		t.Errorf("Find did not locate the exact vertex: got (%d, %v)", found, ok)
	}

	_, ok = a.Find(mgl64.Vec3{100, 100, 100})
	if ok {
		t.Errorf("Find should not locate an absent vertex")
	}
}

func TestFindDuplicatesCollapsesNeighbors(t *testing.T) {
	a := New()
	v0 := a.Add(mgl64.Vec3{1, 1, 1})
	v1 := a.Add(mgl64.Vec3{1.0001, 0.9999, 1.0})

	merged := a.FindDuplicates(false)
	if merged != 1 {
		t.Fatalf("expected 1 duplicate merged, got %d", merged)
	}

	if a.ID(v0) != a.ID(v1) {
		t.Errorf("get_id should agree for tolerant-equal vertices: %d != %d", a.ID(v0), a.ID(v1))
	}
}

func TestFindDuplicatesPropagatesMarked(t *testing.T) {
	a := New()
	rep := a.Add(mgl64.Vec3{0, 0, 0})
	dup := a.Add(mgl64.Vec3{0.0001, 0, 0})

	a.Mark(dup)
	a.FindDuplicates(false)

	if !a.IsUsed(rep) {
		t.Errorf("marking a duplicate should mark the representative")
	}
	if a.IsUsed(dup) {
		t.Errorf("marking a duplicate should clear the duplicate's own mark")
	}
}

func TestRenumberProducesGaplessIDs(t *testing.T) {
	a := New()
	used := a.Add(mgl64.Vec3{0, 0, 0})
	unused := a.Add(mgl64.Vec3{1, 1, 1})
	used2 := a.Add(mgl64.Vec3{2, 2, 2})

	a.Mark(used)
	a.Mark(used2)
	a.FindDuplicates(false)
	kept := a.Renumber(false)

	if kept != 2 {
		t.Fatalf("expected 2 kept vertices, got %d", kept)
	}

	seen := map[int]bool{}
	seen[a.ID(used)] = true
	seen[a.ID(used2)] = true
	if len(seen) != 2 || !seen[0] || !seen[1] {
		t.Errorf("expected ids {0,1} without gaps, got %v", seen)
	}
	_ = unused
}

func TestRenumberPanicsWithoutPriorDedup(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Renumber to panic without a prior FindDuplicates")
		}
	}()

	a := New()
	a.Add(mgl64.Vec3{0, 0, 0})
	a.Renumber(false)
}

func TestRenumberPanicsAfterAddFollowingDedup(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Renumber to panic when a vertex was added after the last FindDuplicates")
		}
	}()

	a := New()
	a.Add(mgl64.Vec3{0, 0, 0})
	a.FindDuplicates(false)
	a.Add(mgl64.Vec3{1, 1, 1})
	a.Renumber(false)
}

func TestFindDuplicatesIdempotentGetID(t *testing.T) {
	a := New()
	v0 := a.Add(mgl64.Vec3{5, 5, 5})
	v1 := a.Add(mgl64.Vec3{5.0002, 5.0, 5.0})
	v2 := a.Add(mgl64.Vec3{9, 9, 9})

	a.FindDuplicates(false)
	firstIDs := []int{a.ID(v0), a.ID(v1), a.ID(v2)}

	a.FindDuplicates(false)
	secondIDs := []int{a.ID(v0), a.ID(v1), a.ID(v2)}

	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Errorf("FindDuplicates should be idempotent: index %d changed from %d to %d", i, firstIDs[i], secondIDs[i])
		}
	}
	if a.ID(v0) != a.ID(v1) {
		t.Errorf("tolerant-equal vertices must share an id after dedup")
	}
}
