// Package vertex implements the append-only vertex arena: deduplication,
// usage marking, and renumbering for output, shared by every primitive in
// every group of a mesh.
package vertex

import (
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chrisbazley/3dObjLib/geom"
)

// noDup marks a vertex record that does not duplicate any earlier vertex.
const noDup = -1

type record struct {
	coords mgl64.Vec3
	id     int
	dup    int
	marked bool
}

// Arena is a growable, append-only store of vertices. Vertices are never
// individually removed; a vertex that is no longer used is simply left
// unmarked and omitted by a downstream serializer.
type Arena struct {
	vertices []record

	// dedupGeneration counts completed FindDuplicates calls. dedupedUpTo is
	// the arena size the last FindDuplicates call covered; Renumber refuses
	// to run unless it equals the current size, enforcing the "dedup before
	// renumber" ordering invariant documented in SPEC_FULL.md's Vertex
	// Arena section.
	dedupGeneration int
	dedupedUpTo     int
}

// New returns an empty vertex arena.
func New() *Arena {
	return &Arena{}
}

// Len returns the number of vertices held by the arena, deduplicated or
// not.
func (a *Arena) Len() int {
	return len(a.vertices)
}

// Add appends coords unconditionally and returns its arena index. The new
// vertex starts with id equal to its index, no duplicate link, and unmarked.
// The backing array grows by doubling, to a minimum of 8.
func (a *Arena) Add(coords mgl64.Vec3) int {
	idx := len(a.vertices)
	if idx == cap(a.vertices) {
		newCap := 2 * idx
		if newCap < 8 {
			newCap = 8
		}
		grown := make([]record, idx, newCap)
		copy(grown, a.vertices)
		a.vertices = grown
	}
	a.vertices = append(a.vertices, record{
		coords: coords,
		id:     idx,
		dup:    noDup,
	})
	return idx
}

// Find performs a linear scan for a vertex whose coordinates are tolerant-
// equal to coords, returning its index.
func (a *Arena) Find(coords mgl64.Vec3) (int, bool) {
	for i, v := range a.vertices {
		if geom.VectorEqual(v.coords, coords) {
			return i, true
		}
	}
	return 0, false
}

// Coords returns the stored coordinates of vertex i.
func (a *Arena) Coords(i int) mgl64.Vec3 {
	return a.vertices[i].coords
}

// ID follows the duplicate chain from i to its representative and returns
// the representative's id (the original index until Renumber runs, the
// compacted output index afterward).
func (a *Arena) ID(i int) int {
	return a.vertices[a.representative(i)].id
}

func (a *Arena) representative(i int) int {
	for a.vertices[i].dup != noDup {
		i = a.vertices[i].dup
	}
	return i
}

// Mark flags vertex i as used.
func (a *Arena) Mark(i int) {
	a.vertices[i].marked = true
}

// MarkAll flags every vertex in the arena as used.
func (a *Arena) MarkAll() {
	for i := range a.vertices {
		a.vertices[i].marked = true
	}
}

// IsUsed reports whether vertex i is marked used.
func (a *Arena) IsUsed(i int) bool {
	return a.vertices[i].marked
}

// FindDuplicates sorts a view of the current vertices lexicographically by
// (x, y, z) using strict ordering, then walks the sorted view collapsing
// tolerant-equal neighbors into duplicate classes anchored at the earliest
// sort-position representative. For each collapsed vertex, dup is set to
// the representative's index and marked is propagated: if any member of
// the class is marked, the representative becomes marked and every other
// member is cleared, so a downstream serializer never emits a duplicate
// coordinate. It returns the number of vertices merged into an earlier
// representative.
//
// FindDuplicates must run before any marking that should be reflected in
// final output is relied upon — see Arena.Renumber.
func (a *Arena) FindDuplicates(verbose bool) int {
	n := len(a.vertices)
	sorted := make([]int, n)
	for i := range sorted {
		sorted[i] = i
	}

	sort.Slice(sorted, func(i, j int) bool {
		return lexLess(a.vertices[sorted[i]].coords, a.vertices[sorted[j]].coords)
	})

	for i := range a.vertices {
		a.vertices[i].dup = noDup
	}

	merged := 0
	repPos := 0
	for pos := 1; pos < n; pos++ {
		repIdx := sorted[repPos]
		curIdx := sorted[pos]
		if !geom.VectorEqual(a.vertices[repIdx].coords, a.vertices[curIdx].coords) {
			repPos = pos
			continue
		}

		a.vertices[curIdx].dup = repIdx
		if a.vertices[curIdx].marked {
			a.vertices[repIdx].marked = true
			a.vertices[curIdx].marked = false
		}
		merged++

		if verbose {
			log.Printf("vertex %d duplicates vertex %d", curIdx, repIdx)
		}
	}

	a.dedupedUpTo = n
	a.dedupGeneration++
	return merged
}

func lexLess(a, b mgl64.Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// Renumber walks the arena in original order, assigning successive ids
// 0, 1, 2, ... only to marked vertices; unmarked vertices keep their stale
// id and will not be emitted by a serializer. It returns the count of
// surviving (marked) vertices.
//
// Renumber panics if it is called without FindDuplicates having first run
// over every vertex currently in the arena — calling it out of order would
// silently keep a duplicate and drop its representative (see
// SPEC_FULL.md's Vertex Arena ordering invariant).
func (a *Arena) Renumber(verbose bool) int {
	if a.dedupedUpTo != len(a.vertices) {
		panic(fmt.Sprintf("vertex: Renumber called without a prior FindDuplicates covering all %d vertices (deduped up to %d)", len(a.vertices), a.dedupedUpTo))
	}

	next := 0
	for i := range a.vertices {
		if !a.vertices[i].marked {
			continue
		}
		a.vertices[i].id = next
		next++
	}

	if verbose {
		log.Printf("renumbered %d of %d vertices", next, len(a.vertices))
	}
	return next
}
