// Package group implements an ordered, mutable sequence of primitives: a
// single mesh "group" as the clip driver walks and subdivides it.
package group

import (
	"github.com/chrisbazley/3dObjLib/primitive"
	"github.com/chrisbazley/3dObjLib/vertex"
)

// Group is a growable, ordered sequence of primitives. Unlike vertex.Arena,
// entries can be inserted and deleted at arbitrary positions — the clip
// driver both inserts split-off halves right after the polygon they were
// cut from and removes fully occluded primitives in place.
type Group struct {
	primitives []primitive.Primitive
}

// New returns an empty group.
func New() *Group {
	return &Group{}
}

// Len returns the number of primitives currently held.
func (g *Group) Len() int {
	return len(g.primitives)
}

// Get returns a pointer to primitive n, or ok=false if n is out of range.
// The returned pointer is invalidated by any subsequent Insert, Add, or
// Delete call, which may reallocate or shift the backing array.
func (g *Group) Get(n int) (*primitive.Primitive, bool) {
	if n < 0 || n >= len(g.primitives) {
		return nil, false
	}
	return &g.primitives[n], true
}

// Alloc ensures the backing array has capacity for at least n primitives,
// growing by doubling (or to 8, whichever is larger) and never by less than
// n itself. It returns the resulting capacity.
//
// The reference implementation's vertex array applies this same n-aware
// clamp but its group allocator does not, a latent discrepancy that would
// under-grow a group fed a large batch insert in one call. This
// implementation uses the safer, n-aware formula for both.
func (g *Group) Alloc(n int) int {
	if n <= cap(g.primitives) {
		return cap(g.primitives)
	}

	newCap := cap(g.primitives) * 2
	if newCap == 0 {
		newCap = 8
	}
	if newCap < n {
		newCap = n
	}

	grown := make([]primitive.Primitive, len(g.primitives), newCap)
	copy(grown, g.primitives)
	g.primitives = grown
	return newCap
}

// Insert creates a new, cleared primitive at position n, shifting any
// primitives at or after n one place to the right. n may equal Len() to
// insert after the last element. It returns a pointer to the new primitive,
// or ok=false if n is out of range.
func (g *Group) Insert(n int) (*primitive.Primitive, bool) {
	if n < 0 || n > len(g.primitives) {
		return nil, false
	}

	g.Alloc(len(g.primitives) + 1)
	g.primitives = append(g.primitives, primitive.Primitive{})
	copy(g.primitives[n+1:], g.primitives[n:len(g.primitives)-1])
	g.primitives[n] = primitive.Primitive{}

	return &g.primitives[n], true
}

// Add appends a new, cleared primitive and returns a pointer to it.
func (g *Group) Add() *primitive.Primitive {
	p, _ := g.Insert(len(g.primitives))
	return p
}

// Delete removes primitive n, shifting any later primitives one place to
// the left. It is a no-op if n is out of range.
func (g *Group) Delete(n int) {
	if n < 0 || n >= len(g.primitives) {
		return
	}
	copy(g.primitives[n:], g.primitives[n+1:])
	g.primitives = g.primitives[:len(g.primitives)-1]
}

// Clear empties the group without releasing its backing array.
func (g *Group) Clear() {
	g.primitives = g.primitives[:0]
}

// SetUsed marks every vertex referenced by every primitive in the group as
// used in the given arena.
func (g *Group) SetUsed(a *vertex.Arena) {
	for i := range g.primitives {
		g.primitives[i].SetUsed(a)
	}
}
