// Package primitive implements the fixed-capacity polygon type: side
// storage, cached plane normal and bounding box, and the coplanarity,
// containment, equality, split, and clip operations the clip driver
// composes.
package primitive

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chrisbazley/3dObjLib/geom"
	"github.com/chrisbazley/3dObjLib/vertex"
)

// MaxSides is the fixed capacity of a Primitive's side list. A polygon
// requiring a sixteenth side is a hard error, not a resize point — the
// clip driver relies on being able to detect this locally rather than
// partially committing a split.
const MaxSides = 15

// ErrTooManySides is returned when a side would push a polygon beyond
// MaxSides.
var ErrTooManySides = errors.New("primitive: side count would exceed MaxSides")

// ErrClipperTooFewSides is returned by Clip when the clipping polygon has
// fewer than three sides.
var ErrClipperTooFewSides = errors.New("primitive: clipper has fewer than three sides")

// Primitive is a closed polygon of 0..MaxSides vertex-arena indices,
// carrying an opaque colour, an id distinct from its arena or group
// position, and cached plane normal / bounding box.
//
// A Primitive with fewer than 3 sides represents a point (1) or a line
// (2); the clip driver skips these. Side i connects the vertex at
// sides[i-1 mod nsides] to the vertex at sides[i] — the polygon is always
// closed.
type Primitive struct {
	Colour int
	ID     int

	nsides int
	sides  [MaxSides]int

	hasNormal bool
	normal    mgl64.Vec3

	hasBBox bool
	low     mgl64.Vec3
	high    mgl64.Vec3
}

// NumSides returns the number of sides currently stored.
func (p *Primitive) NumSides() int {
	return p.nsides
}

// Side returns the vertex-arena index of side i (0 <= i < NumSides()).
func (p *Primitive) Side(i int) int {
	return p.sides[i]
}

// AddSide appends a vertex-arena index as a new side, invalidating both
// caches. It reports false without mutating the primitive if nsides would
// exceed MaxSides.
func (p *Primitive) AddSide(vertexIndex int) bool {
	if p.nsides >= MaxSides {
		return false
	}
	p.sides[p.nsides] = vertexIndex
	p.nsides++
	p.hasNormal = false
	p.hasBBox = false
	return true
}

// Clear empties the side list, invalidating both caches.
func (p *Primitive) Clear() {
	p.nsides = 0
	p.hasNormal = false
	p.hasBBox = false
}

// ReverseSides reverses the polygon's winding in place. Only the normal
// cache is invalidated — a bounding box is winding-independent, so
// reversal cannot change it.
func (p *Primitive) ReverseSides() {
	for i, j := 0, p.nsides-1; i < j; i, j = i+1, j-1 {
		p.sides[i], p.sides[j] = p.sides[j], p.sides[i]
	}
	p.hasNormal = false
}

// Normal returns the cached plane normal, computing it if necessary as
// normalize(cross(v1-v0, v2-v1)) over the first three sides. It reports
// false if there are fewer than three sides or the first three vertices
// are collinear (a zero cross product).
func (p *Primitive) Normal(a *vertex.Arena) (mgl64.Vec3, bool) {
	if p.hasNormal {
		return p.normal, true
	}
	if p.nsides < 3 {
		return mgl64.Vec3{}, false
	}

	v0 := a.Coords(p.sides[0])
	v1 := a.Coords(p.sides[1])
	v2 := a.Coords(p.sides[2])

	sideOne := v1.Sub(v0)
	sideTwo := v2.Sub(v1)

	n, ok := geom.Normalize(sideOne.Cross(sideTwo))
	if !ok {
		return mgl64.Vec3{}, false
	}

	p.normal = n
	p.hasNormal = true
	return n, true
}

// BBox returns the cached axis-aligned bounding box, computing it as the
// componentwise min/max over every side vertex. It requires at least one
// side.
func (p *Primitive) BBox(a *vertex.Arena) (low, high mgl64.Vec3, ok bool) {
	if p.hasBBox {
		return p.low, p.high, true
	}
	if p.nsides < 1 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	low = a.Coords(p.sides[0])
	high = low
	for i := 1; i < p.nsides; i++ {
		v := a.Coords(p.sides[i])
		for axis := 0; axis < 3; axis++ {
			if v[axis] < low[axis] {
				low[axis] = v[axis]
			}
			if v[axis] > high[axis] {
				high[axis] = v[axis]
			}
		}
	}

	p.low, p.high = low, high
	p.hasBBox = true
	return low, high, true
}

// FindPlane delegates to geom.FindPlane on the primitive's normal.
func (p *Primitive) FindPlane(a *vertex.Arena) (geom.Plane, bool) {
	n, ok := p.Normal(a)
	if !ok {
		return geom.Plane{}, false
	}
	return geom.FindPlane(n), true
}

// Coplanar reports whether p and q lie in the same plane with matching
// orientation. Two coplanar polygons whose normals point in opposite
// directions are deliberately treated as not coplanar — they are
// back-to-back decals, not a Z-fight, and must not be clipped against
// each other.
func Coplanar(p, q *Primitive, a *vertex.Arena) bool {
	pn, pok := p.Normal(a)
	qn, qok := q.Normal(a)

	switch {
	case pok && qok:
		if !geom.VectorEqual(pn, qn) {
			return false
		}
		if q.nsides == 0 || p.nsides == 0 {
			return false
		}
		diff := a.Coords(q.sides[0]).Sub(a.Coords(p.sides[0]))
		return math.Abs(pn.Dot(diff)) < geom.EPS

	case pok && !qok:
		return everyVertexOnPlane(q, p.sides[0], pn, a)

	case !pok && qok:
		return everyVertexOnPlane(p, q.sides[0], qn, a)

	default:
		return false
	}
}

func everyVertexOnPlane(degenerate *Primitive, planeVertex int, normal mgl64.Vec3, a *vertex.Arena) bool {
	origin := a.Coords(planeVertex)
	for i := 0; i < degenerate.nsides; i++ {
		diff := a.Coords(degenerate.sides[i]).Sub(origin)
		if math.Abs(normal.Dot(diff)) >= geom.EPS {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether v lies within p, using a Jordan-style ray
// cast to +x at fixed y under the given plane projection. It applies these
// tie-breaking rules: bbox pre-rejection, exact-vertex-match bias, horizontal-edge special
// casing, and shared-vertex double-count avoidance via top_y.
//
// Inexact comparisons here deliberately bias borderline points inside the
// polygon, because the clip driver uses this test to decide which half of
// a split polygon survives.
func ContainsPoint(p *Primitive, v mgl64.Vec3, plane geom.Plane, a *vertex.Arena) bool {
	if low, high, ok := p.BBox(a); ok {
		if !geom.XYGreaterOrEqual(v, low, plane) || !geom.XYGreaterOrEqual(high, v, plane) {
			return false
		}
	}

	if _, ok := exactSideMatch(p, v, a); ok {
		return true
	}

	var high mgl64.Vec3
	if p.hasBBox {
		high = p.high
	} else {
		high = maxVertex(p, a)
	}
	topYVal := high[plane.Y]

	inside := false
	vx, vy := geom.Project(v, plane)

	for i := 0; i < p.nsides; i++ {
		prev := a.Coords(p.sides[(i-1+p.nsides)%p.nsides])
		curr := a.Coords(p.sides[i])

		px, py := geom.Project(prev, plane)
		cx, cy := geom.Project(curr, plane)

		edgeMaxX := math.Max(px, cx)
		if geom.Less(edgeMaxX, vx) {
			continue
		}

		if geom.Equal(py, cy) {
			if geom.Less(vx, math.Min(px, cx)) {
				continue
			}
			if geom.Equal(vy, py) {
				return true
			}
			continue
		}

		edgeMinY := math.Min(py, cy)
		edgeMaxY := math.Max(py, cy)
		if vy < edgeMinY || vy > edgeMaxY {
			continue
		}

		if vy == edgeMaxY && edgeMaxY != topYVal {
			continue
		}

		var ix float64
		if geom.Equal(px, cx) {
			ix = px
		} else {
			m := (cy - py) / (cx - px)
			ix = px + (vy-py)/m
		}

		if geom.Equal(vx, ix) {
			return true
		}
		if geom.Less(vx, ix) {
			inside = !inside
		}
	}

	return inside
}

// exactSideMatch reports whether v coincides with one of p's side vertices.
// The original compares by arena index; this compares by tolerant
// coordinate equality instead, which also matches distinct indices that
// FindDuplicates has not yet merged. That is a strict superset of the
// index comparison, never a narrower one, so it is safe here.
func exactSideMatch(p *Primitive, v mgl64.Vec3, a *vertex.Arena) (int, bool) {
	for i := 0; i < p.nsides; i++ {
		if geom.VectorEqual(a.Coords(p.sides[i]), v) {
			return p.sides[i], true
		}
	}
	return 0, false
}

func maxVertex(p *Primitive, a *vertex.Arena) mgl64.Vec3 {
	high := a.Coords(p.sides[0])
	for i := 1; i < p.nsides; i++ {
		c := a.Coords(p.sides[i])
		for axis := 0; axis < 3; axis++ {
			if c[axis] > high[axis] {
				high[axis] = c[axis]
			}
		}
	}
	return high
}

// Contains reports whether outer wholly contains inner: outer's bbox must
// contain inner's bbox (tolerant), and every side vertex of inner must
// satisfy ContainsPoint against outer. It short-circuits on the first
// vertex found outside.
func Contains(outer, inner *Primitive, plane geom.Plane, a *vertex.Arena) bool {
	oLow, oHigh, oOK := outer.BBox(a)
	iLow, iHigh, iOK := inner.BBox(a)
	if oOK && iOK {
		if !geom.XYGreaterOrEqual(iLow, oLow, plane) || !geom.XYGreaterOrEqual(oHigh, iHigh, plane) {
			return false
		}
	}

	for i := 0; i < inner.nsides; i++ {
		if !ContainsPoint(outer, a.Coords(inner.sides[i]), plane, a) {
			return false
		}
	}
	return true
}

// Equal reports whether p and q have the same number of sides and, for
// some rotation of q's side sequence, every position's vertex index
// matches p's. Winding must match: reflections do not compare equal.
// Zero-sided polygons compare equal.
func Equal(p, q *Primitive) bool {
	if p.nsides != q.nsides {
		return false
	}
	if p.nsides == 0 {
		return true
	}

	offset := -1
	for s := 0; s < q.nsides; s++ {
		if q.sides[s] == p.sides[0] {
			offset = s
			break
		}
	}
	if offset == -1 {
		return false
	}

	s := offset
	for i := 0; i < p.nsides; i++ {
		if p.sides[i] != q.sides[s] {
			return false
		}
		s++
		if s == q.nsides {
			s = 0
		}
	}
	return true
}

// edgeCrossesLine treats (c,d) as an infinite line and the edge (edgeA,
// edgeB) as a finite segment with edgeA inclusive and edgeB exclusive; it
// reports the intersection point if the line crosses within that range.
// This asymmetric inclusivity is what Split's single edge-walk relies on
// to avoid double-counting a crossing that lands exactly on a shared
// vertex between two consecutive edges.
func edgeCrossesLine(a *vertex.Arena, edgeA, edgeB, c, d int, plane geom.Plane) (mgl64.Vec3, bool) {
	va := a.Coords(edgeA)
	vb := a.Coords(edgeB)
	vc := a.Coords(c)
	vd := a.Coords(d)

	pt, ok := geom.Intersect(va, vb, vc, vd, plane)
	if !ok {
		return mgl64.Vec3{}, false
	}

	lowX, highX := va[plane.X], vb[plane.X]
	if lowX > highX {
		lowX, highX = highX, lowX
	}
	lowY, highY := va[plane.Y], vb[plane.Y]
	if lowY > highY {
		lowY, highY = highY, lowY
	}

	if geom.Less(pt[plane.X], lowX) || geom.Less(highX, pt[plane.X]) {
		return mgl64.Vec3{}, false
	}
	if geom.Less(pt[plane.Y], lowY) || geom.Less(highY, pt[plane.Y]) {
		return mgl64.Vec3{}, false
	}

	if geom.VectorEqual(pt, vb) {
		return mgl64.Vec3{}, false
	}

	return pt, true
}

// segmentsIntersect treats both (a,b) and (c,d) as finite, inclusive
// segments. It bbox-pre-rejects on each segment's own extent and their
// overlap before delegating to the infinite-line intersection, then
// re-validates the intersection point falls within the overlap of both
// ranges. This is the routine primitive intersection detection uses,
// distinct from edgeCrossesLine's asymmetric-endpoint semantics used by
// Split's edge walk.
func segmentsIntersect(arena *vertex.Arena, a, b, c, d int, plane geom.Plane) (mgl64.Vec3, bool) {
	va, vb := arena.Coords(a), arena.Coords(b)
	vc, vd := arena.Coords(c), arena.Coords(d)

	abLowX, abHighX := minMax(va[plane.X], vb[plane.X])
	abLowY, abHighY := minMax(va[plane.Y], vb[plane.Y])
	cdLowX, cdHighX := minMax(vc[plane.X], vd[plane.X])
	cdLowY, cdHighY := minMax(vc[plane.Y], vd[plane.Y])

	lowX, highX := math.Max(abLowX, cdLowX), math.Min(abHighX, cdHighX)
	lowY, highY := math.Max(abLowY, cdLowY), math.Min(abHighY, cdHighY)
	if geom.Less(highX, lowX) || geom.Less(highY, lowY) {
		return mgl64.Vec3{}, false
	}

	pt, ok := geom.Intersect(va, vb, vc, vd, plane)
	if !ok {
		return mgl64.Vec3{}, false
	}

	if geom.Less(pt[plane.X], lowX) || geom.Less(highX, pt[plane.X]) {
		return mgl64.Vec3{}, false
	}
	if geom.Less(pt[plane.Y], lowY) || geom.Less(highY, pt[plane.Y]) {
		return mgl64.Vec3{}, false
	}

	return pt, true
}

func minMax(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Intersects reports whether any edge of p crosses the finite segment
// (edgeA, edgeB), skipping edges that share a vertex index with it.
// Endpoints of (edgeA, edgeB) are treated as exclusive (so contiguous but
// non-overlapping polygons never appear to overlap), while endpoints of
// p's own edges are inclusive — a back polygon must still be considered
// split when a cut passes exactly through one of its corners.
func Intersects(p *Primitive, edgeA, edgeB int, plane geom.Plane, a *vertex.Arena) bool {
	for i := 0; i < p.nsides; i++ {
		prevIdx := p.sides[(i-1+p.nsides)%p.nsides]
		currIdx := p.sides[i]

		if prevIdx == edgeA || prevIdx == edgeB || currIdx == edgeA || currIdx == edgeB {
			continue
		}

		pt, ok := segmentsIntersect(a, prevIdx, currIdx, edgeA, edgeB, plane)
		if !ok {
			continue
		}

		if geom.VectorEqual(pt, a.Coords(edgeA)) || geom.VectorEqual(pt, a.Coords(edgeB)) {
			continue
		}

		return true
	}
	return false
}

type splitState int

const (
	splitNone splitState = iota
	splitInProgress
	splitComplete
)

// Split cuts p along the infinite line through vertices a and b. It walks
// p's edges once, using a NONE -> IN_PROGRESS -> COMPLETE state machine:
// the first edge crossing the line begins accumulating a second polygon
// (other); the second crossing completes it and the remainder replaces p.
// An intersection vertex is found or added via the arena's dedup lookup,
// and is skipped if it coincides with the edge's current endpoint, to
// avoid emitting a zero-length edge.
//
// On success, both halves have at least 3 sides and are coplanar with the
// original p; other inherits p's Colour, ID, and (if present) cached
// normal.
func Split(p *Primitive, a, b int, arena *vertex.Arena, plane geom.Plane) (*Primitive, bool, error) {
	var tmp, out Primitive
	state := splitNone

	origNormal := p.normal
	hadNormal := p.hasNormal
	origColour := p.Colour
	origID := p.ID

	for i := 0; i < p.nsides; i++ {
		lastIdx := p.sides[(i-1+p.nsides)%p.nsides]
		curIdx := p.sides[i]

		var pt mgl64.Vec3
		var crosses bool
		if state != splitComplete {
			pt, crosses = edgeCrossesLine(arena, lastIdx, curIdx, a, b, plane)
		}

		if crosses {
			vi, found := arena.Find(pt)
			if !found {
				vi = arena.Add(pt)
			}

			switch state {
			case splitNone:
				state = splitInProgress
				if vi != curIdx {
					if !out.AddSide(vi) {
						return nil, false, ErrTooManySides
					}
				}
				if vi != lastIdx {
					if !tmp.AddSide(vi) {
						return nil, false, ErrTooManySides
					}
				}
			case splitInProgress:
				state = splitComplete
				if vi != curIdx {
					if !tmp.AddSide(vi) {
						return nil, false, ErrTooManySides
					}
				}
				if vi != lastIdx {
					if !out.AddSide(vi) {
						return nil, false, ErrTooManySides
					}
				}
			}
		}

		switch state {
		case splitNone, splitComplete:
			if !tmp.AddSide(curIdx) {
				return nil, false, ErrTooManySides
			}
		case splitInProgress:
			if !out.AddSide(curIdx) {
				return nil, false, ErrTooManySides
			}
		}
	}

	if state != splitComplete {
		return nil, false, nil
	}
	if tmp.nsides < 3 || out.nsides < 3 {
		return nil, false, nil
	}

	out.Colour = p.Colour
	out.ID = p.ID
	if hadNormal {
		out.normal = origNormal
		out.hasNormal = true
	}

	*p = tmp
	p.Colour = origColour
	p.ID = origID
	if hadNormal {
		p.normal = origNormal
		p.hasNormal = true
	}

	return &out, true, nil
}

// Clip attempts a single cut of p along one edge of clipper, stopping
// after the first successful split so the caller can re-evaluate
// occlusion before attempting another. It returns split=false without
// mutation if the bounding boxes of p and clipper fail to overlap under a
// strict xy_less test, or if no edge of clipper that crosses p, or whose
// endpoints both lie within p, produces a split.
func Clip(p, clipper *Primitive, a *vertex.Arena, plane geom.Plane) (*Primitive, bool, error) {
	if clipper.nsides < 3 {
		return nil, false, ErrClipperTooFewSides
	}

	cLow, cHigh, cOK := clipper.BBox(a)
	pLow, pHigh, pOK := p.BBox(a)
	if cOK && pOK {
		if geom.XYLess(cHigh, pLow, plane) || geom.XYLess(pHigh, cLow, plane) {
			return nil, false, nil
		}
	}

	lastInside := ContainsPoint(p, a.Coords(clipper.sides[clipper.nsides-1]), plane, a)

	for i := 0; i < clipper.nsides; i++ {
		prevIdx := clipper.sides[(i-1+clipper.nsides)%clipper.nsides]
		currIdx := clipper.sides[i]

		thisInside := ContainsPoint(p, a.Coords(currIdx), plane, a)

		if (lastInside && thisInside) || Intersects(p, prevIdx, currIdx, plane, a) {
			other, split, err := Split(p, prevIdx, currIdx, a, plane)
			if err != nil {
				return nil, false, err
			}
			if split {
				return other, true, nil
			}
		}

		lastInside = thisInside
	}

	return nil, false, nil
}

// SetUsed marks every vertex index referenced by p's sides as used.
func (p *Primitive) SetUsed(a *vertex.Arena) {
	for i := 0; i < p.nsides; i++ {
		a.Mark(p.sides[i])
	}
}

// SkewSide reports the index of the first side (checked from index 3
// onward) whose endpoint lies outside the plane defined by the first
// three vertices, or -1 if the polygon is planar. It requires at least 4
// sides to test.
func (p *Primitive) SkewSide(a *vertex.Arena) int {
	if p.nsides < 4 {
		return -1
	}

	normal, ok := p.Normal(a)
	if !ok {
		return -1
	}

	v0 := a.Coords(p.sides[0])
	for s := 3; s < p.nsides; s++ {
		sideNew := a.Coords(p.sides[s]).Sub(v0)
		if math.Abs(normal.Dot(sideNew)) >= geom.EPS {
			return s
		}
	}
	return -1
}
