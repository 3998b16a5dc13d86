// Package geom provides the tolerant scalar comparisons, 3-vector algebra,
// and plane-projection line intersection that the vertex, primitive, and
// clip packages build on.
//
// All coordinates are represented as github.com/go-gl/mathgl/mgl64.Vec3
// values, indexed exactly like the fixed-size arrays of the C library this
// package is translated from.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EPS is the tolerance governing every equality and strict-less comparison
// in this library. Two coordinates closer than EPS are indistinguishable.
// Tightening this value has historically broken termination of the split
// loop in primitive.Clip, which relies on EPS to avoid synthesizing
// zero-length edges from "nearly equal" intersection points.
const EPS = 1e-3

// Equal reports whether a and b are within EPS of each other.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < EPS
}

// Less reports whether a is tolerantly strictly less than b, i.e. b exceeds
// a by at least EPS. For two values within EPS of each other neither
// Less(a, b) nor Less(b, a) holds: this "dead band" is not simplified away.
func Less(a, b float64) bool {
	return (b - a) >= EPS
}

// GreaterOrEqual reports whether a is tolerantly greater than or equal to
// b, defined as !Less(a, b). Because of Less's dead band it holds in both
// directions for two values within EPS of each other.
func GreaterOrEqual(a, b float64) bool {
	return !Less(a, b)
}

// Plane is an ordered triple of distinct axis indices into {0,1,2}. X and Y
// are the in-plane axes used for 2D projection; Z is the ignored axis,
// chosen as the axis of largest-magnitude component of a polygon's normal
// so that projected edges never degenerate.
type Plane struct {
	X, Y, Z int
}

// FindPlane chooses a projection basis for normal. The mapping from the
// dominant axis bd to (X,Y,Z) is not "the remaining two axes in numeric
// order" — it is the specific permutation used by the reference
// implementation (Vector.c: vector_find_plane), reproduced here verbatim
// because later line-intersection math depends on it exactly:
//
//	bd == 0 -> (X,Y,Z) = (2,1,0)
//	bd == 1 -> (X,Y,Z) = (0,2,1)
//	bd == 2 -> (X,Y,Z) = (0,1,2)
func FindPlane(normal mgl64.Vec3) Plane {
	bd := dominantAxis(normal)
	p := Plane{Z: bd}
	if bd == 0 {
		p.X = 2
	} else {
		p.X = 0
	}
	if bd == 1 {
		p.Y = 2
	} else {
		p.Y = 1
	}
	return p
}

func dominantAxis(v mgl64.Vec3) int {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	bd := 0
	best := ax
	if ay > best {
		bd, best = 1, ay
	}
	if az > best {
		bd = 2
	}
	return bd
}

// Normalize returns v scaled to unit length. It fails iff v's magnitude is
// exactly zero — deliberately with no tolerance, since a zero vector
// arising from a cross product signals collinearity that must propagate to
// the caller rather than be swallowed.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	if v.Len() == 0 {
		return mgl64.Vec3{}, false
	}
	return v.Normalize(), true
}

// VectorEqual reports whether a and b are componentwise tolerant-equal.
func VectorEqual(a, b mgl64.Vec3) bool {
	return Equal(a[0], b[0]) && Equal(a[1], b[1]) && Equal(a[2], b[2])
}

// component returns the coordinate of v along the given axis index.
func component(v mgl64.Vec3, axis int) float64 {
	return v[axis]
}

// Project returns the (x, y) coordinates of v under the given plane basis.
func Project(v mgl64.Vec3, p Plane) (x, y float64) {
	return component(v, p.X), component(v, p.Y)
}

// XYLess reports whether a is strictly (tolerantly) less than b on both
// in-plane axes of p.
func XYLess(a, b mgl64.Vec3, p Plane) bool {
	ax, ay := Project(a, p)
	bx, by := Project(b, p)
	return Less(ax, bx) && Less(ay, by)
}

// XYGreaterOrEqual reports whether a is (tolerantly) greater than or equal
// to b on both in-plane axes of p.
func XYGreaterOrEqual(a, b mgl64.Vec3, p Plane) bool {
	ax, ay := Project(a, p)
	bx, by := Project(b, p)
	return GreaterOrEqual(ax, bx) && GreaterOrEqual(ay, by)
}

// YGradient returns the slope of the line ab in the projection of p. The
// caller must ensure the projected x coordinates of a and b differ (the
// line is not vertical in this projection).
func YGradient(a, b mgl64.Vec3, p Plane) float64 {
	ax, ay := Project(a, p)
	bx, by := Project(b, p)
	return (by - ay) / (bx - ax)
}

// YIntercept returns the y-intercept of a line through a with slope m in
// the projection of p.
func YIntercept(a mgl64.Vec3, m float64, p Plane) float64 {
	ax, ay := Project(a, p)
	return ay - m*ax
}

// Intersect computes the point where the infinite lines through (a,b) and
// (c,d) cross, projected under plane p, then recovers the ignored
// coordinate from AB's gradient/intercept algebra under the permuted plane
// (p.X, p.Z, p.Y), or (p.Y, p.Z, p.X) when AB is vertical in p. It
// returns ok=false for parallel (including coincident) lines.
//
// The three in-plane cases are checked in order, exactly mirroring
// Vector.c: vector_intersect:
//  1. AB vertical: CD also vertical -> parallel; else ix = a.x, solve iy
//     from CD's equation.
//  2. AB horizontal: iy = a.y; CD vertical -> ix = c.x; CD horizontal ->
//     parallel; else solve ix from CD's equation.
//  3. AB sloped: CD vertical -> ix = c.x; gradients tolerant-equal ->
//     parallel; else solve ix from both line equations.
func Intersect(a, b, c, d mgl64.Vec3, p Plane) (mgl64.Vec3, bool) {
	x, y, ok := intersect2D(a, b, c, d, p)
	if !ok {
		return mgl64.Vec3{}, false
	}

	// The ignored coordinate follows AB's own line equation in the (p.X, p.Z)
	// projection, or in (p.Y, p.Z) when AB is vertical in the former.
	z := a[p.Z]
	if !Equal(a[p.X], b[p.X]) {
		zp := Plane{X: p.X, Y: p.Z, Z: p.Y}
		m := YGradient(a, b, zp)
		z = m*x + YIntercept(a, m, zp)
	} else if !Equal(a[p.Y], b[p.Y]) {
		zp := Plane{X: p.Y, Y: p.Z, Z: p.X}
		m := YGradient(a, b, zp)
		z = m*y + YIntercept(a, m, zp)
	}

	var out mgl64.Vec3
	out[p.X] = x
	out[p.Y] = y
	out[p.Z] = z
	return out, true
}

func intersect2D(a, b, c, d mgl64.Vec3, p Plane) (ix, iy float64, ok bool) {
	ax, ay := Project(a, p)
	bx, by := Project(b, p)
	cx, cy := Project(c, p)
	dx, dy := Project(d, p)

	switch {
	case Equal(ax, bx): // AB vertical
		if Equal(cx, dx) {
			return 0, 0, false
		}
		ix = ax
		m2 := (dy - cy) / (dx - cx)
		c2 := cy - m2*cx
		iy = m2*ix + c2

	case Equal(ay, by): // AB horizontal
		iy = ay
		switch {
		case Equal(cx, dx):
			ix = cx
		case Equal(cy, dy):
			return 0, 0, false
		default:
			m2 := (dy - cy) / (dx - cx)
			c2 := cy - m2*cx
			ix = (iy - c2) / m2
		}

	default: // AB sloped
		m1 := (by - ay) / (bx - ax)
		c1 := ay - m1*ax
		if Equal(cx, dx) {
			ix = cx
		} else {
			m2 := (dy - cy) / (dx - cx)
			if Equal(m1, m2) {
				return 0, 0, false
			}
			c2 := cy - m2*cx
			ix = (c2 - c1) / (m1 - m2)
		}
		iy = m1*ix + c1
	}

	return ix, iy, true
}
