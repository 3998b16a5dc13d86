// Package objfmt implements the numbering and triangulation contract a
// Wavefront OBJ serializer needs from the clip driver's output: vertex
// index conventions, triangle-fan/strip decomposition, polygon-kind
// prefixes, and material-name resolution. It performs no file or stream
// I/O — that is a host program's responsibility, this package only pins
// down the arithmetic so a serializer's numbering matches what the clip
// driver assumed while clipping.
package objfmt

import "fmt"

// VertexStyle selects how a serializer numbers vertex indices in face
// records.
type VertexStyle int

const (
	// VertexStylePositive numbers vertices as absolute, 1-based indices
	// counting from the start of the whole output: 1 + vtotal + id.
	VertexStylePositive VertexStyle = iota
	// VertexStyleNegative numbers vertices as relative indices counting
	// back from the most recently emitted vertex: -(vobject - id).
	VertexStyleNegative
)

// MeshStyle selects how polygons with more than three sides are emitted.
type MeshStyle int

const (
	// MeshStyleNoChange emits a polygon's sides as a single face record,
	// regardless of side count.
	MeshStyleNoChange MeshStyle = iota
	// MeshStyleTriangleFan decomposes a polygon into a fan of triangles
	// sharing its first vertex.
	MeshStyleTriangleFan
	// MeshStyleTriangleStrip decomposes a polygon into a strip of
	// triangles alternating between its head and tail.
	MeshStyleTriangleStrip
)

// VertexNumber converts a vertex's arena id into the index a serializer
// should print in a face record, under the given style. vtotal is the
// count of vertices already emitted by earlier objects in the same output;
// vobject is the count of vertices belonging to the current object.
func VertexNumber(id, vtotal, vobject int, style VertexStyle) int {
	if style == VertexStyleNegative {
		return -(vobject - id)
	}
	return 1 + vtotal + id
}

// PrimitiveKindPrefix returns the OBJ record letter for a polygon with the
// given side count: "p" for a point, "l" for a line, "f" for anything with
// three or more sides.
func PrimitiveKindPrefix(nsides int) string {
	switch nsides {
	case 1:
		return "p"
	case 2:
		return "l"
	default:
		return "f"
	}
}

// Triangulate decomposes a polygon's side list (given as arena vertex
// indices, in winding order) into a list of triangles under the requested
// mesh style. It returns nil for MeshStyleNoChange or for polygons of
// three or fewer sides, both of which a serializer should emit as a
// single face record instead.
//
// Fan decomposition holds the first vertex fixed: (0,1,2), (0,2,3),
// (0,3,4), and so on. Strip decomposition alternates between advancing
// from the head and the tail of the remaining vertex range: even
// iterations replace the "third" slot with vertex 1+s/2; odd iterations
// replace the "first" slot with vertex nsides-(s-1)/2, yielding
// (0,1,2), (N-1,0,2), (N-1,2,3), (N-2,N-1,3), and so on.
func Triangulate(sides []int, style MeshStyle) [][3]int {
	n := len(sides)
	if n <= 3 || style == MeshStyleNoChange {
		return nil
	}

	var v [3]int
	v[0], v[1] = sides[0], sides[1]

	tris := make([][3]int, 0, n-2)
	for s := 2; s < n; s++ {
		var sindex int
		if style == MeshStyleTriangleFan {
			sindex = s
		} else if s%2 == 1 {
			sindex = n - (s-1)/2
		} else {
			sindex = 1 + s/2
		}

		vnext := sides[sindex]
		if style == MeshStyleTriangleFan || s%2 == 0 {
			v[2] = vnext
		} else {
			v[0] = vnext
		}

		tris = append(tris, v)

		if style == MeshStyleTriangleFan || s%2 == 1 {
			v[1] = v[2]
		} else {
			v[1] = v[0]
		}
	}

	return tris
}

// DefaultMaterialName is the material name used when no MaterialFunc is
// supplied to a serializer.
func DefaultMaterialName(colour int) string {
	return fmt.Sprintf("colour_%d", colour)
}

// ColourFunc resolves the colour a serializer should key material changes
// on for a primitive; a nil ColourFunc means the serializer should use the
// primitive's own Colour field.
type ColourFunc func(colour int) int

// MaterialFunc resolves a colour to the material name a serializer should
// emit in a "usemtl" line; a nil MaterialFunc means the serializer should
// fall back to DefaultMaterialName.
type MaterialFunc func(colour int) string

// NeedsMaterialChange reports whether a serializer walking primitives in
// order should emit a new "usemtl" line: only when colour differs from the
// last one emitted. A serializer should seed lastColour with a sentinel no
// real colour can equal (the reference contract uses positive infinity;
// any value outside the valid colour range serves the same purpose).
func NeedsMaterialChange(lastColour, colour int) bool {
	return lastColour != colour
}
