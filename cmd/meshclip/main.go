// Command meshclip demonstrates the clip driver end to end: it builds a
// small scene of coplanar polygons, runs the clip pass, and prints a
// summary of the resulting groups using the objfmt numbering contract. It
// writes no .obj file — wiring this driver to a real serializer is a host
// program's job, outside this library's scope.
package main

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chrisbazley/3dObjLib/clip"
	"github.com/chrisbazley/3dObjLib/group"
	"github.com/chrisbazley/3dObjLib/objfmt"
	"github.com/chrisbazley/3dObjLib/vertex"
)

func addSquare(a *vertex.Arena, g *group.Group, x0, y0, x1, y1, z float64, colour, id int) {
	p := g.Add()
	p.Colour = colour
	p.ID = id
	corners := [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for _, c := range corners {
		v, ok := a.Find(mgl64.Vec3{c[0], c[1], z})
		if !ok {
			v = a.Add(mgl64.Vec3{c[0], c[1], z})
		}
		if !p.AddSide(v) {
			log.Fatal("meshclip: polygon exceeded maximum sides while building the scene")
		}
	}
}

// buildScene constructs a floor tile with a decal painted on top of it, and
// a second, unrelated tile placed elsewhere: a minimal but non-trivial
// input for the clip pass.
func buildScene() (*vertex.Arena, []*group.Group, []int) {
	a := vertex.New()
	floor := group.New()
	decals := group.New()
	scenery := group.New()

	addSquare(a, floor, 0, 0, 4, 4, 0, 1, 100)
	addSquare(a, decals, 1, 1, 3, 3, 0, 2, 200)
	addSquare(a, scenery, 10, 0, 14, 4, 0, 3, 300)

	groups := []*group.Group{floor, decals, scenery}
	order := []int{0, 1, 2}
	return a, groups, order
}

func main() {
	a, groups, order := buildScene()

	if err := clip.Polygons(a, groups, order, true); err != nil {
		log.Fatalf("meshclip: clipping failed: %v", err)
	}

	for _, g := range groups {
		g.SetUsed(a)
	}

	merged := a.FindDuplicates(true)
	kept := a.Renumber(true)
	fmt.Printf("merged %d duplicate vertices, %d remain in the output\n", merged, kept)

	vtotal := 0
	for gi, g := range groups {
		fmt.Printf("group %d: %d primitives\n", gi, g.Len())
		for n := 0; n < g.Len(); n++ {
			p, ok := g.Get(n)
			if !ok {
				continue
			}

			material := objfmt.DefaultMaterialName(p.Colour)
			prefix := objfmt.PrimitiveKindPrefix(p.NumSides())
			fmt.Printf("  %s id=%d sides=%d material=%s:", prefix, p.ID, p.NumSides(), material)

			for s := 0; s < p.NumSides(); s++ {
				vn := objfmt.VertexNumber(a.ID(p.Side(s)), vtotal, kept, objfmt.VertexStylePositive)
				fmt.Printf(" %d", vn)
			}
			fmt.Println()

			if tris := objfmt.Triangulate(sidesOf(p), objfmt.MeshStyleTriangleFan); tris != nil {
				fmt.Printf("    triangulated into %d triangles\n", len(tris))
			}
		}
		vtotal += kept
	}
}

func sidesOf(p interface {
	NumSides() int
	Side(int) int
}) []int {
	sides := make([]int, p.NumSides())
	for i := range sides {
		sides[i] = p.Side(i)
	}
	return sides
}
