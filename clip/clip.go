// Package clip implements the back-to-front coplanar polygon clipping pass:
// given a render order over a set of groups, it subdivides and deletes
// primitives so that no two coplanar polygons occupy the same ground,
// resolving Z-fighting without any 3D visibility computation.
package clip

import (
	"errors"
	"fmt"
	"log"

	"github.com/chrisbazley/3dObjLib/group"
	"github.com/chrisbazley/3dObjLib/primitive"
	"github.com/chrisbazley/3dObjLib/vertex"
)

// maxSplits bounds the number of splits made in one clipGroup call, i.e.
// while clipping all primitives of one back group (one entry of the group
// order) against everything in front of them; the count restarts for each
// entry. It exists to guarantee termination against pathological or
// adversarial input rather than to bound legitimate scenes; 1024 splits in
// one group is already far beyond anything a real mesh should produce.
const maxSplits = 1024

// ErrSplitBudgetExceeded is returned when clipping one back group's
// primitives against everything in front of them reaches maxSplits splits.
var ErrSplitBudgetExceeded = errors.New("clip: reached maximum splits clipping one group")

// Polygons clips every group's primitives against whatever lies in front of
// them, walking groups in groupOrder from back to front (groupOrder[0] is
// drawn first, groupOrder[len-1] last). groups is indexed by group id;
// groupOrder holds group ids, and may legitimately repeat or omit ids
// relative to len(groups).
//
// Coplanar primitives within the same group are also checked against one
// another (clipGroupVsGroup's first pass), since a mesh may legitimately
// place overlapping decals inside a single group.
//
// The split counter checked against maxSplits is reset at the start of
// each entry of groupOrder, so the budget applies per back group rather
// than to the whole call.
func Polygons(a *vertex.Arena, groups []*group.Group, groupOrder []int, verbose bool) error {
	for bg := 0; bg < len(groupOrder); bg++ {
		if err := clipGroup(a, groups, groupOrder, bg, verbose); err != nil {
			return err
		}
	}
	return nil
}

func clipGroup(a *vertex.Arena, groups []*group.Group, groupOrder []int, bg int, verbose bool) error {
	nsplit, ndel := 0, 0
	backGroup := groups[groupOrder[bg]]

	for back := 0; back < backGroup.Len(); back++ {
		del, err := clipGroupVsGroup(a, groups, groupOrder[bg], back, groupOrder[bg], back+1, &nsplit, verbose)
		if err != nil {
			return fmt.Errorf("clip: group %d primitive %d: %w", groupOrder[bg], back, err)
		}

		for fg := bg + 1; !del && fg < len(groupOrder); fg++ {
			if groupOrder[fg] == groupOrder[bg] {
				continue
			}
			del, err = clipGroupVsGroup(a, groups, groupOrder[bg], back, groupOrder[fg], 0, &nsplit, verbose)
			if err != nil {
				return fmt.Errorf("clip: group %d primitive %d vs group %d: %w", groupOrder[bg], back, groupOrder[fg], err)
			}
		}

		if del {
			ndel++
			// The back polygon at this index was deleted, so the next
			// primitive has slid into it; re-examine the same index.
			back--
		}
	}

	if verbose && (nsplit != 0 || ndel != 0) {
		log.Printf("split %d and deleted %d in group %d", nsplit, ndel, groupOrder[bg])
	}
	return nil
}

// clipGroupVsGroup clips the back primitive (groups[bg][back]) against
// every primitive in groups[fg] starting at index front, in place. It
// reports whether the back primitive was deleted (because some front
// primitive fully covers it).
func clipGroupVsGroup(a *vertex.Arena, groups []*group.Group, bg, back, fg, front int, nsplit *int, verbose bool) (bool, error) {
	backGroup := groups[bg]
	backp, ok := backGroup.Get(back)
	if !ok {
		return false, nil
	}

	plane, ok := backp.FindPlane(a)
	if !ok {
		// The back primitive is a point or line; it has no plane to clip in.
		return false, nil
	}

	frontGroup := groups[fg]

	for ; front < frontGroup.Len(); front++ {
		frontp, ok := frontGroup.Get(front)
		if !ok {
			return false, nil
		}

		if frontp.NumSides() < 3 {
			continue
		}
		if !primitive.Coplanar(frontp, backp, a) {
			continue
		}

		covered := false
		for {
			if primitive.Equal(frontp, backp) {
				covered = true
				break
			}
			if primitive.Contains(frontp, backp, plane, a) {
				covered = true
				break
			}

			other, split, err := primitive.Clip(backp, frontp, a, plane)
			if err != nil {
				if verbose {
					log.Printf("clipping failed: %v", err)
				}
				return false, err
			}
			if !split {
				break
			}

			newPrim, ok := backGroup.Insert(back + 1)
			if !ok {
				return false, nil
			}
			*newPrim = *other

			(*nsplit)++
			if *nsplit == maxSplits {
				if verbose {
					log.Printf("aborted polygon clipping after %d splits", *nsplit)
				}
				return false, ErrSplitBudgetExceeded
			}

			// A polygon was inserted right after the back polygon. If we
			// are clipping within the same group, every following index
			// (including the front polygon) shifted up by one.
			if frontGroup == backGroup {
				front++
				frontp, ok = frontGroup.Get(front)
				if !ok {
					return false, nil
				}
			}

			// The back group's backing array may have been reallocated.
			backp, ok = backGroup.Get(back)
			if !ok {
				return false, nil
			}

			if verbose {
				behind, ok := backGroup.Get(back + 1)
				if ok {
					log.Printf("split polygon %d in group %d behind %d in group %d", backp.ID, bg, frontp.ID, fg)
					log.Printf("  -> %+v and %+v", *backp, *behind)
				}
			}
		}

		if covered {
			if verbose {
				log.Printf("deleting polygon %d in group %d behind %d in group %d", backp.ID, bg, frontp.ID, fg)
			}
			backGroup.Delete(back)
			return true, nil
		}
	}

	return false, nil
}
