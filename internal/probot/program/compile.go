package program

import (
	"sort"

	"github.com/vovakirdan/tui-probot/internal/core"
)

// Tolerance is how far, in canvas pixels, a block may sit from the slot
// directly under another block and still follow it.
type Tolerance struct {
	X int // horizontal center distance
	Y int // distance between the follower's top and the predecessor's bottom
}

// DefaultTolerance matches the editor's snapping distances.
var DefaultTolerance = Tolerance{X: 50, Y: 20}

// Follows reports whether b sits in the slot under a.
func Follows(a, b core.Rect, tol Tolerance) bool {
	return core.Abs(b.Y-a.Bottom()) <= tol.Y && core.Abs(b.CenterX()-a.CenterX()) <= tol.X
}

// Chain returns the unlocked blocks hanging under the start block in
// program order.
//
// Each block is claimed by at most one predecessor. When a layout was not
// normalised by the editor and two blocks qualify, the one closest to the
// slot wins, then the lower block ID.
func Chain(snap Snapshot, tol Tolerance) []Placed {
	candidates := make([]Placed, 0, len(snap.Blocks))
	for _, b := range snap.Blocks {
		if b.Locked || b.Kind == KindStart || b.ID == snap.Start.ID {
			continue
		}
		candidates = append(candidates, b)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var chain []Placed
	claimed := make([]bool, len(candidates))
	cur := snap.Start.Rect
	for {
		pick := nearestFollower(cur, candidates, claimed, tol)
		if pick < 0 {
			return chain
		}
		claimed[pick] = true
		chain = append(chain, candidates[pick])
		cur = candidates[pick].Rect
	}
}

// Compile links the chain under the start block into a fresh program and
// resolves every opener's terminator. Locked blocks never take part.
func Compile(snap Snapshot, tol Tolerance) (*Program, error) {
	chain := Chain(snap, tol)
	prog := &Program{Head: None, Nodes: make([]Node, len(chain))}
	for i, b := range chain {
		prog.Nodes[i] = Node{
			Kind:     b.Kind,
			Param:    b.Param,
			BlockID:  b.ID,
			Next:     i + 1,
			Prev:     i - 1,
			End:      None,
			ReturnTo: None,
		}
	}
	if n := len(chain); n > 0 {
		prog.Head = 0
		prog.Nodes[n-1].Next = None
	}

	if err := prog.ResolveEnds(); err != nil {
		return nil, err
	}
	return prog, nil
}

func nearestFollower(a core.Rect, candidates []Placed, claimed []bool, tol Tolerance) int {
	best := -1
	var bestDY, bestDX int
	for i, c := range candidates {
		if claimed[i] || !Follows(a, c.Rect, tol) {
			continue
		}
		dy := core.Abs(c.Rect.Y - a.Bottom())
		dx := core.Abs(c.Rect.CenterX() - a.CenterX())
		if best < 0 || dy < bestDY || (dy == bestDY && dx < bestDX) {
			best, bestDY, bestDX = i, dy, dx
		}
	}
	return best
}
