package program

import "github.com/vovakirdan/tui-probot/internal/core"

// None marks an absent link in the node arena.
const None = -1

// Placed is the editor's view of one block: what it is, where it sits on
// the canvas and its parameter text. Locked blocks are palette templates.
type Placed struct {
	ID     int
	Kind   Kind
	Rect   core.Rect
	Param  string
	Locked bool
}

// Snapshot is everything a compile needs: the start block and every other
// block currently on the canvas.
type Snapshot struct {
	Start  Placed
	Blocks []Placed
}

// Node is one compiled block. Links are indexes into Program.Nodes.
type Node struct {
	Kind    Kind
	Param   string
	BlockID int

	Next     int
	Prev     int
	End      int // matching terminator of an opener
	ReturnTo int // opener of a loop terminator

	// LoopCount counts true evaluations of a numeric bound.
	LoopCount int
}

// Predicate parses the node's conditional parameter.
func (n Node) Predicate() (Predicate, error) {
	p, err := ParsePredicate(n.Param)
	if err != nil {
		return p, &InvalidParameterError{Kind: n.Kind, BlockID: n.BlockID, Value: n.Param}
	}
	return p, nil
}

// Program is a compiled block sequence. Every compile returns a fresh
// arena, so loop counters always start at zero.
type Program struct {
	Nodes []Node
	Head  int
}

// Empty reports whether the start block has nothing attached.
func (p *Program) Empty() bool {
	return p.Head == None
}

// Len returns the number of compiled nodes.
func (p *Program) Len() int {
	return len(p.Nodes)
}

// Order returns the block IDs in execution order of the straight-line chain.
func (p *Program) Order() []int {
	ids := make([]int, 0, len(p.Nodes))
	for i := p.Head; i != None; i = p.Nodes[i].Next {
		ids = append(ids, p.Nodes[i].BlockID)
	}
	return ids
}
