package world

import "fmt"

// OutOfBoundsQueryError is returned by strict lookups outside the grid.
// Predicates and movement use explicit boundary rules and never produce it.
type OutOfBoundsQueryError struct {
	At   Coord
	Rows int
	Cols int
}

func (e *OutOfBoundsQueryError) Error() string {
	return fmt.Sprintf("world: %s is outside the %dx%d grid", e.At, e.Rows, e.Cols)
}

// LinkError reports a malformed obstacle table at construction time.
type LinkError struct {
	Obstacle int
	Reason   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("world: obstacle %d: %s", e.Obstacle, e.Reason)
}
