package program

import "fmt"

// MissingEndBlockError means an opener has no terminator later in the
// compiled sequence.
type MissingEndBlockError struct {
	Opener  Kind
	BlockID int
}

func (e *MissingEndBlockError) Error() string {
	term, _ := e.Opener.Terminator()
	return fmt.Sprintf("program: %s block %d has no %s", e.Opener, e.BlockID, term)
}

// InvalidParameterError means a block's parameter is not usable, such as a
// Move distance that is not a whole number or an If with unknown text.
type InvalidParameterError struct {
	Kind    Kind
	BlockID int
	Value   string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("program: %s block %d: %q is not %s", e.Kind, e.BlockID, e.Value, e.Expected())
}

// Expected describes what the block accepts.
func (e *InvalidParameterError) Expected() string {
	if e.Kind.HasPredicate() {
		return "a condition or a number"
	}
	return "a whole number"
}
