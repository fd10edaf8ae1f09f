package program

import (
	"strconv"
	"strings"
)

// Conditional options offered by the editor. Any other text is read as a
// numeric loop bound when evaluated.
const (
	OptionWallAhead    = "wall ahead"
	OptionWallNotAhead = "wall not ahead"
	OptionButtonPushed = "button is pressed"
	OptionDoorOpen     = "door is open"
	OptionTrue         = "true"
)

// Options lists the named predicates in the editor's cycling order.
var Options = []string{
	OptionWallAhead,
	OptionWallNotAhead,
	OptionButtonPushed,
	OptionDoorOpen,
	OptionTrue,
}

// PredicateKind tags a parsed condition.
type PredicateKind uint8

const (
	PredWallAhead PredicateKind = iota
	PredWallNotAhead
	PredButtonPressed
	PredDoorOpen
	PredTrue
	PredBound
)

// Predicate is the parsed form of a conditional block's parameter.
// Raw keeps the original text so a malformed bound can be reported.
type Predicate struct {
	Kind  PredicateKind
	Bound int
	Raw   string
}

// ParsePredicate classifies text. A bound that does not parse is returned
// as PredBound with a non-nil error so evaluation can fault at run time.
func ParsePredicate(text string) (Predicate, error) {
	raw := strings.TrimSpace(text)
	switch strings.ToLower(raw) {
	case OptionWallAhead:
		return Predicate{Kind: PredWallAhead, Raw: raw}, nil
	case OptionWallNotAhead:
		return Predicate{Kind: PredWallNotAhead, Raw: raw}, nil
	case OptionButtonPushed:
		return Predicate{Kind: PredButtonPressed, Raw: raw}, nil
	case OptionDoorOpen:
		return Predicate{Kind: PredDoorOpen, Raw: raw}, nil
	case OptionTrue:
		return Predicate{Kind: PredTrue, Raw: raw}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Predicate{Kind: PredBound, Raw: raw}, err
	}
	return Predicate{Kind: PredBound, Bound: n, Raw: raw}, nil
}

// NextOption returns the option after current in cycling order. Numeric
// or unknown text cycles back to the first option.
func NextOption(current string) string {
	cur := strings.ToLower(strings.TrimSpace(current))
	for i, o := range Options {
		if o == cur {
			return Options[(i+1)%len(Options)]
		}
	}
	return Options[0]
}

// ParseCount reads the whole-number parameter of a Move or Turn block.
func ParseCount(n Node) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(n.Param))
	if err != nil {
		return 0, &InvalidParameterError{Kind: n.Kind, BlockID: n.BlockID, Value: n.Param}
	}
	return v, nil
}
