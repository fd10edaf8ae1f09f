// Package program turns the loose set of blocks on the editing canvas into
// a linked, executable program.
package program

import (
	"fmt"
	"strings"
)

// Kind is the variant tag of a block.
type Kind uint8

const (
	KindStart Kind = iota
	KindMove
	KindTurn
	KindIf
	KindEndIf
	KindElse
	KindEndElse
	KindWhile
	KindEndWhile
	KindFor
	KindEndFor
)

var kindNames = [...]string{
	KindStart:    "start",
	KindMove:     "move",
	KindTurn:     "turn",
	KindIf:       "if",
	KindEndIf:    "endif",
	KindElse:     "else",
	KindEndElse:  "endelse",
	KindWhile:    "while",
	KindEndWhile: "endwhile",
	KindFor:      "for",
	KindEndFor:   "endfor",
}

// PaletteKinds lists the kinds a player can drag off the palette, in
// palette order.
var PaletteKinds = []Kind{
	KindMove, KindTurn, KindIf, KindEndIf, KindElse, KindEndElse,
	KindWhile, KindEndWhile, KindFor, KindEndFor,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind parses a lower-case block name such as "endwhile".
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return KindStart, fmt.Errorf("program: unknown block kind %q", s)
}

// IsOpener reports whether k starts a body closed by a terminator.
func (k Kind) IsOpener() bool {
	switch k {
	case KindIf, KindElse, KindWhile, KindFor:
		return true
	}
	return false
}

// IsLoop reports whether k is a loop opener.
func (k Kind) IsLoop() bool {
	return k == KindWhile || k == KindFor
}

// HasPredicate reports whether k evaluates a condition.
func (k Kind) HasPredicate() bool {
	return k == KindIf || k == KindWhile || k == KindFor
}

// HasCount reports whether k takes a whole-number parameter.
func (k Kind) HasCount() bool {
	return k == KindMove || k == KindTurn
}

// Terminator returns the kind that closes opener k.
func (k Kind) Terminator() (Kind, bool) {
	switch k {
	case KindIf:
		return KindEndIf, true
	case KindElse:
		return KindEndElse, true
	case KindWhile:
		return KindEndWhile, true
	case KindFor:
		return KindEndFor, true
	}
	return k, false
}

// DefaultParam is the parameter a freshly placed block starts with.
func (k Kind) DefaultParam() string {
	switch k {
	case KindMove, KindTurn:
		return "1"
	case KindIf, KindWhile:
		return OptionWallAhead
	case KindFor:
		return "2"
	}
	return ""
}
