package program

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-probot/internal/core"
)

const (
	blockW = 120
	blockH = 40
)

var start = Placed{ID: 0, Kind: KindStart, Rect: core.NewRect(800, 100, blockW, blockH), Locked: true}

// column stacks kinds directly under the start block, IDs from 1.
func column(kinds ...Kind) []Placed {
	blocks := make([]Placed, len(kinds))
	r := start.Rect
	for i, k := range kinds {
		r = r.Translate(0, blockH)
		blocks[i] = Placed{ID: i + 1, Kind: k, Rect: r, Param: k.DefaultParam()}
	}
	return blocks
}

func kindsOf(p *Program) []Kind {
	var out []Kind
	for i := p.Head; i != None; i = p.Nodes[i].Next {
		out = append(out, p.Nodes[i].Kind)
	}
	return out
}

func TestFollows(t *testing.T) {
	a := core.NewRect(100, 100, blockW, blockH)

	tests := []struct {
		name     string
		b        core.Rect
		expected bool
	}{
		{"exact slot", core.NewRect(100, 140, blockW, blockH), true},
		{"20px low", core.NewRect(100, 160, blockW, blockH), true},
		{"21px low", core.NewRect(100, 161, blockW, blockH), false},
		{"20px overlap", core.NewRect(100, 120, blockW, blockH), true},
		{"50px right", core.NewRect(150, 140, blockW, blockH), true},
		{"51px left", core.NewRect(49, 140, blockW, blockH), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Follows(a, tc.b, DefaultTolerance); got != tc.expected {
				t.Errorf("Follows() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCompileOrder(t *testing.T) {
	blocks := column(KindMove, KindTurn, KindMove)
	// Shuffle the bag; order must come from positions only.
	bag := []Placed{blocks[2], blocks[0], blocks[1]}

	prog, err := Compile(Snapshot{Start: start, Blocks: bag}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := prog.Order(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Order() = %v, expected [1 2 3]", got)
	}
	if prog.Nodes[prog.Head].Prev != None {
		t.Error("head should have no predecessor")
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	snap := Snapshot{Start: start, Blocks: column(KindFor, KindMove, KindTurn, KindEndFor)}

	first, err := Compile(snap, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compile(snap, DefaultTolerance)
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("compile %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestCompileSkipsLockedAndDetached(t *testing.T) {
	blocks := column(KindMove, KindTurn)
	palette := Placed{ID: 50, Kind: KindMove, Rect: blocks[1].Rect.Translate(0, blockH), Locked: true}
	detached := Placed{ID: 51, Kind: KindTurn, Rect: core.NewRect(0, 0, blockW, blockH)}

	prog, err := Compile(Snapshot{Start: start, Blocks: append(blocks, palette, detached)}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := prog.Order(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Order() = %v, expected [1 2]", got)
	}
}

func TestCompileEmpty(t *testing.T) {
	loose := Placed{ID: 1, Kind: KindMove, Rect: core.NewRect(0, 0, blockW, blockH)}

	prog, err := Compile(Snapshot{Start: start, Blocks: []Placed{loose}}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !prog.Empty() || prog.Len() != 0 {
		t.Errorf("expected empty program, got %d nodes", prog.Len())
	}
}

func TestCompileNearestCandidateWins(t *testing.T) {
	exact := Placed{ID: 7, Kind: KindMove, Rect: start.Rect.Translate(0, blockH)}
	offset := Placed{ID: 3, Kind: KindTurn, Rect: start.Rect.Translate(30, blockH+10)}

	prog, err := Compile(Snapshot{Start: start, Blocks: []Placed{offset, exact}}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	order := prog.Order()
	if len(order) == 0 || order[0] != 7 {
		t.Errorf("Order() = %v, expected block 7 first", order)
	}
}

func TestResolveEndsNested(t *testing.T) {
	// If A, If B, Move, EndIf B, EndIf A
	prog, err := Compile(Snapshot{Start: start, Blocks: column(KindIf, KindIf, KindMove, KindEndIf, KindEndIf)}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if got := prog.Nodes[0].End; got != 4 {
		t.Errorf("outer If end = %d, expected 4", got)
	}
	if got := prog.Nodes[1].End; got != 3 {
		t.Errorf("inner If end = %d, expected 3", got)
	}
	if prog.Nodes[3].ReturnTo != None {
		t.Error("EndIf should not get a back-link")
	}
}

func TestResolveEndsKindsAreIndependent(t *testing.T) {
	// While, If, EndWhile-looking noise must not confuse the If counter.
	prog, err := Compile(Snapshot{Start: start, Blocks: column(KindWhile, KindIf, KindEndIf, KindFor, KindEndFor, KindEndWhile)}, DefaultTolerance)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		name     string
		opener   int
		end      int
		backLink bool
	}{
		{"while", 0, 5, true},
		{"if", 1, 2, false},
		{"for", 3, 4, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := prog.Nodes[tc.opener].End; got != tc.end {
				t.Errorf("End = %d, expected %d", got, tc.end)
			}
			back := prog.Nodes[tc.end].ReturnTo
			if tc.backLink && back != tc.opener {
				t.Errorf("ReturnTo = %d, expected %d", back, tc.opener)
			}
			if !tc.backLink && back != None {
				t.Errorf("ReturnTo = %d, expected none", back)
			}
		})
	}
}

func TestResolveEndsMissing(t *testing.T) {
	tests := []struct {
		name   string
		kinds  []Kind
		opener Kind
		block  int
	}{
		{"inner endif removed", []Kind{KindIf, KindIf, KindMove, KindEndIf}, KindIf, 1},
		{"while without end", []Kind{KindWhile, KindMove}, KindWhile, 1},
		{"else without end", []Kind{KindIf, KindEndIf, KindElse, KindTurn}, KindElse, 3},
		{"wrong terminator kind", []Kind{KindFor, KindMove, KindEndWhile}, KindFor, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(Snapshot{Start: start, Blocks: column(tc.kinds...)}, DefaultTolerance)
			var missing *MissingEndBlockError
			if !errors.As(err, &missing) {
				t.Fatalf("Compile() error = %v, expected MissingEndBlockError", err)
			}
			if missing.Opener != tc.opener || missing.BlockID != tc.block {
				t.Errorf("error = %+v, expected %s block %d", missing, tc.opener, tc.block)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range append([]Kind{KindStart}, PaletteKinds...) {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; expected %v", k.String(), got, err, k)
		}
	}
	if _, err := ParseKind("goto"); err == nil {
		t.Error("ParseKind(goto) should fail")
	}
}
