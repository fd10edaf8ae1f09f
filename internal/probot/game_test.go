package probot

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot/engine"
	"github.com/vovakirdan/tui-probot/internal/probot/layout"
	"github.com/vovakirdan/tui-probot/internal/probot/levels"
	"github.com/vovakirdan/tui-probot/internal/probot/program"
)

const corridor = `
id: corridor
name: Corridor
hint: three steps up
spawn: {row: 3, col: 0, facing: up}
layout:
  - [3]
  - [0]
  - [0]
  - [0]
`

func newGame(t *testing.T) *Game {
	t.Helper()
	lvl, err := levels.Parse([]byte(corridor))
	if err != nil {
		t.Fatalf("levels.Parse() error = %v", err)
	}
	cfg := config.DefaultProBotConfig()
	cfg.Engine.MessageTicks = 5
	g, err := New(lvl, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func idle(g *Game, limit int) (core.StepResult, bool) {
	var res core.StepResult
	for i := 0; i < limit; i++ {
		res = press(g)
		if res.Solved {
			return res, true
		}
		if g.Engine().Status() != engine.StatusRunning {
			return res, false
		}
	}
	return res, false
}

// selectKind moves the palette selection onto k.
func selectKind(g *Game, k program.Kind) {
	for g.SelectedKind() != k {
		press(g, core.ActionDown)
	}
}

func TestSolveCorridor(t *testing.T) {
	g := newGame(t)

	press(g, core.ActionPlace)
	press(g, core.ActionFocus)
	press(g, core.ActionCycle)
	press(g, core.ActionCycle)

	sel, ok := g.Selected()
	if !ok || sel.Kind != program.KindMove || sel.Param != "3" {
		t.Fatalf("Selected() = %+v, %v; expected move 3", sel, ok)
	}

	press(g, core.ActionRun)
	if !g.State().Running {
		t.Fatal("program not running after run")
	}
	res, solved := idle(g, 1000)
	if !solved {
		t.Fatalf("level not solved, status %s", g.Engine().Status())
	}
	if res.State.Score != 1 || !res.State.Solved {
		t.Errorf("State = %+v, expected solved with 1 block", res.State)
	}
	if res.State.Ticks < 3*41 {
		t.Errorf("Ticks = %d, expected at least %d", res.State.Ticks, 3*41)
	}
	if g.Message() != "level complete" {
		t.Errorf("Message() = %q, expected level complete", g.Message())
	}

	// solved is reported once
	if res := press(g); res.Solved {
		t.Error("Solved reported twice")
	}
}

func TestMissingEndFaults(t *testing.T) {
	g := newGame(t)
	selectKind(g, program.KindIf)
	press(g, core.ActionPlace)
	press(g, core.ActionRun)

	if g.Engine().Status() != engine.StatusFaulted {
		t.Fatalf("Status() = %s, expected faulted", g.Engine().Status())
	}
	if !strings.HasPrefix(g.Message(), "missing end block") {
		t.Errorf("Message() = %q", g.Message())
	}
	if g.State().RunFaults != 1 {
		t.Errorf("RunFaults = %d, expected 1", g.State().RunFaults)
	}
}

func TestMessageExpires(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionHint)
	if g.Message() != "hint: three steps up" {
		t.Fatalf("Message() = %q", g.Message())
	}
	for i := 0; i < 5; i++ {
		press(g)
	}
	if g.Message() != "" {
		t.Errorf("Message() = %q after expiry, expected empty", g.Message())
	}
}

func TestReorderAndTrash(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionPlace) // move
	selectKind(g, program.KindTurn)
	press(g, core.ActionPlace) // turn after move

	kinds := func() []program.Kind {
		var out []program.Kind
		for _, b := range g.Canvas().Chain() {
			out = append(out, b.Kind)
		}
		return out
	}
	if got := kinds(); len(got) != 2 || got[0] != program.KindMove || got[1] != program.KindTurn {
		t.Fatalf("chain = %v", got)
	}

	press(g, core.ActionFocus)
	press(g, core.ActionRaise) // turn is selected
	if got := kinds(); got[0] != program.KindTurn {
		t.Errorf("after raise chain = %v", got)
	}

	press(g, core.ActionTrash)
	if got := kinds(); len(got) != 1 || got[0] != program.KindMove {
		t.Errorf("after trash chain = %v", got)
	}
}

func TestCycleParameters(t *testing.T) {
	tests := []struct {
		name  string
		kind  program.Kind
		start string
		want  string
	}{
		{"move wraps to one", program.KindMove, "9", "1"},
		{"for wraps to zero", program.KindFor, "9", "0"},
		{"for counts", program.KindFor, "2", "3"},
		{"while cycles options", program.KindWhile, program.OptionWallAhead, program.OptionWallNotAhead},
		{"bad move resets", program.KindMove, "x", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t)
			selectKind(g, tt.kind)
			press(g, core.ActionPlace)
			press(g, core.ActionFocus)
			if err := g.SetSelectedParam(tt.start); err != nil {
				t.Fatal(err)
			}
			press(g, core.ActionCycle)
			sel, _ := g.Selected()
			if sel.Param != tt.want {
				t.Errorf("Param = %q, expected %q", sel.Param, tt.want)
			}
		})
	}
}

func TestSetSelectedParamRejectsTerminator(t *testing.T) {
	g := newGame(t)
	selectKind(g, program.KindEndIf)
	press(g, core.ActionPlace)
	if err := g.SetSelectedParam("3"); err == nil {
		t.Error("SetSelectedParam() on endif expected error")
	}
}

func TestEditingLockedWhileRunning(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionPlace)
	press(g, core.ActionRun)
	press(g, core.ActionPlace)
	if n := g.Canvas().Points(); n != 1 {
		t.Errorf("Points() = %d while running, expected 1", n)
	}
	press(g, core.ActionStop)
	if g.Engine().Status() != engine.StatusStopped {
		t.Errorf("Status() = %s, expected stopped", g.Engine().Status())
	}
}

func TestUnevenStepRateKeepsEngineTime(t *testing.T) {
	tests := []struct {
		name     string
		stepRate int
		steps    int
		expected int
	}{
		{"matching rates", 120, 5, 5},
		{"even divisor", 60, 5, 10},
		{"uneven divisor", 50, 5, 12},
		{"faster steps", 240, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t)
			g.Reset(core.RuntimeConfig{TickRate: tt.stepRate})
			press(g, core.ActionPlace)
			press(g, core.ActionRun)
			for i := 1; i < tt.steps; i++ {
				press(g)
			}
			if got := g.Engine().Ticks(); got != tt.expected {
				t.Errorf("Ticks() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestBackEndsSession(t *testing.T) {
	g := newGame(t)
	if res := press(g, core.ActionBack); !res.State.GameOver {
		t.Error("GameOver not set after back")
	}
}

func TestResetAllClearsProgram(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionPlace)
	press(g, core.ActionPlace)
	press(g, core.ActionResetAll)
	if n := g.Canvas().Points(); n != 0 {
		t.Errorf("Points() = %d after reset all, expected 0", n)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	store := layout.NewStore(t.TempDir(), 50)

	g := newGame(t)
	if ok, err := g.LoadLayout(store); ok || err != nil {
		t.Fatalf("LoadLayout() with nothing saved = %v, %v", ok, err)
	}
	press(g, core.ActionPlace)
	selectKind(g, program.KindTurn)
	press(g, core.ActionPlace)
	if err := g.SaveLayout(store); err != nil {
		t.Fatal(err)
	}

	h := newGame(t)
	if ok, err := h.LoadLayout(store); !ok || err != nil {
		t.Fatalf("LoadLayout() = %v, %v", ok, err)
	}
	if len(h.Canvas().Chain()) != 2 {
		t.Errorf("restored chain = %v", h.Canvas().Chain())
	}
}

func TestRender(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionPlace)

	scr := core.NewScreen(100, 32)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"ProBot - Corridor", "▲", "Program", "Blocks", "move 1", "idle"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestFrameCarriesRunID(t *testing.T) {
	g := newGame(t)
	press(g, core.ActionPlace)
	press(g, core.ActionRun)
	press(g)

	f := g.Frame()
	if f.RunID == "" || f.Status != "running" {
		t.Errorf("Frame() = %+v", f)
	}
}
