// Package probot ties a level, the block canvas and the interpreter into one
// playable session driven by abstract input actions.
package probot

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot/editor"
	"github.com/vovakirdan/tui-probot/internal/probot/engine"
	"github.com/vovakirdan/tui-probot/internal/probot/layout"
	"github.com/vovakirdan/tui-probot/internal/probot/levels"
	"github.com/vovakirdan/tui-probot/internal/probot/program"
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Focus is the list the selection moves in.
type Focus uint8

const (
	FocusPalette Focus = iota
	FocusProgram
)

func (f Focus) String() string {
	if f == FocusProgram {
		return "program"
	}
	return "palette"
}

// Game is one level session.
type Game struct {
	level  levels.Level
	cfg    config.ProBotConfig
	canvas *editor.Canvas
	engine *engine.Engine

	focus      Focus
	paletteSel int
	programSel int // index into the canvas chain

	message      string
	messageTicks int

	// engine ticks per Step is engineRate/stepRate; carry holds the
	// remainder so uneven rates keep engine time
	engineRate int
	stepRate   int
	carry      int

	state      core.GameState
	lastEvents []world.SideEffect
	lastStatus engine.Status
}

// New starts a session on level. The level's world is built fresh.
func New(level levels.Level, cfg config.ProBotConfig) (*Game, error) {
	w, err := level.World()
	if err != nil {
		return nil, err
	}
	canvas := editor.NewCanvas(cfg.Editor)
	opts := engine.Options{TileSize: cfg.Board.TileSize, Tolerance: canvas.Tolerance()}
	g := &Game{
		level:  level,
		cfg:    cfg,
		canvas: canvas,
		engine: engine.New(w, engine.Pose{At: level.Spawn, Facing: level.Facing}, opts),
	}
	g.Reset(core.DefaultConfig())
	return g, nil
}

// ID returns the level identifier.
func (g *Game) ID() string { return g.level.ID }

// Title returns the level name.
func (g *Game) Title() string { return g.level.Name }

// Hint returns the level hint.
func (g *Game) Hint() string { return g.level.Hint }

// Level returns the level being played.
func (g *Game) Level() levels.Level { return g.level }

// Canvas exposes the block canvas.
func (g *Game) Canvas() *editor.Canvas { return g.canvas }

// Engine exposes the interpreter.
func (g *Game) Engine() *engine.Engine { return g.engine }

// Focus returns which list has the selection.
func (g *Game) Focus() Focus { return g.focus }

// Message returns the transient message, if any.
func (g *Game) Message() string { return g.message }

// Reset stops any run and clears the session state. The placed blocks stay.
// A zero TickRate keeps one engine tick per Step; otherwise each Step runs
// engine ticks at the configured engine rate.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.engine.Reset()
	g.state = core.GameState{}
	g.focus = FocusPalette
	g.paletteSel = 0
	g.programSel = 0
	g.message = ""
	g.messageTicks = 0
	g.lastEvents = nil
	g.lastStatus = engine.StatusIdle
	g.engineRate, g.stepRate, g.carry = 1, 1, 0
	if cfg.TickRate > 0 && g.cfg.Engine.TickRate > 0 {
		g.engineRate, g.stepRate = g.cfg.Engine.TickRate, cfg.TickRate
	}
}

// State returns the current session state.
func (g *Game) State() core.GameState {
	s := g.state
	s.Running = g.engine.Status() == engine.StatusRunning
	return s
}

// Step applies the frame's input, then advances a running program.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.handleInput(in)

	var res core.StepResult
	g.lastEvents = g.lastEvents[:0]
	if g.engine.Status() == engine.StatusRunning {
		g.carry += g.engineRate
		n := g.carry / g.stepRate
		g.carry %= g.stepRate
		for i := 0; i < n && g.engine.Status() == engine.StatusRunning; i++ {
			r := g.engine.Tick()
			g.lastEvents = append(g.lastEvents, r.Events...)
		}
	} else {
		g.carry = 0
	}
	if st := g.engine.Status(); st != g.lastStatus {
		g.onStatus(st, &res)
		g.lastStatus = st
	}

	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}
	res.State = g.State()
	return res
}

func (g *Game) onStatus(st engine.Status, res *core.StepResult) {
	switch st {
	case engine.StatusCompleted:
		if g.engine.GoalReached() {
			g.state.Solved = true
			g.state.Score = g.canvas.Points()
			g.state.Ticks = g.engine.Ticks()
			res.Solved = true
		}
		g.say(g.engine.Message())
	case engine.StatusFaulted:
		g.state.RunFaults++
		g.say(g.engine.Message())
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTicks = g.cfg.Engine.MessageTicks
}

func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionQuit), in.Has(core.ActionBack):
		g.engine.Stop()
		g.state.GameOver = true
		return
	case in.Has(core.ActionRun):
		g.run()
		return
	case in.Has(core.ActionStop):
		g.engine.Stop()
		g.say(g.engine.Message())
		return
	case in.Has(core.ActionHint):
		g.say("hint: " + g.level.Hint)
		return
	case in.Has(core.ActionResetAll):
		g.engine.Reset()
		g.canvas.ResetAll()
		g.programSel = 0
		return
	}

	// editing while a program runs would desync the highlighted block
	if g.engine.Status() == engine.StatusRunning {
		return
	}

	switch {
	case in.Has(core.ActionFocus):
		if g.focus == FocusPalette {
			g.focus = FocusProgram
		} else {
			g.focus = FocusPalette
		}
	case in.Has(core.ActionUp):
		g.moveSelection(-1)
	case in.Has(core.ActionDown):
		g.moveSelection(1)
	case in.Has(core.ActionPlace):
		g.place()
	case in.Has(core.ActionRaise):
		g.shift(-1)
	case in.Has(core.ActionLower):
		g.shift(1)
	case in.Has(core.ActionTrash):
		g.trash()
	case in.Has(core.ActionCycle):
		g.cycle()
	}
}

func (g *Game) run() {
	if err := g.engine.Run(g.canvas.Snapshot()); err != nil {
		g.state.RunFaults++
		g.lastStatus = engine.StatusFaulted
		g.say(engine.Advisory(err))
		return
	}
	g.lastStatus = engine.StatusRunning
	g.message = ""
	g.messageTicks = 0
}

func (g *Game) moveSelection(d int) {
	if g.focus == FocusPalette {
		g.paletteSel = wrap(g.paletteSel+d, len(program.PaletteKinds))
		return
	}
	g.programSel = wrap(g.programSel+d, len(g.canvas.Chain()))
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// SelectedKind returns the palette kind under the selection.
func (g *Game) SelectedKind() program.Kind {
	return program.PaletteKinds[g.paletteSel]
}

// Selected returns the program block under the selection.
func (g *Game) Selected() (program.Placed, bool) {
	chain := g.canvas.Chain()
	if len(chain) == 0 {
		return program.Placed{}, false
	}
	return chain[core.Clamp(g.programSel, 0, len(chain)-1)], true
}

// place inserts the selected palette kind after the selected program block,
// or under the start block when the program is empty.
func (g *Game) place() {
	after := editor.StartID
	if sel, ok := g.Selected(); ok {
		after = sel.ID
	}
	id, err := g.canvas.Place(g.SelectedKind(), after)
	if err != nil {
		g.say(err.Error())
		return
	}
	for i, b := range g.canvas.Chain() {
		if b.ID == id {
			g.programSel = i
		}
	}
}

func (g *Game) shift(d int) {
	chain := g.canvas.Chain()
	if g.focus != FocusProgram || len(chain) < 2 {
		return
	}
	i := core.Clamp(g.programSel, 0, len(chain)-1)
	j := i + d
	if j < 0 || j >= len(chain) {
		return
	}
	if err := g.canvas.Swap(chain[i].ID, chain[j].ID); err == nil {
		g.programSel = j
	}
}

func (g *Game) trash() {
	sel, ok := g.Selected()
	if !ok || g.focus != FocusProgram {
		return
	}
	if err := g.canvas.Remove(sel.ID); err == nil {
		g.programSel = core.Clamp(g.programSel, 0, core.Max(len(g.canvas.Chain())-1, 0))
	}
}

// cycle steps the selected block's parameter. Counts go up by one and
// wrap after 9; named conditions go to the next option.
func (g *Game) cycle() {
	sel, ok := g.Selected()
	if !ok || g.focus != FocusProgram {
		return
	}
	n, err := strconv.Atoi(sel.Param)
	numeric := err == nil && (sel.Kind.HasCount() || sel.Kind == program.KindFor)
	switch {
	case numeric:
		low := 1
		if sel.Kind == program.KindFor {
			low = 0
		}
		if n++; n > 9 || n < low {
			n = low
		}
		_ = g.canvas.SetParam(sel.ID, strconv.Itoa(n))
	case sel.Kind.HasPredicate():
		_ = g.canvas.SetParam(sel.ID, program.NextOption(sel.Param))
	case sel.Kind.HasCount():
		_ = g.canvas.SetParam(sel.ID, sel.Kind.DefaultParam())
	}
}

// SetSelectedParam replaces the selected block's parameter text. The text
// is checked when the program runs.
func (g *Game) SetSelectedParam(text string) error {
	sel, ok := g.Selected()
	if !ok {
		return fmt.Errorf("probot: no block selected")
	}
	if !sel.Kind.HasPredicate() && !sel.Kind.HasCount() {
		return fmt.Errorf("probot: %s takes no parameter", sel.Kind)
	}
	return g.canvas.SetParam(sel.ID, text)
}

// Frame snapshots the engine for renderers and spectators.
func (g *Game) Frame() engine.Frame {
	return g.engine.Frame(g.lastEvents)
}

// SaveLayout stores the placed blocks for this level.
func (g *Game) SaveLayout(store *layout.Store) error {
	return store.Save(g.level.ID, g.canvas.Records())
}

// LoadLayout restores the placed blocks saved for this level. It reports
// false when nothing was saved.
func (g *Game) LoadLayout(store *layout.Store) (bool, error) {
	records, err := store.Load(g.level.ID)
	if err != nil || records == nil {
		return false, err
	}
	if err := g.canvas.Restore(records); err != nil {
		return false, err
	}
	g.programSel = 0
	return true, nil
}
