// Package engine runs compiled ProBot programs one tick at a time against a
// level's world.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-probot/internal/probot/program"
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Status is the interpreter state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusStopped
	StatusCompleted
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusCompleted:
		return "completed"
	case StatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Options configures an engine.
type Options struct {
	TileSize  int
	Tolerance program.Tolerance
}

// DefaultOptions uses 41 pixel tiles and the editor's snapping distances.
func DefaultOptions() Options {
	return Options{TileSize: 41, Tolerance: program.DefaultTolerance}
}

// Cursor is the instruction pointer plus the progress of a Move in flight.
type Cursor struct {
	Node   int
	Tiles  int // tiles entered by the current Move since it began or teleported
	Target int // distance of the current Move
	moving bool
}

// StepResult reports one tick.
type StepResult struct {
	Status Status
	Events []world.SideEffect
	Err    error
}

// Engine is the interpreter state machine. It owns the bot and mutates the
// world it was given; callers must not share that world between engines.
type Engine struct {
	world *world.World
	spawn Pose
	opts  Options

	bot    Bot
	prog   *program.Program
	cursor Cursor
	status Status
	err    error
	goal   bool
	ticks  int
	runID  string

	// ifOutcome records, per EndIf node, what its If evaluated last.
	ifOutcome map[int]bool
}

// New creates an idle engine with the bot on its spawn pose.
func New(w *world.World, spawn Pose, opts Options) *Engine {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultOptions().TileSize
	}
	e := &Engine{world: w, spawn: spawn, opts: opts}
	e.Reset()
	return e
}

// Run compiles snap and starts executing it from the spawn pose with the
// world's doors, buttons and wormholes reset. Calling Run during a run
// restarts it. A compile error leaves the engine Faulted.
func (e *Engine) Run(snap program.Snapshot) error {
	e.Reset()
	e.runID = uuid.NewString()

	prog, err := program.Compile(snap, e.opts.Tolerance)
	if err != nil {
		e.fault(err)
		return err
	}
	e.prog = prog
	e.cursor = Cursor{Node: prog.Head}
	e.status = StatusRunning
	return nil
}

// Stop ends a run and puts the bot back on its spawn pose.
func (e *Engine) Stop() {
	if e.status == StatusIdle {
		return
	}
	e.status = StatusStopped
	e.cursor = Cursor{Node: program.None}
	e.bot = newBot(e.spawn, e.opts.TileSize)
}

// Reset returns to Idle with a fresh bot and world state.
func (e *Engine) Reset() {
	e.world.ResetState()
	e.bot = newBot(e.spawn, e.opts.TileSize)
	e.prog = nil
	e.cursor = Cursor{Node: program.None}
	e.status = StatusIdle
	e.err = nil
	e.goal = false
	e.ticks = 0
	e.ifOutcome = make(map[int]bool)
}

// Tick advances a running program by one unit of work: one pixel of a
// Move, or one whole Turn, condition or terminator. Errors fault the run.
func (e *Engine) Tick() StepResult {
	if e.status != StatusRunning {
		return StepResult{Status: e.status}
	}
	e.ticks++

	events, err := e.step()
	if err != nil {
		e.fault(err)
		return StepResult{Status: e.status, Events: events, Err: err}
	}
	if e.status == StatusRunning && e.cursor.Node == program.None {
		e.finish(false)
	}
	return StepResult{Status: e.status, Events: events}
}

func (e *Engine) step() ([]world.SideEffect, error) {
	if e.cursor.Node == program.None {
		return nil, nil
	}
	n := &e.prog.Nodes[e.cursor.Node]

	switch n.Kind {
	case program.KindMove:
		return e.stepMove(n)

	case program.KindTurn:
		count, err := program.ParseCount(*n)
		if err != nil {
			return nil, err
		}
		e.bot.Turn(count)
		e.jump(n.Next)

	case program.KindIf, program.KindWhile, program.KindFor:
		ok, err := e.evaluate(n)
		if err != nil {
			return nil, err
		}
		if n.Kind == program.KindIf {
			e.ifOutcome[n.End] = ok
		}
		if ok {
			e.jump(n.Next)
			break
		}
		if n.Kind.IsLoop() {
			n.LoopCount = 0
		}
		e.jump(e.prog.Nodes[n.End].Next)

	case program.KindElse:
		if n.Prev != program.None && e.prog.Nodes[n.Prev].Kind == program.KindEndIf && e.ifOutcome[n.Prev] {
			e.jump(e.prog.Nodes[n.End].Next)
			break
		}
		e.jump(n.Next)

	case program.KindEndWhile, program.KindEndFor:
		if n.ReturnTo != program.None {
			e.jump(n.ReturnTo)
			break
		}
		e.jump(n.Next)

	default:
		e.jump(n.Next)
	}
	return nil, nil
}

// stepMove walks one pixel. The way ahead is checked before the first
// tile and after each tile entered; a blocked Move gives up and the
// program carries on with the next block. A teleport restarts the count,
// so the Move walks its full distance from the partner wormhole.
func (e *Engine) stepMove(n *program.Node) ([]world.SideEffect, error) {
	c := &e.cursor
	if !c.moving {
		target, err := program.ParseCount(*n)
		if err != nil {
			return nil, err
		}
		if target <= 0 || !e.clearAhead() {
			e.jump(n.Next)
			return nil, nil
		}
		c.Target, c.Tiles, c.moving = target, 0, true
	}

	if !e.bot.advancePixel() {
		return nil, nil
	}
	c.Tiles++

	effects := e.world.OnEnter(e.bot.At)
	for _, fx := range effects {
		switch fx.Kind {
		case world.EffectTeleported:
			e.bot.teleport(fx.To)
			c.Tiles = 0
		case world.EffectGoalReached:
			e.finish(true)
		}
	}
	if e.status != StatusRunning {
		return effects, nil
	}
	if c.Tiles >= c.Target || !e.clearAhead() {
		e.jump(n.Next)
	}
	return effects, nil
}

func (e *Engine) clearAhead() bool {
	ahead, _ := e.world.Ahead(e.bot.At, e.bot.Facing)
	return e.world.IsTraversable(ahead)
}

func (e *Engine) evaluate(n *program.Node) (bool, error) {
	pred, err := n.Predicate()
	if err != nil {
		return false, err
	}
	return Evaluate(pred, e.world, e.bot.At, e.bot.Facing, &n.LoopCount)
}

func (e *Engine) jump(next int) {
	e.cursor = Cursor{Node: next}
}

func (e *Engine) finish(goal bool) {
	e.status = StatusCompleted
	e.goal = goal
	e.cursor = Cursor{Node: program.None}
}

func (e *Engine) fault(err error) {
	e.status = StatusFaulted
	e.err = err
	e.cursor = Cursor{Node: program.None}
}

// Status returns the interpreter state.
func (e *Engine) Status() Status { return e.status }

// Err returns the error that faulted the last run.
func (e *Engine) Err() error { return e.err }

// GoalReached reports whether the last completed run ended on the goal.
func (e *Engine) GoalReached() bool { return e.goal }

// Ticks returns the number of ticks the current or last run has taken.
func (e *Engine) Ticks() int { return e.ticks }

// RunID identifies the current or last run.
func (e *Engine) RunID() string { return e.runID }

// Bot returns a copy of the bot.
func (e *Engine) Bot() Bot { return e.bot }

// Spawn returns the level's spawn pose.
func (e *Engine) Spawn() Pose { return e.spawn }

// World returns the world the engine drives.
func (e *Engine) World() *world.World { return e.world }

// Cursor returns the instruction pointer.
func (e *Engine) Cursor() Cursor { return e.cursor }

// CurrentBlock returns the editor block ID under the cursor, or
// program.None when nothing is executing.
func (e *Engine) CurrentBlock() int {
	if e.prog == nil || e.cursor.Node == program.None {
		return program.None
	}
	return e.prog.Nodes[e.cursor.Node].BlockID
}

// Message is the advisory shown to the player for the engine's state.
func (e *Engine) Message() string {
	switch e.status {
	case StatusFaulted:
		return Advisory(e.err)
	case StatusCompleted:
		if e.goal {
			return "level complete"
		}
		return "program finished"
	case StatusStopped:
		return "stopped"
	}
	return ""
}

// Advisory turns a run error into the short message shown to the player.
func Advisory(err error) string {
	var missing *program.MissingEndBlockError
	var bad *program.InvalidParameterError
	var oob *world.OutOfBoundsQueryError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		term, _ := missing.Opener.Terminator()
		return fmt.Sprintf("missing end block: %s needs %s", missing.Opener, term)
	case errors.As(err, &bad):
		return fmt.Sprintf("input error: %s needs %s, got %q", bad.Kind, bad.Expected(), bad.Value)
	case errors.As(err, &oob):
		return "input error: looked outside the board"
	default:
		return "input error"
	}
}
