package engine

import (
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Frame is what a renderer or spectator needs to draw one tick.
type Frame struct {
	RunID   string             `json:"run_id"`
	Tick    int                `json:"tick"`
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Goal    bool               `json:"goal"`
	Block   int                `json:"block"`
	Bot     BotFrame           `json:"bot"`
	Doors   []ObstacleState    `json:"doors,omitempty"`
	Buttons []ObstacleState    `json:"buttons,omitempty"`
	Events  []world.SideEffect `json:"events,omitempty"`
}

// BotFrame is the bot's pose in tiles and pixels.
type BotFrame struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Facing string  `json:"facing"`
	Phase  float32 `json:"phase"`
}

// ObstacleState is the visual state of a door (open) or button (pressed).
type ObstacleState struct {
	ID     int         `json:"id"`
	At     world.Coord `json:"at"`
	Active bool        `json:"active"`
}

// Frame snapshots the engine. The result shares nothing with the engine.
func (e *Engine) Frame(events []world.SideEffect) Frame {
	x, y := e.bot.PixelPos()
	f := Frame{
		RunID:   e.runID,
		Tick:    e.ticks,
		Status:  e.status.String(),
		Message: e.Message(),
		Goal:    e.goal,
		Block:   e.CurrentBlock(),
		Bot: BotFrame{
			Row:    e.bot.At.Row,
			Col:    e.bot.At.Col,
			X:      x,
			Y:      y,
			Facing: e.bot.Facing.String(),
			Phase:  e.bot.Phase,
		},
		Events: append([]world.SideEffect(nil), events...),
	}
	for _, o := range e.world.Obstacles() {
		switch o.Kind {
		case world.ObstacleDoor:
			f.Doors = append(f.Doors, ObstacleState{ID: o.ID, At: o.At, Active: e.world.DoorOpen(o.ID)})
		case world.ObstacleButton:
			f.Buttons = append(f.Buttons, ObstacleState{ID: o.ID, At: o.At, Active: e.world.ButtonPressed(o.ID)})
		}
	}
	return f
}
