// Package world models a ProBot level: an immutable tile grid plus the
// dynamic state of its doors, buttons and wormholes.
package world

import (
	"fmt"
	"strings"
)

// Coord is a tile position. Row grows downward, Col grows to the right.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// C is a convenience constructor for Coord.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Step returns the neighbouring coordinate in the given direction.
func (c Coord) Step(d Dir) Coord {
	dr, dc := d.Delta()
	return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// Dir is a facing direction, ordered clockwise.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the row and column offset of one step.
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// Turn rotates the direction by n quarter turns clockwise. Negative n
// turns counter-clockwise.
func (d Dir) Turn(n int) Dir {
	r := (int(d) + n) % 4
	if r < 0 {
		r += 4
	}
	return Dir(r)
}

// ParseDir parses a direction name as written in level files.
func ParseDir(s string) (Dir, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "":
		return DirUp, nil
	case "right":
		return DirRight, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	default:
		return DirUp, fmt.Errorf("world: unknown direction %q", s)
	}
}

// Tile is the immutable base kind of a grid cell.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileWall
	TileGoal
)

func (t Tile) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TileGoal:
		return "goal"
	default:
		return "unknown"
	}
}

// ObstacleKind distinguishes the dynamic grid entities.
type ObstacleKind uint8

const (
	ObstacleDoor ObstacleKind = iota
	ObstacleButton
	ObstacleWormhole
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleDoor:
		return "door"
	case ObstacleButton:
		return "button"
	case ObstacleWormhole:
		return "wormhole"
	default:
		return "unknown"
	}
}

// Obstacle is a door, button or wormhole placed on a tile.
// ID is its index in the world's obstacle table.
type Obstacle struct {
	ID   int
	Kind ObstacleKind
	At   Coord
	Name string
}

// EffectKind names what happened when the bot entered a tile.
type EffectKind uint8

const (
	EffectButtonPressed EffectKind = iota
	EffectDoorOpened
	EffectTeleported
	EffectGoalReached
)

func (k EffectKind) String() string {
	switch k {
	case EffectButtonPressed:
		return "button_pressed"
	case EffectDoorOpened:
		return "door_opened"
	case EffectTeleported:
		return "teleported"
	case EffectGoalReached:
		return "goal_reached"
	default:
		return "unknown"
	}
}

// SideEffect is one world mutation caused by entering a tile.
// For teleports At is the entered wormhole and To is the partner's tile.
type SideEffect struct {
	Kind     EffectKind `json:"kind"`
	Obstacle int        `json:"obstacle"`
	At       Coord      `json:"at"`
	To       Coord      `json:"to"`
}
