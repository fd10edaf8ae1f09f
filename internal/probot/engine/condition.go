package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-probot/internal/probot/program"
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Evaluate answers a conditional block's predicate for a bot at `at`
// facing `facing`. The grid edge counts as a wall, and as neither a button
// nor a door. Doors are not walls; "door is open" asks about them. counter
// is the opener's loop count and is only touched by numeric bounds.
func Evaluate(pred program.Predicate, w *world.World, at world.Coord, facing world.Dir, counter *int) (bool, error) {
	ahead, onGrid := w.Ahead(at, facing)

	switch pred.Kind {
	case program.PredWallAhead:
		return wallAhead(w, ahead, onGrid), nil
	case program.PredWallNotAhead:
		return !wallAhead(w, ahead, onGrid), nil
	case program.PredButtonPressed:
		if !onGrid {
			return false, nil
		}
		o, ok := w.ObstacleAt(ahead)
		return ok && o.Kind == world.ObstacleButton && w.ButtonPressed(o.ID), nil
	case program.PredDoorOpen:
		if !onGrid {
			return false, nil
		}
		o, ok := w.ObstacleAt(ahead)
		return ok && o.Kind == world.ObstacleDoor && w.DoorOpen(o.ID), nil
	case program.PredTrue:
		return true, nil
	case program.PredBound:
		if counter == nil {
			return false, fmt.Errorf("engine: bound %d has no counter", pred.Bound)
		}
		if *counter < pred.Bound {
			*counter++
			return true, nil
		}
		return false, nil
	default:
		return false, fmt.Errorf("engine: unknown predicate %q", pred.Raw)
	}
}

func wallAhead(w *world.World, ahead world.Coord, onGrid bool) bool {
	if !onGrid {
		return true
	}
	tile, err := w.TileAt(ahead)
	return err != nil || tile == world.TileWall
}
