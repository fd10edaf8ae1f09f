package world

import "fmt"

const noMarker = -1

// World is a level's grid plus the dynamic overlay of its obstacles.
// Links between obstacles live in a relation table keyed by obstacle ID:
// button to door, and wormhole to wormhole in both directions.
type World struct {
	rows, cols int
	tiles      []Tile
	obstacles  []Obstacle
	byCoord    map[Coord]int
	links      map[int]int

	doorOpen []bool
	pressed  []bool
	// marker is the wormhole the bot last arrived on; it blocks an
	// immediate return teleport until the bot stands somewhere else.
	marker int
}

// New builds a world from row-major tiles, an obstacle table whose IDs
// equal their indexes, and the link relation. Malformed input is an error.
func New(rows, cols int, tiles []Tile, obstacles []Obstacle, links map[int]int) (*World, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("world: invalid size %dx%d", rows, cols)
	}
	if len(tiles) != rows*cols {
		return nil, fmt.Errorf("world: got %d tiles for a %dx%d grid", len(tiles), rows, cols)
	}

	w := &World{
		rows:      rows,
		cols:      cols,
		tiles:     append([]Tile(nil), tiles...),
		obstacles: append([]Obstacle(nil), obstacles...),
		byCoord:   make(map[Coord]int, len(obstacles)),
		links:     make(map[int]int, len(links)),
		doorOpen:  make([]bool, len(obstacles)),
		pressed:   make([]bool, len(obstacles)),
		marker:    noMarker,
	}

	for i, o := range w.obstacles {
		if o.ID != i {
			return nil, &LinkError{Obstacle: o.ID, Reason: fmt.Sprintf("id does not match table index %d", i)}
		}
		if !w.InBounds(o.At) {
			return nil, &LinkError{Obstacle: i, Reason: fmt.Sprintf("placed outside the grid at %s", o.At)}
		}
		if w.tiles[w.index(o.At)] == TileWall {
			return nil, &LinkError{Obstacle: i, Reason: fmt.Sprintf("placed on a wall at %s", o.At)}
		}
		if other, taken := w.byCoord[o.At]; taken {
			return nil, &LinkError{Obstacle: i, Reason: fmt.Sprintf("shares tile %s with obstacle %d", o.At, other)}
		}
		w.byCoord[o.At] = i
	}

	for from, to := range links {
		w.links[from] = to
	}
	if err := w.checkLinks(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) checkLinks() error {
	for from, to := range w.links {
		if from < 0 || from >= len(w.obstacles) {
			return &LinkError{Obstacle: from, Reason: "link from unknown obstacle"}
		}
		if to < 0 || to >= len(w.obstacles) {
			return &LinkError{Obstacle: from, Reason: fmt.Sprintf("linked to unknown obstacle %d", to)}
		}
		src, dst := w.obstacles[from], w.obstacles[to]
		switch src.Kind {
		case ObstacleButton:
			if dst.Kind != ObstacleDoor {
				return &LinkError{Obstacle: from, Reason: fmt.Sprintf("button linked to a %s", dst.Kind)}
			}
		case ObstacleWormhole:
			if dst.Kind != ObstacleWormhole || from == to {
				return &LinkError{Obstacle: from, Reason: "wormhole must link to another wormhole"}
			}
			if back, ok := w.links[to]; !ok || back != from {
				return &LinkError{Obstacle: from, Reason: fmt.Sprintf("wormhole link to %d is not symmetric", to)}
			}
		default:
			return &LinkError{Obstacle: from, Reason: fmt.Sprintf("a %s cannot link", src.Kind)}
		}
	}
	for _, o := range w.obstacles {
		if o.Kind != ObstacleWormhole {
			continue
		}
		if _, ok := w.links[o.ID]; !ok {
			return &LinkError{Obstacle: o.ID, Reason: "wormhole has no partner"}
		}
	}
	return nil
}

func (w *World) index(c Coord) int {
	return c.Row*w.cols + c.Col
}

// Rows returns the grid height in tiles.
func (w *World) Rows() int { return w.rows }

// Cols returns the grid width in tiles.
func (w *World) Cols() int { return w.cols }

// InBounds returns true if the coordinate is on the grid.
func (w *World) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < w.rows && c.Col >= 0 && c.Col < w.cols
}

// TileAt returns the base tile, or an OutOfBoundsQueryError off the grid.
func (w *World) TileAt(c Coord) (Tile, error) {
	if !w.InBounds(c) {
		return TileEmpty, &OutOfBoundsQueryError{At: c, Rows: w.rows, Cols: w.cols}
	}
	return w.tiles[w.index(c)], nil
}

// Ahead returns the tile one step from c in direction d and whether it is
// on the grid. The grid edge is reported as ok == false.
func (w *World) Ahead(c Coord, d Dir) (Coord, bool) {
	next := c.Step(d)
	return next, w.InBounds(next)
}

// IsTraversable reports whether the bot may enter c. Off-grid tiles,
// walls and closed doors are not traversable.
func (w *World) IsTraversable(c Coord) bool {
	if !w.InBounds(c) {
		return false
	}
	if w.tiles[w.index(c)] == TileWall {
		return false
	}
	if id, ok := w.byCoord[c]; ok && w.obstacles[id].Kind == ObstacleDoor {
		return w.doorOpen[id]
	}
	return true
}

// ObstacleAt returns the obstacle on c, if any.
func (w *World) ObstacleAt(c Coord) (Obstacle, bool) {
	id, ok := w.byCoord[c]
	if !ok {
		return Obstacle{}, false
	}
	return w.obstacles[id], true
}

// Obstacles returns a copy of the obstacle table.
func (w *World) Obstacles() []Obstacle {
	return append([]Obstacle(nil), w.obstacles...)
}

// Link returns the obstacle linked from id.
func (w *World) Link(id int) (int, bool) {
	to, ok := w.links[id]
	return to, ok
}

// DoorOpen reports whether door id is open.
func (w *World) DoorOpen(id int) bool {
	return id >= 0 && id < len(w.doorOpen) && w.doorOpen[id]
}

// ButtonPressed reports whether button id is pressed.
func (w *World) ButtonPressed(id int) bool {
	return id >= 0 && id < len(w.pressed) && w.pressed[id]
}

// Goal returns the first goal tile in row-major order.
func (w *World) Goal() (Coord, bool) {
	for i, t := range w.tiles {
		if t == TileGoal {
			return Coord{Row: i / w.cols, Col: i % w.cols}, true
		}
	}
	return Coord{}, false
}

// OnEnter applies the effects of the bot arriving on c and returns them in
// order. A button press opens its linked door. A wormhole teleports to its
// partner unless the bot has just arrived through it. Reaching a goal tile,
// directly or through a wormhole, is reported last.
func (w *World) OnEnter(c Coord) []SideEffect {
	if !w.InBounds(c) {
		return nil
	}
	if w.marker != noMarker && w.obstacles[w.marker].At != c {
		w.marker = noMarker
	}

	var effects []SideEffect
	final := c
	if id, ok := w.byCoord[c]; ok {
		switch w.obstacles[id].Kind {
		case ObstacleButton:
			if !w.pressed[id] {
				w.pressed[id] = true
				effects = append(effects, SideEffect{Kind: EffectButtonPressed, Obstacle: id, At: c})
			}
			if door, linked := w.links[id]; linked && !w.doorOpen[door] {
				w.doorOpen[door] = true
				effects = append(effects, SideEffect{Kind: EffectDoorOpened, Obstacle: door, At: w.obstacles[door].At})
			}
		case ObstacleWormhole:
			if w.marker != id {
				partner := w.links[id]
				final = w.obstacles[partner].At
				w.marker = partner
				effects = append(effects, SideEffect{Kind: EffectTeleported, Obstacle: id, At: c, To: final})
			}
		}
	}

	if w.tiles[w.index(final)] == TileGoal {
		effects = append(effects, SideEffect{Kind: EffectGoalReached, At: final})
	}
	return effects
}

// ResetState closes every door, releases every button and clears the
// wormhole marker.
func (w *World) ResetState() {
	for i := range w.doorOpen {
		w.doorOpen[i] = false
		w.pressed[i] = false
	}
	w.marker = noMarker
}

// Clone returns a deep copy with independent dynamic state.
func (w *World) Clone() *World {
	c := &World{
		rows:      w.rows,
		cols:      w.cols,
		tiles:     append([]Tile(nil), w.tiles...),
		obstacles: append([]Obstacle(nil), w.obstacles...),
		byCoord:   make(map[Coord]int, len(w.byCoord)),
		links:     make(map[int]int, len(w.links)),
		doorOpen:  append([]bool(nil), w.doorOpen...),
		pressed:   append([]bool(nil), w.pressed...),
		marker:    w.marker,
	}
	for k, v := range w.byCoord {
		c.byCoord[k] = v
	}
	for k, v := range w.links {
		c.links[k] = v
	}
	return c
}
