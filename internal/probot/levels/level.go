// Package levels loads ProBot levels from YAML files and turns them into
// worlds. This package depends on world but world does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-probot/internal/probot/levels/formats"
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// ValidationError reports why a level file cannot be played.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation codes.
const (
	CodeSchema    = "SCHEMA"
	CodeLayout    = "BAD_LAYOUT"
	CodeSpawn     = "BAD_SPAWN"
	CodeObstacle  = "BAD_OBSTACLE"
	CodeLink      = "BAD_LINK"
	CodeDuplicate = "DUPLICATE_NAME"
)

// Level is a validated level definition. Worlds built from it are
// independent of each other.
type Level struct {
	ID     string
	Name   string
	Order  int
	Hint   string
	Rows   int
	Cols   int
	Spawn  world.Coord
	Facing world.Dir

	Tiles     []world.Tile
	Obstacles []world.Obstacle
	Links     map[int]int

	FilePath string
}

// World builds a fresh world for the level.
func (l *Level) World() (*world.World, error) {
	w, err := world.New(l.Rows, l.Cols, l.Tiles, l.Obstacles, l.Links)
	if err != nil {
		return nil, fmt.Errorf("levels: cannot build %s: %w", l.ID, err)
	}
	return w, nil
}

// Parse validates a YAML level and converts it.
func Parse(data []byte) (Level, error) {
	doc, err := formats.ParseYAML(data)
	if err != nil {
		if errors.Is(err, formats.ErrSchema) {
			return Level{}, ValidationError{Code: CodeSchema, Message: err.Error()}
		}
		return Level{}, err
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded document into a level.
//
// Door (6) and button (8) cells become obstacles of that kind. A declared
// obstacle on such a cell names it so other obstacles can link to it;
// declaring a different kind there is an error.
func FromDocument(doc formats.Document) (Level, error) {
	if len(doc.Layout) == 0 || len(doc.Layout[0]) == 0 {
		return Level{}, ValidationError{Code: CodeLayout, Message: "layout is empty"}
	}
	rows := len(doc.Layout)
	cols := len(doc.Layout[0])
	lvl := Level{
		ID:     doc.ID,
		Name:   doc.Name,
		Order:  doc.Order,
		Hint:   doc.Hint,
		Rows:   rows,
		Cols:   cols,
		Tiles:  make([]world.Tile, 0, rows*cols),
		Links:  make(map[int]int),
		Spawn:  world.C(rows-1, cols-1),
		Facing: world.DirUp,
	}

	byCoord := make(map[world.Coord]int)
	for r, line := range doc.Layout {
		if len(line) != cols {
			return Level{}, ValidationError{Code: CodeLayout,
				Message: fmt.Sprintf("row %d has %d cells, expected %d", r, len(line), cols)}
		}
		for c, code := range line {
			tile := world.TileEmpty
			switch code {
			case formats.CodeWall:
				tile = world.TileWall
			case formats.CodeGoal:
				tile = world.TileGoal
			case formats.CodeDoor:
				byCoord[world.C(r, c)] = lvl.addObstacle(world.ObstacleDoor, world.C(r, c), "")
			case formats.CodeButton:
				byCoord[world.C(r, c)] = lvl.addObstacle(world.ObstacleButton, world.C(r, c), "")
			case formats.CodeEmpty:
			default:
				return Level{}, ValidationError{Code: CodeLayout,
					Message: fmt.Sprintf("unknown tile code %d at %s", code, world.C(r, c))}
			}
			lvl.Tiles = append(lvl.Tiles, tile)
		}
	}

	names := make(map[string]int)
	for _, o := range doc.Obstacles {
		at := world.C(o.Row, o.Col)
		if o.Row >= rows || o.Col >= cols {
			return Level{}, ValidationError{Code: CodeObstacle,
				Message: fmt.Sprintf("%s is outside the %dx%d grid", o.Name, rows, cols)}
		}
		if _, dup := names[o.Name]; dup {
			return Level{}, ValidationError{Code: CodeDuplicate,
				Message: fmt.Sprintf("obstacle name %q is used twice", o.Name)}
		}
		kind, err := parseKind(o.Kind)
		if err != nil {
			return Level{}, err
		}

		id, exists := byCoord[at]
		switch {
		case exists && lvl.Obstacles[id].Kind != kind:
			return Level{}, ValidationError{Code: CodeObstacle,
				Message: fmt.Sprintf("%s declared as %s on a %s cell", o.Name, kind, lvl.Obstacles[id].Kind)}
		case exists && lvl.Obstacles[id].Name != "":
			return Level{}, ValidationError{Code: CodeObstacle,
				Message: fmt.Sprintf("%s shares %s with %s", o.Name, at, lvl.Obstacles[id].Name)}
		case exists:
			lvl.Obstacles[id].Name = o.Name
		case kind != world.ObstacleWormhole:
			return Level{}, ValidationError{Code: CodeObstacle,
				Message: fmt.Sprintf("%s %s at %s has no matching cell in the layout", kind, o.Name, at)}
		default:
			id = lvl.addObstacle(kind, at, o.Name)
			byCoord[at] = id
		}
		names[o.Name] = id
	}

	for _, o := range doc.Obstacles {
		if o.Link == "" {
			continue
		}
		to, ok := names[o.Link]
		if !ok {
			return Level{}, ValidationError{Code: CodeLink,
				Message: fmt.Sprintf("%s links to unknown obstacle %q", o.Name, o.Link)}
		}
		lvl.Links[names[o.Name]] = to
	}
	// wormhole pairs need only be declared once
	for from, to := range lvl.Links {
		if lvl.Obstacles[from].Kind != world.ObstacleWormhole {
			continue
		}
		if _, ok := lvl.Links[to]; !ok {
			lvl.Links[to] = from
		}
	}

	if doc.Spawn != nil {
		lvl.Spawn = world.C(doc.Spawn.Row, doc.Spawn.Col)
		facing, err := world.ParseDir(doc.Spawn.Facing)
		if err != nil {
			return Level{}, ValidationError{Code: CodeSpawn, Message: err.Error()}
		}
		lvl.Facing = facing
	}
	if lvl.Spawn.Row >= rows || lvl.Spawn.Col >= cols {
		return Level{}, ValidationError{Code: CodeSpawn,
			Message: fmt.Sprintf("spawn %s is outside the %dx%d grid", lvl.Spawn, rows, cols)}
	}
	if lvl.Tiles[lvl.Spawn.Row*cols+lvl.Spawn.Col] == world.TileWall {
		return Level{}, ValidationError{Code: CodeSpawn,
			Message: fmt.Sprintf("spawn %s is a wall", lvl.Spawn)}
	}

	if _, err := lvl.World(); err != nil {
		var le *world.LinkError
		if errors.As(err, &le) {
			return Level{}, ValidationError{Code: CodeLink, Message: describeLinkError(lvl, le)}
		}
		return Level{}, err
	}
	return lvl, nil
}

func (l *Level) addObstacle(kind world.ObstacleKind, at world.Coord, name string) int {
	id := len(l.Obstacles)
	l.Obstacles = append(l.Obstacles, world.Obstacle{ID: id, Kind: kind, At: at, Name: name})
	return id
}

func parseKind(s string) (world.ObstacleKind, error) {
	switch s {
	case "door":
		return world.ObstacleDoor, nil
	case "button":
		return world.ObstacleButton, nil
	case "wormhole":
		return world.ObstacleWormhole, nil
	}
	return 0, ValidationError{Code: CodeObstacle, Message: fmt.Sprintf("unknown obstacle kind %q", s)}
}

func describeLinkError(l Level, le *world.LinkError) string {
	if le.Obstacle >= 0 && le.Obstacle < len(l.Obstacles) {
		o := l.Obstacles[le.Obstacle]
		name := o.Name
		if name == "" {
			name = o.Kind.String() + " at " + o.At.String()
		}
		return name + ": " + le.Reason
	}
	return le.Error()
}

// Sort orders levels by Order, then ID.
func Sort(lvls []Level) {
	sort.SliceStable(lvls, func(i, j int) bool {
		if lvls[i].Order != lvls[j].Order {
			return lvls[i].Order < lvls[j].Order
		}
		return lvls[i].ID < lvls[j].ID
	})
}
