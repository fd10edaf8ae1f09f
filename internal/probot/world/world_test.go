package world

import (
	"errors"
	"testing"
)

// corridor builds a 1x6 row: empty, button, empty, door, empty, goal.
func corridor(t *testing.T) *World {
	t.Helper()
	tiles := []Tile{TileEmpty, TileEmpty, TileEmpty, TileEmpty, TileEmpty, TileGoal}
	obstacles := []Obstacle{
		{ID: 0, Kind: ObstacleButton, At: C(0, 1)},
		{ID: 1, Kind: ObstacleDoor, At: C(0, 3)},
	}
	w, err := New(1, 6, tiles, obstacles, map[int]int{0: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

// portals builds a 3x3 grid with wormholes at (0,0) and (2,2).
func portals(t *testing.T) *World {
	t.Helper()
	tiles := make([]Tile, 9)
	obstacles := []Obstacle{
		{ID: 0, Kind: ObstacleWormhole, At: C(0, 0)},
		{ID: 1, Kind: ObstacleWormhole, At: C(2, 2)},
	}
	w, err := New(3, 3, tiles, obstacles, map[int]int{0: 1, 1: 0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestDirTurn(t *testing.T) {
	tests := []struct {
		name     string
		from     Dir
		n        int
		expected Dir
	}{
		{"quarter right", DirUp, 1, DirRight},
		{"half turn", DirRight, 2, DirLeft},
		{"full turn", DirDown, 4, DirDown},
		{"negative", DirUp, -1, DirLeft},
		{"negative multi", DirLeft, -6, DirRight},
		{"large", DirUp, 7, DirLeft},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.Turn(tc.n); got != tc.expected {
				t.Errorf("%s.Turn(%d) = %s, expected %s", tc.from, tc.n, got, tc.expected)
			}
		})
	}
}

func TestTileAtOutOfBounds(t *testing.T) {
	w := corridor(t)

	if tile, err := w.TileAt(C(0, 5)); err != nil || tile != TileGoal {
		t.Errorf("TileAt(0,5) = %v, %v; expected goal", tile, err)
	}

	_, err := w.TileAt(C(1, 0))
	var oob *OutOfBoundsQueryError
	if !errors.As(err, &oob) {
		t.Fatalf("TileAt(1,0) error = %v, expected OutOfBoundsQueryError", err)
	}
	if oob.At != C(1, 0) {
		t.Errorf("error coord = %s, expected (1,0)", oob.At)
	}
}

func TestIsTraversable(t *testing.T) {
	tiles := []Tile{TileWall, TileEmpty, TileGoal}
	w, err := New(1, 3, tiles, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name     string
		at       Coord
		expected bool
	}{
		{"wall", C(0, 0), false},
		{"empty", C(0, 1), true},
		{"goal", C(0, 2), true},
		{"left edge", C(0, -1), false},
		{"below grid", C(1, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.IsTraversable(tc.at); got != tc.expected {
				t.Errorf("IsTraversable(%s) = %v, expected %v", tc.at, got, tc.expected)
			}
		})
	}
}

func TestButtonOpensLinkedDoor(t *testing.T) {
	w := corridor(t)

	if w.IsTraversable(C(0, 3)) {
		t.Fatal("closed door should block")
	}

	effects := w.OnEnter(C(0, 1))
	if len(effects) != 2 {
		t.Fatalf("OnEnter(button) effects = %v, expected press and open", effects)
	}
	if effects[0].Kind != EffectButtonPressed || effects[1].Kind != EffectDoorOpened {
		t.Errorf("effects = %v, expected [button_pressed door_opened]", effects)
	}
	if !w.ButtonPressed(0) || !w.DoorOpen(1) {
		t.Error("button should be pressed and door open")
	}
	if !w.IsTraversable(C(0, 3)) {
		t.Error("open door should be traversable")
	}

	if again := w.OnEnter(C(0, 1)); len(again) != 0 {
		t.Errorf("second press effects = %v, expected none", again)
	}

	w.ResetState()
	if w.ButtonPressed(0) || w.DoorOpen(1) {
		t.Error("ResetState should release the button and close the door")
	}
}

func TestWormholeTeleportsOncePerOccupancy(t *testing.T) {
	w := portals(t)

	effects := w.OnEnter(C(0, 0))
	if len(effects) != 1 || effects[0].Kind != EffectTeleported {
		t.Fatalf("OnEnter(wormhole) = %v, expected one teleport", effects)
	}
	if effects[0].To != C(2, 2) {
		t.Errorf("teleport destination = %s, expected (2,2)", effects[0].To)
	}

	// Standing on the arrival wormhole across many ticks.
	for i := 0; i < 5; i++ {
		if again := w.OnEnter(C(2, 2)); len(again) != 0 {
			t.Fatalf("tick %d: OnEnter(arrival) = %v, expected no effects", i, again)
		}
	}

	// Leave, then come back.
	if effects := w.OnEnter(C(2, 1)); len(effects) != 0 {
		t.Fatalf("OnEnter(plain tile) = %v, expected none", effects)
	}
	back := w.OnEnter(C(2, 2))
	if len(back) != 1 || back[0].To != C(0, 0) {
		t.Errorf("return trip = %v, expected teleport to (0,0)", back)
	}
}

func TestWormholeIntoGoal(t *testing.T) {
	tiles := []Tile{TileEmpty, TileEmpty, TileGoal}
	obstacles := []Obstacle{
		{ID: 0, Kind: ObstacleWormhole, At: C(0, 0)},
		{ID: 1, Kind: ObstacleWormhole, At: C(0, 2)},
	}
	w, err := New(1, 3, tiles, obstacles, map[int]int{0: 1, 1: 0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	effects := w.OnEnter(C(0, 0))
	if len(effects) != 2 || effects[1].Kind != EffectGoalReached || effects[1].At != C(0, 2) {
		t.Errorf("effects = %v, expected teleport then goal at (0,2)", effects)
	}
}

func TestNewRejectsBadLinks(t *testing.T) {
	tiles := make([]Tile, 4)
	door := Obstacle{ID: 0, Kind: ObstacleDoor, At: C(0, 0)}
	button := Obstacle{ID: 1, Kind: ObstacleButton, At: C(0, 1)}
	worm := Obstacle{ID: 2, Kind: ObstacleWormhole, At: C(1, 0)}
	worm2 := Obstacle{ID: 3, Kind: ObstacleWormhole, At: C(1, 1)}

	tests := []struct {
		name      string
		obstacles []Obstacle
		links     map[int]int
	}{
		{"button to missing door", []Obstacle{door, button}, map[int]int{1: 7}},
		{"button to wormhole", []Obstacle{door, button, worm, worm2}, map[int]int{1: 2, 2: 3, 3: 2}},
		{"asymmetric wormholes", []Obstacle{door, button, worm, worm2}, map[int]int{2: 3}},
		{"unlinked wormhole", []Obstacle{door, button, worm}, nil},
		{"door as source", []Obstacle{door, button}, map[int]int{0: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(2, 2, tiles, tc.obstacles, tc.links)
			var le *LinkError
			if !errors.As(err, &le) {
				t.Errorf("New() error = %v, expected LinkError", err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := corridor(t)
	c := w.Clone()

	c.OnEnter(C(0, 1))
	if w.DoorOpen(1) {
		t.Error("pressing a button on the clone opened the original door")
	}
	if !c.DoorOpen(1) {
		t.Error("clone door should be open")
	}
}
