package builtin

import (
	"testing"

	"github.com/vovakirdan/tui-probot/internal/probot/world"
	"github.com/vovakirdan/tui-probot/internal/registry"
)

func TestBuiltinLevelsRegistered(t *testing.T) {
	expected := []string{"tutorial", "level1", "level2", "level3", "level4", "level5"}

	var got []string
	for _, info := range registry.List() {
		got = append(got, info.ID)
	}
	if len(got) != len(expected) {
		t.Fatalf("List() = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("List()[%d] = %s, expected %s", i, got[i], expected[i])
		}
	}
}

func TestBuiltinLevelsBuild(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			lvl, err := registry.Create(info.ID)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if lvl.Rows != 9 || lvl.Cols != 18 {
				t.Errorf("size = %dx%d, expected 9x18", lvl.Rows, lvl.Cols)
			}
			if lvl.Spawn != world.C(8, 17) || lvl.Facing != world.DirUp {
				t.Errorf("spawn = %s %s", lvl.Spawn, lvl.Facing)
			}
			if lvl.Hint == "" {
				t.Error("missing hint")
			}
			w, err := lvl.World()
			if err != nil {
				t.Fatalf("World() error = %v", err)
			}
			_, hasGoal := w.Goal()
			if hasGoal == (info.ID == "tutorial") {
				t.Errorf("Goal() present = %v", hasGoal)
			}
		})
	}
}

func TestLevel4Links(t *testing.T) {
	lvl, err := registry.Create("level4")
	if err != nil {
		t.Fatal(err)
	}
	w, err := lvl.World()
	if err != nil {
		t.Fatal(err)
	}

	// the button in the top-left corner opens the first door
	button, ok := w.ObstacleAt(world.C(0, 3))
	if !ok || button.Kind != world.ObstacleButton {
		t.Fatalf("ObstacleAt(0,3) = %+v", button)
	}
	door, _ := w.Link(button.ID)
	if o := w.Obstacles()[door]; o.At != world.C(3, 7) {
		t.Errorf("b1 opens door at %s, expected (3,7)", o.At)
	}

	worm, _ := w.ObstacleAt(world.C(8, 14))
	partner, _ := w.Link(worm.ID)
	if o := w.Obstacles()[partner]; o.At != world.C(8, 3) {
		t.Errorf("w1 partner at %s, expected (8,3)", o.At)
	}
}

func TestLevel5Buttons(t *testing.T) {
	lvl, err := registry.Create("level5")
	if err != nil {
		t.Fatal(err)
	}
	w, _ := lvl.World()

	linked := 0
	buttons := 0
	for _, o := range w.Obstacles() {
		if o.Kind != world.ObstacleButton {
			continue
		}
		buttons++
		if _, ok := w.Link(o.ID); ok {
			linked++
		}
	}
	if buttons != 13*4 {
		t.Errorf("buttons = %d, expected %d", buttons, 13*4)
	}
	if linked != 1 {
		t.Errorf("linked buttons = %d, expected 1", linked)
	}
}
