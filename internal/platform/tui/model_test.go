package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot"
	"github.com/vovakirdan/tui-probot/internal/probot/engine"
	"github.com/vovakirdan/tui-probot/internal/probot/layout"
	"github.com/vovakirdan/tui-probot/internal/probot/levels"
	"github.com/vovakirdan/tui-probot/internal/probot/program"
	"github.com/vovakirdan/tui-probot/internal/registry"
	"github.com/vovakirdan/tui-probot/internal/storage"
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

type recorder struct {
	levels []string
	frames []engine.Frame
}

func (r *recorder) SetLevel(id string)     { r.levels = append(r.levels, id) }
func (r *recorder) Publish(f engine.Frame) { r.frames = append(r.frames, f) }

func testEnv(t *testing.T) Env {
	t.Helper()
	dir := t.TempDir()
	levelDir := filepath.Join(dir, "levels")
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(levelDir, "corridor.yaml"), []byte(corridor), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.Open(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return Env{
		Config:     config.DefaultProBotConfig(),
		Catalog:    registry.NewCatalog(levelDir),
		Store:      store,
		LayoutRoot: filepath.Join(dir, "layouts"),
		Player:     "tester",
		Logger:     log.New(io.Discard),
	}
}

func newGameModel(t *testing.T, env Env) GameModel {
	t.Helper()
	lvl, err := levels.Parse([]byte(corridor))
	if err != nil {
		t.Fatalf("levels.Parse() error = %v", err)
	}
	game, err := probot.New(lvl, env.Config)
	if err != nil {
		t.Fatalf("probot.New() error = %v", err)
	}
	return NewGameModel(env, game, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: GameTickRate})
}

func send(t *testing.T, m GameModel, msgs ...tea.Msg) GameModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		gm, ok := next.(GameModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = gm
	}
	return m
}

var tick = TickMsg{}

func TestGameModelSolveSavesScore(t *testing.T) {
	env := testEnv(t)
	rec := &recorder{}
	env.Spectate = rec
	m := newGameModel(t, env)

	m = send(t, m, keyMsg("enter"), tick, keyMsg("tab"), tick,
		keyMsg("c"), tick, keyMsg("c"), tick, keyMsg("r"), tick)
	if !m.State().Running {
		t.Fatal("program not running after r")
	}
	for i := 0; i < 500 && !m.State().Solved; i++ {
		m = send(t, m, tick)
	}
	if !m.State().Solved {
		t.Fatal("corridor not solved")
	}

	scores, err := env.Store.TopScores("corridor", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, expected 1", len(scores))
	}
	if scores[0].Player != "tester" || scores[0].Blocks != 1 || scores[0].RunID == "" {
		t.Errorf("score = %+v, expected tester with 1 block and a run id", scores[0])
	}

	if len(rec.levels) != 1 || rec.levels[0] != "corridor" {
		t.Errorf("spectated levels = %v, expected [corridor]", rec.levels)
	}
	if len(rec.frames) == 0 {
		t.Fatal("no frames published")
	}
	if last := rec.frames[len(rec.frames)-1]; !last.Goal {
		t.Errorf("last frame = %+v, expected the goal reached", last)
	}
}

func TestGameModelBackSavesLayout(t *testing.T) {
	env := testEnv(t)
	m := newGameModel(t, env)

	m = send(t, m, keyMsg("enter"), tick, keyMsg("esc"), tick)
	if !m.BackToMenu() {
		t.Fatal("BackToMenu() = false after esc")
	}

	store := layout.ForPlayer(env.LayoutRoot, "tester", env.Config.Layout.MaxRecords)
	records, err := store.Load("corridor")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].Kind != program.KindMove.String() {
		t.Errorf("records = %+v, expected one Move", records)
	}

	// the next session picks it up
	again := newGameModel(t, env)
	if got := again.game.Canvas().Points(); got != 1 {
		t.Errorf("restored Points() = %d, expected 1", got)
	}
}

func TestGameModelEditParam(t *testing.T) {
	env := testEnv(t)
	m := newGameModel(t, env)

	m = send(t, m, keyMsg("e"))
	if m.IsEditing() {
		t.Fatal("editing opened with the palette focused")
	}

	m = send(t, m, keyMsg("enter"), tick, keyMsg("tab"), tick, keyMsg("e"))
	if !m.IsEditing() {
		t.Fatal("editing not opened on a Move block")
	}
	m = send(t, m, keyMsg("backspace"), keyMsg("7"), keyMsg("enter"))
	if m.IsEditing() {
		t.Error("still editing after enter")
	}
	sel, ok := m.game.Selected()
	if !ok || sel.Param != "7" {
		t.Errorf("Selected() = %+v, %v, expected param 7", sel, ok)
	}
	if got := m.game.Canvas().Points(); got != 1 {
		t.Errorf("Points() = %d, expected 1 (backspace must not trash while editing)", got)
	}
}

func TestGameModelQuit(t *testing.T) {
	env := testEnv(t)
	m := newGameModel(t, env)

	next, cmd := m.Update(keyMsg("q"))
	gm := next.(GameModel)
	if !gm.IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if cmd == nil {
		t.Error("quit returned no command")
	}
	if gm.View() != "" {
		t.Error("View() not empty after quit")
	}
}

func TestGameModelTooSmall(t *testing.T) {
	env := testEnv(t)
	m := newGameModel(t, env)

	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if view := m.View(); !strings.Contains(view, "Terminal too small") {
		t.Errorf("View() = %q, expected a size warning", view)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: MinWidth, Height: MinHeight})
	if view := m.View(); !strings.Contains(view, "ProBot - Corridor") {
		t.Errorf("View() missing the title: %q", view)
	}
}
