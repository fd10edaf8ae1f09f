package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/storage"
)

func sendSession(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = sm
	}
	return m
}

func TestSessionMenuGameMenu(t *testing.T) {
	env := testEnv(t)
	m := NewSessionModel(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})

	items := m.menu.Items()
	if len(items) != 1 || items[0].LevelID != "corridor" || items[0].Solved {
		t.Fatalf("menu items = %+v, expected unsolved corridor", items)
	}

	m = sendSession(t, m, keyMsg("enter"))
	if m.screen != screenGame || m.gameModel == nil {
		t.Fatalf("screen = %v, expected the game", m.screen)
	}
	if m.gameModel.game.ID() != "corridor" {
		t.Errorf("game ID = %q, expected corridor", m.gameModel.game.ID())
	}

	m = sendSession(t, m, keyMsg("esc"), tick)
	if m.screen != screenMenu {
		t.Errorf("screen = %v after esc, expected the menu", m.screen)
	}
}

func TestSessionMenuShowsProgress(t *testing.T) {
	env := testEnv(t)
	if _, err := env.Store.SaveScore(storage.ScoreEntry{Player: "tester", LevelID: "corridor", Blocks: 2, Ticks: 90}); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}
	m := NewSessionModel(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})

	items := m.menu.Items()
	if len(items) != 1 || !items[0].Solved || items[0].Best != 2 {
		t.Errorf("menu items = %+v, expected corridor solved with 2 blocks", items)
	}
}

func TestSessionScoreboard(t *testing.T) {
	env := testEnv(t)
	if _, err := env.Store.SaveScore(storage.ScoreEntry{Player: "tester", LevelID: "corridor", Blocks: 1, Ticks: 123}); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}
	m := NewSessionModel(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})

	m = sendSession(t, m, keyMsg("tab"))
	if m.screen != screenScores {
		t.Fatalf("screen = %v, expected the scoreboard", m.screen)
	}
	if got := len(m.scoreboard.Scores()); got != 1 {
		t.Errorf("len(Scores()) = %d, expected 1", got)
	}

	m = sendSession(t, m, keyMsg("esc"))
	if m.screen != screenMenu {
		t.Errorf("screen = %v after esc, expected the menu", m.screen)
	}
}

func TestSessionOpensLevelDirectly(t *testing.T) {
	env := testEnv(t)
	m, err := NewSessionModelAt(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30}, "corridor")
	if err != nil {
		t.Fatalf("NewSessionModelAt() error = %v", err)
	}
	if m.screen != screenGame {
		t.Errorf("screen = %v, expected the game", m.screen)
	}

	if _, err := NewSessionModelAt(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30}, "missing"); err == nil {
		t.Error("NewSessionModelAt(missing) succeeded")
	}
}

func TestSessionQuitFromMenu(t *testing.T) {
	env := testEnv(t)
	m := NewSessionModel(env, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})

	next, cmd := m.Update(keyMsg("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q did not quit the session")
	}
}
