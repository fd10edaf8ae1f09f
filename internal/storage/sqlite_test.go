package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, store *Store, player, level string, blocks, ticks int) {
	t.Helper()
	if _, err := store.SaveScore(ScoreEntry{Player: player, LevelID: level, Blocks: blocks, Ticks: ticks}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreTopScoresOrder(t *testing.T) {
	store := openStore(t)

	save(t, store, "ann", "level1", 5, 900)
	save(t, store, "bob", "level1", 3, 700)
	save(t, store, "cy", "level1", 3, 400)
	save(t, store, "ann", "level2", 1, 10)

	scores, err := store.TopScores("level1", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// fewest blocks first, then fewest ticks
	expected := []string{"cy", "bob", "ann"}
	for i, e := range scores {
		if e.Player != expected[i] {
			t.Errorf("scores[%d].Player = %s, expected %s", i, e.Player, expected[i])
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openStore(t)
	for i := 0; i < 15; i++ {
		save(t, store, "ann", "level3", i+1, 0)
	}

	scores, err := store.TopScores("level3", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}

	scores, _ = store.TopScores("level3", 0)
	if len(scores) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(scores))
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openStore(t)

	best, err := store.BestScore("ann", "level1")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != DefaultPoints {
		t.Errorf("BestScore() unsolved = %d, expected %d", best, DefaultPoints)
	}

	save(t, store, "ann", "level1", 7, 0)
	save(t, store, "ann", "level1", 4, 0)
	save(t, store, "bob", "level1", 2, 0)

	if best, _ := store.BestScore("ann", "level1"); best != 4 {
		t.Errorf("BestScore() = %d, expected 4", best)
	}

	store.SetDefaultPoints(50)
	if best, _ := store.BestScore("ann", "level2"); best != 50 {
		t.Errorf("BestScore() with custom default = %d, expected 50", best)
	}
}

func TestStoreSaveScoreRequiresKeys(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveScore(ScoreEntry{LevelID: "level1", Blocks: 1}); err == nil {
		t.Error("SaveScore() without player expected error")
	}
}

func TestStoreProgress(t *testing.T) {
	store := openStore(t)
	save(t, store, "ann", "level1", 6, 0)
	save(t, store, "ann", "level1", 3, 0)
	save(t, store, "ann", "level4", 9, 0)
	save(t, store, "bob", "level2", 1, 0)

	progress, err := store.Progress("ann")
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	if len(progress) != 2 || progress["level1"] != 3 || progress["level4"] != 9 {
		t.Errorf("Progress() = %v", progress)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openStore(t)
	save(t, store, "ann", "level1", 3, 0)
	save(t, store, "ann", "level2", 3, 0)

	if err := store.ClearScores("level1"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("level1", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("level2", 10); len(scores) != 1 {
		t.Errorf("Expected level2 to keep 1 score, got %d", len(scores))
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openStore(t)

	empty, err := store.LevelStats("level5")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Solves != 0 || !empty.LastSolved.IsZero() {
		t.Errorf("LevelStats() unsolved = %+v", empty)
	}

	save(t, store, "ann", "level5", 4, 0)
	save(t, store, "bob", "level5", 8, 0)
	save(t, store, "cy", "level5", 6, 0)

	stats, err := store.LevelStats("level5")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if stats.Solves != 3 || stats.Best != 4 || stats.Worst != 8 || stats.Average != 6 {
		t.Errorf("LevelStats() = %+v", stats)
	}
}

func TestStoreAllLevelStats(t *testing.T) {
	store := openStore(t)
	save(t, store, "ann", "level1", 2, 0)
	save(t, store, "ann", "level3", 5, 0)
	save(t, store, "bob", "level3", 7, 0)

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 levels, got %d", len(all))
	}
	if s := all["level3"]; s.Solves != 2 || s.Best != 5 || s.Worst != 7 {
		t.Errorf("level3 stats = %+v", s)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.probot/scores.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".probot", "scores.db")); err != nil {
		t.Errorf("Database not created under home: %v", err)
	}
}
