// Package storage provides SQLite-based persistence for level scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPoints is the score of a level nobody has solved. Lower is better.
const DefaultPoints = 100

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db            *sql.DB
	defaultPoints int
}

// ScoreEntry is one solved run. Blocks is the level score.
type ScoreEntry struct {
	ID        int64
	Player    string
	LevelID   string
	RunID     string
	Blocks    int
	Ticks     int
	CreatedAt time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID    string
	Solves     int
	Best       int
	Worst      int
	Average    float64
	LastSolved time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, defaultPoints: DefaultPoints}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS level_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			level_id TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			blocks INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_level_scores_level ON level_scores(level_id, blocks, ticks);
		CREATE INDEX IF NOT EXISTS idx_level_scores_player ON level_scores(player, level_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SetDefaultPoints changes the score reported for unsolved levels.
func (s *Store) SetDefaultPoints(points int) {
	s.defaultPoints = points
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a solved run.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	if e.Player == "" || e.LevelID == "" {
		return 0, errors.New("storage: cannot save score: player and level are required")
	}
	result, err := s.db.Exec(
		"INSERT INTO level_scores (player, level_id, run_id, blocks, ticks) VALUES (?, ?, ?, ?, ?)",
		e.Player, e.LevelID, e.RunID, e.Blocks, e.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the best N runs for the given level.
// Fewer blocks wins; ties go to the faster run.
func (s *Store) TopScores(levelID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, level_id, run_id, blocks, ticks, created_at
		 FROM level_scores
		 WHERE level_id = ?
		 ORDER BY blocks ASC, ticks ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.LevelID, &e.RunID, &e.Blocks, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestScore returns the player's fewest blocks on the level, or the default
// points when the player has not solved it.
func (s *Store) BestScore(player, levelID string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(blocks) FROM level_scores WHERE player = ? AND level_id = ?",
		player, levelID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !best.Valid {
		return s.defaultPoints, nil
	}
	return int(best.Int64), nil
}

// Progress returns the player's best score per solved level.
func (s *Store) Progress(player string) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT level_id, MIN(blocks) FROM level_scores WHERE player = ? GROUP BY level_id",
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var level string
		var best int
		if err := rows.Scan(&level, &best); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		progress[level] = best
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return progress, nil
}

// ClearScores deletes all scores for the given level.
func (s *Store) ClearScores(levelID string) error {
	_, err := s.db.Exec("DELETE FROM level_scores WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// LevelStats retrieves aggregated statistics for a specific level.
// A level without solves reports zero counts.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var lastSolved any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(blocks), 0), COALESCE(MAX(blocks), 0), COALESCE(AVG(blocks), 0), MAX(created_at)
		 FROM level_scores WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Solves, &stats.Best, &stats.Worst, &stats.Average, &lastSolved)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastSolved = parseTime(lastSolved)

	return stats, nil
}

// AllLevelStats retrieves statistics for all levels that have been solved.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), MIN(blocks), MAX(blocks), AVG(blocks), MAX(created_at)
		 FROM level_scores
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastSolved any
		if err := rows.Scan(&ls.LevelID, &ls.Solves, &ls.Best, &ls.Worst, &ls.Average, &lastSolved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastSolved = parseTime(lastSolved)
		stats[ls.LevelID] = &ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
