package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-probot/internal/probot/levels/formats"
)

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files, skipping files that
// fail to load. Levels come back in play order.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	err := l.walk(func(path string) {
		if level, err := l.LoadFile(path); err == nil {
			levels = append(levels, level)
		}
	})
	if err != nil {
		return nil, err
	}
	Sort(levels)
	return levels, nil
}

// Check loads every level file and returns one error per file that fails,
// keyed by path.
func (l *Loader) Check() (map[string]error, int, error) {
	failures := make(map[string]error)
	seen := make(map[string]string)
	total := 0
	err := l.walk(func(path string) {
		total++
		level, err := l.LoadFile(path)
		if err != nil {
			failures[path] = err
			return
		}
		if prev, dup := seen[level.ID]; dup {
			failures[path] = ValidationError{Code: CodeDuplicate,
				Message: fmt.Sprintf("level id %q already used by %s", level.ID, prev)}
			return
		}
		seen[level.ID] = path
	})
	if err != nil {
		return nil, 0, err
	}
	return failures, total, nil
}

func (l *Loader) walk(fn func(path string)) error {
	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		fn(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("levels: cannot walk %s: %w", l.Root, err)
	}
	return nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: cannot read %s: %w", path, err)
	}

	level, err := parseByExtension(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return Level{}, fmt.Errorf("levels: cannot parse %s: %w", path, err)
	}
	level.FilePath = path
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("levels: level not found: %s", id)
}

// ListIDs returns all level IDs in play order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func parseByExtension(data []byte, ext string) (Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return Parse(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
