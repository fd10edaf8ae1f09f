// Package layout persists a level's block layout as a zstd-compressed
// stream of JSON records, one placed block per line.
package layout

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrTooManyRecords is returned when a layout exceeds the record bound.
var ErrTooManyRecords = errors.New("layout: too many records")

// Record is one placed block: its kind name, canvas position and
// parameter text (a number or a selected condition).
type Record struct {
	Kind  string `json:"kind"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Param string `json:"param,omitempty"`
}

// Write encodes records in order.
func Write(w io.Writer, records []Record) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("layout: cannot create encoder: %w", err)
	}
	bw := bufio.NewWriter(enc)
	je := json.NewEncoder(bw)
	for i, r := range records {
		if err := je.Encode(r); err != nil {
			_ = enc.Close()
			return fmt.Errorf("layout: cannot encode record %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("layout: cannot flush: %w", err)
	}
	return enc.Close()
}

// Read decodes records in order, failing with ErrTooManyRecords once more
// than max records are seen.
func Read(r io.Reader, max int) ([]Record, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("layout: cannot create decoder: %w", err)
	}
	defer dec.Close()

	var records []Record
	jd := json.NewDecoder(bufio.NewReader(dec))
	for {
		var rec Record
		err := jd.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("layout: cannot decode record %d: %w", len(records), err)
		}
		if len(records) == max {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyRecords, max)
		}
		records = append(records, rec)
	}
}

// Store keeps one layout file per level in a directory.
type Store struct {
	dir        string
	maxRecords int
}

// NewStore creates a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, maxRecords int) *Store {
	return &Store{dir: dir, maxRecords: maxRecords}
}

// ForPlayer returns the store holding one player's layouts under root.
// Player names are reduced to letters, digits, '-' and '_'.
func ForPlayer(root, player string, maxRecords int) *Store {
	var b strings.Builder
	for _, r := range player {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "player"
	}
	return NewStore(filepath.Join(root, name), maxRecords)
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a level's layout lives in.
func (s *Store) Path(levelID string) (string, error) {
	if levelID == "" || strings.ContainsAny(levelID, `/\`) || levelID == "." || levelID == ".." {
		return "", fmt.Errorf("layout: invalid level id %q", levelID)
	}
	return filepath.Join(s.dir, levelID+".layout.zst"), nil
}

// Save replaces the level's layout. The file is written next to the target
// and renamed into place.
func (s *Store) Save(levelID string, records []Record) error {
	if len(records) > s.maxRecords {
		return fmt.Errorf("%w: %d of at most %d", ErrTooManyRecords, len(records), s.maxRecords)
	}
	path, err := s.Path(levelID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("layout: cannot create directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, levelID+".*.tmp")
	if err != nil {
		return fmt.Errorf("layout: cannot create file: %w", err)
	}
	if err := Write(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("layout: cannot close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("layout: cannot replace %s: %w", path, err)
	}
	return nil
}

// Load reads the level's layout. A level without a saved layout yields
// no records and no error.
func (s *Store) Load(levelID string) ([]Record, error) {
	path, err := s.Path(levelID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("layout: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, s.maxRecords)
}

// Delete removes the level's layout, if any.
func (s *Store) Delete(levelID string) error {
	path, err := s.Path(levelID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("layout: cannot delete %s: %w", path, err)
	}
	return nil
}
