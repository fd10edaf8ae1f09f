package layout

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{Kind: "for", X: 830, Y: 280, Param: "3"},
		{Kind: "move", X: 830, Y: 320, Param: "2"},
		{Kind: "endfor", X: 830, Y: 360},
		{Kind: "if", X: 400, Y: 100, Param: "wall ahead"},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := NewStore(t.TempDir(), 10)

	if err := s.Save("2", sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load("2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleRecords()) {
		t.Errorf("Load() = %+v, expected records in saved order", got)
	}

	// Saving again replaces the layout.
	if err := s.Save("2", sampleRecords()[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := s.Load("2"); len(got) != 1 {
		t.Errorf("Load() after overwrite = %d records, expected 1", len(got))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir(), 10)

	got, err := s.Load("tutorial")
	if err != nil || got != nil {
		t.Errorf("Load(missing) = %v, %v; expected nil, nil", got, err)
	}
	if err := s.Delete("tutorial"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(t.TempDir(), 10)
	if err := s.Save("1", sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	path, _ := s.Path("1")
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("layout file still exists: %v", err)
	}
}

func TestRecordBound(t *testing.T) {
	s := NewStore(t.TempDir(), 3)

	if err := s.Save("5", sampleRecords()); !errors.Is(err, ErrTooManyRecords) {
		t.Errorf("Save() over the bound error = %v, expected ErrTooManyRecords", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := Read(bytes.NewReader(buf.Bytes()), 3); !errors.Is(err, ErrTooManyRecords) {
		t.Errorf("Read() over the bound error = %v, expected ErrTooManyRecords", err)
	}
	if got, err := Read(bytes.NewReader(buf.Bytes()), 4); err != nil || len(got) != 4 {
		t.Errorf("Read() at the bound = %d records, %v", len(got), err)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not zstd at all")), 10); err == nil {
		t.Error("Read() of garbage should fail")
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s := NewStore(t.TempDir(), 10)
	for _, id := range []string{"", "..", "../x", `a\b`} {
		if _, err := s.Path(id); err == nil {
			t.Errorf("Path(%q) should fail", id)
		}
	}
}

func TestForPlayer(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		player string
		dir    string
	}{
		{"ann", "ann"},
		{"../evil", "evil"},
		{"", "player"},
		{"a b/c", "abc"},
	}
	for _, tt := range tests {
		if got := ForPlayer(root, tt.player, 10).Dir(); got != filepath.Join(root, tt.dir) {
			t.Errorf("ForPlayer(%q).Dir() = %s, expected %s", tt.player, got, filepath.Join(root, tt.dir))
		}
	}
}
