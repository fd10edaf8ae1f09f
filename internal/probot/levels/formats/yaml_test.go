package formats

import (
	"errors"
	"testing"
)

const small = `
id: small
name: Small
hint: go up
spawn: {row: 1, col: 0, facing: right}
layout:
  - [0, 3]
  - [0, 8]
obstacles:
  - {name: b, kind: button, row: 1, col: 1}
`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(small))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if doc.ID != "small" || doc.Hint != "go up" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Spawn == nil || doc.Spawn.Facing != "right" {
		t.Errorf("Spawn = %+v", doc.Spawn)
	}
	if len(doc.Layout) != 2 || doc.Layout[0][1] != CodeGoal {
		t.Errorf("Layout = %v", doc.Layout)
	}
	if len(doc.Obstacles) != 1 || doc.Obstacles[0].Kind != "button" {
		t.Errorf("Obstacles = %+v", doc.Obstacles)
	}
}

func TestParseYAMLSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "name: x\nlayout: [[0]]\n"},
		{"unknown tile code", "id: x\nname: x\nlayout: [[0, 5]]\n"},
		{"empty layout", "id: x\nname: x\nlayout: []\n"},
		{"bad facing", "id: x\nname: x\nspawn: {row: 0, col: 0, facing: north}\nlayout: [[0]]\n"},
		{"bad obstacle kind", "id: x\nname: x\nlayout: [[0]]\nobstacles: [{name: a, kind: lava, row: 0, col: 0}]\n"},
		{"unknown field", "id: x\nname: x\nlayout: [[0]]\nsize: 3\n"},
		{"bad id", "id: Level One\nname: x\nlayout: [[0]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("ParseYAML() error = %v, expected ErrSchema", err)
			}
		})
	}
}

func TestParseYAMLSyntaxError(t *testing.T) {
	_, err := ParseYAML([]byte("id: [unclosed"))
	if err == nil || errors.Is(err, ErrSchema) {
		t.Errorf("ParseYAML() error = %v, expected a yaml error", err)
	}
}
