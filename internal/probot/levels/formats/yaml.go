// Package formats provides level file parsers. Documents are checked against
// the embedded JSON Schema before they are decoded.
package formats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed level.schema.json
var schemaJSON []byte

const schemaURL = "level.schema.json"

// ErrSchema wraps every schema violation.
var ErrSchema = errors.New("level does not match schema")

// Tile codes used in layouts.
const (
	CodeEmpty  = 0
	CodeWall   = 2
	CodeGoal   = 3
	CodeDoor   = 6
	CodeButton = 8
)

// Document is a decoded level file.
type Document struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Order     int        `yaml:"order,omitempty"`
	Hint      string     `yaml:"hint,omitempty"`
	Spawn     *Spawn     `yaml:"spawn,omitempty"`
	Layout    [][]int    `yaml:"layout"`
	Obstacles []Obstacle `yaml:"obstacles,omitempty"`
}

// Spawn is the bot's start pose.
type Spawn struct {
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Facing string `yaml:"facing,omitempty"`
}

// Obstacle declares a door, button or wormhole. Link names another
// obstacle: the door a button opens, or a wormhole's partner.
type Obstacle struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Row  int    `yaml:"row"`
	Col  int    `yaml:"col"`
	Link string `yaml:"link,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func levelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("formats: cannot load schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ParseYAML validates and decodes a YAML level file.
func ParseYAML(data []byte) (Document, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return Document{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := Validate(generic); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return doc, nil
}

// Validate checks a generic YAML value against the level schema. The value
// goes through JSON first so that the validator sees JSON types.
func Validate(v any) error {
	s, err := levelSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
