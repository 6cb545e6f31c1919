// Package script runs YAML scripts of table operations against a catalog.
//
//	database: default
//	steps:
//	  - create_table:
//	      name: t
//	      columns:
//	        c1: int, primary key, not null
//	        c2: varchar
//	  - insert:
//	      table: t
//	      rows:
//	        - {c1: 1, c2: a}
//	  - delete: {table: t, where: "c1 = 1"}
//	  - output: {table: t, columns: ["*"]}
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tabledb/types"
)

// ErrScript indicates a malformed script.
var ErrScript = errors.New("invalid script")

// Script is a sequence of steps run against one database.
type Script struct {
	Database string `yaml:"database"`
	Steps    []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	CreateTable *CreateTable `yaml:"create_table,omitempty"`
	Insert      *Insert      `yaml:"insert,omitempty"`
	Delete      *Delete      `yaml:"delete,omitempty"`
	Update      *Update      `yaml:"update,omitempty"`
	Output      *Output      `yaml:"output,omitempty"`
	Describe    *Describe    `yaml:"describe,omitempty"`
	DropTable   *DropTable   `yaml:"drop_table,omitempty"`
	Export      *Export      `yaml:"export,omitempty"`
}

type CreateTable struct {
	Name        string  `yaml:"name"`
	Columns     Columns `yaml:"columns"`
	IfNotExists bool    `yaml:"if_not_exists"`
}

type Insert struct {
	Table string           `yaml:"table"`
	Rows  []map[string]any `yaml:"rows"`
}

// Delete removes the rows matching Where; an empty Where removes all rows.
type Delete struct {
	Table string `yaml:"table"`
	Where string `yaml:"where"`
}

type Update struct {
	Table string         `yaml:"table"`
	Where string         `yaml:"where"`
	Set   map[string]any `yaml:"set"`
}

// Output prints a projection. Columns defaults to ["*"].
type Output struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
	Format  string   `yaml:"format"`
}

type Describe struct {
	Table string `yaml:"table"`
}

type DropTable struct {
	Name     string `yaml:"name"`
	IfExists bool   `yaml:"if_exists"`
}

// Export writes a projection to the runner's blob store.
type Export struct {
	Table       string   `yaml:"table"`
	Path        string   `yaml:"path"`
	Columns     []string `yaml:"columns"`
	Format      string   `yaml:"format"`
	Compression string   `yaml:"compression"`
}

// Columns is an ordered column list written as a YAML mapping of name to
// definition, e.g. {c1: "int, primary key", emb: "vector,5,float"}.
type Columns []types.ColumnDef

// UnmarshalYAML keeps the mapping order, which becomes the schema order.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: columns must be a mapping", ErrScript, node.Line)
	}
	cols := make(Columns, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, def string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&def); err != nil {
			return err
		}
		col, err := types.ParseColumnDef(name, def)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
		cols = append(cols, col)
	}
	*c = cols
	return nil
}

// Kind names the step's action.
func (s Step) Kind() string {
	kind := ""
	for _, a := range []struct {
		name string
		set  bool
	}{
		{"create_table", s.CreateTable != nil},
		{"insert", s.Insert != nil},
		{"delete", s.Delete != nil},
		{"update", s.Update != nil},
		{"output", s.Output != nil},
		{"describe", s.Describe != nil},
		{"drop_table", s.DropTable != nil},
		{"export", s.Export != nil},
	} {
		if !a.set {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = a.name
	}
	return kind
}

// Validate checks that every step holds exactly one action.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if st.Kind() == "" {
			return fmt.Errorf("%w: step %d must hold exactly one action", ErrScript, i+1)
		}
	}
	return nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, types.ErrSchema) || errors.Is(err, ErrScript) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
