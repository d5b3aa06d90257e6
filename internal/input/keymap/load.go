package keymap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/chordkit/internal/input/key"
)

// fileFormat is the YAML shape of a keymap file.
type fileFormat struct {
	Rows   int        `yaml:"rows"`
	Cols   int        `yaml:"cols"`
	Layers [][]string `yaml:"layers"`
}

// LoadFile reads a keymap from a YAML file.
func LoadFile(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("keymap: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML keymap document.
//
// Each layer is a flat list of rows*cols key specs, read row-major:
//
//	rows: 2
//	cols: 3
//	layers:
//	  - [a, b, "mt(lshift,c)", d, "lt(1,space)", f]
//	  - [trans, trans, "mo(1)", exclaim, trans, trans]
func Parse(data []byte) (*Keymap, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(f.Layers) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}

	m, err := New(f.Rows, f.Cols, len(f.Layers))
	if err != nil {
		return nil, err
	}

	for li, specs := range f.Layers {
		if len(specs) != f.Rows*f.Cols {
			return nil, fmt.Errorf("layer %d has %d keys, want %d", li, len(specs), f.Rows*f.Cols)
		}
		for i, spec := range specs {
			act, err := ParseAction(spec)
			if err != nil {
				return nil, fmt.Errorf("layer %d key %d: %w", li, i, err)
			}
			pos := key.Position{Row: uint8(i / f.Cols), Col: uint8(i % f.Cols)}
			if err := m.Set(li, pos, act); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
