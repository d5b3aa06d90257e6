package keymap

import (
	"fmt"

	"github.com/dshills/chordkit/internal/input/key"
)

// Keymap holds the per-layer action grid for a keyboard.
type Keymap struct {
	rows   int
	cols   int
	layers [][]Action // layers[layer][row*cols+col]
}

// New creates an empty keymap with the given matrix dimensions and layer
// count.
func New(rows, cols, layerCount int) (*Keymap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("keymap: invalid matrix %dx%d", rows, cols)
	}
	if layerCount <= 0 || layerCount > key.MaxLayers {
		return nil, fmt.Errorf("keymap: layer count %d out of range 1..%d", layerCount, key.MaxLayers)
	}
	layers := make([][]Action, layerCount)
	for i := range layers {
		layers[i] = make([]Action, rows*cols)
	}
	return &Keymap{rows: rows, cols: cols, layers: layers}, nil
}

// Rows returns the matrix row count.
func (m *Keymap) Rows() int { return m.rows }

// Cols returns the matrix column count.
func (m *Keymap) Cols() int { return m.cols }

// LayerCount returns the number of layers.
func (m *Keymap) LayerCount() int { return len(m.layers) }

// Set assigns an action to a position on a layer.
func (m *Keymap) Set(layer int, pos key.Position, act Action) error {
	if layer < 0 || layer >= len(m.layers) {
		return fmt.Errorf("keymap: layer %d out of range", layer)
	}
	if int(pos.Row) >= m.rows || int(pos.Col) >= m.cols {
		return fmt.Errorf("keymap: position %s outside %dx%d matrix", pos, m.rows, m.cols)
	}
	m.layers[layer][int(pos.Row)*m.cols+int(pos.Col)] = act
	return nil
}

// At returns the action at a position on a single layer, without
// transparency resolution.
func (m *Keymap) At(layer int, pos key.Position) Action {
	if layer < 0 || layer >= len(m.layers) ||
		int(pos.Row) >= m.rows || int(pos.Col) >= m.cols {
		return Action{}
	}
	return m.layers[layer][int(pos.Row)*m.cols+int(pos.Col)]
}

// FindTap returns the first position on a layer whose action types the
// given keycode when tapped. Scan order is row-major.
func (m *Keymap) FindTap(layer int, code key.Keycode) (key.Position, bool) {
	if layer < 0 || layer >= len(m.layers) || code == key.KeyNone {
		return key.Position{}, false
	}
	for i, act := range m.layers[layer] {
		switch act.Kind {
		case KindPlain, KindModTap, KindLayerTap:
			if act.Key == code {
				return key.Position{Row: uint8(i / m.cols), Col: uint8(i % m.cols)}, true
			}
		}
	}
	return key.Position{}, false
}

// FindKind returns the first position on a layer bound to the given
// action kind. Scan order is row-major.
func (m *Keymap) FindKind(layer int, kind Kind) (key.Position, bool) {
	if layer < 0 || layer >= len(m.layers) {
		return key.Position{}, false
	}
	for i, act := range m.layers[layer] {
		if act.Kind == kind {
			return key.Position{Row: uint8(i / m.cols), Col: uint8(i % m.cols)}, true
		}
	}
	return key.Position{}, false
}

// Resolve looks up the action for an event given the active layer state.
// The highest active layer wins; transparent entries fall through to the
// next lower active layer. Layer 0 is always consulted last. Events at
// virtual positions resolve by keycode alone as plain actions.
func (m *Keymap) Resolve(layers key.LayerMask, ev key.Event) Action {
	if !ev.Pos.Physical() {
		if ev.Code == key.KeyNone {
			return Action{}
		}
		return Plain(ev.Code)
	}
	for layer := len(m.layers) - 1; layer >= 0; layer-- {
		if layer != 0 && !layers.Has(uint8(layer)) {
			continue
		}
		act := m.At(layer, ev.Pos)
		switch act.Kind {
		case KindTransparent:
			continue
		case KindNone:
			if layer == 0 {
				return act
			}
			continue
		default:
			return act
		}
	}
	return Action{}
}
