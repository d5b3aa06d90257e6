package key

import "fmt"

// virtualCoord marks synthesized events. Positions with a row or column at
// or above this value did not originate from the physical matrix.
const virtualCoord = 254

// Position is a key's location in the scan matrix.
type Position struct {
	Row uint8
	Col uint8
}

// Virtual is the position used for synthesized events (combos, macros,
// engine-generated taps).
var Virtual = Position{Row: 255, Col: 255}

// Physical returns true if the position came from the physical matrix.
func (p Position) Physical() bool {
	return p.Row < virtualCoord && p.Col < virtualCoord
}

// OnLeftHand reports whether the position is on the left half of a split
// keyboard with the given total row count. Split matrices stack the right
// half's rows below the left half's.
func (p Position) OnLeftHand(matrixRows int) bool {
	return int(p.Row) < matrixRows/2
}

// String returns "r,c" or "virtual".
func (p Position) String() string {
	if !p.Physical() {
		return "virtual"
	}
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// LayerMask is a bitset of active keymap layers. The kth bit is on when
// layer k is active.
type LayerMask uint32

// MaxLayers is the number of addressable layers.
const MaxLayers = 32

// Has returns true if layer is active.
func (m LayerMask) Has(layer uint8) bool {
	return m&(1<<layer) != 0
}

// With returns a copy with layer turned on.
func (m LayerMask) With(layer uint8) LayerMask {
	return m | 1<<layer
}

// Without returns a copy with layer turned off.
func (m LayerMask) Without(layer uint8) LayerMask {
	return m &^ (1 << layer)
}

// Highest returns the highest active layer, or 0 if none are active.
func (m LayerMask) Highest() uint8 {
	for i := MaxLayers - 1; i > 0; i-- {
		if m.Has(uint8(i)) {
			return uint8(i)
		}
	}
	return 0
}
