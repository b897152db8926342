// Package element holds the compile-time density and capability table for
// each cell.Element, consulted only by the movement rules; the reaction
// table keys off element identity directly instead.
package element

import "github.com/gogpu/powder/cell"

// Density returns the element's density. Gravity and diagonal slides swap
// a top cell down when density(top) > density(bottom); gases have density
// below EMPTY so the same rule makes them rise.
func Density(e cell.Element) int {
	return densities[e]
}

var densities = [...]int{
	cell.Empty:     2,
	cell.Sand:      10,
	cell.Water:     5,
	cell.Stone:     255,
	cell.Fire:      0,
	cell.Steam:     1,
	cell.Wood:      9,
	cell.Glass:     200,
	cell.Smoke:     1,
	cell.Oil:       4,
	cell.Lava:      7,
	cell.Acid:      6,
	cell.Gunpowder: 10,
	cell.Bomb:      255,
}

// Immovable reports whether e never participates in gravity or lateral
// movement (it may still mutate via reactions).
func Immovable(e cell.Element) bool {
	switch e {
	case cell.Stone, cell.Wood, cell.Glass, cell.Bomb:
		return true
	default:
		return false
	}
}

// IsLiquid reports whether e is one of the four liquids.
func IsLiquid(e cell.Element) bool {
	switch e {
	case cell.Water, cell.Oil, cell.Lava, cell.Acid:
		return true
	default:
		return false
	}
}

// IsGas reports whether e is one of the three gases.
func IsGas(e cell.Element) bool {
	switch e {
	case cell.Fire, cell.Smoke, cell.Steam:
		return true
	default:
		return false
	}
}
