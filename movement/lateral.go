package movement

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/element"
	"github.com/gogpu/powder/rng"
)

// applyLateral runs every lateral-phase rule; unlike gravity, it
// is never gated by the deterministic skip and always executes.
func applyLateral(b block.Block, src rng.Source) block.Block {
	b = applyDivingBeetRow(b, cell.Water, cell.Empty, 1.0, src.Fork(1))
	b = applyDivingBeetRow(b, cell.Water, cell.Oil, 0.40, src.Fork(2))
	b = applyDivingBeetRow(b, cell.Oil, cell.Empty, 1.0, src.Fork(3))
	b = applyDivingBeetRow(b, cell.Lava, cell.Empty, 0.30, src.Fork(4))
	b = applyDivingBeetRow(b, cell.Acid, cell.Empty, 1.0, src.Fork(5))
	b = applyGasRow(b, cell.Steam, 0.125, src.Fork(6))
	b = applyGasRow(b, cell.Smoke, 0.125, src.Fork(7))
	b = applyGasRow(b, cell.Fire, 0.03, src.Fork(8))
	b = applySubmergedSandSmoothing(b, src.Fork(9))
	b = applyWaterErosion(b, src.Fork(10))
	return b
}

func rowOccupied(a, b cell.Cell) bool {
	return a.Occupied() && b.Occupied()
}

// divingBeetSwap swaps a row's two cells when they hold exactly the two
// elements given (in either order), the opposite row is fully occupied,
// and the probability gate fires.
func divingBeetSwap(left, right cell.Cell, otherRowOccupied bool, a, b cell.Element, prob float64, src rng.Source) (cell.Cell, cell.Cell) {
	if !otherRowOccupied {
		return left, right
	}
	matches := (left.Element() == a && right.Element() == b) || (left.Element() == b && right.Element() == a)
	if !matches || !src.Chance(prob) {
		return left, right
	}
	return right, left
}

// applyDivingBeetRow applies divingBeetSwap to both the top and bottom
// rows of the block for one (a, b) element pair.
func applyDivingBeetRow(b block.Block, a, bEl cell.Element, prob float64, src rng.Source) block.Block {
	b.TL, b.TR = divingBeetSwap(b.TL, b.TR, rowOccupied(b.BL, b.BR), a, bEl, prob, src.Fork(1))
	b.BL, b.BR = divingBeetSwap(b.BL, b.BR, rowOccupied(b.TL, b.TR), a, bEl, prob, src.Fork(2))
	return b
}

// gasRowSwap swaps a row's gas/empty pair: always when the opposite row
// is a solid surface (fully occupied), otherwise at freeFloatProb.
// Covers steam, smoke, and fire lateral spread.
func gasRowSwap(left, right cell.Cell, otherRowOccupied bool, gas cell.Element, freeFloatProb float64, src rng.Source) (cell.Cell, cell.Cell) {
	matches := (left.Element() == gas && right.Element() == cell.Empty) || (left.Element() == cell.Empty && right.Element() == gas)
	if !matches {
		return left, right
	}
	prob := freeFloatProb
	if otherRowOccupied {
		prob = 1.0
	}
	if !src.Chance(prob) {
		return left, right
	}
	return right, left
}

func applyGasRow(b block.Block, gas cell.Element, freeFloatProb float64, src rng.Source) block.Block {
	b.TL, b.TR = gasRowSwap(b.TL, b.TR, rowOccupied(b.BL, b.BR), gas, freeFloatProb, src.Fork(1))
	b.BL, b.BR = gasRowSwap(b.BL, b.BR, rowOccupied(b.TL, b.TR), gas, freeFloatProb, src.Fork(2))
	return b
}

// applySubmergedSandSmoothing implements 's lower-angle-of-repose
// rule: a bottom SAND cell flanked by liquid on one side, with liquid
// directly above it, occasionally swaps with its flank.
func applySubmergedSandSmoothing(b block.Block, src rng.Source) block.Block {
	submerged := func(sand, above, flank cell.Cell) bool {
		return sand.Element() == cell.Sand && element.IsLiquid(above.Element()) && element.IsLiquid(flank.Element())
	}
	if submerged(b.BL, b.TL, b.BR) || submerged(b.BR, b.TR, b.BL) {
		if src.Chance(1.0 / 32) {
			b.BL, b.BR = b.BR, b.BL
		}
	}
	return b
}

// applyWaterErosion implements 's erosion rule: a bottom SAND cell
// beside a bottom WATER cell is occasionally lifted by one cell when the
// corner above it is clear or also water.
func applyWaterErosion(b block.Block, src rng.Source) block.Block {
	lift := func(sandBottom, waterBottom, aboveSand cell.Cell, fork uint32) (newSand, newAbove cell.Cell, fired bool) {
		if sandBottom.Element() != cell.Sand || waterBottom.Element() != cell.Water {
			return sandBottom, aboveSand, false
		}
		if aboveSand.Element() != cell.Empty && aboveSand.Element() != cell.Water {
			return sandBottom, aboveSand, false
		}
		if !src.Fork(fork).Chance(1.0 / 512) {
			return sandBottom, aboveSand, false
		}
		return aboveSand, sandBottom, true
	}
	if newBL, newTL, fired := lift(b.BL, b.BR, b.TL, 1); fired {
		b.BL, b.TL = newBL, newTL
		return b
	}
	if newBR, newTR, fired := lift(b.BR, b.BL, b.TR, 2); fired {
		b.BR, b.TR = newBR, newTR
	}
	return b
}
