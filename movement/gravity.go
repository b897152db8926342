package movement

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/element"
	"github.com/gogpu/powder/rng"
)

// youngFireOutcome is the three-way result of a fresh fire's roll,
// replacing the plain rise probability for FIRE with lifetime > 100.
type youngFireOutcome int

const (
	youngFireSink youngFireOutcome = iota
	youngFireStall
	youngFireRise
)

func rollYoungFire(src rng.Source) youngFireOutcome {
	r := src.Float64()
	switch {
	case r < 0.20:
		return youngFireSink
	case r < 0.60:
		return youngFireStall
	default:
		return youngFireRise
	}
}

// youngFireLifetime is the lifetime above which a FIRE cell is
// considered freshly spawned and exhibits sink/stall/rise behavior
// instead of a plain rise chance.
const youngFireLifetime = 100

func isYoungFire(c cell.Cell) bool {
	return c.Element() == cell.Fire && c.Aux() > youngFireLifetime
}

func gasRiseProb(e cell.Element) float64 {
	switch e {
	case cell.Fire:
		return 0.20
	case cell.Steam:
		return 0.35
	case cell.Smoke:
		return 0.30
	default:
		return 0
	}
}

func isGasRisePair(top, bottom cell.Element) bool {
	return top == cell.Empty && element.IsGas(bottom)
}

func involvesSandLiquid(top, bottom cell.Element) bool {
	return (top == cell.Sand && element.IsLiquid(bottom)) ||
		(bottom == cell.Sand && element.IsLiquid(top))
}

func involvesLava(top, bottom cell.Element) bool {
	return top == cell.Lava || bottom == cell.Lava
}

// columnSwap reports whether the vertical swap for a (top, bottom) pair
// fires this pass, applying the density rule and its drag gates in order.
// Sand-against-liquid and lava-viscosity gates are mutually exclusive;
// sand/liquid is checked first since SAND is itself one of the four
// liquids' heavier neighbor in the common case of SAND sinking through
// LAVA.
func columnSwap(top, bottom cell.Cell, src rng.Source) bool {
	te, be := top.Element(), bottom.Element()
	if element.Immovable(te) || element.Immovable(be) {
		return false
	}
	if element.Density(te) <= element.Density(be) {
		return false
	}
	switch {
	case involvesSandLiquid(te, be):
		return src.Chance(0.35)
	case involvesLava(te, be):
		return src.Chance(0.50)
	case isGasRisePair(te, be):
		if isYoungFire(bottom) {
			return rollYoungFire(src) == youngFireRise
		}
		return src.Chance(gasRiseProb(be))
	default:
		return true
	}
}

// applyGravity runs one gravity phase over a block: the two vertical
// column swaps with their drag gates, diagonal slides when neither
// column swaps, and the young-fire sink.
func applyGravity(b block.Block, src rng.Source) block.Block {
	leftSrc, rightSrc := src.Fork(1), src.Fork(2)
	leftFires := columnSwap(b.TL, b.BL, leftSrc)
	rightFires := columnSwap(b.TR, b.BR, rightSrc)

	if leftFires {
		b.TL, b.BL = b.BL, b.TL
	}
	if rightFires {
		b.TR, b.BR = b.BR, b.TR
	}

	if !leftFires && !rightFires {
		b = applyDiagonalSlides(b, src.Fork(3))
	}

	b = applyYoungFireSink(b, src.Fork(5))
	return b
}

// diagonalEligible reports whether a cell can slide diagonally into the
// opposite bottom corner: heavier than that corner and at least as heavy
// as the cell directly below it (the vertical swap having already been
// blocked), and not immovable.
func diagonalEligible(c, diagonal, directlyBelow cell.Cell) bool {
	if element.Immovable(c.Element()) {
		return false
	}
	return element.Density(c.Element()) > element.Density(diagonal.Element()) &&
		element.Density(c.Element()) >= element.Density(directlyBelow.Element())
}

// applyDiagonalSlides implements step 3: when neither vertical
// swap fired, a top corner may still slide into the diagonally opposite
// bottom corner under per-element gating.
func applyDiagonalSlides(b block.Block, src rng.Source) block.Block {
	tlToBr := diagonalEligible(b.TL, b.BR, b.BL) && diagonalGate(b.TL, b.TR, b.BR, src.Fork(1))
	trToBl := diagonalEligible(b.TR, b.BL, b.BR) && diagonalGate(b.TR, b.TL, b.BL, src.Fork(2))

	switch {
	case tlToBr && trToBl:
		if src.Fork(3).Bool() {
			b.TL, b.BR = b.BR, b.TL
		} else {
			b.TR, b.BL = b.BL, b.TR
		}
	case tlToBr:
		b.TL, b.BR = b.BR, b.TL
	case trToBl:
		b.TR, b.BL = b.BL, b.TR
	}
	return b
}

// diagonalGate applies the per-element gating for a candidate diagonal
// slide of c, given the cell at the top of the other column (adjacentTop)
// and the diagonally opposite cell c would swap into.
//
// SAND crossing into a liquid passes the 35% drag first, then an
// independent 50% dispersion roll conditional on the drag having allowed
// movement, so the compound chance of a sand-into-liquid diagonal slide
// is 0.35*0.50. SAND sliding diagonally into anything else is ungated.
func diagonalGate(c, adjacentTop, diagonal cell.Cell, src rng.Source) bool {
	switch c.Element() {
	case cell.Water:
		if element.Density(adjacentTop.Element()) >= element.Density(cell.Water) {
			return false
		}
		return src.Chance(0.25)
	case cell.Sand:
		if !element.IsLiquid(diagonal.Element()) {
			return true
		}
		if !src.Chance(0.35) {
			return false
		}
		return src.Fork(4).Chance(0.50)
	default:
		return true
	}
}

// applyYoungFireSink implements step 5: a FIRE cell on top of an
// EMPTY cell, whose young-fire roll landed "sink", swaps downward even
// though the plain density rule would never select that direction.
func applyYoungFireSink(b block.Block, src rng.Source) block.Block {
	trySink := func(top, bottom cell.Cell, forkConst uint32) (cell.Cell, cell.Cell) {
		if top.Element() != cell.Fire || bottom.Element() != cell.Empty || !isYoungFire(top) {
			return top, bottom
		}
		if rollYoungFire(src.Fork(forkConst)) == youngFireSink {
			return bottom, top
		}
		return top, bottom
	}
	b.TL, b.BL = trySink(b.TL, b.BL, 1)
	b.TR, b.BR = trySink(b.TR, b.BR, 2)
	return b
}
