package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// applyAcid runs the ordered acid sub-steps whenever a block contains
// any ACID: fire, lava, water, then a
// dissolution pass over every other material.
func applyAcid(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Acid) {
		return b
	}
	b = acidNearFire(b, src.Fork(1))
	b = acidNearLava(b, src.Fork(2))
	b = acidWaterStep(b, src.Fork(3))
	b = acidDissolve(b, src.Fork(4))
	return b
}

// ambientSmokeLo, ambientSmokeHi is the lifetime range used for smoke
// produced by a transition the table gives no explicit range for,
// matching the range already established for ambient fire-adjacent
// smoke (fire+wood, fire+oil, fire+gunpowder).
const ambientSmokeLo, ambientSmokeHi = 40, 69

func acidNearFire(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Fire) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Acid {
			return c
		}
		s := cellSrc(src, ruleAcidFireConsume, idx)
		if s.Chance(0.10) {
			return cell.Make(cell.Smoke, c.Color(), uint8(s.Fork(1).Range(ambientSmokeLo, ambientSmokeHi)))
		}
		return c
	})
}

func acidNearLava(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Lava) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Acid {
			return c
		}
		s := cellSrc(src, ruleAcidLavaConsume, idx)
		if s.Chance(0.15) {
			return cell.Make(cell.Smoke, c.Color(), uint8(s.Fork(1).Range(ambientSmokeLo, ambientSmokeHi)))
		}
		return c
	})
}

func acidWaterStep(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Water) {
		return b
	}
	b = b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Water {
			return c
		}
		s := cellSrc(src, ruleAcidWaterConsume, idx)
		if !s.Chance(0.04) {
			return c
		}
		return consumeAsSteamOrEmpty(c, s.Fork(1), 0.60, 60, 119)
	})
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Acid {
			return c
		}
		s := cellSrc(src, ruleAcidWaterPotencyLoss, idx)
		if !s.Chance(0.03) {
			return c
		}
		potency := int(c.Aux()) - 1
		if potency < 0 {
			potency = 0
		}
		return c.WithAux(uint8(potency))
	})
}

// dissolveTarget is one row of the dissolution cost table.
type dissolveTarget struct {
	elem cell.Element
	prob float64
	cost int
	rule ruleID
}

var dissolveTargets = []dissolveTarget{
	{cell.Sand, 0.05, 3, ruleAcidDissolveSand},
	{cell.Stone, 0.02, 5, ruleAcidDissolveStone},
	{cell.Wood, 0.08, 2, ruleAcidDissolveWood},
	{cell.Glass, 0.01, 8, ruleAcidDissolveGlass},
	{cell.Oil, 0.10, 2, ruleAcidDissolveOil},
	{cell.Gunpowder, 0.05, 3, ruleAcidDissolveGunpowder},
	{cell.Bomb, 0.03, 5, ruleAcidDissolveBomb},
}

// acidDissolve rolls each non-acid cell against the cost table; every
// success becomes smoke and its cost is pooled, then subtracted evenly
// (minimum 1 each) from every ACID cell's potency.
func acidDissolve(b block.Block, src rng.Source) block.Block {
	cells := b.Cells()
	var dissolved [4]bool
	totalCost := 0
	for idx, c := range cells {
		for _, tgt := range dissolveTargets {
			if c.Element() != tgt.elem {
				continue
			}
			s := cellSrc(src, tgt.rule, idx)
			if s.Chance(tgt.prob) {
				dissolved[idx] = true
				totalCost += tgt.cost
			}
			break
		}
	}
	if totalCost == 0 {
		return b
	}
	perAcid := 1
	if acidCount := b.Count(cell.Acid); acidCount > 0 {
		if share := totalCost / acidCount; share > perAcid {
			perAcid = share
		}
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if dissolved[idx] {
			s := cellSrc(src, ruleAcidDissolveSmoke, idx)
			return cell.Make(cell.Smoke, c.Color(), uint8(s.Range(ambientSmokeLo, ambientSmokeHi)))
		}
		if c.Element() != cell.Acid {
			return c
		}
		potency := int(c.Aux()) - perAcid
		if potency < 0 {
			potency = 0
		}
		return c.WithAux(uint8(potency))
	})
}
