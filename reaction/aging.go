package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// applyAging ages every fire, steam, smoke, lava, and acid cell
// independently of the others.
func applyAging(b block.Block, src rng.Source) block.Block {
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Fire:
			return ageFire(c, cellSrc(src, ruleAgingFire, idx))
		case cell.Steam:
			return ageSteam(c, cellSrc(src, ruleAgingSteam, idx))
		case cell.Smoke:
			return ageSmoke(c, cellSrc(src, ruleAgingSmoke, idx))
		case cell.Lava:
			return ageLava(c, cellSrc(src, ruleAgingLava, idx))
		case cell.Acid:
			return ageAcid(c, cellSrc(src, ruleAgingAcid, idx))
		default:
			return c
		}
	})
}

func ageFire(c cell.Cell, src rng.Source) cell.Cell {
	lifetime := c.Aux()
	if lifetime == 0 {
		return cell.EmptyCell
	}
	if !src.Chance(1.0 / 64) {
		return c
	}
	lifetime--
	if lifetime != 0 {
		return c.WithAux(lifetime)
	}
	if src.Fork(1).Chance(0.5) {
		return cell.Make(cell.Smoke, c.Color(), uint8(src.Fork(2).Range(60, 99)))
	}
	return cell.EmptyCell
}

func ageSteam(c cell.Cell, src rng.Source) cell.Cell {
	condense := func() cell.Cell {
		return cell.Make(cell.Water, uint8(src.Fork(1).Intn(256)), 0)
	}
	lifetime := c.Aux()
	if lifetime == 0 {
		return condense()
	}
	if !src.Chance(1.0 / 64) {
		return c
	}
	lifetime--
	if lifetime == 0 {
		return condense()
	}
	return c.WithAux(lifetime)
}

func ageSmoke(c cell.Cell, src rng.Source) cell.Cell {
	lifetime := c.Aux()
	if lifetime == 0 {
		return cell.EmptyCell
	}
	if !src.Chance(1.0 / 64) {
		return c
	}
	lifetime--
	if lifetime == 0 {
		return cell.EmptyCell
	}
	return c.WithAux(lifetime)
}

func ageLava(c cell.Cell, src rng.Source) cell.Cell {
	heat := c.Aux()
	if heat == 0 {
		return cell.Make(cell.Stone, uint8(src.Fork(1).Intn(256)), 0)
	}
	if src.Chance(1.0 / 166) {
		heat--
	}
	return c.WithAux(heat)
}

func ageAcid(c cell.Cell, src rng.Source) cell.Cell {
	potency := c.Aux()
	if potency == 0 {
		return cell.EmptyCell
	}
	if !src.Chance(1.0 / 128) {
		return c
	}
	potency--
	if potency == 0 {
		return cell.EmptyCell
	}
	return c.WithAux(potency)
}
