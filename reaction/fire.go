package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// consumeAsSteamOrEmpty implements the "consume as in Fire+Water"
// transition shared by several rules: the surviving fraction turns to
// steam with the given lifetime range, the rest vanishes.
func consumeAsSteamOrEmpty(c cell.Cell, src rng.Source, steamChance float64, lo, hi int) cell.Cell {
	if src.Chance(steamChance) {
		return cell.Make(cell.Steam, c.Color(), uint8(src.Fork(1).Range(lo, hi)))
	}
	return cell.EmptyCell
}

func applyFireWater(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Fire) && b.Any(cell.Water)) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Fire:
			s := cellSrc(src, ruleFireWaterFire, idx)
			return cell.Make(cell.Steam, c.Color(), uint8(s.Range(40, 79)))
		case cell.Water:
			s := cellSrc(src, ruleFireWaterWater, idx)
			if !s.Chance(0.30) {
				return c
			}
			return consumeAsSteamOrEmpty(c, s.Fork(1), 0.60, 60, 119)
		default:
			return c
		}
	})
}

func applyFireWood(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Fire) && b.Any(cell.Wood)) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Wood:
			s := cellSrc(src, ruleFireWoodIgnite, idx)
			if s.Chance(1.0 / 512) {
				return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(100, 159)))
			}
			return c
		case cell.Empty:
			s := cellSrc(src, ruleFireWoodSmoke, idx)
			if s.Chance(1.0 / 64) {
				return cell.Make(cell.Smoke, c.Color(), uint8(s.Fork(1).Range(40, 69)))
			}
			return c
		default:
			return c
		}
	})
}

func applyFireOil(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Fire) && b.Any(cell.Oil)) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Oil:
			s := cellSrc(src, ruleFireOilIgnite, idx)
			if s.Chance(0.15) {
				return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(80, 139)))
			}
			return c
		case cell.Empty:
			s := cellSrc(src, ruleFireOilSmoke, idx)
			if s.Chance(1.0 / 32) {
				return cell.Make(cell.Smoke, c.Color(), uint8(s.Fork(1).Range(40, 69)))
			}
			return c
		default:
			return c
		}
	})
}

func applyFireSand(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Fire) && b.Any(cell.Sand)) {
		return b
	}
	cost := 7 * b.Count(cell.Sand)
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Sand:
			s := cellSrc(src, ruleFireSandGlass, idx)
			if s.Chance(0.02) {
				return cell.Make(cell.Glass, c.Color(), 0)
			}
			return c
		case cell.Fire:
			lifetime := int(c.Aux())
			if lifetime <= cost {
				return cell.EmptyCell
			}
			return c.WithAux(uint8(lifetime - cost))
		default:
			return c
		}
	})
}

func applyFireGunpowder(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Fire) && b.Any(cell.Gunpowder)) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Gunpowder:
			s := cellSrc(src, ruleFireGunpowderIgnite, idx)
			if s.Chance(0.50) {
				return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(120, 179)))
			}
			return c
		case cell.Empty:
			s := cellSrc(src, ruleFireGunpowderSmoke, idx)
			if s.Chance(0.10) {
				return cell.Make(cell.Smoke, c.Color(), uint8(s.Fork(1).Range(40, 69)))
			}
			return c
		default:
			return c
		}
	})
}
