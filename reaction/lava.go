package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// applyLava runs the ordered lava sub-steps whenever a block contains
// any LAVA. Each sub-step re-reads element
// identities left by the previous one.
func applyLava(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Lava) {
		return b
	}
	waterCount := b.Count(cell.Water)
	b = lavaConsumeWater(b, src.Fork(1))
	b = lavaCool(b, src.Fork(2).Range(3, 4)*waterCount)

	sandCount := b.Count(cell.Sand)
	b = lavaGlassifySand(b, src.Fork(3))
	b = lavaCool(b, 3*sandCount)

	b = lavaIgniteWood(b, src.Fork(5))
	b = lavaIgniteOil(b, src.Fork(6))
	b = lavaIgniteGunpowder(b, src.Fork(7))
	b = lavaDetonateBomb(b)
	return b
}

// lavaCool reduces every LAVA cell's heat by loss, floored at zero.
func lavaCool(b block.Block, loss int) block.Block {
	if loss <= 0 {
		return b
	}
	return b.Map(func(c cell.Cell) cell.Cell {
		if c.Element() != cell.Lava {
			return c
		}
		heat := int(c.Aux()) - loss
		if heat < 0 {
			heat = 0
		}
		return c.WithAux(uint8(heat))
	})
}

func lavaConsumeWater(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Water) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Water {
			return c
		}
		s := cellSrc(src, ruleLavaWaterConsume, idx)
		if !s.Chance(0.5) {
			return c
		}
		return consumeAsSteamOrEmpty(c, s.Fork(1), 0.60, 60, 119)
	})
}

func lavaGlassifySand(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Sand) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Sand {
			return c
		}
		s := cellSrc(src, ruleLavaSandGlass, idx)
		if s.Chance(0.04) {
			return cell.Make(cell.Glass, c.Color(), 0)
		}
		return c
	})
}

func lavaIgniteWood(b block.Block, src rng.Source) block.Block {
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Wood {
			return c
		}
		s := cellSrc(src, ruleLavaWoodIgnite, idx)
		if s.Chance(0.08) {
			return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(80, 139)))
		}
		return c
	})
}

func lavaIgniteOil(b block.Block, src rng.Source) block.Block {
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Oil {
			return c
		}
		s := cellSrc(src, ruleLavaOilIgnite, idx)
		if s.Chance(0.20) {
			return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(80, 139)))
		}
		return c
	})
}

func lavaIgniteGunpowder(b block.Block, src rng.Source) block.Block {
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Gunpowder {
			return c
		}
		s := cellSrc(src, ruleLavaGunpowderIgnite, idx)
		if s.Chance(0.30) {
			return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(120, 179)))
		}
		return c
	})
}

func lavaDetonateBomb(b block.Block) block.Block {
	if !b.Any(cell.Bomb) {
		return b
	}
	return b.Map(func(c cell.Cell) cell.Cell {
		if c.Element() != cell.Bomb {
			return c
		}
		return cell.Make(cell.Fire, c.Color(), blastFireLifetime)
	})
}
