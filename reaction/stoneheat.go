package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// applyStoneHeat runs gain, decay, conduction, and max-heat neighbor
// effects for every block containing STONE.
func applyStoneHeat(b block.Block, src rng.Source) block.Block {
	if !b.Any(cell.Stone) {
		return b
	}
	b = stoneHeatGain(b, src.Fork(1))
	b = stoneHeatDecay(b, src.Fork(2))
	b = stoneConduct(b)
	b = stoneMaxHeatEffects(b, src.Fork(3))
	return b
}

func stoneHeatGain(b block.Block, src rng.Source) block.Block {
	nearby := b.Count(cell.Fire) + b.Count(cell.Lava)
	if nearby == 0 {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Stone {
			return c
		}
		s := cellSrc(src, ruleStoneHeatGainMultiplier, idx)
		gain := s.Range(2, 3) * nearby
		heat := int(c.Aux()) + gain
		if heat > 255 {
			heat = 255
		}
		return c.WithAux(uint8(heat))
	})
}

func stoneHeatDecay(b block.Block, src rng.Source) block.Block {
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() != cell.Stone {
			return c
		}
		s := cellSrc(src, ruleStoneHeatDecay, idx)
		if !s.Chance(1.0 / 128) {
			return c
		}
		heat := int(c.Aux()) - 1
		if heat < 0 {
			heat = 0
		}
		return c.WithAux(uint8(heat))
	})
}

// stoneAdjacency lists the four Stone-Stone adjacencies within a 2x2
// block: tl-tr, bl-br, tl-bl, tr-br.
var stoneAdjacency = [4][2]int{{0, 1}, {2, 3}, {0, 2}, {1, 3}}

func stoneConduct(b block.Block) block.Block {
	cells := b.Cells()
	for _, pair := range stoneAdjacency {
		a, c := cells[pair[0]], cells[pair[1]]
		if a.Element() != cell.Stone || c.Element() != cell.Stone {
			continue
		}
		ha, hc := int(a.Aux()), int(c.Aux())
		delta := ha - hc
		if delta > 1 {
			cells[pair[0]] = a.WithAux(uint8(ha - 1))
			cells[pair[1]] = c.WithAux(uint8(hc + 1))
		} else if delta < -1 {
			cells[pair[0]] = a.WithAux(uint8(ha + 1))
			cells[pair[1]] = c.WithAux(uint8(hc - 1))
		}
	}
	return block.Block{TL: cells[0], TR: cells[1], BL: cells[2], BR: cells[3]}
}

func maxStoneHeat(b block.Block) int {
	max := 0
	for _, c := range b.Cells() {
		if c.Element() == cell.Stone && int(c.Aux()) > max {
			max = int(c.Aux())
		}
	}
	return max
}

func stoneMaxHeatEffects(b block.Block, src rng.Source) block.Block {
	h := maxStoneHeat(b)
	if h <= 100 {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch c.Element() {
		case cell.Water:
			s := cellSrc(src, ruleStoneMaxHeatWater, idx)
			if s.Chance(0.01) {
				return consumeAsSteamOrEmpty(c, s.Fork(1), 0.60, 60, 119)
			}
			return c
		case cell.Wood:
			if h <= 150 {
				return c
			}
			s := cellSrc(src, ruleStoneMaxHeatWood, idx)
			if s.Chance(1.0 / 2048) {
				return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(100, 159)))
			}
			return c
		case cell.Gunpowder:
			if h <= 150 {
				return c
			}
			s := cellSrc(src, ruleStoneMaxHeatGunpowder, idx)
			if s.Chance(0.01) {
				return cell.Make(cell.Fire, c.Color(), uint8(s.Fork(1).Range(120, 179)))
			}
			return c
		case cell.Bomb:
			if h <= 150 {
				return c
			}
			s := cellSrc(src, ruleStoneMaxHeatBomb, idx)
			if s.Chance(0.02) {
				return cell.Make(cell.Fire, c.Color(), blastFireLifetime)
			}
			return c
		case cell.Sand:
			if h <= 200 {
				return c
			}
			s := cellSrc(src, ruleStoneMaxHeatSand, idx)
			if s.Chance(1.0 / 200) {
				return cell.Make(cell.Glass, c.Color(), 0)
			}
			return c
		default:
			return c
		}
	})
}
