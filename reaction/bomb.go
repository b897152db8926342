package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/element"
	"github.com/gogpu/powder/rng"
)

const blastFireLifetime = 250

// applyFireBomb detonates any BOMB sharing a block with FIRE. BOMB and
// FIRE become blast fire; EMPTY fills with smoke; any other movable cell
// ignites at a lower lifetime. Immovable survivors (STONE, WOOD, GLASS)
// are left for blast-fire propagation.
func applyFireBomb(b block.Block, src rng.Source) block.Block {
	if !(b.Any(cell.Bomb) && b.Any(cell.Fire)) {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		switch {
		case c.Element() == cell.Bomb || c.Element() == cell.Fire:
			return cell.Make(cell.Fire, c.Color(), blastFireLifetime)
		case c.Element() == cell.Empty:
			s := cellSrc(src, ruleFireBombSmoke, idx)
			return cell.Make(cell.Smoke, c.Color(), uint8(s.Range(60, 99)))
		case element.Immovable(c.Element()):
			return c
		default:
			return cell.Make(cell.Fire, c.Color(), 240)
		}
	})
}

// blastFireThreshold is the lifetime above which a FIRE cell counts as
// blast fire for propagation purposes.
const blastFireThreshold = 200

// applyBlastFirePropagation spreads a detonation outward: once a block
// holds a FIRE cell whose lifetime exceeds blastFireThreshold, every
// other cell in the block reacts to the blast instead of its ordinary
// rules, carrying a decaying lifetime outward as the blast-fire cells
// migrate from block to block on later passes.
func applyBlastFirePropagation(b block.Block, src rng.Source) block.Block {
	maxLifetime := 0
	for _, c := range b.Cells() {
		if c.Element() == cell.Fire && int(c.Aux()) > blastFireThreshold {
			if int(c.Aux()) > maxLifetime {
				maxLifetime = int(c.Aux())
			}
		}
	}
	if maxLifetime == 0 {
		return b
	}
	return b.MapIndexed(func(idx int, c cell.Cell) cell.Cell {
		if c.Element() == cell.Fire && int(c.Aux()) > blastFireThreshold {
			return c
		}
		switch c.Element() {
		case cell.Bomb:
			return cell.Make(cell.Fire, c.Color(), blastFireLifetime)
		case cell.Gunpowder:
			s := cellSrc(src, ruleBlastGunpowderAmp, idx)
			return cell.Make(cell.Fire, c.Color(), clampByte(maxLifetime-s.Range(5, 8)))
		case cell.Water:
			s := cellSrc(src, ruleBlastWaterSteam, idx)
			return cell.Make(cell.Steam, c.Color(), uint8(s.Range(80, 139)))
		case cell.Acid:
			s := cellSrc(src, ruleBlastAcidSmoke, idx)
			return cell.Make(cell.Smoke, c.Color(), uint8(s.Range(40, 69)))
		case cell.Stone:
			heat := int(c.Aux()) + 10
			if heat > 255 {
				heat = 255
			}
			return c.WithAux(uint8(heat))
		case cell.Glass, cell.Lava, cell.Smoke, cell.Steam, cell.Fire:
			return c
		default: // EMPTY, SAND, WOOD, OIL: decaying blast radius
			s := cellSrc(src, ruleBlastRadiusDecay, idx)
			lifetime := maxLifetime - s.Range(8, 12)
			if lifetime <= 0 {
				return cell.EmptyCell
			}
			return cell.Make(cell.Fire, c.Color(), uint8(lifetime))
		}
	})
}
