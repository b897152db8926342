// Package reaction implements the block-local "alchemy" rule table:
// every cell-to-cell and cell-to-empty transition a block can undergo
// before movement runs. Every rule reads and writes only the four cells
// of the block it is given; none may reach outside it.
//
// Apply runs the rules in the fixed order requires, so a block with
// several simultaneous possibilities resolves deterministically given its
// derived RNG: aging, fire+water, fire+wood, fire+oil, fire+sand,
// fire+bomb, blast-fire propagation, fire+gunpowder, lava, acid,
// stone-heat.
package reaction

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/rng"
)

// ruleID distinguishes the RNG sub-stream each rule forks from the
// block's base seed, so that simultaneous probabilistic decisions within
// one block never correlate with each other.
type ruleID uint32

const (
	ruleAgingFire ruleID = iota + 1
	ruleAgingSteam
	ruleAgingSmoke
	ruleAgingLava
	ruleAgingAcid

	ruleFireWaterFire
	ruleFireWaterWater

	ruleFireWoodIgnite
	ruleFireWoodSmoke

	ruleFireOilIgnite
	ruleFireOilSmoke

	ruleFireSandGlass

	ruleFireBombSmoke

	ruleBlastGunpowderAmp
	ruleBlastWaterSteam
	ruleBlastAcidSmoke
	ruleBlastRadiusDecay

	ruleFireGunpowderIgnite
	ruleFireGunpowderSmoke

	ruleLavaWaterMultiplier
	ruleLavaWaterConsume
	ruleLavaSandGlass
	ruleLavaWoodIgnite
	ruleLavaOilIgnite
	ruleLavaGunpowderIgnite

	ruleAcidFireConsume
	ruleAcidLavaConsume
	ruleAcidWaterConsume
	ruleAcidWaterPotencyLoss
	ruleAcidDissolveSand
	ruleAcidDissolveStone
	ruleAcidDissolveWood
	ruleAcidDissolveGlass
	ruleAcidDissolveOil
	ruleAcidDissolveGunpowder
	ruleAcidDissolveBomb
	ruleAcidDissolveSmoke

	ruleStoneHeatGainMultiplier
	ruleStoneHeatDecay
	ruleStoneMaxHeatWater
	ruleStoneMaxHeatWood
	ruleStoneMaxHeatGunpowder
	ruleStoneMaxHeatBomb
	ruleStoneMaxHeatSand
)

// cellSrc derives the RNG stream a rule uses for one particular cell of
// the block, so that the four cells of a block never share a draw.
func cellSrc(base rng.Source, id ruleID, idx int) rng.Source {
	return base.Fork(uint32(id)*4 + uint32(idx))
}

// clampByte clamps v into the inclusive range [0, 255].
func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Apply runs every reaction rule against b in the fixed order the block
// kernel requires and returns the resulting block.
func Apply(b block.Block, src rng.Source) block.Block {
	b = applyAging(b, src.Fork(0x61676e67)) // "agng"
	b = applyFireWater(b, src.Fork(0x66697277))
	b = applyFireWood(b, src.Fork(0x6669776f))
	b = applyFireOil(b, src.Fork(0x6669666f))
	b = applyFireSand(b, src.Fork(0x66697366))
	b = applyFireBomb(b, src.Fork(0x6669666d))
	b = applyBlastFirePropagation(b, src.Fork(0x626c6173))
	b = applyFireGunpowder(b, src.Fork(0x66697067))
	b = applyLava(b, src.Fork(0x6c617661))
	b = applyAcid(b, src.Fork(0x61636964))
	b = applyStoneHeat(b, src.Fork(0x73746e68))
	return b
}
