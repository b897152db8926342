// Package movement implements the block-local gravity and lateral flow
// rules that run after reactions settle a block's element identities.
// Like package reaction, every rule here reads and writes only the four
// cells of the block it receives.
package movement

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/rng"
)

// fork constants separate the gate, gravity, and lateral sub-streams so
// none of their probabilistic decisions correlate with each other.
const (
	forkSkipGate = 0x736b6970 // "skip"
	forkGravity  = 0x67726176 // "grav"
	forkLateral  = 0x6c617465 // "late"
)

// Apply runs the deterministic move gate, the gravity phase (unless
// skipped or lateralOnly), and the lateral phase (which always runs),
// in that fixed order.
func Apply(b block.Block, src rng.Source, lateralOnly bool) block.Block {
	skip := skipGravity(src.Fork(forkSkipGate))
	if !lateralOnly && !skip {
		b = applyGravity(b, src.Fork(forkGravity))
	}
	b = applyLateral(b, src.Fork(forkLateral))
	return b
}

// skipGravity implements the deterministic move gate: bits 4-5 of
// the forked seed give a 25% chance to skip gravity this pass, so waves
// of falling material desynchronize instead of advancing in lockstep.
func skipGravity(src rng.Source) bool {
	return (src.Uint32()>>4)&0x3 == 0
}
