// Package kernel implements the block cellular automaton's pure update
// function and a CPU reference simulator that mirrors it over a
// full grid, used both as the GPU shader's semantic source of truth and
// as the harness the property and scenario tests run against.
package kernel

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/movement"
	"github.com/gogpu/powder/reaction"
	"github.com/gogpu/powder/rng"
)

const (
	forkReaction = 0x52454143 // "REAC"
	forkMovement = 0x4d4f5645 // "MOVE"
)

// UpdateBlock is the pure function at the heart of the simulation
//: it reads exactly the four cells of one Margolus block, derives
// the block's RNG from its base coordinates and the combined frame/pass
// counter, applies the fixed-order reaction table, then the movement
// rules (gravity unless lateralOnly, then lateral), and returns the four
// updated cells. It performs no reads outside the block it is given.
func UpdateBlock(blockBaseX, blockBaseY int32, frameAndPass uint32, lateralOnly bool, in block.Block) block.Block {
	src := rng.BlockSeed(blockBaseX, blockBaseY, frameAndPass)
	out := reaction.Apply(in, src.Fork(forkReaction))
	out = movement.Apply(out, src.Fork(forkMovement), lateralOnly)
	return out
}
