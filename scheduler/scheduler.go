// Package scheduler builds the per-frame pass plan the block kernel runs
// under: the shuffled Margolus offset order, the ping-pong buffer
// assignment, the gravity/lateral-only split, and the dispatch grid size
// for a given offset.
package scheduler

import "github.com/gogpu/powder/rng"

// Offset is one of the four Margolus tiling origins.
type Offset struct {
	X, Y uint32
}

var margolusOffsets = [4]Offset{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// PassUniform is the per-pass uniform record every bind group needs its
// own independent slot for: a single shared uniform would be
// overwritten before earlier passes execute on the device.
type PassUniform struct {
	Width, Height           uint32
	OffsetX, OffsetY        uint32
	FrameAndPass            uint32
	LateralOnly             bool
	ReadBuffer, WriteBuffer int
}

// Plan builds the full ordered list of passes for one frame.
// passesPerFrame must be a positive multiple of 4; the first half of the
// passes run full simulation, the second half set LateralOnly.
func Plan(width, height, frameCounter uint32, passesPerFrame int) []PassUniform {
	if passesPerFrame <= 0 || passesPerFrame%4 != 0 {
		panic("scheduler: passesPerFrame must be a positive multiple of 4")
	}
	plan := make([]PassUniform, 0, passesPerFrame)
	halfway := passesPerFrame / 2
	sweeps := passesPerFrame / 4
	passIdx := 0
	for sweep := 0; sweep < sweeps; sweep++ {
		for _, off := range shuffledOffsets(frameCounter, sweep) {
			plan = append(plan, PassUniform{
				Width:        width,
				Height:       height,
				OffsetX:      off.X,
				OffsetY:      off.Y,
				FrameAndPass: frameCounter*uint32(passesPerFrame) + uint32(passIdx),
				LateralOnly:  passIdx >= halfway,
				ReadBuffer:   passIdx % 2,
				WriteBuffer:  (passIdx + 1) % 2,
			})
			passIdx++
		}
	}
	return plan
}

// shuffledOffsets draws a uniformly random permutation of the four
// Margolus offsets, seeded by hash(frame*2 + sweep). A fixed order would
// introduce a visible directional bias.
func shuffledOffsets(frameCounter uint32, sweep int) [4]Offset {
	src := rng.FromSeed(frameCounter*2 + uint32(sweep))
	order := margolusOffsets
	for i := 3; i > 0; i-- {
		j := src.Fork(uint32(i)).Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// DispatchBlocks returns the number of 2x2 blocks a dispatch at the
// given offset must cover.
func DispatchBlocks(width, height, offsetX, offsetY uint32) (blocksX, blocksY uint32) {
	return ceilDiv(width-offsetX, 2), ceilDiv(height-offsetY, 2)
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
