// Package powder implements a GPU-accelerated falling-powder simulator: a
// grid of cells whose state evolves each frame under a block cellular
// automaton kernel encoding gravity, liquid flow, gas buoyancy, and a table
// of inter-element reactions.
//
// # Quick start
//
//	sim, err := powder.New(provider, powder.Config{
//	    Width:          512,
//	    Height:         512,
//	    PassesPerFrame: 8,
//	})
//	if err != nil {
//	    return err
//	}
//	defer sim.Close()
//
//	sim.WriteCells([]powder.PendingWrite{{X: 10, Y: 0, Word: uint32(cell.Make(cell.Sand, 0, 0))}})
//	if err := sim.Step(); err != nil {
//	    return err
//	}
//
// # Scope
//
// powder owns the cell grid, the reaction and movement rules, and the pass
// scheduler that makes the block update correct on a massively parallel
// device. It does not own window or canvas setup, GPU device acquisition,
// pixel colorizing, input handling, or UI chrome; those are host
// responsibilities. The host hands powder a device via a
// gpucontext.DeviceProvider; powder never creates its own.
//
// # Packages
//
//   - powder (this package): the public Simulation type and Host<->core API.
//   - powder/cell: the 32-bit cell word codec.
//   - powder/element: per-element density and capability table.
//   - powder/rng: the stateless hash PRNG all randomness derives from.
//   - powder/reaction: the per-block reaction rule table.
//   - powder/movement: gravity, drag, and lateral-spread rules.
//   - powder/kernel: the pure block-update function and a CPU reference
//     simulator used by tests and as a no-GPU fallback.
//   - powder/scheduler: per-frame pass planning (offsets, ping-pong
//     direction, dispatch sizing).
//   - powder/internal/gpu: the WebGPU compute backend.
package powder

// Version identifies the powder module.
const Version = "0.1.0"
