//go:build !nogpu

// Package gpu drives the falling-powder block cellular automaton on a
// WebGPU device the host already created. It does not acquire its own
// adapter or surface: gpucontext.DeviceProvider hands in a device and
// queue, and this package compiles the three compute shaders, allocates
// the ping-pong cell buffers, and records and submits the passes that
// make up one simulation step.
//
// # Pipeline
//
// Each Step records, in order, onto a single command buffer:
//
//  1. conditional_write: apply any pending brush-ingestion writes to the
//     live cell buffer.
//  2. block_update, once per scheduler.Plan pass: copy the read buffer
//     over the write buffer (orphan-edge carry for cells outside this
//     pass's aligned 2x2 blocks), then dispatch the Margolus block kernel
//     over the aligned blocks and swap the ping-pong buffers.
//
// RequestParticleCount records a separate command buffer that reduces
// the live buffer's occupied-cell count into a one-word result and
// copies it to a host-mappable staging buffer; ParticleCount returns the
// most recently collected value. At most one readback may be in flight
// at a time.
//
// # Buffers
//
//   - CellBuffers: two storage buffers holding the packed 32-bit cell
//     grid, swapped after every pass instead of copied.
//   - pending: one word per cell, written by WriteCells and consumed by
//     the conditional_write pass.
//   - countResult / readback: the one-word reduction target and its
//     host-mappable staging copy.
//
// # Thread Safety
//
// Backend is safe for concurrent use; a single mutex guards pipeline and
// buffer state across Step, WriteCells, Clear, and RequestParticleCount.
package gpu
