//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/powder/scheduler"
	"github.com/gogpu/wgpu/hal"
)

const submitWaitTimeout = 5 * time.Second

// PendingWrite is one brush stroke cell the host wants applied before the
// next Step. X,Y are grid coordinates; Word is the packed cell
// value cell.Make would produce.
type PendingWrite struct {
	X, Y uint32
	Word uint32
}

const pendingBit = 0x80000000

// WriteCells stages brush-ingestion writes into the pending buffer and
// applies them via the conditional-write pass before this frame's block
// passes run. Writes outside the grid are silently dropped.
func (b *Backend) WriteCells(writes []PendingWrite) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if len(writes) == 0 {
		return nil
	}

	slots := make(map[uint32][]byte)
	for _, w := range writes {
		if w.X >= b.width || w.Y >= b.height {
			continue
		}
		idx := w.Y*b.width + w.X
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, (w.Word&0x00FFFFFF)|pendingBit)
		slots[idx] = buf
	}
	for idx, word := range slots {
		b.queue.WriteBuffer(b.pending.Raw(), uint64(idx)*4, word)
	}
	return nil
}

// Clear zeroes both cell buffers and the pending buffer, dropping all live
// matter and any unapplied brush writes, and resets the frame counter to 0.
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}

	zeros := make([]byte, b.cells.Current().Size())
	b.queue.WriteBuffer(b.cells.buffers[0].Raw(), 0, zeros)
	b.queue.WriteBuffer(b.cells.buffers[1].Raw(), 0, zeros)
	b.queue.WriteBuffer(b.pending.Raw(), 0, make([]byte, b.pending.Size()))
	b.frameCounter = 0
	return nil
}

// Step advances the simulation by one frame: applies any pending brush
// writes, then runs passesPerFrame Margolus passes per scheduler.Plan,
// recording everything into a single command buffer that is submitted
// and waited on before Step returns.
func (b *Backend) Step() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "powder_frame"})
	if err != nil {
		return fmt.Errorf("gpu: creating command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("powder_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	if err := b.dispatchConditionalWrite(encoder, b.cells.Current()); err != nil {
		return fmt.Errorf("gpu: recording conditional write: %w", err)
	}

	passes := scheduler.Plan(b.width, b.height, b.frameCounter, b.passesPerFrame)
	for i, pass := range passes {
		pass.ReadBuffer = b.cells.Index()
		pass.WriteBuffer = 1 - b.cells.Index()
		if err := b.dispatchBlockPass(encoder, i, pass); err != nil {
			return fmt.Errorf("gpu: recording block pass: %w", err)
		}
		b.cells.Swap()
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submit(cmdBuf); err != nil {
		return err
	}

	b.frameCounter++
	return nil
}

func (b *Backend) submit(cmdBuf hal.CommandBuffer) error {
	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: creating fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, submitWaitTimeout)
	if err != nil {
		return fmt.Errorf("gpu: %w: %v", ErrDeviceLost, err)
	}
	if !ok {
		return fmt.Errorf("gpu: %w: fence wait timed out", ErrDeviceLost)
	}
	return nil
}

// RequestParticleCount counts the occupied cells and stores the result for
// ParticleCount before it returns. The readback is synchronous: it
// submits the count pass, waits for it, and reads the staging buffer
// while holding the backend's lock, so no request is left in flight
// between calls and there is no asynchronous completion.
func (b *Backend) RequestParticleCount() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if !b.readback.Begin() {
		return ErrReadbackAlreadyInFlight
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "powder_readback"})
	if err != nil {
		b.readback.Finish()
		return fmt.Errorf("gpu: creating command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("powder_readback"); err != nil {
		b.readback.Finish()
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	if err := b.dispatchCountReduction(encoder, b.cells.Current()); err != nil {
		b.readback.Finish()
		return fmt.Errorf("gpu: recording count reduction: %w", err)
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		b.readback.Finish()
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submit(cmdBuf); err != nil {
		b.readback.Finish()
		return err
	}

	stagingBuf := b.readback.Buffer()
	result := make([]byte, 4)
	if err := b.queue.ReadBuffer(stagingBuf.Raw(), 0, result); err != nil {
		b.readback.Finish()
		return fmt.Errorf("gpu: %w: %v", ErrReadbackDropped, err)
	}
	b.particleCount.Store(binary.LittleEndian.Uint32(result))
	b.readback.Finish()
	return nil
}

// ParticleCount returns the most recently collected readback, or zero if
// none has completed yet.
func (b *Backend) ParticleCount() uint32 {
	return b.particleCount.Load()
}

// CurrentBufferIndex reports which of the two ping-pong buffers holds
// the live grid.
func (b *Backend) CurrentBufferIndex() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells.Index()
}

// FrameCounter returns the number of completed Step calls.
func (b *Backend) FrameCounter() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frameCounter
}
