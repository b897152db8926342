//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/powder/scheduler"
	"github.com/gogpu/wgpu/hal"
)

// passUniformSize matches PassParams in block_update.wgsl: six u32 fields
// plus two pad words, 32 bytes.
const passUniformSize = 32

func encodePassUniform(pass scheduler.PassUniform) []byte {
	buf := make([]byte, passUniformSize)
	putU32(buf[0:4], pass.Width)
	putU32(buf[4:8], pass.Height)
	putU32(buf[8:12], pass.OffsetX)
	putU32(buf[12:16], pass.OffsetY)
	putU32(buf[16:20], pass.FrameAndPass)
	if pass.LateralOnly {
		putU32(buf[20:24], 1)
	}
	return buf
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// passSlot holds one pass's uniform buffer and bind group, built once at
// Init and reused every frame: a dispatch only rewrites the uniform's
// contents and records a SetBindGroup, it never allocates.
type passSlot struct {
	uniform   *Buffer
	bindGroup hal.BindGroup
}

func (s passSlot) destroy(device hal.Device) {
	if s.bindGroup != nil {
		device.DestroyBindGroup(s.bindGroup)
	}
	if s.uniform != nil {
		s.uniform.Destroy()
	}
}

// buildBlockPassSlots precomputes one passSlot per (pass-index,
// ping-pong-direction) pair in the frame's schedule. Because
// passesPerFrame is validated to be a multiple of 4, the read/write
// buffer assignment for pass index i is always (i%2, 1-i%2): every Step
// leaves CellBuffers at index 0 before the next one starts, so the
// direction a given pass index reads and writes never changes frame to
// frame, only the uniform contents (offsets, frame/pass counter) do.
func (b *Backend) buildBlockPassSlots() error {
	slots := make([]passSlot, b.passesPerFrame)
	for i := range slots {
		readBuf := b.cells.buffers[i%2]
		writeBuf := b.cells.buffers[1-i%2]

		uniformBuf, err := CreateBuffer(b.device, &BufferDescriptor{
			Label: "powder_pass_uniform",
			Size:  passUniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			for _, s := range slots[:i] {
				s.destroy(b.device)
			}
			return fmt.Errorf("gpu: creating pass uniform buffer %d: %w", i, err)
		}

		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "powder_block_update_bind",
			Layout: b.pipelines.BlockUpdateLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.Raw().NativeHandle(), Offset: 0, Size: passUniformSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: readBuf.Raw().NativeHandle(), Offset: 0, Size: readBuf.Size()}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: writeBuf.Raw().NativeHandle(), Offset: 0, Size: writeBuf.Size()}},
			},
		})
		if err != nil {
			uniformBuf.Destroy()
			for _, s := range slots[:i] {
				s.destroy(b.device)
			}
			return fmt.Errorf("gpu: creating block update bind group %d: %w", i, err)
		}
		slots[i] = passSlot{uniform: uniformBuf, bindGroup: bg}
	}
	b.blockPassSlots = slots
	return nil
}

// buildConditionalWriteSlot precomputes the brush-ingestion pass's
// uniform buffer and bind group. Its contents (grid width/height) never
// change after construction, so the uniform is written once here and the
// bind group is reused for every Step.
func (b *Backend) buildConditionalWriteSlot() error {
	uniformBuf, err := CreateBuffer(b.device, &BufferDescriptor{
		Label: "powder_write_uniform",
		Size:  16,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: creating conditional write uniform buffer: %w", err)
	}
	params := make([]byte, 16)
	putU32(params[0:4], b.width)
	putU32(params[4:8], b.height)
	b.queue.WriteBuffer(uniformBuf.Raw(), 0, params)

	live := b.cells.buffers[0]
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "powder_conditional_write_bind",
		Layout: b.pipelines.ConditionalWriteLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.Raw().NativeHandle(), Offset: 0, Size: 16}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: b.pending.Raw().NativeHandle(), Offset: 0, Size: b.pending.Size()}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: live.Raw().NativeHandle(), Offset: 0, Size: live.Size()}},
		},
	})
	if err != nil {
		uniformBuf.Destroy()
		return fmt.Errorf("gpu: creating conditional write bind group: %w", err)
	}
	b.writeSlot = passSlot{uniform: uniformBuf, bindGroup: bg}
	return nil
}

// buildCountReductionSlot precomputes the particle-count pass's uniform
// buffer and bind group, for the same reason as buildConditionalWriteSlot.
func (b *Backend) buildCountReductionSlot() error {
	uniformBuf, err := CreateBuffer(b.device, &BufferDescriptor{
		Label: "powder_count_uniform",
		Size:  16,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: creating count uniform buffer: %w", err)
	}
	params := make([]byte, 16)
	putU32(params[0:4], b.width)
	putU32(params[4:8], b.height)
	b.queue.WriteBuffer(uniformBuf.Raw(), 0, params)

	live := b.cells.buffers[0]
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "powder_count_reduction_bind",
		Layout: b.pipelines.CountReductionLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.Raw().NativeHandle(), Offset: 0, Size: 16}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: live.Raw().NativeHandle(), Offset: 0, Size: live.Size()}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: b.countResult.Raw().NativeHandle(), Offset: 0, Size: 4}},
		},
	})
	if err != nil {
		uniformBuf.Destroy()
		return fmt.Errorf("gpu: creating count reduction bind group: %w", err)
	}
	b.countSlot = passSlot{uniform: uniformBuf, bindGroup: bg}
	return nil
}

func (b *Backend) destroyPassSlots() {
	for _, s := range b.blockPassSlots {
		s.destroy(b.device)
	}
	b.blockPassSlots = nil
	b.writeSlot.destroy(b.device)
	b.writeSlot = passSlot{}
	b.countSlot.destroy(b.device)
	b.countSlot = passSlot{}
}

// dispatchBlockPass records the copy-through (orphan-edge carry) and the
// aligned-block compute dispatch for pass index passIdx onto an
// already-begun command encoder, using that index's precomputed uniform
// buffer and bind group.
func (b *Backend) dispatchBlockPass(encoder hal.CommandEncoder, passIdx int, pass scheduler.PassUniform) error {
	readBuf := b.cells.buffers[pass.ReadBuffer]
	writeBuf := b.cells.buffers[pass.WriteBuffer]

	encoder.CopyBufferToBuffer(readBuf.Raw(), writeBuf.Raw(), []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: readBuf.Size()},
	})

	slot := b.blockPassSlots[passIdx]
	b.queue.WriteBuffer(slot.uniform.Raw(), 0, encodePassUniform(pass))

	blocksX, blocksY := scheduler.DispatchBlocks(pass.Width, pass.Height, pass.OffsetX, pass.OffsetY)
	if blocksX == 0 || blocksY == 0 {
		return fmt.Errorf("gpu: %w", ErrWorkgroupCountZero)
	}
	groupsX := (blocksX + 7) / 8
	groupsY := (blocksY + 7) / 8

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "powder_block_update"})
	computePass.SetPipeline(b.pipelines.BlockUpdate)
	computePass.SetBindGroup(0, slot.bindGroup, nil)
	computePass.Dispatch(groupsX, groupsY, 1)
	computePass.End()
	return nil
}

// dispatchConditionalWrite records the brush-ingestion pass: it
// reads pending, conditionally overwrites live, then clears pending.
func (b *Backend) dispatchConditionalWrite(encoder hal.CommandEncoder, live *Buffer) error {
	totalCells := b.width * b.height
	groups := (totalCells + 63) / 64

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "powder_conditional_write"})
	computePass.SetPipeline(b.pipelines.ConditionalWrite)
	computePass.SetBindGroup(0, b.writeSlot.bindGroup, nil)
	computePass.Dispatch(groups, 1, 1)
	computePass.End()
	return nil
}

// dispatchCountReduction records the particle-count pass: it
// zeroes the one-word result buffer, then reduces the live buffer's
// non-empty cells into it.
func (b *Backend) dispatchCountReduction(encoder hal.CommandEncoder, live *Buffer) error {
	zero := make([]byte, 4)
	b.queue.WriteBuffer(b.countResult.Raw(), 0, zero)

	totalCells := b.width * b.height
	groups := (totalCells + 255) / 256

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "powder_count_reduction"})
	computePass.SetPipeline(b.pipelines.CountReduction)
	computePass.SetBindGroup(0, b.countSlot.bindGroup, nil)
	computePass.Dispatch(groups, 1, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(b.countResult.Raw(), b.readback.Buffer().Raw(), []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: 4},
	})
	return nil
}
