//go:build !nogpu

// Package gpu wires the block-update, conditional-write, and particle-count
// compute shaders to a host-provided WebGPU device. It does not acquire a
// device itself: the host hands one in via gpucontext.DeviceProvider, and
// this package only compiles shaders, allocates buffers, and records and
// submits compute passes against it.
package gpu

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Backend owns the compiled compute pipelines, the ping-pong cell buffers,
// and the pending-write and readback staging buffers for one simulation
// instance. A Backend is built from a device the host already created; it
// never requests its own adapter.
type Backend struct {
	mu sync.RWMutex

	provider gpucontext.DeviceProvider
	device   hal.Device
	queue    hal.Queue

	pipelines Pipelines

	width          uint32
	height         uint32
	passesPerFrame int
	frameCounter   uint32

	cells         *CellBuffers
	pending       *Buffer
	countResult   *Buffer
	readback      *ReadbackStagingBuffer
	particleCount atomic.Uint32

	// blockPassSlots holds one precomputed uniform buffer and bind group
	// per pass index in the frame schedule; writeSlot and countSlot hold
	// the equivalent static resources for the conditional-write and
	// count-reduction passes. All three are built once in init and
	// destroyed only in Close, never per Step.
	blockPassSlots []passSlot
	writeSlot      passSlot
	countSlot      passSlot

	initialized bool
}

// NewBackend wraps the device the host provides and allocates the fixed
// buffer set: two ping-pong cell buffers, a pending-write buffer, a
// one-word readback staging buffer, and the precomputed per-pass uniform
// buffers and bind groups the frame loop dispatches against. The host
// retains ownership of the device's lifetime; Close releases only the
// resources this backend allocated.
//
// passesPerFrame must be a positive multiple of 4: the precomputed pass
// slots are indexed by pass position under the assumption that every
// Step leaves the cell ping-pong index back at 0, which only holds when
// passesPerFrame is even.
func NewBackend(provider gpucontext.DeviceProvider, width, height uint32, passesPerFrame int) (*Backend, error) {
	if provider == nil {
		return nil, fmt.Errorf("gpu: %w", ErrNoDeviceHandle)
	}
	if provider.Device() == nil {
		return nil, fmt.Errorf("gpu: %w", ErrNoDeviceHandle)
	}
	if passesPerFrame <= 0 || passesPerFrame%4 != 0 {
		return nil, fmt.Errorf("gpu: %w", ErrInvalidPassCount)
	}

	b := &Backend{provider: provider, width: width, height: height, passesPerFrame: passesPerFrame}
	if err := b.init(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return ErrAlreadyInit
	}

	device, ok := b.provider.Device().(hal.Device)
	if !ok {
		return fmt.Errorf("gpu: %w: device handle is not a hal.Device", ErrNoDeviceHandle)
	}
	b.device = device

	queue, ok := b.provider.Queue().(hal.Queue)
	if !ok {
		return fmt.Errorf("gpu: %w: queue handle is not a hal.Queue", ErrNoDeviceHandle)
	}
	b.queue = queue

	pipelines, err := buildPipelines(b.device)
	if err != nil {
		return fmt.Errorf("gpu: building compute pipelines: %w", err)
	}
	b.pipelines = pipelines

	cells, err := NewCellBuffers(b.device, b.width, b.height)
	if err != nil {
		b.pipelines.release()
		return fmt.Errorf("gpu: allocating cell buffers: %w", err)
	}
	b.cells = cells

	cellCount := uint64(b.width) * uint64(b.height)
	pending, err := CreateBuffer(b.device, &BufferDescriptor{
		Label: "powder_pending",
		Size:  cellCount * 4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		cells.Destroy()
		b.pipelines.release()
		return fmt.Errorf("gpu: allocating pending buffer: %w", err)
	}
	b.pending = pending

	countResult, err := CreateBuffer(b.device, &BufferDescriptor{
		Label: "powder_count_result",
		Size:  4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		pending.Destroy()
		cells.Destroy()
		b.pipelines.release()
		return fmt.Errorf("gpu: allocating count result buffer: %w", err)
	}
	b.countResult = countResult

	readback, err := NewReadbackStagingBuffer(b.device, "powder_readback")
	if err != nil {
		countResult.Destroy()
		pending.Destroy()
		cells.Destroy()
		b.pipelines.release()
		return fmt.Errorf("gpu: allocating readback staging buffer: %w", err)
	}
	b.readback = readback

	if err := b.buildBlockPassSlots(); err != nil {
		readback.Destroy()
		countResult.Destroy()
		pending.Destroy()
		cells.Destroy()
		b.pipelines.release()
		return err
	}
	if err := b.buildConditionalWriteSlot(); err != nil {
		b.destroyPassSlots()
		readback.Destroy()
		countResult.Destroy()
		pending.Destroy()
		cells.Destroy()
		b.pipelines.release()
		return err
	}
	if err := b.buildCountReductionSlot(); err != nil {
		b.destroyPassSlots()
		readback.Destroy()
		countResult.Destroy()
		pending.Destroy()
		cells.Destroy()
		b.pipelines.release()
		return err
	}

	b.initialized = true
	slogger().Debug("gpu backend initialized", "width", b.width, "height", b.height)
	log.Println("gpu: backend initialized successfully")
	return nil
}

// Close releases everything this backend allocated. It does not touch the
// host-owned device or queue.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.destroyPassSlots()
	if b.readback != nil {
		b.readback.Destroy()
	}
	if b.countResult != nil {
		b.countResult.Destroy()
	}
	if b.pending != nil {
		b.pending.Destroy()
	}
	if b.cells != nil {
		b.cells.Destroy()
	}
	b.pipelines.release()
	b.initialized = false
	log.Println("gpu: backend closed")
}

// IsInitialized reports whether init completed successfully and Close has
// not run since.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// Device returns the wrapped device.
func (b *Backend) Device() hal.Device {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

// Queue returns the wrapped queue.
func (b *Backend) Queue() hal.Queue {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

// Pipelines returns the compiled compute pipelines for recording passes.
func (b *Backend) Pipelines() Pipelines {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pipelines
}
