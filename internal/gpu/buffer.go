//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Buffer errors specific to this file; the shared lifecycle/pass errors
// live in errors.go.
var (
	ErrInvalidBufferSize   = fmt.Errorf("gpu: invalid buffer size")
	ErrBufferAlreadyMapped = fmt.Errorf("gpu: buffer is already mapped or mapping is pending")
	ErrBufferNotMapped     = fmt.Errorf("gpu: buffer is not mapped")
	ErrBufferMapPending    = fmt.Errorf("gpu: buffer mapping is pending")
	ErrInvalidMapMode      = fmt.Errorf("gpu: invalid map mode")
	ErrInvalidMapRange     = fmt.Errorf("gpu: map range out of bounds")
	ErrMapUsageMismatch    = fmt.Errorf("gpu: map mode does not match buffer usage flags")
	ErrNilHALDevice        = fmt.Errorf("gpu: device is nil")
)

// BufferMapState is the mapping state of a Buffer.
type BufferMapState int

const (
	BufferMapStateUnmapped BufferMapState = iota
	BufferMapStatePending
	BufferMapStateMapped
)

func (s BufferMapState) String() string {
	switch s {
	case BufferMapStateUnmapped:
		return "Unmapped"
	case BufferMapStatePending:
		return "Pending"
	case BufferMapStateMapped:
		return "Mapped"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// BufferMapAsyncStatus is the outcome of an async map operation.
type BufferMapAsyncStatus int

const (
	BufferMapAsyncStatusSuccess BufferMapAsyncStatus = iota
	BufferMapAsyncStatusValidationError
	BufferMapAsyncStatusUnknown
	BufferMapAsyncStatusDeviceLost
	BufferMapAsyncStatusDestroyedBeforeCallback
	BufferMapAsyncStatusUnmappedBeforeCallback
	BufferMapAsyncStatusMappingAlreadyPending
	BufferMapAsyncStatusOffsetOutOfRange
	BufferMapAsyncStatusSizeOutOfRange
)

func (s BufferMapAsyncStatus) String() string {
	switch s {
	case BufferMapAsyncStatusSuccess:
		return "Success"
	case BufferMapAsyncStatusValidationError:
		return "ValidationError"
	case BufferMapAsyncStatusDeviceLost:
		return "DeviceLost"
	case BufferMapAsyncStatusDestroyedBeforeCallback:
		return "DestroyedBeforeCallback"
	case BufferMapAsyncStatusUnmappedBeforeCallback:
		return "UnmappedBeforeCallback"
	case BufferMapAsyncStatusMappingAlreadyPending:
		return "MappingAlreadyPending"
	case BufferMapAsyncStatusOffsetOutOfRange:
		return "OffsetOutOfRange"
	case BufferMapAsyncStatusSizeOutOfRange:
		return "SizeOutOfRange"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label            string
	Size             uint64
	Usage            gputypes.BufferUsage
	MappedAtCreation bool
}

// Buffer wraps a hal.Buffer with Go-idiomatic async mapping, the pattern
// every readback in this package goes through: MapAsync then poll with
// PollMapAsync until the callback fires.
type Buffer struct {
	mu sync.RWMutex

	halBuffer  hal.Buffer
	device     hal.Device
	descriptor BufferDescriptor

	mapState    BufferMapState
	mapMode     gputypes.MapMode
	mapOffset   uint64
	mapSize     uint64
	mappedData  []byte
	mapCallback func(BufferMapAsyncStatus)

	destroyed bool
}

func NewBuffer(halBuffer hal.Buffer, device hal.Device, desc *BufferDescriptor) *Buffer {
	buf := &Buffer{
		halBuffer:  halBuffer,
		device:     device,
		descriptor: *desc,
		mapState:   BufferMapStateUnmapped,
	}
	if desc.MappedAtCreation {
		buf.mapState = BufferMapStateMapped
		buf.mapMode = gputypes.MapModeWrite
		buf.mapOffset = 0
		buf.mapSize = desc.Size
	}
	return buf
}

func (b *Buffer) Label() string               { return b.descriptor.Label }
func (b *Buffer) Size() uint64                { return b.descriptor.Size }
func (b *Buffer) Usage() gputypes.BufferUsage { return b.descriptor.Usage }
func (b *Buffer) Descriptor() BufferDescriptor { return b.descriptor }

func (b *Buffer) MapState() BufferMapState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mapState
}

func (b *Buffer) IsDestroyed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.destroyed
}

// Raw returns the underlying handle, or nil once destroyed.
func (b *Buffer) Raw() hal.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.destroyed {
		return nil
	}
	return b.halBuffer
}

func (b *Buffer) MapAsync(mode gputypes.MapMode, offset, size uint64, callback func(BufferMapAsyncStatus)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return ErrBufferDestroyed
	}
	if b.mapState != BufferMapStateUnmapped {
		if callback != nil {
			callback(BufferMapAsyncStatusMappingAlreadyPending)
		}
		return ErrBufferAlreadyMapped
	}
	if callback == nil {
		return ErrCallbackNil
	}
	if mode == gputypes.MapModeRead && !b.descriptor.Usage.Contains(gputypes.BufferUsageMapRead) {
		callback(BufferMapAsyncStatusValidationError)
		return fmt.Errorf("%w: buffer does not have MapRead usage", ErrMapUsageMismatch)
	}
	if mode == gputypes.MapModeWrite && !b.descriptor.Usage.Contains(gputypes.BufferUsageMapWrite) {
		callback(BufferMapAsyncStatusValidationError)
		return fmt.Errorf("%w: buffer does not have MapWrite usage", ErrMapUsageMismatch)
	}
	if offset > b.descriptor.Size || offset+size > b.descriptor.Size {
		callback(BufferMapAsyncStatusOffsetOutOfRange)
		return fmt.Errorf("%w: offset %d size %d buffer size %d", ErrInvalidMapRange, offset, size, b.descriptor.Size)
	}

	b.mapState = BufferMapStatePending
	b.mapMode = mode
	b.mapOffset = offset
	b.mapSize = size
	b.mapCallback = callback
	return nil
}

// PollMapAsync drives a pending map to completion. The host calls this
// once per poll tick, after device.Wait on the fence guarding the copy
// that feeds this buffer.
func (b *Buffer) PollMapAsync() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mapState != BufferMapStatePending {
		return b.mapState == BufferMapStateMapped || b.mapState == BufferMapStateUnmapped
	}
	if b.destroyed {
		if b.mapCallback != nil {
			cb := b.mapCallback
			b.mapCallback = nil
			b.mapState = BufferMapStateUnmapped
			b.mu.Unlock()
			cb(BufferMapAsyncStatusDestroyedBeforeCallback)
			b.mu.Lock()
		}
		return true
	}

	b.mappedData = make([]byte, b.mapSize)
	b.mapState = BufferMapStateMapped
	if b.mapCallback != nil {
		cb := b.mapCallback
		b.mapCallback = nil
		b.mu.Unlock()
		cb(BufferMapAsyncStatusSuccess)
		b.mu.Lock()
	}
	return true
}

func (b *Buffer) GetMappedRange(offset, size uint64) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.mapState == BufferMapStatePending {
		return nil, ErrBufferMapPending
	}
	if b.mapState != BufferMapStateMapped {
		return nil, ErrBufferNotMapped
	}
	if offset < b.mapOffset || offset+size > b.mapOffset+b.mapSize {
		return nil, fmt.Errorf("%w: [%d,%d) outside mapped range [%d,%d)", ErrInvalidMapRange, offset, offset+size, b.mapOffset, b.mapOffset+b.mapSize)
	}
	rel := offset - b.mapOffset
	return b.mappedData[rel : rel+size], nil
}

func (b *Buffer) Unmap() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return ErrBufferDestroyed
	}
	if b.mapState == BufferMapStatePending {
		if b.mapCallback != nil {
			cb := b.mapCallback
			b.mapCallback = nil
			b.mapState = BufferMapStateUnmapped
			b.mappedData = nil
			b.mu.Unlock()
			cb(BufferMapAsyncStatusUnmappedBeforeCallback)
			b.mu.Lock()
		}
		return nil
	}
	if b.mapState != BufferMapStateMapped {
		return nil
	}
	b.mapState = BufferMapStateUnmapped
	b.mappedData = nil
	b.mapCallback = nil
	return nil
}

func (b *Buffer) Destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	device := b.device
	halBuf := b.halBuffer
	cb := b.mapCallback
	wasMapping := b.mapState == BufferMapStatePending
	b.halBuffer = nil
	b.mappedData = nil
	b.mapCallback = nil
	b.mapState = BufferMapStateUnmapped
	b.mu.Unlock()

	if wasMapping && cb != nil {
		cb(BufferMapAsyncStatusDestroyedBeforeCallback)
	}
	if device != nil && halBuf != nil {
		device.DestroyBuffer(halBuf)
	}
}

// CreateBuffer creates and wraps a device buffer, 4-byte aligning Size the
// way every buffer in the ping-pong/uniform/pending/staging set requires.
func CreateBuffer(device hal.Device, desc *BufferDescriptor) (*Buffer, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	if desc.Size == 0 {
		return nil, fmt.Errorf("%w: size is 0", ErrInvalidBufferSize)
	}
	if desc.Usage == 0 {
		return nil, fmt.Errorf("gpu: buffer usage is empty")
	}

	const alignment uint64 = 4
	alignedSize := (desc.Size + alignment - 1) &^ (alignment - 1)

	halDesc := &hal.BufferDescriptor{
		Label:            desc.Label,
		Size:             alignedSize,
		Usage:            desc.Usage,
		MappedAtCreation: desc.MappedAtCreation,
	}
	halBuffer, err := device.CreateBuffer(halDesc)
	if err != nil {
		return nil, fmt.Errorf("gpu: buffer creation failed: %w", err)
	}

	resolved := *desc
	resolved.Size = alignedSize
	return NewBuffer(halBuffer, device, &resolved), nil
}

// CreateStagingBuffer creates a host-mappable buffer for CPU<->GPU transfer.
func CreateStagingBuffer(device hal.Device, size uint64, forUpload bool, label string) (*Buffer, error) {
	var usage gputypes.BufferUsage
	if forUpload {
		usage = gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc
	} else {
		usage = gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	}
	return CreateBuffer(device, &BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: forUpload,
	})
}

// CellBuffers is the ping-pong pair the block kernel reads from and writes
// to; each pass swaps which one is "current" (see current_buffer_index).
type CellBuffers struct {
	buffers [2]*Buffer
	current int
}

func NewCellBuffers(device hal.Device, width, height uint32) (*CellBuffers, error) {
	size := uint64(width) * uint64(height) * 4
	usage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst

	cb := &CellBuffers{}
	for i := range cb.buffers {
		buf, err := CreateBuffer(device, &BufferDescriptor{
			Label: fmt.Sprintf("powder_cells_%d", i),
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			cb.Destroy()
			return nil, fmt.Errorf("gpu: creating cell buffer %d: %w", i, err)
		}
		cb.buffers[i] = buf
	}
	return cb, nil
}

func (cb *CellBuffers) Current() *Buffer { return cb.buffers[cb.current] }
func (cb *CellBuffers) Other() *Buffer   { return cb.buffers[1-cb.current] }
func (cb *CellBuffers) Index() int       { return cb.current }
func (cb *CellBuffers) Swap()            { cb.current = 1 - cb.current }

func (cb *CellBuffers) Destroy() {
	for _, buf := range cb.buffers {
		if buf != nil {
			buf.Destroy()
		}
	}
}

// ReadbackStagingBuffer guards the single in-flight particle-count
// readback: a second RequestParticleCount while one is outstanding is
// rejected rather than queued.
type ReadbackStagingBuffer struct {
	buffer   *Buffer
	inFlight atomic.Bool
}

func NewReadbackStagingBuffer(device hal.Device, label string) (*ReadbackStagingBuffer, error) {
	buf, err := CreateStagingBuffer(device, 4, false, label)
	if err != nil {
		return nil, err
	}
	return &ReadbackStagingBuffer{buffer: buf}, nil
}

// Begin marks a readback as in flight. It returns false, doing nothing
// else, if one was already outstanding.
func (r *ReadbackStagingBuffer) Begin() bool {
	return r.inFlight.CompareAndSwap(false, true)
}

// Finish clears the in-flight marker, whether or not the readback
// actually completed successfully.
func (r *ReadbackStagingBuffer) Finish() {
	r.inFlight.Store(false)
}

func (r *ReadbackStagingBuffer) Buffer() *Buffer { return r.buffer }

func (r *ReadbackStagingBuffer) Destroy() {
	if r.buffer != nil {
		r.buffer.Destroy()
	}
}
