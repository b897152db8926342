//go:build !nogpu

package gpu

import "errors"

// Backend lifecycle errors.
var (
	ErrNotInitialized = errors.New("gpu: backend not initialized")
	ErrAlreadyInit    = errors.New("gpu: backend already initialized")
	ErrNoDeviceHandle   = errors.New("gpu: device provider returned no handle")
	ErrDeviceLost       = errors.New("gpu: device lost")
	ErrInvalidPassCount = errors.New("gpu: passesPerFrame must be a positive multiple of 4")
)

// Buffer errors.
var (
	ErrBufferDestroyed         = errors.New("gpu: buffer already destroyed")
	ErrNilBuffer               = errors.New("gpu: buffer is nil")
	ErrCallbackNil             = errors.New("gpu: MapAsync callback is nil")
	ErrMappingAlreadyPending   = errors.New("gpu: a mapping is already pending on this buffer")
	ErrOffsetOutOfRange        = errors.New("gpu: map offset out of range")
	ErrSizeOutOfRange          = errors.New("gpu: map size out of range")
	ErrReadbackAlreadyInFlight = errors.New("gpu: a readback is already in flight")
	ErrReadbackDropped         = errors.New("gpu: readback failed and was dropped")
)

// Compute pass errors.
var (
	ErrComputePassEnded                = errors.New("gpu: compute pass has already ended")
	ErrNilComputePipeline              = errors.New("gpu: compute pipeline is nil")
	ErrNilComputeBindGroup             = errors.New("gpu: bind group is nil")
	ErrComputeBindGroupIndexOutOfRange = errors.New("gpu: bind group index exceeds maximum")
	ErrWorkgroupCountZero              = errors.New("gpu: workgroup count must be greater than zero")
)

// Command encoder errors.
var (
	ErrEncoderFinished = errors.New("gpu: command encoder already finished")
	ErrNilEncoder      = errors.New("gpu: command encoder is nil")
)

// Shader compilation errors.
var (
	ErrShaderCompileFailed = errors.New("gpu: WGSL to SPIR-V compilation failed")
)
