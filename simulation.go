//go:build !nogpu

package powder

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/powder/internal/gpu"
)

// PendingWrite is one brush-ingestion write: set the cell at (X,Y) to Word,
// applied at the start of the next Step. Writes outside the grid are
// silently dropped.
type PendingWrite = gpu.PendingWrite

// Simulation is the host-facing falling-powder core. It owns a ping-
// pong pair of cell buffers and the compute pipelines that advance them; it
// never acquires its own device, and it never blocks on anything but the
// GPU work it submits.
//
// A Simulation is safe for sequential use from one goroutine. It does not
// serialize concurrent Step/WriteCells/RequestParticleCount calls against
// each other beyond what the underlying backend already guarantees.
type Simulation struct {
	backend *gpu.Backend
	logger  *slog.Logger

	deviceLost atomic.Bool
}

// New builds a Simulation against the device the host provides. device must
// not be nil and must already be backed by a real GPU device and queue; New
// does not create one.
//
// New fails with ErrInvalidConfig if cfg's dimensions are below 2 or
// PassesPerFrame is not a positive multiple of 4, and with
// ErrDeviceInitFailure if buffer allocation or pipeline compilation against
// the provided device fails.
func New(device gpucontext.DeviceProvider, cfg Config) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = Logger()
	}

	backend, err := gpu.NewBackend(device, cfg.Width, cfg.Height, cfg.PassesPerFrame)
	if err != nil {
		return nil, errors.Join(ErrDeviceInitFailure, err)
	}

	sim := &Simulation{backend: backend, logger: logger}
	sim.logger.Info("powder: simulation created", "width", cfg.Width, "height", cfg.Height, "passes_per_frame", cfg.PassesPerFrame)
	return sim, nil
}

// Close releases the buffers and pipelines this Simulation allocated. It
// does not touch the host-owned device. Close is safe to call more than
// once.
func (s *Simulation) Close() {
	s.backend.Close()
}

// WriteCells stages brush-ingestion writes, applied at the start of the
// next Step. Out-of-bounds writes are silently dropped.
func (s *Simulation) WriteCells(writes []PendingWrite) error {
	return s.backend.WriteCells(writes)
}

// Clear zeroes both cell buffers and the pending buffer, dropping all live
// matter and any unapplied writes, and resets the frame counter to 0.
func (s *Simulation) Clear() error {
	return s.backend.Clear()
}

// Step advances the simulation by one frame. Step never returns an error
// for device loss: device loss is a notification from the device
// collaborator, not a core failure. When the underlying submit reports the
// device lost, Step logs it, marks the Simulation's buffers invalid, and
// returns nil; the host is expected to Close and reconstruct against a new
// device. Once a device loss has been observed, further Step calls are
// no-ops.
func (s *Simulation) Step() error {
	if s.deviceLost.Load() {
		return nil
	}
	if err := s.backend.Step(); err != nil {
		if errors.Is(err, gpu.ErrDeviceLost) {
			s.deviceLost.Store(true)
			s.logger.Error("powder: device lost during step", "error", errors.Join(ErrDeviceLost, err))
			return nil
		}
		return err
	}
	return nil
}

// RequestParticleCount reads back the number of occupied cells; the
// readback completes before it returns. A dropped readback is never
// user-visible: RequestParticleCount logs it and leaves ParticleCount's
// cached value at whatever it last was.
func (s *Simulation) RequestParticleCount() error {
	if s.deviceLost.Load() {
		return nil
	}
	if err := s.backend.RequestParticleCount(); err != nil {
		if errors.Is(err, gpu.ErrReadbackDropped) {
			s.logger.Warn("powder: particle count readback dropped", "error", errors.Join(ErrReadbackDropped, err))
			return nil
		}
		if errors.Is(err, gpu.ErrDeviceLost) {
			s.deviceLost.Store(true)
			s.logger.Error("powder: device lost during readback", "error", errors.Join(ErrDeviceLost, err))
			return nil
		}
		return err
	}
	return nil
}

// ParticleCount returns the most recently completed readback count. It is
// zero until the first RequestParticleCount completes.
func (s *Simulation) ParticleCount() uint32 {
	return s.backend.ParticleCount()
}

// CurrentBufferIndex reports which of the two ping-pong buffers currently
// holds the live grid: 0 or 1.
func (s *Simulation) CurrentBufferIndex() int {
	return s.backend.CurrentBufferIndex()
}

// FrameCounter returns the number of frames Step has completed.
func (s *Simulation) FrameCounter() uint32 {
	return s.backend.FrameCounter()
}

// DeviceLost reports whether a device loss has been observed since
// construction. Once true, Step and RequestParticleCount are no-ops; the
// host should Close this Simulation and build a new one against a fresh
// device.
func (s *Simulation) DeviceLost() bool {
	return s.deviceLost.Load()
}
