package powder

import "errors"

// Error kinds a host can match with errors.Is.
var (
	// ErrInvalidConfig is returned by New when width, height, or
	// passesPerFrame violate a construction-time constraint: width or
	// height below 2, or passesPerFrame not a positive multiple of 4.
	ErrInvalidConfig = errors.New("powder: invalid config")

	// ErrDeviceInitFailure is returned by New when the device handed in by
	// the host fails to produce the buffers or pipelines the simulation
	// needs (compile failure, allocation failure).
	ErrDeviceInitFailure = errors.New("powder: device initialization failed")

	// ErrDeviceLost is surfaced through a Simulation's logger, never
	// returned from Step, when the device is lost mid-frame. The host is
	// expected to tear the Simulation down and reacquire a device.
	ErrDeviceLost = errors.New("powder: device lost")

	// ErrReadbackDropped is surfaced through a Simulation's logger, never
	// returned from RequestParticleCount, when reading the particle count
	// back from the device fails. ParticleCount keeps returning its last
	// successful value.
	ErrReadbackDropped = errors.New("powder: particle count readback dropped")
)
