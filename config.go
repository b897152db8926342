package powder

import "log/slog"

// Config is the literal, construction-time-only parameter set a Simulation
// is built from. There is no config file, environment variable, or flag
// parsing in the core; the host decides grid size and pass density and
// passes them in directly.
type Config struct {
	// Width and Height are the grid dimensions in cells. Both must be at
	// least 2, since a Margolus block needs a full 2x2 neighborhood.
	Width, Height uint32

	// PassesPerFrame is how many Margolus passes Step runs per frame. It
	// must be a positive multiple of 4, so that every frame's four shuffled
	// offsets (0,0)/(1,0)/(0,1)/(1,1) contribute equally.
	PassesPerFrame int

	// Logger receives the Simulation-created event and runtime-fault
	// notifications (readback drop, device loss). If nil, Logger() (the
	// package default, silent unless SetLogger has been called) is used.
	Logger *slog.Logger
}

func (c Config) validate() error {
	if c.Width < 2 || c.Height < 2 {
		return ErrInvalidConfig
	}
	if c.PassesPerFrame <= 0 || c.PassesPerFrame%4 != 0 {
		return ErrInvalidConfig
	}
	return nil
}
