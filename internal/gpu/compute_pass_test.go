//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/powder/scheduler"
)

func TestEncodePassUniformLayout(t *testing.T) {
	pass := scheduler.PassUniform{
		Width:        128,
		Height:       64,
		OffsetX:      1,
		OffsetY:      0,
		FrameAndPass: 0x00000005,
		LateralOnly:  true,
	}

	buf := encodePassUniform(pass)
	if len(buf) != passUniformSize {
		t.Fatalf("len(buf) = %d, want %d", len(buf), passUniformSize)
	}

	if got := binary.LittleEndian.Uint32(buf[0:4]); got != pass.Width {
		t.Errorf("width = %d, want %d", got, pass.Width)
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != pass.Height {
		t.Errorf("height = %d, want %d", got, pass.Height)
	}
	if got := binary.LittleEndian.Uint32(buf[8:12]); got != pass.OffsetX {
		t.Errorf("offset_x = %d, want %d", got, pass.OffsetX)
	}
	if got := binary.LittleEndian.Uint32(buf[12:16]); got != pass.OffsetY {
		t.Errorf("offset_y = %d, want %d", got, pass.OffsetY)
	}
	if got := binary.LittleEndian.Uint32(buf[16:20]); got != pass.FrameAndPass {
		t.Errorf("frame_and_pass = %d, want %d", got, pass.FrameAndPass)
	}
	if got := binary.LittleEndian.Uint32(buf[20:24]); got != 1 {
		t.Errorf("lateral_only = %d, want 1", got)
	}
}

func TestEncodePassUniformLateralOnlyFalse(t *testing.T) {
	buf := encodePassUniform(scheduler.PassUniform{Width: 8, Height: 8})
	if got := binary.LittleEndian.Uint32(buf[20:24]); got != 0 {
		t.Errorf("lateral_only = %d, want 0", got)
	}
}

func TestPutU32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	putU32(buf, 0xdeadbeef)
	if got := binary.LittleEndian.Uint32(buf); got != 0xdeadbeef {
		t.Errorf("putU32 wrote %#x, want %#x", got, 0xdeadbeef)
	}
}
