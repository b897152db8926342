package kernel

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/scheduler"
)

// Grid is a CPU-resident, double-buffered cell grid. It mirrors the
// layout the GPU side ping-pongs between two storage buffers of, and
// exists so the kernel's semantics can be tested and inspected without
// a device.
type Grid struct {
	Width, Height int
	buffers       [2][]cell.Cell
}

// NewGrid allocates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		buffers: [2][]cell.Cell{
			make([]cell.Cell, width*height),
			make([]cell.Cell, width*height),
		},
	}
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// At returns the cell at (x, y) in the given buffer (0 or 1).
func (g *Grid) At(buf, x, y int) cell.Cell {
	return g.buffers[buf][g.index(x, y)]
}

// Set writes the cell at (x, y) in the given buffer.
func (g *Grid) Set(buf, x, y int, c cell.Cell) {
	g.buffers[buf][g.index(x, y)] = c
}

// Cells returns the raw backing slice for a buffer, in row-major order.
func (g *Grid) Cells(buf int) []cell.Cell {
	return g.buffers[buf]
}

// RunFrame executes passesPerFrame block-kernel passes in the order
// scheduler.Plan lays out and returns the index of the buffer holding
// the frame's final state.
func (g *Grid) RunFrame(frameCounter uint32, passesPerFrame int) int {
	plan := scheduler.Plan(uint32(g.Width), uint32(g.Height), frameCounter, passesPerFrame)
	for _, pass := range plan {
		g.runPass(pass)
	}
	if len(plan) == 0 {
		return 0
	}
	return plan[len(plan)-1].WriteBuffer
}

// RunSinglePass runs one block-kernel pass at the given Margolus offset
// and returns the index of the buffer holding its result. Used directly
// by tests that exercise one pass in isolation; RunFrame is the normal
// entry point for advancing a full frame.
func (g *Grid) RunSinglePass(offsetX, offsetY, frameAndPass uint32, lateralOnly bool) int {
	pass := scheduler.PassUniform{
		Width:        uint32(g.Width),
		Height:       uint32(g.Height),
		OffsetX:      offsetX,
		OffsetY:      offsetY,
		FrameAndPass: frameAndPass,
		LateralOnly:  lateralOnly,
		ReadBuffer:   0,
		WriteBuffer:  1,
	}
	g.runPass(pass)
	return pass.WriteBuffer
}

// runPass applies one pass: every aligned 2x2 block under the pass's
// offset runs through UpdateBlock; any cell not covered by a complete
// block (the orphan edge row/column, or a trailing odd leftover) is
// copied through unchanged.
func (g *Grid) runPass(pass scheduler.PassUniform) {
	read, write := pass.ReadBuffer, pass.WriteBuffer
	w, h := g.Width, g.Height
	ox, oy := int(pass.OffsetX), int(pass.OffsetY)

	covered := make([]bool, w*h)
	for by := oy; by+1 < h; by += 2 {
		for bx := ox; bx+1 < w; bx += 2 {
			in := block.Block{
				TL: g.At(read, bx, by),
				TR: g.At(read, bx+1, by),
				BL: g.At(read, bx, by+1),
				BR: g.At(read, bx+1, by+1),
			}
			out := UpdateBlock(int32(bx), int32(by), pass.FrameAndPass, pass.LateralOnly, in)
			g.Set(write, bx, by, out.TL)
			g.Set(write, bx+1, by, out.TR)
			g.Set(write, bx, by+1, out.BL)
			g.Set(write, bx+1, by+1, out.BR)
			covered[g.index(bx, by)] = true
			covered[g.index(bx+1, by)] = true
			covered[g.index(bx, by+1)] = true
			covered[g.index(bx+1, by+1)] = true
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !covered[g.index(x, y)] {
				g.Set(write, x, y, g.At(read, x, y))
			}
		}
	}
}
