// Package block defines the 2x2 Margolus block that every reaction and
// movement rule operates on. A block update reads exactly these four
// cells and nothing else: no rule may reach outside it.
package block

import "github.com/gogpu/powder/cell"

// Block holds the four cells of one Margolus quad, addressed by their
// position within the quad rather than by absolute grid coordinates.
type Block struct {
	TL, TR, BL, BR cell.Cell
}

// Get returns the cell at (col, row) within the block, col/row in {0, 1}.
func (b Block) Get(col, row int) cell.Cell {
	switch {
	case col == 0 && row == 0:
		return b.TL
	case col == 1 && row == 0:
		return b.TR
	case col == 0 && row == 1:
		return b.BL
	default:
		return b.BR
	}
}

// Set returns a copy of b with the cell at (col, row) replaced.
func (b Block) Set(col, row int, c cell.Cell) Block {
	switch {
	case col == 0 && row == 0:
		b.TL = c
	case col == 1 && row == 0:
		b.TR = c
	case col == 0 && row == 1:
		b.BL = c
	default:
		b.BR = c
	}
	return b
}

// Cells returns the four cells in row-major order: tl, tr, bl, br.
func (b Block) Cells() [4]cell.Cell {
	return [4]cell.Cell{b.TL, b.TR, b.BL, b.BR}
}

// Count returns the number of the block's four cells holding element e.
func (b Block) Count(e cell.Element) int {
	n := 0
	for _, c := range b.Cells() {
		if c.Element() == e {
			n++
		}
	}
	return n
}

// Any reports whether any of the block's four cells holds element e.
func (b Block) Any(e cell.Element) bool {
	return b.Count(e) > 0
}

// Map applies f to each of the block's four cells independently and
// returns the resulting block. Used by rules that act on every cell
// without regard to its neighbors (aging, stone heat gain/decay).
func (b Block) Map(f func(cell.Cell) cell.Cell) Block {
	return Block{
		TL: f(b.TL),
		TR: f(b.TR),
		BL: f(b.BL),
		BR: f(b.BR),
	}
}

// positions maps a cell index (row-major: tl, tr, bl, br) to its (col,
// row) coordinate within the block.
var positions = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// MapIndexed applies f to each of the block's four cells, passing the
// cell's index (0=tl, 1=tr, 2=bl, 3=br) so the caller can derive
// per-cell randomness independently for each position.
func (b Block) MapIndexed(f func(idx int, c cell.Cell) cell.Cell) Block {
	out := b
	for idx, pos := range positions {
		out = out.Set(pos[0], pos[1], f(idx, b.Get(pos[0], pos[1])))
	}
	return out
}
