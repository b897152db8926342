package movement

import (
	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
)

func blockOf(tl, tr, bl, br cell.Cell) block.Block {
	return block.Block{TL: tl, TR: tr, BL: bl, BR: br}
}
