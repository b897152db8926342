package block

import (
	"testing"

	"github.com/gogpu/powder/cell"
)

func sampleBlock() Block {
	return Block{
		TL: cell.Make(cell.Sand, 1, 0),
		TR: cell.Make(cell.Water, 2, 0),
		BL: cell.EmptyCell,
		BR: cell.Make(cell.Sand, 3, 0),
	}
}

func TestGetSet(t *testing.T) {
	b := sampleBlock()
	if b.Get(0, 0) != b.TL || b.Get(1, 0) != b.TR || b.Get(0, 1) != b.BL || b.Get(1, 1) != b.BR {
		t.Fatal("Get does not match field access")
	}
	b2 := b.Set(0, 1, cell.Make(cell.Stone, 0, 0))
	if b2.BL.Element() != cell.Stone {
		t.Fatal("Set did not update BL")
	}
	if b.BL != cell.EmptyCell {
		t.Fatal("Set mutated the original block")
	}
}

func TestCellsOrder(t *testing.T) {
	b := sampleBlock()
	got := b.Cells()
	want := [4]cell.Cell{b.TL, b.TR, b.BL, b.BR}
	if got != want {
		t.Fatalf("Cells() = %v, want %v", got, want)
	}
}

func TestCountAndAny(t *testing.T) {
	b := sampleBlock()
	if b.Count(cell.Sand) != 2 {
		t.Fatalf("Count(SAND) = %d, want 2", b.Count(cell.Sand))
	}
	if !b.Any(cell.Water) {
		t.Fatal("Any(WATER) should be true")
	}
	if b.Any(cell.Lava) {
		t.Fatal("Any(LAVA) should be false")
	}
}

func TestMapAppliesIndependently(t *testing.T) {
	b := sampleBlock()
	got := b.Map(func(c cell.Cell) cell.Cell {
		if c.Element() == cell.Sand {
			return c.WithColor(99)
		}
		return c
	})
	if got.TL.Color() != 99 || got.BR.Color() != 99 {
		t.Fatal("Map did not transform SAND cells")
	}
	if got.TR.Element() != cell.Water || got.TR.Color() != 2 {
		t.Fatal("Map mutated a cell the function left untouched")
	}
}
