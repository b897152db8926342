package reaction

import (
	"testing"

	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

func TestApplyLavaNoOpWithoutLava(t *testing.T) {
	b := block.Block{TL: cell.Make(cell.Water, 0, 0), TR: cell.EmptyCell, BL: cell.EmptyCell, BR: cell.EmptyCell}
	got := applyLava(b, rng.BlockSeed(0, 0, 0))
	if got != b {
		t.Fatal("block without lava must be untouched")
	}
}

func TestApplyLavaBombAlwaysDetonates(t *testing.T) {
	b := block.Block{TL: cell.Make(cell.Lava, 0, 200), TR: cell.Make(cell.Bomb, 0, 0), BL: cell.EmptyCell, BR: cell.EmptyCell}
	got := applyLava(b, rng.BlockSeed(0, 0, 0))
	if got.TR.Element() != cell.Fire || got.TR.Aux() != blastFireLifetime {
		t.Fatalf("lava-adjacent bomb should always detonate, got %v aux=%d", got.TR.Element(), got.TR.Aux())
	}
}

func TestApplyLavaCoolsByWaterCount(t *testing.T) {
	sawCooling := false
	for seed := uint32(0); seed < 500; seed++ {
		b := block.Block{
			TL: cell.Make(cell.Lava, 0, 200),
			TR: cell.Make(cell.Water, 0, 0),
			BL: cell.Make(cell.Water, 0, 0),
			BR: cell.EmptyCell,
		}
		got := applyLava(b, rng.BlockSeed(int32(seed), 0, 0))
		if got.TL.Element() == cell.Lava && got.TL.Aux() < 200 {
			sawCooling = true
			break
		}
	}
	if !sawCooling {
		t.Error("lava heat should decrease when consuming adjacent water across enough trials")
	}
}
