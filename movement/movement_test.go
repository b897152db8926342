package movement

import (
	"testing"

	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// TestImmovableStasis covers P5: a block of only immovable elements and
// EMPTY never moves its non-empty cells, across both gravity gating
// states and many RNG seeds.
func TestImmovableStasis(t *testing.T) {
	b := block.Block{
		TL: cell.Make(cell.Stone, 1, 0),
		TR: cell.EmptyCell,
		BL: cell.Make(cell.Wood, 2, 0),
		BR: cell.Make(cell.Glass, 3, 0),
	}
	for seed := uint32(0); seed < 500; seed++ {
		for _, lateralOnly := range []bool{false, true} {
			got := Apply(b, rng.BlockSeed(int32(seed), int32(seed*3), seed), lateralOnly)
			if got.TL != b.TL || got.BL != b.BL || got.BR != b.BR {
				t.Fatalf("immovable cells moved: seed=%d lateralOnly=%v got=%v", seed, lateralOnly, got)
			}
		}
	}
}

func TestSkipGravityIsApproximatelyOneQuarter(t *testing.T) {
	hits := 0
	const trials = 100000
	for i := uint32(0); i < trials; i++ {
		if skipGravity(rng.BlockSeed(int32(i), 0, 0)) {
			hits++
		}
	}
	got := float64(hits) / trials
	if got < 0.20 || got > 0.30 {
		t.Fatalf("skip rate = %f, want ~0.25", got)
	}
}

func TestLateralOnlySkipsGravitySwap(t *testing.T) {
	b := block.Block{TL: cell.Make(cell.Sand, 0, 0), TR: cell.EmptyCell, BL: cell.EmptyCell, BR: cell.EmptyCell}
	for seed := uint32(0); seed < 200; seed++ {
		got := Apply(b, rng.BlockSeed(int32(seed), 0, 0), true)
		if got.TL.Element() != cell.Sand {
			t.Fatalf("sand moved during a lateral-only pass: seed=%d", seed)
		}
	}
}

func TestSandEventuallyFallsWhenNotSkipped(t *testing.T) {
	b := block.Block{TL: cell.Make(cell.Sand, 0, 0), TR: cell.EmptyCell, BL: cell.EmptyCell, BR: cell.EmptyCell}
	fell := false
	for seed := uint32(0); seed < 2000; seed++ {
		got := applyGravity(b, rng.BlockSeed(int32(seed), 0, 0).Fork(forkGravity))
		if got.BL.Element() == cell.Sand {
			fell = true
			break
		}
	}
	if !fell {
		t.Error("sand over empty should fall across enough trials")
	}
}
