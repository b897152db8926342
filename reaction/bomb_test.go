package reaction

import (
	"testing"

	"github.com/gogpu/powder/block"
	"github.com/gogpu/powder/cell"
	"github.com/gogpu/powder/rng"
)

// TestBombDetonationContainedByImmovables covers S5: a bomb surrounded by
// stone cannot propagate blast fire past the stone in the same block.
func TestBombDetonationContainedByImmovables(t *testing.T) {
	b := block.Block{
		TL: cell.Make(cell.Bomb, 0, 0),
		TR: cell.Make(cell.Fire, 0, 10),
		BL: cell.Make(cell.Stone, 0, 0),
		BR: cell.Make(cell.Stone, 0, 0),
	}
	got := applyFireBomb(b, rng.BlockSeed(0, 0, 0))
	if got.TL.Element() != cell.Fire || got.TL.Aux() != blastFireLifetime {
		t.Fatalf("BOMB should become blast fire, got %v aux=%d", got.TL.Element(), got.TL.Aux())
	}
	if got.TR.Element() != cell.Fire || got.TR.Aux() != blastFireLifetime {
		t.Fatalf("FIRE should become blast fire, got %v aux=%d", got.TR.Element(), got.TR.Aux())
	}
	if got.BL.Element() != cell.Stone || got.BR.Element() != cell.Stone {
		t.Fatal("STONE must survive the detonation step untouched, left for propagation")
	}
}

func TestFireBombDoesNotFireWithoutBomb(t *testing.T) {
	b := block.Block{TL: cell.Make(cell.Fire, 0, 50), TR: cell.EmptyCell, BL: cell.EmptyCell, BR: cell.EmptyCell}
	got := applyFireBomb(b, rng.BlockSeed(0, 0, 0))
	if got.TL.Aux() != 50 {
		t.Fatal("fire without a bomb present must not be touched by detonation")
	}
}

func TestBlastFirePropagationSkipsLowLifetimeFire(t *testing.T) {
	b := block.Block{
		TL: cell.Make(cell.Fire, 0, 50),
		TR: cell.Make(cell.Water, 0, 0),
		BL: cell.EmptyCell,
		BR: cell.EmptyCell,
	}
	got := applyBlastFirePropagation(b, rng.BlockSeed(0, 0, 0))
	if got.TR.Element() != cell.Water {
		t.Fatal("fire below the blast threshold must not trigger propagation")
	}
}

func TestBlastFirePropagationConvertsNeighbors(t *testing.T) {
	b := block.Block{
		TL: cell.Make(cell.Fire, 0, 250),
		TR: cell.Make(cell.Water, 0, 0),
		BL: cell.Make(cell.Stone, 0, 0),
		BR: cell.Make(cell.Glass, 0, 0),
	}
	got := applyBlastFirePropagation(b, rng.BlockSeed(0, 0, 0))
	if got.TL.Aux() != 250 {
		t.Fatal("the blast fire cell itself should not be rewritten")
	}
	if got.TR.Element() != cell.Steam {
		t.Fatalf("WATER should convert to STEAM in blast radius, got %v", got.TR.Element())
	}
	if got.BL.Element() != cell.Stone || got.BL.Aux() != 10 {
		t.Fatalf("STONE should gain 10 heat, got %v aux=%d", got.BL.Element(), got.BL.Aux())
	}
	if got.BR.Element() != cell.Glass {
		t.Fatal("GLASS must survive the blast")
	}
}

func TestBlastFirePropagationDecaysIntoEmptySpace(t *testing.T) {
	b := block.Block{
		TL: cell.Make(cell.Fire, 0, 250),
		TR: cell.EmptyCell,
		BL: cell.EmptyCell,
		BR: cell.EmptyCell,
	}
	got := applyBlastFirePropagation(b, rng.BlockSeed(1, 1, 1))
	if got.TR.Element() != cell.Fire {
		t.Fatalf("empty cell in blast radius should ignite, got %v", got.TR.Element())
	}
	if got.TR.Aux() >= 250 || got.TR.Aux() < 238 {
		t.Fatalf("decaying blast fire lifetime %d out of expected range", got.TR.Aux())
	}
}
