package scheduler

import "testing"

func TestPlanLength(t *testing.T) {
	p := Plan(64, 64, 0, 24)
	if len(p) != 24 {
		t.Fatalf("len(Plan) = %d, want 24", len(p))
	}
}

func TestPlanPanicsOnNonMultipleOfFour(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Plan(..., 10) did not panic")
		}
	}()
	Plan(8, 8, 0, 10)
}

func TestPlanGravityLateralSplit(t *testing.T) {
	p := Plan(32, 32, 5, 12)
	for i, pass := range p {
		want := i >= 6
		if pass.LateralOnly != want {
			t.Fatalf("pass %d LateralOnly = %v, want %v", i, pass.LateralOnly, want)
		}
	}
}

func TestPlanPingPongAlternates(t *testing.T) {
	p := Plan(16, 16, 0, 4)
	for i, pass := range p {
		if pass.ReadBuffer != i%2 {
			t.Fatalf("pass %d ReadBuffer = %d, want %d", i, pass.ReadBuffer, i%2)
		}
		if pass.WriteBuffer != (i+1)%2 {
			t.Fatalf("pass %d WriteBuffer = %d, want %d", i, pass.WriteBuffer, (i+1)%2)
		}
	}
}

func TestPlanOffsetsFormAPermutationPerSweep(t *testing.T) {
	p := Plan(16, 16, 3, 8)
	for sweep := 0; sweep < 2; sweep++ {
		seen := map[Offset]bool{}
		for i := 0; i < 4; i++ {
			pass := p[sweep*4+i]
			seen[Offset{pass.OffsetX, pass.OffsetY}] = true
		}
		if len(seen) != 4 {
			t.Fatalf("sweep %d offsets are not a permutation of the four Margolus offsets: %v", sweep, seen)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	a := Plan(32, 32, 7, 24)
	b := Plan(32, 32, 7, 24)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pass %d differs between identical Plan calls: %v != %v", i, a[i], b[i])
		}
	}
}

func TestDispatchBlocksCeilDivision(t *testing.T) {
	bx, by := DispatchBlocks(9, 7, 0, 0)
	if bx != 5 || by != 4 {
		t.Fatalf("DispatchBlocks(9,7,0,0) = (%d,%d), want (5,4)", bx, by)
	}
	bx, by = DispatchBlocks(9, 7, 1, 1)
	if bx != 4 || by != 3 {
		t.Fatalf("DispatchBlocks(9,7,1,1) = (%d,%d), want (4,3)", bx, by)
	}
}
