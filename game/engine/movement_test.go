package engine

import (
	"math/rand/v2"
	"testing"
)

func maskOf(positions ...int) SkipMask {
	var m SkipMask
	for _, p := range positions {
		m[p-1] = true
	}
	return m
}

func TestNextViablePosition(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		dir        Direction
		skip       SkipMask
		wantPos    int
		wantForced bool
	}{
		{"leave submarine", 0, Forward, SkipMask{}, 1, false},
		{"skip occupied tiles", 3, Forward, maskOf(4, 5), 6, false},
		{"skip first tile from submarine", 0, Forward, maskOf(1), 2, false},
		{"bottom tile forces turn", 32, Forward, SkipMask{}, 32, true},
		{"skipped bottom forces turn", 31, Forward, maskOf(32), 31, true},
		{"back into submarine", 1, Backward, SkipMask{}, 0, false},
		{"skip into submarine", 3, Backward, maskOf(1, 2), 0, false},
		{"skip backward", 10, Backward, maskOf(9), 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, forced := NextViablePosition(tt.current, tt.dir, tt.skip)
			if pos != tt.wantPos || forced != tt.wantForced {
				t.Errorf("NextViablePosition(%d, %s) = (%d, %v), want (%d, %v)",
					tt.current, tt.dir, pos, forced, tt.wantPos, tt.wantForced)
			}
		})
	}
}

func TestMovementResolver_Resolve(t *testing.T) {
	r := NewMovementResolver(rand.New(rand.NewPCG(1, 1)))

	t.Run("skipped tiles cost nothing", func(t *testing.T) {
		m := r.Resolve(0, Forward, maskOf(2), 3)
		if m.To != 4 || m.ForcedTurn {
			t.Errorf("Expected to land on 4 without turning, got %+v", m)
		}
	})

	t.Run("bottom stops the move and forces a turn", func(t *testing.T) {
		m := r.Resolve(30, Forward, SkipMask{}, 4)
		if m.To != 32 || !m.ForcedTurn {
			t.Errorf("Expected to stop on 32 with a forced turn, got %+v", m)
		}
	})

	t.Run("forced turn when everything below is taken", func(t *testing.T) {
		m := r.Resolve(29, Forward, maskOf(30, 31, 32), 2)
		if m.To != 29 || !m.ForcedTurn {
			t.Errorf("Expected to stay on 29 with a forced turn, got %+v", m)
		}
	})

	t.Run("submarine absorbs the rest of the roll", func(t *testing.T) {
		m := r.Resolve(2, Backward, SkipMask{}, 5)
		if m.To != Submarine || m.ForcedTurn {
			t.Errorf("Expected to reach the submarine, got %+v", m)
		}
	})

	t.Run("zero roll stays put", func(t *testing.T) {
		m := r.Resolve(7, Backward, SkipMask{}, 0)
		if m.To != 7 || m.From != 7 {
			t.Errorf("Expected to stay on 7, got %+v", m)
		}
	})

	t.Run("never lands on a skipped tile", func(t *testing.T) {
		skip := maskOf(3, 4, 8, 9, 10, 15)
		for from := 0; from <= PathLength; from++ {
			if skip.Skipped(from) {
				continue
			}
			for roll := 0; roll <= 6; roll++ {
				for _, dir := range []Direction{Forward, Backward} {
					m := r.Resolve(from, dir, skip, roll)
					if skip.Skipped(m.To) {
						t.Fatalf("Resolve(%d, %s, roll=%d) landed on skipped tile %d", from, dir, roll, m.To)
					}
				}
			}
		}
	})
}

func TestMovementResolver_Roll(t *testing.T) {
	r := NewMovementResolver(rand.New(rand.NewPCG(7, 7)))

	tests := []struct {
		weight   int
		min, max int
	}{
		{0, 2, 6},
		{1, 1, 5},
		{3, 0, 3},
		{6, 0, 0},
	}

	for _, tt := range tests {
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			roll := r.Roll(tt.weight)
			if roll < tt.min || roll > tt.max {
				t.Fatalf("weight %d: roll %d outside [%d, %d]", tt.weight, roll, tt.min, tt.max)
			}
			seen[roll] = true
		}
		for v := tt.min; v <= tt.max; v++ {
			if !seen[v] {
				t.Errorf("weight %d: roll %d never seen in 2000 throws", tt.weight, v)
			}
		}
	}
}
