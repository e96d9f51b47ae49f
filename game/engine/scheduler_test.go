package engine

import (
	"math/rand/v2"
	"testing"
)

func TestNewTurnScheduler_Rotation(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		s := NewTurnScheduler(4, rand.New(rand.NewPCG(seed, seed)))
		order := s.Order()

		if s.Current() != order[0] {
			t.Errorf("Expected to start with %d, got %d", order[0], s.Current())
		}
		for i := range order {
			if order[i] != (order[0]+i)%4 {
				t.Fatalf("Order %v is not a rotation of the seats", order)
			}
		}

		for i := 1; i <= 4; i++ {
			if got := s.Advance(); got != order[i%4] {
				t.Errorf("Advance %d: expected %d, got %d", i, order[i%4], got)
			}
		}
	}
}

func TestTurnScheduler_NextRoundStarter(t *testing.T) {
	s := &TurnScheduler{order: []int{2, 0, 1}, index: 2}

	t.Run("last diver still out in turn order", func(t *testing.T) {
		players := newTestPlayers(5, 0, 3)
		if got := s.NextRoundStarter(players); got != 0 {
			t.Errorf("Expected seat 0, got %d", got)
		}
	})

	t.Run("only the first seat in order is out", func(t *testing.T) {
		players := newTestPlayers(0, 0, 12)
		if got := s.NextRoundStarter(players); got != 2 {
			t.Errorf("Expected seat 2, got %d", got)
		}
	})

	t.Run("everyone back defaults to current", func(t *testing.T) {
		players := newTestPlayers(0, 0, 0)
		if got := s.NextRoundStarter(players); got != 1 {
			t.Errorf("Expected current seat 1, got %d", got)
		}
	})

	t.Run("start round with a seat", func(t *testing.T) {
		s.StartRoundWith(0)
		if s.Current() != 0 {
			t.Errorf("Expected current seat 0, got %d", s.Current())
		}
		if next := s.Advance(); next != 1 {
			t.Errorf("Expected seat 1 after 0, got %d", next)
		}
	})
}
