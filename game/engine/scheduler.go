package engine

import "math/rand/v2"

// TurnScheduler keeps the cyclic seat order and whose turn it is.
type TurnScheduler struct {
	order []int
	index int
}

// NewTurnScheduler rotates the seats 0..n-1 by a random offset and starts
// with the first seat of the rotated order.
func NewTurnScheduler(n int, rng *rand.Rand) *TurnScheduler {
	shift := rng.IntN(n)
	order := make([]int, n)
	for i := range order {
		order[i] = (i + shift) % n
	}
	return &TurnScheduler{order: order}
}

// Current returns the seat whose turn it is.
func (s *TurnScheduler) Current() int {
	return s.order[s.index]
}

// Advance moves to the next seat, wrapping around.
func (s *TurnScheduler) Advance() int {
	s.index = (s.index + 1) % len(s.order)
	return s.Current()
}

// Order returns a copy of the turn order.
func (s *TurnScheduler) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// NextRoundStarter picks who opens the next round: the last seat in turn
// order still out on the path, or the current seat if everyone is back.
func (s *TurnScheduler) NextRoundStarter(players []*PlayerState) int {
	starter := s.Current()
	for _, pid := range s.order {
		if players[pid].Position > Submarine {
			starter = pid
		}
	}
	return starter
}

// StartRoundWith makes seat pid the current one.
func (s *TurnScheduler) StartRoundWith(pid int) {
	for i, p := range s.order {
		if p == pid {
			s.index = i
			return
		}
	}
}
