package engine

import "math/rand/v2"

// SkipMask flags path positions a diver jumps over: tiles occupied by
// other divers and tiles removed in earlier rounds. Index p-1 holds
// position p.
type SkipMask [PathLength]bool

// Skipped reports whether position pos is flagged. The submarine never is.
func (m SkipMask) Skipped(pos int) bool {
	if pos < 1 || pos > PathLength {
		return false
	}
	return m[pos-1]
}

// Movement is the outcome of one resolved roll.
type Movement struct {
	From       int  `json:"from"`
	To         int  `json:"to"`
	Roll       int  `json:"roll"`
	ForcedTurn bool `json:"forced_turn,omitempty"`
}

// MovementResolver rolls the dice and walks a diver along the path.
type MovementResolver struct {
	rng *rand.Rand
}

// NewMovementResolver creates a resolver drawing dice from rng.
func NewMovementResolver(rng *rand.Rand) *MovementResolver {
	return &MovementResolver{rng: rng}
}

// Roll throws two three-sided dice and subtracts the carried weight.
func (r *MovementResolver) Roll(weight int) int {
	d1 := r.rng.IntN(DieFaces) + 1
	d2 := r.rng.IntN(DieFaces) + 1
	return max(0, d1+d2-weight)
}

// NextViablePosition finds the next position one unit away in the given
// direction, scanning over skipped positions for free. forced is true when
// the scan ran off the bottom of the path; the diver then stays put.
func NextViablePosition(current int, dir Direction, skip SkipMask) (next int, forced bool) {
	step := 1
	if dir == Backward {
		step = -1
	}

	next = current + step
	for {
		switch {
		case next <= Submarine:
			return Submarine, false
		case next > PathLength:
			return current, true
		case !skip.Skipped(next):
			return next, false
		}
		next += step
	}
}

// Resolve applies roll units from position from. Hitting the bottom stops
// the move and forces a turn; reaching the submarine absorbs what is left.
func (r *MovementResolver) Resolve(from int, dir Direction, skip SkipMask, roll int) Movement {
	m := Movement{From: from, To: from, Roll: roll}

	for i := 0; i < roll; i++ {
		next, forced := NextViablePosition(m.To, dir, skip)
		if forced {
			m.ForcedTurn = true
			break
		}
		m.To = next
		if m.To == Submarine {
			break
		}
	}

	return m
}
