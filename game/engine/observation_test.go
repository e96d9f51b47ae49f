package engine

import (
	"math/rand/v2"
	"testing"
)

func newTestPlayers(positions ...int) []*PlayerState {
	players := make([]*PlayerState, len(positions))
	for i, pos := range positions {
		players[i] = newPlayerState(i, "", nil)
		players[i].Position = pos
	}
	return players
}

func TestEncodeObservation_Layout(t *testing.T) {
	path := NewTreasurePath(rand.New(rand.NewPCG(5, 5)))
	players := newTestPlayers(4, 9, 0)
	players[1].take(Treasure{Dots: 2, HiddenValue: 5})
	players[1].turnAround()

	obs := EncodeObservation(0, 17, players, path)

	if len(obs) != ObservationSize {
		t.Fatalf("Expected %d entries, got %d", ObservationSize, len(obs))
	}
	if obs.Oxygen() != 17 {
		t.Errorf("Expected oxygen 17, got %d", obs.Oxygen())
	}
	if obs.Position() != 4 || obs.Weight() != 0 || !obs.Forward() {
		t.Errorf("Unexpected self block: pos=%d weight=%d forward=%v", obs.Position(), obs.Weight(), obs.Forward())
	}

	positions, weights, directions := obs.Others()
	wantPositions := [OtherSeats]int{9, 0, 0, 0, 0}
	wantWeights := [OtherSeats]int{1, 0, 0, 0, 0}
	wantDirections := [OtherSeats]int{0, 1, 0, 0, 0}
	if positions != wantPositions {
		t.Errorf("Expected other positions %v, got %v", wantPositions, positions)
	}
	if weights != wantWeights {
		t.Errorf("Expected other weights %v, got %v", wantWeights, weights)
	}
	if directions != wantDirections {
		t.Errorf("Expected other directions %v, got %v", wantDirections, directions)
	}

	for pos := 1; pos <= PathLength; pos++ {
		if got, want := obs.Dots(pos), path.Tile(pos).Dots; got != want {
			t.Errorf("Dots(%d) = %d, want %d", pos, got, want)
		}
		if obs.Skipped(pos) != (pos == 9) {
			t.Errorf("Skipped(%d) = %v", pos, obs.Skipped(pos))
		}
	}
}

func TestEncodeObservation_SkipIsObserverRelative(t *testing.T) {
	path := NewTreasurePath(rand.New(rand.NewPCG(6, 6)))
	players := newTestPlayers(5, 7)

	first := EncodeObservation(0, StartingOxygen, players, path)
	second := EncodeObservation(1, StartingOxygen, players, path)

	if first.Skipped(5) || !first.Skipped(7) {
		t.Errorf("Player 0 should skip 7 but not its own tile 5: mask=%v", first.SkipMask())
	}
	if second.Skipped(7) || !second.Skipped(5) {
		t.Errorf("Player 1 should skip 5 but not its own tile 7: mask=%v", second.SkipMask())
	}
}

func TestEncodeObservation_RemovedTiles(t *testing.T) {
	path := NewTreasurePath(rand.New(rand.NewPCG(8, 8)))
	path.Take(3)
	path.Take(20)

	players := newTestPlayers(0, 0)
	before := EncodeObservation(0, StartingOxygen, players, path)
	if before.Dots(3) != 0 || before.Skipped(3) {
		t.Errorf("Emptied tile should show 0 dots and not be skipped yet, got dots=%d skip=%v",
			before.Dots(3), before.Skipped(3))
	}

	path.RemoveEmptied()
	after := EncodeObservation(0, StartingOxygen, players, path)
	for _, pos := range []int{3, 20} {
		if after.Dots(pos) != 0 || !after.Skipped(pos) {
			t.Errorf("Removed tile %d should show 0 dots and be skipped, got dots=%d skip=%v",
				pos, after.Dots(pos), after.Skipped(pos))
		}
	}
}

func TestEncodeObservation_SixSeats(t *testing.T) {
	path := NewTreasurePath(rand.New(rand.NewPCG(9, 9)))
	players := newTestPlayers(1, 2, 3, 4, 5, 6)

	obs := EncodeObservation(2, StartingOxygen, players, path)
	positions, _, _ := obs.Others()
	want := [OtherSeats]int{1, 2, 4, 5, 6}
	if positions != want {
		t.Errorf("Expected other positions %v, got %v", want, positions)
	}

	mask := obs.SkipMask()
	for pos := 1; pos <= 6; pos++ {
		if mask.Skipped(pos) != (pos != 3) {
			t.Errorf("Skipped(%d) = %v for observer on 3", pos, mask.Skipped(pos))
		}
	}
}
