package engine

// Observation layout. All values are small non-negative integers.
const (
	ObsOxygen          = 0
	ObsPosition        = 1
	ObsWeight          = 2
	ObsDirection       = 3
	ObsOtherPositions  = 4
	ObsOtherWeights    = 9
	ObsOtherDirections = 14
	ObsDots            = 19
	ObsSkip            = 51
	ObservationSize    = 83

	OtherSeats = MaxPlayers - 1
)

// Observation is the fixed-length view of the table from one diver's seat.
type Observation [ObservationSize]int

// Oxygen returns the shared oxygen left.
func (o Observation) Oxygen() int { return o[ObsOxygen] }

// Position returns the observer's position, 0 being the submarine.
func (o Observation) Position() int { return o[ObsPosition] }

// Weight returns how many treasures the observer carries.
func (o Observation) Weight() int { return o[ObsWeight] }

// Forward reports whether the observer is still diving.
func (o Observation) Forward() bool { return o[ObsDirection] == int(Forward) }

// Dots returns the dot count visible at path position pos (1..32).
func (o Observation) Dots(pos int) int { return o[ObsDots+pos-1] }

// Skipped reports whether path position pos (1..32) is skip-flagged for the observer.
func (o Observation) Skipped(pos int) bool { return o[ObsSkip+pos-1] == 1 }

// SkipMask extracts the observer-relative skip flags.
func (o Observation) SkipMask() SkipMask {
	var m SkipMask
	for i := range m {
		m[i] = o[ObsSkip+i] == 1
	}
	return m
}

// Others returns the positions, weights and directions of the other seats,
// padded with zeros for empty seats.
func (o Observation) Others() (positions, weights, directions [OtherSeats]int) {
	copy(positions[:], o[ObsOtherPositions:ObsOtherWeights])
	copy(weights[:], o[ObsOtherWeights:ObsOtherDirections])
	copy(directions[:], o[ObsOtherDirections:ObsDots])
	return positions, weights, directions
}

// EncodeObservation builds the observation for seat idx. It is recomputed
// from scratch on every call; the observer's own tile never counts as occupied.
func EncodeObservation(idx, oxygen int, players []*PlayerState, path *TreasurePath) Observation {
	var obs Observation
	self := players[idx]

	obs[ObsOxygen] = oxygen
	obs[ObsPosition] = self.Position
	obs[ObsWeight] = self.Weight
	obs[ObsDirection] = int(self.Direction)

	slot := 0
	for pid, p := range players {
		if pid == idx {
			continue
		}
		obs[ObsOtherPositions+slot] = p.Position
		obs[ObsOtherWeights+slot] = p.Weight
		obs[ObsOtherDirections+slot] = int(p.Direction)
		slot++
		if p.Position > Submarine {
			obs[ObsSkip+p.Position-1] = 1
		}
	}

	for pos := 1; pos <= PathLength; pos++ {
		t := path.Tile(pos)
		if t.Removed {
			obs[ObsSkip+pos-1] = 1
			continue
		}
		obs[ObsDots+pos-1] = t.Dots
	}

	return obs
}
