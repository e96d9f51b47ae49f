package engine

import "math/rand/v2"

// TreasurePath is the ordered line of 32 tiles hanging below the submarine.
// Position p (1..32) maps to tiles[p-1].
type TreasurePath struct {
	tiles [PathLength]Treasure
}

// newTierBlock builds the 8 tiles of one tier in value order.
func newTierBlock(dots int) [TilesPerTier]Treasure {
	var block [TilesPerTier]Treasure
	for i := range block {
		block[i] = Treasure{Dots: dots, HiddenValue: tierBase[dots-1] + i/2}
	}
	return block
}

// NewTreasurePath shuffles each tier block independently and lays the
// blocks down in dot order.
func NewTreasurePath(rng *rand.Rand) *TreasurePath {
	p := &TreasurePath{}
	for dots := 1; dots <= TierCount; dots++ {
		block := newTierBlock(dots)
		rng.Shuffle(len(block), func(i, j int) {
			block[i], block[j] = block[j], block[i]
		})
		copy(p.tiles[(dots-1)*TilesPerTier:], block[:])
	}
	return p
}

// Tile returns the tile at a path position. Position must be in 1..32.
func (p *TreasurePath) Tile(pos int) Treasure {
	return p.tiles[pos-1]
}

// Place overwrites the dots and value of a tile, keeping its removed flag.
func (p *TreasurePath) Place(pos int, t Treasure) {
	p.tiles[pos-1].Dots = t.Dots
	p.tiles[pos-1].HiddenValue = t.HiddenValue
}

// Take empties a tile and returns what was on it. The tile is not removed
// until the round ends.
func (p *TreasurePath) Take(pos int) Treasure {
	t := p.tiles[pos-1]
	p.tiles[pos-1].Dots = 0
	p.tiles[pos-1].HiddenValue = 0
	return Treasure{Dots: t.Dots, HiddenValue: t.HiddenValue}
}

// RemoveEmptied marks every emptied tile as permanently removed and
// returns how many tiles are now removed in total.
func (p *TreasurePath) RemoveEmptied() int {
	removed := 0
	for i := range p.tiles {
		if p.tiles[i].Dots == 0 {
			p.tiles[i].Removed = true
		}
		if p.tiles[i].Removed {
			removed++
		}
	}
	return removed
}

// Removed reports whether the tile at pos is permanently out of play.
func (p *TreasurePath) Removed(pos int) bool {
	return p.tiles[pos-1].Removed
}

// Tiles returns a copy of the whole path.
func (p *TreasurePath) Tiles() []Treasure {
	out := make([]Treasure, PathLength)
	copy(out, p.tiles[:])
	return out
}
