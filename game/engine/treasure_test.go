package engine

import (
	"math/rand/v2"
	"sort"
	"testing"
)

func TestNewTreasurePath_TierPattern(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		path := NewTreasurePath(rng)
		tiles := path.Tiles()

		if len(tiles) != PathLength {
			t.Fatalf("seed %d: expected %d tiles, got %d", seed, PathLength, len(tiles))
		}

		for dots := 1; dots <= TierCount; dots++ {
			block := tiles[(dots-1)*TilesPerTier : dots*TilesPerTier]

			values := make([]int, 0, TilesPerTier)
			for i, tile := range block {
				if tile.Dots != dots {
					t.Errorf("seed %d: tile %d of tier %d has %d dots", seed, i, dots, tile.Dots)
				}
				if tile.Removed {
					t.Errorf("seed %d: fresh tile %d of tier %d is removed", seed, i, dots)
				}
				values = append(values, tile.HiddenValue)
			}

			if got := CountTier(tiles, dots); got != TilesPerTier {
				t.Errorf("seed %d: expected %d tiles of tier %d, got %d", seed, TilesPerTier, dots, got)
			}

			sort.Ints(values)
			base := tierBase[dots-1]
			for i, v := range values {
				if want := base + i/2; v != want {
					t.Errorf("seed %d: tier %d sorted value %d is %d, want %d", seed, dots, i, v, want)
				}
			}
		}
	}
}

func TestNewTreasurePath_ShufflesWithinTiers(t *testing.T) {
	first := NewTreasurePath(rand.New(rand.NewPCG(1, 1))).Tiles()

	differs := false
	for seed := uint64(2); seed <= 10 && !differs; seed++ {
		other := NewTreasurePath(rand.New(rand.NewPCG(seed, seed))).Tiles()
		for i := range first {
			if first[i].HiddenValue != other[i].HiddenValue {
				differs = true
				break
			}
		}
	}

	if !differs {
		t.Error("Expected different seeds to produce different value orders")
	}
}

func TestTreasurePath_TakePlaceAndRemove(t *testing.T) {
	path := NewTreasurePath(rand.New(rand.NewPCG(3, 3)))
	original := path.Tile(12)

	taken := path.Take(12)
	if taken.Dots != original.Dots || taken.HiddenValue != original.HiddenValue {
		t.Errorf("Expected to take %+v, got %+v", original, taken)
	}
	if tile := path.Tile(12); tile.Dots != 0 || tile.HiddenValue != 0 {
		t.Errorf("Expected emptied tile, got %+v", tile)
	}
	if path.Removed(12) {
		t.Error("Emptied tile must not be removed before the round ends")
	}

	path.Take(5)
	path.Place(5, Treasure{Dots: 4, HiddenValue: 15})
	if tile := path.Tile(5); tile.Dots != 4 || tile.HiddenValue != 15 {
		t.Errorf("Expected dropped treasure on tile 5, got %+v", tile)
	}

	if removed := path.RemoveEmptied(); removed != 1 {
		t.Errorf("Expected 1 removed tile, got %d", removed)
	}
	if !path.Removed(12) {
		t.Error("Expected tile 12 to be removed")
	}
	if path.Removed(5) {
		t.Error("Tile 5 holds a dropped treasure and must stay in play")
	}

	// Removal is permanent
	if removed := path.RemoveEmptied(); removed != 1 {
		t.Errorf("Expected removed count to stay at 1, got %d", removed)
	}
}
