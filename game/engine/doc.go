// Package engine provides the core game logic for Deep-Sea Treasure Diving.
//
// The engine package implements the game mechanics including:
//   - Treasure path generation (four shuffled tiers of eight tiles)
//   - Dice movement with skipping over occupied and removed tiles
//   - Shared oxygen depletion driven by the carried weight
//   - Forward, pick and drop decision points
//   - Round transitions and the three-round episode
//   - Fixed-length observation encoding for each seat
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Divers are driven by a DecisionProvider, which
// receives an Observation and answers 0 or 1 to the forward, pick and drop
// queries. TableConfig describes a line-up of divers loaded from config files.
//
// Usage:
//
//	gameEngine := engine.NewEngineWithSeed(42)
//	gameEngine.AddPlayer("Grabber", grabber)
//	gameEngine.AddPlayer("Diver", diver)
//
//	if err := gameEngine.Reset(); err != nil {
//		log.Fatal(err)
//	}
//
//	for !gameEngine.IsGameOver() {
//		result, err := gameEngine.Step()
//		if err != nil {
//			log.Fatal(err)
//		}
//		_ = result.Observation
//	}
//
// Game Rules:
//
// Divers leave the submarine and swim down a path of 32 treasure tiles,
// picking up chips whose value stays hidden until they make it back. Every
// turn costs the shared oxygen supply one unit per carried chip. A round ends
// when the oxygen is gone or every diver is back; divers still on the path
// lose what they carry. Tiles emptied during a round leave the path for good.
// The episode ends after the third round.
//
// The engine is not safe for concurrent use. Each GameEngine owns its random
// source, so independent engines can run in parallel.
package engine
