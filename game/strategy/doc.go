// Package strategy ships the reference divers that can be seated at a table.
//
// Each strategy is an independent engine.DecisionProvider:
//   - grabber{n}: picks the first n treasures on the way down, then heads home
//   - diver{depth,n}: dives to depth, then grabs on the way back until it holds n
//   - greedy{depth}: takes the first treasure past depth and turns around
//   - random: flips a seeded coin for every query
//
// Build and BuildTable create providers from the player specs of a table config.
package strategy
