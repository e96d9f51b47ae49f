// Package config provides table configuration management for the Deep-Sea
// Treasure Diving simulator.
//
// The config package handles:
//   - Loading table configs from JSON and YAML files
//   - Schema validation against an embedded JSON schema
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// A table config names a line-up of up to six divers:
//
//	name: duel
//	description: Diver against greedy
//	seed: 42            # optional, fixes the deal and the dice
//	players:
//	  - name: Deep
//	    strategy: diver
//	    params: {depth: 12, n: 2}
//	  - strategy: greedy
//
// Every document is checked against table.schema.json, then by
// engine.ValidateTableConfig, and finally every seat's strategy is built
// once to reject unknown strategies or parameters.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tableConfig, err := manager.LoadConfig("duel")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
