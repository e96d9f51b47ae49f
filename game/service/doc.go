// Package service provides the business logic layer for the Deep-Sea
// Treasure Diving simulator.
//
// The service package implements:
//   - Multi-session game management
//   - Table configuration loading
//   - Single steps and bulk runs of an episode
//   - Step history pagination and per-seat observations
//   - Recording of finished episodes
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages table configuration loading and validation.
// EpisodeRecorder receives the result of every episode that runs to the end.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine with its own seeded
// random source and its own strategy instances, so sessions never share state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithRecorder(store))
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Run(ctx, sessionInfo.ID, 0)
package service
