// Package session provides in-memory session management for the Deep-Sea
// Treasure Diving simulator.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Each session owns a game engine seated from a table config, with its own
// seed and its own strategy instances. Sessions live only as long as the
// process; nothing is written to disk.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with a live session.
//
// Usage:
//
//	manager := session.NewManager()
//	go manager.RunCleanup(ctx, time.Minute, 2*time.Hour)
//
//	sess, err := manager.Create("", config, seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
