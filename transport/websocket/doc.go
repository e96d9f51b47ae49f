// Package websocket provides WebSocket transport for the Deep-Sea Treasure
// Diving simulator.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Broadcasting of every step and state change to session viewers
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns all connections. Registration, unregistration and
// broadcasts are serialized on the Hub's Run goroutine; each client has its
// own read and write pumps.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"session_id": "ab12", "event": "step", "game_state": {...}, "data": {"info": {...}, "reward": 0}}
//
// Events are "state_update", "step", "reset" and "episode_over". Incoming
// messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasts never block the caller; when the queue is full the message is
// dropped and a warning is logged.
package websocket
