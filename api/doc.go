// Package api provides the HTTP REST API for deep-sea diving sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "...", "seed": 42}, both optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Table snapshot
//   - POST /api/sessions/{id}/step - Play one turn for the current diver
//   - POST /api/sessions/{id}/run - Play until the episode ends ({"max_steps": N})
//   - POST /api/sessions/{id}/reset - Start a new episode ({"seed": N}, optional)
//   - GET /api/sessions/{id}/observation/{player} - 83-entry observation for a seat
//   - GET /api/sessions/{id}/history - Step history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List table configurations
//   - GET /api/configs/{name} - Get a table configuration
//   - POST /api/configs - Save a table configuration
//
// Live updates are served on /ws?session={id} when a hub is attached.
//
// Errors are returned as JSON:
//
//	{"error": "session 1a2b: session not found"}
//
// Unknown sessions and configs map to 404, operations on a finished or
// unstarted episode to 409, and rejected decisions to 422.
package api
