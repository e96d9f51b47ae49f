// Package mcp exposes the diving REST API as Model Context Protocol tools.
//
// The client is thin: every tool call is proxied to a running API server,
// and responses are rendered as plain text for the agent.
//
// MCP Tools:
//   - create_session: Create a session from a table config, with an optional seed
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Oxygen, round, divers and the path
//   - step: Play one turn
//   - run: Play until the episode ends or max_steps turns
//   - reset_game: Start a new episode
//   - observation: The observation vector for a seat
//   - step_history: Paginated step history
//   - list_configs: Available table configs
//   - game_instructions: The rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
