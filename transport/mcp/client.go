package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Deep Sea Treasure Diving",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Deep Sea Treasure Diving - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Up to six scripted divers share one oxygen tank. Each step plays one turn for
the diver whose turn it is. Treasure only scores once it is carried back to
the submarine; divers still out when the oxygen runs dry lose what they hold.

AVAILABLE TOOLS:
- create_session: Start a table from a config (optional seed)
- list_sessions / get_session: Inspect sessions
- game_state: Current table snapshot
- step: Play one turn
- run: Play many turns (until the episode ends or max_steps)
- reset_game: Start a new episode (optional seed)
- observation: The 83-entry observation vector for a seat
- step_history: Past steps with pagination
- list_configs: Available table configurations
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new diving session with optional config and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use (see list_configs). Defaults to the server default.",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for a reproducible episode (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current table state: oxygen, round, divers and the path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Play one turn for the diver whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of what you expect to happen (serves as a rubber duck)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run",
		Description: "Play turns until the episode ends or max_steps turns have been played",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"max_steps": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of turns to play (0 or omitted plays to the end)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new episode in the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "New seed (optional, defaults to the next episode seed)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "observation",
		Description: "Get the observation vector a diver sees from its seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"player": map[string]interface{}{
					"type":        "integer",
					"description": "Seat number (0-based)",
				},
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleObservation)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step_history",
		Description: "Get step history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest (asc) or newest (desc) first",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStepHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available table configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments as a map, tolerating a missing object
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		session.ID, session.ConfigName, session.Seed, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in play"
		if s.GameState != nil && s.GameState.GameOver {
			status = "finished"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Seed: %d, Episode: %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Seed, s.Episode, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", url.PathEscape(sessionID)), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.StepResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/step", url.PathEscape(sessionID)), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(&result)), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if maxSteps, ok := intArg(args, "max_steps"); ok {
		body["max_steps"] = maxSteps
	}

	var result service.RunResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/run", url.PathEscape(sessionID)), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", url.PathEscape(sessionID)), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleObservation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	player, ok := intArg(args, "player")
	if !ok {
		return mcp.NewToolResultError("player is required"), nil
	}

	var obs service.ObservationInfo
	path := fmt.Sprintf("/api/sessions/%s/observation/%d", url.PathEscape(sessionID), player)
	if err := c.apiCall(ctx, "GET", path, nil, &obs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatObservation(&obs)), nil
}

func (c *Client) handleStepHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}

	path := fmt.Sprintf("/api/sessions/%s/history", url.PathEscape(sessionID))
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Divers: %d [%s]\n\n",
			config.Name, config.ConfigID, config.Description, config.Players,
			strings.Join(config.Strategies, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Deep Sea Treasure Diving - Complete Instructions

GAME OBJECTIVE:
Bring the most treasure value back to the submarine over three rounds.

THE PATH:
• 32 tiles below the submarine (position 0)
• Tiles 1-8 hold 1-dot treasures, 9-16 two dots, 17-24 three dots, 25-32 four dots
• More dots means a higher hidden value: 0-3, 4-7, 8-11 and 12-15 per tier
• Values stay hidden until a treasure is banked

A TURN:
1. Oxygen drops by the number of treasures the diver carries
2. If still diving, the diver may turn around (once per round, no way back)
3. Two three-sided dice (0-2 each) are rolled, minus one per treasure carried, floored at 0
4. The diver moves that many tiles; tiles occupied by other divers are skipped for free
5. On a treasure, the diver may pick it up (at most 6 carried)
6. On an empty tile with treasure in hand, the diver may drop the lightest one
Reaching the bottom (tile 32) forces a turn around.

END OF A ROUND:
• The round ends when every diver is back or the oxygen reaches 0
• Divers still out lose their treasure; it is stacked at the bottom of the path
• Emptied tiles are removed from play for the rest of the game
• The last diver still out (or the one furthest down) starts the next round

OBSERVATION (83 entries):
[0] oxygen, [1] position, [2] weight, [3] direction (1 = diving)
[4-8] other divers' positions, [9-13] their weights, [14-18] their directions
[19-50] dots per tile, [51-82] skip flags per tile (1 = occupied by another diver or removed)

STRATEGIES:
• grabber(n): turns back once it holds n treasures, grabs every treasure until then
• diver(depth, n): turns at depth and grabs from there until it holds n
• greedy(depth): ignores shallow treasure, turns as soon as it holds anything
• random: coin flips for everything

TOOLS:
• step plays exactly one turn; run plays many
• reset_game starts over, pass a seed to replay an episode exactly
• observation shows what a diver sees

Good luck down there!`

// Formatters

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nEpisode: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed, session.Episode,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Round: %d/%d | Oxygen: %d/%d | Steps: %d | Seed: %d\n",
		min(state.Round+1, engine.RoundsPerGame), engine.RoundsPerGame, state.Oxygen, engine.StartingOxygen, state.TotalSteps, state.Seed)
	if !state.GameOver {
		fmt.Fprintf(&result, "Next to play: seat %d\n", state.CurrentPlayer)
	}
	result.WriteString("\n")

	for _, p := range state.Players {
		marker := " "
		if !state.GameOver && p.ID == state.CurrentPlayer {
			marker = ">"
		}
		where := fmt.Sprintf("tile %d", p.Position)
		if p.Position == engine.Submarine {
			where = "submarine"
		}
		status := p.Direction
		if p.Finished {
			status = "back"
		}
		fmt.Fprintf(&result, "%s %d %-12s %-10s %-8s carrying %v  score %d\n",
			marker, p.ID, p.Name, where, status, p.CarriedDots, p.Score)
	}

	result.WriteString("\n" + formatPath(state) + "\n")

	if state.GameOver {
		result.WriteString("\n🏁 EPISODE OVER")
		if len(state.FinishOrder) > 0 {
			fmt.Fprintf(&result, " (final scores: %s)", formatScores(state))
		}
	}

	return result.String()
}

// formatPath renders the path as one character per tile: dots, '.' for an
// emptied tile, 'x' for a removed one and the seat number for a diver.
func formatPath(state *engine.GameState) string {
	occupied := make(map[int]int)
	for _, p := range state.Players {
		if p.Position > 0 {
			occupied[p.Position] = p.ID
		}
	}

	var b strings.Builder
	b.WriteString("Path: [S]")
	for _, tile := range state.Path {
		if id, ok := occupied[tile.Position]; ok {
			fmt.Fprintf(&b, "%c", 'A'+rune(id))
			continue
		}
		switch {
		case tile.Removed:
			b.WriteString("x")
		case tile.Dots == 0:
			b.WriteString(".")
		default:
			fmt.Fprintf(&b, "%d", tile.Dots)
		}
	}
	return b.String()
}

func formatScores(state *engine.GameState) string {
	parts := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		parts = append(parts, fmt.Sprintf("%s=%d", p.Name, p.Score))
	}
	return strings.Join(parts, ", ")
}

func formatDecision(v int) string {
	switch v {
	case engine.NotQueried:
		return "-"
	case 1:
		return "yes"
	default:
		return "no"
	}
}

func formatStepInfo(info engine.StepInfo) string {
	if info.Skipped {
		return fmt.Sprintf("seat %d is already back, turn passed", info.PlayerID)
	}
	line := fmt.Sprintf("seat %d: %d→%d roll=%d forward=%s pick=%s drop=%s",
		info.PlayerID, info.From, info.To, info.Roll,
		formatDecision(info.Forward), formatDecision(info.Pick), formatDecision(info.Drop))
	if info.ForcedTurn {
		line += " (forced turn)"
	}
	return line
}

func formatStepResult(result *service.StepResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Step: %s (%s)\n", formatStepInfo(result.Info), result.PlayerName)
	if result.Reward > 0 {
		fmt.Fprintf(&b, "Reward: %d\n", result.Reward)
	}

	if len(result.Events) > 1 {
		b.WriteString("Events:\n")
		for _, event := range result.Events[1:] {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatRunResult(sessionID string, result *service.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s: played %d/%d steps", sessionID, result.StepsExecuted, result.RequestedSteps)
	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, " (stopped: %s)", result.StopReasonCode)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		b.WriteString(result.StoppedReason + "\n")
	}
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d steps\n", result.Limit)
	}

	if len(result.Rewards) > 0 {
		fmt.Fprintf(&b, "Rewards per seat: %v\n", result.Rewards)
	}

	highlights := 0
	for _, event := range result.Events {
		if event.Type == "step" {
			continue
		}
		if highlights == 0 {
			b.WriteString("Highlights:\n")
		}
		fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		highlights++
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatObservation(obs *service.ObservationInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Observation for seat %d (%s)\n", obs.PlayerID, obs.Name)
	fmt.Fprintf(&b, "Oxygen: %d | Position: %d | Weight: %d | Direction: %s\n",
		obs.Oxygen, obs.Position, obs.Weight, obs.Direction)
	fmt.Fprintf(&b, "Dots: %v\n", obs.Dots)
	fmt.Fprintf(&b, "Skip: %v\n", obs.Skip)
	fmt.Fprintf(&b, "Vector: %v\n", obs.Vector)
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalSteps)

	for _, record := range history.Steps {
		fmt.Fprintf(&b, "%d. [round %d, oxygen %d] %s", record.StepNumber, record.Info.Round+1, record.Oxygen, formatStepInfo(record.Info))
		if record.Reward > 0 {
			fmt.Fprintf(&b, " reward=%d", record.Reward)
		}
		if record.Done {
			b.WriteString(" DONE")
		}
		b.WriteString("\n")
	}

	return b.String()
}
