package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/service"
)

// Client drives one session on a running diving server.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID is the session the client currently drives.
func (c *Client) SessionID() string { return c.sessionID }

// Use points the client at an existing session.
func (c *Client) Use(sessionID string) { c.sessionID = sessionID }

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

// CreateSession opens a session for configName and starts driving it.
func (c *Client) CreateSession(ctx context.Context, configName string, seed *int64) (*engine.GameState, error) {
	req := map[string]any{}
	if configName != "" {
		req["config_id"] = configName
	}
	if seed != nil {
		req["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, err
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+c.sessionID+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Reset deals a new episode with seed.
func (c *Client) Reset(ctx context.Context, seed int64) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/reset", map[string]int64{"seed": seed}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.State, nil
}

// Run plays up to maxSteps steps; 0 plays the episode out.
func (c *Client) Run(ctx context.Context, maxSteps int) (*service.RunResult, error) {
	var result service.RunResult
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/run", map[string]int{"max_steps": maxSteps}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteSession(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	err := c.do(ctx, http.MethodDelete, "/api/sessions/"+c.sessionID, nil, nil)
	c.sessionID = ""
	return err
}

func (c *Client) LoadConfig(ctx context.Context, name string) (*engine.TableConfig, error) {
	var table engine.TableConfig
	if err := c.do(ctx, http.MethodGet, "/api/configs/"+name, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) SaveConfig(ctx context.Context, table *engine.TableConfig) error {
	return c.do(ctx, http.MethodPost, "/api/configs", table, nil)
}
