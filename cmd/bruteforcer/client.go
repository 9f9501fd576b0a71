package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/mcp-training/tileconnect/game/engine"
	"github.com/wricardo/mcp-training/tileconnect/game/service"
)

// Client talks to a running Tile Connect server over its REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends an optional JSON body and decodes the JSON response into out
func (c *Client) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) CreateSession(configName string) (*engine.BoardState, error) {
	var req interface{}
	if configName != "" {
		req = map[string]string{"config_id": configName}
	}

	var session service.SessionInfo
	if err := c.do("POST", "/api/sessions", req, &session); err != nil {
		return nil, err
	}

	c.sessionID = session.ID
	return session.BoardState, nil
}

func (c *Client) GetState() (*engine.BoardState, error) {
	var state engine.BoardState
	if err := c.do("GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Route asks the server whether from and to can be joined right now
func (c *Client) Route(from, to engine.Position) (*service.RouteResult, error) {
	query := url.Values{}
	query.Set("from_x", fmt.Sprint(from.X))
	query.Set("from_y", fmt.Sprint(from.Y))
	query.Set("to_x", fmt.Sprint(to.X))
	query.Set("to_y", fmt.Sprint(to.Y))

	var result service.RouteResult
	if err := c.do("GET", c.sessionPath("/route?"+query.Encode()), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Match(from, to engine.Position) (*service.MatchResult, error) {
	req := map[string]engine.Position{"from": from, "to": to}

	var result service.MatchResult
	if err := c.do("POST", c.sessionPath("/match"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Shuffle() (*service.ShuffleResult, error) {
	var result service.ShuffleResult
	if err := c.do("POST", c.sessionPath("/shuffle"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type resetResponse struct {
	Message string             `json:"message"`
	State   *engine.BoardState `json:"state"`
}

func (c *Client) Reset() (*engine.BoardState, error) {
	var resp resetResponse
	if err := c.do("POST", c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}
