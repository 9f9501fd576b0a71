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
	"github.com/wricardo/mcp-training/tileconnect/game/engine"
	"github.com/wricardo/mcp-training/tileconnect/game/service"
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
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tile Connect Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Connect Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Clear the board by removing pairs of identical tiles. Two tiles can be removed
when a path of at most three straight segments (two turns) joins them without
crossing another tile. The path may run around the outside of the board.

AVAILABLE TOOLS:
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- board_state: Show the board
- select: Click a tile; a second click on a matching tile removes the pair
- match: Remove a pair directly - requires intent explanation
- hint: Ask for a pair that can be removed now
- shuffle: Rearrange the remaining tiles
- find_route: Show the route between two cells without changing the board
- describe_cell: Show the tile at a cell and where its partners are
- reset_game: Restart from level 1
- match_history: View past match attempts
- list_configs: List available board configurations
- game_instructions: Get complete rules

NOTE: The 'intent' parameter on match serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// sessionSchema is the input schema for tools that only take a session ID
func sessionSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session ID",
			},
		},
		Required: []string{"session_id"},
	}
}

func coordinate(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config ID to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(),
	}, c.handleGetSession)

	// Play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board with level, score and remaining tiles",
		InputSchema: sessionSchema(),
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select",
		Description: "Click a tile. The first click selects it; clicking a second tile tries to match the pair",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": coordinate("Column of the tile (0-based)"),
				"y": coordinate("Row of the tile (0-based)"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSelect)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match",
		Description: "Remove two tiles with the same symbol that can be joined with at most two turns",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"from_x": coordinate("Column of the first tile (0-based)"),
				"from_y": coordinate("Row of the first tile (0-based)"),
				"to_x":   coordinate("Column of the second tile (0-based)"),
				"to_y":   coordinate("Row of the second tile (0-based)"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this pair can be connected (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "from_x", "from_y", "to_x", "to_y"},
		},
	}, c.handleMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Get a pair of tiles that can be removed right now",
		InputSchema: sessionSchema(),
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle",
		Description: "Rearrange the remaining tiles so that at least one pair can be removed",
		InputSchema: sessionSchema(),
	}, c.handleShuffle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_route",
		Description: "Show the connecting route between two cells without changing the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"from_x": coordinate("Column of the first cell (0-based)"),
				"from_y": coordinate("Row of the first cell (0-based)"),
				"to_x":   coordinate("Column of the second cell (0-based)"),
				"to_y":   coordinate("Row of the second cell (0-based)"),
			},
			Required: []string{"session_id", "from_x", "from_y", "to_x", "to_y"},
		},
	}, c.handleFindRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the tile at a cell and the positions of every other tile with the same symbol",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": coordinate("Column of the cell (0-based)"),
				"y": coordinate("Row of the cell (0-based)"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to level 1",
		InputSchema: sessionSchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_history",
		Description: "Get match history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMatchHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
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

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
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

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

func positionArgs(args map[string]interface{}, xKey, yKey string) (engine.Position, error) {
	x, err := intArg(args, xKey)
	if err != nil {
		return engine.Position{}, err
	}
	y, err := intArg(args, yKey)
	if err != nil {
		return engine.Position{}, err
	}
	return engine.Position{X: x, Y: y}, nil
}

func pairArgs(args map[string]interface{}) (engine.Position, engine.Position, error) {
	from, err := positionArgs(args, "from_x", "from_y")
	if err != nil {
		return from, engine.Position{}, err
	}
	to, err := positionArgs(args, "to_x", "to_y")
	return from, to, err
}

func sessionPath(args map[string]interface{}, suffix string) string {
	sessionID, _ := args["session_id"].(string)
	return fmt.Sprintf("/api/sessions/%s%s", url.PathEscape(sessionID), suffix)
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatBoardState(session.BoardState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		progress := ""
		if s.BoardState != nil {
			progress = fmt.Sprintf(", Level %d, %d tiles left", s.BoardState.Level, s.BoardState.Remaining)
		}
		result += fmt.Sprintf("- %s (Config: %s%s, Created: %s)\n",
			s.ID, s.ConfigName, progress, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(args, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var state engine.BoardState
	err := c.apiCall("GET", sessionPath(args, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	pos, err := positionArgs(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.SelectResult
	if err := c.apiCall("POST", sessionPath(args, "/select"), pos, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Match != nil {
		return mcp.NewToolResultText(formatMatchResult(result.Match)), nil
	}

	text := "Nothing selected\n"
	if result.Selected != nil {
		text = fmt.Sprintf("Selected (%d,%d)\n", result.Selected.X, result.Selected.Y)
	}
	return mcp.NewToolResultText(text + "\n" + formatBoardState(result.BoardState)), nil
}

func (c *Client) handleMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	from, to, err := pairArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	body := map[string]engine.Position{"from": from, "to": to}

	var result service.MatchResult
	if err := c.apiCall("POST", sessionPath(args, "/match"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatchResult(&result)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var result service.HintResult
	if err := c.apiCall("GET", sessionPath(args, "/hint"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Found || result.Hint == nil {
		return mcp.NewToolResultText("💡 " + result.Message), nil
	}

	h := result.Hint
	text := fmt.Sprintf("💡 Match %s at (%d,%d) with (%d,%d) — %d corner(s)\nWaypoints: %s\n",
		h.Symbol, h.From.X, h.From.Y, h.To.X, h.To.Y, h.Route.Corners(), formatPositions(result.Waypoints))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleShuffle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var result service.ShuffleResult
	if err := c.apiCall("POST", sessionPath(args, "/shuffle"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "✓ Shuffled"
	if !result.Success {
		status = "✗ No playable arrangement found"
	}
	return mcp.NewToolResultText(status + "\n\n" + formatBoardState(result.BoardState)), nil
}

func (c *Client) handleFindRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	from, to, err := pairArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	query.Set("from_x", fmt.Sprint(from.X))
	query.Set("from_y", fmt.Sprint(from.Y))
	query.Set("to_x", fmt.Sprint(to.X))
	query.Set("to_y", fmt.Sprint(to.Y))

	var result service.RouteResult
	if err := c.apiCall("GET", sessionPath(args, "/route?"+query.Encode()), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Found {
		return mcp.NewToolResultText(fmt.Sprintf("✗ No route from (%d,%d) to (%d,%d): %s",
			from.X, from.Y, to.X, to.Y, result.Reason)), nil
	}

	var state engine.BoardState
	if err := c.apiCall("GET", sessionPath(args, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("✓ Route from (%d,%d) to (%d,%d) with %d corner(s)\nWaypoints: %s\n\n%s",
		from.X, from.Y, to.X, to.Y, result.Corners, formatPositions(result.Waypoints),
		formatRouteOverlay(&state, result.Route))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	pos, err := positionArgs(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall("GET", sessionPath(args, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var response struct {
		Message string             `json:"message"`
		State   *engine.BoardState `json:"state"`
	}
	if err := c.apiCall("POST", sessionPath(args, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatBoardState(response.State)), nil
}

func (c *Client) handleMatchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if page, err := intArg(args, "page"); err == nil && page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, err := intArg(args, "limit"); err == nil && limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	path := sessionPath(args, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, cfg := range configs {
		layout := "generated"
		if cfg.FixedLayout {
			layout = "fixed layout"
		}
		result += fmt.Sprintf("- %s: %s (%dx%d, %d symbols, %s)\n  %s\n",
			cfg.ConfigID, cfg.Name, cfg.Width, cfg.Height, cfg.Symbols, layout, cfg.Description)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🀄 Tile Connect Game - Complete Instructions

GAME OBJECTIVE:
Remove every tile from the board. Tiles are removed in pairs.

MATCHING RULE:
• Both tiles must show the same letter
• A route must join them through empty cells only
• The route is made of at most three straight segments (at most two corners)
• The route may leave the board and run around its outside edge

BOARD LEGEND:
• A-Z - a tile
• .   - an empty cell
• a-z - the currently selected tile (shown lower case)
• Coordinates are (x,y), 0-based, x is the column and y is the row

ROUTE DISPLAY:
• find_route draws the board with a one-cell margin
• * marks cells the route passes through, the endpoints keep their letters
• Waypoints list the endpoints plus every corner

🤖 AI AGENTS - STRATEGY:

1. **Start at the edges**: tiles on the outer rows and columns can always use
   the free margin around the board
2. **Look for straight lines**: two tiles in the same row or column with only
   empty cells between them connect with no corners
3. **Count corners, not distance**: a long route around the board is fine as
   long as it turns at most twice
4. **Open up the middle**: removing a pair that blocks several others is worth
   more than an isolated pair
5. **Verify before matching**: use find_route to check a pair without changing
   the board, or hint when you are stuck

CRITICAL PITFALLS TO AVOID:
- ❌ Counting the turn onto the first segment as free: three segments is the limit
- ❌ Routing through a tile: only empty cells and the outside margin are open
- ❌ Mixing up x and y: x is the column, y is the row

LEVELS:
- When the board is cleared the level is complete
- With auto-advance the next level starts on a larger board
- Score counts removed pairs across all levels

SHUFFLING:
- If no pair can be removed the board is shuffled automatically
- shuffle rearranges the remaining tiles on demand
- A board that cannot be made playable is reported as stuck; use reset_game

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a short hex ID
- Sessions keep independent boards and history

Good luck clearing the board! 🀄`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.BoardState))
}

func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Level: %d | Board: %dx%d | Score: %d | Tiles left: %d | Shuffles: %d\n\n",
		state.Level, state.Width, state.Height, state.Score, state.Remaining, state.Shuffles))

	result.WriteString(formatGrid(state))

	if state.Cleared {
		result.WriteString("\n🎉 BOARD CLEARED!")
	} else if state.Stuck {
		result.WriteString("\n🧱 STUCK: no pair can be removed and shuffling failed")
	} else if state.SearchLimited {
		result.WriteString("\n⏱️ SEARCH LIMITED: the node limit stopped the move check")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// formatGrid renders the board with column and row indices
func formatGrid(state *engine.BoardState) string {
	var b strings.Builder

	b.WriteString("   ")
	for x := 0; x < state.Width; x++ {
		b.WriteString(fmt.Sprintf("%d", x%10))
	}
	b.WriteString("\n")

	for y, row := range state.Grid {
		b.WriteString(fmt.Sprintf("%2d ", y))
		for x, cell := range row {
			b.WriteString(cellChar(state, engine.Position{X: x, Y: y}, cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cellChar renders a cell, lower-casing the selected tile
func cellChar(state *engine.BoardState, pos engine.Position, cell engine.Cell) string {
	if cell.Empty() {
		return string(engine.EmptyCell)
	}
	if state.Selected != nil && *state.Selected == pos {
		return strings.ToLower(cell.Symbol)
	}
	return cell.Symbol
}

// formatRouteOverlay draws the board with a one-cell margin and marks the route
func formatRouteOverlay(state *engine.BoardState, route engine.Route) string {
	onRoute := make(map[engine.Position]bool, len(route))
	for _, p := range route {
		onRoute[p] = true
	}

	var b strings.Builder
	for y := -1; y <= state.Height; y++ {
		for x := -1; x <= state.Width; x++ {
			pos := engine.Position{X: x, Y: y}
			inside := x >= 0 && y >= 0 && y < len(state.Grid) && x < len(state.Grid[y])

			switch {
			case inside && !state.Grid[y][x].Empty():
				b.WriteString(state.Grid[y][x].Symbol)
			case onRoute[pos]:
				b.WriteString("*")
			case inside:
				b.WriteString(string(engine.EmptyCell))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPositions(positions []engine.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " → ")
}

func formatMatchResult(result *service.MatchResult) string {
	var response string
	switch result.Outcome {
	case engine.MatchOK:
		response = fmt.Sprintf("✓ Matched %s (%d,%d)→(%d,%d) with %d corner(s)\nWaypoints: %s\n",
			result.Symbol, result.From.X, result.From.Y, result.To.X, result.To.Y,
			result.Corners, formatPositions(result.Waypoints))
	case engine.MatchSymbolMismatch:
		response = fmt.Sprintf("✗ Match failed: (%d,%d) and (%d,%d) carry different symbols\n",
			result.From.X, result.From.Y, result.To.X, result.To.Y)
	case engine.MatchNoRoute:
		response = fmt.Sprintf("✗ Match failed: no route with at most two corners joins (%d,%d) and (%d,%d)\n",
			result.From.X, result.From.Y, result.To.X, result.To.Y)
	case engine.MatchSearchLimit:
		response = fmt.Sprintf("✗ Match failed: the route search between (%d,%d) and (%d,%d) hit the node limit\n",
			result.From.X, result.From.Y, result.To.X, result.To.Y)
	default:
		response = "✗ Match failed: select two different tiles on the board\n"
	}

	if result.LevelAdvanced {
		response += "⬆️ Level up!\n"
	}
	if result.Shuffled {
		response += "🔀 No moves were left, the board was shuffled\n"
	}

	return response + "\n" + formatBoardState(result.BoardState)
}

// describeCell reports the tile at pos and where its partners are
func describeCell(state *engine.BoardState, pos engine.Position) string {
	if pos.Y < 0 || pos.Y >= len(state.Grid) || pos.X < 0 || pos.X >= len(state.Grid[pos.Y]) {
		return fmt.Sprintf("Cell (%d,%d) is outside the %dx%d board. Routes may pass there, tiles never do.",
			pos.X, pos.Y, state.Width, state.Height)
	}

	cell := state.Grid[pos.Y][pos.X]
	if cell.Empty() {
		return fmt.Sprintf("Cell (%d,%d) is empty. Routes may pass through it.", pos.X, pos.Y)
	}

	var partners []engine.Position
	for y, row := range state.Grid {
		for x, other := range row {
			p := engine.Position{X: x, Y: y}
			if p != pos && other.Symbol == cell.Symbol {
				partners = append(partners, p)
			}
		}
	}

	result := fmt.Sprintf("Cell (%d,%d) holds tile %s (id %d).\n", pos.X, pos.Y, cell.Symbol, cell.TileID)
	if len(partners) == 0 {
		return result + "No other tile carries this symbol."
	}
	return result + fmt.Sprintf("Other %s tiles: %s", cell.Symbol, formatPositions(partners))
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Match History (Page %d/%d) — Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMatches)

	for _, match := range history.Matches {
		status := "✓"
		if !match.Success {
			status = "✗"
		}
		result += fmt.Sprintf("%d. L%d %s (%d,%d)→(%d,%d) %s %s\n",
			match.MatchNumber, match.Level, match.Symbol,
			match.From.X, match.From.Y, match.To.X, match.To.Y, match.Outcome, status)
	}

	return result
}
