package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/tileconnect/game/engine"
	"github.com/wricardo/mcp-training/tileconnect/game/service"
)

// row builds a grid row from a layout string
func row(s string) []engine.Cell {
	cells := make([]engine.Cell, len(s))
	for i, ch := range s {
		if ch != '.' {
			cells[i] = engine.Cell{Symbol: string(ch), TileID: i + 1}
		}
	}
	return cells
}

func testBoard(rows ...string) *engine.BoardState {
	state := &engine.BoardState{
		Width:  len(rows[0]),
		Height: len(rows),
		Level:  1,
	}
	for _, r := range rows {
		state.Grid = append(state.Grid, row(r))
		state.Remaining += len(r) - strings.Count(r, ".")
	}
	return state
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"id": "ab12", "remaining": 24})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api/sessions/ab12", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "plain error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			expected: "API error: 500",
		},
		{
			name: "json error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				writeJSON(w, map[string]string{"error": "session not found: zz99"})
			},
			expected: "session not found: zz99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall("GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if err.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		writeJSON(w, service.SessionInfo{
			ID:         "ab12",
			ConfigName: "easy",
			BoardState: testBoard("AB", "BA"),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		callTool("create_session", map[string]interface{}{"config_name": "easy"}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Created session: ab12") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if body["config_id"] != "easy" {
		t.Errorf("Expected config_id easy in request, got %v", body)
	}
}

func TestClient_handleMatch(t *testing.T) {
	var body map[string]engine.Position
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/match" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		writeJSON(w, service.MatchResult{
			Success:    true,
			Outcome:    engine.MatchOK,
			From:       body["from"],
			To:         body["to"],
			Symbol:     "A",
			Waypoints:  []engine.Position{body["from"], {X: 0, Y: -1}, {X: 2, Y: -1}, body["to"]},
			Corners:    2,
			BoardState: testBoard(".B."),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMatch(context.Background(), callTool("match", map[string]interface{}{
		"session_id": "ab12",
		"from_x":     float64(0),
		"from_y":     float64(0),
		"to_x":       float64(2),
		"to_y":       float64(0),
		"intent":     "both A tiles sit on the top edge",
	}))
	if err != nil {
		t.Fatalf("handleMatch failed: %v", err)
	}

	if body["to"] != (engine.Position{X: 2, Y: 0}) {
		t.Errorf("Expected to=(2,0) in request, got %v", body)
	}

	text := resultText(t, result)
	for _, want := range []string{"✓ Matched A (0,0)→(2,0) with 2 corner(s)", "(0,-1) → (2,-1)", "Tiles left: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleMatch_MissingArgument(t *testing.T) {
	client := NewClient("http://localhost:0")

	result, err := client.handleMatch(context.Background(), callTool("match", map[string]interface{}{
		"session_id": "ab12",
		"from_x":     float64(0),
		"from_y":     float64(0),
		"to_x":       float64(1),
	}))
	if err != nil {
		t.Fatalf("handleMatch failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error")
	}
	if text := resultText(t, result); !strings.Contains(text, "to_y is required") {
		t.Errorf("Unexpected error text: %s", text)
	}
}

func TestClient_handleFindRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/ab12/route":
			q := r.URL.Query()
			if q.Get("from_x") != "0" || q.Get("to_x") != "2" {
				t.Errorf("Unexpected query %s", r.URL.RawQuery)
			}
			if q.Get("to_y") == "1" {
				writeJSON(w, service.RouteResult{Reason: service.ReasonOutOfRange})
				return
			}
			route := engine.Route{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 0}}
			writeJSON(w, service.RouteResult{
				Found:     true,
				Route:     route,
				Waypoints: route.Waypoints(),
				Corners:   route.Corners(),
			})
		case "/api/sessions/ab12/state":
			writeJSON(w, testBoard("ABA"))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleFindRoute(ctx, callTool("find_route", map[string]interface{}{
		"session_id": "ab12", "from_x": float64(0), "from_y": float64(0), "to_x": float64(2), "to_y": float64(0),
	}))
	if err != nil {
		t.Fatalf("handleFindRoute failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "with 2 corner(s)") || !strings.Contains(text, " *** \n ABA \n") {
		t.Errorf("Expected route overlay, got: %s", text)
	}

	result, _ = client.handleFindRoute(ctx, callTool("find_route", map[string]interface{}{
		"session_id": "ab12", "from_x": float64(0), "from_y": float64(0), "to_x": float64(2), "to_y": float64(1),
	}))
	if text := resultText(t, result); !strings.Contains(text, "No route") || !strings.Contains(text, service.ReasonOutOfRange) {
		t.Errorf("Expected out of range message, got: %s", text)
	}
}

func TestClient_handleHint(t *testing.T) {
	tests := []struct {
		name     string
		response service.HintResult
		expected string
	}{
		{
			name: "pair available",
			response: service.HintResult{
				Found: true,
				Hint: &engine.Hint{
					From:   engine.Position{X: 1, Y: 0},
					To:     engine.Position{X: 1, Y: 2},
					Symbol: "D",
					Route:  engine.Route{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
				},
				Waypoints: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 2}},
			},
			expected: "Match D at (1,0) with (1,2)",
		},
		{
			name:     "no pair",
			response: service.HintResult{Message: "No pair can be matched right now; shuffle the board"},
			expected: "shuffle the board",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.response)
			}))
			defer server.Close()

			result, err := NewClient(server.URL).handleHint(context.Background(),
				callTool("hint", map[string]interface{}{"session_id": "ab12"}))
			if err != nil {
				t.Fatalf("handleHint failed: %v", err)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.expected) {
				t.Errorf("Expected %q, got: %s", tt.expected, text)
			}
		})
	}
}

func TestClient_handleMatchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, service.HistoryResponse{
			Matches: []engine.MatchHistoryEntry{
				{MatchNumber: 6, Level: 1, Symbol: "C", From: engine.Position{X: 0, Y: 0}, To: engine.Position{X: 3, Y: 0}, Outcome: engine.MatchNoRoute},
			},
			TotalMatches: 6,
			Page:         2,
			PageSize:     5,
			TotalPages:   2,
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleMatchHistory(context.Background(),
		callTool("match_history", map[string]interface{}{"session_id": "ab12", "page": float64(2), "limit": float64(5)}))
	if err != nil {
		t.Fatalf("handleMatchHistory failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Page 2/2", "Total (cumulative): 6", "6. L1 C (0,0)→(3,0) no_route ✗"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q, got: %s", want, text)
		}
	}
}

func TestFormatBoardState(t *testing.T) {
	state := testBoard("AB.", ".BA")
	state.Score = 4
	state.Selected = &engine.Position{X: 1, Y: 1}
	state.Message = "Pick a second tile"

	result := formatBoardState(state)

	expectedFields := []string{
		"Level: 1 | Board: 3x2 | Score: 4 | Tiles left: 4",
		"   012\n",
		" 0 AB.\n",
		" 1 .bA\n",
		"Message: Pick a second tile",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatBoardState_Status(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*engine.BoardState)
		expected string
	}{
		{"cleared", func(s *engine.BoardState) { s.Cleared = true }, "🎉 BOARD CLEARED!"},
		{"stuck", func(s *engine.BoardState) { s.Stuck = true }, "🧱 STUCK"},
		{"search limited", func(s *engine.BoardState) { s.SearchLimited = true }, "SEARCH LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testBoard("..")
			tt.mutate(state)
			if result := formatBoardState(state); !strings.Contains(result, tt.expected) {
				t.Errorf("Expected %q, got: %s", tt.expected, result)
			}
		})
	}

	if formatBoardState(nil) != "No board state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatRouteOverlay(t *testing.T) {
	state := testBoard("ABA")
	route := engine.Route{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 0}}

	expected := " *** \n ABA \n     \n"
	if got := formatRouteOverlay(state, route); got != expected {
		t.Errorf("Expected overlay:\n%q\ngot:\n%q", expected, got)
	}
}

func TestFormatMatchResult(t *testing.T) {
	tests := []struct {
		name     string
		result   *service.MatchResult
		expected []string
	}{
		{
			name:     "mismatch",
			result:   &service.MatchResult{Outcome: engine.MatchSymbolMismatch, To: engine.Position{X: 1}},
			expected: []string{"✗ Match failed", "different symbols"},
		},
		{
			name:     "no route",
			result:   &service.MatchResult{Outcome: engine.MatchNoRoute},
			expected: []string{"no route with at most two corners"},
		},
		{
			name:     "search limit",
			result:   &service.MatchResult{Outcome: engine.MatchSearchLimit, To: engine.Position{X: 2, Y: 2}},
			expected: []string{"✗ Match failed", "hit the node limit", "(2,2)"},
		},
		{
			name:     "invalid",
			result:   &service.MatchResult{Outcome: engine.MatchInvalid},
			expected: []string{"select two different tiles"},
		},
		{
			name: "level up after shuffle",
			result: &service.MatchResult{
				Success:       true,
				Outcome:       engine.MatchOK,
				Symbol:        "Z",
				LevelAdvanced: true,
				BoardState:    testBoard("AA"),
			},
			expected: []string{"✓ Matched Z", "Level up!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatMatchResult(tt.result)
			for _, want := range tt.expected {
				if !strings.Contains(result, want) {
					t.Errorf("Expected %q, got: %s", want, result)
				}
			}
		})
	}
}

func TestDescribeCell(t *testing.T) {
	state := testBoard("AB.", "..A", "B.A")

	tests := []struct {
		name     string
		pos      engine.Position
		expected string
	}{
		{"tile with partners", engine.Position{X: 0, Y: 0}, "Other A tiles: (2,1) → (2,2)"},
		{"empty cell", engine.Position{X: 2, Y: 0}, "is empty"},
		{"outside board", engine.Position{X: -1, Y: 0}, "outside the 3x3 board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := describeCell(state, tt.pos); !strings.Contains(result, tt.expected) {
				t.Errorf("Expected %q, got: %s", tt.expected, result)
			}
		})
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Tile Connect Game - Complete Instructions",
		"GAME OBJECTIVE:",
		"MATCHING RULE:",
		"at most two corners",
		"BOARD LEGEND:",
		"ROUTE DISPLAY:",
		"CRITICAL PITFALLS TO AVOID:",
		"SHUFFLING:",
		"SESSION MANAGEMENT:",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
