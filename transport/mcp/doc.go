// Package mcp provides the Model Context Protocol interface for the Tile Connect game.
//
// The mcp package implements a thin client that exposes the REST API as MCP
// tools, so AI agents play through the same server as every other client.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - board_state: board rendering with row and column indices
//   - select: click semantics, a second click tries a match
//   - match: remove a pair directly
//   - hint, shuffle, reset_game
//   - find_route: route query drawn over the board with a one-cell margin
//   - describe_cell: tile at a cell and its same-symbol partners
//   - match_history: paginated match attempts
//   - list_configs, game_instructions
//
// Transport Modes:
//
// main.go serves the MCP server over stdio (stdio-mcp mode) or over
// streamable HTTP at /mcp next to the REST API (server mode).
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
