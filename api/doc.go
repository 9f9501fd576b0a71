// Package api provides HTTP REST API handlers for the Tile Connect game.
//
// The api package implements:
//   - Session management endpoints
//   - Play endpoints (select, match, hint, shuffle, reset, route)
//   - Board state and paginated match history
//   - Configuration listing, retrieval and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions              create ({"config_id": "easy"})
//   - GET    /api/sessions              list (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified      multi-session view (?sessionIds=a,b or ?configName=x)
//   - GET    /api/sessions/{id}         session info
//   - DELETE /api/sessions/{id}         delete
//
// Play:
//   - GET  /api/sessions/{id}/state    board state
//   - POST /api/sessions/{id}/select   click a tile ({"x": 1, "y": 2})
//   - POST /api/sessions/{id}/match    match a pair ({"from": {...}, "to": {...}})
//   - GET  /api/sessions/{id}/hint     a pair that can be matched now
//   - POST /api/sessions/{id}/shuffle  rearrange remaining tiles
//   - POST /api/sessions/{id}/reset    restart from level 1
//   - GET  /api/sessions/{id}/route    route query (?from_x=&from_y=&to_x=&to_y=)
//   - GET  /api/sessions/{id}/history  match history (?page=&limit=&order=)
//
// Configuration:
//   - GET  /api/configs                list presets
//   - GET  /api/configs/{name}         one preset
//   - POST /api/configs                validate and save a preset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}             WebSocket updates for one session
//
// Coordinates are 0-based board cells. Routes and waypoints may step one cell
// outside the board (x = -1 or x = width) when they pass around the edge.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code; unknown sessions map
// to 404:
//
//	{"error": "session not found: ..."}
//
// A failed match is not an error: it returns 200 with success=false and an
// outcome of symbol_mismatch, no_route or invalid.
package api
