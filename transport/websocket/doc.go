// Package websocket provides WebSocket transport for the Tile Connect game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Board state broadcasting after every change
//   - Event broadcasting (matches, shuffles, level changes)
//   - Ping/pong keepalive and connection cleanup
//
// Architecture:
//
// A central Hub tracks clients per session. Each connection runs a read pump
// and a write pump; slow clients whose send buffer fills up are dropped.
//
// Message Protocol:
//
// Clients only listen. Outgoing messages are JSON:
//   - {"session_id": "ab12", "event": "state_update", "board_state": {...}}
//   - {"session_id": "ab12", "event": "match", "data": {...}}
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12) when
// connecting to /ws. Updates are broadcast only to clients of that session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastToSession(sessionID, state)
package websocket
