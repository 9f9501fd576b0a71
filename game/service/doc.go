// Package service provides the business logic layer for the Tile Connect game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Tile selection, pair matching and route queries
//   - Session lifecycle management
//   - Match history tracking with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an engine instance; the service turns
// engine results into GameEvents that the transports broadcast.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "easy")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Match(ctx, sessionInfo.ID,
//		engine.Position{X: 0, Y: 0}, engine.Position{X: 3, Y: 0})
//
// Events:
//
// Every event carries a UUID so clients can de-duplicate broadcasts that
// arrive over both HTTP responses and the WebSocket hub.
package service
