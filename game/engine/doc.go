// Package engine provides the core game logic for the Tile Connect game.
//
// The engine package implements:
//   - The occupancy grid with its permanently free border ring
//   - The turn-budgeted backtracking route search between two tiles
//   - Board setup, pair matching, shuffling and the solvability check
//   - Level progression and match history
//   - Configuration loading and validation
//
// Core Types:
//
// OccupancyGrid owns the blocked/free bitmap and answers route queries through
// FindRoute. Board layers tiles over a grid and keeps the grid in step as
// tiles are placed and removed. The Engine interface, implemented by
// GameEngine, drives a session: selection, matching, hints and shuffles.
//
// Usage:
//
//	grid := engine.NewOccupancyGrid(3, 1)
//	grid.SetBlocked(engine.Position{X: 2, Y: 1}, false)
//	route, ok := grid.FindRoute(engine.Position{X: 1, Y: 1}, engine.Position{X: 3, Y: 1})
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameEngine, err := engine.NewEngine(config)
//	result := gameEngine.Match(engine.Position{X: 0, Y: 0}, engine.Position{X: 3, Y: 2})
//
// Game Rules:
//
// Two tiles are removed together when they carry the same symbol and an
// orthogonal path through empty cells connects them with at most two corners.
// The path may leave the board through the border ring. When no pair can be
// matched the remaining tiles are shuffled; clearing the board advances to a
// larger level.
package engine
