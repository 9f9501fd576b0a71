// Package config provides configuration management for the Tile Connect game.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Configuration validation before anything is cached or written
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Board configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board width and height, and the number of distinct symbols
//   - An optional fixed layout for level 1 (A-Z for tiles, '.' for empty)
//   - Tuning knobs: RNG seed, shuffle attempts, search node limit
//   - Game messages for selection, matches, shuffles and cleared levels
//
// Available Configurations:
//
//   - classic: 8x6 board with 12 symbols
//   - easy: 6x4 board with 6 symbols
//   - corridor: hand-made layout that needs border routes
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	boardConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no usable configuration the manager falls back to
// the engine's built-in board.
package config
