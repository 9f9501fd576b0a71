// Command bruteforcer plays Tile Connect against a running server through the
// REST API. It never asks for hints: every same-symbol pair is probed with a
// route query, and the board is shuffled when no pair connects.
package main

import (
	"bytes"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/wricardo/mcp-training/tileconnect/game/engine"
)

// Options bound one play-through
type Options struct {
	MaxMatches int
	Levels     int
	Delay      time.Duration
	Verbose    bool
}

// Outcome is what a single attempt achieved
type Outcome struct {
	Matches       int
	Shuffles      int
	LevelsCleared int
	Stuck         bool
	SearchLimited bool
}

var (
	errStuck         = errors.New("board stuck")
	errSearchLimited = errors.New("search node limit reached before a move was found")
)

// playAttempt removes pairs until the requested levels are cleared, the
// board gets stuck or the match budget runs out
func playAttempt(client *Client, strategy *PairStrategy, state *engine.BoardState, opts Options) (*Outcome, error) {
	outcome := &Outcome{}
	route := func(from, to engine.Position) (bool, error) {
		result, err := client.Route(from, to)
		if err != nil {
			return false, err
		}
		return result.Found, nil
	}

	for outcome.Matches < opts.MaxMatches && outcome.LevelsCleared < opts.Levels {
		if state.Stuck {
			outcome.Stuck = true
			return outcome, errStuck
		}

		pair, err := strategy.NextPair(state, route)
		if err != nil {
			return outcome, err
		}

		if pair == nil {
			shuffled, err := client.Shuffle()
			if err != nil {
				return outcome, err
			}
			outcome.Shuffles++
			strategy.BoardChanged()
			state = shuffled.BoardState
			if !shuffled.Success && state.SearchLimited {
				outcome.SearchLimited = true
				return outcome, errSearchLimited
			}
			if !shuffled.Success {
				outcome.Stuck = true
				return outcome, errStuck
			}
			continue
		}

		result, err := client.Match(pair.From, pair.To)
		if err != nil {
			return outcome, err
		}
		state = result.BoardState

		if !result.Success {
			if opts.Verbose {
				log.Printf("Match %s %v-%v rejected: %s", pair.Symbol, pair.From, pair.To, result.Outcome)
			}
			strategy.MarkFailed(*pair)
			continue
		}
		strategy.BoardChanged()

		outcome.Matches++
		if result.Shuffled {
			outcome.Shuffles++
		}
		if opts.Verbose && outcome.Matches%10 == 0 {
			log.Printf("Level %d, score %d, %d tiles left", state.Level, state.Score, state.Remaining)
		}

		if result.Cleared {
			outcome.LevelsCleared++
			log.Printf("✅ Level cleared (%d/%d)", outcome.LevelsCleared, opts.Levels)
			if outcome.LevelsCleared < opts.Levels && !result.LevelAdvanced {
				// Without auto advance the server keeps the empty board
				return outcome, nil
			}
		}

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	return outcome, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configName := flag.String("config", "", "Board configuration name (classic, easy, corridor)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxMatches := flag.Int("max-matches", 1000, "Maximum matches per attempt")
	maxAttempts := flag.Int("max-attempts", 10, "Maximum attempts before giving up")
	levels := flag.Int("levels", 1, "Levels to clear")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between matches in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	sessionFile := ".session"
	savedSessionID := *continueSession
	if savedSessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		if _, err := client.GetState(); err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		state, err := client.CreateSession(*configName)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s (%dx%d, %d tiles)", client.sessionID, state.Width, state.Height, state.Remaining)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	opts := Options{
		MaxMatches: *maxMatches,
		Levels:     *levels,
		Delay:      time.Duration(*delayMs) * time.Millisecond,
		Verbose:    *verbose,
	}
	strategy := NewPairStrategy()

	for attempt := 1; attempt <= *maxAttempts; attempt++ {
		state, err := client.Reset()
		if err != nil {
			log.Fatalf("Failed to reset game: %v", err)
		}
		strategy.Reset()

		log.Printf("\n=== 🎮 Attempt %d/%d ===", attempt, *maxAttempts)
		outcome, err := playAttempt(client, strategy, state, opts)
		if err != nil && !errors.Is(err, errStuck) {
			log.Fatalf("Attempt %d failed: %v", attempt, err)
		}

		log.Printf("Attempt %d: matches=%d shuffles=%d probes=%d levels=%d/%d",
			attempt, outcome.Matches, outcome.Shuffles, strategy.Probes, outcome.LevelsCleared, *levels)

		if outcome.LevelsCleared >= *levels {
			log.Printf("\n🎉 Cleared %d level(s) in attempt %d", outcome.LevelsCleared, attempt)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\n❌ Failed after %d attempts", *maxAttempts)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}
