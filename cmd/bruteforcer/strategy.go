package main

import (
	"sort"

	"github.com/wricardo/mcp-training/tileconnect/game/engine"
)

// Pair is two tiles carrying the same symbol
type Pair struct {
	From, To engine.Position
	Symbol   string
}

// RouteFunc reports whether a pair can be matched on the current board
type RouteFunc func(from, to engine.Position) (bool, error)

// PairStrategy tries same-symbol pairs without using hints. Pairs that failed
// are skipped until the board changes.
type PairStrategy struct {
	failed map[Pair]bool
	Probes int
}

func NewPairStrategy() *PairStrategy {
	return &PairStrategy{failed: make(map[Pair]bool)}
}

// Candidates lists every same-symbol pair on the board, closest pairs first
func Candidates(state *engine.BoardState) []Pair {
	bySymbol := make(map[string][]engine.Position)
	var symbols []string
	for y, row := range state.Grid {
		for x, cell := range row {
			if cell.Empty() {
				continue
			}
			if _, seen := bySymbol[cell.Symbol]; !seen {
				symbols = append(symbols, cell.Symbol)
			}
			bySymbol[cell.Symbol] = append(bySymbol[cell.Symbol], engine.Position{X: x, Y: y})
		}
	}

	var pairs []Pair
	for _, symbol := range symbols {
		tiles := bySymbol[symbol]
		for i := 0; i < len(tiles); i++ {
			for j := i + 1; j < len(tiles); j++ {
				pairs = append(pairs, Pair{From: tiles[i], To: tiles[j], Symbol: symbol})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].From.SquaredDistance(pairs[i].To) < pairs[j].From.SquaredDistance(pairs[j].To)
	})
	return pairs
}

// NextPair returns the first untried pair that route accepts
func (s *PairStrategy) NextPair(state *engine.BoardState, route RouteFunc) (*Pair, error) {
	for _, pair := range Candidates(state) {
		if s.failed[pair] {
			continue
		}
		s.Probes++
		ok, err := route(pair.From, pair.To)
		if err != nil {
			return nil, err
		}
		if ok {
			return &pair, nil
		}
		s.failed[pair] = true
	}
	return nil, nil
}

// MarkFailed skips pair until the board changes
func (s *PairStrategy) MarkFailed(pair Pair) {
	s.failed[pair] = true
}

// BoardChanged forgets failed pairs; removals and shuffles open new routes
func (s *PairStrategy) BoardChanged() {
	s.failed = make(map[Pair]bool)
}

func (s *PairStrategy) Reset() {
	s.BoardChanged()
	s.Probes = 0
}
