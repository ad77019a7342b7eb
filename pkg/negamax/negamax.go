// Package negamax implements a game-agnostic negamax search with alpha-beta pruning
// and a transposition table that folds symmetric and player-swapped positions.
package negamax

import (
	"context"
	"fmt"
	"iter"
	"math"
)

const (
	PlayerOne = 1
	PlayerTwo = -1

	// Infinity bounds the search window. It is MaxInt32 so that -Infinity never overflows.
	Infinity = math.MaxInt32
)

// GameState is the capability a game position must provide to be searched.
type GameState[S any] interface {
	comparable

	// Win reports whether the game is decided in favour of player.
	Win(player int) bool
	// Value returns the utility of the state in PlayerOne perspective.
	Value() int
	// Possibilities yields the states reachable when player moves.
	Possibilities(player int) iter.Seq[S]
	// Swap returns the same position with the two players exchanged.
	Swap() S
	// Symmetries yields every symmetric image of the state, itself included.
	Symmetries() iter.Seq[S]
}

// Stats counts the work done by a Searcher.
type Stats struct {
	Nodes     int64
	TableHits int64
}

// Searcher runs negamax searches sharing one transposition table.
// It is not safe for concurrent use.
type Searcher[S GameState[S]] struct {
	table *Table[S]
	stats Stats
}

func NewSearcher[S GameState[S]](table *Table[S]) *Searcher[S] {
	if table == nil {
		table = NewTable[S]()
	}

	return &Searcher[S]{table: table}
}

func (that *Searcher[S]) Table() *Table[S] {
	return that.table
}

func (that *Searcher[S]) Stats() Stats {
	return that.stats
}

func (that *Searcher[S]) ResetStats() {
	that.stats = Stats{}
}

// Negamax returns the score of state for player, who is to move, in player perspective.
// Scores below alpha or above beta are not looked for.
func (that *Searcher[S]) Negamax(state S, player, depth, alpha, beta int) int {
	that.stats.Nodes++

	if depth == 0 || state.Win(-player) {
		return leafScore(state, player, depth)
	}

	bestValue := -Infinity
	expanded := false

	for child := range state.Possibilities(player) {
		expanded = true

		v := -that.Negamax(child, -player, depth-1, -beta, -alpha)

		bestValue = max(bestValue, v)
		alpha = max(alpha, v)

		if alpha >= beta {
			break
		}
	}

	if !expanded {
		return leafScore(state, player, depth)
	}

	return bestValue
}

// NegamaxTable is Negamax backed by the transposition table.
func (that *Searcher[S]) NegamaxTable(state S, player, depth, alpha, beta int) int {
	if depth == 0 || state.Win(-player) {
		that.stats.Nodes++
		return leafScore(state, player, depth)
	}

	// shallow subtrees are cheaper to search than to store
	if depth <= 2 {
		return that.Negamax(state, player, depth, alpha, beta)
	}

	that.stats.Nodes++

	if v, ok := that.table.Get(state, player, depth, &alpha, &beta); ok {
		that.stats.TableHits++
		return v
	}

	origAlpha, origBeta := alpha, beta
	bestValue := -Infinity
	expanded := false

	for child := range state.Possibilities(player) {
		expanded = true

		v := -that.NegamaxTable(child, -player, depth-1, -beta, -alpha)

		bestValue = max(bestValue, v)
		alpha = max(alpha, v)

		if alpha >= beta {
			break
		}
	}

	if !expanded {
		return leafScore(state, player, depth)
	}

	that.table.Insert(state, player, depth, origAlpha, origBeta, bestValue)

	return bestValue
}

// Value returns the value of state in PlayerOne perspective when it is player's turn.
func (that *Searcher[S]) Value(state S, player, depth int) int {
	return player * that.NegamaxTable(state, player, depth, -Infinity, Infinity)
}

// BestMoves searches every move of player and returns all resulting states sharing the best
// score, together with that score in player perspective.
func (that *Searcher[S]) BestMoves(ctx context.Context, state S, player, depth int) ([]S, int, error) {
	bestValue := -Infinity
	var results []S

	for child := range state.Possibilities(player) {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("search interrupted: %w", err)
		}

		value := -that.NegamaxTable(child, -player, depth, -Infinity, Infinity)

		if value > bestValue {
			bestValue = value
			results = results[:0]
		}

		if value == bestValue {
			results = append(results, child)
		}
	}

	that.table.Clean()

	if len(results) == 0 {
		return nil, 0, ErrNoMoves
	}

	return results, bestValue, nil
}

func leafScore[S GameState[S]](state S, player, depth int) int {
	return player * state.Value() * (depth + 1)
}

// Negamax searches state without a table.
func Negamax[S GameState[S]](state S, player, depth, alpha, beta int) int {
	return NewSearcher[S](nil).Negamax(state, player, depth, alpha, beta)
}

// Value returns the value of state in PlayerOne perspective, filling table along the way.
func Value[S GameState[S]](state S, player, depth int, table *Table[S]) int {
	return NewSearcher(table).Value(state, player, depth)
}

// BotPlay returns every best move for player.
func BotPlay[S GameState[S]](ctx context.Context, state S, player, depth int, table *Table[S]) ([]S, error) {
	moves, _, err := NewSearcher(table).BestMoves(ctx, state, player, depth)
	if err != nil {
		return nil, err
	}

	return moves, nil
}
