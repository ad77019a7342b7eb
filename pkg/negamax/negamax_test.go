package negamax

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nim is a take-one-or-two game: whoever takes the last stone wins.
type nim struct {
	Stones int
	Last   int
}

func (that nim) Win(player int) bool {
	return that.Stones == 0 && that.Last == player
}

func (that nim) Value() int {
	switch {
	case that.Win(PlayerOne):
		return 1
	case that.Win(PlayerTwo):
		return -1
	default:
		return 0
	}
}

func (that nim) Possibilities(player int) iter.Seq[nim] {
	return func(yield func(nim) bool) {
		for take := 1; take <= 2 && take <= that.Stones; take++ {
			if !yield(nim{Stones: that.Stones - take, Last: player}) {
				return
			}
		}
	}
}

func (that nim) Swap() nim {
	return nim{Stones: that.Stones, Last: -that.Last}
}

func (that nim) Symmetries() iter.Seq[nim] {
	return func(yield func(nim) bool) {
		yield(that)
	}
}

func TestNegamax(t *testing.T) {
	t.Run("Player to move loses on a multiple of three", func(t *testing.T) {
		// Given: six stones and the first player to move
		state := nim{Stones: 6, Last: PlayerTwo}

		// When: searching the full game
		score := Negamax(state, PlayerOne, 6, -Infinity, Infinity)

		// Then: the score is a loss for the player to move
		assert.Negative(t, score)
	})

	t.Run("Player to move wins otherwise", func(t *testing.T) {
		// Given: seven stones
		state := nim{Stones: 7, Last: PlayerTwo}

		// When: searching the full game
		score := Negamax(state, PlayerOne, 7, -Infinity, Infinity)

		// Then: the score is a win for the player to move
		assert.Positive(t, score)
	})

	t.Run("Finished game is scored by remaining depth", func(t *testing.T) {
		// Given: a game already won by the opponent
		state := nim{Stones: 0, Last: PlayerTwo}

		// When: evaluating it for PlayerOne with depth 3 left
		score := Negamax(state, PlayerOne, 3, -Infinity, Infinity)

		// Then: the loss is weighted by depth + 1
		assert.Equal(t, -4, score)
	})

	t.Run("Depth zero returns the static value", func(t *testing.T) {
		// Given: an undecided game
		state := nim{Stones: 5, Last: PlayerOne}

		// When: searching with no depth
		score := Negamax(state, PlayerTwo, 0, -Infinity, Infinity)

		// Then: the static value is returned
		assert.Equal(t, 0, score)
	})

	t.Run("Faster wins score higher", func(t *testing.T) {
		// Given: a one-move win and a four-move win
		quick := Negamax(nim{Stones: 2, Last: PlayerTwo}, PlayerOne, 9, -Infinity, Infinity)
		slow := Negamax(nim{Stones: 4, Last: PlayerTwo}, PlayerOne, 9, -Infinity, Infinity)

		// Then: the quicker win is preferred
		assert.Greater(t, quick, slow)
	})
}

func TestSearcher_Value(t *testing.T) {
	t.Run("Table search agrees with plain search", func(t *testing.T) {
		for stones := 0; stones <= 12; stones++ {
			// Given: a fresh searcher per position
			searcher := NewSearcher[nim](nil)
			state := nim{Stones: stones, Last: PlayerTwo}

			// When: evaluating with and without the table
			withTable := searcher.Value(state, PlayerOne, stones)
			plain := Negamax(state, PlayerOne, stones, -Infinity, Infinity)

			// Then: both values are identical
			require.Equal(t, plain, withTable, "stones=%d", stones)
		}
	})

	t.Run("Value is in PlayerOne perspective", func(t *testing.T) {
		// Given: three stones with PlayerTwo to move
		state := nim{Stones: 3, Last: PlayerOne}

		// When: evaluating the position
		value := Value(state, PlayerTwo, 3, NewTable[nim]())

		// Then: PlayerOne is winning, so the value is positive
		assert.Positive(t, value)
	})

	t.Run("Table is reused across searches", func(t *testing.T) {
		// Given: a searcher that already solved a position
		searcher := NewSearcher[nim](nil)
		state := nim{Stones: 10, Last: PlayerTwo}
		first := searcher.Value(state, PlayerOne, 10)
		searcher.ResetStats()

		// When: solving it again
		second := searcher.Value(state, PlayerOne, 10)

		// Then: the value is stable and the table answered
		assert.Equal(t, first, second)
		assert.Positive(t, searcher.Stats().TableHits)
	})
}

func TestSearcher_BestMoves(t *testing.T) {
	t.Run("Leaves a multiple of three", func(t *testing.T) {
		// Given: four stones
		state := nim{Stones: 4, Last: PlayerTwo}

		// When: asking for the best moves
		moves, score, err := NewSearcher[nim](nil).BestMoves(context.Background(), state, PlayerOne, 4)

		// Then: the only best move takes one stone
		require.NoError(t, err)
		require.Equal(t, []nim{{Stones: 3, Last: PlayerOne}}, moves)
		assert.Positive(t, score)
	})

	t.Run("Returns every equally bad move", func(t *testing.T) {
		// Given: a lost position
		state := nim{Stones: 3, Last: PlayerTwo}

		// When: asking for the best moves
		moves, err := BotPlay(context.Background(), state, PlayerOne, 3, NewTable[nim]())

		// Then: both moves lose equally fast
		require.NoError(t, err)
		assert.Len(t, moves, 2)
	})

	t.Run("No moves on a finished game", func(t *testing.T) {
		// Given: no stones left
		state := nim{Stones: 0, Last: PlayerOne}

		// When: asking for the best moves
		_, _, err := NewSearcher[nim](nil).BestMoves(context.Background(), state, PlayerTwo, 1)

		// Then: ErrNoMoves is returned
		require.ErrorIs(t, err, ErrNoMoves)
	})

	t.Run("Cancelled context stops the search", func(t *testing.T) {
		// Given: a cancelled context
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When: asking for the best moves
		_, _, err := NewSearcher[nim](nil).BestMoves(ctx, nim{Stones: 5}, PlayerOne, 5)

		// Then: the context error is returned
		require.ErrorIs(t, err, context.Canceled)
	})
}
