package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/testing/suite"
)

func TestAnalysisRepository(t *testing.T) {
	t.Run("Save_Get", func(t *testing.T) {
		ctx, st := suite.New(t)

		analysisRepo := NewAnalysisRepository(st.Storage, time.Minute)

		// Given: a solved position
		analysis := &entity.Analysis{
			Board:     "XX.OO....",
			Turn:      entity.PlayerX,
			Depth:     5,
			Score:     6,
			BestCells: []int{2},
		}

		// When: it is saved and read back
		err := analysisRepo.Save(ctx, analysis)
		require.NoError(t, err)

		cached, err := analysisRepo.Get(ctx, analysis.Board, analysis.Turn, analysis.Depth)

		// Then: the cached analysis matches and expires
		require.NoError(t, err)
		assert.Equal(t, analysis, cached)

		ttl, err := st.Storage.TTL(ctx, analysisKey(analysis.Board, analysis.Turn, analysis.Depth)).Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		analysisRepo := NewAnalysisRepository(st.Storage, 0)

		// When: reading a position at a depth never stored
		_, err := analysisRepo.Get(ctx, ".........", entity.PlayerX, 3)

		// Then: ErrAnalysisNotFound is returned
		require.ErrorIs(t, err, ErrAnalysisNotFound)
	})
}
