package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-negamax/testing/suite"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: connecting to the container
		redisStorage, err := NewRedisStorage(ctx, st.StorageAddr)

		// Then: the connection is usable and closes cleanly
		require.NoError(t, err)
		require.NoError(t, redisStorage.Connection.Set(ctx, "key", "value", 0).Err())
		assert.Equal(t, "value", redisStorage.Connection.Get(ctx, "key").Val())
		require.NoError(t, redisStorage.Close())
	})

	t.Run("Fails when redis is unreachable", func(t *testing.T) {
		_, err := NewRedisStorage(context.Background(), "127.0.0.1:1")

		require.Error(t, err)
	})
}
