/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
 */

package istorage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TechnologyCompatibilityKit test suit
func TechnologyCompatibilityKit(t *testing.T, storage IPlayerStorage) {
	t.Run("TestPlayerStorage_GetPut", func(t *testing.T) { testPlayerStorage_GetPut(t, storage) })
	t.Run("TestPlayerStorage_EmptyBlob", func(t *testing.T) { testPlayerStorage_EmptyBlob(t, storage) })
	t.Run("TestPlayerStorage_Delete", func(t *testing.T) { testPlayerStorage_Delete(t, storage) })
	t.Run("TestPlayerStorage_Read", func(t *testing.T) { testPlayerStorage_Read(t, storage) })
	t.Run("TestPlayerStorage_InvalidName", func(t *testing.T) { testPlayerStorage_InvalidName(t, storage) })
}

// nolint
func testPlayerStorage_GetPut(t *testing.T, storage IPlayerStorage) {
	ctx := context.Background()
	player := uuid.NewString()

	blob, ok, err := storage.Get(ctx, player)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, blob)

	require.NoError(t, storage.Put(ctx, player, []byte("first")))
	blob, ok, err = storage.Get(ctx, player)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("first"), blob)

	t.Run("Should replace blob", func(t *testing.T) {
		require := require.New(t)
		require.NoError(storage.Put(ctx, player, []byte("second")))
		blob, ok, err := storage.Get(ctx, player)
		require.NoError(err)
		require.True(ok)
		require.Equal([]byte("second"), blob)
	})

	t.Run("Should not share memory with caller", func(t *testing.T) {
		require := require.New(t)
		src := []byte("third")
		require.NoError(storage.Put(ctx, player, src))
		src[0] = 'X'
		blob, _, err := storage.Get(ctx, player)
		require.NoError(err)
		require.Equal([]byte("third"), blob)
		blob[0] = 'Y'
		blob, _, err = storage.Get(ctx, player)
		require.NoError(err)
		require.Equal([]byte("third"), blob)
	})
}

// nolint
func testPlayerStorage_EmptyBlob(t *testing.T, storage IPlayerStorage) {
	require := require.New(t)
	ctx := context.Background()
	player := uuid.NewString()

	require.NoError(storage.Put(ctx, player, nil))
	blob, ok, err := storage.Get(ctx, player)
	require.NoError(err)
	require.True(ok)
	require.Empty(blob)
}

// nolint
func testPlayerStorage_Delete(t *testing.T, storage IPlayerStorage) {
	require := require.New(t)
	ctx := context.Background()
	player := uuid.NewString()

	require.NoError(storage.Put(ctx, player, []byte("data")))
	require.NoError(storage.Delete(ctx, player))
	_, ok, err := storage.Get(ctx, player)
	require.NoError(err)
	require.False(ok)

	require.NoError(storage.Delete(ctx, player), "deleting missed player must not fail")
}

// nolint
func testPlayerStorage_Read(t *testing.T, storage IPlayerStorage) {
	ctx := context.Background()
	prefix := uuid.NewString()
	players := []string{prefix + "-a", prefix + "-b", prefix + "-c"}
	for _, p := range players {
		require.NoError(t, storage.Put(ctx, p, []byte(p)))
	}

	t.Run("Should read all players ordered", func(t *testing.T) {
		require := require.New(t)
		read := []string{}
		require.NoError(storage.Read(ctx, func(player string, blob []byte) error {
			require.Equal(player, string(blob))
			if len(player) > len(prefix) && player[:len(prefix)] == prefix {
				read = append(read, player)
			}
			return nil
		}))
		require.Equal(players, read)
	})

	t.Run("Should stop on callback error", func(t *testing.T) {
		require := require.New(t)
		testErr := errors.New("stop")
		calls := 0
		err := storage.Read(ctx, func(string, []byte) error {
			calls++
			return testErr
		})
		require.ErrorIs(err, testErr)
		require.Equal(1, calls)
	})

	t.Run("Should stop on context cancel", func(t *testing.T) {
		require := require.New(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := storage.Read(cctx, func(string, []byte) error { return nil })
		require.ErrorIs(err, context.Canceled)
	})
}

// nolint
func testPlayerStorage_InvalidName(t *testing.T, storage IPlayerStorage) {
	require := require.New(t)
	ctx := context.Background()

	require.ErrorIs(storage.Put(ctx, "", []byte("x")), ErrInvalidPlayerName)
	_, _, err := storage.Get(ctx, "")
	require.ErrorIs(err, ErrInvalidPlayerName)
	require.ErrorIs(storage.Delete(ctx, ""), ErrInvalidPlayerName)
}
