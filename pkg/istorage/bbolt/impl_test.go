/*
 * Copyright (c) 2022-present Sigma-Soft, Ltd.
 * @author: Dmitry Molchanovsky
 * @author: Maxim Geraskin (refactoring)
 */

package bbolt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nspersist/nspersist/pkg/istorage"
)

func TestBasicUsage(t *testing.T) {
	require := require.New(t)

	storage, err := Provide(ParamsType{DBDir: t.TempDir()})
	require.NoError(err)
	defer storage.Close()

	// write the player blob to the database
	err = storage.Put(context.Background(), "alice", []byte("test data string"))
	require.NoError(err)

	// read the blob from the database
	blob, ok, err := storage.Get(context.Background(), "alice")
	require.True(ok)
	require.NoError(err)
	require.Equal([]byte("test data string"), blob)
}

func TestTCK(t *testing.T) {
	storage, err := Provide(ParamsType{DBDir: t.TempDir()})
	require.NoError(t, err)
	defer storage.Close()

	istorage.TechnologyCompatibilityKit(t, storage)
}

func TestReopen(t *testing.T) {
	require := require.New(t)
	params := ParamsType{DBDir: t.TempDir()}

	storage, err := Provide(params)
	require.NoError(err)
	before := time.Now().Add(-time.Second)
	require.NoError(storage.Put(context.Background(), "bob", []byte{1, 2, 3}))
	require.NoError(storage.Close())

	storage, err = Provide(params)
	require.NoError(err)
	defer storage.Close()

	blob, ok, err := storage.Get(context.Background(), "bob")
	require.NoError(err)
	require.True(ok)
	require.Equal([]byte{1, 2, 3}, blob)

	updated, err := storage.(*playerStorage).Updated("bob")
	require.NoError(err)
	require.True(updated.After(before))

	updated, err = storage.(*playerStorage).Updated("unknown")
	require.NoError(err)
	require.True(updated.IsZero())
}

func TestLocked(t *testing.T) {
	require := require.New(t)
	params := ParamsType{DBDir: t.TempDir(), LockTimeout: 200 * time.Millisecond}

	storage, err := Provide(params)
	require.NoError(err)
	defer storage.Close()

	_, err = Provide(params)
	require.ErrorIs(err, ErrDatabaseLocked)
}
