/*
* Copyright (c) 2021-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package istorage

import (
	"context"
)

// Keeps persisted player blobs, one blob per player.
// Implemented by a certain driver
type IPlayerStorage interface {
	// Replaces the blob of the player.
	// Returns ErrInvalidPlayerName if player is empty
	// @ConcurrentAccess
	Put(ctx context.Context, player string, blob []byte) (err error)

	// ok == false means that blob for the player does not exist.
	// Zero-length blob is a valid stored blob
	// @ConcurrentAccess
	Get(ctx context.Context, player string) (blob []byte, ok bool, err error)

	// Deleting not existing player is not an error
	// @ConcurrentAccess
	Delete(ctx context.Context, player string) (err error)

	// Reads all players ordered by name
	// @ConcurrentAccess
	Read(ctx context.Context, cb ReadCallback) (err error)

	Close() error
}

// blob is a temporary internal value, must NOT be changed or kept
type ReadCallback func(player string, blob []byte) (err error)
