/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
 */

package mem

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/nspersist/nspersist/pkg/istorage"
)

type memStorage struct {
	lock    sync.RWMutex
	players map[string][]byte
	closed  bool
}

func (s *memStorage) Put(ctx context.Context, player string, blob []byte) error {
	if err := istorage.ValidatePlayerName(player); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return istorage.ErrStorageClosed
	}
	s.players[player] = slices.Clone(blob)
	if s.players[player] == nil {
		s.players[player] = []byte{}
	}
	return nil
}

func (s *memStorage) Get(ctx context.Context, player string) (blob []byte, ok bool, err error) {
	if err = istorage.ValidatePlayerName(player); err != nil {
		return nil, false, err
	}
	if err = ctx.Err(); err != nil {
		return nil, false, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return nil, false, istorage.ErrStorageClosed
	}
	stored, ok := s.players[player]
	if !ok {
		return nil, false, nil
	}
	return append(make([]byte, 0, len(stored)), stored...), true, nil
}

func (s *memStorage) Delete(ctx context.Context, player string) error {
	if err := istorage.ValidatePlayerName(player); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return istorage.ErrStorageClosed
	}
	delete(s.players, player)
	return nil
}

func (s *memStorage) Read(ctx context.Context, cb istorage.ReadCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.RLock()
	if s.closed {
		s.lock.RUnlock()
		return istorage.ErrStorageClosed
	}
	names := maps.Keys(s.players)
	slices.Sort(names)
	blobs := make([][]byte, len(names))
	for i, name := range names {
		blobs[i] = s.players[name]
	}
	s.lock.RUnlock()

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cb(name, blobs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *memStorage) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	return nil
}
