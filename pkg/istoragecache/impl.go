/*
 * Copyright (c) 2022-present unTill Pro, Ltd.
 */

package istoragecache

import (
	"context"
	"time"

	"github.com/VictoriaMetrics/fastcache"

	istorage "github.com/nspersist/nspersist/pkg/istorage"
	imetrics "github.com/nspersist/nspersist/pkg/metrics"
)

type cachedStorage struct {
	cache   *fastcache.Cache
	storage istorage.IPlayerStorage

	/* metrics */
	mGetSeconds     *float64
	mGetTotal       *float64
	mGetCachedTotal *float64
	mPutTotal       *float64
	mPutSeconds     *float64
	mDeleteTotal    *float64
	mReadTotal      *float64
	mReadSeconds    *float64
}

func newCachingStorage(maxBytes int, nonCachingStorage istorage.IPlayerStorage, metrics imetrics.IMetrics, scope string) istorage.IPlayerStorage {
	return &cachedStorage{
		cache:           fastcache.New(maxBytes),
		storage:         nonCachingStorage,
		mGetTotal:       metrics.MetricAddr(getTotal, scope),
		mGetCachedTotal: metrics.MetricAddr(getCachedTotal, scope),
		mGetSeconds:     metrics.MetricAddr(getSeconds, scope),
		mPutTotal:       metrics.MetricAddr(putTotal, scope),
		mPutSeconds:     metrics.MetricAddr(putSeconds, scope),
		mDeleteTotal:    metrics.MetricAddr(deleteTotal, scope),
		mReadTotal:      metrics.MetricAddr(readTotal, scope),
		mReadSeconds:    metrics.MetricAddr(readSeconds, scope),
	}
}

func (s *cachedStorage) Put(ctx context.Context, player string, blob []byte) (err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(s.mPutSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(s.mPutTotal, 1.0)
	err = s.storage.Put(ctx, player, blob)
	if err == nil {
		s.set(player, blob)
	} else {
		s.cache.Del([]byte(player))
	}
	return err
}

func (s *cachedStorage) Get(ctx context.Context, player string) (blob []byte, ok bool, err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(s.mGetSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(s.mGetTotal, 1.0)

	if cached := s.cache.GetBig(nil, []byte(player)); len(cached) != 0 {
		imetrics.AddFloat64(s.mGetCachedTotal, 1.0)
		return cached[1:], true, nil
	}
	blob, ok, err = s.storage.Get(ctx, player)
	if err != nil {
		return nil, false, err
	}
	if ok {
		s.set(player, blob)
	}
	return blob, ok, nil
}

func (s *cachedStorage) Delete(ctx context.Context, player string) (err error) {
	imetrics.AddFloat64(s.mDeleteTotal, 1.0)
	s.cache.Del([]byte(player))
	return s.storage.Delete(ctx, player)
}

// Reads bypass the cache
func (s *cachedStorage) Read(ctx context.Context, cb istorage.ReadCallback) (err error) {
	start := time.Now()
	defer func() {
		imetrics.AddFloat64(s.mReadSeconds, time.Since(start).Seconds())
	}()
	imetrics.AddFloat64(s.mReadTotal, 1.0)
	return s.storage.Read(ctx, cb)
}

func (s *cachedStorage) Close() error {
	s.cache.Reset()
	return s.storage.Close()
}

func (s *cachedStorage) set(player string, blob []byte) {
	value := make([]byte, 0, len(blob)+1)
	value = append(value, cachedBlobMark)
	value = append(value, blob...)
	s.cache.SetBig([]byte(player), value)
}
