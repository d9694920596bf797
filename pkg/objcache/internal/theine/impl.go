/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 * @author: Nikolay Nikitin
 */

package theine

import (
	theine "github.com/Yiling-J/theine-go"
)

// LRU cache implemented by theine-go hybrid cache
type Cache[K comparable, V any] struct {
	c *theine.Cache[K, V]
}

func New[K comparable, V any](size int, onEvicted func(K, V)) *Cache[K, V] {
	c := &Cache[K, V]{}
	bld := theine.NewBuilder[K, V](int64(size))
	if onEvicted != nil {
		bld.RemovalListener(func(key K, value V, _ theine.RemoveReason) { onEvicted(key, value) })
	}

	var err error

	if c.c, err = bld.Build(); err != nil {
		panic(err)
	}
	return c
}

func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	return c.c.Get(key)
}

func (c *Cache[K, V]) Put(key K, value V) {
	_ = c.c.Set(key, value, 1)
}

func (c *Cache[K, V]) Delete(key K) {
	c.c.Delete(key)
}

func (c *Cache[K, V]) Len() int {
	return c.c.Len()
}
