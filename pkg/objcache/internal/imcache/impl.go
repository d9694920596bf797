/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 * @author: Nikolay Nikitin
 */

package imcache

import "github.com/erni27/imcache"

// LRU cache implemented by imcache
type Cache[K comparable, V any] struct {
	cache *imcache.Cache[K, V]
}

func New[K comparable, V any](size int, onEvicted func(K, V)) *Cache[K, V] {
	opts := []imcache.Option[K, V]{imcache.WithMaxEntriesOption[K, V](size)}
	if onEvicted != nil {
		opts = append(opts, imcache.WithEvictionCallbackOption[K, V](func(key K, value V, _ imcache.EvictionReason) {
			onEvicted(key, value)
		}))
	}
	return &Cache[K, V]{cache: imcache.New[K, V](opts...)}
}

func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	return c.cache.Get(key)
}

func (c *Cache[K, V]) Put(key K, value V) {
	c.cache.Set(key, value, imcache.WithNoExpiration())
}

func (c *Cache[K, V]) Delete(key K) {
	_ = c.cache.Remove(key)
}

func (c *Cache[K, V]) Len() int {
	return c.cache.Len()
}
