/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 * @author: Nikolay Nikitin
 */

package objcache

import (
	"github.com/nspersist/nspersist/pkg/objcache/internal/hashicorp"
	"github.com/nspersist/nspersist/pkg/objcache/internal/imcache"
	"github.com/nspersist/nspersist/pkg/objcache/internal/theine"
)

// Creates and return new LRU object cache with K key type and V value type.
//
// Maximum cache size is limited by size param. Optional onEvicted cb is called then some value evicted from cache.
func New[K comparable, V any](size int, onEvicted func(K, V)) ICache[K, V] {
	return NewProvider[K, V](CacheProvider_Hashicorp, size, onEvicted)
}

// Same as New, but cache is implemented by specified provider
func NewProvider[K comparable, V any](provider CacheProvider, size int, onEvicted func(K, V)) ICache[K, V] {
	switch provider {
	case CacheProvider_Theine:
		return theine.New[K, V](size, onEvicted)
	case CacheProvider_Imcache:
		return imcache.New[K, V](size, onEvicted)
	}
	return hashicorp.New[K, V](size, onEvicted)
}
