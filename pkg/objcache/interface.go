/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 * @author: Nikolay Nikitin
 */

package objcache

// Objects cache
//
// @ConcurrentAccess
type ICache[K comparable, V any] interface {
	// Gets value by key. Returns true and value if key exists, false and zero value overwise
	Get(K) (value V, ok bool)

	// Puts value with key
	Put(K, V)

	// Removes value by key. Eviction callback may be called for removed value
	Delete(K)

	// Returns number of cached values
	Len() int
}

// Cache implementation
type CacheProvider uint8

const (
	CacheProvider_Hashicorp CacheProvider = iota
	CacheProvider_Theine
	CacheProvider_Imcache

	CacheProvider_Count
)

func (p CacheProvider) String() string {
	switch p {
	case CacheProvider_Hashicorp:
		return "hashicorp"
	case CacheProvider_Theine:
		return "theine"
	case CacheProvider_Imcache:
		return "imcache"
	}
	return "unknown"
}
