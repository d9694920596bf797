/*
 * Copyright (c) 2022-present unTill Pro, Ltd.
 */

package istoragecache

const (
	getTotal       = "nspersist_istoragecache_get_total"
	getCachedTotal = "nspersist_istoragecache_get_cached_total"
	getSeconds     = "nspersist_istoragecache_get_seconds"
	putTotal       = "nspersist_istoragecache_put_total"
	putSeconds     = "nspersist_istoragecache_put_seconds"
	deleteTotal    = "nspersist_istoragecache_delete_total"
	readTotal      = "nspersist_istoragecache_read_total"
	readSeconds    = "nspersist_istoragecache_read_seconds"
)
