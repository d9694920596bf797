/*
 * Copyright (c) 2022-present unTill Pro, Ltd.
 */

package istoragecache

import (
	istorage "github.com/nspersist/nspersist/pkg/istorage"
	imetrics "github.com/nspersist/nspersist/pkg/metrics"
)

// Provide s.e.
// scope is used as metrics scope
func Provide(maxBytes int, storage istorage.IPlayerStorage, metrics imetrics.IMetrics, scope string) istorage.IPlayerStorage {
	return newCachingStorage(maxBytes, storage, metrics, scope)
}
