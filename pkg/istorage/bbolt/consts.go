/*
 * Copyright (c) 2024-present Sigma-Soft, Ltd.
 * @author: Alisher Nurmanov
 */

package bbolt

import "time"

const (
	dataBucketName = "dataBucket"
	dbFileName     = "players.db"
	blobKey        = "blob"
	updatedKey     = "updated"
)

const (
	// Database file is locked by another process while it is open
	DefaultLockTimeout = 5 * time.Second
	lockAttemptTimeout = 50 * time.Millisecond
	lockRetryDelay     = 50 * time.Millisecond
	lockRetryMaxDelay  = time.Second
)
