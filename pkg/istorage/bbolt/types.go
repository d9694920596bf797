/*
 * Copyright (c) 2022-present Sigma-Soft, Ltd.
 * @author: Dmitry Molchanovsky
 */

package bbolt

import "time"

type ParamsType struct {
	// Folder to store the database file. Created if not exists
	DBDir string

	// How long to wait for the database file locked by another process.
	// DefaultLockTimeout if zero
	LockTimeout time.Duration
}
