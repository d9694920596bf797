/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sessions

import "errors"

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is busy")
	ErrSessionsActive  = errors.New("there are active sessions")
)
