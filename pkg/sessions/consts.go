/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sessions

const DefaultParkedSize = 256

const (
	joinTotal         = "nspersist_sessions_join_total"
	joinParkedTotal   = "nspersist_sessions_join_parked_total"
	leaveTotal        = "nspersist_sessions_leave_total"
	activeSessions    = "nspersist_sessions_active"
	resetsTotal       = "nspersist_sessions_resets_total"
	formatErrorsTotal = "nspersist_sessions_format_errors_total"
)
