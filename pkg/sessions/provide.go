/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sessions

func New(params Params) *Manager {
	return newManager(params)
}
