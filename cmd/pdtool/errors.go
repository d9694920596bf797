/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import "errors"

var (
	ErrPlayerRequired = errors.New("player is required")
	ErrPlayerNotFound = errors.New("player not found")
)
