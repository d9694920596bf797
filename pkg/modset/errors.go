/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package modset

import "errors"

var ErrInvalidManifest = errors.New("invalid mod manifest")

var ErrModNotFound = errors.New("mod not found")
