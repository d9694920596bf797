/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"errors"
	"fmt"
)

// Blob is rejected as a whole, caller falls back to schema defaults
var ErrFormat = errors.New("invalid nspdata format")

var ErrNotResolved = errors.New("data is not resolved")

var ErrSchemaChanged = errors.New("schema changed since data was resolved")

var ErrUnknownVariable = errors.New("unknown persistent variable")

var ErrKindMismatch = errors.New("value kind mismatch")

var ErrCapacityExceeded = errors.New("string exceeds capacity")

var ErrInvalidEnumMember = errors.New("invalid enum member")

func formatError(offset int64, msg string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrFormat, fmt.Sprintf(msg, args...), offset)
}
