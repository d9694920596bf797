/*
 * Copyright (c) 2020-present unTill Pro, Ltd.
 */

package istorage

import "errors"

var (
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrStorageClosed     = errors.New("storage is closed")
)
