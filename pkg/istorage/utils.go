/*
 * Copyright (c) 2020-present unTill Pro, Ltd.
 */

package istorage

import "fmt"

// Returns ErrInvalidPlayerName if the player name can not be used as a storage key
func ValidatePlayerName(player string) error {
	if player == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlayerName)
	}
	return nil
}
