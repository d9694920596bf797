/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
 */

package mem

import "github.com/nspersist/nspersist/pkg/istorage"

func Provide() istorage.IPlayerStorage {
	return &memStorage{players: map[string][]byte{}}
}
