/*
 * Copyright (c) 2022-present Sigma-Soft, Ltd.
 * @author: Dmitry Molchanovsky
 */

package bbolt

import (
	"github.com/nspersist/nspersist/pkg/istorage"
)

// Opens or creates the players database in params.DBDir
func Provide(params ParamsType) (istorage.IPlayerStorage, error) {
	return openStorage(params)
}
