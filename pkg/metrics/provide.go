/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
 *
 */

package imetrics

func Provide() IMetrics {
	return newMetrics()
}
