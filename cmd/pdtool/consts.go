/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

const (
	envPrefix   = "PDTOOL_"
	metricScope = "pdtool"
)
