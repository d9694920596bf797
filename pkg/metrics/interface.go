/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
*
* @author Michael Saigachenko
*/

package imetrics

type IMetric interface {
	Name() string

	// Scope returns empty string when not specified
	Scope() string
}

type IMetrics interface {
	// Increase metric value with "delta".
	// The default metric value is always 0.
	// Naming best practices: https://prometheus.io/docs/practices/naming/
	//
	// @ConcurrentAccess
	Increase(metricName string, scope string, valueDelta float64)

	// Returns address of metric value to be increased by AddFloat64 without map lookups
	//
	// @ConcurrentAccess
	MetricAddr(metricName string, scope string) *float64

	// Returns current value of metric
	//
	// @ConcurrentAccess
	Value(metricName string, scope string) float64

	// List lists current values of all metrics
	//
	// @ConcurrentAccess
	List(cb func(metric IMetric, metricValue float64) (err error)) (err error)
}
