/*
 * Copyright (c) 2021-present unTill Pro, Ltd.
 *
 */

package imetrics

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"
)

const bitSize = 64

type metric struct {
	name  string
	scope string
}

func (m *metric) Name() string {
	return m.name
}

func (m *metric) Scope() string {
	return m.scope
}

type mapMetrics struct {
	metrics map[metric]*float64
	lock    sync.Mutex
}

func newMetrics() IMetrics {
	return &mapMetrics{
		metrics: make(map[metric]*float64),
	}
}

func (m *mapMetrics) Increase(metricName string, scope string, valueDelta float64) {
	AddFloat64(m.MetricAddr(metricName, scope), valueDelta)
}

func (m *mapMetrics) MetricAddr(metricName string, scope string) *float64 {
	key := metric{name: metricName, scope: scope}
	m.lock.Lock()
	defer m.lock.Unlock()
	addr, ok := m.metrics[key]
	if !ok {
		addr = new(float64)
		m.metrics[key] = addr
	}
	return addr
}

func (m *mapMetrics) Value(metricName string, scope string) float64 {
	m.lock.Lock()
	addr, ok := m.metrics[metric{name: metricName, scope: scope}]
	m.lock.Unlock()
	if !ok {
		return 0
	}
	return loadFloat64(addr)
}

// Lists metrics ordered by name and scope
func (m *mapMetrics) List(cb func(metric IMetric, metricValue float64) (err error)) (err error) {
	m.lock.Lock()
	keys := make([]metric, 0, len(m.metrics))
	for k := range m.metrics {
		keys = append(keys, k)
	}
	addrs := make([]*float64, 0, len(keys))
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].scope < keys[j].scope
	})
	for _, k := range keys {
		addrs = append(addrs, m.metrics[k])
	}
	m.lock.Unlock()

	for i := range keys {
		if err = cb(&keys[i], loadFloat64(addrs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Atomically adds delta to value at addr
func AddFloat64(addr *float64, delta float64) {
	p := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(p)
		if atomic.CompareAndSwapUint64(p, old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

func loadFloat64(addr *float64) float64 {
	return math.Float64frombits(atomic.LoadUint64((*uint64)(unsafe.Pointer(addr))))
}

func ToPrometheus(metric IMetric, metricValue float64) []byte {
	bb := bytes.Buffer{}
	bb.WriteString(metric.Name())
	if metric.Scope() != "" {
		bb.WriteString(`{scope="`)
		bb.WriteString(metric.Scope())
		bb.WriteString(`"}`)
	}
	bb.WriteRune(' ')
	bb.WriteString(strconv.FormatFloat(metricValue, 'f', -1, bitSize))
	bb.WriteRune('\n')
	return bb.Bytes()
}
