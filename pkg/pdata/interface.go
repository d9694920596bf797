/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

// IEnabledSources answers whether add-on source is enabled for the session
type IEnabledSources interface {
	IsEnabled(source string) bool
}

// EnabledSources is a set of enabled source names
type EnabledSources map[string]bool

func (e EnabledSources) IsEnabled(source string) bool { return e[source] }

// Returns set with the given sources enabled
func Enabled(sources ...string) EnabledSources {
	e := make(EnabledSources, len(sources))
	for _, s := range sources {
		e[s] = true
	}
	return e
}
