/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package modset

// Mod is an add-on entry of manifest
type Mod struct {
	Name    string `yaml:"name"`
	Pdiff   string `yaml:"pdiff,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// Manifest lists base schema and add-ons in load order.
//
// Paths are relative to the root of the file system manifest is read from.
type Manifest struct {
	Base string `yaml:"base"`
	Mods []Mod  `yaml:"mods"`
}
