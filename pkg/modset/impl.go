/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package modset

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
	"github.com/nspersist/nspersist/pkg/pdef"
)

// Parses YAML manifest
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reads YAML manifest from file system
func Read(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Checks mod names are not empty and unique
func (m *Manifest) Validate() error {
	errs := make([]error, 0)
	names := make(map[string]int, len(m.Mods))
	for i, mod := range m.Mods {
		if mod.Name == "" {
			errs = append(errs, fmt.Errorf("%w: mod #%d has no name", ErrInvalidManifest, i))
			continue
		}
		if prev, ok := names[mod.Name]; ok {
			errs = append(errs, fmt.Errorf("%w: mod «%s» is listed at #%d and #%d", ErrInvalidManifest, mod.Name, prev, i))
		}
		names[mod.Name] = i
	}
	return errors.Join(errs...)
}

func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func (m *Manifest) find(name string) (*Mod, bool) {
	for i := range m.Mods {
		if m.Mods[i].Name == name {
			return &m.Mods[i], true
		}
	}
	return nil, false
}

// Returns is mod listed and enabled
func (m *Manifest) IsEnabled(name string) bool {
	mod, ok := m.find(name)
	return ok && mod.Enabled
}

func (m *Manifest) SetEnabled(name string, enabled bool) error {
	mod, ok := m.find(name)
	if !ok {
		return fmt.Errorf("%w: «%s»", ErrModNotFound, name)
	}
	mod.Enabled = enabled
	return nil
}

// Returns names of enabled mods in load order
func (m *Manifest) EnabledMods() []string {
	res := make([]string, 0, len(m.Mods))
	for _, mod := range m.Mods {
		if mod.Enabled {
			res = append(res, mod.Name)
		}
	}
	return res
}

// Reads base schema and diffs of enabled mods. Mods without pdiff are skipped.
func (m *Manifest) Sources(fsys fs.FS) (base string, diffs []pdef.SourceText, err error) {
	if m.Base != "" {
		data, err := fs.ReadFile(fsys, m.Base)
		if err != nil {
			return "", nil, fmt.Errorf("base schema: %w", err)
		}
		base = string(data)
	}
	for _, mod := range m.Mods {
		if !mod.Enabled || mod.Pdiff == "" {
			continue
		}
		data, err := fs.ReadFile(fsys, mod.Pdiff)
		if err != nil {
			return "", nil, fmt.Errorf("mod «%s»: %w", mod.Name, err)
		}
		diffs = append(diffs, pdef.SourceText{Source: mod.Name, Text: string(data)})
	}
	return base, diffs, nil
}

// Loads base and enabled mod diffs into schema and finalises it.
//
// Rejected diffs are reported in returned error, schema is finalised anyway
// with all accepted sources.
func LoadSchema(fsys fs.FS, m *Manifest, schema pdef.ISchema) error {
	base, diffs, err := m.Sources(fsys)
	if err != nil {
		return err
	}
	loadErr := schema.LoadSources(base, diffs)
	if err := schema.Finalise(); err != nil {
		return errors.Join(loadErr, err)
	}
	if loadErr != nil {
		logger.Warning("schema finalised without rejected sources:", loadErr)
	}
	return loadErr
}
