/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
	"github.com/nspersist/nspersist/pkg/modset"
	"github.com/nspersist/nspersist/pkg/pdata"
	"github.com/nspersist/nspersist/pkg/pdef"
)

// Reads manifest from mods folder, missing manifest means no mods
func readManifest(cfg *pdtoolConfig) (fs.FS, *modset.Manifest, error) {
	fsys := os.DirFS(cfg.ModsDir)
	m, err := modset.Read(fsys, cfg.Manifest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Verbose("manifest", cfg.Manifest, "not found, no mods are used")
		m = &modset.Manifest{}
	case err != nil:
		return nil, nil, err
	}
	if cfg.BaseSchema != "" {
		m.Base = cfg.BaseSchema
	}
	return fsys, m, nil
}

// Loads base schema and enabled mods. Rejected mods are returned as error,
// schema is usable anyway
func loadSchema(cfg *pdtoolConfig) (pdef.ISchema, *modset.Manifest, error) {
	fsys, m, err := readManifest(cfg)
	if err != nil {
		return nil, nil, err
	}
	schema := pdef.New()
	err = modset.LoadSchema(fsys, m, schema)
	if !schema.Finalised() {
		return nil, nil, err
	}
	return schema, m, err
}

func mustLoadSchema(cfg *pdtoolConfig) (pdef.ISchema, *modset.Manifest, error) {
	schema, m, err := loadSchema(cfg)
	if schema == nil {
		return nil, nil, err
	}
	if err != nil {
		logger.Warning(err)
	}
	return schema, m, nil
}

func readDataFile(path string) (*pdata.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inst, err := pdata.ParseFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func writeDataFile(path string, inst *pdata.Instance) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return inst.ToStream(f)
}

func resolve(inst *pdata.Instance, schema pdef.ISchema, enabled pdata.IEnabledSources, stderr io.Writer) error {
	resets, err := inst.ProcessData(schema, enabled)
	if err != nil {
		return err
	}
	for _, r := range resets {
		fmt.Fprintln(stderr, r)
	}
	return nil
}

func printValues(out io.Writer, inst *pdata.Instance) error {
	return inst.Range(func(id string, v pdata.Value) bool {
		fmt.Fprintf(out, "%s = %s\n", id, formatValue(v))
		return true
	})
}

func formatValue(v pdata.Value) string {
	switch v := v.(type) {
	case pdata.StringValue:
		return strconv.Quote(string(v))
	case pdata.EnumValue:
		if v == "" {
			return "<unset>"
		}
	}
	return v.String()
}

func setValue(schema pdef.ISchema, inst *pdata.Instance, identifier, text string) error {
	def, ok := schema.FindDefinition(identifier)
	if !ok {
		return fmt.Errorf("%w: «%s»", pdef.ErrDefinitionNotFound, identifier)
	}
	v, err := pdata.ParseValue(def, text)
	if err != nil {
		return err
	}
	return inst.SetValue(identifier, v)
}
