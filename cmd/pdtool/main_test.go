/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspersist/nspersist/pkg/goutils/cobrau"
	"github.com/nspersist/nspersist/pkg/pdata"
	"github.com/nspersist/nspersist/pkg/pdef"
)

const (
	testBase = `
$ENUM_START Rank
	Bronze
	Silver
$ENUM_END
int xp
Rank rank
int score[Rank]
string{8} title
`
	testManifest = `
base: base.pdef
mods:
  - name: modA
    pdiff: modA.pdiff
    enabled: true
  - name: modB
    pdiff: modB.pdiff
    enabled: false
`
)

// Prepares mods folder and points environment to it
func testEnv(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	all := map[string]string{
		"base.pdef":  testBase,
		"mods.yaml":  testManifest,
		"modA.pdiff": "int gold",
		"modB.pdiff": "broken line here",
	}
	for name, text := range files {
		all[name] = text
	}
	for name, text := range all {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	t.Setenv("PDTOOL_MODS_DIR", dir)
	t.Setenv("PDTOOL_DB_DIR", filepath.Join(dir, "db"))
	t.Setenv("PDTOOL_LOG_LEVEL", "error")
	return dir
}

func execOut(t *testing.T, args ...string) (string, error) {
	cmd, err := prepareRootCmd(append([]string{"pdtool"}, args...), "1.0.0")
	require.NoError(t, err)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	err = cobrau.ExecCommandAndCatchInterrupt(cmd)
	return out.String(), err
}

func TestSchemaCommands(t *testing.T) {
	testEnv(t, nil)

	out, err := execOut(t, "schema", "check")
	require.NoError(t, err)
	require.Equal(t, "6 leaves from 2 sources\n", out)

	out, err = execOut(t, "schema", "find", "score[1]")
	require.NoError(t, err)
	require.Equal(t, "identifier: score[Silver]\nkind: Int\nsources: <base>\naliases: score[1], score[Silver]\n", out)

	out, err = execOut(t, "schema", "find", "gold")
	require.NoError(t, err)
	require.Contains(t, out, "sources: modA\n")

	_, err = execOut(t, "schema", "find", "unknown")
	require.ErrorIs(t, err, pdef.ErrDefinitionNotFound)

	out, err = execOut(t, "schema", "dump")
	require.NoError(t, err)
	require.Contains(t, out, "// source: <base>\n")
	require.Contains(t, out, "// source: modA\nint gold")

	t.Run("Should report rejected mod", func(t *testing.T) {
		require := require.New(t)
		testEnv(t, map[string]string{"mods.yaml": `
base: base.pdef
mods:
  - name: modB
    pdiff: modB.pdiff
    enabled: true
`})
		out, err := execOut(t, "schema", "check")
		require.ErrorIs(err, pdef.ErrSchemaParse)
		require.Equal("5 leaves from 1 sources\n", out)
	})

	t.Run("Should use base flag without manifest", func(t *testing.T) {
		require := require.New(t)
		testEnv(t, map[string]string{"other.pdef": "bool flag"})
		out, err := execOut(t, "schema", "check", "--manifest", "missing.yaml", "--base", "other.pdef")
		require.NoError(err)
		require.Equal("1 leaves from 1 sources\n", out)
	})
}

func TestDataCommands(t *testing.T) {
	dir := testEnv(t, nil)
	file := filepath.Join(dir, "alice.nspdata")

	_, err := execOut(t, "data", "init", file)
	require.NoError(t, err)

	_, err = execOut(t, "data", "set", file, "score[1]", "12")
	require.NoError(t, err)
	_, err = execOut(t, "data", "set", file, "rank", "Silver")
	require.NoError(t, err)
	_, err = execOut(t, "data", "set", file, "title", "Sir")
	require.NoError(t, err)

	out, err := execOut(t, "data", "dump", file)
	require.NoError(t, err)
	require.Equal(t, `xp[0] = 0
rank[0] = Silver
score[Bronze] = 0
score[Silver] = 12
title[0] = "Sir"
gold[0] = 0
`, out)

	t.Run("Should reject invalid values", func(t *testing.T) {
		require := require.New(t)
		_, err := execOut(t, "data", "set", file, "rank", "Gold")
		require.ErrorIs(err, pdata.ErrInvalidEnumMember)
		_, err = execOut(t, "data", "set", file, "title", "much too long")
		require.ErrorIs(err, pdata.ErrCapacityExceeded)
	})

	t.Run("Should reject damaged file", func(t *testing.T) {
		require := require.New(t)
		damaged := filepath.Join(dir, "damaged.nspdata")
		require.NoError(os.WriteFile(damaged, []byte("not a data file at all, just some text"), 0o644))
		_, err := execOut(t, "data", "dump", damaged)
		require.ErrorIs(err, pdata.ErrFormat)
	})

	t.Run("Should init with defaults", func(t *testing.T) {
		require := require.New(t)
		defaults := filepath.Join(dir, "defaults.nspdata")
		_, err := execOut(t, "data", "init", "--defaults", defaults)
		require.NoError(err)
		inst, err := readDataFile(defaults)
		require.NoError(err)
		require.Len(inst.Variables, 6)
	})
}

func TestStoreCommands(t *testing.T) {
	dir := testEnv(t, nil)
	file := filepath.Join(dir, "bob.nspdata")

	_, err := execOut(t, "data", "init", file)
	require.NoError(t, err)
	_, err = execOut(t, "data", "set", file, "xp", "100")
	require.NoError(t, err)

	_, err = execOut(t, "store", "import", "--player", "bob", file)
	require.NoError(t, err)

	_, err = execOut(t, "store", "set", "-p", "bob", "gold", "5")
	require.NoError(t, err)

	out, err := execOut(t, "store", "get", "-p", "bob")
	require.NoError(t, err)
	require.Contains(t, out, "xp[0] = 100\n")
	require.Contains(t, out, "gold[0] = 5\n")

	out, err = execOut(t, "store", "list")
	require.NoError(t, err)
	require.Contains(t, out, "bob\t")

	exported := filepath.Join(dir, "exported.nspdata")
	_, err = execOut(t, "store", "export", "-p", "bob", exported)
	require.NoError(t, err)
	out, err = execOut(t, "data", "dump", exported)
	require.NoError(t, err)
	require.Contains(t, out, "gold[0] = 5\n")

	_, err = execOut(t, "store", "delete", "-p", "bob")
	require.NoError(t, err)
	_, err = execOut(t, "store", "export", "-p", "bob", exported)
	require.ErrorIs(t, err, ErrPlayerNotFound)

	t.Run("Should require player", func(t *testing.T) {
		require := require.New(t)
		_, err := execOut(t, "store", "get")
		require.ErrorIs(err, ErrPlayerRequired)
	})

	t.Run("Should reject damaged import", func(t *testing.T) {
		require := require.New(t)
		damaged := filepath.Join(dir, "damaged.nspdata")
		require.NoError(os.WriteFile(damaged, []byte("garbage garbage garbage garbage garbage"), 0o644))
		_, err := execOut(t, "store", "import", "-p", "carol", damaged)
		require.ErrorIs(err, pdata.ErrFormat)
	})
}

func TestVersion(t *testing.T) {
	require := require.New(t)
	out, err := execOut(t, "version")
	require.NoError(err)
	require.Equal("pdtool version 1.0.0\n", out)
}

func TestBadEnv(t *testing.T) {
	t.Setenv("PDTOOL_CACHE_BYTES", "many")
	_, err := prepareRootCmd([]string{"pdtool", "version"}, "1.0.0")
	require.Error(t, err)

	t.Setenv("PDTOOL_CACHE_BYTES", "1024")
	t.Setenv("PDTOOL_LOG_LEVEL", "loud")
	_, err = execOut(t, "version")
	require.Error(t, err)
}
