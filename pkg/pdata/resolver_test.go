/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspersist/nspersist/pkg/pdef"
)

func testSchema(t *testing.T, diffs ...pdef.SourceText) pdef.ISchema {
	s := pdef.New()
	require.NoError(t, s.LoadSources(`
$ENUM_START Rank
	Bronze
	Silver
$ENUM_END
int xp
Rank rank
int score[Rank]
`, diffs))
	require.NoError(t, s.Finalise())
	return s
}

func values(t *testing.T, inst *Instance) map[string]Value {
	res := map[string]Value{}
	require.NoError(t, inst.Range(func(id string, v Value) bool {
		res[id] = v
		return true
	}))
	return res
}

func TestResolveEmptyBlob(t *testing.T) {
	require := require.New(t)

	inst, err := ParseFile(bytes.NewReader(nil))
	require.NoError(err)
	resets, err := inst.ProcessData(testSchema(t), Enabled())
	require.NoError(err)
	require.Empty(resets)

	require.Equal(map[string]Value{
		"xp[0]":         IntValue(0),
		"rank[0]":       EnumValue(""),
		"score[Bronze]": IntValue(0),
		"score[Silver]": IntValue(0),
	}, values(t, inst))
}

func TestResolveVariable(t *testing.T) {
	schema := testSchema(t, pdef.SourceText{Source: "modA", Text: "int gold"})

	inst := New()
	inst.AddPossibility("xp", "", IntValue(1))
	inst.AddPossibility("xp", "modA", IntValue(2))

	t.Run("mod disabled", func(t *testing.T) {
		require := require.New(t)
		_, err := inst.ProcessData(schema, Enabled())
		require.NoError(err)
		v, err := inst.GetValue("xp[0]")
		require.NoError(err)
		require.Equal(IntValue(1), v)
	})

	t.Run("mod enabled", func(t *testing.T) {
		require := require.New(t)
		_, err := inst.ProcessData(schema, Enabled("modA"))
		require.NoError(err)
		v, err := inst.GetValue("xp")
		require.NoError(err)
		require.Equal(IntValue(2), v)
	})

	t.Run("no valid possibility", func(t *testing.T) {
		require := require.New(t)
		inst := New()
		inst.AddPossibility("score[Silver]", "modB", IntValue(7))
		_, err := inst.ProcessData(schema, Enabled("modA"))
		require.NoError(err)
		i, err := inst.GetInteger("score[1]")
		require.NoError(err)
		require.Zero(i)
	})

	t.Run("first of equal possibilities wins", func(t *testing.T) {
		require := require.New(t)
		inst := New()
		inst.AddPossibility("xp", "modA", IntValue(5))
		inst.AddPossibility("xp", "modB", IntValue(6))
		_, err := inst.ProcessData(schema, Enabled("modA", "modB"))
		require.NoError(err)
		i, err := inst.GetInteger("xp")
		require.NoError(err)
		require.Equal(5, i)
	})
}

func TestResolveAliasRecords(t *testing.T) {
	schema := testSchema(t)

	t.Run("most specific possibility wins across records of leaf", func(t *testing.T) {
		require := require.New(t)
		inst := New()
		inst.AddPossibility("score[0]", "modA", IntValue(5))
		inst.AddPossibility("score[Bronze]", "", IntValue(1))

		_, err := inst.ProcessData(schema, Enabled("modA"))
		require.NoError(err)
		i, err := inst.GetInteger("score[Bronze]")
		require.NoError(err)
		require.Equal(5, i)

		_, err = inst.ProcessData(schema, Enabled())
		require.NoError(err)
		i, err = inst.GetInteger("score[1]")
		require.NoError(err)
		require.Zero(i)
		i, err = inst.GetInteger("score[0]")
		require.NoError(err)
		require.Equal(1, i)
	})

	t.Run("first record wins on equal scores", func(t *testing.T) {
		require := require.New(t)
		inst := New()
		inst.AddPossibility("xp[0]", "", IntValue(3))
		inst.AddPossibility("xp", "", IntValue(4))
		inst.AddPossibility("score[Silver]", "modB", IntValue(7))
		inst.AddPossibility("score[1]", "modA", IntValue(8))

		_, err := inst.ProcessData(schema, Enabled("modA", "modB"))
		require.NoError(err)
		vv := values(t, inst)
		require.Equal(IntValue(3), vv["xp[0]"])
		require.Equal(IntValue(7), vv["score[Silver]"])
	})
}

func TestResolveGroup(t *testing.T) {
	schema := testSchema(t)

	inst := New()
	inst.AddPossibility("xp", "", IntValue(1))
	inst.AddGroup([]string{"modA", "modB"}, map[string]Value{
		"xp":            IntValue(100),
		"score[Silver]": IntValue(3),
		"unknown":       BoolValue(true),
	})

	t.Run("partially enabled group contributes nothing", func(t *testing.T) {
		require := require.New(t)
		_, err := inst.ProcessData(schema, Enabled("modA"))
		require.NoError(err)
		vv := values(t, inst)
		require.Equal(IntValue(1), vv["xp[0]"])
		require.Equal(IntValue(0), vv["score[Silver]"])
	})

	t.Run("fully enabled group contributes all members", func(t *testing.T) {
		require := require.New(t)
		_, err := inst.ProcessData(schema, Enabled("modA", "modB"))
		require.NoError(err)
		vv := values(t, inst)
		require.Equal(IntValue(100), vv["xp[0]"])
		require.Equal(IntValue(3), vv["score[Silver]"])
		require.NotContains(vv, "unknown")
	})

	t.Run("most specific group possibility wins", func(t *testing.T) {
		require := require.New(t)
		inst := New()
		inst.AddGroup([]string{"modA"}, map[string]Value{"xp": IntValue(1)})
		inst.AddGroup([]string{"modA", "modB"}, map[string]Value{"score[Bronze]": IntValue(2)})
		inst.Groups[0].Possibilities = append(inst.Groups[0].Possibilities, inst.Groups[1].Possibilities[0])
		inst.Groups[0].Possibilities[1].Members = []GroupMember{{Name: inst.Intern("xp"), Kind: pdef.VarKind_Int, Value: StoredInt(9)}}
		inst.Groups = inst.Groups[:1]

		_, err := inst.ProcessData(schema, Enabled("modA", "modB"))
		require.NoError(err)
		i, err := inst.GetInteger("xp")
		require.NoError(err)
		require.Equal(9, i)
	})
}

func TestResolveResets(t *testing.T) {
	schema := testSchema(t, pdef.SourceText{Source: "modA", Text: "string{4} tag"})

	inst := New()
	inst.AddPossibility("xp", "", FloatValue(1.5))
	inst.AddPossibility("tag", "", StringValue("too long"))
	inst.AddPossibility("rank", "", EnumValue("Gold"))
	inst.AddPossibility("score[Bronze]", "", IntValue(4))

	resets, err := inst.ProcessData(schema, Enabled("modA"))
	require.NoError(t, err)
	require.Len(t, resets, 3)
	require.Equal(t, "xp[0]", resets[0].Identifier)
	require.ErrorIs(t, resets[0].Err, ErrKindMismatch)
	require.Equal(t, "rank[0]", resets[1].Identifier)
	require.ErrorIs(t, resets[1].Err, ErrInvalidEnumMember)
	require.Equal(t, "tag[0]", resets[2].Identifier)
	require.ErrorIs(t, resets[2].Err, ErrCapacityExceeded)

	vv := values(t, inst)
	require.Equal(t, IntValue(0), vv["xp[0]"])
	require.Equal(t, StringValue(""), vv["tag[0]"])
	require.Equal(t, EnumValue(""), vv["rank[0]"])
	require.Equal(t, IntValue(4), vv["score[Bronze]"])

	t.Run("commit rewrites reset variables with schema kind", func(t *testing.T) {
		require := require.New(t)
		inst.CommitChanges()
		xp := inst.Variables[inst.findVariable("xp")]
		require.Equal(pdef.VarKind_Int, xp.Kind)
		require.Equal([]Possibility{{Dependency: NoDependency, Value: StoredInt(0)}}, xp.Possibilities)
	})
}

func TestAccess(t *testing.T) {
	schema := testSchema(t, pdef.SourceText{Source: "modA", Text: "string{8} tag\nfloat ratio\nbool flag"})
	inst := New()

	_, err := inst.GetValue("xp")
	require.ErrorIs(t, err, ErrNotResolved)

	_, err = inst.ProcessData(schema, Enabled("modA"))
	require.NoError(t, err)

	require.NoError(t, inst.SetValue("xp", IntValue(42)))
	require.ErrorIs(t, inst.SetValue("xp", StringValue("42")), ErrKindMismatch)
	require.ErrorIs(t, inst.SetValue("tag", StringValue("123456789")), ErrCapacityExceeded)
	require.ErrorIs(t, inst.SetValue("rank", EnumValue("Gold")), ErrInvalidEnumMember)
	require.ErrorIs(t, inst.SetValue("nope", IntValue(1)), ErrUnknownVariable)

	require.NoError(t, inst.SetInteger("rank", 1))
	s, err := inst.GetString("rank")
	require.NoError(t, err)
	require.Equal(t, "Silver", s)
	i, err := inst.GetInteger("rank")
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.ErrorIs(t, inst.SetInteger("rank", 2), ErrInvalidEnumMember)

	require.NoError(t, inst.SetInteger("flag", 1))
	i, err = inst.GetInteger("flag")
	require.NoError(t, err)
	require.Equal(t, 1, i)
	b, err := inst.GetBool("flag")
	require.NoError(t, err)
	require.True(t, b)
	_, err = inst.GetBool("xp")
	require.ErrorIs(t, err, ErrKindMismatch)

	require.NoError(t, inst.SetValue("ratio", FloatValue(0.25)))
	f, err := inst.GetFloat("ratio")
	require.NoError(t, err)
	require.Equal(t, float32(0.25), f)

	_, err = inst.GetInteger("ratio")
	require.ErrorIs(t, err, ErrKindMismatch)
	require.ErrorIs(t, inst.SetInteger("tag", 1), ErrKindMismatch)

	def, _ := schema.FindDefinition("tag")
	v, err := ParseValue(def, "abc")
	require.NoError(t, err)
	require.Equal(t, StringValue("abc"), v)
	def, _ = schema.FindDefinition("xp")
	_, err = ParseValue(def, "x")
	require.Error(t, err)

	t.Run("schema cleared", func(t *testing.T) {
		require := require.New(t)
		schema.Clear()
		_, err := inst.GetValue("xp")
		require.ErrorIs(err, ErrSchemaChanged)
	})
}
