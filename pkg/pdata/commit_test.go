/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspersist/nspersist/pkg/pdef"
)

func reload(t *testing.T, inst *Instance, schema pdef.ISchema, enabled IEnabledSources) *Instance {
	data, err := inst.MarshalBinary()
	require.NoError(t, err)
	parsed, err := ParseFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = parsed.ProcessData(schema, enabled)
	require.NoError(t, err)
	return parsed
}

func TestCommitRoundTrip(t *testing.T) {
	schema := testSchema(t,
		pdef.SourceText{Source: "modA", Text: "string{16} tag\nfloat ratio"},
		pdef.SourceText{Source: "modB", Text: "$ENUM_START Rank\nGold\n$ENUM_END\nbool flag"},
	)
	enabled := Enabled("modA", "modB")

	inst := New()
	inst.AddPossibility("xp", "", IntValue(1))
	inst.AddPossibility("xp", "modA", IntValue(2))
	inst.AddPossibility("legacy", "", StringValue("kept"))
	inst.AddGroup([]string{"modA", "modB"}, map[string]Value{"rank": EnumValue("Gold"), "ratio": FloatValue(0.5)})
	_, err := inst.ProcessData(schema, enabled)
	require.NoError(t, err)

	require.NoError(t, inst.SetValue("tag", StringValue("hello")))
	require.NoError(t, inst.SetValue("score[Gold]", IntValue(77)))
	require.NoError(t, inst.SetValue("flag", BoolValue(true)))
	before := values(t, inst)

	inst.CommitChanges()
	after := reload(t, inst, schema, enabled)
	require.Equal(t, before, values(t, after))

	t.Run("unchanged values survive repeated cycles", func(t *testing.T) {
		require := require.New(t)
		again := reload(t, after, schema, enabled)
		require.Equal(before, values(t, again))
	})

	t.Run("edit of conditioned value stays conditioned", func(t *testing.T) {
		require := require.New(t)
		require.NoError(after.SetValue("xp", IntValue(50)))
		next := reload(t, after, schema, enabled)
		v, _ := next.GetValue("xp")
		require.Equal(IntValue(50), v)

		next = reload(t, after, schema, Enabled())
		v, _ = next.GetValue("xp")
		require.Equal(IntValue(1), v)
	})

	t.Run("edit of group member stays in group", func(t *testing.T) {
		require := require.New(t)
		require.NoError(after.SetValue("ratio", FloatValue(2)))
		next := reload(t, after, schema, enabled)
		v, _ := next.GetValue("ratio")
		require.Equal(FloatValue(2), v)
		require.Len(next.Groups, 1)
	})

	t.Run("unknown records are kept", func(t *testing.T) {
		require := require.New(t)
		i := after.findVariable("legacy")
		require.GreaterOrEqual(i, 0)
		v, err := after.load(after.Variables[i].Possibilities[0].Value)
		require.NoError(err)
		require.Equal(StringValue("kept"), v)
	})

	t.Run("values of disabled mod are kept", func(t *testing.T) {
		require := require.New(t)
		off := reload(t, after, schema, Enabled())
		off.CommitChanges()
		on := reload(t, off, schema, enabled)
		v, _ := on.GetValue("xp")
		require.Equal(IntValue(50), v)
	})
}

func TestCompactStrings(t *testing.T) {
	require := require.New(t)

	inst := New()
	inst.Strings = []string{"xp", "modA", "name", "modA", "orphan", "bob", "name", "bob"}
	inst.Variables = []Variable{
		{Name: 0, Kind: pdef.VarKind_Int, Possibilities: []Possibility{{Dependency: 3, Value: StoredInt(1)}}},
		{Name: 6, Kind: pdef.VarKind_String, Possibilities: []Possibility{
			{Dependency: NoDependency, Value: StoredString(5)},
			{Dependency: 1, Value: StoredString(7)},
		}},
	}
	inst.Groups = []Group{{Possibilities: []GroupPossibility{{
		Dependencies: []StrIdx{3, 1},
		Members:      []GroupMember{{Name: 2, Kind: pdef.VarKind_Enum, Value: StoredEnum(7)}},
	}}}}

	inst.CommitChanges()

	require.Equal([]string{"xp", "modA", "name", "bob"}, inst.Strings)
	require.NoError(inst.Validate())

	str := func(idx StrIdx) string {
		s, err := inst.String(idx)
		require.NoError(err)
		return s
	}
	require.Equal("modA", str(inst.Variables[0].Possibilities[0].Dependency))
	require.Equal("name", str(inst.Variables[1].Name))
	require.Equal(StoredString(3), inst.Variables[1].Possibilities[0].Value)
	require.Equal(StoredString(3), inst.Variables[1].Possibilities[1].Value)
	require.Equal([]StrIdx{1, 1}, inst.Groups[0].Possibilities[0].Dependencies)
	require.Equal(GroupMember{Name: 2, Kind: pdef.VarKind_Enum, Value: StoredEnum(3)}, inst.Groups[0].Possibilities[0].Members[0])
}

func TestCommitDedupe(t *testing.T) {
	require := require.New(t)

	schema := testSchema(t)
	inst := New()
	inst.AddPossibility("xp", "", IntValue(1))
	inst.Variables[0].Possibilities = append(inst.Variables[0].Possibilities, Possibility{Dependency: NoDependency, Value: StoredInt(2)})

	_, err := inst.ProcessData(schema, Enabled())
	require.NoError(err)
	require.NoError(inst.SetValue("xp", IntValue(3)))
	inst.CommitChanges()

	require.Equal([]Possibility{{Dependency: NoDependency, Value: StoredInt(3)}}, inst.Variables[0].Possibilities)
	require.Len(inst.Variables, len(schema.Definitions()))
}

func TestCommitResetGroupMember(t *testing.T) {
	require := require.New(t)
	schema := testSchema(t)

	inst := New()
	inst.AddPossibility("xp", "", IntValue(3))
	inst.AddGroup(nil, map[string]Value{"xp": StringValue("abc"), "rank": EnumValue("Silver")})
	resets, err := inst.ProcessData(schema, Enabled())
	require.NoError(err)
	require.Len(resets, 1)
	require.Equal("xp[0]", resets[0].Identifier)
	require.ErrorIs(resets[0].Err, ErrKindMismatch)

	require.NoError(inst.SetValue("xp", IntValue(7)))
	data, err := inst.MarshalBinary()
	require.NoError(err)

	m := inst.Groups[0].Possibilities[0].Members
	require.Len(m, 2)
	require.Equal(pdef.VarKind_Int, m[1].Kind)
	require.Equal(StoredInt(7), m[1].Value)

	parsed, err := ParseFile(bytes.NewReader(data))
	require.NoError(err)
	resets, err = parsed.ProcessData(schema, Enabled())
	require.NoError(err)
	require.Empty(resets)
	vv := values(t, parsed)
	require.Equal(IntValue(7), vv["xp[0]"])
	require.Equal(EnumValue("Silver"), vv["rank[0]"])
}

func TestCommitAliasRecord(t *testing.T) {
	require := require.New(t)
	schema := testSchema(t)

	inst := New()
	inst.AddPossibility("score[0]", "modA", IntValue(5))
	_, err := inst.ProcessData(schema, Enabled())
	require.NoError(err)

	plain := reload(t, inst, schema, Enabled())
	i, err := plain.GetInteger("score[Bronze]")
	require.NoError(err)
	require.Zero(i)
	require.NoError(plain.SetInteger("score[Silver]", 2))

	modded := reload(t, plain, schema, Enabled("modA"))
	vv := values(t, modded)
	require.Equal(IntValue(5), vv["score[Bronze]"])
	require.Equal(IntValue(2), vv["score[Silver]"])

	i = modded.findVariable("score[0]")
	require.GreaterOrEqual(i, 0)
	require.Equal([]Possibility{
		{Dependency: modded.Intern("modA"), Value: StoredInt(5)},
		{Dependency: NoDependency, Value: StoredInt(0)},
	}, modded.Variables[i].Possibilities)
	require.Negative(modded.findVariable("score[Bronze]"))
}

func TestCommitManyLeaves(t *testing.T) {
	require := require.New(t)
	schema := testSchema(t, pdef.SourceText{Source: "modA", Text: "int counter[2048]\nstring{8} tag[1024]"})
	defs := schema.Definitions()

	inst := New()
	_, err := inst.ProcessData(schema, Enabled("modA"))
	require.NoError(err)
	for i := 0; i < 1024; i++ {
		require.NoError(inst.SetValue(fmt.Sprintf("tag[%d]", i), StringValue(strconv.Itoa(i%16))))
		require.NoError(inst.SetInteger(fmt.Sprintf("counter[%d]", i), i))
	}
	inst.CommitChanges()
	require.Nil(inst.stringIndex)
	require.Len(inst.Variables, len(defs))
	require.NoError(inst.Validate())

	seen := make(map[string]bool, len(inst.Strings))
	for _, str := range inst.Strings {
		require.False(seen[str], str)
		seen[str] = true
	}

	again := reload(t, inst, schema, Enabled("modA"))
	require.Equal(values(t, inst), values(t, again))
	v, err := again.GetString("tag[17]")
	require.NoError(err)
	require.Equal("1", v)
}
