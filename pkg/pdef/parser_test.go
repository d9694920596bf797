/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_parseSource(t *testing.T) {
	require := require.New(t)

	reg := NewTypeRegistry()
	err := parseSource(reg, "", `
// player progress
$ENUM_START Rank
	Bronze
	Silver // comment after member
$ENUM_END

$STRUCT_START Stats
	int kills
	string{32} title
	float ratio[3]
$STRUCT_END

int xp
Rank rank
int score[Rank]
Stats stats
`)
	require.NoError(err)

	rank, ok := reg.LookupType("Rank")
	require.True(ok)
	require.Equal(TypeDefKind_Enum, rank.Kind)
	require.Equal([]EnumMember{{Name: "Bronze"}, {Name: "Silver"}}, rank.Enum.Members)

	stats, ok := reg.LookupType("Stats")
	require.True(ok)
	require.Equal(TypeDefKind_Struct, stats.Kind)
	require.Len(stats.Struct.Members(), 3)

	title, ok := stats.Struct.Member("title")
	require.True(ok)
	require.Equal(32, title.Capacity)
	require.Equal("string{32} title", title.String())

	ratio, _ := stats.Struct.Member("ratio")
	require.Equal(ArraySize{Count: 3}, ratio.Array)

	vars := reg.Vars()
	require.Len(vars, 4)
	require.Equal("xp", vars[0].Name)
	require.Equal("int score[Rank]", vars[2].String())
	require.Equal(16, vars[2].Line)
}

func Test_parseSourceErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		rule  error
		line  int
		token string
	}{
		{"unknown type", "Foo bar", ErrUnknownType, 1, "Foo"},
		{"missing identifier", "int", ErrSchemaParse, 1, ""},
		{"space before size", "int xp [3]", ErrSchemaParse, 1, "[3]"},
		{"zero array size", "int xp[0]", ErrInvalidArraySize, 1, "xp"},
		{"size is not enum", "int a\nint xp[a]", ErrInvalidArraySize, 2, "a"},
		{"zero capacity", "string{0} name", ErrSchemaParse, 1, "string"},
		{"duplicate var", "int xp\nfloat xp", ErrDuplicateIdentifier, 2, "xp"},
		{"var named as primitive", "int string", ErrDuplicateIdentifier, 1, "string"},
		{"nested block", "$STRUCT_START A\n$ENUM_START E", ErrNestedBlock, 2, "$ENUM_START"},
		{"unexpected end", "$ENUM_END", ErrUnexpectedBlockEnd, 1, "$ENUM_END"},
		{"mismatched end", "$ENUM_START E\nX\n$STRUCT_END", ErrUnexpectedBlockEnd, 3, "$STRUCT_END"},
		{"empty enum", "$ENUM_START E\n$ENUM_END", ErrEmptyBlock, 2, "$ENUM_END"},
		{"empty struct", "$STRUCT_START S\n$STRUCT_END", ErrEmptyBlock, 2, "$STRUCT_END"},
		{"unterminated", "$STRUCT_START S\nint a", ErrUnterminatedBlock, 1, "S"},
		{"block without name", "$ENUM_START", ErrSchemaParse, 1, "$ENUM_START"},
		{"unknown directive", "$TABLE_START T", ErrSchemaParse, 1, "$TABLE_START"},
		{"duplicate enum member", "$ENUM_START E\nA\nA\n$ENUM_END", ErrDuplicateIdentifier, 3, "A"},
		{"duplicate struct field", "$STRUCT_START S\nint a\nbool a\n$STRUCT_END", ErrDuplicateIdentifier, 3, "a"},
		{"long enum member", "$ENUM_START E\n" + strings.Repeat("m", MaxEnumMemberLength+1) + "\n$ENUM_END", ErrInvalidIdentifier, 2, ""},
		{"kind clash", "$ENUM_START A\nX\n$ENUM_END\n$STRUCT_START A\nint a\n$STRUCT_END", ErrKindClash, 4, "A"},
		{"type clashes with var", "int A\n$ENUM_START A\nX\n$ENUM_END", ErrDuplicateIdentifier, 2, "A"},
		{"bad enum member", "$ENUM_START E\nint a\n$ENUM_END", ErrSchemaParse, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			err := parseSource(NewTypeRegistry(), "modA", tt.text)
			require.ErrorIs(err, ErrSchemaParse)
			require.ErrorIs(err, tt.rule)

			var perr *ParseError
			require.True(errors.As(err, &perr))
			require.Equal("modA", perr.Source)
			require.Equal(tt.line, perr.Line)
			if tt.token != "" {
				require.Equal(tt.token, perr.Token)
			}
			require.Contains(err.Error(), "modA:")
		})
	}
}

func Test_parseSourceMerge(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, parseSource(reg, "", "$ENUM_START E\nA\n$ENUM_END\n$STRUCT_START S\nint a\n$STRUCT_END"))
	require.NoError(t, parseSource(reg, "modA", "$ENUM_START E\nB\n$ENUM_END\n$STRUCT_START S\nE b\n$STRUCT_END"))

	e, _ := reg.LookupType("E")
	require.Equal(t, []EnumMember{{Name: "A"}, {Name: "B", Source: "modA"}}, e.Enum.Members)

	s, _ := reg.LookupType("S")
	b, ok := s.Struct.Member("b")
	require.True(t, ok)
	require.Equal(t, "modA", b.Source)

	t.Run("duplicate member reports first declarer", func(t *testing.T) {
		require := require.New(t)
		err := parseSource(reg, "modB", "$ENUM_START E\nB\n$ENUM_END")
		require.ErrorIs(err, ErrDuplicateIdentifier)
		require.Contains(err.Error(), "first declared by modA")

		err = parseSource(reg, "modB", "$STRUCT_START S\nfloat a\n$STRUCT_END")
		require.ErrorIs(err, ErrDuplicateIdentifier)
		require.Contains(err.Error(), "first declared by "+baseSourceName)
	})
}

func Test_findCycle(t *testing.T) {
	require := require.New(t)

	reg := NewTypeRegistry()
	require.NoError(parseSource(reg, "", "$STRUCT_START A\nint x\n$STRUCT_END\n$STRUCT_START B\nA a\n$STRUCT_END"))
	closing, _ := reg.findCycle()
	require.Nil(closing)

	require.NoError(parseSource(reg, "modA", "$STRUCT_START A\nB b\n$STRUCT_END"))
	closing, path := reg.findCycle()
	require.NotNil(closing)
	require.Equal("A -> B -> A", path)
}
