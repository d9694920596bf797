/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"strconv"
	"strings"
)

// Kind of a flattened leaf value.
//
// Numeric values are stored in nspdata files as int32 tags and must not be changed.
type VarKind int32

//go:generate stringer -type=VarKind -output=varkind_string.go

const (
	VarKind_Int VarKind = iota
	VarKind_Float
	VarKind_Bool
	VarKind_String
	VarKind_Enum

	VarKind_FakeLast
)

func (k VarKind) IsValid() bool {
	return k >= VarKind_Int && k < VarKind_FakeLast
}

// Returns is value of this kind may be read as integer
func (k VarKind) IsValidAsInteger() bool {
	switch k {
	case VarKind_Int, VarKind_Bool, VarKind_Enum:
		return true
	}
	return false
}

func (k VarKind) MarshalText() ([]byte, error) {
	var s string
	if k.IsValid() {
		s = k.String()
	} else {
		s = strconv.FormatInt(int64(k), 10)
	}
	return []byte(s), nil
}

// Renders a VarKind in human-readable form, without `VarKind_` prefix,
// suitable for debugging or error messages
func (k VarKind) TrimString() string {
	const pref = "VarKind_"
	return strings.TrimPrefix(k.String(), pref)
}

// Returns VarKind for primitive type name
func primitiveKind(typeName string) (VarKind, bool) {
	switch typeName {
	case typeInt:
		return VarKind_Int, true
	case typeFloat:
		return VarKind_Float, true
	case typeBool:
		return VarKind_Bool, true
	case typeString:
		return VarKind_String, true
	}
	return VarKind_FakeLast, false
}

type TypeDefKind uint8

const (
	TypeDefKind_null TypeDefKind = iota
	TypeDefKind_Struct
	TypeDefKind_Enum
)

func (k TypeDefKind) String() string {
	switch k {
	case TypeDefKind_Struct:
		return "struct"
	case TypeDefKind_Enum:
		return "enum"
	}
	return "null"
}

// TypeDef is a named struct or enum declaration.
//
// Exactly one of Struct and Enum is set, according to Kind.
type TypeDef struct {
	Kind   TypeDefKind
	Name   string
	Struct *StructDef
	Enum   *EnumDef
}

type StructDef struct {
	members map[string]*VarDef
	order   []string
}

func newStructDef() *StructDef {
	return &StructDef{members: make(map[string]*VarDef)}
}

// Returns struct member by identifier
func (s *StructDef) Member(name string) (*VarDef, bool) {
	m, ok := s.members[name]
	return m, ok
}

// Returns struct members in declaration order
func (s *StructDef) Members() []*VarDef {
	res := make([]*VarDef, 0, len(s.order))
	for _, n := range s.order {
		res = append(res, s.members[n])
	}
	return res
}

func (s *StructDef) add(v *VarDef) {
	s.members[v.Name] = v
	s.order = append(s.order, v.Name)
}

type EnumMember struct {
	Name   string
	Source string
}

type EnumDef struct {
	Members []EnumMember
}

// Returns member ordinal or -1 if enum has no such member
func (e *EnumDef) Index(member string) int {
	for i, m := range e.Members {
		if m.Name == member {
			return i
		}
	}
	return -1
}

// Logical array size of a declaration. Zero value means «not an array».
type ArraySize struct {
	Count int
	Enum  string
}

func (a ArraySize) IsArray() bool { return a.Count > 0 || a.Enum != "" }

func (a ArraySize) String() string {
	if a.Enum != "" {
		return a.Enum
	}
	if a.Count > 0 {
		return strconv.Itoa(a.Count)
	}
	return ""
}

// VarDef is a raw, unflattened variable declaration
type VarDef struct {
	TypeName string
	Capacity int
	Name     string
	Array    ArraySize
	Source   string
	Line     int
}

// Returns declaration in schema text form
func (v *VarDef) String() string {
	var b strings.Builder
	b.WriteString(v.TypeName)
	if v.Capacity > 0 {
		b.WriteString("{")
		b.WriteString(strconv.Itoa(v.Capacity))
		b.WriteString("}")
	}
	b.WriteString(" ")
	b.WriteString(v.Name)
	if v.Array.IsArray() {
		b.WriteString("[")
		b.WriteString(v.Array.String())
		b.WriteString("]")
	}
	return b.String()
}

// PersistentVarDefinition is a flattened leaf variable.
//
// Values returned by SchemaContext are owned copies and stay valid after
// the context is cleared.
type PersistentVarDefinition struct {
	Identifier   string
	Kind         VarKind
	Capacity     int
	Enum         string
	EnumMembers  []string
	Dependencies []string
}

// Returns is leaf declared by base schema only
func (d PersistentVarDefinition) IsBase() bool { return len(d.Dependencies) == 0 }

// Returns enum member ordinal or -1
func (d PersistentVarDefinition) EnumIndex(member string) int {
	for i, m := range d.EnumMembers {
		if m == member {
			return i
		}
	}
	return -1
}

func (d PersistentVarDefinition) clone() PersistentVarDefinition {
	res := d
	if d.EnumMembers != nil {
		res.EnumMembers = append([]string(nil), d.EnumMembers...)
	}
	if d.Dependencies != nil {
		res.Dependencies = append([]string(nil), d.Dependencies...)
	}
	return res
}

// Handle refers to a leaf of a particular schema generation
type Handle struct {
	generation uint64
	identifier string
}

func (h Handle) Identifier() string { return h.identifier }

// SourceText is a named schema text. Empty Source is the base schema.
type SourceText struct {
	Source string
	Text   string
}
