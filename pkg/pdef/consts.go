/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

// Schema text directives
const (
	directiveEnumStart   = "$ENUM_START"
	directiveEnumEnd     = "$ENUM_END"
	directiveStructStart = "$STRUCT_START"
	directiveStructEnd   = "$STRUCT_END"
)

// Primitive type names
const (
	typeInt    = "int"
	typeFloat  = "float"
	typeBool   = "bool"
	typeString = "string"
)

const commentPrefix = "//"

// Capacity used for string fields declared without {N}
const DefaultStringCapacity = 128

// Maximum length of an enum member identifier
const MaxEnumMemberLength = 56

// Index spelling used for fields without array size
const implicitIndex = "0"

// Source label printed for the base schema
const baseSourceName = "<base>"
