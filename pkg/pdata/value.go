/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nspersist/nspersist/pkg/pdef"
)

// Value is a live leaf value.
//
// Implemented by BoolValue, IntValue, FloatValue, StringValue and EnumValue only.
type Value interface {
	Kind() pdef.VarKind
	String() string
	isValue()
}

type BoolValue bool

type IntValue int32

type FloatValue float32

type StringValue string

// Enum member name. Empty name is the unset value.
type EnumValue string

func (BoolValue) Kind() pdef.VarKind   { return pdef.VarKind_Bool }
func (IntValue) Kind() pdef.VarKind    { return pdef.VarKind_Int }
func (FloatValue) Kind() pdef.VarKind  { return pdef.VarKind_Float }
func (StringValue) Kind() pdef.VarKind { return pdef.VarKind_String }
func (EnumValue) Kind() pdef.VarKind   { return pdef.VarKind_Enum }

func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }
func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v StringValue) String() string { return string(v) }
func (v EnumValue) String() string   { return string(v) }

func (BoolValue) isValue()   {}
func (IntValue) isValue()    {}
func (FloatValue) isValue()  {}
func (StringValue) isValue() {}
func (EnumValue) isValue()   {}

// Returns zero value for leaf kind
func ZeroValue(kind pdef.VarKind) Value {
	switch kind {
	case pdef.VarKind_Int:
		return IntValue(0)
	case pdef.VarKind_Float:
		return FloatValue(0)
	case pdef.VarKind_Bool:
		return BoolValue(false)
	case pdef.VarKind_String:
		return StringValue("")
	case pdef.VarKind_Enum:
		return EnumValue("")
	}
	return nil
}

// Parses value text for leaf definition
func ParseValue(def pdef.PersistentVarDefinition, text string) (Value, error) {
	var v Value
	switch def.Kind {
	case pdef.VarKind_Int:
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, err
		}
		v = IntValue(i)
	case pdef.VarKind_Float:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, err
		}
		v = FloatValue(f)
	case pdef.VarKind_Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, err
		}
		v = BoolValue(b)
	case pdef.VarKind_String:
		v = StringValue(text)
	case pdef.VarKind_Enum:
		v = EnumValue(text)
	default:
		return nil, fmt.Errorf("%w: «%s» has unsupported kind %v", ErrKindMismatch, def.Identifier, def.Kind)
	}
	return v, validateValue(def, v)
}

// Checks value fits leaf definition
func validateValue(def pdef.PersistentVarDefinition, v Value) error {
	if v == nil || v.Kind() != def.Kind {
		return fmt.Errorf("%w: «%s» is %v, not %v", ErrKindMismatch, def.Identifier, def.Kind.TrimString(), valueKindName(v))
	}
	switch v := v.(type) {
	case StringValue:
		if len(v) > def.Capacity {
			return fmt.Errorf("%w: «%s» holds %d bytes, value has %d", ErrCapacityExceeded, def.Identifier, def.Capacity, len(v))
		}
	case EnumValue:
		if v != "" && def.EnumIndex(string(v)) < 0 {
			return fmt.Errorf("%w: «%s» is not a member of «%s»", ErrInvalidEnumMember, v, def.Enum)
		}
	}
	return nil
}

func valueKindName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().TrimString()
}

// Returns value as integer. Enum value is member ordinal, unset enum is 0
func AsInteger(def pdef.PersistentVarDefinition, v Value) (int, bool) {
	switch v := v.(type) {
	case IntValue:
		return int(v), true
	case BoolValue:
		if v {
			return 1, true
		}
		return 0, true
	case EnumValue:
		if v == "" {
			return 0, true
		}
		if idx := def.EnumIndex(string(v)); idx >= 0 {
			return idx, true
		}
	}
	return 0, false
}

// Stored is a value as kept in nspdata: 4-byte payload of the kind
type Stored interface {
	Kind() pdef.VarKind
	raw() uint32
}

type StoredBool bool

type StoredInt int32

type StoredFloat float32

type StoredString StrIdx

type StoredEnum StrIdx

func (StoredBool) Kind() pdef.VarKind   { return pdef.VarKind_Bool }
func (StoredInt) Kind() pdef.VarKind    { return pdef.VarKind_Int }
func (StoredFloat) Kind() pdef.VarKind  { return pdef.VarKind_Float }
func (StoredString) Kind() pdef.VarKind { return pdef.VarKind_String }
func (StoredEnum) Kind() pdef.VarKind   { return pdef.VarKind_Enum }

func (s StoredBool) raw() uint32 {
	if s {
		return 1
	}
	return 0
}
func (s StoredInt) raw() uint32    { return uint32(s) }
func (s StoredFloat) raw() uint32  { return math.Float32bits(float32(s)) }
func (s StoredString) raw() uint32 { return uint32(s) }
func (s StoredEnum) raw() uint32   { return uint32(s) }

// Returns string table index held by stored value
func storedStrIdx(s Stored) (StrIdx, bool) {
	switch s := s.(type) {
	case StoredString:
		return StrIdx(s), true
	case StoredEnum:
		return StrIdx(s), true
	}
	return 0, false
}

func withStrIdx(s Stored, idx StrIdx) Stored {
	switch s.(type) {
	case StoredString:
		return StoredString(idx)
	case StoredEnum:
		return StoredEnum(idx)
	}
	return s
}

func storedFromRaw(kind pdef.VarKind, raw uint32) (Stored, bool) {
	switch kind {
	case pdef.VarKind_Int:
		return StoredInt(int32(raw)), true
	case pdef.VarKind_Float:
		return StoredFloat(math.Float32frombits(raw)), true
	case pdef.VarKind_Bool:
		return StoredBool(raw != 0), true
	case pdef.VarKind_String:
		return StoredString(raw), true
	case pdef.VarKind_Enum:
		return StoredEnum(raw), true
	}
	return nil, false
}
