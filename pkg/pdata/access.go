/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"fmt"

	"github.com/nspersist/nspersist/pkg/pdef"
)

func (inst *Instance) definition(name string) (pdef.PersistentVarDefinition, *resolvedValue, error) {
	rv := inst.resolved
	if rv == nil {
		return pdef.PersistentVarDefinition{}, nil, ErrNotResolved
	}
	if !inst.schema.Finalised() || inst.schema.Generation() != rv.generation {
		return pdef.PersistentVarDefinition{}, nil, ErrSchemaChanged
	}
	def, ok := inst.schema.FindDefinition(name)
	if !ok {
		return def, nil, fmt.Errorf("%w: «%s»", ErrUnknownVariable, name)
	}
	return def, rv.values[def.Identifier], nil
}

// Returns resolved value of leaf. Name may be any alias spelling.
func (inst *Instance) GetValue(name string) (Value, error) {
	_, v, err := inst.definition(name)
	if err != nil {
		return nil, err
	}
	return v.value, nil
}

// Replaces resolved value of leaf. Value must match leaf kind, capacity and enum.
func (inst *Instance) SetValue(name string, value Value) error {
	def, v, err := inst.definition(name)
	if err != nil {
		return err
	}
	if err := validateValue(def, value); err != nil {
		return err
	}
	v.value = value
	return nil
}

// Returns value of int, bool or enum leaf as integer
func (inst *Instance) GetInteger(name string) (int, error) {
	def, v, err := inst.definition(name)
	if err != nil {
		return 0, err
	}
	if !def.Kind.IsValidAsInteger() {
		return 0, fmt.Errorf("%w: «%s» is %v", ErrKindMismatch, def.Identifier, def.Kind.TrimString())
	}
	i, ok := AsInteger(def, v.value)
	if !ok {
		return 0, fmt.Errorf("%w: «%s» value «%v» is not an integer", ErrKindMismatch, def.Identifier, v.value)
	}
	return i, nil
}

// Sets int, bool or enum leaf from integer. Enum is set by member ordinal.
func (inst *Instance) SetInteger(name string, i int) error {
	def, _, err := inst.definition(name)
	if err != nil {
		return err
	}
	var value Value
	switch def.Kind {
	case pdef.VarKind_Int:
		value = IntValue(i)
	case pdef.VarKind_Bool:
		value = BoolValue(i != 0)
	case pdef.VarKind_Enum:
		if i < 0 || i >= len(def.EnumMembers) {
			return fmt.Errorf("%w: «%s» has no member %d", ErrInvalidEnumMember, def.Enum, i)
		}
		value = EnumValue(def.EnumMembers[i])
	default:
		return fmt.Errorf("%w: «%s» is %v", ErrKindMismatch, def.Identifier, def.Kind.TrimString())
	}
	return inst.SetValue(name, value)
}

func (inst *Instance) GetBool(name string) (bool, error) {
	v, err := inst.GetValue(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: «%s» is %v", ErrKindMismatch, name, v.Kind().TrimString())
	}
	return bool(b), nil
}

func (inst *Instance) GetFloat(name string) (float32, error) {
	v, err := inst.GetValue(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(FloatValue)
	if !ok {
		return 0, fmt.Errorf("%w: «%s» is %v", ErrKindMismatch, name, v.Kind().TrimString())
	}
	return float32(f), nil
}

func (inst *Instance) GetString(name string) (string, error) {
	v, err := inst.GetValue(name)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case StringValue:
		return string(v), nil
	case EnumValue:
		return string(v), nil
	}
	return "", fmt.Errorf("%w: «%s» is %v", ErrKindMismatch, name, v.Kind().TrimString())
}

// Calls cb for every resolved leaf in schema order
func (inst *Instance) Range(cb func(identifier string, value Value) bool) error {
	if inst.resolved == nil {
		return ErrNotResolved
	}
	for _, id := range inst.resolved.order {
		if !cb(id, inst.resolved.values[id].value) {
			break
		}
	}
	return nil
}
