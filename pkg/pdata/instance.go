/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"fmt"

	"github.com/nspersist/nspersist/pkg/pdef"
)

// Index into instance string table
type StrIdx uint32

// Dependency of unconditional possibility
const NoDependency StrIdx = 0xFFFFFFFF

// Possibility is a stored value conditioned on at most one dependency
type Possibility struct {
	Dependency StrIdx
	Value      Stored
}

// Variable is a stored leaf with its possible values.
//
// At most one possibility has NoDependency.
type Variable struct {
	Name          StrIdx
	Kind          pdef.VarKind
	Possibilities []Possibility
}

type GroupMember struct {
	Name  StrIdx
	Kind  pdef.VarKind
	Value Stored
}

// GroupPossibility is valid only if all dependencies are enabled
type GroupPossibility struct {
	Dependencies []StrIdx
	Members      []GroupMember
}

type Group struct {
	Possibilities []GroupPossibility
}

// Instance is one player's persistent data.
//
// Instance is not safe for concurrent use.
type Instance struct {
	Strings   []string
	Variables []Variable
	Groups    []Group

	schema   pdef.ISchema
	resolved *resolvedValues
	// string lookup while committing
	stringIndex map[string]StrIdx
}

// Creates empty instance, equal to zero-length blob
func New() *Instance {
	return &Instance{}
}

// Returns string at index
func (inst *Instance) String(idx StrIdx) (string, error) {
	if int64(idx) >= int64(len(inst.Strings)) {
		return "", fmt.Errorf("%w: string index %d out of range %d", ErrFormat, idx, len(inst.Strings))
	}
	return inst.Strings[idx], nil
}

// Returns index of string, appends string to table if absent
func (inst *Instance) Intern(s string) StrIdx {
	if inst.stringIndex != nil {
		if i, ok := inst.stringIndex[s]; ok {
			return i
		}
		inst.Strings = append(inst.Strings, s)
		inst.stringIndex[s] = StrIdx(len(inst.Strings) - 1)
		return StrIdx(len(inst.Strings) - 1)
	}
	for i, str := range inst.Strings {
		if str == s {
			return StrIdx(i)
		}
	}
	inst.Strings = append(inst.Strings, s)
	return StrIdx(len(inst.Strings) - 1)
}

// Returns index of variable with name, or -1
func (inst *Instance) findVariable(name string) int {
	for i, v := range inst.Variables {
		if int(v.Name) < len(inst.Strings) && inst.Strings[v.Name] == name {
			return i
		}
	}
	return -1
}

// Adds unconditional or conditioned possibility for variable, creating variable if absent.
//
// Replaces value of existing possibility with the same dependency.
func (inst *Instance) AddPossibility(name, dependency string, v Value) {
	i := inst.findVariable(name)
	if i < 0 {
		inst.Variables = append(inst.Variables, Variable{Name: inst.Intern(name), Kind: v.Kind()})
		i = len(inst.Variables) - 1
	}
	dep := NoDependency
	if dependency != "" {
		dep = inst.Intern(dependency)
	}
	variable := &inst.Variables[i]
	stored := inst.store(v)
	for p := range variable.Possibilities {
		if variable.Possibilities[p].Dependency == dep {
			variable.Possibilities[p].Value = stored
			return
		}
	}
	variable.Possibilities = append(variable.Possibilities, Possibility{Dependency: dep, Value: stored})
}

// Adds group possibility, valid if all dependencies are enabled
func (inst *Instance) AddGroup(dependencies []string, members map[string]Value) {
	gp := GroupPossibility{}
	for _, d := range dependencies {
		gp.Dependencies = append(gp.Dependencies, inst.Intern(d))
	}
	for _, name := range sortedKeys(members) {
		v := members[name]
		gp.Members = append(gp.Members, GroupMember{Name: inst.Intern(name), Kind: v.Kind(), Value: inst.store(v)})
	}
	inst.Groups = append(inst.Groups, Group{Possibilities: []GroupPossibility{gp}})
}

func (inst *Instance) store(v Value) Stored {
	switch v := v.(type) {
	case BoolValue:
		return StoredBool(v)
	case IntValue:
		return StoredInt(v)
	case FloatValue:
		return StoredFloat(v)
	case StringValue:
		return StoredString(inst.Intern(string(v)))
	case EnumValue:
		return StoredEnum(inst.Intern(string(v)))
	}
	panic(fmt.Sprintf("unsupported value type %T", v))
}

func (inst *Instance) load(s Stored) (Value, error) {
	switch s := s.(type) {
	case StoredBool:
		return BoolValue(s), nil
	case StoredInt:
		return IntValue(s), nil
	case StoredFloat:
		return FloatValue(s), nil
	case StoredString:
		str, err := inst.String(StrIdx(s))
		return StringValue(str), err
	case StoredEnum:
		str, err := inst.String(StrIdx(s))
		return EnumValue(str), err
	}
	return nil, fmt.Errorf("%w: unsupported stored value %T", ErrFormat, s)
}
