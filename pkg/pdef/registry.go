/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"fmt"
	"strings"
)

// TypeRegistry owns merged struct, enum and top-level variable declarations.
//
// Struct and enum declarations with the same identifier are concatenated,
// any other identifier reuse is a collision.
type TypeRegistry struct {
	types     map[string]*TypeDef
	typeOrder []string
	vars      map[string]*VarDef
	varOrder  []string
	sources   []string
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[string]*TypeDef),
		vars:  make(map[string]*VarDef),
	}
}

func (r *TypeRegistry) LookupType(name string) (*TypeDef, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Registers new type. Fails if identifier is used by primitive, type or top-level variable.
func (r *TypeRegistry) RegisterType(t *TypeDef) error {
	if err := r.checkFree(t.Name); err != nil {
		return err
	}
	r.types[t.Name] = t
	r.typeOrder = append(r.typeOrder, t.Name)
	return nil
}

func (r *TypeRegistry) LookupVar(name string) (*VarDef, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Registers top-level variable. Fails if identifier is used by primitive, type or other top-level variable.
func (r *TypeRegistry) RegisterVar(v *VarDef) error {
	if err := r.checkFree(v.Name); err != nil {
		return err
	}
	r.vars[v.Name] = v
	r.varOrder = append(r.varOrder, v.Name)
	return nil
}

// Returns types in registration order
func (r *TypeRegistry) Types() []*TypeDef {
	res := make([]*TypeDef, 0, len(r.typeOrder))
	for _, n := range r.typeOrder {
		res = append(res, r.types[n])
	}
	return res
}

// Returns top-level variables in registration order
func (r *TypeRegistry) Vars() []*VarDef {
	res := make([]*VarDef, 0, len(r.varOrder))
	for _, n := range r.varOrder {
		res = append(res, r.vars[n])
	}
	return res
}

// Returns loaded sources in load order
func (r *TypeRegistry) Sources() []string {
	return append([]string(nil), r.sources...)
}

func (r *TypeRegistry) checkFree(name string) error {
	if _, ok := primitiveKind(name); ok {
		return EnrichError(ErrDuplicateIdentifier, "«%s» is a primitive type name", name)
	}
	if t, ok := r.types[name]; ok {
		return EnrichError(ErrDuplicateIdentifier, "«%s» is already declared as %v", name, t.Kind)
	}
	if v, ok := r.vars[name]; ok {
		return EnrichError(ErrDuplicateIdentifier, "«%s» is already declared as variable by %s", name, sourceName(v.Source))
	}
	return nil
}

// Returns existing type of the requested kind or registers a new one
func (r *TypeRegistry) openType(name string, kind TypeDefKind) (*TypeDef, error) {
	if t, ok := r.types[name]; ok {
		if t.Kind != kind {
			return nil, EnrichError(ErrKindClash, "«%s» is already declared as %v", name, t.Kind)
		}
		return t, nil
	}
	t := &TypeDef{Kind: kind, Name: name}
	switch kind {
	case TypeDefKind_Struct:
		t.Struct = newStructDef()
	case TypeDefKind_Enum:
		t.Enum = &EnumDef{}
	}
	if err := r.RegisterType(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TypeRegistry) addSource(source string) {
	for _, s := range r.sources {
		if s == source {
			return
		}
	}
	r.sources = append(r.sources, source)
}

// Returns deep copy of registry. VarDefs are immutable after parse and are shared.
func (r *TypeRegistry) clone() *TypeRegistry {
	c := &TypeRegistry{
		types:     make(map[string]*TypeDef, len(r.types)),
		typeOrder: append([]string(nil), r.typeOrder...),
		vars:      make(map[string]*VarDef, len(r.vars)),
		varOrder:  append([]string(nil), r.varOrder...),
		sources:   append([]string(nil), r.sources...),
	}
	for n, t := range r.types {
		ct := &TypeDef{Kind: t.Kind, Name: t.Name}
		switch t.Kind {
		case TypeDefKind_Struct:
			ct.Struct = &StructDef{
				members: make(map[string]*VarDef, len(t.Struct.members)),
				order:   append([]string(nil), t.Struct.order...),
			}
			for mn, m := range t.Struct.members {
				ct.Struct.members[mn] = m
			}
		case TypeDefKind_Enum:
			ct.Enum = &EnumDef{Members: append([]EnumMember(nil), t.Enum.Members...)}
		}
		c.types[n] = ct
	}
	for n, v := range r.vars {
		c.vars[n] = v
	}
	return c
}

// Checks struct containment graph for cycles.
//
// Returns the member declaration that closes the first cycle found and the cycle path.
func (r *TypeRegistry) findCycle() (closing *VarDef, path string) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(r.types))
	stack := make([]string, 0)

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = grey
		stack = append(stack, name)
		for _, m := range r.types[name].Struct.Members() {
			t, ok := r.types[m.TypeName]
			if !ok || t.Kind != TypeDefKind_Struct {
				continue
			}
			switch color[t.Name] {
			case grey:
				closing = m
				for i, s := range stack {
					if s == t.Name {
						path = strings.Join(append(append([]string(nil), stack[i:]...), t.Name), " -> ")
						break
					}
				}
				return true
			case white:
				if visit(t.Name) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, n := range r.typeOrder {
		if r.types[n].Kind != TypeDefKind_Struct || color[n] != white {
			continue
		}
		if visit(n) {
			return closing, path
		}
	}
	return nil, ""
}

func (r *TypeRegistry) String() string {
	return fmt.Sprintf("registry: %d types, %d variables, %d sources", len(r.types), len(r.vars), len(r.sources))
}
