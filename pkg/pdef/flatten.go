/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"strconv"
)

// catalog is the flat leaf table built by Finalise. Read-only once built.
type catalog struct {
	leaves  map[string]*PersistentVarDefinition
	order   []string
	aliases map[string]string
}

func newCatalog() *catalog {
	return &catalog{
		leaves:  make(map[string]*PersistentVarDefinition),
		aliases: make(map[string]string),
	}
}

func (c *catalog) find(name string) (*PersistentVarDefinition, bool) {
	id, ok := c.aliases[name]
	if !ok {
		return nil, false
	}
	return c.leaves[id], true
}

// prefix spellings accumulated from root: canonical one and all alternate ones
type prefixSet struct {
	canonical string
	spellings []string
}

// one element of a declaration: index spellings (canonical first)
type element struct {
	indices  []string
	implicit bool
	source   string
}

type flattener struct {
	reg   *TypeRegistry
	cat   *catalog
	stack []string
}

func flatten(reg *TypeRegistry) (*catalog, error) {
	f := flattener{reg: reg, cat: newCatalog()}
	root := prefixSet{spellings: []string{""}}
	for _, v := range reg.Vars() {
		if err := f.flattenVar(v, root, nil); err != nil {
			return nil, err
		}
	}
	return f.cat, nil
}

func (f *flattener) elements(v *VarDef) ([]element, error) {
	switch {
	case v.Array.Enum != "":
		t, ok := f.reg.LookupType(v.Array.Enum)
		if !ok || t.Kind != TypeDefKind_Enum {
			return nil, EnrichError(ErrInvalidArraySize, "«%s» of «%s» is not an enum", v.Array.Enum, v.Name)
		}
		res := make([]element, 0, len(t.Enum.Members))
		for i, m := range t.Enum.Members {
			res = append(res, element{indices: []string{m.Name, strconv.Itoa(i)}, source: m.Source})
		}
		return res, nil
	case v.Array.Count > 0:
		res := make([]element, 0, v.Array.Count)
		for i := 0; i < v.Array.Count; i++ {
			res = append(res, element{indices: []string{strconv.Itoa(i)}})
		}
		return res, nil
	}
	return []element{{indices: []string{implicitIndex}, implicit: true}}, nil
}

func appendDep(deps []string, source string) []string {
	if source == "" {
		return deps
	}
	for _, d := range deps {
		if d == source {
			return deps
		}
	}
	res := make([]string, len(deps), len(deps)+1)
	copy(res, deps)
	return append(res, source)
}

func (f *flattener) flattenVar(v *VarDef, prefix prefixSet, deps []string) error {
	elements, err := f.elements(v)
	if err != nil {
		return err
	}
	deps = appendDep(deps, v.Source)

	for _, el := range elements {
		segments := make([]string, 0, len(el.indices)+1)
		for _, idx := range el.indices {
			segments = append(segments, v.Name+"["+idx+"]")
		}
		if el.implicit {
			segments = append(segments, v.Name)
		}

		path := prefixSet{
			canonical: prefix.canonical + segments[0],
			spellings: make([]string, 0, len(prefix.spellings)*len(segments)),
		}
		for _, p := range prefix.spellings {
			for _, s := range segments {
				path.spellings = append(path.spellings, p+s)
			}
		}
		elDeps := appendDep(deps, el.source)

		if kind, ok := primitiveKind(v.TypeName); ok {
			leaf := &PersistentVarDefinition{Identifier: path.canonical, Kind: kind, Dependencies: elDeps}
			if kind == VarKind_String {
				leaf.Capacity = v.Capacity
				if leaf.Capacity == 0 {
					leaf.Capacity = DefaultStringCapacity
				}
			}
			if err := f.emit(leaf, path.spellings); err != nil {
				return err
			}
			continue
		}

		t, ok := f.reg.LookupType(v.TypeName)
		if !ok {
			return EnrichError(ErrUnknownType, "«%s» of «%s»", v.TypeName, path.canonical)
		}
		switch t.Kind {
		case TypeDefKind_Enum:
			leaf := &PersistentVarDefinition{Identifier: path.canonical, Kind: VarKind_Enum, Enum: t.Name, Dependencies: elDeps}
			leaf.EnumMembers = make([]string, 0, len(t.Enum.Members))
			for _, m := range t.Enum.Members {
				leaf.EnumMembers = append(leaf.EnumMembers, m.Name)
			}
			if err := f.emit(leaf, path.spellings); err != nil {
				return err
			}
		case TypeDefKind_Struct:
			if err := f.flattenStruct(t, path, elDeps); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *flattener) flattenStruct(t *TypeDef, path prefixSet, deps []string) error {
	for _, s := range f.stack {
		if s == t.Name {
			return EnrichError(ErrCircularType, "struct «%s» contains itself at «%s»", t.Name, path.canonical)
		}
	}
	f.stack = append(f.stack, t.Name)
	defer func() { f.stack = f.stack[:len(f.stack)-1] }()

	member := prefixSet{
		canonical: path.canonical + ".",
		spellings: make([]string, 0, len(path.spellings)),
	}
	for _, s := range path.spellings {
		member.spellings = append(member.spellings, s+".")
	}
	for _, m := range t.Struct.Members() {
		if err := f.flattenVar(m, member, deps); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) emit(leaf *PersistentVarDefinition, spellings []string) error {
	if _, ok := f.cat.leaves[leaf.Identifier]; ok {
		return EnrichError(ErrDuplicateIdentifier, "leaf «%s»", leaf.Identifier)
	}
	for _, s := range spellings {
		if id, ok := f.cat.aliases[s]; ok && id != leaf.Identifier {
			return EnrichError(ErrDuplicateIdentifier, "«%s» spells both «%s» and «%s»", s, id, leaf.Identifier)
		}
	}
	f.cat.leaves[leaf.Identifier] = leaf
	f.cat.order = append(f.cat.order, leaf.Identifier)
	for _, s := range spellings {
		f.cat.aliases[s] = leaf.Identifier
	}
	return nil
}
