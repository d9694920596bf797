/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"strings"
)

// Renders registry back to schema texts, one per loaded source in load order.
//
// Each text holds only declarations owned by its source, so loading texts
// in the same order reproduces the registry.
func dump(reg *TypeRegistry) []SourceText {
	structs := structsInDependencyOrder(reg)
	res := make([]SourceText, 0, len(reg.sources))
	for _, src := range reg.sources {
		var b strings.Builder

		for _, t := range reg.Types() {
			if t.Kind != TypeDefKind_Enum {
				continue
			}
			members := make([]string, 0)
			for _, m := range t.Enum.Members {
				if m.Source == src {
					members = append(members, m.Name)
				}
			}
			if len(members) == 0 {
				continue
			}
			b.WriteString(directiveEnumStart + " " + t.Name + "\n")
			for _, m := range members {
				b.WriteString("\t" + m + "\n")
			}
			b.WriteString(directiveEnumEnd + "\n")
		}

		for _, t := range structs {
			fields := make([]*VarDef, 0)
			for _, m := range t.Struct.Members() {
				if m.Source == src {
					fields = append(fields, m)
				}
			}
			if len(fields) == 0 {
				continue
			}
			b.WriteString(directiveStructStart + " " + t.Name + "\n")
			for _, f := range fields {
				b.WriteString("\t" + f.String() + "\n")
			}
			b.WriteString(directiveStructEnd + "\n")
		}

		for _, v := range reg.Vars() {
			if v.Source == src {
				b.WriteString(v.String() + "\n")
			}
		}

		res = append(res, SourceText{Source: src, Text: b.String()})
	}
	return res
}

// Returns structs ordered so that every struct follows the structs it contains
func structsInDependencyOrder(reg *TypeRegistry) []*TypeDef {
	res := make([]*TypeDef, 0)
	visited := make(map[string]bool)

	var visit func(t *TypeDef)
	visit = func(t *TypeDef) {
		if visited[t.Name] {
			return
		}
		visited[t.Name] = true
		for _, m := range t.Struct.Members() {
			if mt, ok := reg.LookupType(m.TypeName); ok && mt.Kind == TypeDefKind_Struct {
				visit(mt)
			}
		}
		res = append(res, t)
	}

	for _, t := range reg.Types() {
		if t.Kind == TypeDefKind_Struct {
			visit(t)
		}
	}
	return res
}
