/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"errors"
	"sort"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
)

type schemaContext struct {
	reg        *TypeRegistry
	cat        *catalog
	generation uint64
}

func newSchemaContext() *schemaContext {
	return &schemaContext{reg: NewTypeRegistry(), generation: 1}
}

func (s *schemaContext) LoadBase(text string) error {
	return s.load("", text)
}

func (s *schemaContext) LoadDiff(source, text string) error {
	if source == "" {
		return EnrichError(ErrInvalidIdentifier, "diff source name must not be empty")
	}
	return s.load(source, text)
}

func (s *schemaContext) LoadSources(base string, diffs []SourceText) error {
	errs := make([]error, 0)
	if err := s.LoadBase(base); err != nil {
		errs = append(errs, err)
	}
	for _, d := range diffs {
		if err := s.LoadDiff(d.Source, d.Text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Parses source into a staged copy of registry. Staged copy replaces
// registry only if whole source is accepted.
func (s *schemaContext) load(source, text string) error {
	if s.cat != nil {
		return EnrichError(ErrFinalised, "can not load %s", sourceName(source))
	}

	staged := s.reg.clone()
	err := parseSource(staged, source, text)
	if err == nil {
		if closing, path := staged.findCycle(); closing != nil {
			err = newParseError(closing.Source, closing.Line, closing.TypeName, EnrichError(ErrCircularType, "%s", path))
		}
	}
	if err != nil {
		logger.Error("schema source", sourceName(source), "rejected:", err)
		return err
	}
	staged.addSource(source)
	s.reg = staged

	if logger.IsVerbose() {
		logger.Verbose("schema source", sourceName(source), "loaded,", s.reg)
	}
	return nil
}

func (s *schemaContext) Finalise() error {
	cat, err := flatten(s.reg)
	if err != nil {
		return err
	}
	s.cat = cat
	logger.Info("schema finalised:", len(cat.order), "leaves from", len(s.reg.sources), "sources")
	return nil
}

func (s *schemaContext) Finalised() bool { return s.cat != nil }

func (s *schemaContext) Clear() {
	s.reg = NewTypeRegistry()
	s.cat = nil
	s.generation++
}

func (s *schemaContext) Generation() uint64 { return s.generation }

func (s *schemaContext) Sources() []string { return s.reg.Sources() }

func (s *schemaContext) FindDefinition(name string) (PersistentVarDefinition, bool) {
	if s.cat == nil {
		return PersistentVarDefinition{}, false
	}
	d, ok := s.cat.find(name)
	if !ok {
		return PersistentVarDefinition{}, false
	}
	return d.clone(), true
}

func (s *schemaContext) Canonical(name string) (string, bool) {
	if s.cat == nil {
		return "", false
	}
	id, ok := s.cat.aliases[name]
	return id, ok
}

func (s *schemaContext) Aliases(name string) []string {
	id, ok := s.Canonical(name)
	if !ok {
		return nil
	}
	res := make([]string, 0)
	for a, c := range s.cat.aliases {
		if c == id {
			res = append(res, a)
		}
	}
	sort.Strings(res)
	return res
}

func (s *schemaContext) Definitions() []PersistentVarDefinition {
	if s.cat == nil {
		return nil
	}
	res := make([]PersistentVarDefinition, 0, len(s.cat.order))
	for _, id := range s.cat.order {
		res = append(res, s.cat.leaves[id].clone())
	}
	return res
}

func (s *schemaContext) Lookup(name string) (Handle, error) {
	if s.cat == nil {
		return Handle{}, ErrNotFinalised
	}
	id, ok := s.cat.aliases[name]
	if !ok {
		return Handle{}, EnrichError(ErrDefinitionNotFound, "«%s»", name)
	}
	return Handle{generation: s.generation, identifier: id}, nil
}

func (s *schemaContext) Resolve(h Handle) (PersistentVarDefinition, error) {
	if h.generation != s.generation || s.cat == nil {
		return PersistentVarDefinition{}, EnrichError(ErrStaleHandle, "«%s» of generation %d", h.identifier, h.generation)
	}
	d, ok := s.cat.leaves[h.identifier]
	if !ok {
		return PersistentVarDefinition{}, EnrichError(ErrStaleHandle, "«%s»", h.identifier)
	}
	return d.clone(), nil
}

func (s *schemaContext) EnumMembers(enum string) ([]EnumMember, bool) {
	t, ok := s.reg.LookupType(enum)
	if !ok || t.Kind != TypeDefKind_Enum {
		return nil, false
	}
	return append([]EnumMember(nil), t.Enum.Members...), true
}

func (s *schemaContext) Dump() []SourceText {
	return dump(s.reg)
}
