/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

// ISchema is a schema context: merged declarations from base schema and
// add-on diffs, flattened into leaf definitions by Finalise.
//
// Loading and finalising must not run concurrently with any other call.
// After Finalise the schema is read-only and safe for concurrent readers.
type ISchema interface {
	// Loads base schema text. Source is rejected as a whole on error,
	// declarations merged from previous sources are kept.
	// Returns ErrFinalised if schema is already finalised
	LoadBase(text string) error

	// Loads add-on diff text owned by source.
	LoadDiff(source, text string) error

	// Loads base and all diffs, continues past rejected sources.
	// Returned error joins errors of all rejected sources.
	LoadSources(base string, diffs []SourceText) error

	// Builds leaf catalog from merged declarations. Loads are rejected after finalisation.
	Finalise() error

	Finalised() bool

	// Drops all declarations and catalog, invalidates issued handles
	Clear()

	// Incremented by Clear
	Generation() uint64

	// Loaded sources in load order, base schema is empty string
	Sources() []string

	// Returns owned copy of leaf definition. Name may be any alias spelling.
	FindDefinition(name string) (PersistentVarDefinition, bool)

	// Returns canonical leaf identifier for alias spelling
	Canonical(name string) (string, bool)

	// Returns all spellings of the leaf, sorted
	Aliases(name string) []string

	// Returns owned copies of all leaves in catalog order
	Definitions() []PersistentVarDefinition

	// Returns handle valid until next Clear
	// Returns ErrNotFinalised, ErrDefinitionNotFound
	Lookup(name string) (Handle, error)

	// Returns ErrStaleHandle if schema was cleared since handle was issued
	Resolve(Handle) (PersistentVarDefinition, error)

	// Returns enum members in declaration order
	EnumMembers(enum string) ([]EnumMember, bool)

	// Renders merged declarations back to schema texts, one per source
	Dump() []SourceText
}
