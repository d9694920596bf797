/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

// Creates and return new empty schema
func New() ISchema {
	return newSchemaContext()
}
