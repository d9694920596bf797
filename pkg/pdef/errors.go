/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"errors"
	"fmt"
)

func EnrichError(err error, msg string, args ...any) error {
	s := msg
	if len(args) > 0 {
		s = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", err, s)
}

var ErrSchemaParse = errors.New("schema parse error")

var ErrUnknownType = errors.New("unknown type")

var ErrDuplicateIdentifier = errors.New("duplicate identifier")

var ErrKindClash = errors.New("struct and enum kind clash")

var ErrCircularType = errors.New("circular type reference")

var ErrInvalidIdentifier = errors.New("invalid identifier")

var ErrInvalidArraySize = errors.New("invalid array size")

var ErrEmptyBlock = errors.New("empty block")

var ErrUnterminatedBlock = errors.New("unterminated block")

var ErrNestedBlock = errors.New("nested block")

var ErrUnexpectedBlockEnd = errors.New("unexpected block end")

var ErrFinalised = errors.New("schema already finalised")

var ErrNotFinalised = errors.New("schema not finalised")

var ErrDefinitionNotFound = errors.New("definition not found")

var ErrStaleHandle = errors.New("stale definition handle")

// ParseError describes a rejected schema line.
//
// Every ParseError matches ErrSchemaParse with errors.Is, the rule violated
// is available through errors.Unwrap.
type ParseError struct {
	Source string
	Line   int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s:%d: %v", sourceName(e.Source), e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v, token «%s»", sourceName(e.Source), e.Line, e.Err, e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrSchemaParse }

func newParseError(source string, line int, token string, rule error) *ParseError {
	return &ParseError{Source: source, Line: line, Token: token, Err: rule}
}

func sourceName(source string) string {
	if source == "" {
		return baseSourceName
	}
	return source
}
