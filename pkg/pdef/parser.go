/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"strings"
)

type parseState int

const (
	stateTopLevel parseState = iota
	stateEnum
	stateStruct
)

type sourceParser struct {
	reg    *TypeRegistry
	source string

	state       parseState
	block       *TypeDef
	blockLine   int
	blockFields int
}

// Parses schema text into registry. Registry may be left partially changed on error.
func parseSource(reg *TypeRegistry, source, text string) error {
	p := sourceParser{reg: reg, source: source}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := stripComment(raw)
		if line == "" {
			continue
		}
		if err := p.parseLine(i+1, line); err != nil {
			return err
		}
	}

	if p.state != stateTopLevel {
		return newParseError(source, p.blockLine, p.block.Name,
			EnrichError(ErrUnterminatedBlock, "%v «%s» is not closed before end of text", p.block.Kind, p.block.Name))
	}
	return nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, commentPrefix); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

func (p *sourceParser) parseLine(lineNo int, line string) error {
	if p.state == stateEnum {
		ast, err := parseMemberLine(p.source, line)
		if err != nil {
			return grammarError(p.source, lineNo, line, err)
		}
		if ast.Directive != nil {
			return p.directive(lineNo, ast.Directive)
		}
		return p.enumMember(lineNo, ast.Member)
	}

	ast, err := parseDeclLine(p.source, line)
	if err != nil {
		return grammarError(p.source, lineNo, line, err)
	}
	if ast.Directive != nil {
		return p.directive(lineNo, ast.Directive)
	}
	return p.declaration(lineNo, ast.Decl)
}

func (p *sourceParser) directive(lineNo int, d *directiveAST) error {
	switch d.Keyword {
	case directiveEnumStart, directiveStructStart:
		if p.state != stateTopLevel {
			return newParseError(p.source, lineNo, d.Keyword,
				EnrichError(ErrNestedBlock, "%v «%s» opened at line %d is not closed", p.block.Kind, p.block.Name, p.blockLine))
		}
		if d.Name == "" {
			return newParseError(p.source, lineNo, d.Keyword, EnrichError(ErrSchemaParse, "expected block identifier"))
		}
		kind, state := TypeDefKind_Enum, stateEnum
		if d.Keyword == directiveStructStart {
			kind, state = TypeDefKind_Struct, stateStruct
		}
		t, err := p.reg.openType(d.Name, kind)
		if err != nil {
			return newParseError(p.source, lineNo, d.Name, err)
		}
		p.state, p.block, p.blockLine, p.blockFields = state, t, lineNo, 0
		return nil

	case directiveEnumEnd, directiveStructEnd:
		want := stateEnum
		if d.Keyword == directiveStructEnd {
			want = stateStruct
		}
		if p.state != want {
			return newParseError(p.source, lineNo, d.Keyword, EnrichError(ErrUnexpectedBlockEnd, "no matching open block"))
		}
		if d.Name != "" {
			return newParseError(p.source, lineNo, d.Name, EnrichError(ErrSchemaParse, "expected end of line"))
		}
		if p.blockFields == 0 {
			return newParseError(p.source, lineNo, d.Keyword, EnrichError(ErrEmptyBlock, "%v «%s» has no members", p.block.Kind, p.block.Name))
		}
		p.state, p.block = stateTopLevel, nil
		return nil
	}

	return newParseError(p.source, lineNo, d.Keyword, EnrichError(ErrSchemaParse, "unknown directive"))
}

func (p *sourceParser) enumMember(lineNo int, name string) error {
	if len(name) > MaxEnumMemberLength {
		return newParseError(p.source, lineNo, name,
			EnrichError(ErrInvalidIdentifier, "enum member is longer than %d characters", MaxEnumMemberLength))
	}
	enum := p.block.Enum
	for _, m := range enum.Members {
		if m.Name == name {
			return newParseError(p.source, lineNo, name,
				EnrichError(ErrDuplicateIdentifier, "enum «%s» member first declared by %s", p.block.Name, sourceName(m.Source)))
		}
	}
	enum.Members = append(enum.Members, EnumMember{Name: name, Source: p.source})
	p.blockFields++
	return nil
}

func (p *sourceParser) declaration(lineNo int, d *declAST) error {
	v := &VarDef{
		TypeName: d.Type,
		Name:     d.Name,
		Source:   p.source,
		Line:     lineNo,
	}
	if d.Capacity != nil {
		if *d.Capacity <= 0 {
			return newParseError(p.source, lineNo, d.Type, EnrichError(ErrSchemaParse, "native capacity must be positive"))
		}
		v.Capacity = *d.Capacity
	}

	if _, ok := primitiveKind(d.Type); !ok {
		if _, ok := p.reg.LookupType(d.Type); !ok {
			return newParseError(p.source, lineNo, d.Type, EnrichError(ErrUnknownType, "«%s»", d.Type))
		}
	}

	if d.Size != nil {
		switch {
		case d.Size.Count != nil:
			if *d.Size.Count <= 0 {
				return newParseError(p.source, lineNo, d.Name, EnrichError(ErrInvalidArraySize, "array size must be positive"))
			}
			v.Array.Count = *d.Size.Count
		case d.Size.Enum != nil:
			t, ok := p.reg.LookupType(*d.Size.Enum)
			if !ok || t.Kind != TypeDefKind_Enum {
				return newParseError(p.source, lineNo, *d.Size.Enum, EnrichError(ErrInvalidArraySize, "«%s» is not an enum", *d.Size.Enum))
			}
			v.Array.Enum = *d.Size.Enum
		}
	}

	if p.state == stateStruct {
		s := p.block.Struct
		if prev, ok := s.Member(v.Name); ok {
			return newParseError(p.source, lineNo, v.Name,
				EnrichError(ErrDuplicateIdentifier, "struct «%s» member first declared by %s", p.block.Name, sourceName(prev.Source)))
		}
		s.add(v)
		p.blockFields++
		return nil
	}

	if err := p.reg.RegisterVar(v); err != nil {
		return newParseError(p.source, lineNo, v.Name, err)
	}
	return nil
}
