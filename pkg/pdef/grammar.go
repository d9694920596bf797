/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdef

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Whitespace is significant: it separates type from identifier and must not
// appear between identifier and array size.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Directive", Pattern: `\$[A-Za-z_]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[{}\[\]]`},
	{Name: "Whitespace", Pattern: `[ \t\r\f\v]+`},
	{Name: "Other", Pattern: `.`},
})

type directiveAST struct {
	Keyword string `parser:"@Directive"`
	Name    string `parser:"(Whitespace @Ident)?"`
}

type arraySizeAST struct {
	Count *int    `parser:"  @Int"`
	Enum  *string `parser:"| @Ident"`
}

type declAST struct {
	Type     string        `parser:"@Ident"`
	Capacity *int          `parser:"('{' @Int '}')?"`
	Name     string        `parser:"Whitespace @Ident"`
	Size     *arraySizeAST `parser:"('[' @@ ']')?"`
}

// line at top level or inside struct block
type declLineAST struct {
	Pos       lexer.Position
	Directive *directiveAST `parser:"  @@"`
	Decl      *declAST      `parser:"| @@"`
}

// line inside enum block
type memberLineAST struct {
	Pos       lexer.Position
	Directive *directiveAST `parser:"  @@"`
	Member    string        `parser:"| @Ident"`
}

var (
	declLineParser   = participle.MustBuild[declLineAST](participle.Lexer(lineLexer))
	memberLineParser = participle.MustBuild[memberLineAST](participle.Lexer(lineLexer))
)

func parseDeclLine(source, line string) (*declLineAST, error) {
	return declLineParser.ParseString(source, line)
}

func parseMemberLine(source, line string) (*memberLineAST, error) {
	return memberLineParser.ParseString(source, line)
}

// Converts grammar error into parse error for the given source line
func grammarError(source string, lineNo int, line string, err error) *ParseError {
	token := line
	rule := err.Error()
	var perr participle.Error
	if errors.As(err, &perr) {
		rule = perr.Message()
		if col := perr.Position().Column; col > 0 && col <= len(line) {
			token = line[col-1:]
		}
	}
	token = strings.TrimLeft(token, " \t")
	if idx := strings.IndexAny(token, " \t"); idx > 0 {
		token = token[:idx]
	}
	return newParseError(source, lineNo, token, EnrichError(ErrSchemaParse, "%s", rule))
}
