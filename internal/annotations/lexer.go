package annotations

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/routegen/internal/errors"
)

// routeLexer tokenizes the body of a route list. The trailing Punct rule
// catches any other single character so malformed input always surfaces as
// a token with a position rather than a lexer failure.
var routeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|` + "`[^`]*`"},
	{Name: "Char", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.]*|\.[0-9][0-9a-zA-Z_]*`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{Nd}_]*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Open", Pattern: `\[`},
	{Name: "Close", Pattern: `\]`},
	{Name: "Punct", Pattern: `[^\s\p{L}\p{Nd}_]`},
})

var (
	symbols         = routeLexer.Symbols()
	whitespaceToken = symbols["Whitespace"]
	stringToken     = symbols["String"]
	charToken       = symbols["Char"]
	numberToken     = symbols["Number"]
	identToken      = symbols["Ident"]
	scopeToken      = symbols["Scope"]
	commaToken      = symbols["Comma"]
	openToken       = symbols["Open"]
	closeToken      = symbols["Close"]
	punctToken      = symbols["Punct"]
)

// tokenize lexes input and drops whitespace. The final token is always EOF.
func tokenize(input string, origin errors.SourceLocation) ([]lexer.Token, error) {
	lex, err := routeLexer.LexString(origin.File, input)
	if err != nil {
		return nil, errors.WrapParseError("route list", err).WithLocation(origin)
	}

	var tokens []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			loc := origin
			if lerr, ok := err.(*lexer.Error); ok {
				loc = locate(origin, lerr.Pos)
			}
			return nil, errors.NewMalformedListError(loc, "", err.Error())
		}
		if tok.Type == whitespaceToken {
			continue
		}
		tokens = append(tokens, tok)
		if tok.EOF() {
			return tokens, nil
		}
	}
}

// locate maps a lexer position relative to the list body onto the file
func locate(origin errors.SourceLocation, pos lexer.Position) errors.SourceLocation {
	if origin.Line == 0 {
		return errors.SourceLocation{File: origin.File, Line: pos.Line, Column: pos.Column}
	}
	loc := errors.SourceLocation{File: origin.File, Line: origin.Line + pos.Line - 1}
	switch {
	case pos.Line > 1:
		loc.Column = pos.Column
	case origin.Column == 0:
		loc.Column = pos.Column
	default:
		loc.Column = origin.Column + pos.Column - 1
	}
	return loc
}
