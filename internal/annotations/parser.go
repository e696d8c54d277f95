package annotations

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/models"
)

// DirectivePrefix marks a registry directive comment: //axon::routes [a, b]
const DirectivePrefix = "axon::routes"

const directiveUsage = "Use format: //axon::routes [route_a, route_b] -Name=FuncName"

// ParseRouteList parses a comma-separated list of bare route names. The list
// may be empty, may be wrapped in brackets and may end with a comma. Parsing
// stops at the first token that is not a name or a separator.
func ParseRouteList(input string, origin errors.SourceLocation) ([]models.RouteName, error) {
	tokens, err := tokenize(input, origin)
	if err != nil {
		return nil, err
	}

	p := &listParser{tokens: tokens, origin: origin}
	routes, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); !tok.EOF() {
		return nil, p.malformed(tok, "unexpected input after the route list")
	}
	return routes, nil
}

// IsDirective reports whether a comment is an axon::routes directive
func IsDirective(comment string) bool {
	_, _, ok := splitDirective(comment)
	return ok
}

// ParseDirective parses a complete //axon::routes comment. location is the
// position of the comment's leading slashes.
func ParseDirective(comment string, location errors.SourceLocation) (*models.RegistryDirective, error) {
	body, offset, ok := splitDirective(comment)
	if !ok {
		return nil, errors.New(errors.SyntaxErrorCode, "annotation is not an axon::routes directive").
			WithLocation(location).
			WithSuggestions(directiveUsage)
	}

	origin := location
	if origin.Line > 0 {
		if origin.Column == 0 {
			origin.Column = 1
		}
		origin.Column += offset
	}

	tokens, err := tokenize(body, origin)
	if err != nil {
		return nil, err
	}

	p := &listParser{tokens: tokens, origin: origin}
	routes, err := p.parseList(true)
	if err != nil {
		return nil, err
	}

	directive := &models.RegistryDirective{
		FuncName: models.DefaultRegistryFunc,
		Routes:   routes,
		Location: location,
		Raw:      strings.TrimSpace(comment),
	}

	for !p.peek().EOF() {
		if err := p.parseOption(directive); err != nil {
			return nil, err
		}
	}

	return directive, nil
}

// splitDirective strips the comment marker and directive prefix and returns
// the remaining body with its byte offset inside comment.
func splitDirective(comment string) (string, int, bool) {
	trimmed := strings.TrimLeftFunc(comment, unicode.IsSpace)
	offset := len(comment) - len(trimmed)
	if !strings.HasPrefix(trimmed, "//") {
		return "", 0, false
	}
	offset += 2

	rest := comment[offset:]
	content := strings.TrimLeftFunc(rest, unicode.IsSpace)
	offset += len(rest) - len(content)
	if !strings.HasPrefix(content, DirectivePrefix) {
		return "", 0, false
	}
	offset += len(DirectivePrefix)

	body := comment[offset:]
	if body != "" {
		r, _ := utf8.DecodeRuneInString(body)
		if !unicode.IsSpace(r) && r != '[' {
			return "", 0, false
		}
	}
	return body, offset, true
}

type listParser struct {
	tokens []lexer.Token
	pos    int
	origin errors.SourceLocation
}

func (p *listParser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *listParser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if !tok.EOF() {
		p.pos++
	}
	return tok
}

// parseList consumes an optionally bracketed list. In directive mode an
// unbracketed list ends where the first -Flag starts.
func (p *listParser) parseList(directive bool) ([]models.RouteName, error) {
	routes := make([]models.RouteName, 0)

	bracketed := false
	if p.peek().Type == openToken {
		p.next()
		bracketed = true
	}

	expectName := true
	for {
		tok := p.peek()
		switch {
		case tok.EOF():
			if bracketed {
				return nil, p.malformed(tok, "missing closing ']'")
			}
			return routes, nil

		case tok.Type == closeToken:
			if !bracketed {
				return nil, p.malformed(tok, "']' without a matching '['")
			}
			p.next()
			return routes, nil

		case directive && !bracketed && tok.Type == punctToken && tok.Value == "-":
			return routes, nil

		case tok.Type == identToken:
			if !expectName {
				return nil, p.malformed(tok, "route names must be separated by ','")
			}
			if token.IsKeyword(tok.Value) {
				return nil, p.malformed(tok, "Go keywords cannot be route names")
			}
			p.next()
			if follow := p.peek(); follow.Type == scopeToken || (follow.Type == punctToken && follow.Value == ".") {
				return nil, p.malformed(follow, "path expressions are not allowed, list the bare route name")
			}
			routes = append(routes, models.RouteName{
				Name:     tok.Value,
				Location: locate(p.origin, tok.Pos),
			})
			expectName = false

		case tok.Type == commaToken:
			if expectName {
				return nil, p.malformed(tok, "expected a route name before ','")
			}
			p.next()
			expectName = true

		default:
			return nil, p.malformed(tok, describe(tok))
		}
	}
}

func (p *listParser) parseOption(directive *models.RegistryDirective) error {
	dash := p.next()
	if dash.Type != punctToken || dash.Value != "-" {
		return p.syntax(dash, "expected a -Flag after the route list")
	}

	name := p.next()
	if name.Type != identToken {
		return p.syntax(name, "expected a flag name after '-'")
	}

	switch name.Value {
	case "Name":
		eq := p.next()
		if eq.Type != punctToken || eq.Value != "=" {
			return p.syntax(eq, "-Name requires a value, e.g. -Name=APIRoutes")
		}
		value := p.next()
		if value.Type != identToken || token.IsKeyword(value.Value) {
			return p.syntax(value, "-Name must be a Go identifier")
		}
		directive.FuncName = value.Value
		directive.NameSet = true
		return nil
	default:
		return p.syntax(name, fmt.Sprintf("unknown flag -%s", name.Value))
	}
}

func (p *listParser) malformed(tok lexer.Token, reason string) error {
	text := tok.Value
	if tok.EOF() {
		text = ""
	}
	return errors.NewMalformedListError(locate(p.origin, tok.Pos), text, reason)
}

func (p *listParser) syntax(tok lexer.Token, message string) error {
	return errors.New(errors.SyntaxErrorCode, message).
		WithLocation(locate(p.origin, tok.Pos)).
		WithContext("token", tok.String()).
		WithSuggestions(directiveUsage)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case stringToken, charToken:
		return "string literals are not route names"
	case numberToken:
		return "numeric literals are not route names"
	case scopeToken:
		return "path expressions are not allowed, list the bare route name"
	case openToken:
		return "nested lists are not allowed"
	default:
		return "expected a route name or ','"
	}
}
