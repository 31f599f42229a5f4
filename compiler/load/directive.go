package load

import (
	"go/token"
	"strconv"
	"strings"
)

// DirectivePrefix starts every declaration comment in Go source.
const DirectivePrefix = "//repogen:"

// ParseDirective parses the body of a directive comment, e.g.
// crud_repo(find_all, save = true), into a Facet. Values are bare tokens
// (db.Pool, accounts, true) or Go string literals.
func ParseDirective(text string, pos token.Position) (*Facet, error) {
	p := &directiveParser{src: text}
	p.skipSpace()
	name := p.ident()
	facet := &Facet{Name: name, Pos: pos}
	if name == "" {
		return nil, syntaxErrorf(facet, "directive %q must start with a facet name", text)
	}
	p.skipSpace()
	if !p.consume('(') {
		return nil, syntaxErrorf(facet, "expected ( after %s", name)
	}
	for {
		p.skipSpace()
		if p.consume(')') {
			break
		}
		c, err := p.clause(facet)
		if err != nil {
			return nil, err
		}
		facet.Clauses = append(facet.Clauses, c)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(')') {
			break
		}
		if p.eof() {
			return nil, syntaxErrorf(facet, "missing closing parenthesis")
		}
		return nil, syntaxErrorf(facet, "unexpected %q after %s", p.peek(), c.Key)
	}
	p.skipSpace()
	if !p.eof() {
		return nil, syntaxErrorf(facet, "unexpected trailing text %q", p.src[p.off:])
	}
	return facet, nil
}

type directiveParser struct {
	src string
	off int
}

func (p *directiveParser) eof() bool { return p.off >= len(p.src) }

func (p *directiveParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.off]
}

func (p *directiveParser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.off++
		return true
	}
	return false
}

func (p *directiveParser) skipSpace() {
	for !p.eof() && (p.src[p.off] == ' ' || p.src[p.off] == '\t') {
		p.off++
	}
}

func (p *directiveParser) ident() string {
	start := p.off
	for !p.eof() {
		c := p.src[p.off]
		if c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || p.off > start && '0' <= c && c <= '9' {
			p.off++
			continue
		}
		break
	}
	return p.src[start:p.off]
}

func (p *directiveParser) clause(facet *Facet) (*Clause, error) {
	key := p.ident()
	if key == "" {
		if p.eof() {
			return nil, syntaxErrorf(facet, "missing closing parenthesis")
		}
		return nil, syntaxErrorf(facet, "unexpected %q", p.peek())
	}
	p.skipSpace()
	if !p.consume('=') {
		return &Clause{Key: key, Bare: true}, nil
	}
	p.skipSpace()
	value, err := p.value(facet, key)
	if err != nil {
		return nil, err
	}
	return &Clause{Key: key, Value: value}, nil
}

func (p *directiveParser) value(facet *Facet, key string) (string, error) {
	if p.peek() == '"' || p.peek() == '`' {
		lit, err := p.stringLit()
		if err != nil {
			return "", syntaxErrorf(facet, "value of %s: %v", key, err)
		}
		return lit, nil
	}
	start := p.off
	for !p.eof() && !strings.ContainsRune(" \t,()=\"`", rune(p.src[p.off])) {
		p.off++
	}
	if p.off == start {
		return "", syntaxErrorf(facet, "missing value for %s", key)
	}
	return p.src[start:p.off], nil
}

// stringLit scans a Go string literal and returns its unquoted value.
func (p *directiveParser) stringLit() (string, error) {
	quote := p.src[p.off]
	end := p.off + 1
	for end < len(p.src) && p.src[end] != quote {
		if quote == '"' && p.src[end] == '\\' {
			end++
		}
		end++
	}
	if end >= len(p.src) {
		return "", strconv.ErrSyntax
	}
	lit := p.src[p.off : end+1]
	p.off = end + 1
	return strconv.Unquote(lit)
}
