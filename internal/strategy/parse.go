package strategy

import (
	"strconv"
	"strings"
	"unicode"

	dErrors "caguard/pkg/domain-errors"
)

// Parse reads the text form of a strategy, e.g.
//
//	ifElse(notLargerThan(guardianCount, 3),
//	       equal(guardianApprovedCount, guardianCount),
//	       notLessThan(guardianApprovedCount, ratioByTenThousand(guardianCount, 6000)))
//
// Bare identifiers are variables, integers are constants, and true/false
// expand to constant comparisons.
func Parse(src string) (Node, error) {
	p := &parser{src: src}
	n, err := p.expr()
	if err != nil {
		return Node{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Node{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return n, nil
}

// ParseAndCompile is Parse followed by Compile.
func ParseAndCompile(src string) (*Tree, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(n)
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	args = append(args, p.pos)
	return dErrors.Newf(dErrors.CodeValidation, "strategy: "+format+" at offset %d", args...)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (Node, error) {
	c := p.peek()
	switch {
	case c == 0:
		return Node{}, p.errorf("unexpected end of input")
	case c == '-' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.call()
	default:
		return Node{}, p.errorf("unexpected %q", string(c))
	}
}

func (p *parser) number() (Node, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	text := p.src[start:p.pos]
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.pos = start
		return Node{}, p.errorf("invalid integer %q", text)
	}
	return Const(v), nil
}

func (p *parser) call() (Node, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	ident := p.src[start:p.pos]

	if p.peek() != '(' {
		switch strings.ToLower(ident) {
		case "true":
			return True(), nil
		case "false":
			return False(), nil
		}
		return Var(ident), nil
	}

	kind, err := ParseKind(ident)
	if err != nil || kind == KindVariable || kind == KindConstant {
		p.pos = start
		return Node{}, p.errorf("unknown operator %q", ident)
	}
	p.pos++ // (

	n := Node{Kind: kind}
	if p.peek() == ')' {
		p.pos++
		return n, nil
	}
	for {
		child, err := p.expr()
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, child)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return n, nil
		default:
			return Node{}, p.errorf("expected ',' or ')'")
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
