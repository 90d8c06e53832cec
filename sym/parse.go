package sym

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse builds an expression from conventional infix notation. Supported
// are +, -, *, /, right-associative ^, parentheses, exact decimal and
// fractional literals, the constant pi, symbols, and the function names
// sin, cos, tan, asin, acos, atan (plus the arc* spellings), sinh, cosh,
// tanh, exp, ln, log, sqrt, abs, sign, and the two-argument atan2.
//
// Complexity: O(n) over the input length.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	p.next()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}

	return e.Simplify(), nil
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return e
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokBad
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	return fmt.Errorf("%s at offset %d in %q: %w", msg, p.tok.pos, p.src, ErrParse)
}

func (p *parser) next() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}

		return
	}
	c := p.src[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		p.tok = token{kind: tokNum, text: p.src[start:p.pos], pos: start}
	case unicode.IsLetter(rune(c)) || c == '_':
		for p.pos < len(p.src) && (unicode.IsLetter(rune(p.src[p.pos])) || unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '_') {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	default:
		kinds := map[byte]tokenKind{
			'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
			'^': tokCaret, '(': tokLParen, ')': tokRParen, ',': tokComma,
		}
		kind, ok := kinds[c]
		if !ok {
			kind = tokBad
		}
		p.pos++
		p.tok = token{kind: kind, text: string(c), pos: start}
	}
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		neg := p.tok.kind == tokMinus
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if neg {
			left = SubOf(left, right)
		} else {
			left = AddOf(left, right)
		}
	}

	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		div := p.tok.kind == tokSlash
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if div {
			left = DivOf(left, right)
		} else {
			left = MulOf(left, right)
		}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	neg := false
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		if p.tok.kind == tokMinus {
			neg = !neg
		}
		p.next()
	}
	e, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	if neg {
		e = NegOf(e)
	}

	return e, nil
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return PowOf(base, exp), nil
}

// unaryFuncs maps recognised function names to constructors. arctan and
// friends are accepted as aliases so range bounds written either way
// parse identically.
var unaryFuncs = map[string]func(Expr) Expr{
	"sin": SinOf, "cos": CosOf, "tan": TanOf,
	"asin": AsinOf, "acos": AcosOf, "atan": AtanOf,
	"arcsin": AsinOf, "arccos": AcosOf, "arctan": AtanOf,
	"sinh": SinhOf, "cosh": CoshOf, "tanh": TanhOf,
	"exp": ExpOf, "ln": LnOf, "log": LnOf,
	"sqrt": SqrtOf, "abs": AbsOf, "sign": SignOf,
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(p.tok.text)
		if !ok {
			return nil, p.errorf("malformed number %q", p.tok.text)
		}
		p.next()

		return &Num{val: r}, nil
	case tokIdent:
		name := p.tok.text
		p.next()
		if strings.EqualFold(name, "pi") {
			return Pi, nil
		}
		if p.tok.kind != tokLParen {
			return Var(name), nil
		}
		p.next()
		args := []Expr{}
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind != tokComma {
				break
			}
			p.next()
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ) after arguments of %q", name)
		}
		p.next()
		if name == "atan2" {
			if len(args) != 2 {
				return nil, p.errorf("atan2 takes 2 arguments, got %d", len(args))
			}

			return Atan2Of(args[0], args[1]), nil
		}
		ctor, known := unaryFuncs[name]
		if !known {
			return nil, p.errorf("unknown function %q", name)
		}
		if len(args) != 1 {
			return nil, p.errorf("%s takes 1 argument, got %d", name, len(args))
		}

		return ctor(args[0]), nil
	case tokLParen:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected )")
		}
		p.next()

		return e, nil
	default:
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
}
