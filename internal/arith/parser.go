package arith

import (
	"fmt"
	"math/big"
	"strings"
)

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr(depth int) (*big.Rat, error) {
	left, err := p.term(depth)
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.term(depth)
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Add(left, right)
		case tokMinus:
			p.next()
			right, err := p.term(depth)
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Sub(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) term(depth int) (*big.Rat, error) {
	left, err := p.unary(depth)
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.unary(depth)
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Mul(left, right)
		case tokSlash:
			p.next()
			right, err := p.unary(depth)
			if err != nil {
				return nil, err
			}
			if right.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			left = new(big.Rat).Quo(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) unary(depth int) (*big.Rat, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	switch p.peek().kind {
	case tokPlus:
		p.next()
		return p.unary(depth + 1)
	case tokMinus:
		p.next()
		v, err := p.unary(depth + 1)
		if err != nil {
			return nil, err
		}
		return new(big.Rat).Neg(v), nil
	}
	return p.primary(depth)
}

func (p *parser) primary(depth int) (*big.Rat, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, ok := new(big.Rat).SetString(normalizeNumber(t.text))
		if !ok {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("invalid number %q", t.text)}
		}
		return v, nil
	case tokLParen:
		v, err := p.expr(depth + 1)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected \")\", found %s", closing)}
		}
		return v, nil
	default:
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected a number or \"(\", found %s", t)}
	}
}

// normalizeNumber turns literals such as ".5" and "5." into forms big.Rat accepts.
func normalizeNumber(s string) string {
	mantissa, exp := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp = s[:i], s[i:]
	}
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}
	if strings.HasSuffix(mantissa, ".") {
		mantissa += "0"
	}
	return mantissa + exp
}
