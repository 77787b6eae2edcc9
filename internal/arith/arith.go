// Package arith evaluates plain arithmetic expressions.
//
// The grammar is deliberately small:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
//	number  = digits [ "." digits ] [ ("e" | "E") [ "+" | "-" ] digits ]
//
// Evaluation is exact (math/big rationals). Anything outside the grammar is a
// syntax error; nothing is ever executed.
package arith

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	// MaxInputLen bounds the expression length in bytes.
	MaxInputLen = 4096
	// MaxDepth bounds parenthesis and unary-operator nesting.
	MaxDepth = 128
	// maxExponentDigits keeps literals like 1e999999999 from allocating huge numbers.
	maxExponentDigits = 3
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrTooLong        = fmt.Errorf("expression longer than %d bytes", MaxInputLen)
	ErrTooDeep        = fmt.Errorf("expression nested deeper than %d levels", MaxDepth)
	ErrDivisionByZero = errors.New("division by zero")
)

// SyntaxError reports input that is not a valid arithmetic expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// Eval parses and evaluates expr, returning the exact result.
func Eval(expr string) (*big.Rat, error) {
	if len(expr) > MaxInputLen {
		return nil, ErrTooLong
	}
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmpty
	}

	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	v, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", t)}
	}
	return v, nil
}

// EvalString evaluates expr and formats the result as a decimal string.
func EvalString(expr string) (string, error) {
	v, err := Eval(expr)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// Format renders v as a decimal string: integers exactly, other values with
// the shortest float64 representation. Non-integers beyond the normal float64
// range use 16 significant digits in exponent form instead of overflowing to
// Inf or collapsing to 0.
func Format(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	f, _ := v.Float64()
	if math.IsInf(f, 0) || math.Abs(f) < minNormal {
		return new(big.Float).SetPrec(128).SetRat(v).Text('g', 16)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022
