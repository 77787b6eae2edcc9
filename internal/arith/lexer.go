package arith

import (
	"fmt"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return fmt.Sprintf("number %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

var operators = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'(': tokLParen,
	')': tokRParen,
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		default:
			kind, ok := operators[c]
			if !ok {
				r := rune(c)
				if c >= 0x80 {
					r = []rune(src[i:])[0]
				}
				if unicode.IsLetter(r) || r == '_' {
					return nil, &SyntaxError{Pos: i, Msg: "names and function calls are not allowed"}
				}
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// scanNumber returns the end offset of the numeric literal starting at start.
func scanNumber(src string, start int) (int, error) {
	i := start
	intDigits := 0
	for i < len(src) && isDigit(src[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		i++
		if i < len(src) && (src[i] == '+' || src[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(src) && isDigit(src[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return 0, &SyntaxError{Pos: start, Msg: "malformed exponent"}
		}
		if expDigits > maxExponentDigits {
			return 0, &SyntaxError{Pos: start, Msg: "exponent too large"}
		}
	}
	if i < len(src) && (src[i] == '.' || isDigit(src[i])) {
		return 0, &SyntaxError{Pos: i, Msg: "malformed number"}
	}
	return i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
