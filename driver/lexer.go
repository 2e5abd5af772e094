package driver

import (
	"strconv"
	"strings"

	"github.com/dokelabs/dokearley/grammar"
)

type TokenKind string

const (
	TokenKindLiteral = TokenKind("literal")
	TokenKindInt     = TokenKind("integer")
	TokenKindFloat   = TokenKind("float")
	TokenKindString  = TokenKind("string")
)

func (k TokenKind) String() string {
	return string(k)
}

// Token is one input token. Offset is the byte offset of the lexeme in the
// input statement.
type Token struct {
	Kind   TokenKind
	Lit    grammar.Symbol
	Text   string
	Int    int64
	Float  float64
	Str    string
	Offset int
}

// Tokenize scans an input statement against the grammar's literal
// vocabulary. At each position it tries, in order: a quoted string literal, a
// number literal, then the longest matching vocabulary literal (grammar
// insertion order breaks length ties).
//
// On failure it returns the tokens produced so far along with the error, so
// the parser can still report what it expected at the dead end.
func Tokenize(g *grammar.Grammar, input string) ([]*Token, error) {
	vocab := g.TerminalTexts()[1:]
	var tokens []*Token
	pos := 0
	for pos < len(input) {
		c := input[pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			pos++
			continue
		}

		if c == '"' {
			tok, next, err := lexStringLiteral(input, pos)
			if err != nil {
				return tokens, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		}

		if isNumberStart(input, pos) {
			tok, next, err := lexNumberLiteral(input, pos)
			if err != nil {
				return tokens, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		}

		best := ""
		var bestSym grammar.Symbol
		for _, lit := range vocab {
			if len(lit) > len(best) && strings.HasPrefix(input[pos:], lit) {
				best = lit
				bestSym, _ = g.ToLiteralSymbol(lit)
			}
		}
		if best == "" {
			return tokens, &UnexpectedCharError{Offset: pos}
		}
		tokens = append(tokens, &Token{
			Kind:   TokenKindLiteral,
			Lit:    bestSym,
			Text:   best,
			Offset: pos,
		})
		pos += len(best)
	}
	return tokens, nil
}

func lexStringLiteral(input string, start int) (*Token, int, error) {
	var b strings.Builder
	pos := start + 1
	for pos < len(input) {
		switch input[pos] {
		case '"':
			return &Token{
				Kind:   TokenKindString,
				Text:   input[start : pos+1],
				Str:    b.String(),
				Offset: start,
			}, pos + 1, nil
		case '\\':
			if pos+1 >= len(input) {
				return nil, 0, &UnexpectedCharError{Offset: pos}
			}
			esc := input[pos+1]
			if esc != '"' && esc != '\\' {
				return nil, 0, &UnexpectedCharError{Offset: pos}
			}
			b.WriteByte(esc)
			pos += 2
		default:
			b.WriteByte(input[pos])
			pos++
		}
	}
	return nil, 0, &UnexpectedCharError{Offset: start}
}

func isNumberStart(input string, pos int) bool {
	c := input[pos]
	if c >= '0' && c <= '9' {
		return true
	}
	if (c == '+' || c == '-') && pos+1 < len(input) {
		next := input[pos+1]
		return next >= '0' && next <= '9'
	}
	return false
}

func lexNumberLiteral(input string, start int) (*Token, int, error) {
	pos := start
	sign := int64(1)
	if input[pos] == '+' || input[pos] == '-' {
		if input[pos] == '-' {
			sign = -1
		}
		pos++
	}

	// Radix-prefixed integers.
	if input[pos] == '0' && pos+2 < len(input) {
		var base int
		var valid func(byte) bool
		switch input[pos+1] {
		case 'b':
			base = 2
			valid = func(c byte) bool { return c == '0' || c == '1' }
		case 'o':
			base = 8
			valid = func(c byte) bool { return c >= '0' && c <= '7' }
		case 'x':
			base = 16
			valid = func(c byte) bool {
				return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
			}
		}
		if base != 0 && valid(input[pos+2]) {
			digitStart := pos + 2
			end := digitStart
			for end < len(input) && valid(input[end]) {
				end++
			}
			i, err := strconv.ParseInt(input[digitStart:end], base, 64)
			if err != nil {
				return nil, 0, &NumberOutOfRangeError{Lexeme: input[start:end]}
			}
			return &Token{
				Kind:   TokenKindInt,
				Text:   input[start:end],
				Int:    sign * i,
				Offset: start,
			}, end, nil
		}
	}

	end := pos
	for end < len(input) && input[end] >= '0' && input[end] <= '9' {
		end++
	}
	isFloat := false
	if end < len(input) && input[end] == '.' {
		isFloat = true
		end++
		for end < len(input) && input[end] >= '0' && input[end] <= '9' {
			end++
		}
	}
	if end < len(input) && (input[end] == 'e' || input[end] == 'E') {
		// An exponent only counts with at least one digit; otherwise the
		// 'e' belongs to the next token.
		expEnd := end + 1
		if expEnd < len(input) && (input[expEnd] == '+' || input[expEnd] == '-') {
			expEnd++
		}
		digits := expEnd
		for digits < len(input) && input[digits] >= '0' && input[digits] <= '9' {
			digits++
		}
		if digits > expEnd {
			isFloat = true
			end = digits
		}
	}

	lexeme := input[start:end]
	if isFloat {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, 0, &NumberOutOfRangeError{Lexeme: lexeme}
		}
		return &Token{
			Kind:   TokenKindFloat,
			Text:   lexeme,
			Float:  f,
			Offset: start,
		}, end, nil
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, 0, &NumberOutOfRangeError{Lexeme: lexeme}
	}
	return &Token{
		Kind:   TokenKindInt,
		Text:   lexeme,
		Int:    i,
		Offset: start,
	}, end, nil
}
