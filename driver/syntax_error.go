package driver

import (
	"fmt"
	"strings"
)

// UnexpectedCharError is a tokenizer dead end: no token rule matches at
// Offset (a byte offset in the input).
type UnexpectedCharError struct {
	Offset int
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected character at offset %v", e.Offset)
}

// NumberOutOfRangeError reports an integer literal that does not fit in a
// signed 64-bit integer.
type NumberOutOfRangeError struct {
	Lexeme string
}

func (e *NumberOutOfRangeError) Error() string {
	return fmt.Sprintf("number out of range: %v", e.Lexeme)
}

// UnknownStartError reports a parse request for a nonterminal the grammar
// does not define.
type UnknownStartError struct {
	Name string
}

func (e *UnknownStartError) Error() string {
	return fmt.Sprintf("unknown start nonterminal: %v", e.Name)
}

// ParseFailureError reports a rejected input. Position is a byte offset in
// the input and Expected lists the literals and built-in types that could
// have continued the statement, sorted and deduplicated.
type ParseFailureError struct {
	Position int
	Expected []string
}

func (e *ParseFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse failure at offset %v", e.Position)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, "; expected one of: %v", strings.Join(e.Expected, ", "))
	}
	return b.String()
}
