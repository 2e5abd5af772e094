package spec

import (
	"errors"
	"testing"

	verr "github.com/dokelabs/dokearley/error"
)

func TestLexer_Run(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     error
	}{
		{
			caption: "a production line is split into ids, a colon, a pattern, an arrow, and a type",
			src:     `ItemEffect: "deal {amount:Int} damage" -> Damage`,
			tokens: []*token{
				{kind: tokenKindID, text: "ItemEffect"},
				{kind: tokenKindColon},
				{kind: tokenKindPattern, text: "deal {amount:Int} damage"},
				{kind: tokenKindArrow},
				{kind: tokenKindID, text: "Damage"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "'=>' is an alias of '->'",
			src:     `=>`,
			tokens: []*token{
				{kind: tokenKindArrow},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "a newline and a semicolon both separate productions",
			src:     "a\n;b",
			tokens: []*token{
				{kind: tokenKindID, text: "a"},
				{kind: tokenKindNewline},
				{kind: tokenKindNewline},
				{kind: tokenKindID, text: "b"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "escape sequences in a quoted pattern are interpreted",
			src:     `"say \"hi\" with a \\"`,
			tokens: []*token{
				{kind: tokenKindPattern, text: `say "hi" with a \`},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "output spec punctuation is tokenized",
			src:     `{ kind: "x", n <* Comp, m < Comp }`,
			tokens: []*token{
				{kind: tokenKindLBrace},
				{kind: tokenKindID, text: "kind"},
				{kind: tokenKindColon},
				{kind: tokenKindPattern, text: "x"},
				{kind: tokenKindComma},
				{kind: tokenKindID, text: "n"},
				{kind: tokenKindCaptureMany},
				{kind: tokenKindID, text: "Comp"},
				{kind: tokenKindComma},
				{kind: tokenKindID, text: "m"},
				{kind: tokenKindCaptureOne},
				{kind: tokenKindID, text: "Comp"},
				{kind: tokenKindRBrace},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "number literals cover all radixes and float forms",
			src:     `42 -7 +7 0b1010 -0o777 0x1A 3.14 123. 1.5e10 -1.2e-3`,
			tokens: []*token{
				{kind: tokenKindInt, i: 42},
				{kind: tokenKindInt, i: -7},
				{kind: tokenKindInt, i: 7},
				{kind: tokenKindInt, i: 10},
				{kind: tokenKindInt, i: -511},
				{kind: tokenKindInt, i: 26},
				{kind: tokenKindFloat, f: 3.14},
				{kind: tokenKindFloat, f: 123.0},
				{kind: tokenKindFloat, f: 1.5e10},
				{kind: tokenKindFloat, f: -1.2e-3},
			},
		},
		{
			caption: "a '#' line is rejected because comments are reserved",
			src:     "# note",
			err:     synErrCommentReserved,
		},
		{
			caption: "an unclosed pattern is rejected",
			src:     `"deal`,
			err:     synErrUnclosedPattern,
		},
		{
			caption: "a pattern may not span lines",
			src:     "\"deal\ndamage\"",
			err:     synErrUnclosedPattern,
		},
		{
			caption: "an unknown escape sequence is rejected",
			src:     `"a \n b"`,
			err:     synErrInvalidEscSeq,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			lex := newLexer(tt.src)
			for _, want := range tt.tokens {
				got, err := lex.next()
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testToken(t, want, got)
				if want.kind == tokenKindEOF {
					return
				}
			}
			if tt.err != nil {
				var got *token
				var err error
				for {
					got, err = lex.next()
					if err != nil || got.kind == tokenKindEOF {
						break
					}
				}
				if err == nil {
					t.Fatalf("an error must occur; want: %v", tt.err)
				}
				specErr := &verr.SpecError{}
				if !errors.As(err, &specErr) {
					t.Fatalf("unexpected error type: %T", err)
				}
				if specErr.Cause != tt.err {
					t.Fatalf("unexpected cause\nwant: %v\ngot: %v", tt.err, specErr.Cause)
				}
			}
		})
	}
}

func testToken(t *testing.T, want, got *token) {
	t.Helper()
	if got.kind != want.kind {
		t.Fatalf("unexpected token kind\nwant: %v\ngot: %v (%#v)", want.kind, got.kind, got.text)
	}
	if got.text != want.text {
		t.Fatalf("unexpected token text\nwant: %#v\ngot: %#v", want.text, got.text)
	}
	if got.i != want.i {
		t.Fatalf("unexpected integer value\nwant: %v\ngot: %v", want.i, got.i)
	}
	if got.f != want.f {
		t.Fatalf("unexpected float value\nwant: %v\ngot: %v", want.f, got.f)
	}
}
