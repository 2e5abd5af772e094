package spec

import (
	"strings"
	"unicode"

	verr "github.com/dokelabs/dokearley/error"
)

type RootNode struct {
	Productions []*ProductionNode
}

// ProductionNode is either a pattern production (Elements non-nil) or a
// disjunction over nonterminals (Alternatives non-nil).
type ProductionNode struct {
	LHS          string
	Elements     []*ElementNode
	Alternatives []string
	Spec         *OutputSpecNode
	Pos          Position
}

// ElementNode is one segment of a quoted pattern: a literal run (Literal
// non-empty) or a placeholder (Name non-empty).
type ElementNode struct {
	Literal string
	Name    string
	Type    string
	Pos     Position
}

// OutputSpecNode is the part after '->'. An empty TypeName means dictionary
// mode.
type OutputSpecNode struct {
	TypeName string
	Braced   bool
	Fields   []*FieldNode
	Pos      Position
}

// FieldNode is one entry of a braced output spec: either a value binding
// (Value non-nil) or a child capture (CaptureNT non-empty).
type FieldNode struct {
	Name      string
	Value     *ValueNode
	CaptureNT string
	Many      bool
	Pos       Position
}

type ValueKind string

const (
	ValueKindRef    = ValueKind("ref")
	ValueKindInt    = ValueKind("integer")
	ValueKindFloat  = ValueKind("float")
	ValueKindString = ValueKind("string")
)

type ValueNode struct {
	Kind  ValueKind
	Ref   string
	Int   int64
	Float float64
	Str   string
	Pos   Position
}

func raiseSyntaxError(row, col int, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
		Col:   col,
	})
}

func raiseSyntaxErrorWithDetail(row, col int, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    row,
		Col:    col,
	})
}

// Parse reads dokedef source text and returns its unresolved AST. Identifier
// resolution and interning happen in the grammar package.
func Parse(src string) (*RootNode, error) {
	p := newParser(src)
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src string) *parser {
	return &parser{
		lex: newLexer(src),
	}
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			retErr = specErr
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindNewline) {
			continue
		}
		if p.consume(tokenKindEOF) {
			break
		}
		root.Productions = append(root.Productions, p.parseProduction())
		if !p.consume(tokenKindNewline) && !p.consume(tokenKindEOF) {
			tok := p.peek()
			raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrProdNoSeparator)
		}
		p.unread()
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(0, 0, synErrNoProduction)
	}
	return root
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		tok := p.peek()
		if tok.kind == tokenKindInvalid {
			raiseSyntaxErrorWithDetail(tok.pos.Row, tok.pos.Col, synErrInvalidToken, tok.text)
		}
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoProductionName)
	}
	lhs := p.lastTok.text
	pos := p.lastTok.pos
	if !p.consume(tokenKindColon) {
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoColon)
	}

	switch {
	case p.consume(tokenKindPattern):
		patTok := p.lastTok
		elems := parsePattern(patTok.text, patTok.pos)
		prod := &ProductionNode{
			LHS:      lhs,
			Elements: elems,
			Pos:      pos,
		}
		if p.consume(tokenKindArrow) {
			prod.Spec = p.parseOutputSpec()
		}
		return prod
	case p.consume(tokenKindID):
		alts := []string{p.lastTok.text}
		for p.consume(tokenKindOr) {
			if !p.consume(tokenKindID) {
				tok := p.peek()
				raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoProductionBody)
			}
			alts = append(alts, p.lastTok.text)
		}
		return &ProductionNode{
			LHS:          lhs,
			Alternatives: alts,
			Pos:          pos,
		}
	}
	tok := p.peek()
	raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoProductionBody)
	return nil
}

// parsePattern splits the unescaped text of a quoted pattern into literal
// runs and {name:Type} placeholders.
func parsePattern(text string, pos Position) []*ElementNode {
	var elems []*ElementNode
	rest := text
	hasContent := false
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.TrimSpace(rest) != "" {
				hasContent = true
			}
			elems = append(elems, &ElementNode{Literal: rest, Pos: pos})
			break
		}
		if open > 0 {
			lit := rest[:open]
			if strings.TrimSpace(lit) != "" {
				hasContent = true
			}
			elems = append(elems, &ElementNode{Literal: lit, Pos: pos})
		}
		rest = rest[open+1:]
		close := strings.IndexByte(rest, '}')
		if close < 0 {
			raiseSyntaxErrorWithDetail(pos.Row, pos.Col, synErrBadPlaceholder, "'}' is missing")
		}
		body := rest[:close]
		rest = rest[close+1:]

		name, typ, ok := splitPlaceholder(body)
		if !ok {
			raiseSyntaxErrorWithDetail(pos.Row, pos.Col, synErrBadPlaceholder, "{"+body+"}")
		}
		hasContent = true
		elems = append(elems, &ElementNode{Name: name, Type: typ, Pos: pos})
	}
	if !hasContent {
		raiseSyntaxError(pos.Row, pos.Col, synErrEmptyPattern)
	}
	return elems
}

func splitPlaceholder(body string) (string, string, bool) {
	colon := strings.IndexByte(body, ':')
	if colon < 0 {
		return "", "", false
	}
	name := strings.TrimSpace(body[:colon])
	typ := strings.TrimSpace(body[colon+1:])
	if !isIdent(name) || !isIdent(typ) {
		return "", "", false
	}
	return name, typ, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if i > 0 && unicode.IsDigit(c) {
			continue
		}
		return false
	}
	return true
}

func (p *parser) parseOutputSpec() *OutputSpecNode {
	spec := &OutputSpecNode{}
	switch {
	case p.consume(tokenKindID):
		spec.TypeName = p.lastTok.text
		spec.Pos = p.lastTok.pos
		if p.consume(tokenKindLBrace) {
			spec.Braced = true
			spec.Fields = p.parseFields()
		}
	case p.consume(tokenKindLBrace):
		spec.Braced = true
		spec.Pos = p.lastTok.pos
		spec.Fields = p.parseFields()
	default:
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoOutputSpec)
	}
	return spec
}

func (p *parser) parseFields() []*FieldNode {
	var fields []*FieldNode
	if p.consume(tokenKindRBrace) {
		return fields
	}
	for {
		fields = append(fields, p.parseField())
		if p.consume(tokenKindComma) {
			continue
		}
		if p.consume(tokenKindRBrace) {
			return fields
		}
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrUnclosedSpec)
	}
}

func (p *parser) parseField() *FieldNode {
	if !p.consume(tokenKindID) {
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoFieldValue)
	}
	field := &FieldNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	switch {
	case p.consume(tokenKindColon):
		field.Value = p.parseValue()
	case p.consume(tokenKindCaptureOne), p.consume(tokenKindCaptureMany):
		field.Many = p.lastTok.kind == tokenKindCaptureMany
		if !p.consume(tokenKindID) {
			tok := p.peek()
			raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoCaptureSymbol)
		}
		field.CaptureNT = p.lastTok.text
	default:
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoFieldValue)
	}
	return field
}

func (p *parser) parseValue() *ValueNode {
	switch {
	case p.consume(tokenKindID):
		return &ValueNode{
			Kind: ValueKindRef,
			Ref:  p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	case p.consume(tokenKindInt):
		return &ValueNode{
			Kind: ValueKindInt,
			Int:  p.lastTok.i,
			Pos:  p.lastTok.pos,
		}
	case p.consume(tokenKindFloat):
		return &ValueNode{
			Kind:  ValueKindFloat,
			Float: p.lastTok.f,
			Pos:   p.lastTok.pos,
		}
	case p.consume(tokenKindPattern):
		return &ValueNode{
			Kind: ValueKindString,
			Str:  p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	tok := p.peek()
	raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrNoFieldValue)
	return nil
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			panic(err)
		}
	}
	p.lastTok = tok
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	return false
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) unread() {
	p.peekedTok = p.lastTok
}
