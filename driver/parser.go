package driver

import (
	"errors"
	"sort"

	"github.com/dokelabs/dokearley/grammar"
)

// Parse tokenizes and recognizes an input statement starting from the
// nonterminal named start, then evaluates the extracted tree to a Value.
func Parse(g *grammar.Grammar, input, start string) (Value, error) {
	return ParseWithChildren(g, input, start, nil)
}

// ParseWithChildren is Parse with subordinate statements supplied by the
// outer block parser. Output specs with '<' or '<*' captures parse each child
// string with the same grammar.
func ParseWithChildren(g *grammar.Grammar, input, start string, children []string) (Value, error) {
	c, err := recognize(g, input, start)
	if err != nil {
		return nil, err
	}
	tree := c.buildParseTree()
	if tree == nil {
		return nil, errBuildParseTree
	}
	ev := &evaluator{
		g:        g,
		children: children,
	}
	return ev.eval(tree), nil
}

// errBuildParseTree would mean the extractor cannot re-derive an input the
// recognizer accepted, which is a bug, not a user error.
var errBuildParseTree = errors.New("could not build a parse tree for an accepted input; this is a bug in dokearley")

func recognize(g *grammar.Grammar, input, start string) (*chart, error) {
	startSym, ok := g.ToSymbol(start)
	if !ok || !startSym.IsNonTerminal() {
		return nil, &UnknownStartError{Name: start}
	}

	tokens, lexErr := Tokenize(g, input)
	c := newChart(g, tokens, startSym)
	c.recognize()

	if lexErr != nil {
		var unexpected *UnexpectedCharError
		if errors.As(lexErr, &unexpected) {
			// The statement died inside the tokenizer. The expectations
			// from the recognized prefix still tell the author what could
			// have come next.
			return nil, c.failureAt(unexpected.Offset)
		}
		return nil, lexErr
	}
	if !c.accepted() {
		return nil, c.failure(input)
	}
	return c, nil
}

type itemKey struct {
	prod   int
	dot    int
	origin int
}

// stateSet keeps items in insertion order for worklist processing and a set
// for deduplication.
type stateSet struct {
	items []itemKey
	index map[itemKey]struct{}
}

func newStateSet() *stateSet {
	return &stateSet{
		index: map[itemKey]struct{}{},
	}
}

func (s *stateSet) add(key itemKey) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, key)
	return true
}

type chart struct {
	g      *grammar.Grammar
	tokens []*Token
	start  grammar.Symbol
	sets   []*stateSet
}

func newChart(g *grammar.Grammar, tokens []*Token, start grammar.Symbol) *chart {
	sets := make([]*stateSet, len(tokens)+1)
	for i := range sets {
		sets[i] = newStateSet()
	}
	return &chart{
		g:      g,
		tokens: tokens,
		start:  start,
		sets:   sets,
	}
}

func (c *chart) recognize() {
	for _, prod := range c.g.ProductionsFor(c.start) {
		c.sets[0].add(itemKey{prod: prod.Num, dot: 0, origin: 0})
	}

	n := len(c.tokens)
	for pos := 0; pos <= n; pos++ {
		set := c.sets[pos]
		for i := 0; i < len(set.items); i++ {
			item := set.items[i]
			prod, _ := c.g.Production(item.prod)

			if item.dot < len(prod.RHS) {
				sym := prod.RHS[item.dot].Sym
				if sym.IsNonTerminal() {
					// Predict.
					for _, p := range c.g.ProductionsFor(sym) {
						set.add(itemKey{prod: p.Num, dot: 0, origin: pos})
					}
					// Aycock-Horspool: a nullable symbol may also be
					// skipped outright.
					if c.g.IsNullable(sym) {
						set.add(itemKey{prod: item.prod, dot: item.dot + 1, origin: item.origin})
					}
				} else if pos < n && tokenMatches(c.tokens[pos], sym) {
					// Scan.
					c.sets[pos+1].add(itemKey{prod: item.prod, dot: item.dot + 1, origin: item.origin})
				}
				continue
			}

			// Complete.
			lhs := prod.LHS
			origin := c.sets[item.origin]
			for j := 0; j < len(origin.items); j++ {
				waiting := origin.items[j]
				wProd, _ := c.g.Production(waiting.prod)
				if waiting.dot < len(wProd.RHS) && wProd.RHS[waiting.dot].Sym == lhs {
					set.add(itemKey{prod: waiting.prod, dot: waiting.dot + 1, origin: waiting.origin})
				}
			}
		}
	}
}

func tokenMatches(tok *Token, sym grammar.Symbol) bool {
	switch sym {
	case grammar.SymbolInt:
		return tok.Kind == TokenKindInt
	case grammar.SymbolFloat:
		return tok.Kind == TokenKindFloat
	case grammar.SymbolString:
		return tok.Kind == TokenKindString
	}
	return tok.Kind == TokenKindLiteral && tok.Lit == sym
}

func (c *chart) accepted() bool {
	last := c.sets[len(c.tokens)]
	for _, item := range last.items {
		if item.origin != 0 {
			continue
		}
		prod, _ := c.g.Production(item.prod)
		if item.dot == len(prod.RHS) && prod.LHS == c.start {
			return true
		}
	}
	return false
}

// failure reports the rejected input with the expectations alive in the last
// non-empty state set.
func (c *chart) failure(input string) *ParseFailureError {
	k := c.lastLiveSet()
	position := len(input)
	if k < len(c.tokens) {
		position = c.tokens[k].Offset
	}
	return &ParseFailureError{
		Position: position,
		Expected: c.expectedAt(k),
	}
}

// failureAt is failure with the position pinned to a byte offset, used when
// the tokenizer itself hit a dead end.
func (c *chart) failureAt(offset int) *ParseFailureError {
	return &ParseFailureError{
		Position: offset,
		Expected: c.expectedAt(c.lastLiveSet()),
	}
}

func (c *chart) lastLiveSet() int {
	k := len(c.sets) - 1
	for k > 0 && len(c.sets[k].items) == 0 {
		k--
	}
	return k
}

func (c *chart) expectedAt(k int) []string {
	seen := map[string]struct{}{}
	for _, item := range c.sets[k].items {
		prod, _ := c.g.Production(item.prod)
		if item.dot >= len(prod.RHS) {
			continue
		}
		sym := prod.RHS[item.dot].Sym
		if !sym.IsTerminal() {
			continue
		}
		text, _ := c.g.ToText(sym)
		seen[text] = struct{}{}
	}
	expected := make([]string, 0, len(seen))
	for text := range seen {
		expected = append(expected, text)
	}
	sort.Strings(expected)
	return expected
}
