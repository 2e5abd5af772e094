package grammar

import "fmt"

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (k symbolKind) String() string {
	return string(k)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is an interned grammar symbol. The high bit distinguishes terminals
// from nonterminals, the next bit marks the built-in types, and the rest is
// the symbol number within its kind.
type Symbol uint16

const (
	maskKindPart    = uint16(0x8000)
	maskNonTerminal = uint16(0x0000)
	maskTerminal    = uint16(0x8000)

	maskBuiltinPart = uint16(0x4000)

	maskNumberPart = uint16(0x3fff)

	SymbolNil = Symbol(0)

	// The built-in types match token classes instead of literal text. They
	// are terminal-kinded so the recognizer scans over them.
	SymbolInt    = Symbol(maskTerminal | maskBuiltinPart | 1)
	SymbolFloat  = Symbol(maskTerminal | maskBuiltinPart | 2)
	SymbolString = Symbol(maskTerminal | maskBuiltinPart | 3)

	symbolNumMin = SymbolNum(1)
	symbolNumMax = SymbolNum(0x3fff)
)

const (
	symbolNameInt    = "Int"
	symbolNameFloat  = "Float"
	symbolNameString = "String"
)

func newSymbol(kind symbolKind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return Symbol(kindMask | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNumberPart)
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return uint16(s)&maskKindPart == maskTerminal
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsTerminal()
}

func (s Symbol) IsBuiltin() bool {
	if s.IsNil() {
		return false
	}
	return uint16(s)&maskBuiltinPart > 0
}

func (s Symbol) String() string {
	var prefix string
	switch {
	case s.IsBuiltin():
		prefix = "b"
	case s.IsTerminal():
		prefix = "t"
	case s.IsNonTerminal():
		prefix = "n"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

// Terminal literals and identifiers live in separate namespaces: a pattern
// chunk "Int" is a literal token, not the built-in type.
type symbolTable struct {
	id2Sym   map[string]Symbol
	lit2Sym  map[string]Symbol
	sym2Text map[Symbol]string

	// termTexts holds terminal literals in registration order; index is the
	// terminal's symbol number. The tokenizer's vocabulary scan depends on
	// this order for tie-breaking.
	termTexts []string

	nonTermTexts []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		id2Sym: map[string]Symbol{
			symbolNameInt:    SymbolInt,
			symbolNameFloat:  SymbolFloat,
			symbolNameString: SymbolString,
		},
		lit2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{
			SymbolInt:    symbolNameInt,
			SymbolFloat:  symbolNameFloat,
			SymbolString: symbolNameString,
		},
		termTexts:    []string{""}, // Nil
		nonTermTexts: []string{""}, // Nil
		nonTermNum:   symbolNumMin,
		termNum:      symbolNumMin,
	}
}

func (t *symbolTable) registerNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := t.id2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, t.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	t.nonTermNum++
	t.id2Sym[text] = sym
	t.sym2Text[sym] = text
	t.nonTermTexts = append(t.nonTermTexts, text)
	return sym, nil
}

func (t *symbolTable) registerTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := t.lit2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, t.termNum)
	if err != nil {
		return SymbolNil, err
	}
	t.termNum++
	t.lit2Sym[text] = sym
	t.sym2Text[sym] = text
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *symbolTable) toLiteralSymbol(text string) (Symbol, bool) {
	if sym, ok := t.lit2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (t *symbolTable) toSymbol(text string) (Symbol, bool) {
	if sym, ok := t.id2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (t *symbolTable) toText(sym Symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}
