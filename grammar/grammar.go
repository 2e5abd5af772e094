package grammar

import (
	"strings"

	verr "github.com/dokelabs/dokearley/error"
	"github.com/dokelabs/dokearley/spec"
)

// Grammar is a compiled dokedef. It is immutable after Build and safe to
// share between concurrent parses.
type Grammar struct {
	symTab   *symbolTable
	prods    *productionSet
	nullable *nullableSet
}

func (g *Grammar) ToSymbol(text string) (Symbol, bool) {
	return g.symTab.toSymbol(text)
}

func (g *Grammar) ToText(sym Symbol) (string, bool) {
	return g.symTab.toText(sym)
}

// ToLiteralSymbol resolves a terminal literal. Literals live in their own
// namespace, separate from nonterminal and built-in type names.
func (g *Grammar) ToLiteralSymbol(text string) (Symbol, bool) {
	return g.symTab.toLiteralSymbol(text)
}

func (g *Grammar) ProductionsFor(lhs Symbol) []*Production {
	prods, _ := g.prods.findByLHS(lhs)
	return prods
}

func (g *Grammar) Production(num int) (*Production, bool) {
	return g.prods.byNum(num)
}

func (g *Grammar) Productions() []*Production {
	return g.prods.getAllProductions()
}

func (g *Grammar) IsNullable(sym Symbol) bool {
	return g.nullable.isNullable(sym)
}

// TerminalTexts returns the literal vocabulary in registration order. Index 0
// is the nil symbol and is empty.
func (g *Grammar) TerminalTexts() []string {
	return g.symTab.termTexts
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if len(b.AST.Productions) == 0 {
		return nil, &verr.SpecError{
			Cause: SemErrNoProduction,
		}
	}

	symTab := newSymbolTable()
	for _, prod := range b.AST.Productions {
		if isBuiltinTypeName(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrReservedTypeName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		_, err := symTab.registerNonTerminalSymbol(prod.LHS)
		if err != nil {
			return nil, err
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prods := newProductionSet()
	for _, prodNode := range b.AST.Productions {
		lhsSym, _ := symTab.toSymbol(prodNode.LHS)

		if prodNode.Alternatives != nil {
			b.genPassThroughProductions(symTab, prods, lhsSym, prodNode)
			continue
		}

		rhs, ok := b.genRHS(symTab, prodNode)
		if !ok {
			continue
		}
		out, ok := b.genOutputSpec(symTab, prodNode, rhs)
		if !ok {
			continue
		}
		prods.append(&Production{
			LHS: lhsSym,
			RHS: rhs,
			Out: out,
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		symTab:   symTab,
		prods:    prods,
		nullable: genNullableSet(prods),
	}, nil
}

// genPassThroughProductions expands a disjunction into one production per
// alternative whose output is the child's value unchanged.
func (b *GrammarBuilder) genPassThroughProductions(symTab *symbolTable, prods *productionSet, lhsSym Symbol, prodNode *spec.ProductionNode) {
	for _, alt := range prodNode.Alternatives {
		altSym, ok := symTab.toSymbol(alt)
		if !ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrUnknownSymbol,
				Detail: alt,
				Row:    prodNode.Pos.Row,
				Col:    prodNode.Pos.Col,
			})
			continue
		}
		prods.append(&Production{
			LHS: lhsSym,
			RHS: []RHSSymbol{{Sym: altSym}},
			Out: &OutputSpec{Kind: OutputSpecKindPassThrough},
		})
	}
}

func (b *GrammarBuilder) genRHS(symTab *symbolTable, prodNode *spec.ProductionNode) ([]RHSSymbol, bool) {
	var rhs []RHSSymbol
	names := map[string]struct{}{}
	ok := true
	for _, elem := range prodNode.Elements {
		if elem.Name == "" {
			// A literal run is tokenized once here: whitespace splits it
			// into the terminal chunks the input tokenizer will match.
			for _, chunk := range strings.Fields(elem.Literal) {
				sym, err := symTab.registerTerminalSymbol(chunk)
				if err != nil {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  SemErrUnknownSymbol,
						Detail: err.Error(),
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					ok = false
					continue
				}
				rhs = append(rhs, RHSSymbol{Sym: sym})
			}
			continue
		}

		if _, dup := names[elem.Name]; dup {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrDuplicatePlaceholder,
				Detail: elem.Name,
				Row:    elem.Pos.Row,
				Col:    elem.Pos.Col,
			})
			ok = false
			continue
		}
		names[elem.Name] = struct{}{}

		typSym, found := symTab.toSymbol(elem.Type)
		if !found {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrUnknownSymbol,
				Detail: elem.Type,
				Row:    elem.Pos.Row,
				Col:    elem.Pos.Col,
			})
			ok = false
			continue
		}
		rhs = append(rhs, RHSSymbol{Sym: typSym, Capture: elem.Name})
	}
	return rhs, ok
}

func (b *GrammarBuilder) genOutputSpec(symTab *symbolTable, prodNode *spec.ProductionNode, rhs []RHSSymbol) (*OutputSpec, bool) {
	placeholders := map[string]struct{}{}
	for _, sym := range rhs {
		if sym.Capture != "" {
			placeholders[sym.Capture] = struct{}{}
		}
	}

	specNode := prodNode.Spec
	if specNode == nil {
		return &OutputSpec{Kind: OutputSpecKindDict}, true
	}
	if !specNode.Braced {
		return &OutputSpec{
			Kind:     OutputSpecKindBareType,
			TypeName: specNode.TypeName,
		}, true
	}

	out := &OutputSpec{
		Kind:     OutputSpecKindRecord,
		TypeName: specNode.TypeName,
	}
	if specNode.TypeName == "" {
		out.Kind = OutputSpecKindDict
	}

	ok := true
	fieldNames := map[string]struct{}{}
	for _, field := range specNode.Fields {
		if _, dup := fieldNames[field.Name]; dup {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrDuplicateOutputField,
				Detail: field.Name,
				Row:    field.Pos.Row,
				Col:    field.Pos.Col,
			})
			ok = false
			continue
		}
		fieldNames[field.Name] = struct{}{}

		if field.CaptureNT != "" {
			ntSym, found := symTab.toSymbol(field.CaptureNT)
			if !found {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  SemErrUnknownSymbol,
					Detail: field.CaptureNT,
					Row:    field.Pos.Row,
					Col:    field.Pos.Col,
				})
				ok = false
				continue
			}
			if ntSym.IsBuiltin() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  SemErrBuiltinChildCapture,
					Detail: field.CaptureNT,
					Row:    field.Pos.Row,
					Col:    field.Pos.Col,
				})
				ok = false
				continue
			}
			out.Children = append(out.Children, ChildCapture{
				Field: field.Name,
				NT:    ntSym,
				Many:  field.Many,
			})
			continue
		}

		expr, exprOK := b.genValueExpr(field, placeholders)
		if !exprOK {
			ok = false
			continue
		}
		out.Fields = append(out.Fields, OutField{
			Name:  field.Name,
			Value: expr,
		})
	}
	return out, ok
}

func (b *GrammarBuilder) genValueExpr(field *spec.FieldNode, placeholders map[string]struct{}) (ValueExpr, bool) {
	v := field.Value
	switch v.Kind {
	case spec.ValueKindRef:
		if _, found := placeholders[v.Ref]; !found {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  SemErrUnknownPlaceholderRef,
				Detail: v.Ref,
				Row:    v.Pos.Row,
				Col:    v.Pos.Col,
			})
			return ValueExpr{}, false
		}
		return ValueExpr{Kind: ValueExprKindRef, Ref: v.Ref}, true
	case spec.ValueKindInt:
		return ValueExpr{Kind: ValueExprKindInt, Int: v.Int}, true
	case spec.ValueKindFloat:
		return ValueExpr{Kind: ValueExprKindFloat, Float: v.Float}, true
	default:
		return ValueExpr{Kind: ValueExprKindString, Str: v.Str}, true
	}
}

func isBuiltinTypeName(name string) bool {
	switch name {
	case symbolNameInt, symbolNameFloat, symbolNameString:
		return true
	}
	return false
}
