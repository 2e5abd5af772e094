// Package dokearley builds parsers for small natural-language DSLs at
// runtime. A grammar definition ("dokedef") declares named categories and the
// human-readable patterns producing each; the compiled parser turns
// statements written in that DSL into typed Resources or untyped
// Dictionaries.
//
//	grammar := `
//	ItemEffect: "deal {amount:Int} damage" -> Damage
//	ItemEffect: "heal for {amount:Int}" -> Heal
//	Target: "self" -> Target { kind: "self" }
//	ItemEffect: "to {target:Target} : {effect:ItemEffect}" -> TargetedEffect
//	`
//	p, err := dokearley.FromDokedef(grammar)
//	if err != nil {
//		...
//	}
//	v, err := p.Parse("to self : heal for 7", "ItemEffect")
//	// v is Resource{Type: "TargetedEffect", Fields: ...}
package dokearley

import (
	"github.com/dokelabs/dokearley/driver"
	"github.com/dokelabs/dokearley/grammar"
	"github.com/dokelabs/dokearley/spec"
)

// Value is a parse result. The concrete types are Integer, Float, String,
// Resource, Dict, and Array.
type Value = driver.Value

type (
	Integer  = driver.Integer
	Float    = driver.Float
	String   = driver.String
	Array    = driver.Array
	Resource = driver.Resource
	Dict     = driver.Dict
)

// Dokearley is a parser compiled from a dokedef source. It is immutable and
// safe for concurrent Parse calls.
type Dokearley struct {
	gram *grammar.Grammar
}

// FromDokedef compiles a dokedef source into a parser.
func FromDokedef(src string) (*Dokearley, error) {
	ast, err := spec.Parse(src)
	if err != nil {
		return nil, err
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Dokearley{
		gram: gram,
	}, nil
}

// Parse reads one statement as the nonterminal named start.
func (d *Dokearley) Parse(input, start string) (Value, error) {
	return driver.Parse(d.gram, input, start)
}

// ParseWithChildren additionally supplies the statement's child statements,
// as split off by the outer block parser. They feed the output spec's '<'
// and '<*' captures.
func (d *Dokearley) ParseWithChildren(input, start string, children []string) (Value, error) {
	return driver.ParseWithChildren(d.gram, input, start, children)
}

// Grammar exposes the compiled grammar for the driver-level helpers.
func (d *Dokearley) Grammar() *grammar.Grammar {
	return d.gram
}
