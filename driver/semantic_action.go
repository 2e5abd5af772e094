package driver

import (
	json "github.com/goccy/go-json"

	"github.com/dokelabs/dokearley/grammar"
)

// Value is the output of a parse: either a scalar lifted from a token, a
// typed Resource, an untyped Dict, or an Array of child-captured values.
type Value interface {
	isValue()
}

type Integer int64

type Float float64

type String string

type Array []Value

// Resource is a typed record, ready to be mapped onto a host engine's data
// type.
type Resource struct {
	Type   string
	Fields map[string]Value
}

// Dict is an untyped field map. Productions without a type name produce one,
// with every captured placeholder propagated into it.
type Dict struct {
	Fields map[string]Value
}

func (Integer) isValue()  {}
func (Float) isValue()    {}
func (String) isValue()   {}
func (Array) isValue()    {}
func (Resource) isValue() {}
func (Dict) isValue()     {}

func (v Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string           `json:"type"`
		Fields map[string]Value `json:"fields"`
	}{
		Type:   v.Type,
		Fields: v.Fields,
	})
}

func (v Dict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Fields)
}

type evaluator struct {
	g        *grammar.Grammar
	children []string
}

func (e *evaluator) eval(t *tree) Value {
	if t.tok != nil {
		return tokenValue(t.tok)
	}

	out := t.prod.Out
	if out.Kind == grammar.OutputSpecKindPassThrough {
		return e.eval(t.children[0])
	}

	// The capture environment: one entry per RHS placeholder.
	env := map[string]Value{}
	for i, sym := range t.prod.RHS {
		if sym.Capture != "" {
			env[sym.Capture] = e.eval(t.children[i])
		}
	}

	switch out.Kind {
	case grammar.OutputSpecKindBareType:
		// A single captured dictionary is re-tagged instead of nested.
		if len(env) == 1 {
			for _, v := range env {
				if dict, ok := v.(Dict); ok {
					return Resource{
						Type:   out.TypeName,
						Fields: dict.Fields,
					}
				}
			}
		}
		return Resource{
			Type:   out.TypeName,
			Fields: env,
		}
	case grammar.OutputSpecKindRecord:
		return Resource{
			Type:   out.TypeName,
			Fields: e.buildFields(out, env),
		}
	default:
		return Dict{
			Fields: e.buildFields(out, env),
		}
	}
}

// buildFields propagates every capture, then lets the explicit field list
// overwrite or extend it. A spec {foo: bar} therefore binds foo and keeps
// bar; that matches the historical behavior and is deliberate.
func (e *evaluator) buildFields(out *grammar.OutputSpec, env map[string]Value) map[string]Value {
	fields := make(map[string]Value, len(env)+len(out.Fields))
	for name, v := range env {
		fields[name] = v
	}
	for _, f := range out.Fields {
		fields[f.Name] = exprValue(f.Value, env)
	}
	for _, cc := range out.Children {
		e.applyChildCapture(fields, cc)
	}
	return fields
}

func (e *evaluator) applyChildCapture(fields map[string]Value, cc grammar.ChildCapture) {
	ntName, _ := e.g.ToText(cc.NT)
	if cc.Many {
		values := Array{}
		for _, child := range e.children {
			v, err := Parse(e.g, child, ntName)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		fields[cc.Field] = values
		return
	}
	for _, child := range e.children {
		v, err := Parse(e.g, child, ntName)
		if err != nil {
			// A child that doesn't parse as this nonterminal stays
			// available to other captures.
			continue
		}
		fields[cc.Field] = v
		return
	}
}

func exprValue(expr grammar.ValueExpr, env map[string]Value) Value {
	switch expr.Kind {
	case grammar.ValueExprKindRef:
		return env[expr.Ref]
	case grammar.ValueExprKindInt:
		return Integer(expr.Int)
	case grammar.ValueExprKindFloat:
		return Float(expr.Float)
	default:
		return String(expr.Str)
	}
}

func tokenValue(tok *Token) Value {
	switch tok.Kind {
	case TokenKindInt:
		return Integer(tok.Int)
	case TokenKindFloat:
		return Float(tok.Float)
	case TokenKindString:
		return String(tok.Str)
	}
	return String(tok.Text)
}
