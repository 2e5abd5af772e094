package dokearley

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/dokelabs/dokearley/driver"
	verr "github.com/dokelabs/dokearley/error"
)

func makeEngine(t *testing.T) *Dokearley {
	t.Helper()
	grammar := `
ItemEffect: "deal {amount:Int} damage" -> Damage
ItemEffect: "heal for {amount:Int}" -> Heal
ItemEffect: "apply {status:String}" -> ApplyStatus
ItemEffect: "to {target : Target} : {effect : ItemEffect}" -> TargetedEffect
Target: "self" -> Target { kind: "self" }
Target: "an ally" -> { kind: "ally" }
Action: "Do the following" -> Action { components <* ActionComponent }
ActionComponent: ItemEffect
Expr: ItemEffect
`
	p, err := FromDokedef(grammar)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDokearley_Parse(t *testing.T) {
	p := makeEngine(t)

	tests := []struct {
		caption string
		input   string
		start   string
		want    Value
	}{
		{
			caption: "basic damage",
			input:   "deal 7 damage",
			start:   "ItemEffect",
			want: Resource{
				Type:   "Damage",
				Fields: map[string]Value{"amount": Integer(7)},
			},
		},
		{
			caption: "nested targeted effect",
			input:   "to self : heal for 7",
			start:   "ItemEffect",
			want: Resource{
				Type: "TargetedEffect",
				Fields: map[string]Value{
					"target": Resource{
						Type:   "Target",
						Fields: map[string]Value{"kind": String("self")},
					},
					"effect": Resource{
						Type:   "Heal",
						Fields: map[string]Value{"amount": Integer(7)},
					},
				},
			},
		},
		{
			caption: "dictionary mode",
			input:   "an ally",
			start:   "Target",
			want: Dict{
				Fields: map[string]Value{"kind": String("ally")},
			},
		},
		{
			caption: "disjunction passes the child through",
			input:   "heal for 3",
			start:   "Expr",
			want: Resource{
				Type:   "Heal",
				Fields: map[string]Value{"amount": Integer(3)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			v, err := p.Parse(tt.input, tt.start)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(v, tt.want) {
				t.Fatalf("unexpected value\nwant: %#v\ngot: %#v", tt.want, v)
			}
		})
	}
}

func TestDokearley_ParseWithChildren(t *testing.T) {
	p := makeEngine(t)
	v, err := p.ParseWithChildren("Do the following", "Action", []string{
		"deal 3 damage",
		"heal for 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Resource{
		Type: "Action",
		Fields: map[string]Value{
			"components": Array{
				Resource{Type: "Damage", Fields: map[string]Value{"amount": Integer(3)}},
				Resource{Type: "Heal", Fields: map[string]Value{"amount": Integer(1)}},
			},
		},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value\nwant: %#v\ngot: %#v", want, v)
	}
}

func TestDokearley_ParseFailure(t *testing.T) {
	p := makeEngine(t)
	_, err := p.Parse("deal seven damage", "ItemEffect")
	if err == nil {
		t.Fatal("the input must be rejected")
	}
	var failure *driver.ParseFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("unexpected error type: %T (%v)", err, err)
	}
	if failure.Position != 5 {
		t.Fatalf("unexpected position\nwant: 5\ngot: %v", failure.Position)
	}
	if !reflect.DeepEqual(failure.Expected, []string{"Int"}) {
		t.Fatalf("unexpected expectations\nwant: [Int]\ngot: %v", failure.Expected)
	}
}

func TestDokearley_InvalidGrammar(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{caption: "a syntax error", src: `A "a"`},
		{caption: "a comment line", src: "# note\nA: \"a\""},
		{caption: "an undefined nonterminal", src: `A: "x {y:Missing}" -> X`},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := FromDokedef(tt.src)
			if err == nil {
				t.Fatal("an error must occur")
			}
			specErr := &verr.SpecError{}
			var specErrs verr.SpecErrors
			if !errors.As(err, &specErr) && !errors.As(err, &specErrs) {
				t.Fatalf("unexpected error type: %T (%v)", err, err)
			}
		})
	}
}

// Integer and string captures round-trip through a parse unchanged.
func TestDokearley_RoundTrip(t *testing.T) {
	p, err := FromDokedef(`A: "{x:Int}"` + "\n" + `B: "{x:String}"`)
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int64{0, 1, -1, 42, -9007199254740993, 9223372036854775807, -9223372036854775808} {
		v, err := p.Parse(fmt.Sprintf("%d", n), "A")
		if err != nil {
			t.Fatalf("parse failed for %d: %v", n, err)
		}
		want := Dict{Fields: map[string]Value{"x": Integer(n)}}
		if !reflect.DeepEqual(v, want) {
			t.Fatalf("unexpected value for %d\nwant: %#v\ngot: %#v", n, want, v)
		}
	}

	for _, s := range []string{"hello", "with space", `esc "q" and \`, "émoji 🔥"} {
		quoted := `"` + escapeString(s) + `"`
		v, err := p.Parse(quoted, "B")
		if err != nil {
			t.Fatalf("parse failed for %v: %v", quoted, err)
		}
		want := Dict{Fields: map[string]Value{"x": String(s)}}
		if !reflect.DeepEqual(v, want) {
			t.Fatalf("unexpected value for %v\nwant: %#v\ngot: %#v", quoted, want, v)
		}
	}
}

func escapeString(s string) string {
	var out []rune
	for _, c := range s {
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// A transparent rule is indistinguishable from parsing its child directly.
func TestDokearley_TransparentLaw(t *testing.T) {
	p, err := FromDokedef(`
A: B
B: "heal for {amount:Int}" -> Heal
`)
	if err != nil {
		t.Fatal(err)
	}
	viaA, err := p.Parse("heal for 7", "A")
	if err != nil {
		t.Fatal(err)
	}
	viaB, err := p.Parse("heal for 7", "B")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(viaA, viaB) {
		t.Fatalf("transparent rule mismatch\nvia A: %#v\nvia B: %#v", viaA, viaB)
	}
}

// The compiled grammar is immutable; concurrent parses must not interfere.
func TestDokearley_ConcurrentParse(t *testing.T) {
	p := makeEngine(t)
	want, err := p.Parse("to self : deal 3 damage", "ItemEffect")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v, err := p.Parse("to self : deal 3 damage", "ItemEffect")
				if err != nil {
					t.Error(err)
					return
				}
				if !reflect.DeepEqual(v, want) {
					t.Errorf("unexpected value: %#v", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDokearley_Emoji(t *testing.T) {
	p, err := FromDokedef(`
ItemEffect: "🔥 {amount:Int}" -> FireDamage
ItemEffect: "💀" -> ApplyStatus { status: "death" }
ItemEffect: "{target:Target} {effect:ItemEffect}" -> TargetedEffect
Target: "👹" -> Target { kind: "enemy" }
`)
	if err != nil {
		t.Fatal(err)
	}

	v, err := p.Parse("👹 🔥 10", "ItemEffect")
	if err != nil {
		t.Fatal(err)
	}
	want := Resource{
		Type: "TargetedEffect",
		Fields: map[string]Value{
			"target": Resource{
				Type:   "Target",
				Fields: map[string]Value{"kind": String("enemy")},
			},
			"effect": Resource{
				Type:   "FireDamage",
				Fields: map[string]Value{"amount": Integer(10)},
			},
		},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value\nwant: %#v\ngot: %#v", want, v)
	}

	v, err = p.Parse("💀", "ItemEffect")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, Resource{
		Type:   "ApplyStatus",
		Fields: map[string]Value{"status": String("death")},
	}) {
		t.Fatalf("unexpected value: %#v", v)
	}
}
