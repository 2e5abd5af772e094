package spec

import "testing"

func TestHighlight(t *testing.T) {
	src := `ItemEffect: "deal {amount:Int} damage" -> Damage { kind: "direct" }`
	spans := Highlight(src)

	expected := []struct {
		kind HighlightKind
		text string
	}{
		{HighlightKindLHS, "ItemEffect"},
		{HighlightKindOperator, ":"},
		{HighlightKindTerminal, "deal "},
		{HighlightKindPlaceholderName, "amount"},
		{HighlightKindPlaceholderType, "Int"},
		{HighlightKindTerminal, " damage"},
		{HighlightKindOperator, "->"},
		{HighlightKindOutputType, "Damage"},
		{HighlightKindOperator, "{"},
		{HighlightKindFieldName, "kind"},
		{HighlightKindOperator, ":"},
		{HighlightKindStringLiteral, `"direct"`},
		{HighlightKindOperator, "}"},
	}
	if len(spans) != len(expected) {
		t.Fatalf("unexpected span count\nwant: %v\ngot: %v (%+v)", len(expected), len(spans), spans)
	}
	for i, want := range expected {
		got := spans[i]
		if got.Kind != want.kind {
			t.Errorf("span %v: unexpected kind\nwant: %v\ngot: %v", i, want.kind, got.Kind)
		}
		if text := src[got.Start:got.End]; text != want.text {
			t.Errorf("span %v: unexpected text\nwant: %#v\ngot: %#v", i, want.text, text)
		}
	}
}

func TestHighlight_Disjunction(t *testing.T) {
	src := `Expr: DamageEffect | HealEffect`
	spans := Highlight(src)

	expected := []struct {
		kind HighlightKind
		text string
	}{
		{HighlightKindLHS, "Expr"},
		{HighlightKindOperator, ":"},
		{HighlightKindNonTerminal, "DamageEffect"},
		{HighlightKindOperator, "|"},
		{HighlightKindNonTerminal, "HealEffect"},
	}
	if len(spans) != len(expected) {
		t.Fatalf("unexpected span count\nwant: %v\ngot: %v (%+v)", len(expected), len(spans), spans)
	}
	for i, want := range expected {
		got := spans[i]
		if got.Kind != want.kind {
			t.Errorf("span %v: unexpected kind\nwant: %v\ngot: %v", i, want.kind, got.Kind)
		}
		if text := src[got.Start:got.End]; text != want.text {
			t.Errorf("span %v: unexpected text\nwant: %#v\ngot: %#v", i, want.text, text)
		}
	}
}
