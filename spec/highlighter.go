package spec

// The highlighter classifies dokedef source into spans for colored display.
// It runs the same lexer as the parser but tolerates any token order, so a
// half-written grammar still highlights up to the first lexical error.

type HighlightKind string

const (
	HighlightKindLHS             = HighlightKind("lhs")
	HighlightKindTerminal        = HighlightKind("terminal")
	HighlightKindPlaceholderName = HighlightKind("placeholder name")
	HighlightKindPlaceholderType = HighlightKind("placeholder type")
	HighlightKindNonTerminal     = HighlightKind("non-terminal")
	HighlightKindOutputType      = HighlightKind("output type")
	HighlightKindFieldName       = HighlightKind("field name")
	HighlightKindIdentifier      = HighlightKind("identifier")
	HighlightKindStringLiteral   = HighlightKind("string")
	HighlightKindNumberLiteral   = HighlightKind("number")
	HighlightKindOperator        = HighlightKind("operator")
)

type HighlightSpan struct {
	Kind  HighlightKind
	Start int
	End   int
}

type hlState int

const (
	hlStateLHS hlState = iota
	hlStateAfterLHS
	hlStateBody
	hlStateAfterArrow
	hlStateFields
	hlStateFieldValue
	hlStateCaptureNT
)

// Highlight classifies src. Lexical errors end the span list early but are
// not reported; callers wanting validation use Parse.
func Highlight(src string) []*HighlightSpan {
	lex := newLexer(src)
	var spans []*HighlightSpan
	state := hlStateLHS
	for {
		tok, err := lex.next()
		if err != nil || tok.kind == tokenKindEOF {
			return spans
		}

		switch tok.kind {
		case tokenKindNewline:
			state = hlStateLHS
			continue
		case tokenKindInvalid:
			continue
		}

		switch state {
		case hlStateLHS:
			if tok.kind == tokenKindID {
				spans = append(spans, span(HighlightKindLHS, tok))
				state = hlStateAfterLHS
			}
		case hlStateAfterLHS:
			if tok.kind == tokenKindColon {
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateBody
			}
		case hlStateBody:
			switch tok.kind {
			case tokenKindPattern:
				spans = append(spans, patternSpans(src, tok)...)
			case tokenKindID:
				spans = append(spans, span(HighlightKindNonTerminal, tok))
			case tokenKindOr:
				spans = append(spans, span(HighlightKindOperator, tok))
			case tokenKindArrow:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateAfterArrow
			}
		case hlStateAfterArrow:
			switch tok.kind {
			case tokenKindID:
				spans = append(spans, span(HighlightKindOutputType, tok))
			case tokenKindLBrace:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateFields
			}
		case hlStateFields:
			switch tok.kind {
			case tokenKindID:
				spans = append(spans, span(HighlightKindFieldName, tok))
			case tokenKindColon:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateFieldValue
			case tokenKindCaptureOne, tokenKindCaptureMany:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateCaptureNT
			case tokenKindComma:
				spans = append(spans, span(HighlightKindOperator, tok))
			case tokenKindRBrace:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateBody
			}
		case hlStateFieldValue:
			switch tok.kind {
			case tokenKindID:
				spans = append(spans, span(HighlightKindIdentifier, tok))
			case tokenKindPattern:
				spans = append(spans, span(HighlightKindStringLiteral, tok))
			case tokenKindInt, tokenKindFloat:
				spans = append(spans, span(HighlightKindNumberLiteral, tok))
			case tokenKindComma:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateFields
			case tokenKindRBrace:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateBody
			}
		case hlStateCaptureNT:
			switch tok.kind {
			case tokenKindID:
				spans = append(spans, span(HighlightKindNonTerminal, tok))
			case tokenKindComma:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateFields
			case tokenKindRBrace:
				spans = append(spans, span(HighlightKindOperator, tok))
				state = hlStateBody
			}
		}
	}
}

func span(kind HighlightKind, tok *token) *HighlightSpan {
	return &HighlightSpan{
		Kind:  kind,
		Start: tok.start,
		End:   tok.end,
	}
}

// patternSpans splits a quoted pattern into terminal text and placeholder
// name/type spans, working on the raw source bytes between the quotes.
func patternSpans(src string, tok *token) []*HighlightSpan {
	var spans []*HighlightSpan
	begin := tok.start + 1
	end := tok.end - 1
	litStart := begin
	i := begin
	for i < end {
		switch src[i] {
		case '\\':
			i += 2
		case '{':
			if litStart < i {
				spans = append(spans, &HighlightSpan{Kind: HighlightKindTerminal, Start: litStart, End: i})
			}
			nameStart := i + 1
			colon := -1
			j := nameStart
			for j < end && src[j] != '}' {
				if src[j] == ':' && colon < 0 {
					colon = j
				}
				j++
			}
			if colon >= 0 {
				s, e := trimRange(src, nameStart, colon)
				spans = append(spans, &HighlightSpan{Kind: HighlightKindPlaceholderName, Start: s, End: e})
				s, e = trimRange(src, colon+1, j)
				spans = append(spans, &HighlightSpan{Kind: HighlightKindPlaceholderType, Start: s, End: e})
			}
			if j < end {
				j++
			}
			i = j
			litStart = i
		default:
			i++
		}
	}
	if litStart < end {
		spans = append(spans, &HighlightSpan{Kind: HighlightKindTerminal, Start: litStart, End: end})
	}
	return spans
}

func trimRange(src string, start, end int) (int, int) {
	for start < end && (src[start] == ' ' || src[start] == '\t') {
		start++
	}
	for end > start && (src[end-1] == ' ' || src[end-1] == '\t') {
		end--
	}
	return start, end
}
