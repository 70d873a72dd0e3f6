package cleaner

import (
	"regexp"
	"strings"

	"texclean/internal/logger"
)

// scanDollars returns the offsets of unescaped single $ markers and of
// unescaped $$ markers.
func scanDollars(text string) (singles, doubles []int) {
	for i := 0; i < len(text); i++ {
		if text[i] != '$' || isEscaped(text, i) {
			continue
		}
		if i+1 < len(text) && text[i+1] == '$' {
			doubles = append(doubles, i)
			i++
			continue
		}
		singles = append(singles, i)
	}
	return singles, doubles
}

// replaceDoubleDollar rewrites $$...$$ display math to \[...\]. Markers are
// paired by position; with an odd count nothing is rewritten.
func replaceDoubleDollar(text string) (string, []Warning) {
	_, doubles := scanDollars(text)
	if len(doubles)%2 == 1 {
		last := doubles[len(doubles)-1]
		return text, []Warning{newWarning(text, last, ErrUnbalancedDoubleDelimiter.Error())}
	}

	spans := make([]Span, 0, len(doubles)/2)
	for i := 0; i < len(doubles); i += 2 {
		open, close := doubles[i], doubles[i+1]
		body := strings.TrimSpace(text[open+2 : close])
		spans = append(spans, Span{Start: open, End: close + 2, Replacement: `\[` + body + `\]`})
	}
	return Splice(text, spans), nil
}

// replaceInlineDollar rewrites $...$ to \(...\).
func replaceInlineDollar(text string) (string, []Warning) {
	singles, _ := scanDollars(text)
	if len(singles)%2 == 1 {
		last := singles[len(singles)-1]
		return text, []Warning{newWarning(text, last, "odd number of inline math delimiters")}
	}

	spans := make([]Span, 0, len(singles))
	for i := 0; i < len(singles); i += 2 {
		spans = append(spans,
			Span{Start: singles[i], End: singles[i] + 1, Replacement: `\(`},
			Span{Start: singles[i+1], End: singles[i+1] + 1, Replacement: `\)`},
		)
	}
	return Splice(text, spans), nil
}

const sentencePunctuation = ".,;!?"

var punctuationBeforeParenCloseRe = regexp.MustCompile(`(^|[^\\])([.,;!?])\\\)`)

// movePunctuationOutsideMath moves sentence punctuation written just before
// the end of inline math to just after it.
func movePunctuationOutsideMath(text string) (string, []Warning) {
	text = punctuationBeforeParenCloseRe.ReplaceAllString(text, `${1}\)${2}`)

	singles, _ := scanDollars(text)
	if len(singles)%2 == 1 {
		last := singles[len(singles)-1]
		return text, []Warning{newWarning(text, last, "odd number of inline math delimiters")}
	}

	var spans []Span
	for i := 1; i < len(singles); i += 2 {
		open, close := singles[i-1], singles[i]
		p := close - 1
		if p-1 <= open || strings.IndexByte(sentencePunctuation, text[p]) < 0 || isEscaped(text, p) {
			continue
		}
		spans = append(spans, Span{Start: p, End: close + 1, Replacement: "$" + text[p:p+1]})
	}
	return Splice(text, spans), nil
}

var overRe = regexp.MustCompile(`\\over(?:[^A-Za-z]|$)`)

// replaceOver turns {num \over den} into \frac{num}{den}. When the groups of
// two candidates overlap, only the first one found is converted.
func replaceOver(text string) (string, []Warning) {
	const pivot = `\over`

	var spans []Span
	var warnings []Warning
	end := 0
	for _, m := range overRe.FindAllStringIndex(text, -1) {
		loc := m[0]
		if isEscaped(text, loc) {
			continue
		}
		open, err := FindMatching(text, loc-1, '{', '}', Backward)
		if err != nil {
			warnings = append(warnings, newWarning(text, loc, `could not convert \over to \frac: `+err.Error()))
			continue
		}
		close, err := FindMatching(text, loc+len(pivot), '{', '}', Forward)
		if err != nil {
			warnings = append(warnings, newWarning(text, loc, `could not convert \over to \frac: `+err.Error()))
			continue
		}
		if open < end {
			logger.Debug(`nested \over left in place`, logger.Int("offset", loc))
			continue
		}

		num := strings.TrimSpace(text[open+1 : loc])
		den := strings.TrimSpace(text[loc+len(pivot) : close])
		spans = append(spans, Span{Start: open, End: close + 1, Replacement: `\frac{` + num + `}{` + den + `}`})
		end = close + 1
	}
	return Splice(text, spans), warnings
}

// sizedOpeners are the commands that can precede an opening paren.
var sizedOpeners = []string{`\biggl`, `\Biggl`, `\bigl`, `\Bigl`, `\bigg`, `\Bigg`, `\left`, `\big`, `\Big`}

// bracePoweredParens wraps a parenthesized base of an exponent in braces,
// (a+b)^n becoming {(a+b)}^n. A sized opener is pulled inside the group.
func bracePoweredParens(text string) (string, []Warning) {
	var spans []Span
	var warnings []Warning
	for i := 0; i+1 < len(text); i++ {
		if text[i] != ')' || text[i+1] != '^' || isEscaped(text, i) {
			continue
		}
		open, err := FindMatching(text, i-1, '(', ')', Backward)
		if err != nil {
			warnings = append(warnings, newWarning(text, i, "no opening parenthesis for exponent base"))
			continue
		}
		at := open
		for _, s := range sizedOpeners {
			if strings.HasSuffix(text[:open], s) {
				at = open - len(s)
				break
			}
		}
		spans = append(spans,
			Span{Start: at, End: at, Replacement: "{"},
			Span{Start: i + 1, End: i + 1, Replacement: "}"},
		)
	}
	SortSpans(spans)
	return Splice(text, spans), warnings
}
