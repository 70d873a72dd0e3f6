package cleaner

import (
	"regexp"
	"strings"
)

var singleScriptRe = regexp.MustCompile(`[_^][A-Za-z0-9][A-Za-z0-9]`)

// spaceAfterSingleScript separates a one-character sub- or superscript from
// the character that follows it: x^ab becomes x^a b.
func spaceAfterSingleScript(text string) string {
	protected := protectedSpans(text)
	var spans []Span
	for _, m := range singleScriptRe.FindAllStringIndex(text, -1) {
		if isEscaped(text, m[0]) || inSpans(protected, m[0]) {
			continue
		}
		spans = append(spans, Span{Start: m[0] + 2, End: m[0] + 2, Replacement: " "})
	}
	return Splice(text, spans)
}

var spaceBeforePunctuationRe = regexp.MustCompile(`([^\\ \t\n])[ \t]+([.,;!?])(\s|$)`)

// removeWhitespaceBeforePunctuation joins sentence punctuation to the word
// before it. Punctuation glued to the next token, as in " .5", is left alone.
func removeWhitespaceBeforePunctuation(text string) string {
	return spaceBeforePunctuationRe.ReplaceAllString(text, "${1}${2}${3}")
}

// replaceDoubleNbsp turns ~~ into \quad.
func replaceDoubleNbsp(text string) string {
	var spans []Span
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '~' && text[i+1] == '~' && !isEscaped(text, i) {
			spans = append(spans, Span{Start: i, End: i + 2, Replacement: `\quad `})
			i++
		}
	}
	return Splice(text, spans)
}

// collapseNbspSpace drops a tie that already sits next to a blank.
func collapseNbspSpace(text string) string {
	var spans []Span
	for i := 0; i < len(text); i++ {
		if text[i] != '~' || isEscaped(text, i) {
			continue
		}
		before := i > 0 && (text[i-1] == ' ' || text[i-1] == '\t')
		after := i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t')
		if before || after {
			spans = append(spans, Span{Start: i, End: i + 1})
		}
	}
	return Splice(text, spans)
}

var referenceSpaceRe = regexp.MustCompile(`([^\s~\\])([ \t]*\n?[ \t]*)(\\(?:ref|eqref|pageref|autoref|cref|Cref|cite[a-zA-Z]*)\*?[\[{])`)

// addNbspBeforeReference ties references and citations to the preceding word.
// A reference at the start of a line is pulled up to the previous line when
// that line ends in a word or punctuation and holds no comment.
func addNbspBeforeReference(text string) string {
	var spans []Span
	for _, m := range referenceSpaceRe.FindAllStringSubmatchIndex(text, -1) {
		gapStart, gapEnd := m[4], m[5]
		if gapStart == gapEnd {
			continue
		}
		if strings.IndexByte(text[gapStart:gapEnd], '\n') >= 0 {
			if !endsSentenceWord(text[m[2]]) || hasComment(text, gapStart) {
				continue
			}
		}
		spans = append(spans, Span{Start: gapStart, End: gapEnd, Replacement: "~"})
	}
	return Splice(text, spans)
}

func endsSentenceWord(c byte) bool {
	return isASCIILetter(c) || ('0' <= c && c <= '9') || strings.IndexByte(".,;:)", c) >= 0
}

// hasComment reports whether the line holding pos has an unescaped % before pos.
func hasComment(text string, pos int) bool {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	for i := lineStart; i < pos; i++ {
		if text[i] == '%' && !isEscaped(text, i) {
			return true
		}
	}
	return false
}

var (
	colonEqualsRe = regexp.MustCompile(`:[ \t]*=[ \t]*`)
	equalsColonRe = regexp.MustCompile(`=[ \t]*:[ \t]*`)
)

// replaceColonEquals uses the mathtools definition symbols for := and =:.
func replaceColonEquals(text string) string {
	text = colonEqualsRe.ReplaceAllString(text, `\coloneqq `)
	return equalsColonRe.ReplaceAllString(text, `\eqqcolon `)
}

var percentageRe = regexp.MustCompile(`(^|[^\w.\\])([+-]?(?:[0-9]*\.)?[0-9]+)[ \t]*\\%`)

// siPercentage rewrites 50\% as \SI{50}{\%}.
func siPercentage(text string) string {
	return percentageRe.ReplaceAllString(text, `${1}\SI{${2}}{\%}`)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '~'
}

func isComparison(c byte) bool {
	return strings.IndexByte("=<>!", c) >= 0
}

// addSpacesAroundEquals puts one space on each side of a bare equality sign.
// The alignment marker of &= and =& stays attached to the sign.
func addSpacesAroundEquals(text string) string {
	protected := protectedSpans(text)
	var spans []Span
	for i := 0; i < len(text); i++ {
		if text[i] != '=' || isEscaped(text, i) || inSpans(protected, i) {
			continue
		}
		// <=, >= and != are left as written.
		if i > 0 && strings.IndexByte("<>!", text[i-1]) >= 0 && !isEscaped(text, i-1) {
			continue
		}

		if i > 0 {
			left := text[i-1]
			switch {
			case left == '&' && !isEscaped(text, i-1):
				if i > 1 && !isBlank(text[i-2]) {
					spans = append(spans, Span{Start: i - 1, End: i - 1, Replacement: " "})
				}
			case !isBlank(left) && !isComparison(left):
				spans = append(spans, Span{Start: i, End: i, Replacement: " "})
			}
		}

		if i+1 < len(text) {
			right := text[i+1]
			switch {
			case right == '&':
				if i+2 < len(text) && !isBlank(text[i+2]) {
					spans = append(spans, Span{Start: i + 2, End: i + 2, Replacement: " "})
				}
			case !isBlank(right) && !isComparison(right):
				spans = append(spans, Span{Start: i + 1, End: i + 1, Replacement: " "})
			}
		}
	}
	SortSpans(spans)
	return Splice(text, spans)
}
