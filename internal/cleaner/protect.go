package cleaner

import (
	"regexp"
	"sort"
)

// protectedArgRe matches commands whose argument is a key, a file name, a URL
// or upright text. Spacing and keyword rules must not touch those.
var protectedArgRe = regexp.MustCompile(`\\(?:label|ref|eqref|pageref|autoref|cref|Cref|cite[a-zA-Z]*|` +
	`includegraphics|graphicspath|lstinputlisting|input|include|includeonly|url|href|usepackage|` +
	`documentclass|bibliography|bibliographystyle|operatorname|text|mathrm|mbox|begin|end)` +
	`\*?(?:\[[^\]\n]*\])?\{(?:[^{}]|\{[^{}]*\})*\}`)

// protectedSpans returns the sorted [start, end) ranges of protected
// command arguments in text.
func protectedSpans(text string) [][]int {
	return protectedArgRe.FindAllStringIndex(text, -1)
}

// inSpans reports whether pos lies inside one of the sorted spans.
func inSpans(spans [][]int, pos int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i][1] > pos })
	return i < len(spans) && spans[i][0] <= pos
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// followsControlWord reports whether a control word such as \foo ends
// right before pos.
func followsControlWord(text string, pos int) bool {
	i := pos
	for i > 0 && isASCIILetter(text[i-1]) {
		i--
	}
	return i < pos && i > 0 && text[i-1] == '\\' && !isEscaped(text, i-1)
}
