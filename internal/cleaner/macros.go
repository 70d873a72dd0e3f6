package cleaner

import (
	"regexp"
	"strings"
)

var fontCommandRe = regexp.MustCompile(`\{\\(bf|it|rm|sc|sf|sl|tt|em)\s+`)

var fontCommands = map[string]string{
	"bf": "textbf",
	"it": "textit",
	"rm": "textrm",
	"sc": "textsc",
	"sf": "textsf",
	"sl": "textsl",
	"tt": "texttt",
	"em": "emph",
}

// replaceObsoleteFontCommands rewrites {\bf x} to \textbf{x}. A group that
// is the argument of a control word keeps an outer brace pair so the
// command still receives a single argument.
func replaceObsoleteFontCommands(text string) (string, []Warning) {
	var spans []Span
	var warnings []Warning
	for _, m := range fontCommandRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if isEscaped(text, start) {
			continue
		}
		close, err := FindMatching(text, end, '{', '}', Forward)
		if err != nil {
			warnings = append(warnings, newWarning(text, start, "font group is never closed"))
			continue
		}
		cmd := fontCommands[text[m[2]:m[3]]]
		if followsControlWord(text, start) {
			spans = append(spans,
				Span{Start: start, End: end, Replacement: `{\` + cmd + `{`},
				Span{Start: close + 1, End: close + 1, Replacement: "}"},
			)
			continue
		}
		spans = append(spans, Span{Start: start, End: end, Replacement: `\` + cmd + `{`})
	}
	SortSpans(spans)
	return Splice(text, spans), warnings
}

var (
	ellipsisRe = regexp.MustCompile(`\.\.\.([A-Za-z]?)`)
	cdotsRe    = regexp.MustCompile(`\\cdots([^A-Za-z]|$)`)
)

// replaceDots uses \dots for literal ellipses and for \cdots. A letter right
// after the ellipsis is separated by a space so it does not extend the
// command name.
func replaceDots(text string) string {
	text = ellipsisRe.ReplaceAllStringFunc(text, func(m string) string {
		if len(m) > 3 {
			return `\dots ` + m[3:]
		}
		return `\dots`
	})
	return cdotsRe.ReplaceAllString(text, `\dots${1}`)
}

var defRe = regexp.MustCompile(`\\def\\([A-Za-z]+)[ \t]*\{`)

// replaceDef turns \def\name{ into \newcommand{\name}{. Definitions with a
// parameter text are not matched.
func replaceDef(text string) string {
	return defRe.ReplaceAllString(text, `\newcommand{\${1}}{`)
}

var operatorKeywordRe = regexp.MustCompile(`max|min|log|sin|cos|exp`)

// escapeOperatorKeywords adds the missing backslash to bare operator names.
// Prose words are not distinguished from math and get escaped as well.
func escapeOperatorKeywords(text string) string {
	protected := protectedSpans(text)
	var spans []Span
	for _, m := range operatorKeywordRe.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if start > 0 && (isASCIILetter(text[start-1]) || text[start-1] == '\\') {
			continue
		}
		if end < len(text) && isASCIILetter(text[end]) {
			continue
		}
		if inSpans(protected, start) {
			continue
		}
		spans = append(spans, Span{Start: start, End: start, Replacement: `\`})
	}
	return Splice(text, spans)
}

func replaceCenterline(text string) string {
	return strings.ReplaceAll(text, `\centerline{`, `{\centering `)
}

var eqnarrayRe = regexp.MustCompile(`\\(begin|end)\{eqnarray(\*?)\}`)

func replaceEqnarray(text string) string {
	return eqnarrayRe.ReplaceAllString(text, `\${1}{align${2}}`)
}
