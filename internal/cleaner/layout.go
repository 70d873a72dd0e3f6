package cleaner

import (
	"regexp"
	"strings"
)

var doubleBackslashRe = regexp.MustCompile(`\\\\(\*?(?:\[[^\]\n]*\])?)[ \t]*([^\n \t])`)

// linebreakAfterDoubleBackslash ends the source line after every \\ line
// break. A star or a [length] argument stays with the \\.
func linebreakAfterDoubleBackslash(text string) string {
	return doubleBackslashRe.ReplaceAllString(text, "\\\\${1}\n${2}")
}

// mathEnvironments take no optional argument, so a [ after their \begin is
// content.
var mathEnvironments = map[string]bool{
	"equation": true, "equation*": true,
	"align": true, "align*": true,
	"gather": true, "gather*": true,
	"multline": true, "multline*": true,
	"eqnarray": true, "eqnarray*": true,
	"displaymath": true, "math": true,
}

var environmentMarkerRe = regexp.MustCompile(`\\(begin|end)\{([^}\n]*)\}|\\[\[\]]`)

// linebreakAroundEnvironments puts \begin, \end, \[ and \] on lines of their
// own. Arguments of \begin stay on its line, and \\[len] is not display math.
func linebreakAroundEnvironments(text string) string {
	var spans []Span
	for _, m := range environmentMarkerRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if isEscaped(text, start) {
			continue
		}

		before := start
		for before > 0 && text[before-1] == ' ' {
			before--
		}
		alreadySplit := len(spans) > 0 && spans[len(spans)-1].End >= before
		if before > 0 && text[before-1] != '\n' && !alreadySplit {
			spans = append(spans, Span{Start: before, End: start, Replacement: "\n"})
		}

		after := end
		for after < len(text) && text[after] == ' ' {
			after++
		}
		if after == len(text) || text[after] == '\n' {
			continue
		}
		if m[2] >= 0 && text[m[2]:m[3]] == "begin" {
			next := text[after]
			if next == '{' || (next == '[' && !mathEnvironments[text[m[4]:m[5]]]) {
				continue
			}
		}
		spans = append(spans, Span{Start: end, End: after, Replacement: "\n"})
	}
	return Splice(text, spans)
}

var (
	specPullRe = regexp.MustCompile(`\\begin\{([^}\n]*)\}[ \t]*\n?[ \t]*\[[^\]\n]*\]`)
	specPushRe = regexp.MustCompile(`(\\begin\{[^}\n]*\}\[[^\]\n]*\])[ \t]*([^\n \t\[{])`)
)

// specOnEnvironmentLine moves an optional [spec] back onto the line of its
// \begin and starts the environment body on the next line.
func specOnEnvironmentLine(text string) string {
	var spans []Span
	for _, m := range specPullRe.FindAllStringSubmatchIndex(text, -1) {
		if mathEnvironments[text[m[2]:m[3]]] {
			continue
		}
		closeBrace := m[3]
		bracket := closeBrace + 1 + strings.IndexByte(text[closeBrace+1:m[1]], '[')
		spans = append(spans, Span{Start: closeBrace + 1, End: bracket})
	}
	text = Splice(text, spans)
	return specPushRe.ReplaceAllString(text, "${1}\n${2}")
}

var labelRe = regexp.MustCompile(`(\\begin\{[^}\n]*\}(?:\[[^\]\n]*\])?|` +
	`\\(?:chapter|section|subsection|subsubsection|paragraph)\*?(?:\[[^\]\n]*\])?\{(?:[^{}\n]|\{[^{}\n]*\})*\})` +
	`\s+(\\label\{[^}\n]*\})`)

// labelOnOwnerLine attaches a \label to the environment or heading it
// belongs to.
func labelOnOwnerLine(text string) string {
	return labelRe.ReplaceAllString(text, "${1}${2}")
}

var (
	tabularJoinRe = regexp.MustCompile(`(\\begin\{tabular\}(?:\[[^\]\n]*\])?)\s*(\{(?:[^{}\n]|\{[^{}\n]*\})*\})`)
	tabularPushRe = regexp.MustCompile(`(\\begin\{tabular\}(?:\[[^\]\n]*\])?\{(?:[^{}\n]|\{[^{}\n]*\})*\})[ \t]*([^\n \t])`)
)

// tabularColumnSpec attaches the column specification to \begin{tabular}
// and moves the first row onto its own line.
func tabularColumnSpec(text string) string {
	text = tabularJoinRe.ReplaceAllString(text, "${1}${2}")
	return tabularPushRe.ReplaceAllString(text, "${1}\n${2}")
}
