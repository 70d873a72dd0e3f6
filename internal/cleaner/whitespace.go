package cleaner

import (
	"regexp"
	"strings"
	"unicode"
)

// removeComments drops comment-only lines, newline included, and strips
// trailing comments from the remaining ones.
func removeComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "%") {
			continue
		}
		kept = append(kept, removeInlineComment(line))
	}
	return strings.Join(kept, "\n")
}

// removeInlineComment cuts line at its first unescaped % and trims the
// whitespace left in front of it.
func removeInlineComment(line string) string {
	i := 0
	for i < len(line) {
		idx := strings.IndexByte(line[i:], '%')
		if idx == -1 {
			return line
		}
		pos := i + idx
		if isEscaped(line, pos) {
			i = pos + 1
			continue
		}
		return strings.TrimRight(line[:pos], " \t")
	}
	return line
}

func removeTrailingWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

var (
	multipleNewlinesRe = regexp.MustCompile(`\n{4,}`)
	multipleSpacesRe   = regexp.MustCompile(`([^\n ]) {2,}`)
)

// removeMultipleNewlines keeps at most two consecutive blank lines.
func removeMultipleNewlines(text string) string {
	return multipleNewlinesRe.ReplaceAllString(text, "\n\n\n")
}

// removeMultipleSpaces collapses inner runs of spaces. Leading indentation
// is not preceded by a non-space character and so survives.
func removeMultipleSpaces(text string) string {
	return multipleSpacesRe.ReplaceAllString(text, "${1} ")
}

var (
	spaceAfterOpenBraceRe   = regexp.MustCompile(`\{[ \t]+`)
	spaceBeforeCloseBraceRe = regexp.MustCompile(`([^ \t\n\\])[ \t]+\}`)
	spaceAfterOpenParenRe   = regexp.MustCompile(`\([ \t]+`)
	spaceBeforeCloseParenRe = regexp.MustCompile(`([^ \t\n\\])[ \t]+\)`)
	spaceBeforeSizedCloseRe = regexp.MustCompile(`([^ \t\n\\])[ \t]+(\\(?:right|bigr|Bigr|biggr|Biggr)\))`)
)

// removeWhitespaceAroundBrackets strips blanks just inside braces and parens
// and before sized closing parens. Newlines are never removed, and neither
// is the blank of a control space such as "\ }".
func removeWhitespaceAroundBrackets(text string) string {
	text = spaceAfterOpenBraceRe.ReplaceAllString(text, "{")
	text = spaceBeforeCloseBraceRe.ReplaceAllString(text, "${1}}")
	text = spaceAfterOpenParenRe.ReplaceAllString(text, "(")
	text = spaceBeforeCloseParenRe.ReplaceAllString(text, "${1})")
	text = spaceBeforeSizedCloseRe.ReplaceAllString(text, "${1}${2}")
	return text
}
