// Package cleaner normalizes LaTeX sources.
//
// A document is passed through an ordered list of independent rewrite rules.
// Each rule reads the current text and returns the next one; nothing else is
// shared between rules. Rules that cannot safely rewrite an occurrence leave
// it alone and report a Warning instead of failing.
package cleaner

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"texclean/internal/logger"
)

// Options selects the optional parts of the pipeline.
type Options struct {
	// KeepComments disables comment stripping.
	KeepComments bool
	// KeepInlineMathDelimiters keeps $...$ instead of rewriting it to \(...\).
	KeepInlineMathDelimiters bool
	// NormalizeUnicode applies NFC normalization before any rule runs.
	NormalizeUnicode bool
	// SkipRules lists rule names that are left out of the pipeline.
	SkipRules []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		KeepInlineMathDelimiters: true,
	}
}

// Warning describes an occurrence a rule refused to rewrite.
type Warning struct {
	Rule    string
	Offset  int
	Message string
	Excerpt string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %q", w.Rule, w.Message, w.Excerpt)
}

const (
	excerptBefore = 20
	excerptAfter  = 24
)

// newWarning captures a bounded excerpt of text around offset.
func newWarning(text string, offset int, message string) Warning {
	start := offset - excerptBefore
	if start < 0 {
		start = 0
	}
	end := offset + excerptAfter
	if end > len(text) {
		end = len(text)
	}
	for start < end && !utf8.RuneStart(text[start]) {
		start++
	}
	for end < len(text) && end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	return Warning{Offset: offset, Message: message, Excerpt: text[start:end]}
}

// Rule is one named rewrite step.
type Rule struct {
	Name  string
	Apply func(text string) (string, []Warning)
}

// plain lifts a rule that never warns.
func plain(name string, f func(string) string) Rule {
	return Rule{
		Name: name,
		Apply: func(text string) (string, []Warning) {
			return f(text), nil
		},
	}
}

// Rules returns the pipeline for opts in execution order.
func Rules(opts Options) []Rule {
	var rules []Rule
	if !opts.KeepComments {
		rules = append(rules, plain("remove-comments", removeComments))
	}
	rules = append(rules,
		plain("remove-trailing-whitespace", removeTrailingWhitespace),
		plain("remove-multiple-newlines", removeMultipleNewlines),
		plain("remove-multiple-spaces", removeMultipleSpaces),
		Rule{Name: "replace-double-dollar", Apply: replaceDoubleDollar},
	)
	if !opts.KeepInlineMathDelimiters {
		rules = append(rules, Rule{Name: "replace-inline-dollar", Apply: replaceInlineDollar})
	}
	rules = append(rules,
		Rule{Name: "replace-obsolete-font-commands", Apply: replaceObsoleteFontCommands},
		plain("remove-whitespace-around-brackets", removeWhitespaceAroundBrackets),
		plain("space-after-single-script", spaceAfterSingleScript),
		plain("replace-dots", replaceDots),
		Rule{Name: "move-punctuation-outside-math", Apply: movePunctuationOutsideMath},
		plain("remove-whitespace-before-punctuation", removeWhitespaceBeforePunctuation),
		plain("replace-double-nbsp", replaceDoubleNbsp),
		plain("collapse-nbsp-space", collapseNbspSpace),
		plain("add-nbsp-before-reference", addNbspBeforeReference),
		Rule{Name: "replace-over", Apply: replaceOver},
		plain("linebreak-after-double-backslash", linebreakAfterDoubleBackslash),
		plain("escape-operator-keywords", escapeOperatorKeywords),
		Rule{Name: "brace-powered-parens", Apply: bracePoweredParens},
		plain("replace-def", replaceDef),
		plain("linebreak-around-environments", linebreakAroundEnvironments),
		plain("replace-centerline", replaceCenterline),
		plain("replace-eqnarray", replaceEqnarray),
		plain("spec-on-environment-line", specOnEnvironmentLine),
		plain("label-on-owner-line", labelOnOwnerLine),
		plain("replace-colon-equals", replaceColonEquals),
		plain("si-percentage", siPercentage),
		plain("tabular-column-spec", tabularColumnSpec),
		plain("add-spaces-around-equals", addSpacesAroundEquals),

		// Earlier rules may leave runs of blanks behind.
		plain("remove-multiple-newlines", removeMultipleNewlines),
		plain("remove-multiple-spaces", removeMultipleSpaces),
		plain("remove-whitespace-around-brackets", removeWhitespaceAroundBrackets),
		plain("remove-trailing-whitespace", removeTrailingWhitespace),
	)

	if len(opts.SkipRules) == 0 {
		return rules
	}
	skip := make(map[string]bool, len(opts.SkipRules))
	for _, name := range opts.SkipRules {
		skip[name] = true
	}
	kept := rules[:0]
	for _, r := range rules {
		if !skip[r.Name] {
			kept = append(kept, r)
		}
	}
	return kept
}

// RuleNames lists the names of Rules(opts) in order. Names of rules that
// run twice appear twice.
func RuleNames(opts Options) []string {
	rules := Rules(opts)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// Clean runs the pipeline over text and returns the cleaned document along
// with every warning raised on the way.
func Clean(text string, opts Options) (string, []Warning) {
	if opts.NormalizeUnicode {
		text = norm.NFC.String(text)
	}

	inputLen := len(text)
	var warnings []Warning
	for _, r := range Rules(opts) {
		next, ws := r.Apply(text)
		for _, w := range ws {
			w.Rule = r.Name
			logger.Warn("rule skipped an occurrence",
				logger.String("rule", r.Name),
				logger.String("reason", w.Message),
				logger.Int("offset", w.Offset),
				logger.String("excerpt", w.Excerpt))
			warnings = append(warnings, w)
		}
		if next != text {
			logger.Debug("rule rewrote text", logger.String("rule", r.Name), logger.Int("delta", len(next)-len(text)))
		}
		text = next
	}

	logger.Debug("document cleaned",
		logger.Int("inputLength", inputLen),
		logger.Int("outputLength", len(text)),
		logger.Int("warnings", len(warnings)))
	return text, warnings
}
