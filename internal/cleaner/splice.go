package cleaner

import (
	"fmt"
	"sort"
	"strings"
)

// Span is a half-open byte range [Start, End) of a document together with
// the text that replaces it. A span with Start == End is an insertion.
type Span struct {
	Start       int
	End         int
	Replacement string
}

// SortSpans orders spans by start offset, then by end offset. Insertions that
// share an offset keep their relative order.
func SortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
}

// Splice builds a new string from text with every span replaced by its
// Replacement. Spans must be sorted and must not overlap; violating that is
// a programming error and Splice panics.
func Splice(text string, spans []Span) string {
	if len(spans) == 0 {
		return text
	}

	size := len(text)
	prev := 0
	for i, s := range spans {
		if s.Start < prev || s.End < s.Start || s.End > len(text) {
			panic(fmt.Sprintf("cleaner: invalid span %d [%d,%d) after offset %d in text of length %d",
				i, s.Start, s.End, prev, len(text)))
		}
		size += len(s.Replacement) - (s.End - s.Start)
		prev = s.End
	}

	var sb strings.Builder
	sb.Grow(size)
	pos := 0
	for _, s := range spans {
		sb.WriteString(text[pos:s.Start])
		sb.WriteString(s.Replacement)
		pos = s.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}
