package cleaner

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
	"testing/quick"
)

// quickConfig returns the configuration for property-based tests
func quickConfig() *quick.Config {
	return &quick.Config{
		MaxCount: 100,
		Rand:     rand.New(rand.NewSource(42)),
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  string
	}{
		{
			name: "no spans",
			text: "lorem ipsum",
			want: "lorem ipsum",
		},
		{
			name:  "replace middle",
			text:  "a $$b$$ c",
			spans: []Span{{Start: 2, End: 7, Replacement: `\[b\]`}},
			want:  `a \[b\] c`,
		},
		{
			name:  "insertion",
			text:  "max",
			spans: []Span{{Start: 0, End: 0, Replacement: `\`}},
			want:  `\max`,
		},
		{
			name: "adjacent spans",
			text: "abcdef",
			spans: []Span{
				{Start: 0, End: 2, Replacement: "X"},
				{Start: 2, End: 4, Replacement: "Y"},
				{Start: 4, End: 6, Replacement: "Z"},
			},
			want: "XYZ",
		},
		{
			name: "insertions at the same offset keep their order",
			text: "ab",
			spans: []Span{
				{Start: 1, End: 1, Replacement: "}"},
				{Start: 1, End: 1, Replacement: "{"},
			},
			want: "a}{b",
		},
		{
			name:  "deletion at end",
			text:  "text~",
			spans: []Span{{Start: 4, End: 5}},
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Splice(tt.text, tt.spans); got != tt.want {
				t.Errorf("Splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplicePanicsOnInvalidSpans(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
	}{
		{"overlapping", []Span{{Start: 0, End: 3}, {Start: 2, End: 4}}},
		{"unsorted", []Span{{Start: 3, End: 4}, {Start: 0, End: 1}}},
		{"reversed", []Span{{Start: 3, End: 1}}},
		{"out of range", []Span{{Start: 2, End: 99}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected Splice to panic")
				}
			}()
			Splice("abcdef", tt.spans)
		})
	}
}

func TestSortSpans(t *testing.T) {
	spans := []Span{
		{Start: 7, End: 7, Replacement: "}"},
		{Start: 0, End: 0, Replacement: "{"},
		{Start: 4, End: 4, Replacement: "}"},
		{Start: 1, End: 1, Replacement: "{"},
	}
	SortSpans(spans)
	if got := Splice("((a)^2)^3", spans); got != "{({(a)}^2)}^3" {
		t.Errorf("got %q", got)
	}
}

// spliceByParts rebuilds the expected output piece by piece.
func spliceByParts(text string, spans []Span) string {
	var parts []string
	pos := 0
	for _, s := range spans {
		parts = append(parts, text[pos:s.Start], s.Replacement)
		pos = s.End
	}
	parts = append(parts, text[pos:])
	return strings.Join(parts, "")
}

func TestSplice_Quick(t *testing.T) {
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		text := strings.Repeat("abc$ {}", r.Intn(10)+1)

		cuts := make([]int, r.Intn(8)*2)
		for i := range cuts {
			cuts[i] = r.Intn(len(text) + 1)
		}
		sort.Ints(cuts)

		var spans []Span
		for i := 0; i < len(cuts); i += 2 {
			spans = append(spans, Span{Start: cuts[i], End: cuts[i+1], Replacement: strings.Repeat("x", r.Intn(4))})
		}

		got := Splice(text, spans)
		if got != spliceByParts(text, spans) {
			return false
		}

		// Untouched text keeps its length accounting.
		want := len(text)
		for _, s := range spans {
			want += len(s.Replacement) - (s.End - s.Start)
		}
		return len(got) == want
	}

	if err := quick.Check(f, quickConfig()); err != nil {
		t.Error(err)
	}
}
