package cleaner

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
)

func TestClean_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         string
		wantWarnings []string
	}{
		{
			name:  "comments and trailing whitespace",
			input: "lorem  %some comment  \n %sit amet",
			want:  "lorem",
		},
		{
			name:  "display math",
			input: "a $$a + b = c$$ b",
			want:  "a\n\\[\na + b = c\n\\]\nb",
		},
		{
			name:  "over to frac",
			input: `Some ${2\over 3^{4+x}}$ equation ${\pi \over4}$.`,
			want:  `Some $\frac{2}{3^{4+x}}$ equation $\frac{\pi}{4}$.`,
		},
		{
			name:  "coloneqq",
			input: "A:=b+c",
			want:  `A\coloneqq b+c`,
		},
		{
			name:  "eqqcolon",
			input: "b+c =  : A",
			want:  `b+c \eqqcolon A`,
		},
		{
			name:         "unbalanced over",
			input:        `Some $2\over 3^{4+x}$.`,
			want:         `Some $2\over 3^{4+x}$.`,
			wantWarnings: []string{"replace-over"},
		},
		{
			name:  "operator keywords",
			input: "maximum and logarithm $max_x log(x)$",
			want:  `maximum and logarithm $\max_x \log(x)$`,
		},
		{
			name:  "environments",
			input: "A\\begin{equation}a+b=c\\end{equation} B \n\\begin{a}\nd+e+f\n\\end{a}\nB",
			want:  "A\n\\begin{equation}\na+b = c\n\\end{equation}\nB\n\\begin{a}\nd+e+f\n\\end{a}\nB",
		},
		{
			name:  "eqnarray",
			input: `A\begin{eqnarray*}a+b\end{eqnarray*}F`,
			want:  "A\n\\begin{align*}\na+b\n\\end{align*}\nF",
		},
		{
			name:  "whitespace inside groups",
			input: "\\textit{ lorem  \n\n\n\n ipsum dolor sit  amet}",
			want:  "\\textit{lorem\n\n\n ipsum dolor sit amet}",
		},
		{
			name:  "font command",
			input: `{\bf   bold with spaces}`,
			want:  `\textbf{bold with spaces}`,
		},
		{
			name:  "punctuation and references",
			input: `See the proof $a+b=c.$ in Section \ref{sec} .`,
			want:  `See the proof $a+b = c$. in Section~\ref{sec}.`,
		},
		{
			name:  "file listing",
			input: "infile_1.tex\na+b=c",
			want:  "infile_1.tex\na+b = c",
		},
		{
			name:  "non-ascii text",
			input: "äöüéкий的",
			want:  "äöüéкий的",
		},
		{
			name:         "odd double dollar",
			input:        "a $$b$$ c $$d",
			want:         "a $$b$$ c $$d",
			wantWarnings: []string{"replace-double-dollar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := Clean(tt.input, DefaultOptions())
			if got != tt.want {
				t.Errorf("Clean()\ngot  %q\nwant %q", got, tt.want)
			}
			if len(warnings) != len(tt.wantWarnings) {
				t.Fatalf("got %d warnings, want %d: %v", len(warnings), len(tt.wantWarnings), warnings)
			}
			for i, w := range warnings {
				if w.Rule != tt.wantWarnings[i] {
					t.Errorf("warning %d from rule %q, want %q", i, w.Rule, tt.wantWarnings[i])
				}
				if w.Excerpt == "" || len(w.Excerpt) > excerptBefore+excerptAfter {
					t.Errorf("warning %d has excerpt %q", i, w.Excerpt)
				}
			}
		})
	}
}

func TestClean_Options(t *testing.T) {
	t.Run("keep comments", func(t *testing.T) {
		opts := DefaultOptions()
		opts.KeepComments = true
		got, _ := Clean("a % note\nb", opts)
		if got != "a % note\nb" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("inline math to parens", func(t *testing.T) {
		opts := DefaultOptions()
		opts.KeepInlineMathDelimiters = false
		got, _ := Clean("Let $x=1.$ Then", opts)
		if got != `Let \(x = 1\). Then` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("skip rules", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SkipRules = []string{"add-spaces-around-equals"}
		got, _ := Clean("a=b", opts)
		if got != "a=b" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unicode normalization", func(t *testing.T) {
		opts := DefaultOptions()
		opts.NormalizeUnicode = true
		got, _ := Clean("cafe\u0301", opts)
		if got != "caf\u00e9" {
			t.Errorf("got %q", got)
		}
	})
}

func TestRuleNames(t *testing.T) {
	defaults := RuleNames(DefaultOptions())
	if defaults[0] != "remove-comments" {
		t.Errorf("first rule is %q", defaults[0])
	}
	for _, name := range defaults {
		if name == "replace-inline-dollar" {
			t.Error("inline dollar rule should be off by default")
		}
	}

	all := RuleNames(Options{KeepComments: true})
	if all[0] != "remove-trailing-whitespace" {
		t.Errorf("first rule is %q", all[0])
	}
	found := false
	for _, name := range all {
		if name == "replace-inline-dollar" {
			found = true
		}
	}
	if !found {
		t.Error("inline dollar rule missing")
	}
}

func TestClean_Idempotent(t *testing.T) {
	canonical := []string{
		"a\n\\[\na + b = c\n\\]\nb",
		`Some $\frac{2}{3^{4+x}}$ equation.`,
		`${(a+b)}^n$`,
		`A\coloneqq b+c`,
		"\\begin{table}[h!]\n\\centering\n\\begin{tabular}{cc}\na & b \\\\\nc & d\n\\end{tabular}\n\\end{table}",
		`See Section~\ref{sec:intro} and~\cite{key}.`,
	}
	for _, text := range canonical {
		t.Run("", func(t *testing.T) {
			got, warnings := Clean(text, DefaultOptions())
			if got != text || len(warnings) != 0 {
				t.Errorf("Clean(%q) = %q, %v", text, got, warnings)
			}
		})
	}
}

// plainProse builds trigger-free text from a fixed vocabulary.
func plainProse(r *rand.Rand) string {
	words := []string{"lorem", "ipsum", "dolor", "amet", "text", "word", "Alpha", "beta"}
	var sb strings.Builder
	n := r.Intn(30) + 1
	for i := 0; i < n; i++ {
		if i > 0 {
			if r.Intn(5) == 0 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(words[r.Intn(len(words))])
	}
	return sb.String()
}

func TestClean_NoTriggers_Quick(t *testing.T) {
	f := func(seed int64) bool {
		text := plainProse(rand.New(rand.NewSource(seed)))
		got, warnings := Clean(text, DefaultOptions())
		return got == text && len(warnings) == 0
	}

	if err := quick.Check(f, quickConfig()); err != nil {
		t.Error(err)
	}
}

func TestClean_DisplayBlocks_Quick(t *testing.T) {
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		k := r.Intn(5)
		var sb strings.Builder
		sb.WriteString(plainProse(r))
		for i := 0; i < k; i++ {
			sb.WriteString(" $$a + b$$ ")
			sb.WriteString(plainProse(r))
		}

		got, warnings := Clean(sb.String(), DefaultOptions())
		return len(warnings) == 0 &&
			!strings.Contains(got, "$$") &&
			strings.Count(got, `\[`) == k &&
			strings.Count(got, `\]`) == k
	}

	if err := quick.Check(f, quickConfig()); err != nil {
		t.Error(err)
	}
}

func TestNewWarningExcerpt(t *testing.T) {
	text := strings.Repeat("é", 30)
	w := newWarning(text, 31, "x")
	if len(w.Excerpt) > excerptBefore+excerptAfter {
		t.Errorf("excerpt too long: %d", len(w.Excerpt))
	}
	if !strings.HasPrefix(w.Excerpt, "é") || !strings.HasSuffix(w.Excerpt, "é") {
		t.Errorf("excerpt cut inside a rune: %q", w.Excerpt)
	}
}
