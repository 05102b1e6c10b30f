package pipeline

// Notes:
// - Each rule is tested on its own, without code masking
// - Idempotence is asserted per rule by applying the rule to its own output

import (
	"strings"
	"testing"
)

type ruleCase struct {
	name     string
	input    string
	expected string
}

func runRuleCases(t *testing.T, fn func(string) string, fnName string, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fn(tt.input)
			if got != tt.expected {
				t.Errorf("%s() = %q, want %q", fnName, got, tt.expected)
			}
			if again := fn(got); again != got {
				t.Errorf("%s() not idempotent: %q then %q", fnName, got, again)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRemoveSeparators
// ---------------------------------------------------------------------------

func TestRemoveSeparators(t *testing.T) {
	t.Parallel()

	runRuleCases(t, removeSeparators, "removeSeparators", []ruleCase{
		{
			name:     "separator line removed",
			input:    "summary\n<!-- more -->\nrest",
			expected: "summary\nrest",
		},
		{
			name:     "compact and padded forms",
			input:    "a\n  <!--more-->  \nb\n<!--   more   -->\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "case insensitive",
			input:    "a\n<!-- MORE -->\nb",
			expected: "a\nb",
		},
		{
			name:     "separator at end without newline",
			input:    "a\n<!-- more -->",
			expected: "a\n",
		},
		{
			name:     "inline marker kept",
			input:    "text <!-- more --> text",
			expected: "text <!-- more --> text",
		},
		{
			name:     "other comments kept",
			input:    "<!-- note -->\n",
			expected: "<!-- note -->\n",
		},
	})
}

// ---------------------------------------------------------------------------
// TestStripCrossReferences
// ---------------------------------------------------------------------------

func TestStripCrossReferences(t *testing.T) {
	t.Parallel()

	runRuleCases(t, stripCrossReferences, "stripCrossReferences", []ruleCase{
		{
			name:     "numeric label",
			input:    "as shown [1](#ref-a).",
			expected: "as shown 1.",
		},
		{
			name:     "label with comma and dash",
			input:    "[1, 3-5](#ref-multi)",
			expected: "1, 3-5",
		},
		{
			name:     "author year label",
			input:    "see [Smith 2020](#ref-smith2020)",
			expected: "see Smith 2020",
		},
		{
			name:     "unicode label",
			input:    "[Ødegård 2021](#ref-o)",
			expected: "Ødegård 2021",
		},
		{
			name:     "several on one line",
			input:    "[1](#ref-a) and [2](#ref-b)",
			expected: "1 and 2",
		},
		{
			name:     "external link kept",
			input:    "[1](https://example.com)",
			expected: "[1](https://example.com)",
		},
		{
			name:     "other anchor kept",
			input:    "[intro](#section-1)",
			expected: "[intro](#section-1)",
		},
		{
			name:     "long label kept",
			input:    "[" + strings.Repeat("a", 40) + "](#ref-a)",
			expected: "[" + strings.Repeat("a", 40) + "](#ref-a)",
		},
		{
			name:     "image kept",
			input:    "![fig](#ref-a)",
			expected: "![fig](#ref-a)",
		},
	})
}

// ---------------------------------------------------------------------------
// TestConvertReferenceEntries
// ---------------------------------------------------------------------------

func TestConvertReferenceEntries(t *testing.T) {
	t.Parallel()

	runRuleCases(t, convertReferenceEntries, "convertReferenceEntries", []ruleCase{
		{
			name:     "paragraph entry",
			input:    `<p class="reference">Author. <em>Title</em>.</p>`,
			expected: "- Author. *Title*.",
		},
		{
			name:     "list item entry",
			input:    `<li class="reference">Doe, J. <strong>Bold</strong> claim.</li>`,
			expected: "- Doe, J. **Bold** claim.",
		},
		{
			name:     "div entry with link",
			input:    `<div class="reference">Doe, J. <a href="https://x.org/p">Paper</a></div>`,
			expected: "- Doe, J. [Paper](https://x.org/p)",
		},
		{
			name:     "multi-line entry collapsed",
			input:    "<p class=\"reference\">\n  Author.\n  <em>Title</em>.\n</p>",
			expected: "- Author. *Title*.",
		},
		{
			name:     "class among others",
			input:    `<p class="entry reference" id="ref-a">Author.</p>`,
			expected: "- Author.",
		},
		{
			name:     "single quoted class",
			input:    `<p class='reference'>Author.</p>`,
			expected: "- Author.",
		},
		{
			name:     "two entries",
			input:    "<p class=\"reference\">A.</p>\n<p class=\"reference\">B.</p>",
			expected: "- A.\n- B.",
		},
		{
			name:     "delimiters in emphasis escaped",
			input:    `<p class="reference">Lee, K. <em>Why 2*3 beats a_b</em>.</p>`,
			expected: `- Lee, K. *Why 2\*3 beats a\_b*.`,
		},
		{
			name:     "similar class kept",
			input:    `<p class="references">Author.</p>`,
			expected: `<p class="references">Author.</p>`,
		},
		{
			name:     "plain paragraph kept",
			input:    `<p>Author.</p>`,
			expected: `<p>Author.</p>`,
		},
	})
}

// ---------------------------------------------------------------------------
// TestConvertInlineHTML
// ---------------------------------------------------------------------------

func TestConvertInlineHTML(t *testing.T) {
	t.Parallel()

	runRuleCases(t, convertInlineHTML, "convertInlineHTML", []ruleCase{
		{name: "em", input: "<em>x</em>", expected: "*x*"},
		{name: "i", input: "<i>x</i>", expected: "*x*"},
		{name: "strong", input: "<strong>x</strong>", expected: "**x**"},
		{name: "b", input: "<b>x</b>", expected: "**x**"},
		{name: "code", input: "<code>x</code>", expected: "`x`"},
		{name: "code with backtick", input: "<code>a`b</code>", expected: "``a`b``"},
		{
			name:     "link",
			input:    `<a href="https://example.com">site</a>`,
			expected: "[site](https://example.com)",
		},
		{
			name:     "link with space in href",
			input:    `<a href="my file.pdf">doc</a>`,
			expected: "[doc](<my file.pdf>)",
		},
		{name: "link without href", input: "<a>text</a>", expected: "text"},
		{name: "citation anchor", input: `<a href="#ref-a">1</a>`, expected: "1"},
		{
			name:     "nested emphasis",
			input:    "<strong><em>x</em></strong>",
			expected: "***x***",
		},
		{
			name:     "link with emphasis",
			input:    `<a href="/p">the <strong>paper</strong></a>`,
			expected: "[the **paper**](/p)",
		},
		{name: "spaces moved outside", input: "a<em> x </em>b", expected: "a *x* b"},
		{name: "entity kept escaped", input: "<em>a &lt; b</em>", expected: "*a &lt; b*"},
		{name: "attributes ignored", input: `<em class="x">y</em>`, expected: "*y*"},
		{name: "unknown tags kept", input: "<span>x</span>", expected: "<span>x</span>"},
		{name: "br alone kept", input: "a<br>b", expected: "a<br>b"},
		{name: "img kept", input: `<img src="a.png">`, expected: `<img src="a.png">`},
		{name: "plain text", input: "no tags", expected: "no tags"},
		{name: "delimiters escaped in emphasis", input: "<em>2*3</em>", expected: `*2\*3*`},
		{name: "underscore escaped in strong", input: "<b>snake_case</b>", expected: `**snake\_case**`},
		{name: "delimiters escaped in link label", input: `<a href="/x">a*b</a>`, expected: `[a\*b](/x)`},
		{
			name:     "inner element converted once",
			input:    "<em>x <strong>y</strong> z</em>",
			expected: "*x **y** z*",
		},
		{
			name:     "emphasis around link",
			input:    `<i><a href="/p">t</a></i>`,
			expected: "*[t](/p)*",
		},
		{name: "uppercase tags", input: "<EM>x</EM>", expected: "*x*"},
		{name: "unclosed tag kept", input: "<em>x", expected: "<em>x"},
		{name: "siblings", input: "<b>a</b> and <i>b</i>", expected: "**a** and *b*"},
	})
}

func TestDefaultRules_Names(t *testing.T) {
	t.Parallel()

	want := []string{"separator", "cross-reference", "reference-entry", "inline-html"}
	rules := DefaultRules()
	if len(rules) != len(want) {
		t.Fatalf("DefaultRules() returned %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Errorf("DefaultRules()[%d].Name = %q, want %q", i, r.Name, want[i])
		}
		if r.Apply == nil {
			t.Errorf("DefaultRules()[%d].Apply is nil", i)
		}
	}
}
