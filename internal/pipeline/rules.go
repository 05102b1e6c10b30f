package pipeline

import (
	"regexp"
	"strings"
)

// Rule is one named rewrite over a masked body. Rules must be idempotent
// and must not depend on each other's output.
type Rule struct {
	Name  string
	Apply func(string) string
}

// DefaultRules returns the normalization rules in their default order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "separator", Apply: removeSeparators},
		{Name: "cross-reference", Apply: stripCrossReferences},
		{Name: "reference-entry", Apply: convertReferenceEntries},
		{Name: "inline-html", Apply: convertInlineHTML},
	}
}

var (
	// Zola summary marker on a line of its own
	separatorLine = regexp.MustCompile(`(?mi)^[ \t]*<!--[ \t]*more[ \t]*-->[ \t]*(?:\n|$)`)

	// [label](#ref-ID) with a short citation-like label
	crossReference = regexp.MustCompile(`\[([\p{L}\p{N}][\p{L}\p{N} ,.\-]{0,31})\]\(#ref-[^)\s]*\)`)

	// Block elements carrying a "reference" class
	referenceEntries = []*regexp.Regexp{
		referenceBlock("p"),
		referenceBlock("li"),
		referenceBlock("div"),
	}

	// Opening tag of an element convertInlineHTML rewrites
	inlineOpen = regexp.MustCompile(`(?i)<(a|strong|b|em|i|code)\b[^>]*>`)

	inlineClose = map[string]*regexp.Regexp{
		"a":      regexp.MustCompile(`(?i)</a\s*>`),
		"strong": regexp.MustCompile(`(?i)</strong\s*>`),
		"b":      regexp.MustCompile(`(?i)</b\s*>`),
		"em":     regexp.MustCompile(`(?i)</em\s*>`),
		"i":      regexp.MustCompile(`(?i)</i\s*>`),
		"code":   regexp.MustCompile(`(?i)</code\s*>`),
	}

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// removeSeparators drops lines holding only the summary separator.
func removeSeparators(body string) string {
	return separatorLine.ReplaceAllString(body, "")
}

// stripCrossReferences keeps the label of in-page citation links. Images
// pointing at the same anchors are left alone.
func stripCrossReferences(body string) string {
	matches := crossReference.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] > 0 && body[m[0]-1] == '!' {
			continue
		}
		b.WriteString(body[last:m[0]])
		b.WriteString(body[m[2]:m[3]])
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String()
}

// convertReferenceEntries turns reference blocks into list items holding
// their inline content as markup.
func convertReferenceEntries(body string) string {
	for _, pattern := range referenceEntries {
		body = pattern.ReplaceAllStringFunc(body, referenceItem)
	}
	return body
}

func referenceItem(block string) string {
	sel, ok := parseFragment(block)
	if !ok {
		return block
	}
	root := sel.First()
	if !root.HasClass("reference") {
		return block
	}
	inner := whitespaceRun.ReplaceAllString(markupOf(root.Contents()), " ")
	return "- " + strings.TrimSpace(inner)
}

func referenceBlock(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + tag + `\b[^>]*\bclass\s*=\s*["'][^"']*\breference\b[^"']*["'][^>]*>.*?</` + tag + `\s*>`)
}

// convertInlineHTML rewrites emphasis, links and code elements as markup.
// Each outermost element is converted with its children in one go, so
// markup produced for an inner element is never re-read as text. Other
// tags are left alone.
func convertInlineHTML(body string) string {
	var b strings.Builder
	for {
		open := inlineOpen.FindStringSubmatchIndex(body)
		if open == nil {
			b.WriteString(body)
			return b.String()
		}
		tag := strings.ToLower(body[open[2]:open[3]])
		closing := inlineClose[tag].FindStringIndex(body[open[1]:])
		if closing == nil {
			b.WriteString(body[:open[1]])
			body = body[open[1]:]
			continue
		}

		stop := open[1] + closing[1]
		fragment := body[open[0]:stop]
		b.WriteString(body[:open[0]])
		if sel, ok := parseFragment(fragment); ok {
			b.WriteString(markupOf(sel))
		} else {
			b.WriteString(fragment)
		}
		body = body[stop:]
	}
}

