package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses an HTML fragment with a body context, so the
// fragment's nodes are not wrapped in <html><body>.
func parseFragment(fragment string) (*goquery.Selection, bool) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil || len(nodes) == 0 {
		return nil, false
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(container).Contents(), true
}

// markupOf renders a selection as markdown inline markup.
func markupOf(sel *goquery.Selection) string {
	return renderMarkup(sel, false)
}

// renderMarkup renders sel; nested text is emphasis or a link label and
// gets its delimiter characters escaped.
func renderMarkup(sel *goquery.Selection, nested bool) string {
	var b strings.Builder
	writeMarkup(&b, sel, nested)
	return b.String()
}

func writeMarkup(b *strings.Builder, sel *goquery.Selection, nested bool) {
	sel.Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		switch n.Type {
		case html.TextNode:
			text := escapeText(n.Data)
			if nested {
				text = escapeDelimiters(text)
			}
			b.WriteString(text)
		case html.ElementNode:
			writeElement(b, s, n, nested)
		}
	})
}

func writeElement(b *strings.Builder, s *goquery.Selection, n *html.Node, nested bool) {
	switch n.DataAtom {
	case atom.Em, atom.I:
		b.WriteString(wrapInline("*", renderMarkup(s.Contents(), true)))
	case atom.Strong, atom.B:
		b.WriteString(wrapInline("**", renderMarkup(s.Contents(), true)))
	case atom.Code:
		b.WriteString(codeSpan(s.Text()))
	case atom.A:
		label := renderMarkup(s.Contents(), true)
		href, _ := s.Attr("href")
		// In-page citation anchors keep only their label, like [1](#ref-x).
		if href == "" || strings.HasPrefix(href, "#ref-") {
			b.WriteString(label)
			return
		}
		b.WriteString("[" + label + "](" + linkDestination(href) + ")")
	case atom.Br:
		b.WriteString(" ")
	default:
		writeMarkup(b, s.Contents(), nested)
	}
}

// wrapInline puts marker around inner, keeping surrounding whitespace
// outside the markers so the emphasis still parses.
func wrapInline(marker, inner string) string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return inner
	}
	lead := inner[:strings.Index(inner, trimmed)]
	trail := inner[len(lead)+len(trimmed):]
	return lead + marker + trimmed + marker + trail
}

// codeSpan picks a backtick fence longer than any run inside text.
func codeSpan(text string) string {
	fence := "`"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		text = " " + text + " "
	}
	return fence + text + fence
}

func linkDestination(href string) string {
	if strings.ContainsAny(href, " ()<>") {
		return "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(href) + ">"
	}
	return href
}

// escapeText keeps decoded text from reopening HTML in the markdown.
func escapeText(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}

var delimiterEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`)

// escapeDelimiters keeps literal * and _ from closing the emphasis they
// are wrapped in.
func escapeDelimiters(s string) string {
	return delimiterEscaper.Replace(s)
}
