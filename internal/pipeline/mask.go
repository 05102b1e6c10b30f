package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Code placeholders use Unicode Private Use Area characters, which never
// appear in real posts and survive every rewrite unchanged.
const (
	maskStart = "\uE000"
	maskEnd   = "\uE001"
)

var maskPattern = regexp.MustCompile("\uE000([0-9]+)\uE001")

type span struct {
	start, stop int
}

// withCodeMasked runs fn over body with code blocks and code spans
// replaced by placeholders, then restores them.
func (n *Normalizer) withCodeMasked(body string, fn func(string) string) string {
	spans := n.codeSpans(body)
	if len(spans) == 0 {
		return fn(body)
	}

	saved := make([]string, 0, len(spans))
	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, s := range spans {
		b.WriteString(body[last:s.start])
		b.WriteString(maskStart + strconv.Itoa(len(saved)) + maskEnd)
		saved = append(saved, body[s.start:s.stop])
		last = s.stop
	}
	b.WriteString(body[last:])

	out := fn(b.String())
	return maskPattern.ReplaceAllStringFunc(out, func(m string) string {
		idx, err := strconv.Atoi(m[len(maskStart) : len(m)-len(maskEnd)])
		if err != nil || idx >= len(saved) {
			return m
		}
		return saved[idx]
	})
}

// codeSpans returns the byte ranges of code content in document order.
func (n *Normalizer) codeSpans(body string) []span {
	src := []byte(body)
	doc := n.md.Parser().Parse(text.NewReader(src))

	var spans []span
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := node.Lines()
			if lines.Len() > 0 {
				spans = append(spans, span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindCodeSpan:
			first, ok1 := node.FirstChild().(*ast.Text)
			last, ok2 := node.LastChild().(*ast.Text)
			if ok1 && ok2 && first.Segment.Start < last.Segment.Stop {
				spans = append(spans, span{first.Segment.Start, last.Segment.Stop})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return dropOverlaps(spans)
}

func dropOverlaps(spans []span) []span {
	out := spans[:0]
	end := -1
	for _, s := range spans {
		if s.start < end {
			continue
		}
		out = append(out, s)
		end = s.stop
	}
	return out
}
