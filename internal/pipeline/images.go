package pipeline

import (
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	imgSrcAttr = regexp.MustCompile(`(?is)<img\b[^>]*?\bsrc\s*=\s*["']([^"']+)["']`)

	// [label]: dest, with an optional <dest> form
	linkRefDef = regexp.MustCompile(`(?m)^( {0,3}\[[^\]\n]+\]:[ \t]*)(<[^>\n]+>|\S+)`)
)

// ImageReferences returns the local image paths the body refers to, in
// document order without duplicates: markdown images found through the
// goldmark AST, then raw <img src> attributes.
func (n *Normalizer) ImageReferences(body string) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(dest string) {
		if !IsLocalPath(dest) || seen[dest] {
			return
		}
		seen[dest] = true
		refs = append(refs, dest)
	}

	src := []byte(body)
	doc := n.md.Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch img := node.(type) {
		case *ast.Image:
			add(string(img.Destination))
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	n.withCodeMasked(body, func(masked string) string {
		for _, m := range imgSrcAttr.FindAllStringSubmatch(masked, -1) {
			add(m[1])
		}
		return masked
	})
	return refs
}

// RewriteImages replaces local image references found in renames, keyed
// by slash-separated path relative to the document. Code is never touched.
func (n *Normalizer) RewriteImages(body string, renames map[string]string) string {
	if len(renames) == 0 {
		return body
	}

	replacements := make(map[string]string)
	for _, ref := range n.ImageReferences(body) {
		if to, ok := RenameRef(ref, renames); ok {
			replacements[ref] = to
		}
	}
	if len(replacements) == 0 {
		return body
	}

	pairs := make([]string, 0, len(replacements)*8)
	for from, to := range replacements {
		pairs = append(pairs,
			"]("+from+")", "]("+to+")",
			"]("+from+" ", "]("+to+" ",
			"](<"+from+">", "](<"+to+">",
			`src="`+from+`"`, `src="`+to+`"`,
			`src='`+from+`'`, `src='`+to+`'`,
		)
	}
	replacer := strings.NewReplacer(pairs...)
	return n.withCodeMasked(body, func(masked string) string {
		return rewriteDefinitions(replacer.Replace(masked), replacements)
	})
}

// rewriteDefinitions renames destinations of link reference definitions,
// which reference-style images ![alt][label] resolve through.
func rewriteDefinitions(body string, replacements map[string]string) string {
	return linkRefDef.ReplaceAllStringFunc(body, func(def string) string {
		m := linkRefDef.FindStringSubmatch(def)
		dest := m[2]
		angled := strings.HasPrefix(dest, "<")
		if angled {
			dest = strings.TrimSuffix(strings.TrimPrefix(dest, "<"), ">")
		}
		to, ok := replacements[dest]
		if !ok {
			return def
		}
		if angled {
			to = "<" + to + ">"
		}
		return m[1] + to
	})
}

// RenameRef maps ref to its renamed form when its cleaned path is in
// renames.
func RenameRef(ref string, renames map[string]string) (string, bool) {
	to, ok := renames[path.Clean(ref)]
	if !ok {
		return ref, false
	}
	return to, true
}

// IsLocalPath reports whether ref points at a co-located file rather than
// a URL, an anchor or an absolute path.
func IsLocalPath(ref string) bool {
	if ref == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "file://") ||
		strings.HasPrefix(ref, "data:") ||
		strings.HasPrefix(ref, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(ref, "#") {
		return false
	}

	return !strings.HasPrefix(ref, "/")
}
