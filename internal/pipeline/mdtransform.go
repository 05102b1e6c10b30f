package pipeline

import (
	"context"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to one
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// BodyNormalizer defines the contract for body normalization.
type BodyNormalizer interface {
	Normalize(ctx context.Context, body string) string
	RewriteImages(body string, renames map[string]string) string
	ImageReferences(body string) []string
}

// Normalizer applies the normalization rules with code masked.
type Normalizer struct {
	md    goldmark.Markdown
	rules []Rule
}

// NewNormalizer creates a Normalizer with the default rule set.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		rules: DefaultRules(),
	}
}

// Normalize applies every rule to the body. Order: line endings, rules,
// fence languages, blank line compression. Code is masked throughout.
func (n *Normalizer) Normalize(ctx context.Context, body string) string {
	if ctx.Err() != nil {
		return body
	}

	body = normalizeLineEndings(body)
	return n.withCodeMasked(body, func(text string) string {
		for _, r := range n.rules {
			text = r.Apply(text)
		}
		text = canonicalizeFenceLanguages(text)
		return compressBlankLines(text)
	})
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
