package pipeline

import (
	"regexp"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Opening fence followed by a language tag, possibly inside blockquote
// or list item containers.
var fenceLanguage = regexp.MustCompile("(?m)^([ \\t]*(?:(?:>[ \\t]?|[-*+][ \\t]+|\\d{1,9}[.)][ \\t]+)[ \\t]*)*(?:`{3,}|~{3,})[ \\t]*)([A-Za-z0-9_+#.-]+)")

// canonicalizeFenceLanguages rewrites code fence language tags to the
// primary alias of the matching chroma lexer, so "golang" becomes "go".
// Unknown tags are kept.
func canonicalizeFenceLanguages(body string) string {
	return fenceLanguage.ReplaceAllStringFunc(body, func(line string) string {
		m := fenceLanguage.FindStringSubmatch(line)
		return m[1] + CanonicalLanguage(m[2])
	})
}

// CanonicalLanguage returns the primary chroma alias for tag.
func CanonicalLanguage(tag string) string {
	lexer := lexers.Get(tag)
	if lexer == nil {
		return tag
	}
	aliases := lexer.Config().Aliases
	if len(aliases) == 0 {
		return tag
	}
	return aliases[0]
}
