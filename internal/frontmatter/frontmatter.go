// Package frontmatter separates a post's metadata section from its body
// and decodes the fields the PDF pipeline reads.
//
// Zola posts open with a "+++" delimited TOML block; older posts and the
// newsletter drafts use "---" delimited YAML. Parsing is deliberately
// lenient: a missing or unclosed section is reported, never an error.
package frontmatter

import "strings"

// Format identifies the metadata dialect selected by the delimiter.
type Format int

const (
	FormatNone Format = iota
	FormatTOML
	FormatYAML
)

// Delimiters for each dialect.
const (
	TOMLDelimiter = "+++"
	YAMLDelimiter = "---"
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "none"
	}
}

// Section is the result of splitting a document.
type Section struct {
	Format Format
	Front  string // text between the delimiters, empty when not found
	Body   string // everything after the closing delimiter, or the whole input

	// Found reports a well-formed opening and closing delimiter pair.
	Found bool
	// Unclosed reports an opening delimiter without a matching close.
	Unclosed bool
}

// Split locates the metadata section. The first non-blank line must be a
// delimiter; the next line equal to the same delimiter closes the section.
func Split(content string) Section {
	content = strings.TrimPrefix(content, "\uFEFF")
	lines := strings.SplitAfter(content, "\n")

	open := 0
	for open < len(lines) && strings.TrimSpace(lines[open]) == "" {
		open++
	}
	if open == len(lines) {
		return Section{Body: content}
	}

	marker := strings.TrimSpace(lines[open])
	format := formatFor(marker)
	if format == FormatNone {
		return Section{Body: content}
	}

	for i := open + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != marker {
			continue
		}
		return Section{
			Format: format,
			Front:  strings.Join(lines[open+1:i], ""),
			Body:   strings.TrimLeft(strings.Join(lines[i+1:], ""), "\r\n"),
			Found:  true,
		}
	}

	return Section{Format: format, Body: content, Unclosed: true}
}

func formatFor(marker string) Format {
	switch marker {
	case TOMLDelimiter:
		return FormatTOML
	case YAMLDelimiter:
		return FormatYAML
	default:
		return FormatNone
	}
}
