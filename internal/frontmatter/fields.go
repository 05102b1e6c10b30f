package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lindfors/postpdf/internal/yamlutil"
)

// ErrDecode wraps a structured decode failure of the metadata section.
var ErrDecode = errors.New("metadata decode failed")

// Fields holds the raw metadata values the pipeline consumes.
// Empty strings mean the key was absent.
type Fields struct {
	Title         string
	Date          string
	Description   string
	Abstract      string
	FeaturedImage string
}

// rawFields is decoded from both dialects. Values are typed any so a
// numeric title or a TOML date literal never fails the whole decode.
type rawFields struct {
	Title              any            `toml:"title" yaml:"title"`
	Date               any            `toml:"date" yaml:"date"`
	Description        any            `toml:"description" yaml:"description"`
	Abstract           any            `toml:"abstract" yaml:"abstract"`
	FeaturedImage      any            `toml:"featured-image" yaml:"featured-image"`
	FeaturedImageSnake any            `toml:"featured_image" yaml:"featured_image"`
	Extra              map[string]any `toml:"extra" yaml:"extra"`
}

// Parse decodes the section's metadata with the dialect's parser.
// A section without metadata yields zero Fields and no error.
func Parse(s Section) (Fields, error) {
	if !s.Found || strings.TrimSpace(s.Front) == "" {
		return Fields{}, nil
	}

	var raw rawFields
	switch s.Format {
	case FormatTOML:
		if _, err := toml.Decode(s.Front, &raw); err != nil {
			return Fields{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	case FormatYAML:
		if err := yamlutil.Unmarshal([]byte(s.Front), &raw); err != nil {
			return Fields{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	default:
		return Fields{}, nil
	}

	return raw.fields(), nil
}

func (r rawFields) fields() Fields {
	f := Fields{
		Title:       stringify(r.Title),
		Date:        stringify(r.Date),
		Description: stringify(r.Description),
		Abstract:    firstNonEmpty(stringify(r.Abstract), stringify(r.Extra["abstract"])),
		FeaturedImage: firstNonEmpty(
			stringify(r.FeaturedImage),
			stringify(r.FeaturedImageSnake),
			stringify(r.Extra["featured-image"]),
			stringify(r.Extra["featured_image"]),
		),
	}
	return f
}

// leniencyPattern matches `key = "value"`, `key = value` and `key: value`.
var leniencyPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_-]*)\s*[=:]\s*(.*?)\s*$`)

// ParseLenient scans the metadata line by line, first match per key wins.
// It backs up Parse when the section is not valid TOML or YAML.
func ParseLenient(front string) Fields {
	seen := make(map[string]string)
	for _, line := range strings.Split(front, "\n") {
		m := leniencyPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = unquote(m[2])
	}

	return Fields{
		Title:         seen["title"],
		Date:          seen["date"],
		Description:   seen["description"],
		Abstract:      seen["abstract"],
		FeaturedImage: firstNonEmpty(seen["featured-image"], seen["featured_image"]),
	}
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// stringify renders a decoded scalar. TOML local dates keep their
// date-only spelling so they read like what the author wrote.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		// Zone names BurntSushi/toml assigns to offset-less values.
		switch val.Location().String() {
		case "date-local":
			return val.Format("2006-01-02")
		case "datetime-local":
			return val.Format("2006-01-02T15:04:05")
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
