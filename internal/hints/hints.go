// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/lindfors/postpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRendererNotFound returns hints for a missing typst binary.
func ForRendererNotFound() string {
	hints := []string{"install typst from https://github.com/typst/typst/releases"}

	if IsInContainer() {
		hints = append(hints, "add the typst binary to the container image")
	}

	// Suggest POSTPDF_TYPST if not set
	if os.Getenv("POSTPDF_TYPST") == "" {
		hints = append(hints, "or set POSTPDF_TYPST to its path")
	}

	return formatHints(hints)
}

// ForRenderFailed returns hints matching typst's diagnostic output.
func ForRenderFailed(diagnostic string) string {
	lower := strings.ToLower(diagnostic)
	switch {
	case strings.Contains(lower, "failed to download") || strings.Contains(lower, "package"):
		return format("typst fetches @preview packages on first use; run once with network access")
	case strings.Contains(lower, "file not found") || strings.Contains(lower, "failed to load file"):
		return format("an image referenced by the post is missing from its directory")
	case strings.Contains(lower, "unknown font"):
		return format("pass --font-path with a directory holding the template fonts")
	}
	return ""
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large posts, raise --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/postpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/postpdf) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/postpdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound returns hints for template set not found errors.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
