package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// maxWidthSentinel detects if --max-width was explicitly set.
// Since 0 is a valid width (no scaling), we use an out-of-range sentinel.
const maxWidthSentinel = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds flags shaping the rendered document.
type documentFlags struct {
	author     string
	dateFormat string
	maxWidth   int
}

// templateFlags holds template selection flags.
type templateFlags struct {
	name string
	dir  string
}

// typstFlags holds renderer invocation flags.
type typstFlags struct {
	binary    string
	fontPaths []string
	timeout   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	pattern  string
	document documentFlags
	template templateFlags
	typst    typstFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds document flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.author, "author", "", "byline author")
	fs.StringVar(&f.dateFormat, "date-format", "", "date display format (tokens or preset)")
	fs.IntVar(&f.maxWidth, "max-width", maxWidthSentinel, "max width in px for converted images (0 = keep)")
}

// addTemplateFlags adds template flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVar(&f.name, "template", "", "template set name")
	fs.StringVar(&f.dir, "template-dir", "", "directory with templates/<name>/ overrides")
}

// addTypstFlags adds renderer flags to a FlagSet.
func addTypstFlags(fs *flag.FlagSet, f *typstFlags) {
	fs.StringVar(&f.binary, "typst", "", "typst binary name or path")
	fs.StringArrayVar(&f.fontPaths, "font-path", nil, "extra font directory (repeatable)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.pattern, "pattern", "p", "", "discovery glob for directory input")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addTemplateFlags(fs, &f.template)
	addTypstFlags(fs, &f.typst)

	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
