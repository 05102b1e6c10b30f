package postpdf

import (
	"fmt"
	"log/slog"
	"time"
)

// Metadata defaults.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Emil Lindfors"
)

// Input identifies one document to convert.
type Input struct {
	Path      string // Markdown source, usually a page bundle's index.md
	OutputDir string // Empty = the source document's directory
}

// Metadata is what the template receives about a post.
type Metadata struct {
	Title         string
	Date          string // display form
	RawDate       string // as written in the source
	Author        string
	Abstract      string
	FeaturedImage string // working set name, empty when absent or missing
}

// Asset is an image placed into the working set.
type Asset struct {
	Name      string
	Source    string
	Format    string
	Converted bool
	Thumbnail bool
}

// Result describes a finished run.
type Result struct {
	SourcePath string
	OutputPath string
	Metadata   Metadata
	Assets     []Asset
	Warnings   []Warning
	Duration   time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// pipelineConfig holds internal configuration for Pipeline.
type pipelineConfig struct {
	author       string
	dateFormat   string
	templateName string
	templateDir  string
	tempDir      string
	maxWidth     int
	timeout      time.Duration
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRenderer replaces the typst renderer.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithAuthor sets the byline author.
func WithAuthor(name string) Option {
	return func(p *Pipeline) {
		p.cfg.author = name
	}
}

// WithDateFormat sets the display date format: a preset name or tokens
// such as "MMMM DD, YYYY".
func WithDateFormat(format string) Option {
	return func(p *Pipeline) {
		p.cfg.dateFormat = format
	}
}

// WithTemplate selects a template set by name.
func WithTemplate(name string) Option {
	return func(p *Pipeline) {
		p.cfg.templateName = name
	}
}

// WithTemplateDir sets a directory whose templates/{name}/ files override
// the embedded ones.
func WithTemplateDir(dir string) Option {
	return func(p *Pipeline) {
		p.cfg.templateDir = dir
	}
}

// WithTempDir sets where working sets are created.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		p.cfg.tempDir = dir
	}
}

// WithMaxWidth bounds converted image width in pixels; 0 keeps the size.
func WithMaxWidth(px int) Option {
	return func(p *Pipeline) {
		p.cfg.maxWidth = px
	}
}

// WithTimeout bounds each run.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("postpdf: WithTimeout duration must be positive, got %v", d))
	}
	return func(p *Pipeline) {
		p.cfg.timeout = d
	}
}
