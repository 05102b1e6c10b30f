package postpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lindfors/postpdf/internal/assets"
	"github.com/lindfors/postpdf/internal/dateutil"
	"github.com/lindfors/postpdf/internal/fileutil"
	"github.com/lindfors/postpdf/internal/hints"
	"github.com/lindfors/postpdf/internal/logging"
	"github.com/lindfors/postpdf/internal/pipeline"
	"github.com/lindfors/postpdf/internal/workset"
)

// Working set file names read by the template entry file.
const (
	BodyFile   = "body.md"
	MetaFile   = "meta.toml"
	outputFile = "out.pdf"
)

// Permission for the final PDF.
const filePermPublic = 0o644

// Pipeline converts blog posts to PDF. It is safe for concurrent use;
// every Run gets a private working set.
type Pipeline struct {
	cfg        pipelineConfig
	dateLayout string
	logger     *slog.Logger
	templates  assets.AssetLoader
	normalizer pipeline.BodyNormalizer
	resolver   *workset.Resolver
	renderer   Renderer
}

// New creates a Pipeline. Without WithRenderer it invokes the typst
// binary found on PATH.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg: pipelineConfig{
			author:       DefaultAuthor,
			dateFormat:   dateutil.LongFormat,
			templateName: assets.DefaultTemplateSetName,
			maxWidth:     workset.DefaultMaxWidth,
		},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}

	layout, err := dateutil.ResolveFormat(p.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	p.dateLayout = layout

	if p.cfg.maxWidth < 0 {
		return nil, fmt.Errorf("%w: max width must not be negative, got %d", ErrInvalidOption, p.cfg.maxWidth)
	}

	if err := assets.ValidateAssetName(p.cfg.templateName); err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrInvalidOption, err)
	}

	loader, err := assets.NewAssetResolver(p.cfg.templateDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	p.templates = loader
	if loader.HasCustomLoader() {
		p.logger.Debug("template overrides enabled", "dir", p.cfg.templateDir)
	}

	p.normalizer = pipeline.NewNormalizer()
	p.resolver = workset.NewResolver(p.cfg.maxWidth)
	if p.renderer == nil {
		p.renderer = NewTypstRenderer(DefaultTypstBinary)
	}
	return p, nil
}

// Run converts one document. The source is checked before any working set
// exists, so a missing source leaves nothing behind. The PDF is produced
// inside the working set and moved into place only on success.
func (p *Pipeline) Run(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()

	sourcePath, err := p.checkSource(in.Path)
	if err != nil {
		return nil, err
	}

	if p.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.timeout)
		defer cancel()
	}

	logger := p.logger.With("source", sourcePath)
	rec := &recorder{logger: logger}

	doc, err := loadDocument(sourcePath, p.cfg.author, p.dateLayout, rec)
	if err != nil {
		return nil, err
	}

	tmpl, err := p.templates.LoadTemplateSet(p.cfg.templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := workset.New(p.cfg.tempDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkingSet, err)
	}
	defer func() {
		if cerr := set.Cleanup(); cerr != nil {
			logger.Warn("removing working set", "dir", set.Dir, "err", cerr)
		}
	}()
	logger.Debug("working set created", "dir", set.Dir)

	resolution, err := p.resolver.Resolve(ctx, doc.Dir, set)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrWorkingSet, err)
	}
	for _, issue := range resolution.Issues {
		_ = rec.note(KindAssetConversion, issue.Path, issue.Err)
	}

	body := p.prepareBody(ctx, doc.Body, resolution, rec)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta := doc.Meta
	meta.FeaturedImage = p.featuredImage(meta.FeaturedImage, resolution, rec)

	if err := writeWorkingSet(set, tmpl, meta, body); err != nil {
		return nil, err
	}

	outPath := OutputPath(sourcePath, in.OutputDir)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	job := RenderJob{Dir: set.Dir, Main: assets.MainFile, Output: outputFile}
	if err := p.renderer.Render(ctx, job); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w%s", err, hints.ForTimeout())
		}
		if ferr := rec.note(KindRender, sourcePath, err); ferr != nil {
			return nil, ferr
		}
	}

	if err := fileutil.MoveFile(set.Path(outputFile), outPath, filePermPublic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	logger.Debug("pdf written", "output", outPath)

	return &Result{
		SourcePath: sourcePath,
		OutputPath: outPath,
		Metadata:   meta,
		Assets:     publicAssets(resolution.Assets),
		Warnings:   rec.warnings,
		Duration:   time.Since(start),
	}, nil
}

// checkSource validates and absolutizes the source path.
func (p *Pipeline) checkSource(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving source path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %w", ErrSourceNotFound, path, err)
		}
		return "", fmt.Errorf("reading source: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	return abs, nil
}

// prepareBody normalizes the markup and points image references at the
// working set names. References still missing are reported.
func (p *Pipeline) prepareBody(ctx context.Context, body string, res *workset.Resolution, rec *recorder) string {
	body = p.normalizer.Normalize(ctx, body)
	body = p.normalizer.RewriteImages(body, res.Renames)
	for _, ref := range p.normalizer.ImageReferences(body) {
		if !res.Has(ref) {
			_ = rec.note(KindAssetMissing, ref, ErrAssetMissing)
		}
	}
	return body
}

// featuredImage returns the working set name of the featured image, or
// "" when it cannot be embedded.
func (p *Pipeline) featuredImage(ref string, res *workset.Resolution, rec *recorder) string {
	if ref == "" {
		return ""
	}
	name, _ := pipeline.RenameRef(ref, res.Renames)
	if !pipeline.IsLocalPath(name) || !res.Has(name) {
		_ = rec.note(KindAssetMissing, ref, ErrAssetMissing)
		return ""
	}
	return filepath.ToSlash(filepath.Clean(name))
}

// renderMeta is the meta.toml read by the template. Empty values are
// omitted so the template sees none.
type renderMeta struct {
	Title         string `toml:"title,omitempty"`
	Author        string `toml:"author,omitempty"`
	Date          string `toml:"date,omitempty"`
	Abstract      string `toml:"abstract,omitempty"`
	FeaturedImage string `toml:"featured-image,omitempty"`
}

// EncodeMeta renders the template parameters as TOML.
func EncodeMeta(meta Metadata) ([]byte, error) {
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(renderMeta{
		Title:         meta.Title,
		Author:        meta.Author,
		Date:          meta.Date,
		Abstract:      meta.Abstract,
		FeaturedImage: meta.FeaturedImage,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", MetaFile, err)
	}
	return buf.Bytes(), nil
}

func writeWorkingSet(set *workset.Set, tmpl *assets.TemplateSet, meta Metadata, body string) error {
	metaData, err := EncodeMeta(meta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWorkingSet, err)
	}

	files := tmpl.Files()
	files[BodyFile] = body
	files[MetaFile] = string(metaData)

	for name, content := range files {
		if err := set.WriteFile(name, []byte(content)); err != nil {
			return fmt.Errorf("%w: %w", ErrWorkingSet, err)
		}
	}
	return nil
}

func publicAssets(in []workset.Asset) []Asset {
	out := make([]Asset, 0, len(in))
	for _, a := range in {
		out = append(out, Asset{
			Name:      a.Name,
			Source:    a.Source,
			Format:    a.Format,
			Converted: a.Converted,
			Thumbnail: a.Thumbnail,
		})
	}
	return out
}
