package postpdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lindfors/postpdf/internal/dateutil"
	"github.com/lindfors/postpdf/internal/frontmatter"
)

// document is a loaded source post.
type document struct {
	Path string
	Dir  string
	Meta Metadata
	Body string
}

// loadDocument reads path and extracts its metadata. Metadata problems
// degrade to defaults through rec; only read errors are returned.
func loadDocument(path, author, dateLayout string, rec *recorder) (*document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's input document
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, path, err)
	}

	section := frontmatter.Split(string(data))
	fields := extractFields(section, path, rec)

	return &document{
		Path: path,
		Dir:  filepath.Dir(path),
		Meta: buildMetadata(fields, author, dateLayout, path, rec),
		Body: section.Body,
	}, nil
}

func extractFields(section frontmatter.Section, path string, rec *recorder) frontmatter.Fields {
	switch {
	case section.Unclosed:
		_ = rec.note(KindMetadataMissing, path, ErrUnclosedMetadata)
		return frontmatter.Fields{}
	case !section.Found:
		_ = rec.note(KindMetadataMissing, path, ErrNoMetadata)
		return frontmatter.Fields{}
	}

	fields, err := frontmatter.Parse(section)
	if err != nil {
		_ = rec.note(KindMetadataMalformed, path, err)
		return frontmatter.ParseLenient(section.Front)
	}
	return fields
}

func buildMetadata(f frontmatter.Fields, author, dateLayout, path string, rec *recorder) Metadata {
	meta := Metadata{
		Title:         f.Title,
		RawDate:       f.Date,
		Author:        author,
		Abstract:      f.Abstract,
		FeaturedImage: f.FeaturedImage,
	}
	if meta.Abstract == "" {
		meta.Abstract = f.Description
	}
	if meta.Author == "" {
		meta.Author = DefaultAuthor
	}
	if meta.Title == "" {
		meta.Title = DefaultTitle
		_ = rec.note(KindFieldMissing, path, ErrMissingTitle)
	}

	if meta.RawDate != "" {
		formatted, ok := dateutil.Reformat(meta.RawDate, dateLayout)
		if !ok {
			_ = rec.note(KindDateUnparseable, path, fmt.Errorf("%w: %q", ErrUnparseableDate, meta.RawDate))
		}
		meta.Date = formatted
	}
	return meta
}
