package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Sentinel errors for document discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidPattern     = errors.New("invalid discovery pattern")
)

// discoverDocuments returns the documents to convert. A directory input
// is searched with the doublestar pattern and batch is true; any other
// input is a single document, checked later by the pipeline so a missing
// file is reported as such.
func discoverDocuments(inputPath, pattern string) (docs []string, batch bool, err error) {
	info, statErr := os.Stat(inputPath)
	if statErr != nil || !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, false, err
		}
		return []string{inputPath}, false, nil
	}

	docs, err = globDocuments(inputPath, pattern)
	if err != nil {
		return nil, true, err
	}
	return docs, true, nil
}

// globDocuments matches pattern against files below root. Hidden
// directories are skipped.
func globDocuments(root, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	var docs []string
	err := doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d fs.DirEntry) error {
		if d.IsDir() || isHiddenPath(path) {
			return nil
		}
		docs = append(docs, filepath.Join(root, filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(docs)
	return docs, nil
}

// isHiddenPath reports whether any element of a slash path starts with a dot.
func isHiddenPath(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !looksLikeMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}
