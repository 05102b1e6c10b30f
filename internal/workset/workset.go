// Package workset builds the private working directory a render consumes:
// the body, the metadata, the template files and every image the document
// can reference, with webp images converted to png.
package workset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors.
var (
	ErrCreate      = errors.New("working set creation failed")
	ErrInvalidName = errors.New("invalid working set file name")
)

// Set is a temporary directory owned by a single render.
type Set struct {
	Dir string
}

// New creates an empty working set under parent (os.TempDir when empty).
// The caller must call Cleanup.
func New(parent string) (*Set, error) {
	dir, err := os.MkdirTemp(parent, "postpdf-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}
	return &Set{Dir: dir}, nil
}

// Path returns the absolute path of a file inside the set.
func (s *Set) Path(name string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(name))
}

// WriteFile writes data to name, a slash-separated path relative to the set.
func (s *Set) WriteFile(name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	p := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrCreate, name, err)
	}
	return nil
}

// Cleanup removes the set and everything in it. Safe to call twice.
func (s *Set) Cleanup() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	return os.RemoveAll(s.Dir)
}

// validateName rejects names escaping the set.
func validateName(name string) error {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
