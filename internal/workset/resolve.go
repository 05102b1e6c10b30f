package workset

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lindfors/postpdf/internal/fileutil"
)

// Extensions the renderer embeds directly.
var nativeExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

const (
	webpExt     = ".webp"
	thumbSuffix = "-thumb"
)

// Asset is one image placed into the working set.
type Asset struct {
	Name      string // slash path inside the set
	Source    string // absolute source path
	Format    string // extension without dot, lower case
	Converted bool
	Thumbnail bool
}

// Issue is a non-fatal problem with one file.
type Issue struct {
	Path string
	Err  error
}

// Resolution is the outcome of placing a document's images.
type Resolution struct {
	Assets []Asset
	// Renames maps a source image path to the name it has in the set.
	Renames map[string]string
	Issues  []Issue
}

// Has reports whether name is an asset in the set.
func (r *Resolution) Has(name string) bool {
	name = path.Clean(name)
	for _, a := range r.Assets {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Resolver places co-located images into a working set.
type Resolver struct {
	Converter Converter
}

// NewResolver creates a Resolver converting webp with the given max width.
func NewResolver(maxWidth int) *Resolver {
	return &Resolver{Converter: WebPConverter{MaxWidth: maxWidth}}
}

// Resolve copies native images under srcDir into set and converts webp
// images to png. Thumbnails ("-thumb" stem) are never converted. When a
// native image shares its stem with a webp image the native one wins and
// the webp is renamed to it. Subdirectories holding another page bundle
// (an index.md) and hidden directories are skipped.
func (r *Resolver) Resolve(ctx context.Context, srcDir string, set *Set) (*Resolution, error) {
	files, err := listImages(srcDir)
	if err != nil {
		return nil, err
	}

	// stem (slash path without extension) -> native file name
	natives := make(map[string]string)
	for _, name := range files {
		if nativeExts[extOf(name)] {
			stem := stemOf(name)
			if _, ok := natives[stem]; !ok {
				natives[stem] = name
			}
		}
	}

	res := &Resolution{Renames: make(map[string]string)}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := filepath.Join(srcDir, filepath.FromSlash(name))
		ext := extOf(name)
		thumb := strings.HasSuffix(path.Base(stemOf(name)), thumbSuffix)

		switch {
		case nativeExts[ext]:
			dst := set.Path(name)
			if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
				res.Issues = append(res.Issues, Issue{Path: src, Err: err})
				continue
			}
			if err := fileutil.CopyFile(src, dst, 0o600); err != nil {
				res.Issues = append(res.Issues, Issue{Path: src, Err: err})
				continue
			}
			res.Assets = append(res.Assets, Asset{
				Name: name, Source: src, Format: ext[1:], Thumbnail: thumb,
			})

		case ext == webpExt && thumb:
			// never converted

		case ext == webpExt:
			if native, ok := natives[stemOf(name)]; ok {
				res.Renames[name] = native
				continue
			}
			target := fileutil.ReplaceExt(name, ".png")
			dst := set.Path(target)
			if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
				res.Issues = append(res.Issues, Issue{Path: src, Err: err})
				continue
			}
			if err := r.converter().Convert(ctx, src, dst); err != nil {
				res.Issues = append(res.Issues, Issue{Path: src, Err: err})
				continue
			}
			res.Renames[name] = target
			res.Assets = append(res.Assets, Asset{
				Name: target, Source: src, Format: "png", Converted: true,
			})
		}
	}
	return res, nil
}

func (r *Resolver) converter() Converter {
	if r.Converter == nil {
		return WebPConverter{MaxWidth: DefaultMaxWidth}
	}
	return r.Converter
}

// listImages returns slash paths of image files under dir, sorted.
func listImages(dir string) ([]string, error) {
	var files []string
	root := os.DirFS(dir)
	err := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || isBundle(root, p) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := extOf(p)
		if nativeExts[ext] || ext == webpExt {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing images in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func isBundle(root fs.FS, dir string) bool {
	for _, name := range []string{"index.md", "_index.md"} {
		if _, err := fs.Stat(root, path.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func extOf(name string) string {
	return strings.ToLower(path.Ext(name))
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
