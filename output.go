package postpdf

import (
	"path/filepath"
	"strings"
)

// bundleIndexes are the page bundle entry files.
var bundleIndexes = map[string]bool{
	"index.md":  true,
	"_index.md": true,
}

// OutputName returns the PDF base name (without extension) for a source
// document: the bundle directory name for index.md and _index.md, the file
// stem otherwise.
func OutputName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	if bundleIndexes[strings.ToLower(base)] {
		dir := filepath.Base(filepath.Dir(sourcePath))
		if dir != "." && dir != string(filepath.Separator) && dir != "" {
			return dir
		}
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "document"
	}
	return stem
}

// OutputPath returns where the PDF for sourcePath is written. An empty
// outputDir means the source document's directory.
func OutputPath(sourcePath, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(sourcePath)
	}
	return filepath.Join(outputDir, OutputName(sourcePath)+".pdf")
}
