package assets

import "regexp"

// #import "@namespace/name:version"
var packageImport = regexp.MustCompile(`(?m)^[ \t]*#import[ \t]+"@([a-z0-9-]+)/([A-Za-z0-9_-]+):([0-9]+\.[0-9]+\.[0-9]+)"`)

// File names inside a template set directory and the working set.
const (
	MainFile     = "main.typ"
	TemplateFile = "template.typ"
)

// TemplateSet holds the Typst sources for one document style.
type TemplateSet struct {
	Name     string // Identifier (name or directory path)
	Main     string // Entry point source
	Template string // Style source imported by the entry point
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "academic"

// Files returns the set's sources keyed by file name.
func (t *TemplateSet) Files() map[string]string {
	return map[string]string{
		MainFile:     t.Main,
		TemplateFile: t.Template,
	}
}

// complete reports whether both sources are present.
func (t *TemplateSet) complete() bool {
	return t.Main != "" && t.Template != ""
}

// Package is a Typst package a template set imports.
type Package struct {
	Namespace string
	Name      string
	Version   string
}

// String returns the import spec, e.g. "@preview/cmarker:0.1.6".
func (p Package) String() string {
	return "@" + p.Namespace + "/" + p.Name + ":" + p.Version
}

// Packages lists the packages imported by the set's sources, in order
// of first appearance.
func (t *TemplateSet) Packages() []Package {
	seen := make(map[Package]bool)
	var pkgs []Package
	for _, src := range []string{t.Main, t.Template} {
		for _, m := range packageImport.FindAllStringSubmatch(src, -1) {
			pkg := Package{Namespace: m[1], Name: m[2], Version: m[3]}
			if seen[pkg] {
				continue
			}
			seen[pkg] = true
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs
}
