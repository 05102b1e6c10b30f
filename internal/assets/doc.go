// Package assets provides the Typst template sets used to typeset posts.
// Template sets can be loaded from embedded files or a custom directory.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (academic)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the pipeline. Files found in the
// custom directory replace their embedded counterparts one by one, so a
// custom directory may override only template.typ and keep the embedded
// main.typ.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}/
//	        ├── main.typ         # Entry point compiled by typst
//	        └── template.typ     # Page style, imported by main.typ
//
// # Security
//
// Template names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
