// Package postpdf converts blog posts to PDF with the Typst typesetting
// engine.
//
// A post is a markdown file opening with a "+++" TOML (or "---" YAML)
// metadata section, usually the index.md of a page bundle directory that
// also holds the post's images. Run prepares a private working set and
// hands it to typst:
//
//	p, err := postpdf.New(postpdf.WithAuthor("Emil Lindfors"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := p.Run(ctx, postpdf.Input{Path: "content/posts/hello/index.md"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.OutputPath) // content/posts/hello/hello.pdf
//
// # Stages
//
//  1. Metadata split and field extraction (title, date, abstract, featured image)
//  2. Asset resolution: images copied, webp converted to png
//  3. Body normalization: separators, cross-references, reference entries
//     and inline HTML rewritten to plain markdown, code left untouched
//  4. Rendering: typst compile over main.typ, template.typ, body.md and
//     meta.toml
//
// Problems other than a missing source or a failed render do not fail the
// run. They are returned in Result.Warnings; PolicyFor tells which kinds
// degrade silently and which warn.
//
// # Concurrency
//
// A Pipeline holds no per-run state and may be shared between goroutines.
// Each Run creates and removes its own temporary directory.
package postpdf
