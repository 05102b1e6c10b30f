// Package pipeline rewrites a post body into markup the Typst side accepts.
//
// The body is blog markdown: CommonMark plus raw HTML fragments left over
// from the web build (reference lists, <em>, <a>), cross-reference links
// that only make sense on a web page, and images in formats the renderer
// may not embed. The passes here are:
//   - code masking: code blocks and spans located through the goldmark AST
//     are swapped for placeholders so no rewrite touches them
//   - normalization rules: separator removal, cross-reference stripping,
//     reference entry and inline HTML conversion
//   - image reference rewriting for converted assets
//   - code fence language canonicalization through chroma's lexer registry
//
// Each rule is a plain string function so it can be tested in isolation;
// the Normalizer fixes their order and masking.
package pipeline
