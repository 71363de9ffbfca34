// Package pipeline implements the text stages that run before a document
// tree exists.
//
// The stages are:
//   - Markdown preprocessing (line endings, whole-input fence unwrapping,
//     NFC normalization, ==highlight== markers)
//   - Markdown to HTML conversion via Goldmark with chroma highlighting
//   - Structural extraction: code blocks and block quotes are swapped for
//     placeholder paragraphs and recorded in a Registry; inline code spans
//     are wrapped in Private Use Area markers
//
// The HTML that leaves this package is fed to the HTML to document converter;
// the Registry travels with it so the assembler can put the extracted
// content back with precise formatting.
package pipeline
