// Package md2docx converts Markdown documents to Word (.docx) files.
//
// # Quick Start
//
// Create a converter and convert Markdown:
//
//	conv, err := md2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown:   "# Hello\n\nWorld, $E = mc^2$.",
//	    OutputPath: "hello.docx",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    log.Println(w)
//	}
//
// The result holds the DOCX bytes (result.DOCX), the intermediate HTML
// (result.HTML) for debugging, element counts and the warnings of every
// degradation that did not stop the conversion.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (line endings, ```markdown wrapper, NFC, ==highlight==)
//  2. LaTeX formulas ($...$ and $$...$$) replaced by placeholders
//  3. Remote images downloaded and re-encoded to PNG or JPEG
//  4. Markdown to HTML via Goldmark (GFM, footnotes, syntax highlighting)
//  5. Remaining images resolved; failures fall back to alt text
//  6. Code blocks and block quotes replaced by placeholders
//  7. HTML to document tree, retried without images it cannot embed
//  8. Code, quotes and formulas (as Office Math) re-injected
//  9. Role styles, heading numbering, table styling, inline code, image
//     sizing and an optional TOC field
//  10. Atomic write of the .docx package
//
// # Configuration
//
// The style sheet maps roles (body, heading_1..heading_9, code, blockquote,
// table_header, table_cell) to fonts, sizes, spacing, alignment and heading
// numbering. Load one by preset name or path:
//
//	conv, err := md2docx.NewConverter(
//	    md2docx.WithStyle("report"),
//	    md2docx.WithImageDir("/tmp/md2docx-images"),
//	    md2docx.WithTimeout(2 * time.Minute),
//	)
//
// Heading numbering formats include "chapter" (第一章), "section" (第一节),
// "chinese" (一、), "arabic" (1.), "roman", "letter" and templates such as
// "{n}." or "第{cn}部分".
//
// # Table of Contents
//
// Input.TOC inserts a TOC field before the content. Word fills it when the
// document is opened:
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: content,
//	    TOC:      &md2docx.TOC{Title: "Contents", MaxDepth: 2},
//	})
//
// # Logging
//
// Pass a *slog.Logger with WithLogger to see stage timings at debug level and
// degradations at warn level. The default logger discards everything.
package md2docx
