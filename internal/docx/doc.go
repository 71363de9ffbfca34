// Package docx models a word-processing document and writes it as an Office
// Open XML (.docx) package.
//
// A document is an ordered list of paragraphs and tables; a paragraph holds
// runs, hyperlinks, pictures and Office Math fragments. Formatting is direct
// (per paragraph and per run) on top of a fixed style sheet that defines the
// heading outline levels a table of contents relies on.
//
// Write produces the package parts with archive/zip:
//
//	[Content_Types].xml, _rels/.rels, docProps/{core,app}.xml,
//	word/{document,styles,numbering,settings}.xml, word/_rels, word/media/*
package docx
