// Package htmldocx converts the HTML produced by the Markdown renderer into a
// docx document tree.
//
// It covers the subset goldmark emits: paragraphs, headings, nested lists,
// tables, links, images, line breaks and inline emphasis. Unknown elements
// contribute their text. Formatting is structural only; role styling happens
// later on the tree.
package htmldocx
