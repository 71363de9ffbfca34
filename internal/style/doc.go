// Package style applies a style configuration to a document tree.
//
// Every paragraph gets the formatting of its role: heading_N for headings,
// body otherwise, table_header and table_cell inside tables. Headings receive
// their numbering label first. Code blocks, quotes, formulas and the table of
// contents carry their own formatting and are left alone.
package style
