// Package assemble runs the tree stages that follow the generic HTML
// conversion: placeholders left by extraction become styled code blocks,
// quotes and Office Math; inline code markers become code runs; pictures are
// fitted to the page and a table of contents field is prepended.
//
// Stages report what they could not place as Warnings instead of failing.
package assemble

// Warning describes one degraded item.
type Warning struct {
	Stage  string
	Source string
	Reason string
}
