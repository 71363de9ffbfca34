package pipeline

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after HTML generation.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// A ```markdown or ```md fence wrapping the whole input.
	markdownWrapper = regexp.MustCompile("(?s)\\A\\s*(`{3,}|~{3,})[ \\t]*(?:markdown|md)[ \\t]*\\n(.*?)\\n[ \\t]*(`{3,}|~{3,})\\s*\\z")

	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, unwraps a whole-document
// ```markdown fence and applies NFC normalization.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = stripMarkdownWrapper(content)
	content = norm.NFC.String(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// stripMarkdownWrapper removes a fence that encloses the entire input when
// its info string is markdown or md. The closing fence must use the same
// character and be at least as long as the opening one.
func stripMarkdownWrapper(content string) string {
	m := markdownWrapper.FindStringSubmatch(content)
	if m == nil {
		return content
	}
	open, body, closing := m[1], m[2], m[3]
	if closing[0] != open[0] || len(closing) < len(open) {
		return content
	}
	return body
}

// ConvertHighlights transforms ==text== to placeholder markers outside of
// code. Fenced blocks and inline code spans are left untouched. Run it after
// formula extraction so "a == b" inside math is never touched.
func ConvertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}

	lines := strings.Split(content, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}
		lines[i] = highlightOutsideCode(line)
	}
	return strings.Join(lines, "\n")
}

func highlightOutsideCode(line string) string {
	parts := strings.Split(line, "`")
	// Even indexes are outside code spans.
	for i := 0; i < len(parts); i += 2 {
		parts[i] = highlightPattern.ReplaceAllString(parts[i], MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(parts, "`")
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after Goldmark HTML conversion to finalize highlight markup.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
