// Package formula finds LaTeX math in Markdown and translates it to Office
// Math Markup (OMML).
//
// Extraction swaps each formula for an opaque token made of ASCII letters and
// hex digits, which Markdown renderers pass through untouched. The document
// assembler later looks the tokens up and embeds the translated math.
package formula

import (
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-md2docx/internal/mdscan"
)

// Placeholder prefixes. A token is a prefix followed by 32 hex digits.
const (
	InlinePrefix = "FORMULAINLINE"
	BlockPrefix  = "FORMULABLOCK"
	suffixLen    = 32
)

// Record is one extracted formula.
type Record struct {
	Token string // placeholder substituted into the text
	LaTeX string // source between the delimiters, trimmed
	Block bool   // $$...$$ rather than $...$
	Raw   string // exact source text, delimiters included
}

// Source returns the formula as it appeared in the Markdown, delimiters
// included. Records built by hand without Raw get rebuilt delimiters.
func (r Record) Source() string {
	if r.Raw != "" {
		return r.Raw
	}
	if r.Block {
		return "$$" + r.LaTeX + "$$"
	}
	return "$" + r.LaTeX + "$"
}

// newToken returns prefix plus a random 32 hex digit suffix.
func newToken(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TokenLen is the length of every placeholder with the given prefix.
func TokenLen(prefix string) int {
	return len(prefix) + suffixLen
}

// Extract replaces every formula in markdown with a placeholder token and
// returns the rewritten text with the records in order of appearance.
//
// Display delimiters ($$) take precedence over inline ones ($) at any given
// position. An inline formula must open with a non-space character and close
// with a non-space character not followed by a digit, which keeps prices such
// as "$5 and $10" out of math. Escaped dollars, fenced and indented code blocks
// and inline code spans are left alone. A display formula standing on its own line(s) is
// isolated into its own paragraph.
func Extract(markdown string) (string, []Record) {
	if !strings.Contains(markdown, "$") {
		return markdown, nil
	}

	protected := protectedRanges(markdown)
	var (
		out     strings.Builder
		records []Record
		last    int
	)

	for i := 0; i < len(markdown); i++ {
		if markdown[i] != '$' {
			continue
		}
		if end, ok := protected[i]; ok {
			i = end - 1
			continue
		}
		if isEscaped(markdown, i) {
			continue
		}

		if strings.HasPrefix(markdown[i:], "$$") {
			closeAt := findClosing(markdown, i+2, "$$", protected)
			if closeAt < 0 {
				i++ // lone "$$" is literal text
				continue
			}
			latex := strings.TrimSpace(markdown[i+2 : closeAt])
			if latex == "" {
				i = closeAt + 1
				continue
			}
			rec := Record{Token: newToken(BlockPrefix), LaTeX: latex, Block: true, Raw: markdown[i : closeAt+2]}
			records = append(records, rec)
			out.WriteString(markdown[last:i])
			out.WriteString(blockReplacement(markdown, i, closeAt+2, rec.Token))
			last = closeAt + 2
			i = last - 1
			continue
		}

		closeAt, ok := findInlineClosing(markdown, i, protected)
		if !ok {
			continue
		}
		rec := Record{
			Token: newToken(InlinePrefix),
			LaTeX: strings.TrimSpace(markdown[i+1 : closeAt]),
			Raw:   markdown[i : closeAt+1],
		}
		records = append(records, rec)
		out.WriteString(markdown[last:i])
		out.WriteString(rec.Token)
		last = closeAt + 1
		i = closeAt
	}

	if len(records) == 0 {
		return markdown, nil
	}
	out.WriteString(markdown[last:])
	return out.String(), records
}

// findClosing returns the index of the next unescaped delim after from, or -1.
func findClosing(s string, from int, delim string, protected map[int]int) int {
	for j := from; j < len(s); j++ {
		if end, ok := protected[j]; ok {
			j = end - 1
			continue
		}
		if strings.HasPrefix(s[j:], delim) && !isEscaped(s, j) {
			return j
		}
	}
	return -1
}

// findInlineClosing applies the inline rules starting at the opening '$'.
func findInlineClosing(s string, open int, protected map[int]int) (int, bool) {
	if open+1 >= len(s) || isSpace(s[open+1]) || s[open+1] == '$' {
		return 0, false
	}
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return 0, false
		case '$':
			if isEscaped(s, j) {
				continue
			}
			if _, ok := protected[j]; ok {
				return 0, false
			}
			if isSpace(s[j-1]) {
				return 0, false
			}
			if j+1 < len(s) && s[j+1] >= '0' && s[j+1] <= '9' {
				return 0, false
			}
			return j, true
		}
	}
	return 0, false
}

// blockReplacement isolates a display formula into its own paragraph when the
// delimiters occupy whole lines; otherwise the token stays inline.
func blockReplacement(s string, start, end int, token string) string {
	lineStart := strings.LastIndexByte(s[:start], '\n') + 1
	lead := s[lineStart:start]
	lineEnd := strings.IndexByte(s[end:], '\n')
	var trail string
	if lineEnd < 0 {
		trail = s[end:]
	} else {
		trail = s[end : end+lineEnd]
	}

	if strings.Trim(lead, " \t>") != "" || strings.TrimSpace(trail) != "" {
		return token
	}

	// Repeat the line prefix so blockquote and list context survives.
	blank := strings.TrimRight(lead, " \t")
	return "\n" + blank + "\n" + lead + token + "\n" + blank
}

func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// protectedRanges maps every '$' inside code (fenced or indented blocks and
// inline spans) to the end offset (exclusive) of the code around it.
func protectedRanges(s string) map[int]int {
	ranges := make(map[int]int)
	for _, r := range mdscan.CodeRanges(s) {
		for k := r.Start; k < r.End; k++ {
			if s[k] == '$' {
				ranges[k] = r.End
			}
		}
	}
	return ranges
}
