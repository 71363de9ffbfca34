// Package mdscan locates the parts of a Markdown source that are code, so
// text rewrites can leave them alone.
package mdscan

import (
	"regexp"
	"sort"
	"strings"
)

var (
	listMarker  = regexp.MustCompile(`^([-*+]|[0-9]{1,9}[.)])([ \t]+|$)`)
	atxHeading  = regexp.MustCompile(`^#{1,6}([ \t]|$)`)
	thematicBrk = regexp.MustCompile(`^(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
)

// Range is a half-open byte range [Start, End) of the scanned text.
type Range struct {
	Start, End int
}

// Ranges is a sorted list of non-overlapping ranges.
type Ranges []Range

// Contains reports whether offset i falls inside one of the ranges.
func (rs Ranges) Contains(i int) bool {
	k := sort.Search(len(rs), func(k int) bool { return rs[k].End > i })
	return k < len(rs) && rs[k].Start <= i
}

// Overlaps reports whether [start, end) intersects one of the ranges.
func (rs Ranges) Overlaps(start, end int) bool {
	k := sort.Search(len(rs), func(k int) bool { return rs[k].End > start })
	return k < len(rs) && rs[k].Start < end
}

// CodeRanges returns the fenced code blocks, indented code blocks and inline
// code spans of s, in order. A fence left open runs to the end of s.
//
// Indented code needs four columns beyond the enclosing list item's content
// (tabs stop every four columns) and cannot interrupt a paragraph.
func CodeRanges(s string) Ranges {
	var (
		rs        Ranges
		sc        scanner
		offset    int
		fence     string
		fenceAt   = -1
		indentAt  = -1
		indentEnd int
	)

	for _, line := range strings.SplitAfter(s, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimRight(line, "\r\n")
		col, rest := indentation(body)
		blank := strings.TrimSpace(body) == ""
		codeCol := sc.listCol + 4

		switch {
		case fenceAt >= 0:
			if col < codeCol && isFenceClose(rest, fence) {
				rs = append(rs, Range{fenceAt, offset + len(line)})
				fenceAt = -1
				sc.afterBlock()
			}

		case indentAt >= 0 && (blank || col >= codeCol):
			if !blank {
				indentEnd = offset + len(line)
			}

		default:
			if indentAt >= 0 {
				rs = append(rs, Range{indentAt, indentEnd})
				indentAt = -1
				sc.afterBlock()
			}
			switch {
			case blank:
				sc.blankLine()
			case col >= codeCol && !sc.inPara:
				indentAt, indentEnd = offset, offset+len(line)
			case col-sc.listCol < 4 && (strings.HasPrefix(rest, "```") || strings.HasPrefix(rest, "~~~")):
				fence = fenceMarker(rest)
				fenceAt = offset
			default:
				sc.textLine(col, rest)
				rs = append(rs, codeSpans(line, offset)...)
			}
		}
		offset += len(line)
	}

	switch {
	case fenceAt >= 0:
		rs = append(rs, Range{fenceAt, len(s)})
	case indentAt >= 0:
		rs = append(rs, Range{indentAt, indentEnd})
	}
	return rs
}

// scanner tracks the block context deciding whether an indented line is code.
type scanner struct {
	inPara    bool // last non-blank line was paragraph text
	prevBlank bool
	listCol   int // content column of the open list item, 0 outside lists
}

func (sc *scanner) blankLine() {
	sc.inPara = false
	sc.prevBlank = true
}

func (sc *scanner) afterBlock() {
	sc.inPara = false
	sc.prevBlank = false
}

func (sc *scanner) textLine(col int, rest string) {
	wasBlank := sc.prevBlank
	sc.prevBlank = false
	if m := listMarker.FindStringSubmatch(rest); m != nil && !thematicBrk.MatchString(rest) {
		pad := len(m[2])
		if pad == 0 || pad > 4 {
			pad = 1
		}
		sc.listCol = col + len(m[1]) + pad
		sc.inPara = strings.TrimSpace(rest[len(m[0]):]) != ""
		return
	}
	if wasBlank && col < sc.listCol {
		sc.listCol = 0
	}
	if atxHeading.MatchString(rest) || thematicBrk.MatchString(rest) {
		sc.inPara = false
		return
	}
	sc.inPara = true
}

// indentation returns the column of the first non-blank character of line
// and the text from there on.
func indentation(line string) (int, string) {
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return col, line[i:]
		}
	}
	return col, ""
}

func fenceMarker(line string) string {
	ch := line[0]
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	return line[:n]
}

func isFenceClose(rest, fence string) bool {
	rest = strings.TrimRight(rest, " \t")
	return strings.HasPrefix(rest, fence) && strings.Trim(rest, fence[:1]) == ""
}

// codeSpans returns the backtick code spans within one line.
func codeSpans(line string, offset int) Ranges {
	var rs Ranges
	for i := 0; i < len(line); i++ {
		if line[i] != '`' {
			continue
		}
		run := 1
		for i+run < len(line) && line[i+run] == '`' {
			run++
		}
		closer := strings.Repeat("`", run)
		rest := line[i+run:]
		j := strings.Index(rest, closer)
		for j >= 0 && j+run < len(rest) && rest[j+run] == '`' {
			next := strings.Index(rest[j+run+1:], closer)
			if next < 0 {
				j = -1
				break
			}
			j += run + 1 + next
		}
		if j < 0 {
			i += run - 1
			continue
		}
		end := i + run + j + run
		rs = append(rs, Range{offset + i, offset + end})
		i = end - 1
	}
	return rs
}
