package assemble

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/numbering"
	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/style"
)

// TOC defaults.
const (
	DefaultTOCTitle     = "目录"
	DefaultTOCDepth     = 3
	TOCPlaceholder      = "Right-click here and select 'Update Field' to generate TOC"
	tocPlaceholderColor = "808080"
)

// StyleInlineCode splits runs at the inline code markers and renders the
// marked spans with spec. It returns the number of spans styled. Unpaired
// markers are dropped.
func StyleInlineCode(doc *docx.Document, spec config.StyleSpec) int {
	count := 0
	doc.EachParagraph(func(p *docx.Paragraph) {
		if !strings.Contains(p.Text(), pipeline.InlineCodeStart) && !strings.Contains(p.Text(), pipeline.InlineCodeEnd) {
			return
		}
		var out []docx.Inline
		for _, in := range p.Inlines {
			switch v := in.(type) {
			case *docx.Run:
				runs, n := splitInlineCode(v, spec)
				count += n
				for _, r := range runs {
					out = append(out, r)
				}
			case *docx.Hyperlink:
				var runs []*docx.Run
				for _, lr := range v.Runs {
					split, n := splitInlineCode(lr, spec)
					count += n
					runs = append(runs, split...)
				}
				v.Runs = runs
				out = append(out, v)
			default:
				out = append(out, in)
			}
		}
		p.Inlines = out
	})
	return count
}

// splitInlineCode returns r cut into text, code, text, ... runs.
func splitInlineCode(r *docx.Run, spec config.StyleSpec) ([]*docx.Run, int) {
	if !strings.Contains(r.Text, pipeline.InlineCodeStart) && !strings.Contains(r.Text, pipeline.InlineCodeEnd) {
		return []*docx.Run{r}, 0
	}

	var out []*docx.Run
	emit := func(text string) {
		text = strings.ReplaceAll(text, pipeline.InlineCodeEnd, "")
		if text != "" {
			out = append(out, &docx.Run{Text: text, Props: r.Props})
		}
	}

	n := 0
	rest := r.Text
	for {
		start := strings.Index(rest, pipeline.InlineCodeStart)
		if start < 0 {
			break
		}
		afterStart := rest[start+len(pipeline.InlineCodeStart):]
		end := strings.Index(afterStart, pipeline.InlineCodeEnd)
		if end < 0 {
			emit(rest[:start])
			rest = afterStart
			break
		}
		emit(rest[:start])
		code := style.InlineCodeRun(afterStart[:end], spec)
		code.Props.Style = r.Props.Style
		code.Props.VertAlign = r.Props.VertAlign
		out = append(out, code)
		n++
		rest = afterStart[end+len(pipeline.InlineCodeEnd):]
	}
	emit(strings.ReplaceAll(rest, pipeline.InlineCodeStart, ""))
	return out, n
}

// ResizeImages scales pictures wider than maxWidthInches down to that width,
// keeping their aspect ratio. It returns the number of pictures resized.
func ResizeImages(doc *docx.Document, maxWidthInches float64) int {
	if maxWidthInches <= 0 {
		return 0
	}
	limit := int64(maxWidthInches * docx.EMUPerInch)
	n := 0
	for _, pic := range doc.Pictures() {
		if pic.ScaleToWidth(limit) {
			n++
		}
	}
	return n
}

// SetTitle names the document after its first level-1 heading. The title
// shows in the file properties; math inside the heading is left out.
func SetTitle(doc *docx.Document) {
	for _, p := range doc.Paragraphs() {
		if p.Heading == 1 {
			doc.Title = strings.TrimSpace(p.Text())
			return
		}
	}
}

// TOC configures the table of contents.
type TOC struct {
	Title    string
	MaxDepth int
}

// Normalized returns the title and a depth clamped to 1..9, filling defaults.
func (t TOC) Normalized() TOC {
	if strings.TrimSpace(t.Title) == "" {
		t.Title = DefaultTOCTitle
	}
	switch {
	case t.MaxDepth == 0:
		t.MaxDepth = DefaultTOCDepth
	case t.MaxDepth < 1:
		t.MaxDepth = 1
	case t.MaxDepth > numbering.MaxLevel:
		t.MaxDepth = numbering.MaxLevel
	}
	return t
}

// InsertTOC prepends a title, a TOC field covering heading levels 1..depth
// and a page break, and asks the reader application to refresh fields on
// open. The field holds a placeholder until then. An empty document gets no
// TOC; the return value reports whether one was inserted.
func InsertTOC(doc *docx.Document, toc TOC, titleSpec config.StyleSpec) bool {
	if len(doc.Blocks) == 0 {
		return false
	}
	toc = toc.Normalized()

	title := docx.NewParagraph(toc.Title)
	title.Kind, title.Style = docx.KindTOC, "TOCHeading"
	title.Props.Alignment = "center"
	title.Props.Spacing = style.LineSpacing(titleSpec)
	title.Runs()[0].Props = style.RunFormat(titleSpec)

	field := &docx.Paragraph{Kind: docx.KindTOC, Inlines: []docx.Inline{
		&docx.Run{FieldBegin: true, Instr: fmt.Sprintf(` TOC \o "1-%d" \h \z \u `, toc.MaxDepth), FieldSep: true},
		&docx.Run{Text: TOCPlaceholder, Props: docx.RunProps{Italic: true, Color: tocPlaceholderColor}},
		&docx.Run{FieldEnd: true},
	}}

	pageBreak := &docx.Paragraph{Kind: docx.KindTOC, Inlines: []docx.Inline{&docx.Run{PageBreak: true}}}

	doc.Prepend(title, field, pageBreak)
	doc.UpdateFields = true
	return true
}
