package style

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
)

// Fallback fills and quote border.
const (
	DefaultCodeBackground   = "F5F5F5"
	DefaultInlineBackground = "F0F0F0"
	QuoteBorderColor        = "CCCCCC"
	quoteBorderSize         = 24 // 3pt
)

// CodeParagraph renders a code block: one paragraph, one run per line joined
// by line breaks, single spacing and a solid background. Code in a language
// chroma knows is split further into colored tokens.
func CodeParagraph(text, language string, spec config.StyleSpec) *docx.Paragraph {
	pp := ParagraphFormat(spec)
	pp.Spacing.Line, pp.Spacing.LineRule = 240, "auto"
	pp.FirstLineIndent = 0
	if pp.Shading == "" {
		pp.Shading = DefaultCodeBackground
	}

	p := &docx.Paragraph{Kind: docx.KindCode, Props: pp}
	if segs := highlight(text, language); segs != nil {
		for _, seg := range segs {
			r := p.AddRun(seg.text)
			r.Props = RunFormat(spec)
			if seg.color != "" {
				r.Props.Color = seg.color
			}
			r.Props.Bold = r.Props.Bold || seg.bold
			r.Props.Italic = r.Props.Italic || seg.italic
		}
		return p
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i < len(lines)-1 {
			line += "\n"
		}
		if line == "" {
			continue
		}
		p.AddRun(line).Props = RunFormat(spec)
	}
	return p
}

// QuoteParagraph renders a block quote as a single paragraph with a left
// border. Lines of the quote are separated by line breaks.
func QuoteParagraph(text string, spec config.StyleSpec) *docx.Paragraph {
	pp := ParagraphFormat(spec)
	pp.BorderLeft = &docx.Border{Style: "single", Size: quoteBorderSize, Color: QuoteBorderColor, Space: 4}

	p := &docx.Paragraph{Kind: docx.KindQuote, Props: pp}
	if text != "" {
		p.Inlines = []docx.Inline{&docx.Run{Text: text, Props: RunFormat(spec)}}
	}
	return p
}

// InlineCodeRun renders an inline code span with the code role's face, size
// and a background fill.
func InlineCodeRun(text string, spec config.StyleSpec) *docx.Run {
	rp := RunFormat(spec)
	rp.Bold, rp.Italic = false, false
	rp.Shading = DefaultInlineBackground
	if c, ok := config.HexColor(spec.BackgroundColor); ok {
		rp.Shading = c
	}
	return &docx.Run{Text: text, Props: rp}
}
