package assemble

import (
	"regexp"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/formula"
	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/style"
)

// Stage names used in warnings and logs.
const (
	StageCode     = "ReinjectCode"
	StageQuotes   = "ReinjectQuotes"
	StageFormulas = "ReinjectFormulas"
)

const listIndent = 720 // twips per list level

var formulaToken = regexp.MustCompile(`(?:` + formula.InlinePrefix + `|` + formula.BlockPrefix + `)[0-9a-f]{32}`)

// ReinjectCode replaces every code placeholder paragraph with a code block
// styled from spec.
func ReinjectCode(doc *docx.Document, reg *pipeline.Registry, spec config.StyleSpec) []Warning {
	return reinject(doc, reg, pipeline.KindCode, StageCode, func(b pipeline.Block) *docx.Paragraph {
		return style.CodeParagraph(b.Text, b.Language, spec)
	})
}

// ReinjectQuotes replaces every quote placeholder paragraph with a quote
// paragraph styled from spec.
func ReinjectQuotes(doc *docx.Document, reg *pipeline.Registry, spec config.StyleSpec) []Warning {
	return reinject(doc, reg, pipeline.KindQuote, StageQuotes, func(b pipeline.Block) *docx.Paragraph {
		return style.QuoteParagraph(b.Text, spec)
	})
}

// reinject swaps paragraphs whose trimmed text is a token of kind. A token
// that ended up inside other text is replaced by the plain block text; one
// that vanished is reported.
func reinject(doc *docx.Document, reg *pipeline.Registry, kind pipeline.BlockKind, stage string,
	build func(pipeline.Block) *docx.Paragraph,
) []Warning {
	prefix := kind.Prefix()
	var warnings []Warning

	doc.EachParagraph(func(p *docx.Paragraph) {
		text := strings.TrimSpace(p.Text())
		if !strings.Contains(text, prefix) {
			return
		}
		if strings.HasPrefix(text, prefix) {
			if b, ok := reg.Take(text); ok {
				np := build(b)
				np.Props.LeftIndent += indentOf(p)
				*p = *np
				return
			}
		}
		for _, r := range p.Runs() {
			r.Text = pipeline.TokenPattern(kind).ReplaceAllStringFunc(r.Text, func(tok string) string {
				b, ok := reg.Take(tok)
				if !ok {
					return tok
				}
				warnings = append(warnings, Warning{Stage: stage, Source: tok, Reason: "placeholder shares its paragraph, inserted as plain text"})
				return b.Text
			})
		}
	})

	for _, b := range reg.Remaining() {
		if b.Kind != kind {
			continue
		}
		warnings = append(warnings, Warning{Stage: stage, Source: b.Token, Reason: "placeholder not found in document"})
	}
	return warnings
}

// indentOf returns the list indentation a replacement paragraph should keep.
func indentOf(p *docx.Paragraph) int {
	switch {
	case p.List != nil:
		return listIndent * (p.List.Level + 1)
	case p.Style == "ListParagraph":
		return listIndent
	}
	return 0
}

// ReinjectFormulas embeds the math of every record. A block formula alone in
// its paragraph becomes centered display math; any other token is split out
// of its run as inline math. Formulas that fail to translate are embedded as
// literal text, and tokens inside code blocks revert to their source.
func ReinjectFormulas(doc *docx.Document, records []formula.Record) []Warning {
	if len(records) == 0 {
		return nil
	}
	byToken := make(map[string]formula.Record, len(records))
	for _, r := range records {
		byToken[r.Token] = r
	}
	used := make(map[string]bool, len(records))
	var warnings []Warning

	math := func(r formula.Record, display bool) *docx.Math {
		used[r.Token] = true
		xml, err := formula.ToOMML(r.LaTeX)
		if err != nil {
			warnings = append(warnings, Warning{Stage: StageFormulas, Source: r.Source(), Reason: err.Error()})
			xml = formula.Fallback(r.LaTeX)
		}
		return &docx.Math{XML: xml, Display: display}
	}

	// Code shows the formula as written.
	source := func(tok string) string {
		r, ok := byToken[tok]
		if !ok {
			return tok
		}
		used[tok] = true
		return r.Source()
	}

	doc.EachParagraph(func(p *docx.Paragraph) {
		if p.Kind == docx.KindCode {
			for _, r := range p.Runs() {
				r.Text = formulaToken.ReplaceAllStringFunc(r.Text, source)
			}
			return
		}
		text := strings.TrimSpace(p.Text())
		if r, ok := byToken[text]; ok && r.Block && !used[r.Token] {
			p.Inlines = []docx.Inline{math(r, true)}
			p.Kind = docx.KindFormula
			p.Props.Alignment = "center"
			return
		}
		if !strings.Contains(text, formula.InlinePrefix) && !strings.Contains(text, formula.BlockPrefix) {
			return
		}

		var out []docx.Inline
		for _, in := range p.Inlines {
			switch v := in.(type) {
			case *docx.Run:
				out = append(out, splitFormulas(v, byToken, used, func(r formula.Record) docx.Inline {
					return math(r, false)
				})...)
			case *docx.Hyperlink:
				// Math cannot live inside a link; keep the source text.
				for _, lr := range v.Runs {
					lr.Text = formulaToken.ReplaceAllStringFunc(lr.Text, func(tok string) string {
						if r, ok := byToken[tok]; ok {
							warnings = append(warnings, Warning{Stage: StageFormulas, Source: r.Source(), Reason: "formula inside a link, kept as text"})
						}
						return source(tok)
					})
				}
				out = append(out, v)
			default:
				out = append(out, in)
			}
		}
		p.Inlines = out
	})

	for _, r := range records {
		if !used[r.Token] {
			warnings = append(warnings, Warning{Stage: StageFormulas, Source: r.Source(), Reason: "placeholder not found in document"})
		}
	}
	return warnings
}

// splitFormulas cuts r around the known tokens in its text. The text pieces
// keep the run's formatting.
func splitFormulas(r *docx.Run, byToken map[string]formula.Record, used map[string]bool,
	embed func(formula.Record) docx.Inline,
) []docx.Inline {
	locs := formulaToken.FindAllStringIndex(r.Text, -1)
	if len(locs) == 0 {
		return []docx.Inline{r}
	}

	var out []docx.Inline
	last := 0
	for _, loc := range locs {
		rec, ok := byToken[r.Text[loc[0]:loc[1]]]
		if !ok || used[rec.Token] {
			continue
		}
		if loc[0] > last {
			out = append(out, &docx.Run{Text: r.Text[last:loc[0]], Props: r.Props})
		}
		out = append(out, embed(rec))
		last = loc[1]
	}
	if last < len(r.Text) {
		out = append(out, &docx.Run{Text: r.Text[last:], Props: r.Props})
	}
	return out
}
