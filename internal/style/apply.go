package style

import (
	"log/slog"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/numbering"
)

// Applicator styles document trees according to one configuration. It holds
// no per-document state and may be shared.
type Applicator struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New returns an Applicator for cfg. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger) *Applicator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applicator{cfg: cfg, logger: logger}
}

// Apply sets the page geometry and styles every paragraph and table of doc.
// Heading labels advance counters, which belong to this document only.
func (a *Applicator) Apply(doc *docx.Document, counters *numbering.Counters) {
	if counters == nil {
		counters = numbering.New()
	}
	a.page(doc)

	for _, blk := range doc.Blocks {
		switch v := blk.(type) {
		case *docx.Paragraph:
			a.paragraph(v, counters)
		case *docx.Table:
			a.table(v)
		}
	}
}

func (a *Applicator) page(doc *docx.Document) {
	d := a.cfg.Document
	doc.DefaultFont = d.DefaultFont
	doc.DefaultSize = a.cfg.Style(config.RoleBody).Size()
	if d.PageWidthInches > 0 {
		doc.Page.Width = int(d.PageWidthInches*docx.TwipsPerInch + 0.5)
	}
	if d.PageHeightInches > 0 {
		doc.Page.Height = int(d.PageHeightInches*docx.TwipsPerInch + 0.5)
	}
}

func (a *Applicator) paragraph(p *docx.Paragraph, counters *numbering.Counters) {
	if p.Kind != docx.KindNormal {
		return
	}

	role := config.RoleBody
	if p.Heading > 0 {
		role = config.HeadingRole(p.Heading)
	}
	spec := a.cfg.Style(role)

	if p.Heading > 0 {
		label := counters.Next(p.Heading, spec.NumberingFormat)
		if label != "" {
			prependLabel(p, label)
			a.logger.Debug("numbered heading", "level", p.Heading, "label", label)
		}
		if !spec.IsHeading {
			// Styled like a heading but kept out of the outline.
			p.Style = ""
			p.Heading = 0
		}
	}

	a.format(p, spec)
}

// format applies spec to p and its runs. Alignment from the markup wins over
// the role alignment; list paragraphs keep their list indentation.
func (a *Applicator) format(p *docx.Paragraph, spec config.StyleSpec) {
	pp := ParagraphFormat(spec)
	if p.Props.Alignment != "" {
		pp.Alignment = p.Props.Alignment
	}
	if p.List != nil || p.Style == "ListParagraph" {
		pp.LeftIndent = p.Props.LeftIndent
		pp.FirstLineIndent = p.Props.FirstLineIndent
	}
	pp.BorderLeft = p.Props.BorderLeft
	pp.KeepNext = p.Props.KeepNext || p.Heading > 0
	p.Props = pp

	for _, r := range p.Runs() {
		styleRun(r, spec)
	}
}

// prependLabel puts label in front of the first run, or in a new run when the
// paragraph does not start with text.
func prependLabel(p *docx.Paragraph, label string) {
	if len(p.Inlines) > 0 {
		if r, ok := p.Inlines[0].(*docx.Run); ok {
			r.Text = label + r.Text
			return
		}
	}
	p.Inlines = append([]docx.Inline{&docx.Run{Text: label}}, p.Inlines...)
}

func (a *Applicator) table(t *docx.Table) {
	ts := a.cfg.Table
	t.Props = TableFormat(ts)

	header := a.cfg.Style(config.RoleTableHeader)
	cell := a.cfg.Style(config.RoleTableCell)
	for i, row := range t.Rows {
		spec := cell
		fill := ts.CellFill
		if i == 0 {
			spec = header
			fill = ts.HeaderFill
			row.Header = true
		} else if ts.AltRowFill != "" && i%2 == 0 {
			fill = ts.AltRowFill
		}
		if c, ok := config.HexColor(fill); ok {
			fill = c
		} else {
			fill = ""
		}
		for _, c := range row.Cells {
			c.Shading = fill
			for _, p := range c.Paragraphs {
				if p.Kind == docx.KindNormal {
					a.format(p, spec)
				}
			}
		}
	}
}

// TableFormat converts the table style to table properties: one border for
// every edge, cell padding and the width mode.
func TableFormat(ts config.TableStyle) docx.TableProps {
	tp := docx.TableProps{
		CellMargins: [4]int{
			twips(ts.Padding.Top),
			twips(ts.Padding.Left),
			twips(ts.Padding.Bottom),
			twips(ts.Padding.Right),
		},
	}
	if ts.BorderStyle == "none" {
		tp.Border = &docx.Border{Style: "none"}
	} else {
		color, ok := config.HexColor(ts.BorderColor)
		if !ok {
			color = ""
		}
		tp.Border = &docx.Border{Style: ts.BorderStyle, Size: ts.BorderWidth, Color: color}
	}

	switch ts.WidthMode {
	case config.WidthFull:
		tp.WidthType = docx.WidthPct
		tp.Width = 5000
	case config.WidthFixed:
		if ts.WidthInches > 0 {
			tp.WidthType = docx.WidthDXA
			tp.Width = int(ts.WidthInches*docx.TwipsPerInch + 0.5)
		}
	}
	return tp
}
