package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Namespaces used in the generated parts.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsM   = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relSettings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

type relationship struct {
	id, typ, target string
	external        bool
}

type mediaFile struct {
	name string
	data []byte
}

// writer renders one document. It is not reused.
type writer struct {
	doc   *Document
	b     strings.Builder
	rels  []relationship
	media []mediaFile
	picID int
}

// Write serializes the document as a .docx package.
func (d *Document) Write(w io.Writer) error {
	dw := &writer{doc: d}
	dw.addRel(relStyles, "styles.xml", false)
	dw.addRel(relNumbering, "numbering.xml", false)
	dw.addRel(relSettings, "settings.xml", false)
	body := dw.document()

	zw := zip.NewWriter(w)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", coreXML(d.Title, time.Now())},
		{"docProps/app.xml", appXML},
		{"word/document.xml", body},
		{"word/styles.xml", stylesXML(d)},
		{"word/numbering.xml", numberingXML(d)},
		{"word/settings.xml", settingsXML(d)},
		{"word/_rels/document.xml.rels", dw.relsXML()},
	}
	for _, p := range parts {
		if err := writeZipEntry(zw, p.name, []byte(p.content)); err != nil {
			return err
		}
	}
	for _, m := range dw.media {
		if err := writeZipEntry(zw, "word/media/"+m.name, m.data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing docx archive: %w", err)
	}
	return nil
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (w *writer) addRel(typ, target string, external bool) string {
	id := "rId" + strconv.Itoa(len(w.rels)+1)
	w.rels = append(w.rels, relationship{id: id, typ: typ, target: target, external: external})
	return id
}

func (w *writer) relsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range w.rels {
		b.WriteString(`<Relationship Id="` + r.id + `" Type="` + r.typ + `" Target="`)
		escape(&b, r.target)
		b.WriteString(`"`)
		if r.external {
			b.WriteString(` TargetMode="External"`)
		}
		b.WriteString(`/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (w *writer) document() string {
	b := &w.b
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:m="` + nsM +
		`" xmlns:wp="` + nsWP + `" xmlns:a="` + nsA + `" xmlns:pic="` + nsPic + `"><w:body>`)

	for _, blk := range w.doc.Blocks {
		switch v := blk.(type) {
		case *Paragraph:
			w.paragraph(v)
		case *Table:
			w.table(v)
		}
	}
	// A body may not end with a table.
	if n := len(w.doc.Blocks); n == 0 || isTable(w.doc.Blocks[n-1]) {
		b.WriteString(`<w:p/>`)
	}

	pg := w.doc.Page
	fmt.Fprintf(b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, pg.Width, pg.Height)
	fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`,
		pg.MarginTop, pg.MarginRight, pg.MarginBottom, pg.MarginLeft, pg.HeaderDistance, pg.FooterDistance)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func isTable(b Block) bool {
	_, ok := b.(*Table)
	return ok
}

func (w *writer) paragraph(p *Paragraph) {
	b := &w.b
	b.WriteString(`<w:p>`)
	w.paragraphProps(p)
	for _, in := range p.Inlines {
		switch v := in.(type) {
		case *Run:
			w.run(v)
		case *Hyperlink:
			id := w.addRel(relHyperlink, v.URL, true)
			b.WriteString(`<w:hyperlink r:id="` + id + `" w:history="1">`)
			for _, r := range v.Runs {
				w.run(r)
			}
			b.WriteString(`</w:hyperlink>`)
		case *Math:
			if v.Display {
				b.WriteString(`<m:oMathPara>` + v.XML + `</m:oMathPara>`)
			} else {
				b.WriteString(v.XML)
			}
		case *Picture:
			w.picture(v)
		}
	}
	b.WriteString(`</w:p>`)
}

func (w *writer) paragraphProps(p *Paragraph) {
	pp := p.Props
	var b strings.Builder
	if p.Style != "" {
		b.WriteString(`<w:pStyle w:val="` + p.Style + `"/>`)
	}
	if pp.KeepNext {
		b.WriteString(`<w:keepNext/>`)
	}
	if p.List != nil {
		fmt.Fprintf(&b, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, p.List.Level, p.List.ID)
	}
	if pp.BorderLeft != nil {
		b.WriteString(`<w:pBdr>`)
		borderXML(&b, "left", pp.BorderLeft)
		b.WriteString(`</w:pBdr>`)
	}
	if pp.Shading != "" {
		b.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="` + pp.Shading + `"/>`)
	}
	sp := pp.Spacing
	if sp.Before != nil || sp.After != nil || sp.Line > 0 {
		b.WriteString(`<w:spacing`)
		if sp.Before != nil {
			fmt.Fprintf(&b, ` w:before="%d"`, *sp.Before)
		}
		if sp.After != nil {
			fmt.Fprintf(&b, ` w:after="%d"`, *sp.After)
		}
		if sp.Line > 0 {
			rule := sp.LineRule
			if rule == "" {
				rule = "auto"
			}
			fmt.Fprintf(&b, ` w:line="%d" w:lineRule="%s"`, sp.Line, rule)
		}
		b.WriteString(`/>`)
	}
	if pp.LeftIndent != 0 || pp.FirstLineIndent != 0 {
		b.WriteString(`<w:ind`)
		if pp.LeftIndent != 0 {
			fmt.Fprintf(&b, ` w:left="%d"`, pp.LeftIndent)
		}
		if pp.FirstLineIndent > 0 {
			fmt.Fprintf(&b, ` w:firstLine="%d"`, pp.FirstLineIndent)
		} else if pp.FirstLineIndent < 0 {
			fmt.Fprintf(&b, ` w:hanging="%d"`, -pp.FirstLineIndent)
		}
		b.WriteString(`/>`)
	}
	if pp.Alignment != "" {
		b.WriteString(`<w:jc w:val="` + pp.Alignment + `"/>`)
	}
	if b.Len() > 0 {
		w.b.WriteString(`<w:pPr>` + b.String() + `</w:pPr>`)
	}
}

func borderXML(b *strings.Builder, side string, br *Border) {
	style := br.Style
	if style == "" {
		style = "single"
	}
	color := br.Color
	if color == "" {
		color = "auto"
	}
	fmt.Fprintf(b, `<w:%s w:val="%s" w:sz="%d" w:space="%d" w:color="%s"/>`, side, style, br.Size, br.Space, color)
}

func (w *writer) run(r *Run) {
	b := &w.b
	b.WriteString(`<w:r>`)
	runProps(b, r.Props)
	if r.FieldBegin {
		b.WriteString(`<w:fldChar w:fldCharType="begin"/>`)
	}
	if r.Instr != "" {
		b.WriteString(`<w:instrText xml:space="preserve">`)
		escape(b, r.Instr)
		b.WriteString(`</w:instrText>`)
	}
	if r.FieldSep {
		b.WriteString(`<w:fldChar w:fldCharType="separate"/>`)
	}
	if r.PageBreak {
		b.WriteString(`<w:br w:type="page"/>`)
	}
	writeText(b, r.Text)
	if r.FieldEnd {
		b.WriteString(`<w:fldChar w:fldCharType="end"/>`)
	}
	b.WriteString(`</w:r>`)
}

// writeText emits text, turning newlines into breaks and tabs into tab marks.
func writeText(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString(`<w:tab/>`)
			}
			if seg == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			escape(b, seg)
			b.WriteString(`</w:t>`)
		}
	}
}

func runProps(b *strings.Builder, p RunProps) {
	var rp strings.Builder
	if p.Style != "" {
		rp.WriteString(`<w:rStyle w:val="` + p.Style + `"/>`)
	}
	if p.Font != "" {
		rp.WriteString(`<w:rFonts w:ascii="`)
		escape(&rp, p.Font)
		rp.WriteString(`" w:hAnsi="`)
		escape(&rp, p.Font)
		rp.WriteString(`" w:eastAsia="`)
		escape(&rp, p.Font)
		rp.WriteString(`" w:cs="`)
		escape(&rp, p.Font)
		rp.WriteString(`"/>`)
	}
	if p.Bold {
		rp.WriteString(`<w:b/><w:bCs/>`)
	}
	if p.Italic {
		rp.WriteString(`<w:i/><w:iCs/>`)
	}
	if p.Strike {
		rp.WriteString(`<w:strike/>`)
	}
	if p.Color != "" {
		rp.WriteString(`<w:color w:val="` + p.Color + `"/>`)
	}
	if p.Size > 0 {
		hp := halfPoints(p.Size)
		fmt.Fprintf(&rp, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, hp, hp)
	}
	if p.Highlight != "" {
		rp.WriteString(`<w:highlight w:val="` + p.Highlight + `"/>`)
	}
	if p.Underline {
		rp.WriteString(`<w:u w:val="single"/>`)
	}
	if p.Shading != "" {
		rp.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="` + p.Shading + `"/>`)
	}
	if p.VertAlign != "" {
		rp.WriteString(`<w:vertAlign w:val="` + p.VertAlign + `"/>`)
	}
	if rp.Len() > 0 {
		b.WriteString(`<w:rPr>` + rp.String() + `</w:rPr>`)
	}
}

func halfPoints(pt float64) int {
	return int(pt*2 + 0.5)
}

func (w *writer) picture(p *Picture) {
	w.picID++
	ext := embeddable[p.Format].ext
	if ext == "" {
		ext = "png"
	}
	name := fmt.Sprintf("image%d.%s", w.picID, ext)
	w.media = append(w.media, mediaFile{name: name, data: p.Data})
	rid := w.addRel(relImage, "media/"+name, false)

	b := &w.b
	id := strconv.Itoa(w.picID)
	b.WriteString(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, p.Width, p.Height)
	b.WriteString(`<wp:docPr id="` + id + `" name="Picture ` + id + `" descr="`)
	escape(b, p.Alt)
	b.WriteString(`"/><wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`)
	b.WriteString(`<a:graphic><a:graphicData uri="` + nsPic + `"><pic:pic>`)
	b.WriteString(`<pic:nvPicPr><pic:cNvPr id="` + id + `" name="` + name + `"/><pic:cNvPicPr/></pic:nvPicPr>`)
	b.WriteString(`<pic:blipFill><a:blip r:embed="` + rid + `"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`)
	fmt.Fprintf(b, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, p.Width, p.Height)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic></a:graphicData></a:graphic>`)
	b.WriteString(`</wp:inline></w:drawing></w:r>`)
}

func (w *writer) table(t *Table) {
	cols := t.Columns()
	if cols == 0 {
		return
	}
	b := &w.b
	tp := t.Props

	b.WriteString(`<w:tbl><w:tblPr>`)
	style := tp.Style
	if style == "" {
		style = "TableGrid"
	}
	b.WriteString(`<w:tblStyle w:val="` + style + `"/>`)
	switch tp.WidthType {
	case WidthPct, WidthDXA:
		fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="%s"/>`, tp.Width, tp.WidthType)
	default:
		b.WriteString(`<w:tblW w:w="0" w:type="auto"/>`)
	}
	if tp.Border != nil {
		b.WriteString(`<w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			borderXML(b, side, tp.Border)
		}
		b.WriteString(`</w:tblBorders>`)
	}
	if tp.WidthType == WidthDXA {
		b.WriteString(`<w:tblLayout w:type="fixed"/>`)
	}
	m := tp.CellMargins
	if m != [4]int{} {
		fmt.Fprintf(b, `<w:tblCellMar><w:top w:w="%d" w:type="dxa"/><w:left w:w="%d" w:type="dxa"/>`+
			`<w:bottom w:w="%d" w:type="dxa"/><w:right w:w="%d" w:type="dxa"/></w:tblCellMar>`, m[0], m[1], m[2], m[3])
	}
	b.WriteString(`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="1" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/>`)
	b.WriteString(`</w:tblPr><w:tblGrid>`)

	colWidth := w.gridWidth(t) / cols
	for range cols {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colWidth)
	}
	b.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		if row.Header {
			b.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
		}
		for i := range cols {
			var cell *Cell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			} else {
				cell = &Cell{}
			}
			w.cell(cell, colWidth, tp.WidthType == WidthDXA)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func (w *writer) gridWidth(t *Table) int {
	content := w.doc.Page.ContentWidth()
	switch t.Props.WidthType {
	case WidthDXA:
		return t.Props.Width
	case WidthPct:
		return content * t.Props.Width / 5000
	}
	return content
}

func (w *writer) cell(c *Cell, width int, fixed bool) {
	b := &w.b
	b.WriteString(`<w:tc><w:tcPr>`)
	if fixed {
		fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, width)
	} else {
		b.WriteString(`<w:tcW w:w="0" w:type="auto"/>`)
	}
	if c.Shading != "" {
		b.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="` + c.Shading + `"/>`)
	}
	b.WriteString(`</w:tcPr>`)
	if len(c.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}
	for _, p := range c.Paragraphs {
		w.paragraph(p)
	}
	b.WriteString(`</w:tc>`)
}

// escape writes s with XML special characters (quotes included) escaped.
func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
