package htmldocx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/docx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse is returned when the HTML cannot be parsed at all.
var ErrParse = errors.New("parsing HTML")

// HighlightColor is the highlight used for <mark>.
const HighlightColor = "yellow"

var (
	spaceRun   = regexp.MustCompile(`[ \t\n\r\f]+`)
	textAlign  = regexp.MustCompile(`(?i)text-align\s*:\s*(left|center|right|justify)`)
	alignments = map[string]string{"left": "left", "center": "center", "right": "right", "justify": "both"}
)

// Build converts an HTML fragment into a document. An image that cannot be
// read or embedded fails the build with an error wrapping
// docx.ErrUnrecognizedImage, so the caller can retry without it.
func Build(htmlContent string) (*docx.Document, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := docx.New()
	b := newBuilder(doc, &doc.Blocks)
	for _, n := range nodes {
		b.block(n)
	}
	b.flush()
	if b.err != nil {
		return nil, b.err
	}
	return doc, nil
}

// format is the inline formatting inherited from enclosing elements.
type format struct {
	bold, italic, underline, strike bool
	vertAlign                       string
	highlight                       string
}

func (f format) props() docx.RunProps {
	return docx.RunProps{
		Bold:      f.bold,
		Italic:    f.italic,
		Underline: f.underline,
		Strike:    f.strike,
		VertAlign: f.vertAlign,
		Highlight: f.highlight,
	}
}

type builder struct {
	doc  *docx.Document
	out  *[]docx.Block
	cur  *docx.Paragraph
	link *docx.Hyperlink
	pre  int
	err  error
}

func newBuilder(doc *docx.Document, out *[]docx.Block) *builder {
	return &builder{doc: doc, out: out}
}

// open starts p as the paragraph receiving inline content.
func (b *builder) open(p *docx.Paragraph) {
	b.flush()
	b.cur = p
}

// ensure opens a plain paragraph when inline content arrives outside one.
func (b *builder) ensure() *docx.Paragraph {
	if b.cur == nil {
		b.cur = &docx.Paragraph{}
	}
	return b.cur
}

// flush closes the open paragraph, trimming edge whitespace. Empty plain
// paragraphs are dropped.
func (b *builder) flush() {
	b.close(true)
}

func (b *builder) close(trim bool) {
	p := b.cur
	if p == nil {
		return
	}
	b.cur = nil
	if trim {
		trimEdges(p)
	}
	if len(p.Inlines) == 0 && p.Heading == 0 && p.List == nil {
		return
	}
	*b.out = append(*b.out, p)
}

func (b *builder) block(n *html.Node) {
	if b.err != nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		if b.cur == nil && strings.TrimSpace(n.Data) == "" {
			return
		}
		b.inline(n, format{})
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.P:
		b.open(&docx.Paragraph{Props: docx.ParagraphProps{Alignment: alignment(n)}})
		b.inlineChildren(n, format{})
		b.flush()
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		b.open(&docx.Paragraph{
			Style:   "Heading" + strconv.Itoa(level),
			Heading: level,
			Props:   docx.ParagraphProps{Alignment: alignment(n)},
		})
		b.inlineChildren(n, format{})
		b.flush()
	case atom.Ul, atom.Ol:
		b.flush()
		b.list(n, 0)
	case atom.Table:
		b.flush()
		b.table(n)
	case atom.Pre:
		b.open(&docx.Paragraph{})
		b.pre++
		b.inlineChildren(n, format{})
		b.pre--
		if p := b.cur; p != nil && len(p.Inlines) > 0 {
			if r, ok := p.Inlines[len(p.Inlines)-1].(*docx.Run); ok {
				r.Text = strings.TrimSuffix(r.Text, "\n")
			}
		}
		b.close(false)
	case atom.Hr:
		b.flush()
		*b.out = append(*b.out, &docx.Paragraph{})
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
	case atom.Blockquote, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Main, atom.Nav, atom.Aside, atom.Figure, atom.Figcaption, atom.Details,
		atom.Summary, atom.Dl, atom.Dt, atom.Dd, atom.Body, atom.Html, atom.Center:
		b.flush()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.block(c)
		}
		b.flush()
	default:
		b.inline(n, format{})
	}
}

func (b *builder) list(n *html.Node, level int) {
	id := b.doc.NewList(n.DataAtom == atom.Ol)
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		b.listItem(li, id, level)
	}
}

// listItem emits the item paragraph. Extra paragraphs of a loose item follow
// as unnumbered list paragraphs; nested lists go one level deeper.
func (b *builder) listItem(li *html.Node, id, level int) {
	item := &docx.Paragraph{Style: "ListParagraph", List: &docx.ListRef{ID: id, Level: level}}
	b.open(item)
	used := false
	continuation := func() {
		if b.cur == nil {
			b.cur = &docx.Paragraph{Style: "ListParagraph"}
		}
	}

	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if b.err != nil {
			return
		}
		if c.Type != html.ElementNode {
			if c.Type == html.TextNode && (b.cur != nil || strings.TrimSpace(c.Data) != "") {
				continuation()
				b.inline(c, format{})
			}
			continue
		}
		switch c.DataAtom {
		case atom.Ul, atom.Ol:
			b.flush()
			used = true
			b.list(c, level+1)
		case atom.P:
			if used || b.cur != item || len(item.Inlines) > 0 {
				b.flush()
				b.cur = &docx.Paragraph{Style: "ListParagraph"}
			}
			used = true
			b.inlineChildren(c, format{})
			b.flush()
		case atom.Table, atom.Pre, atom.Div, atom.Blockquote, atom.H1, atom.H2, atom.H3,
			atom.H4, atom.H5, atom.H6, atom.Hr:
			used = true
			b.block(c)
		default:
			continuation()
			b.inline(c, format{})
		}
	}
	b.flush()
}

func (b *builder) table(n *html.Node) {
	t := &docx.Table{}
	var rows func(n *html.Node, header bool)
	rows = func(n *html.Node, header bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				rows(c, true)
			case atom.Tbody, atom.Tfoot:
				rows(c, false)
			case atom.Tr:
				if row := b.row(c, header); row != nil {
					t.Rows = append(t.Rows, row)
				}
			}
		}
	}
	rows(n, false)
	if b.err != nil || len(t.Rows) == 0 {
		return
	}
	*b.out = append(*b.out, t)
}

func (b *builder) row(tr *html.Node, header bool) *docx.Row {
	row := &docx.Row{Header: header}
	allTH := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom != atom.Th {
			allTH = false
		}
		row.Cells = append(row.Cells, b.cell(c))
	}
	if len(row.Cells) == 0 {
		return nil
	}
	if allTH {
		row.Header = true
	}
	return row
}

// cell builds the paragraphs of a table cell. Tables nested in a cell are
// flattened to their paragraphs.
func (b *builder) cell(td *html.Node) *docx.Cell {
	var blocks []docx.Block
	sub := newBuilder(b.doc, &blocks)
	for c := td.FirstChild; c != nil; c = c.NextSibling {
		sub.block(c)
	}
	sub.flush()
	if sub.err != nil && b.err == nil {
		b.err = sub.err
	}

	cell := &docx.Cell{}
	align := alignment(td)
	var collect func(docx.Block)
	collect = func(blk docx.Block) {
		switch v := blk.(type) {
		case *docx.Paragraph:
			if align != "" && v.Props.Alignment == "" {
				v.Props.Alignment = align
			}
			cell.Paragraphs = append(cell.Paragraphs, v)
		case *docx.Table:
			for _, r := range v.Rows {
				for _, c := range r.Cells {
					for _, p := range c.Paragraphs {
						collect(p)
					}
				}
			}
		}
	}
	for _, blk := range blocks {
		collect(blk)
	}
	if len(cell.Paragraphs) == 0 {
		cell.Paragraphs = []*docx.Paragraph{{Props: docx.ParagraphProps{Alignment: align}}}
	}
	return cell
}

func (b *builder) inlineChildren(n *html.Node, f format) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.inline(c, f)
	}
}

func (b *builder) inline(n *html.Node, f format) {
	if b.err != nil {
		return
	}
	if n.Type == html.TextNode {
		b.text(n.Data, f)
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		f.bold = true
	case atom.Em, atom.I, atom.Cite, atom.Var, atom.Dfn:
		f.italic = true
	case atom.U, atom.Ins:
		f.underline = true
	case atom.Del, atom.S, atom.Strike:
		f.strike = true
	case atom.Sup:
		f.vertAlign = "superscript"
	case atom.Sub:
		f.vertAlign = "subscript"
	case atom.Mark:
		f.highlight = HighlightColor
	case atom.Br:
		b.addRun("\n", f)
		return
	case atom.Img:
		b.image(n)
		return
	case atom.A:
		b.anchor(n, f)
		return
	case atom.Input:
		if strings.EqualFold(attr(n, "type"), "checkbox") {
			box := "☐ "
			if hasAttr(n, "checked") {
				box = "☒ "
			}
			b.addRun(box, f)
		}
		return
	case atom.Script, atom.Style:
		return
	case atom.Ul, atom.Ol, atom.Table, atom.P, atom.Div, atom.Pre, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		// Block content inside an inline context closes the paragraph.
		if b.link == nil {
			b.block(n)
			return
		}
	}
	b.inlineChildren(n, f)
}

func (b *builder) anchor(n *html.Node, f format) {
	href := strings.TrimSpace(attr(n, "href"))
	if hasClass(n, "footnote-backref") {
		return
	}
	if href == "" || strings.HasPrefix(href, "#") || b.link != nil {
		b.inlineChildren(n, f)
		return
	}
	link := &docx.Hyperlink{URL: href}
	b.link = link
	b.inlineChildren(n, f)
	b.link = nil
	if len(link.Runs) > 0 {
		p := b.ensure()
		p.Inlines = append(p.Inlines, link)
	}
}

func (b *builder) image(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	alt := attr(n, "alt")
	if src == "" {
		if alt != "" {
			b.addRun(alt, format{})
		}
		return
	}
	pic, err := docx.LoadPicture(src, alt)
	if err != nil {
		if !errors.Is(err, docx.ErrUnrecognizedImage) {
			err = fmt.Errorf("%w: %v", docx.ErrUnrecognizedImage, err)
		}
		b.err = fmt.Errorf("image %s: %w", src, err)
		return
	}
	p := b.ensure()
	p.Inlines = append(p.Inlines, pic)
}

// text adds character data, collapsing whitespace outside <pre>.
func (b *builder) text(s string, f format) {
	if b.pre == 0 {
		s = spaceRun.ReplaceAllString(s, " ")
		if s == " " && b.endsWithSpace() {
			return
		}
		if strings.HasPrefix(s, " ") && b.endsWithSpace() {
			s = s[1:]
		}
	}
	if s == "" {
		return
	}
	b.addRun(s, f)
}

// endsWithSpace reports whether the open paragraph is empty or its last text
// ends in whitespace, so a leading space would be redundant.
func (b *builder) endsWithSpace() bool {
	var runs []*docx.Run
	if b.link != nil {
		runs = b.link.Runs
	}
	if len(runs) == 0 {
		if b.cur == nil {
			return true
		}
		for i := len(b.cur.Inlines) - 1; i >= 0; i-- {
			switch v := b.cur.Inlines[i].(type) {
			case *docx.Run:
				return v.Text == "" || strings.HasSuffix(v.Text, " ") || strings.HasSuffix(v.Text, "\n")
			case *docx.Hyperlink:
				if len(v.Runs) > 0 {
					t := v.Runs[len(v.Runs)-1].Text
					return strings.HasSuffix(t, " ")
				}
			default:
				return false
			}
		}
		return true
	}
	t := runs[len(runs)-1].Text
	return strings.HasSuffix(t, " ") || strings.HasSuffix(t, "\n")
}

// addRun appends text with f, merging into the previous run when the
// formatting matches.
func (b *builder) addRun(text string, f format) {
	props := f.props()
	if b.link != nil {
		props.Style = "Hyperlink"
		if n := len(b.link.Runs); n > 0 && b.link.Runs[n-1].Props == props {
			b.link.Runs[n-1].Text += text
			return
		}
		b.link.Runs = append(b.link.Runs, &docx.Run{Text: text, Props: props})
		return
	}
	p := b.ensure()
	if n := len(p.Inlines); n > 0 {
		if r, ok := p.Inlines[n-1].(*docx.Run); ok && r.Props == props {
			r.Text += text
			return
		}
	}
	p.Inlines = append(p.Inlines, &docx.Run{Text: text, Props: props})
}

// trimEdges drops leading and trailing spaces of a paragraph.
func trimEdges(p *docx.Paragraph) {
	runs := p.Runs()
	if len(runs) == 0 {
		return
	}
	if _, ok := p.Inlines[0].(*docx.Run); ok {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
	}
	if _, ok := p.Inlines[len(p.Inlines)-1].(*docx.Run); ok {
		last := runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " ")
	}

	kept := p.Inlines[:0]
	for _, in := range p.Inlines {
		if r, ok := in.(*docx.Run); ok && r.Text == "" && !r.PageBreak {
			continue
		}
		kept = append(kept, in)
	}
	p.Inlines = kept
}

func alignment(n *html.Node) string {
	if a, ok := alignments[strings.ToLower(attr(n, "align"))]; ok {
		return a
	}
	if m := textAlign.FindStringSubmatch(attr(n, "style")); m != nil {
		return alignments[strings.ToLower(m[1])]
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
