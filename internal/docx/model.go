package docx

import "strings"

// Length conversions.
const (
	TwipsPerPoint = 20
	TwipsPerInch  = 1440
	EMUPerInch    = 914400
	EMUPerPixel   = 9525 // at 96 DPI
)

// Block is a top-level body element: *Paragraph or *Table.
type Block interface {
	isBlock()
}

// Inline is a paragraph child: *Run, *Hyperlink, *Math or *Picture.
type Inline interface {
	isInline()
}

// Kind is the structural origin of a paragraph. Re-injected paragraphs carry
// their own formatting and are skipped by role styling.
type Kind int

const (
	KindNormal Kind = iota
	KindCode
	KindQuote
	KindFormula
	KindTOC
)

// Page describes the section geometry in twips.
type Page struct {
	Width          int
	Height         int
	MarginTop      int
	MarginBottom   int
	MarginLeft     int
	MarginRight    int
	HeaderDistance int
	FooterDistance int
}

// DefaultPage returns US Letter with one-inch margins.
func DefaultPage() Page {
	return Page{
		Width:          12240,
		Height:         15840,
		MarginTop:      TwipsPerInch,
		MarginBottom:   TwipsPerInch,
		MarginLeft:     TwipsPerInch,
		MarginRight:    TwipsPerInch,
		HeaderDistance: 720,
		FooterDistance: 720,
	}
}

// ContentWidth returns the usable text width in twips.
func (p Page) ContentWidth() int {
	return p.Width - p.MarginLeft - p.MarginRight
}

// Document is an in-memory word-processing document.
type Document struct {
	Blocks []Block
	Page   Page

	DefaultFont string
	DefaultSize float64 // points

	Title string

	// UpdateFields asks the consuming application to refresh fields such as
	// the table of contents when the file is opened.
	UpdateFields bool

	lists []listDef
}

type listDef struct {
	ordered bool
}

// New returns an empty document with default page geometry.
func New() *Document {
	return &Document{Page: DefaultPage(), DefaultSize: 11}
}

// NewList registers a list instance and returns its id. Every ordered list
// restarts its numbering at 1.
func (d *Document) NewList(ordered bool) int {
	d.lists = append(d.lists, listDef{ordered: ordered})
	return len(d.lists)
}

// Paragraphs returns every body paragraph in document order, excluding those
// inside tables.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Pictures returns every picture in the document, tables included.
func (d *Document) Pictures() []*Picture {
	var out []*Picture
	d.EachParagraph(func(p *Paragraph) {
		for _, in := range p.Inlines {
			if pic, ok := in.(*Picture); ok {
				out = append(out, pic)
			}
		}
	})
	return out
}

// EachParagraph calls fn for every paragraph, descending into table cells.
func (d *Document) EachParagraph(fn func(*Paragraph)) {
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *Paragraph:
			fn(v)
		case *Table:
			for _, row := range v.Rows {
				for _, cell := range row.Cells {
					for _, p := range cell.Paragraphs {
						fn(p)
					}
				}
			}
		}
	}
}

// Prepend inserts blocks before the first block.
func (d *Document) Prepend(blocks ...Block) {
	d.Blocks = append(append([]Block{}, blocks...), d.Blocks...)
}

// ListRef places a paragraph in a list.
type ListRef struct {
	ID    int // from Document.NewList
	Level int // 0-based nesting depth
}

// Border is one side of a paragraph or table border.
type Border struct {
	Style string // single, double, dotted, dashed, none
	Size  int    // eighths of a point
	Color string // RRGGBB
	Space int    // points
}

// Spacing is paragraph spacing in twips. Line is 240ths of a line for the
// "auto" rule and twips otherwise.
type Spacing struct {
	Before, After *int
	Line          int
	LineRule      string // auto, exact, atLeast
}

// ParagraphProps holds direct paragraph formatting.
type ParagraphProps struct {
	Alignment       string // left, center, right, both
	Spacing         Spacing
	LeftIndent      int // twips
	FirstLineIndent int // twips
	Shading         string
	BorderLeft      *Border
	KeepNext        bool
}

// Paragraph is a body or cell paragraph.
type Paragraph struct {
	Kind    Kind
	Style   string // style id such as Heading1, ListParagraph, TOCHeading
	Heading int    // 1-9 for headings, 0 otherwise
	List    *ListRef
	Props   ParagraphProps
	Inlines []Inline
}

func (*Paragraph) isBlock() {}

// NewParagraph returns a paragraph holding a single plain run.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.Inlines = append(p.Inlines, &Run{Text: text})
	}
	return p
}

// AddRun appends a run and returns it.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{Text: text}
	p.Inlines = append(p.Inlines, r)
	return r
}

// Text returns the concatenated text of all runs, hyperlinks included.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, in := range p.Inlines {
		switch v := in.(type) {
		case *Run:
			b.WriteString(v.Text)
		case *Hyperlink:
			for _, r := range v.Runs {
				b.WriteString(r.Text)
			}
		}
	}
	return b.String()
}

// Runs returns the text runs of the paragraph, including those nested in
// hyperlinks.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, in := range p.Inlines {
		switch v := in.(type) {
		case *Run:
			out = append(out, v)
		case *Hyperlink:
			out = append(out, v.Runs...)
		}
	}
	return out
}

// RunProps holds direct character formatting. Zero values mean "inherit".
type RunProps struct {
	Font      string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // RRGGBB
	Shading   string // RRGGBB background fill
	Highlight string // Word highlight color name
	VertAlign string // superscript, subscript
	Style     string // character style id
}

// Run is a span of uniformly formatted text. "\n" in Text becomes a line
// break and "\t" a tab.
type Run struct {
	Text  string
	Props RunProps

	// Field markers surround Text: begin, instruction and separator before
	// it, end after it.
	FieldBegin bool
	Instr      string
	FieldSep   bool
	FieldEnd   bool

	PageBreak bool
}

func (*Run) isInline() {}

// Hyperlink is an external link around one or more runs.
type Hyperlink struct {
	URL  string
	Runs []*Run
}

func (*Hyperlink) isInline() {}

// Math is a pre-rendered Office Math fragment (<m:oMath>...</m:oMath>).
// Display math is wrapped in <m:oMathPara>.
type Math struct {
	XML     string
	Display bool
}

func (*Math) isInline() {}

// Table is a grid of cells.
type Table struct {
	Rows  []*Row
	Props TableProps
}

func (*Table) isBlock() {}

// Columns returns the widest row's cell count.
func (t *Table) Columns() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// Width modes.
const (
	WidthAuto = "auto"
	WidthPct  = "pct" // fiftieths of a percent
	WidthDXA  = "dxa" // twips
)

// TableProps holds direct table formatting.
type TableProps struct {
	Border      *Border // applied to all edges and inner lines
	WidthType   string
	Width       int
	CellMargins [4]int // top, left, bottom, right in twips
	Style       string
}

// Row is a table row.
type Row struct {
	Cells  []*Cell
	Header bool
}

// Cell is a table cell.
type Cell struct {
	Paragraphs []*Paragraph
	Shading    string
}
