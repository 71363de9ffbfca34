package assemble

// Notes:
// - Placeholder tokens are produced by the real extractors so the tests track
//   the token format; formula records are built by hand because their tokens
//   only need the right prefix and length.

import (
	"strings"
	"testing"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/formula"
	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/style"
)

func codeToken(t *testing.T, code string) (string, *pipeline.Registry) {
	t.Helper()
	html, reg := pipeline.ExtractCode("<pre><code>" + code + "</code></pre>")
	token := strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>")
	if !strings.HasPrefix(token, pipeline.CodePrefix) {
		t.Fatalf("ExtractCode() = %q, want a code placeholder", html)
	}
	return token, reg
}

func formulaRecord(latex string, block bool) formula.Record {
	prefix := formula.InlinePrefix
	if block {
		prefix = formula.BlockPrefix
	}
	return formula.Record{Token: prefix + strings.Repeat("a", 32), LaTeX: latex, Block: block}
}

func docOf(blocks ...docx.Block) *docx.Document {
	doc := docx.New()
	doc.Blocks = blocks
	return doc
}

// ---------------------------------------------------------------------------
// TestReinjectCode - Placeholder paragraphs become code blocks
// ---------------------------------------------------------------------------

func TestReinjectCode(t *testing.T) {
	t.Parallel()

	t.Run("standalone placeholder", func(t *testing.T) {
		t.Parallel()

		token, reg := codeToken(t, "a := 1\nb := 2\n")
		p := docx.NewParagraph(token)
		doc := docOf(docx.NewParagraph("before"), p)

		warnings := ReinjectCode(doc, reg, config.DefaultStyleSpec())

		if len(warnings) != 0 {
			t.Errorf("warnings = %v, want none", warnings)
		}
		got := doc.Blocks[1].(*docx.Paragraph)
		if got.Kind != docx.KindCode {
			t.Errorf("Kind = %v, want KindCode", got.Kind)
		}
		if !strings.Contains(got.Text(), "a := 1") || !strings.Contains(got.Text(), "b := 2") {
			t.Errorf("Text() = %q, want both code lines", got.Text())
		}
		if rem := reg.Remaining(); len(rem) != 0 {
			t.Errorf("registry Remaining() = %d blocks, want 0", len(rem))
		}
	})

	t.Run("placeholder in list item keeps indent", func(t *testing.T) {
		t.Parallel()

		token, reg := codeToken(t, "x")
		p := docx.NewParagraph(token)
		p.List = &docx.ListRef{ID: 1, Level: 1}
		doc := docOf(p)

		ReinjectCode(doc, reg, config.DefaultStyleSpec())

		got := doc.Blocks[0].(*docx.Paragraph)
		if got.Props.LeftIndent != 2*listIndent {
			t.Errorf("LeftIndent = %d, want %d", got.Props.LeftIndent, 2*listIndent)
		}
		if got.List != nil {
			t.Error("List should be cleared on the code paragraph")
		}
	})

	t.Run("placeholder inside text", func(t *testing.T) {
		t.Parallel()

		token, reg := codeToken(t, "x = 1")
		doc := docOf(docx.NewParagraph("see " + token + " here"))

		warnings := ReinjectCode(doc, reg, config.DefaultStyleSpec())

		if got := doc.Blocks[0].(*docx.Paragraph).Text(); got != "see x = 1 here" {
			t.Errorf("Text() = %q, want %q", got, "see x = 1 here")
		}
		if len(warnings) != 1 || warnings[0].Stage != StageCode {
			t.Errorf("warnings = %v, want one %s warning", warnings, StageCode)
		}
	})

	t.Run("lost placeholder", func(t *testing.T) {
		t.Parallel()

		_, reg := codeToken(t, "x")
		doc := docOf(docx.NewParagraph("nothing here"))

		warnings := ReinjectCode(doc, reg, config.DefaultStyleSpec())

		if len(warnings) != 1 || !strings.Contains(warnings[0].Reason, "not found") {
			t.Errorf("warnings = %v, want one not-found warning", warnings)
		}
	})
}

// ---------------------------------------------------------------------------
// TestReinjectQuotes - Quote placeholders inside table cells
// ---------------------------------------------------------------------------

func TestReinjectQuotes(t *testing.T) {
	t.Parallel()

	reg := pipeline.NewRegistry()
	html := pipeline.ExtractQuotes("<blockquote><p>wise words</p></blockquote>", reg)
	token := strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>")
	if !strings.HasPrefix(token, pipeline.QuotePrefix) {
		t.Fatalf("ExtractQuotes() = %q, want a quote placeholder", html)
	}

	cell := &docx.Cell{Paragraphs: []*docx.Paragraph{docx.NewParagraph(token)}}
	doc := docOf(&docx.Table{Rows: []*docx.Row{{Cells: []*docx.Cell{cell}}}})

	warnings := ReinjectQuotes(doc, reg, config.DefaultStyleSpec())

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	got := cell.Paragraphs[0]
	if got.Kind != docx.KindQuote {
		t.Errorf("Kind = %v, want KindQuote", got.Kind)
	}
	if got.Text() != "wise words" {
		t.Errorf("Text() = %q, want %q", got.Text(), "wise words")
	}
	if got.Props.BorderLeft == nil {
		t.Error("BorderLeft = nil, want a left border")
	}
}

// ---------------------------------------------------------------------------
// TestReinjectFormulas - Display, inline, fallback and link cases
// ---------------------------------------------------------------------------

func TestReinjectFormulas(t *testing.T) {
	t.Parallel()

	t.Run("display formula", func(t *testing.T) {
		t.Parallel()

		rec := formulaRecord(`\frac{a}{b}`, true)
		doc := docOf(docx.NewParagraph(rec.Token))

		warnings := ReinjectFormulas(doc, []formula.Record{rec})

		if len(warnings) != 0 {
			t.Errorf("warnings = %v, want none", warnings)
		}
		p := doc.Blocks[0].(*docx.Paragraph)
		if p.Kind != docx.KindFormula || p.Props.Alignment != "center" {
			t.Errorf("Kind, Alignment = %v, %q, want KindFormula, center", p.Kind, p.Props.Alignment)
		}
		m, ok := p.Inlines[0].(*docx.Math)
		if !ok || !m.Display {
			t.Fatalf("Inlines[0] = %#v, want display math", p.Inlines[0])
		}
		if !strings.Contains(m.XML, "<m:f>") {
			t.Errorf("XML = %q, want a fraction", m.XML)
		}
	})

	t.Run("inline formula splits the run", func(t *testing.T) {
		t.Parallel()

		rec := formulaRecord(`x^2`, false)
		p := &docx.Paragraph{Inlines: []docx.Inline{
			&docx.Run{Text: "area " + rec.Token + " units", Props: docx.RunProps{Bold: true}},
		}}
		doc := docOf(p)

		ReinjectFormulas(doc, []formula.Record{rec})

		if len(p.Inlines) != 3 {
			t.Fatalf("len(Inlines) = %d, want 3", len(p.Inlines))
		}
		before := p.Inlines[0].(*docx.Run)
		if before.Text != "area " || !before.Props.Bold {
			t.Errorf("before run = %q bold=%v, want %q bold", before.Text, before.Props.Bold, "area ")
		}
		if m, ok := p.Inlines[1].(*docx.Math); !ok || m.Display {
			t.Errorf("Inlines[1] = %#v, want inline math", p.Inlines[1])
		}
		if after := p.Inlines[2].(*docx.Run); after.Text != " units" {
			t.Errorf("after run = %q, want %q", after.Text, " units")
		}
	})

	t.Run("untranslatable formula falls back", func(t *testing.T) {
		t.Parallel()

		rec := formulaRecord(`\frac{a}`, false)
		doc := docOf(docx.NewParagraph("see " + rec.Token))

		warnings := ReinjectFormulas(doc, []formula.Record{rec})

		if len(warnings) != 1 || warnings[0].Source != rec.Source() {
			t.Errorf("warnings = %v, want one warning for %q", warnings, rec.Source())
		}
		p := doc.Blocks[0].(*docx.Paragraph)
		if _, ok := p.Inlines[1].(*docx.Math); !ok {
			t.Errorf("Inlines[1] = %#v, want fallback math", p.Inlines[1])
		}
	})

	t.Run("formula inside link stays text", func(t *testing.T) {
		t.Parallel()

		rec := formulaRecord(`y`, false)
		link := &docx.Hyperlink{URL: "https://example.com", Runs: []*docx.Run{{Text: rec.Token}}}
		doc := docOf(&docx.Paragraph{Inlines: []docx.Inline{link}})

		warnings := ReinjectFormulas(doc, []formula.Record{rec})

		if link.Runs[0].Text != "$y$" {
			t.Errorf("link text = %q, want %q", link.Runs[0].Text, "$y$")
		}
		if len(warnings) != 1 {
			t.Errorf("len(warnings) = %d, want 1", len(warnings))
		}
	})

	t.Run("code paragraphs restore the source", func(t *testing.T) {
		t.Parallel()

		x, y := formulaRecord(`x`, false), formulaRecord(`y`, false)
		y.Token = formula.InlinePrefix + strings.Repeat("b", 32)
		y.Raw = "$y$"
		p := style.CodeParagraph("cost = "+x.Token+" + "+y.Token, "", config.DefaultStyleSpec())
		doc := docOf(p)

		warnings := ReinjectFormulas(doc, []formula.Record{x, y})

		if got := p.Text(); got != "cost = $x$ + $y$" {
			t.Errorf("Text() = %q, want %q", got, "cost = $x$ + $y$")
		}
		if p.Kind != docx.KindCode {
			t.Errorf("Kind = %v, want KindCode", p.Kind)
		}
		if len(warnings) != 0 {
			t.Errorf("warnings = %v, want none", warnings)
		}
	})

	t.Run("no records", func(t *testing.T) {
		t.Parallel()

		if got := ReinjectFormulas(docOf(docx.NewParagraph("x")), nil); got != nil {
			t.Errorf("ReinjectFormulas() = %v, want nil", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestStyleInlineCode - Marker splitting
// ---------------------------------------------------------------------------

func TestStyleInlineCode(t *testing.T) {
	t.Parallel()

	s, e := pipeline.InlineCodeStart, pipeline.InlineCodeEnd
	spec := config.DefaultStyleSpec()
	spec.FontName = "Consolas"

	tests := []struct {
		name      string
		text      string
		wantCount int
		wantTexts []string
	}{
		{name: "no markers", text: "plain", wantTexts: []string{"plain"}},
		{name: "one span", text: "use " + s + "go test" + e + " now", wantCount: 1,
			wantTexts: []string{"use ", "go test", " now"}},
		{name: "two spans", text: s + "a" + e + " and " + s + "b" + e, wantCount: 2,
			wantTexts: []string{"a", " and ", "b"}},
		{name: "unpaired start", text: "x " + s + "y", wantTexts: []string{"x ", "y"}},
		{name: "stray end", text: "x" + e + "y", wantTexts: []string{"xy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := docx.NewParagraph(tt.text)
			doc := docOf(p)

			if got := StyleInlineCode(doc, spec); got != tt.wantCount {
				t.Errorf("StyleInlineCode() = %d, want %d", got, tt.wantCount)
			}
			runs := p.Runs()
			if len(runs) != len(tt.wantTexts) {
				t.Fatalf("len(runs) = %d, want %d (%q)", len(runs), len(tt.wantTexts), p.Text())
			}
			for i, want := range tt.wantTexts {
				if runs[i].Text != want {
					t.Errorf("runs[%d].Text = %q, want %q", i, runs[i].Text, want)
				}
			}
		})
	}

	t.Run("code span is styled", func(t *testing.T) {
		t.Parallel()

		p := docx.NewParagraph(s + "code" + e)
		StyleInlineCode(docOf(p), spec)

		r := p.Runs()[0]
		if r.Props.Font != "Consolas" {
			t.Errorf("Font = %q, want %q", r.Props.Font, "Consolas")
		}
		if r.Props.Shading == "" {
			t.Error("Shading is empty, want a background")
		}
	})

	t.Run("inside hyperlink", func(t *testing.T) {
		t.Parallel()

		link := &docx.Hyperlink{URL: "https://go.dev", Runs: []*docx.Run{
			{Text: "see " + s + "fmt" + e, Props: docx.RunProps{Style: "Hyperlink"}},
		}}
		p := &docx.Paragraph{Inlines: []docx.Inline{link}}

		if got := StyleInlineCode(docOf(p), spec); got != 1 {
			t.Errorf("StyleInlineCode() = %d, want 1", got)
		}
		if len(link.Runs) != 2 {
			t.Fatalf("len(link.Runs) = %d, want 2", len(link.Runs))
		}
		if link.Runs[1].Props.Style != "Hyperlink" {
			t.Errorf("code run Style = %q, want %q", link.Runs[1].Props.Style, "Hyperlink")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResizeImages - Width cap
// ---------------------------------------------------------------------------

func TestResizeImages(t *testing.T) {
	t.Parallel()

	wide := &docx.Picture{Width: 10 * docx.EMUPerInch, Height: 5 * docx.EMUPerInch}
	narrow := &docx.Picture{Width: 2 * docx.EMUPerInch, Height: 2 * docx.EMUPerInch}
	p := &docx.Paragraph{Inlines: []docx.Inline{wide, narrow}}
	doc := docOf(p)

	if got := ResizeImages(doc, 6); got != 1 {
		t.Errorf("ResizeImages() = %d, want 1", got)
	}
	if wide.Width != 6*docx.EMUPerInch || wide.Height != 3*docx.EMUPerInch {
		t.Errorf("wide = %dx%d, want %dx%d", wide.Width, wide.Height, 6*docx.EMUPerInch, 3*docx.EMUPerInch)
	}
	if narrow.Width != 2*docx.EMUPerInch {
		t.Errorf("narrow.Width = %d, want unchanged", narrow.Width)
	}
	if got := ResizeImages(doc, 0); got != 0 {
		t.Errorf("ResizeImages(0) = %d, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// TestInsertTOC - Field, title and defaults
// ---------------------------------------------------------------------------

func TestInsertTOC(t *testing.T) {
	t.Parallel()

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		doc := docx.New()
		if InsertTOC(doc, TOC{}, config.DefaultStyleSpec()) {
			t.Error("InsertTOC() = true, want false for an empty document")
		}
		if doc.UpdateFields {
			t.Error("UpdateFields = true, want false")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		doc := docOf(docx.NewParagraph("body"))
		if !InsertTOC(doc, TOC{}, config.DefaultStyleSpec()) {
			t.Fatal("InsertTOC() = false, want true")
		}
		if len(doc.Blocks) != 4 {
			t.Fatalf("len(Blocks) = %d, want 4", len(doc.Blocks))
		}
		title := doc.Blocks[0].(*docx.Paragraph)
		if title.Text() != DefaultTOCTitle || title.Style != "TOCHeading" {
			t.Errorf("title = %q style %q, want %q style TOCHeading", title.Text(), title.Style, DefaultTOCTitle)
		}
		field := doc.Blocks[1].(*docx.Paragraph).Runs()
		if !field[0].FieldBegin || !strings.Contains(field[0].Instr, `\o "1-3"`) {
			t.Errorf("field begin = %+v, want a TOC field over levels 1-3", field[0])
		}
		if field[1].Text != TOCPlaceholder {
			t.Errorf("placeholder = %q, want %q", field[1].Text, TOCPlaceholder)
		}
		if !field[len(field)-1].FieldEnd {
			t.Error("last field run is not a field end")
		}
		if !doc.Blocks[2].(*docx.Paragraph).Runs()[0].PageBreak {
			t.Error("third block is not a page break")
		}
		if !doc.UpdateFields {
			t.Error("UpdateFields = false, want true")
		}
	})

	t.Run("custom title and depth", func(t *testing.T) {
		t.Parallel()

		doc := docOf(docx.NewParagraph("body"))
		InsertTOC(doc, TOC{Title: "Contents", MaxDepth: 2}, config.DefaultStyleSpec())

		if got := doc.Blocks[0].(*docx.Paragraph).Text(); got != "Contents" {
			t.Errorf("title = %q, want %q", got, "Contents")
		}
		if instr := doc.Blocks[1].(*docx.Paragraph).Runs()[0].Instr; !strings.Contains(instr, `\o "1-2"`) {
			t.Errorf("Instr = %q, want levels 1-2", instr)
		}
	})
}

// ---------------------------------------------------------------------------
// TestTOCNormalized - Depth clamping
// ---------------------------------------------------------------------------

func TestTOCNormalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        TOC
		wantTitle string
		wantDepth int
	}{
		{name: "zero value", in: TOC{}, wantTitle: DefaultTOCTitle, wantDepth: 3},
		{name: "blank title", in: TOC{Title: "  ", MaxDepth: 5}, wantTitle: DefaultTOCTitle, wantDepth: 5},
		{name: "negative depth", in: TOC{Title: "T", MaxDepth: -2}, wantTitle: "T", wantDepth: 1},
		{name: "too deep", in: TOC{Title: "T", MaxDepth: 12}, wantTitle: "T", wantDepth: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.in.Normalized()
			if got.Title != tt.wantTitle || got.MaxDepth != tt.wantDepth {
				t.Errorf("Normalized() = %+v, want {%q %d}", got, tt.wantTitle, tt.wantDepth)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSetTitle - Document title from the first top-level heading
// ---------------------------------------------------------------------------

func TestSetTitle(t *testing.T) {
	t.Parallel()

	heading := func(level int, text string) *docx.Paragraph {
		p := docx.NewParagraph(text)
		p.Heading = level
		return p
	}

	tests := []struct {
		name   string
		blocks []docx.Block
		want   string
	}{
		{
			name:   "first level-1 heading",
			blocks: []docx.Block{heading(2, "Preface"), heading(1, " Report "), heading(1, "Later")},
			want:   "Report",
		},
		{
			name:   "no top-level heading",
			blocks: []docx.Block{docx.NewParagraph("body"), heading(2, "Sub")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := docOf(tt.blocks...)
			SetTitle(doc)
			if doc.Title != tt.want {
				t.Errorf("Title = %q, want %q", doc.Title, tt.want)
			}
		})
	}
}
