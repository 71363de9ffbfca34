package pipeline

import (
	"context"
	"regexp"
	"strings"
	"testing"
)

var placeholderPara = regexp.MustCompile(`<p>((?:CODEBLOCK|QUOTEBLOCK)[0-9a-f]{32})</p>`)

func tokens(t *testing.T, htmlContent string) []string {
	t.Helper()
	var out []string
	for _, m := range placeholderPara.FindAllStringSubmatch(htmlContent, -1) {
		out = append(out, m[1])
	}
	return out
}

// ---------------------------------------------------------------------------
// TestExtractCode - Code block placeholders
// ---------------------------------------------------------------------------

func TestExtractCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantText string
		wantLang string
	}{
		{
			name:     "bare pre with code",
			input:    "<pre><code>a &lt; b\n  indented\n</code></pre>",
			wantText: "a < b\n  indented",
		},
		{
			name:     "language class",
			input:    `<pre><code class="language-py">x = 1</code></pre>`,
			wantText: "x = 1",
			wantLang: "Python",
		},
		{
			name:     "unknown language kept",
			input:    `<pre><code class="language-nosuchlang">x</code></pre>`,
			wantText: "x",
			wantLang: "nosuchlang",
		},
		{
			name: "chroma wrapper",
			input: `<pre class="chroma" data-lang="go"><code><span class="line"><span class="cl">` +
				`<span class="kd">func</span> <span class="nf">f</span><span class="p">()</span>` + "\n" +
				`</span></span></code></pre>`,
			wantText: "func f()",
			wantLang: "Go",
		},
		{
			name:     "pre without code",
			input:    "<pre>raw &amp; plain</pre>",
			wantText: "raw & plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, reg := ExtractCode("<p>before</p>\n" + tt.input + "\n<p>after</p>")
			toks := tokens(t, out)
			if len(toks) != 1 {
				t.Fatalf("ExtractCode() placeholders = %d, want 1 in %q", len(toks), out)
			}
			if strings.Contains(out, "<pre") {
				t.Errorf("ExtractCode() left a <pre> in %q", out)
			}
			b, ok := reg.Take(toks[0])
			if !ok {
				t.Fatal("Take() found nothing for the placeholder")
			}
			if b.Kind != KindCode || b.Text != tt.wantText || b.Language != tt.wantLang {
				t.Errorf("block = %+v, want text %q lang %q", b, tt.wantText, tt.wantLang)
			}
		})
	}
}

func TestExtractCode_FromGoldmark(t *testing.T) {
	t.Parallel()

	md := "Intro\n\n```go\nif a < b {\n\treturn\n}\n```\n\n    indented block\n"
	out, err := NewGoldmarkConverter().ToHTML(context.Background(), md)
	if err != nil {
		t.Fatal(err)
	}

	out, reg := ExtractCode(out)
	blocks := reg.Remaining()
	if len(blocks) != 2 {
		t.Fatalf("Remaining() = %d blocks, want 2", len(blocks))
	}
	if blocks[0].Text != "if a < b {\n\treturn\n}" || blocks[0].Language != "Go" {
		t.Errorf("fenced block = %+v", blocks[0])
	}
	if blocks[1].Text != "indented block" {
		t.Errorf("indented block = %q", blocks[1].Text)
	}
	if got := tokens(t, out); len(got) != 2 || got[0] != blocks[0].Token {
		t.Errorf("placeholders out of order: %v", got)
	}
}

// ---------------------------------------------------------------------------
// TestExtractQuotes - Block quote placeholders
// ---------------------------------------------------------------------------

func TestExtractQuotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantText string
	}{
		{
			name:     "single paragraph",
			input:    "<blockquote>\n<p>To be &amp; not</p>\n</blockquote>",
			wantText: "To be & not",
		},
		{
			name:     "two paragraphs",
			input:    "<blockquote>\n<p>one <em>two</em></p>\n<p>three</p>\n</blockquote>",
			wantText: "one two\nthree",
		},
		{
			name:     "nested quote",
			input:    "<blockquote><p>outer</p><blockquote><p>inner</p></blockquote><p>tail</p></blockquote>",
			wantText: "outer\ninner\ntail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := ExtractQuotes("<p>x</p>"+tt.input+"<p>y</p>", NewRegistry())
			if strings.Contains(out, "blockquote") {
				t.Errorf("ExtractQuotes() left a blockquote in %q", out)
			}
			if !strings.HasPrefix(out, "<p>x</p><p>QUOTEBLOCK") || !strings.HasSuffix(out, "</p><p>y</p>") {
				t.Errorf("surrounding content changed: %q", out)
			}
		})
	}

	for _, tt := range tests {
		reg := NewRegistry()
		out := ExtractQuotes(tt.input, reg)
		toks := tokens(t, out)
		if len(toks) != 1 {
			t.Fatalf("%s: placeholders = %v", tt.name, toks)
		}
		b, _ := reg.Take(toks[0])
		if b.Kind != KindQuote || b.Text != tt.wantText {
			t.Errorf("%s: block = %+v, want text %q", tt.name, b, tt.wantText)
		}
	}
}

func TestExtractQuotes_ExpandsCodeInside(t *testing.T) {
	t.Parallel()

	in := "<blockquote>\n<p>Run:</p>\n<pre><code>  make all\n</code></pre>\n</blockquote>"
	out, reg := ExtractCode(in)
	out = ExtractQuotes(out, reg)

	blocks := reg.Remaining()
	if len(blocks) != 1 || blocks[0].Kind != KindQuote {
		t.Fatalf("Remaining() = %+v, want only the quote", blocks)
	}
	if blocks[0].Text != "Run:\n  make all" {
		t.Errorf("quote text = %q, want code expanded with indentation", blocks[0].Text)
	}
	if strings.Contains(out, CodePrefix) {
		t.Errorf("code placeholder leaked: %q", out)
	}
}

func TestExtractQuotes_Unclosed(t *testing.T) {
	t.Parallel()

	in := "<blockquote><p>never closed</p>"
	if got := ExtractQuotes(in, NewRegistry()); got != in {
		t.Errorf("ExtractQuotes(unclosed) = %q, want unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestMarkInlineCode - Inline markers
// ---------------------------------------------------------------------------

func TestMarkInlineCode(t *testing.T) {
	t.Parallel()

	in := "<p>Use <code>go test</code> and <code>a &lt; b</code>.</p>"
	want := "<p>Use " + InlineCodeStart + "go test" + InlineCodeEnd + " and " +
		InlineCodeStart + "a &lt; b" + InlineCodeEnd + ".</p>"
	if got := MarkInlineCode(in); got != want {
		t.Errorf("MarkInlineCode() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestRegistry - Single consumption
// ---------------------------------------------------------------------------

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := reg.add(KindCode, "a", "")
	b := reg.add(KindQuote, "b", "")

	if !strings.HasPrefix(a, CodePrefix) || len(a) != len(CodePrefix)+32 {
		t.Errorf("code token = %q", a)
	}
	if !strings.HasPrefix(b, QuotePrefix) {
		t.Errorf("quote token = %q", b)
	}
	if a == reg.add(KindCode, "a", "") {
		t.Error("tokens must be unique")
	}

	if _, ok := reg.Take(a); !ok {
		t.Fatal("Take(a) = false")
	}
	if _, ok := reg.Take(a); ok {
		t.Error("second Take(a) should fail")
	}
	if rem := reg.Remaining(); len(rem) != 2 {
		t.Errorf("len(Remaining()) = %d, want 2", len(rem))
	}
	if rem := reg.Remaining(); rem[0].Token != b {
		t.Errorf("Remaining() order = %+v", rem)
	}
	if KindQuote.String() != "quote" || KindCode.String() != "code" {
		t.Error("BlockKind.String() mismatch")
	}
}
