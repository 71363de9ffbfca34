package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkOption configures a GoldmarkConverter.
type GoldmarkOption func(*[]renderer.Option)

// WithUnsafe lets raw HTML in the Markdown through to the output.
func WithUnsafe() GoldmarkOption {
	return func(opts *[]renderer.Option) { *opts = append(*opts, gmhtml.WithUnsafe()) }
}

// WithHardWraps renders single newlines inside a paragraph as <br>.
func WithHardWraps() GoldmarkOption {
	return func(opts *[]renderer.Option) { *opts = append(*opts, gmhtml.WithHardWraps()) }
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// syntax highlighting. Highlighted blocks are emitted as
// <pre class="chroma" data-lang="..."> so the code extractor can recover the
// fence language.
func NewGoldmarkConverter(opts ...GoldmarkOption) *GoldmarkConverter {
	var rendererOpts []renderer.Option
	for _, opt := range opts {
		opt(&rendererOpts)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
				highlighting.WithCodeBlockOptions(func(c highlighting.CodeBlockContext) []chromahtml.Option {
					lang, _ := c.Language()
					return []chromahtml.Option{chromahtml.WithPreWrapper(langPreWrapper(lang))}
				}),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading ids become bookmarks
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// langPreWrapper is a chroma PreWrapper recording the fence language.
type langPreWrapper string

func (l langPreWrapper) Start(code bool, styleAttr string) string {
	if !code {
		return fmt.Sprintf("<pre%s>", styleAttr)
	}
	return fmt.Sprintf(`<pre%s data-lang="%s"><code>`, styleAttr, html.EscapeString(string(l)))
}

func (l langPreWrapper) End(code bool) string {
	if code {
		return "</code></pre>"
	}
	return "</pre>"
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
