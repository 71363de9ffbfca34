package style

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeTheme is the chroma style coloring code blocks with a known language.
const CodeTheme = "github"

// segment is a piece of highlighted code sharing one color and weight.
type segment struct {
	text   string
	color  string // RRGGBB, empty for the role color
	bold   bool
	italic bool
}

// highlight tokenizes code with the lexer for language and colors the tokens
// from CodeTheme. It returns nil when the language is unknown, so the caller
// falls back to plain text. The segments always concatenate to code.
func highlight(code, language string) []segment {
	if language == "" {
		return nil
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil
	}
	theme := styles.Get(CodeTheme)

	var (
		segs []segment
		n    int
	)
	for _, tok := range it.Tokens() {
		text := tok.Value
		if rest := len(code) - n; len(text) > rest {
			text = text[:rest] // lexers may append a final newline
		}
		if text == "" {
			continue
		}
		n += len(text)

		entry := theme.Get(tok.Type)
		seg := segment{
			text:   text,
			bold:   entry.Bold == chroma.Yes,
			italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			seg.color = strings.ToUpper(strings.TrimPrefix(entry.Colour.String(), "#"))
		}
		segs = append(segs, seg)
	}
	if strings.Join(texts(segs), "") != code {
		return nil
	}
	return segs
}

func texts(segs []segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.text
	}
	return out
}
