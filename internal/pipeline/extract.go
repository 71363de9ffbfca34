package pipeline

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
)

// Inline code markers. Text between them is rendered as inline code once
// role styling is done.
const (
	InlineCodeStart = "\uE010"
	InlineCodeEnd   = "\uE011"
)

var (
	chromaPre  = regexp.MustCompile(`(?s)<pre\b[^>]*\bclass="chroma"[^>]*>(.*?)</pre>`)
	plainPre   = regexp.MustCompile(`(?s)<pre\b[^>]*>(.*?)</pre>`)
	codeElem   = regexp.MustCompile(`(?s)<code\b([^>]*)>(.*?)</code>`)
	dataLang   = regexp.MustCompile(`\bdata-lang="([^"]*)"`)
	langClass  = regexp.MustCompile(`\bclass="[^"]*\blanguage-([^"\s]+)`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	blockBreak = regexp.MustCompile(`(?i)</p>|</li>|</h[1-6]>|<br\s*/?>|</tr>|</div>`)
	blankLines = regexp.MustCompile(`\n{2,}`)
	quoteOpen  = regexp.MustCompile(`(?i)<blockquote\b[^>]*>`)
	quoteClose = regexp.MustCompile(`(?i)</blockquote>`)
)

// ExtractCode replaces every code block in htmlContent with a placeholder
// paragraph and records the plain code text. Highlighted chroma blocks are
// matched before bare <pre> blocks so no block is seen twice.
func ExtractCode(htmlContent string) (string, *Registry) {
	reg := NewRegistry()
	replace := func(pre string) string {
		text, lang := codeText(pre)
		return "<p>" + reg.add(KindCode, text, lang) + "</p>"
	}
	htmlContent = chromaPre.ReplaceAllStringFunc(htmlContent, replace)
	htmlContent = plainPre.ReplaceAllStringFunc(htmlContent, replace)
	return htmlContent, reg
}

// codeText recovers the source text and fence language of a <pre> element.
func codeText(pre string) (text, lang string) {
	if m := dataLang.FindStringSubmatch(pre); m != nil {
		lang = html.UnescapeString(m[1])
	}

	body := plainPre.FindStringSubmatch(pre)[1]
	if m := codeElem.FindStringSubmatch(body); m != nil {
		body = m[2]
		if lang == "" {
			if lm := langClass.FindStringSubmatch(m[1]); lm != nil {
				lang = lm[1]
			}
		}
	}

	text = html.UnescapeString(anyTag.ReplaceAllString(body, ""))
	text = strings.TrimSuffix(text, "\n")
	return text, canonicalLanguage(lang)
}

// canonicalLanguage maps a fence alias ("py", "golang") to the lexer name.
func canonicalLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	if l := lexers.Get(lang); l != nil {
		return l.Config().Name
	}
	return lang
}

// ExtractQuotes replaces every outermost <blockquote> with a placeholder
// paragraph holding its plain text. Code placeholders inside a quote are
// taken from reg and expanded back to their text.
func ExtractQuotes(htmlContent string, reg *Registry) string {
	var b strings.Builder
	rest := htmlContent
	for {
		open := quoteOpen.FindStringIndex(rest)
		if open == nil {
			b.WriteString(rest)
			break
		}
		end, closeEnd := matchingQuoteClose(rest, open[1])
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open[0]])
		text := quoteText(rest[open[1]:end], reg)
		b.WriteString("<p>" + reg.add(KindQuote, text, "") + "</p>")
		rest = rest[closeEnd:]
	}
	return b.String()
}

// matchingQuoteClose finds the </blockquote> closing the element whose
// opening tag ends at from, honoring nesting.
func matchingQuoteClose(s string, from int) (start, end int) {
	depth := 1
	pos := from
	for {
		c := quoteClose.FindStringIndex(s[pos:])
		if c == nil {
			return -1, -1
		}
		if o := quoteOpen.FindStringIndex(s[pos:]); o != nil && o[0] < c[0] {
			depth++
			pos += o[1]
			continue
		}
		depth--
		if depth == 0 {
			return pos + c[0], pos + c[1]
		}
		pos += c[1]
	}
}

func quoteText(inner string, reg *Registry) string {
	text := blockBreak.ReplaceAllString(inner, "$0\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = strings.TrimSpace(blankLines.ReplaceAllString(text, "\n"))

	return TokenPattern(KindCode).ReplaceAllStringFunc(text, func(token string) string {
		if b, ok := reg.Take(token); ok {
			return b.Text
		}
		return token
	})
}

// MarkInlineCode wraps the content of every remaining <code> element in the
// InlineCodeStart / InlineCodeEnd markers and drops the tags.
func MarkInlineCode(htmlContent string) string {
	return codeElem.ReplaceAllString(htmlContent, InlineCodeStart+"$2"+InlineCodeEnd)
}
