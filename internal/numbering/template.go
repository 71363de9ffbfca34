package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// renderTemplate expands {n} (Arabic) and {cn} (Chinese numeral) in tmpl.
// Doubled braces escape a literal brace. Any other field, or an unbalanced
// brace, is reported as ErrMalformedTemplate.
func renderTemplate(tmpl string, n int) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		switch ch {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' in %q", ErrMalformedTemplate, tmpl)
			}
			field := tmpl[i+1 : i+1+end]
			switch field {
			case "n":
				b.WriteString(strconv.Itoa(n))
			case "cn":
				b.WriteString(ToChinese(n))
			default:
				return "", fmt.Errorf("%w: unknown field {%s} in %q", ErrMalformedTemplate, field, tmpl)
			}
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' in %q", ErrMalformedTemplate, tmpl)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}
