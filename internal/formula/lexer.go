package formula

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF     tokenKind = iota
	tokChar              // a single rune
	tokCommand           // \name or \<symbol>
	tokOpen              // {
	tokClose             // }
	tokSup               // ^
	tokSub               // _
	tokAmp               // &
	tokRowSep            // \\
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// lexer yields LaTeX tokens and skips insignificant whitespace.
type lexer struct {
	src    []rune
	pos    int
	peeked *token
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src)}
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *lexer) next() token {
	t := l.peek()
	l.peeked = nil
	return t
}

func (l *lexer) scan() token {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, start: l.pos, end: l.pos}
	}

	start := l.pos
	r := l.src[l.pos]
	l.pos++

	switch r {
	case '{':
		return token{kind: tokOpen, text: "{", start: start, end: l.pos}
	case '}':
		return token{kind: tokClose, text: "}", start: start, end: l.pos}
	case '^':
		return token{kind: tokSup, text: "^", start: start, end: l.pos}
	case '_':
		return token{kind: tokSub, text: "_", start: start, end: l.pos}
	case '&':
		return token{kind: tokAmp, text: "&", start: start, end: l.pos}
	case '\\':
		if l.pos >= len(l.src) {
			return token{kind: tokChar, text: "\\", start: start, end: l.pos}
		}
		if l.src[l.pos] == '\\' {
			l.pos++
			return token{kind: tokRowSep, text: `\\`, start: start, end: l.pos}
		}
		if !isLetter(l.src[l.pos]) {
			name := string(l.src[l.pos])
			l.pos++
			return token{kind: tokCommand, text: name, start: start, end: l.pos}
		}
		nameStart := l.pos
		for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
			l.pos++
		}
		// \operatorname* and friends
		if l.pos < len(l.src) && l.src[l.pos] == '*' {
			l.pos++
		}
		return token{kind: tokCommand, text: strings.TrimSuffix(string(l.src[nameStart:l.pos]), "*"), start: start, end: l.pos}
	}

	return token{kind: tokChar, text: string(r), start: start, end: l.pos}
}

// rawGroup reads the verbatim text of the next brace group, keeping spaces.
func (l *lexer) rawGroup() (string, error) {
	t := l.peek()
	if t.kind != tokOpen {
		return "", fmt.Errorf("%w: expected '{' at offset %d", ErrMissingArgument, t.start)
	}
	l.peeked = nil
	l.pos = t.end

	depth := 1
	start := l.pos
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos++ // skip escaped rune
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				text := string(l.src[start:l.pos])
				l.pos++
				return text, nil
			}
		}
		l.pos++
	}
	return "", fmt.Errorf("%w: unclosed group starting at offset %d", ErrUnbalanced, t.start)
}

// optionalBracket reads "[...]" verbatim if the next token opens one.
func (l *lexer) optionalBracket() (string, bool, error) {
	t := l.peek()
	if t.kind != tokChar || t.text != "[" {
		return "", false, nil
	}
	l.peeked = nil
	l.pos = t.end

	depth := 0
	start := l.pos
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case ']':
			if depth == 0 {
				text := string(l.src[start:l.pos])
				l.pos++
				return text, true, nil
			}
		}
		l.pos++
	}
	return "", false, fmt.Errorf("%w: unclosed '[' at offset %d", ErrUnbalanced, t.start)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
