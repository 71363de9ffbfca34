// Package numbering renders hierarchical heading labels ("第一章", "1.", "①", ...).
//
// A Counters value holds one monotonic counter per heading level (1..9).
// Advancing a level zeroes every deeper level, so labels restart under each
// new parent heading. Counters are owned by a single conversion and are not
// safe for concurrent use.
package numbering

import (
	"errors"
	"strconv"
	"strings"
)

// MaxLevel is the deepest heading level tracked.
const MaxLevel = 9

// ErrMalformedTemplate indicates a free-form template that cannot be rendered.
var ErrMalformedTemplate = errors.New("malformed numbering template")

// Format names understood by Next.
const (
	FormatNone          = "none"
	FormatChapter       = "chapter"
	FormatSection       = "section"
	FormatChinese       = "chinese"
	FormatChineseParen  = "chinese_paren"
	FormatArabic        = "arabic"
	FormatArabicParen   = "arabic_paren"
	FormatArabicBracket = "arabic_bracket"
	FormatRoman         = "roman"
	FormatRomanLower    = "roman_lower"
	FormatLetter        = "letter"
	FormatLetterLower   = "letter_lower"
	FormatCircle        = "circle"
)

// Formats lists the named schemes, in documentation order.
var Formats = []string{
	FormatChapter, FormatSection, FormatChinese, FormatChineseParen,
	FormatArabic, FormatArabicParen, FormatArabicBracket,
	FormatRoman, FormatRomanLower, FormatLetter, FormatLetterLower,
	FormatCircle, FormatNone,
}

var chineseNumerals = [...]string{
	"零", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
}

var romanNumerals = [...]string{
	"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX",
}

var circledDigits = [...]string{
	"", "①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩",
	"⑪", "⑫", "⑬", "⑭", "⑮", "⑯", "⑰", "⑱", "⑲", "⑳",
}

// Counters tracks heading counters for one document.
type Counters struct {
	counts [MaxLevel + 1]int
}

// New returns zeroed counters.
func New() *Counters {
	return &Counters{}
}

// Next advances the counter at level, zeroes all deeper levels and returns the
// label for format. It returns "" for an empty or "none" format, yet the
// counter still advances: an unlabeled heading takes up a number, so a later
// labeled sibling is numbered by its position among all siblings rather than
// among the labeled ones only.
func (c *Counters) Next(level int, format string) string {
	level = clampLevel(level)
	c.counts[level]++
	for l := level + 1; l <= MaxLevel; l++ {
		c.counts[l] = 0
	}
	return Render(c.counts[level], format)
}

// Reset clears every counter when called without arguments. With a level it
// clears that level and all deeper ones.
func (c *Counters) Reset(levels ...int) {
	from := 1
	if len(levels) > 0 {
		from = clampLevel(levels[0])
	}
	for l := from; l <= MaxLevel; l++ {
		c.counts[l] = 0
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Render formats n according to format without touching any counter.
func Render(n int, format string) string {
	switch strings.TrimSpace(format) {
	case "", FormatNone:
		return ""
	case FormatChapter:
		return "第" + ToChinese(n) + "章"
	case FormatSection:
		return "第" + ToChinese(n) + "节"
	case FormatChinese:
		return ToChinese(n) + "、"
	case FormatChineseParen:
		return "（" + ToChinese(n) + "）"
	case FormatArabic:
		return strconv.Itoa(n) + "."
	case FormatArabicParen:
		return "(" + strconv.Itoa(n) + ")"
	case FormatArabicBracket:
		return "[" + strconv.Itoa(n) + "]"
	case FormatRoman:
		return toRoman(n) + "."
	case FormatRomanLower:
		return strings.ToLower(toRoman(n)) + "."
	case FormatLetter:
		return toLetter(n, 'A') + "."
	case FormatLetterLower:
		return toLetter(n, 'a') + "."
	case FormatCircle:
		if n >= 1 && n < len(circledDigits) {
			return circledDigits[n]
		}
		return "(" + strconv.Itoa(n) + ")"
	}

	label, err := renderTemplate(format, n)
	if err != nil {
		return strconv.Itoa(n) + ". "
	}
	return label
}

// ToChinese converts 0..20 to Chinese numerals; larger or negative values are
// returned as Arabic digits.
func ToChinese(n int) string {
	if n >= 0 && n < len(chineseNumerals) {
		return chineseNumerals[n]
	}
	return strconv.Itoa(n)
}

func toRoman(n int) string {
	if n >= 1 && n < len(romanNumerals) {
		return romanNumerals[n]
	}
	return strconv.Itoa(n)
}

func toLetter(n int, base rune) string {
	if n >= 1 && n <= 26 {
		return string(base + rune(n-1))
	}
	return strconv.Itoa(n)
}

// IsNamed reports whether format is one of the built-in scheme names.
func IsNamed(format string) bool {
	format = strings.TrimSpace(format)
	if format == "" {
		return true
	}
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ValidateFormat returns ErrMalformedTemplate when format is a free-form
// template that Render would replace with the "{n}. " fallback.
func ValidateFormat(format string) error {
	if IsNamed(format) {
		return nil
	}
	_, err := renderTemplate(format, 1)
	return err
}
