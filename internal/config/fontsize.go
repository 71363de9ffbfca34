package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// FallbackFontSize is used for size names that are not recognized (五号).
const FallbackFontSize = 10.5

// ChineseFontSizes maps the traditional Chinese type size names to points.
var ChineseFontSizes = map[string]float64{
	"初号": 42,
	"小初": 36,
	"一号": 26,
	"小一": 24,
	"二号": 22,
	"小二": 18,
	"三号": 16,
	"小三": 15,
	"四号": 14,
	"小四": 12,
	"五号": 10.5,
	"小五": 9,
	"六号": 7.5,
	"小六": 6.5,
	"七号": 5.5,
	"八号": 5,
}

// FontSize is a size in points. In configuration it is either a number or one
// of the names in ChineseFontSizes.
type FontSize float64

// UnmarshalYAML accepts numbers, numeric strings and Chinese size names.
// Unknown names decode to FallbackFontSize.
func (f *FontSize) UnmarshalYAML(data []byte) error {
	var v any
	if err := yamlutil.Unmarshal(data, &v); err != nil {
		return err
	}
	size, _ := ParseFontSize(v)
	*f = FontSize(size)
	return nil
}

// ParseFontSize converts a decoded configuration value to points. The boolean
// is false when v is neither a number nor a known size name; the size is then
// FallbackFontSize.
func ParseFontSize(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case FontSize:
		return float64(n), true
	case string:
		name := strings.TrimSpace(n)
		if size, ok := ChineseFontSizes[name]; ok {
			return size, true
		}
		if size, err := strconv.ParseFloat(name, 64); err == nil {
			return size, true
		}
	}
	return FallbackFontSize, false
}

func fmtValue(v any) string {
	return fmt.Sprint(v)
}
