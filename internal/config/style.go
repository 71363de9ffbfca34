package config

import "github.com/alnah/go-md2docx/internal/yamlutil"

// Alignment values.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// Line spacing rules.
const (
	SpacingSingle   = "single"
	SpacingOneHalf  = "1.5"
	SpacingDouble   = "double"
	SpacingExact    = "exact"
	SpacingAtLeast  = "at_least"
	SpacingMultiple = "multiple"
)

// StyleSpec describes the formatting of one role. Sizes and spacing are in
// points, indents in characters (first line) or inches (left).
type StyleSpec struct {
	FontName         string   `yaml:"font_name"`
	FontSize         FontSize `yaml:"font_size"`
	Bold             bool     `yaml:"bold"`
	Italic           bool     `yaml:"italic"`
	Color            string   `yaml:"color"`
	SpaceBefore      float64  `yaml:"space_before"`
	SpaceAfter       float64  `yaml:"space_after"`
	LineSpacing      float64  `yaml:"line_spacing"`
	LeftIndent       float64  `yaml:"left_indent"`
	BackgroundColor  string   `yaml:"background_color,omitempty"`
	Alignment        string   `yaml:"alignment"`
	LineSpacingRule  string   `yaml:"line_spacing_rule"`
	LineSpacingValue *float64 `yaml:"line_spacing_value,omitempty"`
	FirstLineIndent  float64  `yaml:"first_line_indent"`
	IsHeading        bool     `yaml:"is_heading"`
	NumberingFormat  string   `yaml:"numbering_format,omitempty"`

	// unknownSize holds a font size name that was not recognized.
	unknownSize string
}

// DefaultStyleSpec returns the style used for roles absent from the config.
// FontName is empty and resolves to the document default font.
func DefaultStyleSpec() StyleSpec {
	return StyleSpec{
		FontSize:        11,
		Color:           "000000",
		SpaceAfter:      6,
		LineSpacing:     1.0,
		Alignment:       AlignLeft,
		LineSpacingRule: SpacingMultiple,
		IsHeading:       true,
	}
}

// UnmarshalYAML fills absent keys from DefaultStyleSpec.
func (s *StyleSpec) UnmarshalYAML(data []byte) error {
	type plain StyleSpec
	p := plain(DefaultStyleSpec())
	if err := yamlutil.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = StyleSpec(p)

	var size struct {
		FontSize any `yaml:"font_size"`
	}
	if err := yamlutil.Unmarshal(data, &size); err == nil && size.FontSize != nil {
		if _, ok := ParseFontSize(size.FontSize); !ok {
			s.unknownSize = fmtValue(size.FontSize)
		}
	}
	return nil
}

// Size returns the font size in points.
func (s StyleSpec) Size() float64 {
	return float64(s.FontSize)
}

// SpacingValue returns LineSpacingValue, or LineSpacing when it is unset.
func (s StyleSpec) SpacingValue() float64 {
	if s.LineSpacingValue != nil {
		return *s.LineSpacingValue
	}
	return s.LineSpacing
}
