package style

import (
	"strconv"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
)

var jc = map[string]string{
	config.AlignLeft:    "left",
	config.AlignCenter:  "center",
	config.AlignRight:   "right",
	config.AlignJustify: "both",
}

// ParagraphFormat converts the paragraph half of spec to direct paragraph
// properties.
func ParagraphFormat(spec config.StyleSpec) docx.ParagraphProps {
	before := twips(spec.SpaceBefore)
	after := twips(spec.SpaceAfter)
	pp := docx.ParagraphProps{
		Alignment: jc[spec.Alignment],
		Spacing:   LineSpacing(spec),
	}
	pp.Spacing.Before = &before
	pp.Spacing.After = &after
	if spec.LeftIndent > 0 {
		pp.LeftIndent = int(spec.LeftIndent*docx.TwipsPerInch + 0.5)
	}
	if spec.FirstLineIndent > 0 {
		// Indent is in characters of the role's own size.
		pp.FirstLineIndent = twips(spec.FirstLineIndent * spec.Size())
	}
	if spec.BackgroundColor != "" {
		if c, ok := config.HexColor(spec.BackgroundColor); ok {
			pp.Shading = c
		}
	}
	return pp
}

// LineSpacing resolves the line spacing rule of spec. Exact and at-least
// values are points; the other rules are multiples of a single line. A rule
// that is itself a number is used as a multiplier, and anything else falls
// back to line_spacing.
func LineSpacing(spec config.StyleSpec) docx.Spacing {
	v := 0.0
	if spec.LineSpacingValue != nil {
		v = *spec.LineSpacingValue
	}
	switch spec.LineSpacingRule {
	case config.SpacingExact:
		if v > 0 {
			return docx.Spacing{Line: twips(v), LineRule: "exact"}
		}
	case config.SpacingAtLeast:
		if v > 0 {
			return docx.Spacing{Line: twips(v), LineRule: "atLeast"}
		}
	case config.SpacingSingle:
		return multiple(1)
	case config.SpacingOneHalf:
		return multiple(1.5)
	case config.SpacingDouble:
		return multiple(2)
	case config.SpacingMultiple:
		if v > 0 {
			return multiple(v)
		}
		return multiple(spec.LineSpacing)
	default:
		if m, err := strconv.ParseFloat(spec.LineSpacingRule, 64); err == nil && m > 0 {
			return multiple(m)
		}
	}
	return multiple(spec.LineSpacing)
}

func multiple(m float64) docx.Spacing {
	if m <= 0 {
		return docx.Spacing{}
	}
	return docx.Spacing{Line: int(m*240 + 0.5), LineRule: "auto"}
}

// RunFormat converts the character half of spec to run properties.
func RunFormat(spec config.StyleSpec) docx.RunProps {
	rp := docx.RunProps{
		Font:   spec.FontName,
		Size:   spec.Size(),
		Bold:   spec.Bold,
		Italic: spec.Italic,
	}
	if c, ok := config.HexColor(spec.Color); ok {
		rp.Color = c
	}
	return rp
}

// styleRun applies spec to r, keeping emphasis already on the run.
func styleRun(r *docx.Run, spec config.StyleSpec) {
	rp := RunFormat(spec)
	rp.Bold = rp.Bold || r.Props.Bold
	rp.Italic = rp.Italic || r.Props.Italic
	rp.Underline = r.Props.Underline
	rp.Strike = r.Props.Strike
	rp.VertAlign = r.Props.VertAlign
	rp.Highlight = r.Props.Highlight
	rp.Shading = r.Props.Shading
	rp.Style = r.Props.Style
	if r.Props.Style == "Hyperlink" {
		// Leave the link color to the character style.
		rp.Color = ""
	}
	r.Props = rp
}

func twips(points float64) int {
	return int(points*docx.TwipsPerPoint + 0.5)
}
