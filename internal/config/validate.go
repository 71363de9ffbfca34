package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/numbering"
)

var (
	alignments   = []string{AlignLeft, AlignCenter, AlignRight, AlignJustify}
	spacingRules = []string{SpacingSingle, SpacingOneHalf, SpacingDouble, SpacingExact, SpacingAtLeast, SpacingMultiple}
	borderStyles = []string{"single", "double", "dotted", "dashed", "none"}
	widthModes   = []string{WidthAuto, WidthFull, WidthFixed}
)

// KnownRoles lists every role the style applicator consults.
func KnownRoles() []string {
	roles := make([]string, 0, numbering.MaxLevel+5)
	for level := 1; level <= numbering.MaxLevel; level++ {
		roles = append(roles, HeadingRole(level))
	}
	return append(roles, RoleBody, RoleCode, RoleBlockquote, RoleTableHeader, RoleTableCell)
}

// HexColor normalizes a six-digit RGB hex color, accepting a leading '#'.
func HexColor(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(s), true
}

// Validate reports every problem in the configuration, joined with
// errors.Join. It returns nil for a usable configuration.
func (c *Config) Validate() error {
	return errors.Join(c.check(false)...)
}

// Sanitize repairs invalid values in place and returns the problems it found.
// Enum and color errors revert to defaults; an unknown font size name becomes
// FallbackFontSize; malformed numbering templates are kept because rendering
// already falls back to "{n}. ".
func (c *Config) Sanitize() []error {
	return c.check(true)
}

func (c *Config) check(fix bool) []error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...))
	}

	if err := c.checkLengths(); err != nil {
		errs = append(errs, err)
	}

	doc := &c.Document
	if strings.TrimSpace(doc.DefaultFont) == "" {
		report("document.default_font is empty")
		if fix {
			doc.DefaultFont = DefaultFont
		}
	}
	if doc.PageWidthInches <= 0 {
		report("document.page_width_inches must be positive, got %v", doc.PageWidthInches)
		if fix {
			doc.PageWidthInches = DefaultPageWidthInches
		}
	}
	if doc.PageHeightInches <= 0 {
		report("document.page_height_inches must be positive, got %v", doc.PageHeightInches)
		if fix {
			doc.PageHeightInches = DefaultPageHeightInches
		}
	}
	if doc.MaxImageWidthInches <= 0 {
		report("document.max_image_width_inches must be positive, got %v", doc.MaxImageWidthInches)
		if fix {
			doc.MaxImageWidthInches = DefaultMaxImageWidthInches
		}
	}

	img := &c.Image
	if img.DownloadTimeoutSeconds <= 0 {
		report("image.download_timeout_seconds must be positive, got %d", img.DownloadTimeoutSeconds)
		if fix {
			img.DownloadTimeoutSeconds = DefaultTimeoutSeconds
		}
	}
	if strings.TrimSpace(img.LocalDir) == "" {
		report("image.local_dir is empty")
		if fix {
			img.LocalDir = DefaultImageDir
		}
	}

	known := KnownRoles()
	roles := make([]string, 0, len(c.Styles))
	for role := range c.Styles {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	for _, role := range roles {
		if !slices.Contains(known, role) {
			report("styles.%s is not a known role", role)
			continue
		}
		spec := c.Styles[role]
		errs = append(errs, spec.check("styles."+role, fix)...)
		if fix {
			c.Styles[role] = spec
		}
	}

	errs = append(errs, c.Table.check(fix)...)
	return errs
}

func (s *StyleSpec) check(path string, fix bool) []error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s."+format, append([]any{ErrInvalidValue, path}, args...)...))
	}
	def := DefaultStyleSpec()

	if s.unknownSize != "" {
		report("font_size %q is not a known size, using %v", s.unknownSize, FallbackFontSize)
		if fix {
			s.unknownSize = ""
		}
	} else if s.FontSize <= 0 {
		report("font_size must be positive, got %v", float64(s.FontSize))
		if fix {
			s.FontSize = def.FontSize
		}
	}
	if color, ok := HexColor(s.Color); !ok {
		report("color %q is not a hex color", s.Color)
		if fix {
			s.Color = def.Color
		}
	} else if fix {
		s.Color = color
	}
	if s.BackgroundColor != "" {
		if color, ok := HexColor(s.BackgroundColor); !ok {
			report("background_color %q is not a hex color", s.BackgroundColor)
			if fix {
				s.BackgroundColor = ""
			}
		} else if fix {
			s.BackgroundColor = color
		}
	}
	if !slices.Contains(alignments, s.Alignment) {
		report("alignment %q is not one of %s", s.Alignment, strings.Join(alignments, ", "))
		if fix {
			s.Alignment = def.Alignment
		}
	}
	if !slices.Contains(spacingRules, s.LineSpacingRule) {
		if _, err := strconv.ParseFloat(s.LineSpacingRule, 64); err != nil {
			report("line_spacing_rule %q is not one of %s", s.LineSpacingRule, strings.Join(spacingRules, ", "))
			if fix {
				s.LineSpacingRule = def.LineSpacingRule
			}
		}
	}
	if s.SpacingValue() <= 0 && s.LineSpacingRule != SpacingSingle && s.LineSpacingRule != SpacingDouble && s.LineSpacingRule != SpacingOneHalf {
		report("line spacing must be positive, got %v", s.SpacingValue())
		if fix {
			s.LineSpacing = def.LineSpacing
			s.LineSpacingValue = nil
		}
	}
	if s.SpaceBefore < 0 || s.SpaceAfter < 0 {
		report("space_before and space_after cannot be negative")
		if fix {
			s.SpaceBefore = max(s.SpaceBefore, 0)
			s.SpaceAfter = max(s.SpaceAfter, 0)
		}
	}
	if err := numbering.ValidateFormat(s.NumberingFormat); err != nil {
		report("numbering_format: %v", err)
	}
	return errs
}

func (t *TableStyle) check(fix bool) []error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: table."+format, append([]any{ErrInvalidValue}, args...)...))
	}
	def := DefaultTableStyle()

	if !slices.Contains(borderStyles, t.BorderStyle) {
		report("border_style %q is not one of %s", t.BorderStyle, strings.Join(borderStyles, ", "))
		if fix {
			t.BorderStyle = def.BorderStyle
		}
	}
	if t.BorderWidth < 2 || t.BorderWidth > 96 {
		report("border_width %d is outside 2..96", t.BorderWidth)
		if fix {
			t.BorderWidth = def.BorderWidth
		}
	}
	colors := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"border_color", &t.BorderColor, def.BorderColor},
		{"header_fill", &t.HeaderFill, ""},
		{"cell_fill", &t.CellFill, ""},
		{"alt_row_fill", &t.AltRowFill, ""},
	}
	for _, c := range colors {
		if *c.value == "" && c.fallback == "" {
			continue
		}
		color, ok := HexColor(*c.value)
		if !ok {
			report("%s %q is not a hex color", c.name, *c.value)
			color = c.fallback
		}
		if fix {
			*c.value = color
		}
	}
	if t.Padding.Top < 0 || t.Padding.Bottom < 0 || t.Padding.Left < 0 || t.Padding.Right < 0 {
		report("padding cannot be negative")
		if fix {
			t.Padding = def.Padding
		}
	}
	if !slices.Contains(widthModes, t.WidthMode) {
		report("width_mode %q is not one of %s", t.WidthMode, strings.Join(widthModes, ", "))
		if fix {
			t.WidthMode = def.WidthMode
		}
	}
	if t.WidthMode == WidthFixed && t.WidthInches <= 0 {
		report("width_inches must be positive in fixed mode, got %v", t.WidthInches)
		if fix {
			t.WidthInches = def.WidthInches
		}
	}
	return errs
}

type lengthLimit struct {
	name  string
	value string
	max   int
}

// checkLengths enforces the field length limits.
func (c *Config) checkLengths() error {
	fields := []lengthLimit{
		{"document.default_font", c.Document.DefaultFont, MaxFontNameLength},
		{"image.local_dir", c.Image.LocalDir, MaxPathLength},
		{"image.user_agent", c.Image.UserAgent, MaxUserAgentLength},
	}
	for role, spec := range c.Styles {
		fields = append(fields,
			lengthLimit{"styles." + role + ".font_name", spec.FontName, MaxFontNameLength},
			lengthLimit{"styles." + role + ".numbering_format", spec.NumberingFormat, MaxTemplateLength},
		)
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field value exceeds its maximum length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s is %d characters (max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}
