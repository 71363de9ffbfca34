package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxFontNameLength  = 100
	MaxUserAgentLength = 512
	MaxPathLength      = 4096
	MaxTemplateLength  = 100 // numbering template
)

// Style roles.
const (
	RoleBody        = "body"
	RoleCode        = "code"
	RoleBlockquote  = "blockquote"
	RoleTableHeader = "table_header"
	RoleTableCell   = "table_cell"
)

// HeadingRole returns the role name of a heading level, e.g. "heading_2".
func HeadingRole(level int) string {
	return fmt.Sprintf("heading_%d", level)
}

// Document-level defaults.
const (
	DefaultFont                = "微软雅黑"
	DefaultPageWidthInches     = 8.5
	DefaultPageHeightInches    = 11
	DefaultMaxImageWidthInches = 6.0
	DefaultImageDir            = "./images"
	DefaultTimeoutSeconds      = 30
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds the style sheet and resource settings for one conversion.
type Config struct {
	Document DocumentConfig       `yaml:"document"`
	Image    ImageConfig          `yaml:"image"`
	Styles   map[string]StyleSpec `yaml:"styles"`
	Table    TableStyle           `yaml:"table"`
}

// DocumentConfig defines page geometry and the fallback font.
type DocumentConfig struct {
	DefaultFont         string  `yaml:"default_font"`
	PageWidthInches     float64 `yaml:"page_width_inches"`
	PageHeightInches    float64 `yaml:"page_height_inches"`
	MaxImageWidthInches float64 `yaml:"max_image_width_inches"`
}

// ImageConfig defines where and how images are fetched.
type ImageConfig struct {
	LocalDir               string `yaml:"local_dir"`
	DownloadTimeoutSeconds int    `yaml:"download_timeout_seconds"`
	UserAgent              string `yaml:"user_agent"`

	// ConfineToSource rejects relative local paths that leave the directory
	// of the Markdown file. Off by default.
	ConfineToSource bool `yaml:"confine_to_source"`
}

// UnmarshalYAML accepts "download_timeout" as an alias of
// "download_timeout_seconds". The long form wins when both are present.
func (c *ImageConfig) UnmarshalYAML(data []byte) error {
	var raw struct {
		LocalDir      *string `yaml:"local_dir"`
		Timeout       *int    `yaml:"download_timeout_seconds"`
		LegacyTimeout *int    `yaml:"download_timeout"`
		UserAgent     *string `yaml:"user_agent"`
		Confine       *bool   `yaml:"confine_to_source"`
	}
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.LocalDir != nil {
		c.LocalDir = *raw.LocalDir
	}
	switch {
	case raw.Timeout != nil:
		c.DownloadTimeoutSeconds = *raw.Timeout
	case raw.LegacyTimeout != nil:
		c.DownloadTimeoutSeconds = *raw.LegacyTimeout
	}
	if raw.UserAgent != nil {
		c.UserAgent = *raw.UserAgent
	}
	if raw.Confine != nil {
		c.ConfineToSource = *raw.Confine
	}
	return nil
}

// Padding is four-sided cell padding in points.
type Padding struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// TableStyle is the document-wide table appearance.
type TableStyle struct {
	BorderStyle string  `yaml:"border_style"` // single, double, dotted, dashed, none
	BorderColor string  `yaml:"border_color"`
	BorderWidth int     `yaml:"border_width"` // eighths of a point
	HeaderFill  string  `yaml:"header_fill"`
	CellFill    string  `yaml:"cell_fill"`
	AltRowFill  string  `yaml:"alt_row_fill"`
	Padding     Padding `yaml:"padding"`
	WidthMode   string  `yaml:"width_mode"` // auto, full, fixed
	WidthInches float64 `yaml:"width_inches"`
}

// Table width modes.
const (
	WidthAuto  = "auto"
	WidthFull  = "full"
	WidthFixed = "fixed"
)

// DefaultTableStyle returns thin black grid lines with a grey header row.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		BorderStyle: "single",
		BorderColor: "000000",
		BorderWidth: 4,
		HeaderFill:  "D9D9D9",
		Padding:     Padding{Top: 2, Bottom: 2, Left: 5.4, Right: 5.4},
		WidthMode:   WidthAuto,
		WidthInches: 6,
	}
}

// DefaultConfig returns the documented defaults: no role styles (every role
// falls back to DefaultStyleSpec with the default font).
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			DefaultFont:         DefaultFont,
			PageWidthInches:     DefaultPageWidthInches,
			PageHeightInches:    DefaultPageHeightInches,
			MaxImageWidthInches: DefaultMaxImageWidthInches,
		},
		Image: ImageConfig{
			LocalDir:               DefaultImageDir,
			DownloadTimeoutSeconds: DefaultTimeoutSeconds,
			UserAgent:              DefaultUserAgent,
		},
		Styles: map[string]StyleSpec{},
		Table:  DefaultTableStyle(),
	}
}

// Template returns the built-in "default" preset: an official-document
// layout with numbered Chinese headings.
func Template() (*Config, error) {
	data, err := assets.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Style returns the spec for role, or a synthesized default that uses the
// document font. An empty font name in a configured spec also inherits it.
func (c *Config) Style(role string) StyleSpec {
	spec, ok := c.Styles[role]
	if !ok {
		spec = DefaultStyleSpec()
	}
	if spec.FontName == "" {
		spec.FontName = c.Document.DefaultFont
	}
	return spec
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Styles = maps.Clone(c.Styles)
	for role, spec := range out.Styles {
		if spec.LineSpacingValue != nil {
			v := *spec.LineSpacingValue
			spec.LineSpacingValue = &v
			out.Styles[role] = spec
		}
	}
	return &out
}

// Parse decodes YAML or JSON configuration. Missing fields keep their
// defaults and unrecognized fields are ignored.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Styles == nil {
		cfg.Styles = map[string]StyleSpec{}
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// Save writes the configuration to path atomically, as JSON when path ends
// in .json and as YAML otherwise.
func (c *Config) Save(path string) error {
	data, err := yamlutil.MarshalAs(c, yamlutil.FormatFor(path))
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadConfig loads configuration from a file path or a config name.
// A value with a path separator or a known extension is read as a file.
// A bare name is searched in the working directory, then in the user config
// directory, then among the embedded presets.
func LoadConfig(nameOrPath string) (*Config, error) {
	return LoadConfigWith(nameOrPath, nil)
}

// LoadConfigWith is LoadConfig with presets taken from loader instead of the
// embedded set. A nil loader uses the embedded presets.
func LoadConfigWith(nameOrPath string, loader assets.AssetLoader) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var data []byte
	if isFilePath(nameOrPath) {
		b, err := os.ReadFile(nameOrPath) // #nosec G304 -- config path is user-provided
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, nameOrPath)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		data = b
	} else {
		b, err := resolveConfig(nameOrPath, loader)
		if err != nil {
			return nil, err
		}
		data = b
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.checkLengths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var configExtensions = []string{".yaml", ".yml", ".json"}

func isFilePath(s string) bool {
	if fileutil.IsFilePath(s) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	for _, e := range configExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// resolveConfig searches for a config by name.
// Locations in order: current directory, <user config dir>/md2docx/, embedded presets.
func resolveConfig(name string, loader assets.AssetLoader) ([]byte, error) {
	triedPaths := make([]string, 0, len(configExtensions)*2)
	dirs := []string{""}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, "md2docx"))
	}

	for _, dir := range dirs {
		for _, ext := range configExtensions {
			path := filepath.Join(dir, name+ext)
			if fileutil.FileExists(path) {
				data, err := os.ReadFile(path) // #nosec G304 -- resolved config path
				if err != nil {
					return nil, fmt.Errorf("reading config file: %w", err)
				}
				return data, nil
			}
			triedPaths = append(triedPaths, path)
		}
	}

	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	data, err := loader.LoadStyle(name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, assets.ErrStyleNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: tried %s and embedded presets", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
