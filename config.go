package md2docx

import (
	"fmt"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/config"
)

// Config is the style sheet: page geometry, per-role styles, table
// appearance and image settings.
type Config = config.Config

// StyleSpec is the formatting of one role such as "body" or "heading_1".
type StyleSpec = config.StyleSpec

// TableStyle is the document-wide table appearance.
type TableStyle = config.TableStyle

// DefaultConfig returns the built-in defaults: letter pages, 微软雅黑 and
// no numbered headings.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// TemplateConfig returns the "default" preset, an official-document layout
// with Chinese chapter numbering.
func TemplateConfig() (*Config, error) {
	return config.Template()
}

// ParseConfig decodes a YAML or JSON style sheet over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	return config.Parse(data)
}

// LoadConfig loads a style sheet from a file path or a preset name. A bare
// name is searched as <name>.yaml, .yml or .json in the working directory,
// then in <user config dir>/md2docx, then among the embedded presets.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// ListStyles returns the names of the embedded presets.
func ListStyles() ([]string, error) {
	return assets.ListStyles()
}

// ListStylesIn returns the embedded presets together with those found under
// assetPath/styles, as WithAssetPath would see them.
func ListStylesIn(assetPath string) ([]string, error) {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver.ListStyles()
}
