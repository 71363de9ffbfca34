// Package yamlutil is the single entry point to goccy/go-yaml for style
// configs. JSON configs go through the same decoder since JSON is a subset of
// YAML, and can be written back as JSON.
package yamlutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps a config document at 1 MiB.
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput    = errors.New("yamlutil: empty document")
	ErrNilTarget     = errors.New("yamlutil: nil target")
	ErrInputTooLarge = errors.New("yamlutil: document exceeds maximum size")
)

// Format is an output encoding for Marshal.
type Format int

const (
	YAML Format = iota
	JSON
)

// FormatFor returns JSON for a .json path and YAML for anything else.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Unmarshal decodes data into v. Unknown fields are ignored and fields absent
// from data keep the values already in v.
func Unmarshal(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilTarget
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as block-style YAML with two-space indentation.
func Marshal(v any) ([]byte, error) {
	return MarshalAs(v, YAML)
}

// MarshalAs encodes v in the given format. JSON output is a single line.
func MarshalAs(v any, f Format) ([]byte, error) {
	opts := []yaml.EncodeOption{yaml.Indent(2), yaml.IndentSequence(true)}
	if f == JSON {
		opts = []yaml.EncodeOption{yaml.JSON()}
	}
	out, err := yaml.MarshalWithOptions(v, opts...)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
