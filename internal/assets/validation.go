package assets

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxAssetNameLength bounds preset names.
const MaxAssetNameLength = 64

// ValidateAssetName checks that a preset name is safe for use as a filename.
// Names may not be empty, exceed MaxAssetNameLength, or contain path
// separators, dots, or control characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, MaxAssetNameLength)
	}
	if strings.ContainsAny(name, "/\\.") || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
