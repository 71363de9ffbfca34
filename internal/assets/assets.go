package assets

// DefaultStyleName is the name of the built-in style preset.
const DefaultStyleName = "default"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a style preset by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) ([]byte, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the names of the embedded presets.
func ListStyles() ([]string, error) {
	return defaultLoader.ListStyles()
}
