package assets

// AssetLoader defines the contract for loading style presets.
type AssetLoader interface {
	// LoadStyle loads a YAML style preset by name (without extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) ([]byte, error)

	// ListStyles returns the names of the available presets, sorted.
	ListStyles() ([]string, error)
}
