// Package assets provides the style presets a conversion can start from.
// Presets are YAML documents in the config schema and can be loaded from
// embedded files or a custom filesystem path.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in presets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in presets (default, plain, report).
//
// FilesystemLoader allows users to provide custom presets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver tries the custom FilesystemLoader first, falling back to
// EmbeddedLoader if the preset is not found there.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.yaml          # or {name}.yml
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
