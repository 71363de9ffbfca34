// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// Proxied reports whether an HTTP proxy is configured in the environment.
var Proxied = func() bool {
	for _, key := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForImageDownload returns hints for remote images that could not be fetched.
// Failed images are kept as alt text, so the hint explains how to retry.
func ForImageDownload() string {
	hints := []string{"raise image.download_timeout_seconds or --timeout"}
	if !Proxied() {
		hints = append(hints, "set HTTPS_PROXY if the network requires a proxy")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for documents with many remote images, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or run 'md2docx init-config'"

	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "/md2docx/") {
			hint += "; or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForOutputLocked returns a hint for output files that cannot be replaced.
func ForOutputLocked() string {
	return format("close the document in Word or choose another --output path")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForInvalidConfig returns a hint for configuration validation failures.
func ForInvalidConfig() string {
	return format("run 'md2docx init-config' to see every field with its default")
}

// slashed normalizes Windows separators so one substring check fits both.
func slashed(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
