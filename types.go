package md2docx

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// TOC defaults.
const (
	DefaultTOCTitle    = "目录"
	DefaultTOCMaxDepth = 3
)

// Input contains conversion parameters.
type Input struct {
	Markdown   string // Markdown content (required)
	OutputPath string // written atomically when set
	SourceDir  string // base directory of relative image paths
	TOC        *TOC   // table of contents (optional, nil = none)
}

// TOC configures the table of contents field inserted before the content.
type TOC struct {
	Title    string // empty = DefaultTOCTitle
	MaxDepth int    // deepest heading level listed, clamped to 1..9; 0 = DefaultTOCMaxDepth
}

// Warning is a degradation that did not stop the conversion, such as an
// image dropped to its alt text or a formula kept as literal text.
type Warning struct {
	Stage  string
	Source string
	Reason string
}

func (w Warning) String() string {
	if w.Source == "" {
		return fmt.Sprintf("%s: %s", w.Stage, w.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", w.Stage, w.Source, w.Reason)
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	DOCX []byte // the .docx package
	HTML []byte // intermediate HTML, images resolved, before extraction

	Headings   int
	CodeBlocks int
	Quotes     int
	Formulas   int
	Images     int

	Warnings []Warning
}

// Option configures a Converter.
type Option func(*Converter)

// defaultTimeout bounds a whole conversion, image downloads included.
const defaultTimeout = 5 * time.Minute

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2docx: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.timeout = d
	}
}

// WithConfig sets the style sheet. The converter works on a copy.
func WithConfig(cfg *Config) Option {
	return func(c *Converter) {
		if cfg != nil {
			c.cfg = cfg.Clone()
		}
	}
}

// WithStyle loads the style sheet by preset name or file path, as LoadConfig
// does. It is resolved in NewConverter and overrides WithConfig.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.styleInput = nameOrPath
	}
}

// WithAssetPath adds a directory of style presets (<path>/styles/<name>.yaml)
// searched before the embedded ones by WithStyle.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.assetPath = path
	}
}

// WithLogger sets the logger for stage timings and degradations.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the client used to download remote images.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.client = client
	}
}

// WithImageDir overrides image.local_dir, the directory receiving downloaded
// and converted images.
func WithImageDir(dir string) Option {
	return func(c *Converter) {
		c.imageDir = dir
	}
}

// WithHardWraps turns single line breaks inside a Markdown paragraph into
// line breaks in the document instead of spaces.
func WithHardWraps() Option {
	return func(c *Converter) {
		c.hardWraps = true
	}
}

// WithUnsafeHTML lets raw HTML in the Markdown through to the document
// builder. Without it raw HTML is dropped.
func WithUnsafeHTML() Option {
	return func(c *Converter) {
		c.unsafeHTML = true
	}
}
