package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing and argument count errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled bool
	title   string
	level   int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	imageDir   string
	assetPath  string
	unsafeHTML bool
	hardWraps  bool
	html       bool
	toc        tocFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "style config name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage timings")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "目录", "table of contents heading")
	fs.IntVar(&f.level, "toc-level", 3, "deepest heading level listed (1-9)")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, env *Environment) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output .docx file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.imageDir, "image-dir", "", "directory for downloaded images")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory of custom style presets")
	fs.BoolVar(&f.unsafeHTML, "unsafe-html", false, "keep raw HTML found in the markdown")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "keep single line breaks inside paragraphs")
	fs.BoolVar(&f.html, "html", false, "also write the intermediate HTML")

	addCommonFlags(fs, &f.common)
	addTOCFlags(fs, &f.toc)

	fs.Usage = func() { printConvertUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
