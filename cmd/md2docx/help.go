package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx <command> [flags] [args]")
	fmt.Fprintln(w, "       md2docx <input.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert       Convert markdown files to Word documents")
	fmt.Fprintln(w, "  init-config   Write a config file to customize")
	fmt.Fprintln(w, "  styles        List built-in style presets")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2docx help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to DOCX.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .docx file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Style preset name or config file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory of custom style presets")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --html                Also write the intermediate HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --image-dir <dir>     Directory for downloaded images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text (default 目录)")
	fmt.Fprintln(w, "      --toc-level <n>       Max heading depth (1-9, default 3)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --unsafe-html         Keep raw HTML found in the markdown")
	fmt.Fprintln(w, "      --hard-wraps          Keep single line breaks inside paragraphs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stage timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2DOCX_CONFIG, MD2DOCX_STYLE, MD2DOCX_OUTPUT_DIR, MD2DOCX_IMAGE_DIR,")
	fmt.Fprintln(w, "  MD2DOCX_TIMEOUT, MD2DOCX_WORKERS (flags take precedence)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  md2docx report.md")
	fmt.Fprintln(w, "  md2docx convert report.md -o out/report.docx --toc")
	fmt.Fprintln(w, "  md2docx convert ./docs -o ./word -c report")
}

// printInitConfigUsage prints usage for the init-config command.
func printInitConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx init-config [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a config file with every field set (default md2docx.yaml).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -s, --style <name>        Preset to start from (default \"default\")")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx styles [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List style presets usable with --config.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --asset-path <dir>    Also list presets from <dir>/styles")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdInitConfig:
		printInitConfigUsage(env.Stdout)
	case cmdStyles:
		printStylesUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2docx version")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
	}
}
