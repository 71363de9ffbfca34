package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2docx "github.com/alnah/go-md2docx"
)

// runStyles lists the embedded style presets, plus custom ones with
// --asset-path.
func runStyles(args []string, env *Environment) error {
	fs := flag.NewFlagSet(cmdStyles, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	assetPath := fs.String("asset-path", "", "directory of custom style presets")
	fs.Usage = func() { printStylesUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	names, err := md2docx.ListStylesIn(*assetPath)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}
