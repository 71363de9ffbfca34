package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// ErrConfigExists is returned when init-config would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

const defaultConfigFile = defaultConfigName + ".yaml"

// runInitConfig writes a preset, with every field filled in, to a YAML file.
func runInitConfig(args []string, env *Environment) error {
	fs := flag.NewFlagSet(cmdInitConfig, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	force := fs.BoolP("force", "f", false, "overwrite an existing file")
	style := fs.StringP("style", "s", assets.DefaultStyleName, "preset to start from")
	fs.Usage = func() { printInitConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: expected at most one path, got %d", ErrUsage, fs.NArg())
	}

	path := defaultConfigFile
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}
	if fileutil.FileExists(path) && !*force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	data, err := assets.LoadStyle(*style)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfigNotFound, err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
