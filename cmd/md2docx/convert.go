package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrBatchFailed    = errors.New("conversions failed")
)

// defaultConfigName is looked up when neither --config nor MD2DOCX_CONFIG is
// set. Not finding it is not an error.
const defaultConfigName = "md2docx"

// runConvert converts one file or every Markdown file under a directory.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, logger *slog.Logger, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(logger)
	applyEnvConfig(envCfg, flags)

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	switch len(positional) {
	case 0:
		return ErrNoInput
	case 1:
	default:
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	opts, err := converterOptions(flags, timeout, logger, env)
	if err != nil {
		return err
	}
	conv, err := md2docx.NewConverter(opts...)
	if err != nil {
		return err
	}

	files, err := discoverFiles(positional[0], flags.output)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files in %s", ErrNoInput, positional[0])
	}

	bo := batchOptions{
		workers: resolveWorkers(flags.workers),
		toc:     tocFromFlags(flags.toc),
		html:    flags.html,
	}
	if len(files) > 1 && !flags.common.quiet {
		bo.progress = env.Stderr
	}

	results := convertBatch(ctx, conv, files, bo)
	failed := printResults(results, flags.common, env)

	if len(results) == 1 {
		return results[0].Err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// converterOptions maps flags to converter options. An explicit config is a
// preset name or a file path; otherwise "md2docx.yaml" is picked up from the
// working or user config directory when present.
func converterOptions(flags *convertFlags, timeout time.Duration, logger *slog.Logger, env *Environment) ([]md2docx.Option, error) {
	opts := []md2docx.Option{md2docx.WithLogger(logger)}

	switch {
	case flags.common.config != "":
		opts = append(opts, md2docx.WithStyle(flags.common.config))
		if flags.assetPath != "" {
			opts = append(opts, md2docx.WithAssetPath(flags.assetPath))
		}
	default:
		cfg, err := md2docx.LoadConfig(defaultConfigName)
		switch {
		case err == nil:
			logger.Debug("using config", "name", defaultConfigName)
			opts = append(opts, md2docx.WithConfig(cfg))
		case !errors.Is(err, config.ErrConfigNotFound):
			return nil, err
		}
	}

	if timeout > 0 {
		opts = append(opts, md2docx.WithTimeout(timeout))
	}
	if flags.imageDir != "" {
		opts = append(opts, md2docx.WithImageDir(flags.imageDir))
	}
	if flags.unsafeHTML {
		opts = append(opts, md2docx.WithUnsafeHTML())
	}
	if flags.hardWraps {
		opts = append(opts, md2docx.WithHardWraps())
	}
	if env.HTTPClient != nil {
		opts = append(opts, md2docx.WithHTTPClient(env.HTTPClient))
	}
	return opts, nil
}

// resolveTimeout parses --timeout, falling back to MD2DOCX_TIMEOUT.
// Zero means the library default.
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue == "" {
		return env.Timeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// tocFromFlags returns nil unless --toc is set.
func tocFromFlags(f tocFlags) *md2docx.TOC {
	if !f.enabled {
		return nil
	}
	return &md2docx.TOC{Title: f.title, MaxDepth: f.level}
}
