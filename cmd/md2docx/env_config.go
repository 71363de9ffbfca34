package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring flags.
type envConfig struct {
	ConfigPath string        // MD2DOCX_CONFIG: style config name or path
	Style      string        // MD2DOCX_STYLE: preset name, used when no config is given
	Timeout    time.Duration // MD2DOCX_TIMEOUT: per-document timeout
	OutputDir  string        // MD2DOCX_OUTPUT_DIR: default output directory
	ImageDir   string        // MD2DOCX_IMAGE_DIR: directory for downloaded images
	Workers    int           // MD2DOCX_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2DOCX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2DOCX_CONFIG":     true,
	"MD2DOCX_STYLE":      true,
	"MD2DOCX_TIMEOUT":    true,
	"MD2DOCX_OUTPUT_DIR": true,
	"MD2DOCX_IMAGE_DIR":  true,
	"MD2DOCX_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2DOCX_CONFIG"),
		Style:      os.Getenv("MD2DOCX_STYLE"),
		OutputDir:  os.Getenv("MD2DOCX_OUTPUT_DIR"),
		ImageDir:   os.Getenv("MD2DOCX_IMAGE_DIR"),
	}

	if timeout := os.Getenv("MD2DOCX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2DOCX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DOCX_* variables.
// Helps catch typos like MD2DOCX_OUTPUTDIR instead of MD2DOCX_OUTPUT_DIR.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2DOCX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				logger.Warn("unknown environment variable (typo?)", "name", name)
			}
		}
	}
}

// applyEnvConfig fills flags left unset from environment values.
// Precedence: CLI flags > env vars > config search > defaults.
func applyEnvConfig(env *envConfig, flags *convertFlags) {
	if flags.common.config == "" {
		switch {
		case env.ConfigPath != "":
			flags.common.config = env.ConfigPath
		case env.Style != "":
			flags.common.config = env.Style
		}
	}
	if flags.output == "" && env.OutputDir != "" {
		flags.output = env.OutputDir
	}
	if flags.imageDir == "" && env.ImageDir != "" {
		flags.imageDir = env.ImageDir
	}
	if flags.workers == 0 && env.Workers > 0 {
		flags.workers = env.Workers
	}
}
