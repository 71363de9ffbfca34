package main

// Notes:
// - Tests using t.Setenv cannot run in parallel.

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MD2DOCX_CONFIG", "team.yaml")
	t.Setenv("MD2DOCX_STYLE", "report")
	t.Setenv("MD2DOCX_OUTPUT_DIR", "out")
	t.Setenv("MD2DOCX_IMAGE_DIR", "imgs")
	t.Setenv("MD2DOCX_TIMEOUT", "45s")
	t.Setenv("MD2DOCX_WORKERS", "3")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "team.yaml" {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, "team.yaml")
	}
	if cfg.Style != "report" {
		t.Errorf("Style = %q, want %q", cfg.Style, "report")
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "out")
	}
	if cfg.ImageDir != "imgs" {
		t.Errorf("ImageDir = %q, want %q", cfg.ImageDir, "imgs")
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
}

func TestLoadEnvConfig_InvalidNumbersIgnored(t *testing.T) {
	t.Setenv("MD2DOCX_TIMEOUT", "soon")
	t.Setenv("MD2DOCX_WORKERS", "-2")

	cfg := loadEnvConfig()

	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MD2DOCX_OUTPUTDIR", "typo")
	t.Setenv("MD2DOCX_WORKERS", "2")

	var buf bytes.Buffer
	warnUnknownEnvVars(slog.New(slog.NewTextHandler(&buf, nil)))

	if !strings.Contains(buf.String(), "MD2DOCX_OUTPUTDIR") {
		t.Errorf("log = %q, want warning for MD2DOCX_OUTPUTDIR", buf.String())
	}
	if strings.Contains(buf.String(), "MD2DOCX_WORKERS") {
		t.Errorf("log = %q, should not warn for a known variable", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Flags take precedence over environment
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{ConfigPath: "env.yaml", Style: "report", OutputDir: "env-out", ImageDir: "env-img", Workers: 5}

	t.Run("env fills unset flags", func(t *testing.T) {
		t.Parallel()

		f := &convertFlags{}
		applyEnvConfig(env, f)

		if f.common.config != "env.yaml" {
			t.Errorf("config = %q, want %q", f.common.config, "env.yaml")
		}
		if f.output != "env-out" {
			t.Errorf("output = %q, want %q", f.output, "env-out")
		}
		if f.imageDir != "env-img" {
			t.Errorf("imageDir = %q, want %q", f.imageDir, "env-img")
		}
		if f.workers != 5 {
			t.Errorf("workers = %d, want 5", f.workers)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		f := &convertFlags{common: commonFlags{config: "flag.yaml"}, output: "flag-out", imageDir: "flag-img", workers: 2}
		applyEnvConfig(env, f)

		if f.common.config != "flag.yaml" {
			t.Errorf("config = %q, want %q", f.common.config, "flag.yaml")
		}
		if f.output != "flag-out" {
			t.Errorf("output = %q, want %q", f.output, "flag-out")
		}
		if f.imageDir != "flag-img" {
			t.Errorf("imageDir = %q, want %q", f.imageDir, "flag-img")
		}
		if f.workers != 2 {
			t.Errorf("workers = %d, want 2", f.workers)
		}
	})

	t.Run("style used without config path", func(t *testing.T) {
		t.Parallel()

		f := &convertFlags{}
		applyEnvConfig(&envConfig{Style: "plain"}, f)
		if f.common.config != "plain" {
			t.Errorf("config = %q, want %q", f.common.config, "plain")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveTimeout - Flag parsing and env fallback
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr bool
	}{
		{"unset", "", 0, 0, false},
		{"env fallback", "", time.Minute, time.Minute, false},
		{"flag wins", "10s", time.Minute, 10 * time.Second, false},
		{"invalid", "fast", 0, 0, true},
		{"zero", "0s", 0, 0, true},
		{"negative", "-5s", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, &envConfig{Timeout: tt.env})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}
