package main

// Notes:
// - runMain: we test exit codes and output for each command. Full conversions
//   through the CLI are covered in convert_test.go.
// - newLogger: we test level selection from -q/-v, not handler formatting.

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{Stdout: stdout, Stderr: stderr}, stdout, stderr
}

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no arguments prints usage",
			args:       []string{"md2docx"},
			wantCode:   ExitUsage,
			wantStderr: "Usage: md2docx",
		},
		{
			name:       "help command",
			args:       []string{"md2docx", "help"},
			wantCode:   ExitSuccess,
			wantStdout: "Commands:",
		},
		{
			name:       "help flag",
			args:       []string{"md2docx", "--help"},
			wantCode:   ExitSuccess,
			wantStdout: "Commands:",
		},
		{
			name:       "help for convert",
			args:       []string{"md2docx", "help", "convert"},
			wantCode:   ExitSuccess,
			wantStdout: "--toc-level",
		},
		{
			name:       "version command",
			args:       []string{"md2docx", "version"},
			wantCode:   ExitSuccess,
			wantStdout: "md2docx dev",
		},
		{
			name:       "version flag",
			args:       []string{"md2docx", "--version"},
			wantCode:   ExitSuccess,
			wantStdout: "md2docx dev",
		},
		{
			name:       "styles lists presets",
			args:       []string{"md2docx", "styles"},
			wantCode:   ExitSuccess,
			wantStdout: "default",
		},
		{
			name:       "unknown command",
			args:       []string{"md2docx", "frobnicate"},
			wantCode:   ExitUsage,
			wantStderr: "unknown command: frobnicate",
		},
		{
			name:       "convert without input",
			args:       []string{"md2docx", "convert"},
			wantCode:   ExitIO,
			wantStderr: "no input specified",
		},
		{
			name:       "missing markdown file",
			args:       []string{"md2docx", "missing-file.md"},
			wantCode:   ExitIO,
			wantStderr: "error:",
		},
		{
			name:       "bad flag",
			args:       []string{"md2docx", "convert", "--no-such-flag"},
			wantCode:   ExitUsage,
			wantStderr: "invalid usage",
		},
		{
			name:     "convert help flag",
			args:     []string{"md2docx", "convert", "-h"},
			wantCode: ExitSuccess,
		},
		{
			name:       "negative workers",
			args:       []string{"md2docx", "convert", "-w", "-1", "x.md"},
			wantCode:   ExitUsage,
			wantStderr: "invalid worker count",
		},
		{
			name:       "unknown style shows available presets",
			args:       []string{"md2docx", "convert", "-c", "no-such-style", "x.md"},
			wantCode:   ExitUsage,
			wantStderr: "available: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"convert", true},
		{"init-config", true},
		{"styles", true},
		{"version", true},
		{"help", true},
		{"doc.md", false},
		{"Convert", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := isCommand(tt.arg); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeInput - Markdown file and directory detection
// ---------------------------------------------------------------------------

func TestLooksLikeInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		arg  string
		want bool
	}{
		{"md extension", "doc.md", true},
		{"markdown extension", "doc.markdown", true},
		{"uppercase extension", "DOC.MD", true},
		{"existing directory", dir, true},
		{"text file", file, false},
		{"missing directory", filepath.Join(dir, "nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeInput(tt.arg); got != tt.want {
				t.Errorf("looksLikeInput(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags commonFlags
		level slog.Level
	}{
		{"default warns", commonFlags{}, slog.LevelWarn},
		{"quiet shows errors only", commonFlags{quiet: true}, slog.LevelError},
		{"verbose shows debug", commonFlags{verbose: true}, slog.LevelDebug},
		{"quiet wins over verbose", commonFlags{quiet: true, verbose: true}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := newTestEnv()
			logger := newLogger(env, tt.flags)
			ctx := context.Background()

			if !logger.Enabled(ctx, tt.level) {
				t.Errorf("level %v should be enabled", tt.level)
			}
			if logger.Enabled(ctx, tt.level-1) {
				t.Errorf("level %v should be disabled", tt.level-1)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunStyles_AssetPath - Custom presets are listed with embedded ones
// ---------------------------------------------------------------------------

func TestRunStyles_AssetPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "house.yaml"), []byte("styles: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, stdout, stderr := newTestEnv()
	if code := runMain([]string{"md2docx", "styles", "--asset-path", dir}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	for _, want := range []string{"default", "house"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout = %q, want to contain %q", stdout.String(), want)
		}
	}

	env, _, _ = newTestEnv()
	if code := runMain([]string{"md2docx", "styles", "--asset-path", filepath.Join(dir, "missing")}, env); code != ExitUsage {
		t.Errorf("runMain(missing asset path) = %d, want %d", code, ExitUsage)
	}
}
