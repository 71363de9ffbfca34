package main

import (
	"errors"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing and defaults
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		f, args, err := parseConvertFlags([]string{"doc.md"}, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 1 || args[0] != "doc.md" {
			t.Errorf("args = %v, want [doc.md]", args)
		}
		if f.toc.enabled {
			t.Error("toc should be disabled by default")
		}
		if f.toc.title != "目录" {
			t.Errorf("toc.title = %q, want %q", f.toc.title, "目录")
		}
		if f.toc.level != 3 {
			t.Errorf("toc.level = %d, want 3", f.toc.level)
		}
		if f.workers != 0 {
			t.Errorf("workers = %d, want 0", f.workers)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		f, args, err := parseConvertFlags([]string{
			"-o", "out.docx", "-c", "report", "-w", "4", "-t", "1m",
			"--image-dir", "imgs", "--asset-path", "styles", "--unsafe-html", "--hard-wraps", "--html",
			"--toc", "--toc-title", "Contents", "--toc-level", "2", "-v",
			"doc.md",
		}, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 1 {
			t.Errorf("args = %v, want one positional", args)
		}
		checks := []struct {
			name string
			got  any
			want any
		}{
			{"output", f.output, "out.docx"},
			{"config", f.common.config, "report"},
			{"workers", f.workers, 4},
			{"timeout", f.timeout, "1m"},
			{"imageDir", f.imageDir, "imgs"},
			{"assetPath", f.assetPath, "styles"},
			{"unsafeHTML", f.unsafeHTML, true},
			{"hardWraps", f.hardWraps, true},
			{"html", f.html, true},
			{"toc.enabled", f.toc.enabled, true},
			{"toc.title", f.toc.title, "Contents"},
			{"toc.level", f.toc.level, 2},
			{"verbose", f.common.verbose, true},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
			}
		}
	})

	t.Run("unknown flag wraps ErrUsage", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv()
		_, _, err := parseConvertFlags([]string{"--bogus"}, env)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("help returns ErrHelp and prints usage", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := newTestEnv()
		_, _, err := parseConvertFlags([]string{"--help"}, env)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(stderr.String(), "Usage: md2docx convert") {
			t.Errorf("stderr = %q, want convert usage", stderr.String())
		}
	})
}
