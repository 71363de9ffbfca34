package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Single file and directory walking
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	writeFile(t, filepath.Join(dir, "sub", "b.markdown"), "# B")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")

	t.Run("single file next to input", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(filepath.Join(dir, "a.md"), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want 1", len(files))
		}
		if want := filepath.Join(dir, "a.docx"); files[0].OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
		}
	})

	t.Run("directory mirrors layout", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(dir, "out")
		files, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var outputs []string
		for _, f := range files {
			outputs = append(outputs, f.OutputPath)
		}
		slices.Sort(outputs)
		want := []string{filepath.Join(out, "a.docx"), filepath.Join(out, "sub", "b.docx")}
		if !slices.Equal(outputs, want) {
			t.Errorf("outputs = %v, want %v", outputs, want)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "notes.txt"), "")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "nope.md"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output naming rules
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		output  string
		baseDir string
		want    string
	}{
		{"no output", "docs/a.md", "", "", filepath.Join("docs", "a.docx")},
		{"explicit file", "docs/a.md", "out/report.docx", "", "out/report.docx"},
		{"explicit file uppercase", "docs/a.md", "out/R.DOCX", "", "out/R.DOCX"},
		{"output dir", "docs/a.md", "out", "", filepath.Join("out", "a.docx")},
		{"relative layout", "docs/x/a.md", "out", "docs", filepath.Join("out", "x", "a.docx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveOutputPath(tt.input, tt.output, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxWorkers, false},
		{MaxWorkers + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Auto sizing
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(6); got != 6 {
		t.Errorf("resolveWorkers(6) = %d, want 6", got)
	}
	got := resolveWorkers(0)
	if got < MinWorkers || got > autoMax {
		t.Errorf("resolveWorkers(0) = %d, want within %d..%d", got, MinWorkers, autoMax)
	}
}

func TestHTMLOutputPath(t *testing.T) {
	t.Parallel()

	if got := htmlOutputPath("out/a.docx"); got != "out/a.html" {
		t.Errorf("htmlOutputPath() = %q, want %q", got, "out/a.html")
	}
}
