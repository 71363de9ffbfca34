package fileutil_test

// Notes:
// - WriteFileAtomic failure paths are exercised through an unwritable target
//   (a directory at the destination) rather than by injecting disk errors.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Temp file plus rename
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.docx")

	if err := fileutil.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target", len(entries))
	}
}

func TestWriteFileAtomic_NoPartialFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0o750); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.WriteFileAtomic(target, []byte("data"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic() onto a non-empty directory should fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "taken" {
			t.Errorf("leftover file %q", e.Name())
		}
	}
}

// ---------------------------------------------------------------------------
// TestReplaceExtension - Default output names
// ---------------------------------------------------------------------------

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		extension string
		want      string
		wantErr   error
	}{
		{name: "markdown", path: "docs/readme.md", extension: "docx", want: "docs/readme.docx"},
		{name: "no extension", path: "notes", extension: "docx", want: "notes.docx"},
		{name: "dotted dir", path: "a.b/c.markdown", extension: "docx", want: "a.b/c.docx"},
		{name: "empty extension", path: "a.md", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "traversal", path: "a.md", extension: "../x", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.ReplaceExtension(tt.path, tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReplaceExtension() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.extension, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
	if !fileutil.DirExists(dir) {
		t.Error("DirExists(dir) = false, want true")
	}
	if fileutil.DirExists(file) {
		t.Error("DirExists(file) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestClassifiers - IsFilePath, IsURL, IsDataURI
// ---------------------------------------------------------------------------

func TestClassifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantPath bool
		wantURL  bool
		wantData bool
	}{
		{input: "report"},
		{input: "./custom.yaml", wantPath: true},
		{input: `C:\styles\a.yaml`, wantPath: true},
		{input: "https://example.com/a.png", wantPath: true, wantURL: true},
		{input: "HTTP://EXAMPLE.COM/A.PNG", wantPath: true, wantURL: true},
		{input: "ftp://example.com/a.png", wantPath: true},
		{input: "data:image/png;base64,AAAA", wantPath: true, wantData: true},
		{input: "DATA:image/gif,xyz", wantPath: true, wantData: true},
		{input: "data"},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.wantPath {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.wantPath)
		}
		if got := fileutil.IsURL(tt.input); got != tt.wantURL {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.wantURL)
		}
		if got := fileutil.IsDataURI(tt.input); got != tt.wantData {
			t.Errorf("IsDataURI(%q) = %v, want %v", tt.input, got, tt.wantData)
		}
	}
}
