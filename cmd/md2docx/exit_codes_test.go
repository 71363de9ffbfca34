package main

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"batch failure", fmt.Errorf("%w: 1 of 2", ErrBatchFailed), ExitGeneral},
		{"not exist", &fs.PathError{Op: "stat", Path: "x.md", Err: fs.ErrNotExist}, ExitIO},
		{"permission", fmt.Errorf("wrap: %w", fs.ErrPermission), ExitIO},
		{"read input", fmt.Errorf("%w: eof", md2docx.ErrReadInput), ExitIO},
		{"write output", fmt.Errorf("%w: disk full", md2docx.ErrWriteOutput), ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", fmt.Errorf("%w: x.yaml", config.ErrConfigNotFound), ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"empty markdown", md2docx.ErrEmptyMarkdown, ExitUsage},
		{"style not found", md2docx.ErrStyleNotFound, ExitUsage},
		{"usage", fmt.Errorf("%w: bad flag", ErrUsage), ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"config exists", ErrConfigExists, ExitUsage},
		{"extension", ErrInvalidExtension, ExitUsage},
		{"workers", ErrInvalidWorkerCount, ExitUsage},
		{"timeout", ErrInvalidTimeout, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
