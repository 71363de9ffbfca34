package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/hints"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2docx.ErrStyleNotFound):
		names, _ := md2docx.ListStyles()
		return hints.ForStyleNotFound(names)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, md2docx.ErrInvalidConfig), errors.Is(err, config.ErrConfigParse):
		return hints.ForInvalidConfig()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2docx.ErrWriteOutput) && errors.Is(err, os.ErrPermission):
		return hints.ForOutputLocked()
	case errors.Is(err, md2docx.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigPaths returns where a user-wide config would be found.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "md2docx", defaultConfigFile)}
}
