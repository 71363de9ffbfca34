package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/hints"
)

// filePermissions is rw-r--r--: the HTML side file is meant to be readable.
const filePermissions = 0o644

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	ConvertFile(ctx context.Context, inPath, outPath string, toc *md2docx.TOC) (*md2docx.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2docx.Converter)(nil)

// batchOptions controls one batch run.
type batchOptions struct {
	workers  int
	toc      *md2docx.TOC
	html     bool
	progress io.Writer // nil disables the progress bar
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []md2docx.Warning
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently. A Converter is safe for
// concurrent use, so workers share one.
func convertBatch(ctx context.Context, conv CLIConverter, files []FileToConvert, opts batchOptions) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(opts.workers, 1), len(files))

	var bar *progressbar.ProgressBar
	if opts.progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.progress),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
				} else {
					results[idx] = convertOne(ctx, conv, files[idx], opts)
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	return results
}

// convertOne converts a single file and returns the result.
func convertOne(ctx context.Context, conv CLIConverter, f FileToConvert, opts batchOptions) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	res, err := conv.ConvertFile(ctx, f.InputPath, f.OutputPath, opts.toc)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Warnings = res.Warnings

	if opts.html {
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlOutputPath(f.OutputPath), res.HTML, filePermissions); err != nil {
			result.Err = fmt.Errorf("failed to write HTML file: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Warnings += len(r.Warnings)
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
// A single failed file is left to the caller, which prints it with a hint.
func printResults(results []ConversionResult, f commonFlags, env *Environment) int {
	summary := countResults(results)

	imageWarnings := false
	for _, r := range results {
		for _, w := range r.Warnings {
			if isImageStage(w.Stage) {
				imageWarnings = true
			}
		}

		if r.Err != nil {
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}

		if f.quiet {
			continue
		}

		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d warnings)\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), len(r.Warnings))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !f.quiet && imageWarnings {
		fmt.Fprintf(env.Stderr, "some images could not be embedded%s\n", hints.ForImageDownload())
	}

	if !f.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

func isImageStage(stage string) bool {
	return stage == md2docx.StageResolveMarkdownImages ||
		stage == md2docx.StageSanitizeHTMLImages ||
		stage == md2docx.StageRetryImages
}
