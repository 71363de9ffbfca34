package md2docx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/assemble"
	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/formula"
	"github.com/alnah/go-md2docx/internal/htmldocx"
	"github.com/alnah/go-md2docx/internal/imageres"
	"github.com/alnah/go-md2docx/internal/numbering"
	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/style"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// Stage names, as they appear in warnings and debug logs.
const (
	StageExtractFormulas       = "ExtractFormulas"
	StageResolveMarkdownImages = "ResolveMarkdownImages"
	StageGenericConvert        = "GenericConvert"
	StageSanitizeHTMLImages    = "SanitizeHTMLImages"
	StageExtractCode           = "ExtractCode"
	StageExtractQuotes         = "ExtractQuotes"
	StageBuildDocumentTree     = "BuildDocumentTree"
	StageRetryImages           = "RetryWithoutProblemImages"
	StageReinjectCode          = assemble.StageCode
	StageReinjectQuotes        = assemble.StageQuotes
	StageReinjectFormulas      = assemble.StageFormulas
	StageApplyStyles           = "ApplyStyles"
	StageStyleInlineCode       = "StyleInlineCode"
	StageResizeImages          = "ResizeImages"
	StageInsertTOC             = "InsertTOC"
	StagePersist               = "Persist"
	StageConfig                = "Config"
)

// Converter orchestrates the Markdown to DOCX pipeline.
// Create with NewConverter and use Convert or ConvertFile. A Converter holds
// only settings and is safe for concurrent use.
type Converter struct {
	cfg        *config.Config
	styleInput string
	assetPath  string
	logger     *slog.Logger
	client     *http.Client
	timeout    time.Duration
	imageDir   string
	unsafeHTML bool
	hardWraps  bool

	// configWarnings are the repairs made to cfg, reported with every result.
	configWarnings []Warning

	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
}

// NewConverter creates a Converter with the default style sheet unless
// WithConfig or WithStyle says otherwise. Invalid style values are repaired
// to their defaults and reported as warnings; over-long values fail.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		timeout:      defaultTimeout,
		logger:       slog.New(slog.DiscardHandler),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}
	if c.cfg == nil {
		c.cfg = config.DefaultConfig()
	}

	for _, problem := range c.cfg.Sanitize() {
		if errors.Is(problem, config.ErrFieldTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, problem)
		}
		c.logger.Warn("config value repaired", "reason", problem.Error())
		c.configWarnings = append(c.configWarnings, Warning{Stage: StageConfig, Reason: problem.Error()})
	}

	if c.htmlConverter == nil {
		var gopts []pipeline.GoldmarkOption
		if c.unsafeHTML {
			gopts = append(gopts, pipeline.WithUnsafe())
		}
		if c.hardWraps {
			gopts = append(gopts, pipeline.WithHardWraps())
		}
		c.htmlConverter = pipeline.NewGoldmarkConverter(gopts...)
	}
	return c, nil
}

// resolveStyle loads the WithStyle preset or file, if any.
func (c *Converter) resolveStyle() error {
	if c.styleInput == "" {
		return nil
	}
	resolver, err := assets.NewAssetResolver(c.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.logger.Debug("loading style", "style", c.styleInput, "custom_presets", resolver.HasCustomLoader())
	cfg, err := config.LoadConfigWith(c.styleInput, resolver)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("%w: %q: %v", ErrStyleNotFound, c.styleInput, err)
		}
		return fmt.Errorf("loading style %q: %w", c.styleInput, err)
	}
	c.cfg = cfg
	return nil
}

// Config returns a copy of the style sheet in use, after repairs.
func (c *Converter) Config() *Config {
	return c.cfg.Clone()
}

// ConvertFile converts the Markdown file at inPath. Relative images are
// resolved against its directory. An empty outPath writes next to the input
// with a .docx extension.
func (c *Converter) ConvertFile(ctx context.Context, inPath, outPath string, toc *TOC) (*ConvertResult, error) {
	data, err := os.ReadFile(inPath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if outPath == "" {
		if outPath, err = fileutil.ReplaceExtension(inPath, "docx"); err != nil {
			return nil, err
		}
	}
	sourceDir, err := filepath.Abs(filepath.Dir(inPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return c.Convert(ctx, Input{
		Markdown:   string(data),
		OutputPath: outPath,
		SourceDir:  sourceDir,
		TOC:        toc,
	})
}

// Convert runs the full pipeline and returns the DOCX bytes with the
// intermediate HTML, element counts and the warnings of every degradation.
// When input.OutputPath is set the document is also written there
// atomically; no partial file is left on failure.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cv := &conversion{
		Converter: c,
		ctx:       ctx,
		res:       &ConvertResult{Warnings: append([]Warning(nil), c.configWarnings...)},
		images: imageres.New(imageres.Options{
			Dir:       c.imageDirFor(),
			Timeout:   time.Duration(c.cfg.Image.DownloadTimeoutSeconds) * time.Second,
			UserAgent: c.cfg.Image.UserAgent,
			SourceDir: input.SourceDir,
			Confine:   c.cfg.Image.ConfineToSource,
			Client:    c.client,
			Logger:    c.logger,
		}),
	}
	if err := cv.run(input); err != nil {
		return nil, err
	}
	return cv.res, nil
}

func (c *Converter) imageDirFor() string {
	if c.imageDir != "" {
		return c.imageDir
	}
	return c.cfg.Image.LocalDir
}

// conversion is the state of one Convert call.
type conversion struct {
	*Converter
	ctx    context.Context
	res    *ConvertResult
	images *imageres.Resolver
}

// stage runs fn, logging its name and duration, and stops early once the
// context is done.
func (cv *conversion) stage(name string, fn func() error) error {
	if err := cv.ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	cv.logger.Debug("stage", "name", name, "duration", time.Since(start), "error", err)
	return err
}

func (cv *conversion) warn(ws ...Warning) {
	for _, w := range ws {
		cv.logger.Warn("degraded", "stage", w.Stage, "source", w.Source, "reason", w.Reason)
	}
	cv.res.Warnings = append(cv.res.Warnings, ws...)
}

func (cv *conversion) warnImages(stage string, outcomes []imageres.Outcome) {
	for _, o := range outcomes {
		if o.Degraded {
			cv.res.Warnings = append(cv.res.Warnings, Warning{Stage: stage, Source: o.Source, Reason: o.Reason})
		}
	}
}

func (cv *conversion) warnAssembly(ws []assemble.Warning) {
	for _, w := range ws {
		cv.warn(Warning(w))
	}
}

func (cv *conversion) run(input Input) error {
	var (
		md      = cv.preprocessor.PreprocessMarkdown(cv.ctx, input.Markdown)
		records []formula.Record
		htmlStr string
		reg     *pipeline.Registry
		doc     *docx.Document
		err     error
	)

	steps := []struct {
		name string
		fn   func() error
	}{
		{StageExtractFormulas, func() error {
			md, records = formula.Extract(md)
			md = pipeline.ConvertHighlights(md)
			cv.res.Formulas = len(records)
			return nil
		}},
		{StageResolveMarkdownImages, func() error {
			var outcomes []imageres.Outcome
			md, outcomes = cv.images.RewriteMarkdown(cv.ctx, md)
			cv.warnImages(StageResolveMarkdownImages, outcomes)
			return nil
		}},
		{StageGenericConvert, func() error {
			htmlStr, err = cv.htmlConverter.ToHTML(cv.ctx, md)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				return fmt.Errorf("%w: %v", ErrHTMLConversion, err)
			}
			htmlStr = pipeline.ConvertMarkPlaceholders(htmlStr)
			return nil
		}},
		{StageSanitizeHTMLImages, func() error {
			var outcomes []imageres.Outcome
			htmlStr, outcomes = cv.images.RewriteHTML(cv.ctx, htmlStr)
			cv.warnImages(StageSanitizeHTMLImages, outcomes)
			cv.res.HTML = []byte(htmlStr)
			return nil
		}},
		{StageExtractCode, func() error {
			htmlStr, reg = pipeline.ExtractCode(htmlStr)
			return nil
		}},
		{StageExtractQuotes, func() error {
			// Code inside a quote is folded back into the quote text.
			htmlStr = pipeline.ExtractQuotes(htmlStr, reg)
			cv.res.CodeBlocks = countKind(reg, pipeline.KindCode)
			cv.res.Quotes = countKind(reg, pipeline.KindQuote)
			htmlStr = pipeline.MarkInlineCode(htmlStr)
			return nil
		}},
		{StageBuildDocumentTree, func() error {
			doc, err = cv.buildTree(htmlStr)
			return err
		}},
		{StageReinjectCode, func() error {
			cv.warnAssembly(assemble.ReinjectCode(doc, reg, cv.cfg.Style(config.RoleCode)))
			return nil
		}},
		{StageReinjectQuotes, func() error {
			cv.warnAssembly(assemble.ReinjectQuotes(doc, reg, cv.cfg.Style(config.RoleBlockquote)))
			return nil
		}},
		{StageReinjectFormulas, func() error {
			cv.warnAssembly(assemble.ReinjectFormulas(doc, records))
			return nil
		}},
		{StageApplyStyles, func() error {
			assemble.SetTitle(doc) // before numbering labels are added
			style.New(cv.cfg, cv.logger).Apply(doc, numbering.New())
			for _, p := range doc.Paragraphs() {
				if p.Heading > 0 {
					cv.res.Headings++
				}
			}
			return nil
		}},
		{StageStyleInlineCode, func() error {
			assemble.StyleInlineCode(doc, cv.cfg.Style(config.RoleCode))
			return nil
		}},
		{StageResizeImages, func() error {
			assemble.ResizeImages(doc, cv.cfg.Document.MaxImageWidthInches)
			cv.res.Images = len(doc.Pictures())
			return nil
		}},
		{StageInsertTOC, func() error {
			if input.TOC != nil {
				toc := assemble.TOC{Title: input.TOC.Title, MaxDepth: input.TOC.MaxDepth}
				assemble.InsertTOC(doc, toc, cv.cfg.Style(config.RoleBody))
			}
			return nil
		}},
		{StagePersist, func() error {
			return cv.persist(doc, input.OutputPath)
		}},
	}

	for _, s := range steps {
		if err := cv.stage(s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// countKind counts the blocks of kind still held by reg.
func countKind(reg *pipeline.Registry, kind pipeline.BlockKind) int {
	n := 0
	for _, b := range reg.Remaining() {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// maxImageRetries is the number of fallbacks tried when the tree builder
// rejects an image: first only the unreadable images are dropped, then all.
const maxImageRetries = 2

// buildTree converts the HTML into a document, dropping images the builder
// cannot embed. Any other failure is fatal.
func (cv *conversion) buildTree(htmlStr string) (*docx.Document, error) {
	fallbacks := [maxImageRetries]struct {
		reason string
		apply  func(string) string
	}{
		{"unrecognized images replaced by alt text", imageres.FilterUnrecognized},
		{"all images replaced by alt text", imageres.RemoveAll},
	}

	doc, err := htmldocx.Build(htmlStr)
	for attempt := 0; err != nil && errors.Is(err, docx.ErrUnrecognizedImage) && attempt < maxImageRetries; attempt++ {
		fb := fallbacks[attempt]
		cv.warn(Warning{Stage: StageRetryImages, Source: err.Error(), Reason: fb.reason})
		htmlStr = fb.apply(htmlStr)
		doc, err = htmldocx.Build(htmlStr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTreeBuild, err)
	}
	return doc, nil
}

// persist serializes doc into the result and writes it to path when set.
func (cv *conversion) persist(doc *docx.Document, path string) error {
	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	cv.res.DOCX = data
	if path == "" {
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
