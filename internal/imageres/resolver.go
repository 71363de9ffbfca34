package imageres

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// MaxImageBytes caps a downloaded or decoded image.
const MaxImageBytes = 32 << 20

// Sentinel errors carried in Outcome.Err.
var (
	ErrDownload      = errors.New("image download failed")
	ErrTooLarge      = errors.New("image exceeds size limit")
	ErrNotFound      = errors.New("local image not found")
	ErrOutsideSource = errors.New("image path escapes source directory")
	ErrBadDataURI    = errors.New("invalid data URI")
	ErrNotImage      = errors.New("not a recognizable image")
)

// Options configures a Resolver. Zero values take the defaults below.
type Options struct {
	Dir       string        // where fetched and converted images are written; default ./images
	Timeout   time.Duration // per download; default 30s
	UserAgent string
	SourceDir string // base of relative local paths; empty means the working directory
	Confine   bool   // reject relative paths leading out of SourceDir
	Client    *http.Client
	Logger    *slog.Logger
}

// Outcome is the per-image result. A degraded image is dropped from the
// document and replaced by its alt text.
type Outcome struct {
	Source   string
	Path     string
	Degraded bool
	Reason   string
	Err      error
}

// Resolver turns image references into local PNG or JPEG files.
// It is safe for concurrent use.
type Resolver struct {
	dir       string
	timeout   time.Duration
	userAgent string
	sourceDir string
	confine   bool
	client    *http.Client
	logger    *slog.Logger
}

// New returns a Resolver for opts.
func New(opts Options) *Resolver {
	r := &Resolver{
		dir:       opts.Dir,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		sourceDir: opts.SourceDir,
		confine:   opts.Confine,
		client:    opts.Client,
		logger:    opts.Logger,
	}
	if r.dir == "" {
		r.dir = "./images"
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Resolve fetches, decodes or checks src and returns the local file to embed.
func (r *Resolver) Resolve(ctx context.Context, src string) Outcome {
	var (
		p   string
		err error
	)
	switch {
	case fileutil.IsURL(src):
		p, err = r.download(ctx, src)
	case fileutil.IsDataURI(src):
		p, err = r.decodeDataURI(src)
	default:
		p, err = r.local(src)
	}
	if err != nil {
		r.logger.Warn("image skipped", "source", shorten(src), "reason", err.Error())
		return Outcome{Source: src, Degraded: true, Reason: err.Error(), Err: err}
	}
	r.logger.Debug("image resolved", "source", shorten(src), "path", p)
	return Outcome{Source: src, Path: p}
}

func (r *Resolver) download(ctx context.Context, src string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxImageBytes)
	}
	return r.store(data, urlStem(src))
}

func (r *Resolver) decodeDataURI(src string) (string, error) {
	_, payload, ok := strings.Cut(src, "base64,")
	if !ok {
		return "", fmt.Errorf("%w: only base64 payloads are supported", ErrBadDataURI)
	}
	payload = strings.Join(strings.Fields(payload), "")
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxImageBytes)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return r.store(data, "")
}

func (r *Resolver) local(src string) (string, error) {
	p, err := r.localPath(src)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	if info.Size() > MaxImageBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxImageBytes)
	}
	data, err := os.ReadFile(p) // #nosec G304 -- image path from the document
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if embeddable(data) {
		if err := verify(data); err != nil {
			return "", err
		}
		return p, nil
	}
	return r.store(data, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
}

// localPath resolves src against the source directory. Absolute paths are
// taken as given. Relative paths leaving the directory, such as "../pic.png",
// are accepted unless the resolver confines them.
func (r *Resolver) localPath(src string) (string, error) {
	if strings.HasPrefix(src, "file://") {
		u, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return filepath.FromSlash(u.Path), nil
	}
	if unescaped, err := url.PathUnescape(src); err == nil {
		src = unescaped
	}
	if !isRelativePath(src) {
		return filepath.Clean(src), nil
	}
	base := r.sourceDir
	if base == "" {
		base = "."
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	p := filepath.Join(absBase, filepath.FromSlash(src))
	if r.confine && !isPathUnderDir(p, absBase) {
		return "", fmt.Errorf("%w: %s", ErrOutsideSource, src)
	}
	return p, nil
}

// store normalizes data and writes it under the image directory as
// <stem>.<ext>, returning the absolute path.
func (r *Resolver) store(data []byte, stem string) (string, error) {
	out, ext, err := normalize(data)
	if err != nil {
		return "", err
	}
	if stem == "" {
		stem = inlineName()
	}
	dir, err := filepath.Abs(r.dir)
	if err != nil {
		return "", fmt.Errorf("resolving image directory: %w", err)
	}
	p := filepath.Join(dir, stem+"."+ext)
	if err := fileutil.WriteFileAtomic(p, out, 0o644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return p, nil
}

// urlStem returns the file name of a URL without query or extension.
func urlStem(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" || strings.ContainsAny(stem, `\:*?"<>|`) {
		return ""
	}
	return stem
}

// shorten keeps data URIs out of logs.
func shorten(src string) string {
	if fileutil.IsDataURI(src) && len(src) > 40 {
		return src[:40] + "..."
	}
	return src
}
