package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrUnrecognizedImage is returned when picture bytes are not in a format the
// document can embed.
var ErrUnrecognizedImage = errors.New("unrecognized image")

// embeddable maps decoder names to file extensions and content types.
var embeddable = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
	"tiff": {"tiff", "image/tiff"},
}

// Picture is an inline raster image.
type Picture struct {
	Data   []byte
	Format string // png, jpeg, gif, bmp, tiff
	Name   string
	Alt    string

	// Pixel size of the bitmap and display size in EMU.
	PixelWidth, PixelHeight int
	Width, Height           int64
}

func (*Picture) isInline() {}

// DetectImage reports the format and pixel size of data, or
// ErrUnrecognizedImage when the bytes cannot be embedded.
func DetectImage(data []byte) (format string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrUnrecognizedImage, err)
	}
	if _, ok := embeddable[format]; !ok {
		return "", 0, 0, fmt.Errorf("%w: format %q", ErrUnrecognizedImage, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", 0, 0, fmt.Errorf("%w: empty bitmap", ErrUnrecognizedImage)
	}
	return format, cfg.Width, cfg.Height, nil
}

// NewPicture inspects data and returns a picture at its natural 96 DPI size.
func NewPicture(data []byte, name, alt string) (*Picture, error) {
	format, w, h, err := DetectImage(data)
	if err != nil {
		return nil, err
	}
	return &Picture{
		Data:        data,
		Format:      format,
		Name:        name,
		Alt:         alt,
		PixelWidth:  w,
		PixelHeight: h,
		Width:       int64(w) * EMUPerPixel,
		Height:      int64(h) * EMUPerPixel,
	}, nil
}

// LoadPicture reads an image file and returns it as a picture.
func LoadPicture(path, alt string) (*Picture, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path produced by the image resolver
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return NewPicture(data, path, alt)
}

// ScaleToWidth shrinks the picture to maxWidth EMU keeping its aspect ratio.
// Narrower pictures are left untouched. It reports whether the size changed.
func (p *Picture) ScaleToWidth(maxWidth int64) bool {
	if maxWidth <= 0 || p.Width <= maxWidth {
		return false
	}
	p.Height = int64(float64(p.Height) * (float64(maxWidth) / float64(p.Width)))
	p.Width = maxWidth
	return true
}
