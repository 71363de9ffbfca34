package imageres

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // decoders for re-encoding
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// embeddable reports whether data is already PNG or JPEG.
func embeddable(data []byte) bool {
	m := mimetype.Detect(data)
	return m.Is("image/png") || m.Is("image/jpeg")
}

// verify checks that an embeddable image has a readable header.
func verify(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty bitmap", ErrNotImage)
	}
	return nil
}

// normalize returns data unchanged when it is PNG or JPEG, and re-encodes
// everything else: PNG when the image has transparency, JPEG on a white
// background otherwise.
func normalize(data []byte) ([]byte, string, error) {
	m := mimetype.Detect(data)
	switch {
	case m.Is("image/png"):
		return data, "png", verify(data)
	case m.Is("image/jpeg"):
		return data, "jpeg", verify(data)
	case !strings.HasPrefix(m.String(), "image/"):
		return nil, "", fmt.Errorf("%w: content is %s", ErrNotImage, m.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrNotImage, m.String(), err)
	}

	var buf bytes.Buffer
	if hasAlpha(img) {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encoding png: %w", err)
		}
		return buf.Bytes(), "png", nil
	}
	if err := jpeg.Encode(&buf, onWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), "jpeg", nil
}

// hasAlpha reports whether img declares transparency: a palette with a
// transparent entry, or a color model carrying straight alpha. Other images
// count when any pixel is not fully opaque.
func hasAlpha(img image.Image) bool {
	if p, ok := img.(*image.Paletted); ok {
		for _, c := range p.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	switch img.ColorModel() {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model, color.NYCbCrAModel:
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// onWhite composites img over an opaque white canvas.
func onWhite(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func inlineName() string {
	return "inline_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
