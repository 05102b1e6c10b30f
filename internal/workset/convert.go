package workset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrConversion is returned when an image cannot be converted.
var ErrConversion = errors.New("image conversion failed")

// DefaultMaxWidth bounds the width of converted images in pixels.
const DefaultMaxWidth = 1600

// Converter turns one unsupported image into a renderer-native one.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// WebPConverter decodes webp and encodes png, scaling down images wider
// than MaxWidth. Zero or negative MaxWidth keeps the original size.
type WebPConverter struct {
	MaxWidth int
}

// Convert implements Converter. On failure dst does not exist.
func (c WebPConverter) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(src) // #nosec G304 -- src comes from a directory listing
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	defer func() { _ = f.Close() }()

	img, err := webp.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrConversion, src, err)
	}
	img = ScaleToWidth(img, c.MaxWidth)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 -- dst is inside the working set
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("%w: encoding %s: %v", ErrConversion, dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return nil
}

// ScaleToWidth returns img resized to maxWidth keeping its aspect ratio,
// or img itself when it is already narrow enough.
func ScaleToWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
