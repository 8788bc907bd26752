// Package codec wraps the image decoders that can fill a sprite frame. Each
// decoder belongs to one of two families: lossless formats which need their
// palette, gray or 16-bit samples normalized to 8-bit RGBA, and lossy formats
// which mostly decode straight to opaque 8-bit RGBA.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/kelindar/sprite/internal/bitmap"
)

var (
	ErrSizeMismatch = errors.New("decoded image does not match destination size")
)

// Family identifies a class of compressed image formats.
type Family int

const (
	// Lossless formats (PNG, BMP, TIFF)
	Lossless Family = iota

	// Lossy formats (JPEG, WebP). WebP files may also hold a lossless VP8L
	// bitstream with alpha; those decode to NRGBA and are normalized like the
	// lossless family.
	Lossy
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Lossless:
		return "lossless"
	case Lossy:
		return "lossy"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Codec decodes one compressed image format into a frame.
type Codec interface {
	// Name returns the name of the format, such as "png".
	Name() string

	// Family returns the codec family of the format.
	Family() Family

	// Config reads the image header only, without decoding any pixels.
	Config(r io.Reader) (image.Config, error)

	// Decode decodes the stream and writes its scanlines into dst. Nothing is
	// written unless the whole stream decodes to an image of dst's size.
	Decode(r io.Reader, dst *bitmap.Frame) error
}

// format is a codec built from a pair of standard decode functions.
type format struct {
	name   string
	family Family
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

var (
	PNG  Codec = &format{"png", Lossless, png.DecodeConfig, png.Decode}
	BMP  Codec = &format{"bmp", Lossless, bmp.DecodeConfig, bmp.Decode}
	TIFF Codec = &format{"tiff", Lossless, tiff.DecodeConfig, tiff.Decode}
	JPEG Codec = &format{"jpeg", Lossy, jpeg.DecodeConfig, jpeg.Decode}
	WebP Codec = &format{"webp", Lossy, webp.DecodeConfig, webp.Decode}
)

// Name returns the name of the format.
func (f *format) Name() string { return f.name }

// Family returns the codec family.
func (f *format) Family() Family { return f.family }

// Config reads the image header.
func (f *format) Config(r io.Reader) (image.Config, error) {
	return f.config(r)
}

// Decode decodes the stream into dst.
func (f *format) Decode(r io.Reader, dst *bitmap.Frame) error {
	img, err := f.decode(r)
	if err != nil {
		return err
	}

	if got, want := img.Bounds().Size(), dst.Bounds().Size(); got != want {
		return fmt.Errorf("%w: %dx%d, expected %dx%d", ErrSizeMismatch, got.X, got.Y, want.X, want.Y)
	}

	switch f.family {
	case Lossy:
		writeLossy(dst, img)
	default:
		bitmap.Copy(dst, img)
	}
	return nil
}

// writeLossy writes an opaque lossy image. YCbCr and gray sources go through
// the draw fast paths straight into the frame's memory.
func writeLossy(dst *bitmap.Frame, img image.Image) {
	switch img.(type) {
	case *image.YCbCr, *image.Gray:
		draw.Draw(dst.RGBA(), dst.Bounds(), img, img.Bounds().Min, draw.Src)
	default:
		bitmap.Copy(dst, img)
	}
}

// registry maps a normalized extension to its codec.
var registry = map[string]Codec{
	".png":  PNG,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".jpe":  JPEG,
	".webp": WebP,
}

// Normalize lowercases an extension and makes sure it has a leading dot.
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// Lookup returns the codec registered for the extension.
func Lookup(ext string) (Codec, bool) {
	c, ok := registry[Normalize(ext)]
	return c, ok
}

// Extensions returns all supported extensions, sorted.
func Extensions() []string {
	return slices.Sorted(maps.Keys(registry))
}
