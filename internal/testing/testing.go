// Package testing generates image fixtures for the tests of this module.
package testing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	gotesting "testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encode encodes the image in the format named by the extension of name.
func Encode(t gotesting.TB, name string, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg", ".jpe":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		err = bmp.Encode(&buf, img)
	case ".tif", ".tiff":
		err = tiff.Encode(&buf, img, nil)
	default:
		require.FailNow(t, "no encoder for fixture", name)
	}

	require.NoError(t, err, "failed to encode fixture %s", name)
	return buf.Bytes()
}

// Write encodes the image into a file called name inside dir and returns
// the path of that file.
func Write(t gotesting.TB, dir, name string, img image.Image) string {
	t.Helper()
	return WriteBytes(t, dir, name, Encode(t, name, img))
}

// WriteBytes writes raw bytes into a file called name inside dir.
func WriteBytes(t gotesting.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// Solid returns an image of the given size filled with a single color.
func Solid(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Pattern returns a deterministic image where every pixel differs from its
// neighbours. When opaque is set every alpha is 255.
func Pattern(width, height int, opaque bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{
				R: uint8(x * 7),
				G: uint8(y * 13),
				B: uint8(x*y + 3),
				A: uint8(x*31 + y*17),
			}
			if opaque {
				c.A = 0xff
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
