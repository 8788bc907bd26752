package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelindar/sprite/internal/bitmap"
	sprtest "github.com/kelindar/sprite/internal/testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		ext    string
		name   string
		family Family
	}{
		{".png", "png", Lossless},
		{"PNG", "png", Lossless},
		{".bmp", "bmp", Lossless},
		{".tif", "tiff", Lossless},
		{".TIFF", "tiff", Lossless},
		{".jpg", "jpeg", Lossy},
		{"jpeg", "jpeg", Lossy},
		{".JPE", "jpeg", Lossy},
		{".webp", "webp", Lossy},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			c, ok := Lookup(tt.ext)
			require.True(t, ok)
			assert.Equal(t, tt.name, c.Name())
			assert.Equal(t, tt.family, c.Family())
		})
	}

	for _, ext := range []string{"", ".gif", ".png.bak", "txt"} {
		_, ok := Lookup(ext)
		assert.False(t, ok, ext)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ".png", Normalize("png"))
	assert.Equal(t, ".png", Normalize(" .PNG "))
	assert.Equal(t, "", Normalize(""))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".bmp", ".jpe", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}, Extensions())
}

func TestFamily_String(t *testing.T) {
	assert.Equal(t, "lossless", Lossless.String())
	assert.Equal(t, "lossy", Lossy.String())
	assert.Equal(t, "family(7)", Family(7).String())
}

func TestDecode_Lossless(t *testing.T) {
	for _, name := range []string{"a.png", "a.bmp", "a.tiff"} {
		t.Run(name, func(t *testing.T) {
			src := sprtest.Pattern(7, 5, true)
			data := sprtest.Encode(t, name, src)

			c, ok := Lookup(name[1:])
			require.True(t, ok)

			cfg, err := c.Config(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 7, cfg.Width)
			assert.Equal(t, 5, cfg.Height)

			dst := bitmap.NewFrame(make([]byte, 4*7*5), 7, 5)
			require.NoError(t, c.Decode(bytes.NewReader(data), dst))
			assert.Equal(t, src.Pix, dst.Pix)
		})
	}
}

func TestDecode_PNGAlpha(t *testing.T) {
	src := sprtest.Pattern(9, 4, false)
	data := sprtest.Encode(t, "a.png", src)

	dst := bitmap.NewFrame(make([]byte, 4*9*4), 9, 4)
	require.NoError(t, PNG.Decode(bytes.NewReader(data), dst))
	assert.Equal(t, src.Pix, dst.Pix)
}

func TestDecode_PNGPalette(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.NRGBA{R: 255, A: 0x80},
		color.NRGBA{G: 255, A: 0xff},
	})
	src.SetColorIndex(1, 1, 1)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	dst := bitmap.NewFrame(make([]byte, 16), 2, 2)
	require.NoError(t, PNG.Decode(bytes.NewReader(buf.Bytes()), dst))
	assert.Equal(t, bitmap.NewColor(255, 0, 0, 0x80), dst.ColorAt(0, 0))
	assert.Equal(t, bitmap.NewColor(0, 255, 0, 0xff), dst.ColorAt(1, 1))
}

func TestDecode_PNGGray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 1, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 0x8000})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	dst := bitmap.NewFrame(make([]byte, 4), 1, 1)
	require.NoError(t, PNG.Decode(bytes.NewReader(buf.Bytes()), dst))
	assert.Equal(t, bitmap.NewColor(128, 128, 128, 255), dst.ColorAt(0, 0))
}

func TestDecode_JPEG(t *testing.T) {
	src := sprtest.Solid(16, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	data := sprtest.Encode(t, "a.jpg", src)

	cfg, err := JPEG.Config(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)

	dst := bitmap.NewFrame(make([]byte, 4*16*8), 16, 8)
	require.NoError(t, JPEG.Decode(bytes.NewReader(data), dst))
	for i := 3; i < len(dst.Pix); i += 4 {
		require.Equal(t, uint8(0xff), dst.Pix[i])
	}

	c := dst.ColorAt(3, 5)
	assert.InDelta(t, 200, int(c.R()), 4)
	assert.InDelta(t, 100, int(c.G()), 4)
	assert.InDelta(t, 50, int(c.B()), 4)
}

func TestDecode_SizeMismatch(t *testing.T) {
	data := sprtest.Encode(t, "a.png", sprtest.Pattern(4, 4, false))

	pix := make([]byte, 4*2*2)
	dst := bitmap.NewFrame(pix, 2, 2)
	err := PNG.Decode(bytes.NewReader(data), dst)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Equal(t, make([]byte, 16), pix, "nothing is written")
}

func TestDecode_Corrupt(t *testing.T) {
	garbage := []byte("definitely not an image")
	for _, c := range []Codec{PNG, BMP, TIFF, JPEG, WebP} {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.Config(bytes.NewReader(garbage))
			assert.Error(t, err)

			pix := make([]byte, 4)
			assert.Error(t, c.Decode(bytes.NewReader(garbage), bitmap.NewFrame(pix, 1, 1)))
			assert.Equal(t, make([]byte, 4), pix)
		})
	}
}

func TestWriteLossy_Alpha(t *testing.T) {
	// Lossless WebP decodes to NRGBA with real alpha
	src := sprtest.Pattern(3, 2, false)
	dst := bitmap.NewFrame(make([]byte, 4*3*2), 3, 2)
	writeLossy(dst, src)
	assert.Equal(t, src.Pix, dst.Pix)
}
