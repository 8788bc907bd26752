package bitmap

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Color represents a straight (non-premultiplied) 32-bit RGBA word.
// Red occupies the lowest byte and alpha the highest, so the word stored in
// little-endian order is laid out in memory as R, G, B, A.
type Color uint32

// NewColor packs the four 8-bit channels into a Color.
func NewColor(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// RGBA implements the color.Color interface. The returned channels are
// alpha-premultiplied 16-bit values, as the interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

// Model is the color model for straight RGBA words.
var Model color.Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	switch v := c.(type) {
	case Color:
		return v
	case color.NRGBA:
		return NewColor(v.R, v.G, v.B, v.A)
	}

	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewColor(n.R, n.G, n.B, n.A)
}

// Frame is an in-memory image over a block of RGBA words. A frame never owns
// its pixels: it is a view over one frame of a larger multi-frame buffer.
type Frame struct {
	Pix    []byte          // Pix holds the pixels as R, G, B, A bytes.
	Stride int             // Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Rect   image.Rectangle // Rect is the image's bounds.
}

// NewFrame returns a frame of the given size over the provided pixels. The
// slice must hold at least 4*width*height bytes.
func NewFrame(pix []byte, width, height int) *Frame {
	return &Frame{
		Pix:    pix[:4*width*height],
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// ColorModel implements the Image interface.
func (p *Frame) ColorModel() color.Model {
	return Model
}

// Bounds implements the Image interface.
func (p *Frame) Bounds() image.Rectangle {
	return p.Rect
}

// At implements the Image interface.
func (p *Frame) At(x, y int) color.Color {
	return p.ColorAt(x, y)
}

// ColorAt returns the word at (x, y), or transparent black when out of bounds.
func (p *Frame) ColorAt(x, y int) Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}

	i := p.PixOffset(x, y)
	return Color(binary.LittleEndian.Uint32(p.Pix[i : i+4]))
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *Frame) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// Set sets the color of the pixel at (x, y).
func (p *Frame) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}

	p.SetColor(x, y, Model.Convert(c).(Color))
}

// SetColor sets the word at (x, y) without going through the color model.
func (p *Frame) SetColor(x, y int, c Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}

	i := p.PixOffset(x, y)
	binary.LittleEndian.PutUint32(p.Pix[i:i+4], uint32(c))
}

// Row returns the pixels of row y, clipped to the frame's width.
func (p *Frame) Row(y int) []byte {
	i := p.PixOffset(p.Rect.Min.X, y)
	n := 4 * p.Rect.Dx()
	return p.Pix[i : i+n : i+n]
}

// RGBA returns a premultiplied view of the frame sharing its pixels. Writing
// through it is only lossless for fully opaque content, where premultiplied
// and straight bytes are identical.
func (p *Frame) RGBA() *image.RGBA {
	return &image.RGBA{Pix: p.Pix, Stride: p.Stride, Rect: p.Rect}
}
