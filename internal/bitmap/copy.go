package bitmap

import (
	"image"
	"image/color"
)

// Copy writes src into dst row by row, normalizing every source layout to
// straight 8-bit RGBA. Palettes and transparency chunks are expanded, gray is
// replicated into the color channels, 16-bit samples are scaled down with
// rounding and sources without alpha become fully opaque. Both images must
// have the same size; src may have a non-zero origin.
func Copy(dst *Frame, src image.Image) {
	b := src.Bounds()
	w, h := min(b.Dx(), dst.Rect.Dx()), min(b.Dy(), dst.Rect.Dy())

	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Row(dst.Rect.Min.Y+y), s.Pix[i:i+4*w])
		}

	case *image.RGBA:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			row, in := dst.Row(dst.Rect.Min.Y+y), s.Pix[i:i+4*w]
			for x := 0; x < 4*w; x += 4 {
				if in[x+3] == 0xff {
					copy(row[x:x+4], in[x:x+4])
					continue
				}

				n := color.NRGBAModel.Convert(color.RGBA{R: in[x], G: in[x+1], B: in[x+2], A: in[x+3]}).(color.NRGBA)
				row[x], row[x+1], row[x+2], row[x+3] = n.R, n.G, n.B, n.A
			}
		}

	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			row, in := dst.Row(dst.Rect.Min.Y+y), s.Pix[i:i+8*w]
			for x := 0; x < w; x++ {
				for c := 0; c < 4; c++ {
					row[4*x+c] = scale16(uint32(in[8*x+2*c])<<8 | uint32(in[8*x+2*c+1]))
				}
			}
		}

	case *image.Gray:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			row, in := dst.Row(dst.Rect.Min.Y+y), s.Pix[i:i+w]
			for x, v := range in {
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = v, v, v, 0xff
			}
		}

	case *image.Gray16:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			row, in := dst.Row(dst.Rect.Min.Y+y), s.Pix[i:i+2*w]
			for x := 0; x < w; x++ {
				v := scale16(uint32(in[2*x])<<8 | uint32(in[2*x+1]))
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = v, v, v, 0xff
			}
		}

	case *image.Paletted:
		palette := make([]Color, 256)
		for i, c := range s.Palette {
			palette[i] = Model.Convert(c).(Color)
		}

		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			for x, idx := range s.Pix[i : i+w] {
				dst.SetColor(dst.Rect.Min.X+x, dst.Rect.Min.Y+y, palette[idx])
			}
		}

	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.SetColor(dst.Rect.Min.X+x, dst.Rect.Min.Y+y, to8(src.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	}
}

// to8 converts an arbitrary color to a straight 8-bit word, scaling 16-bit
// channels with the same rounding as the typed fast paths.
func to8(c color.Color) Color {
	switch v := c.(type) {
	case Color:
		return v
	case color.NRGBA:
		return NewColor(v.R, v.G, v.B, v.A)
	}

	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return NewColor(scale16(uint32(n.R)), scale16(uint32(n.G)), scale16(uint32(n.B)), scale16(uint32(n.A)))
}

// scale16 reduces a 16-bit sample to 8 bits, rounding to nearest.
func scale16(v uint32) uint8 {
	return uint8((v*255 + 32895) >> 16)
}
