// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package sprite

import "fmt"

// BlendMode describes how the pixels of a source are meant to be composited.
type BlendMode int

const (
	// Alpha is standard straight alpha, premultiplied when loaded.
	Alpha BlendMode = iota

	// PremultipliedAlpha marks sources whose colors were already scaled by
	// alpha offline. Their pixels are left untouched.
	PremultipliedAlpha

	// Additive sources are premultiplied and then lose their alpha, so they
	// only ever add color.
	Additive

	// HalfAdditive sources are premultiplied and keep a quarter of their alpha.
	HalfAdditive
)

// String returns the name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case Alpha:
		return "alpha"
	case PremultipliedAlpha:
		return "premultiplied"
	case Additive:
		return "additive"
	case HalfAdditive:
		return "half-additive"
	default:
		return fmt.Sprintf("blend(%d)", int(m))
	}
}

// Premultiply scales the color channels of every pixel in the frame by its
// alpha, in place. The alpha byte is then kept (Alpha), quartered
// (HalfAdditive) or cleared (Additive). PremultipliedAlpha frames are left
// as they are.
func (b *Buffer) Premultiply(frame int, mode BlendMode) {
	if mode == PremultipliedAlpha {
		return
	}

	for y := 0; y < b.height; y++ {
		premultiply(b.Row(y, frame), mode)
	}
}

// premultiply applies the premultiplication to a single row of pixels.
func premultiply(row []byte, mode BlendMode) {
	for i := 0; i+3 < len(row); i += 4 {
		alpha := uint32(row[i+3])
		row[i+0] = uint8(uint32(row[i+0]) * alpha / 255)
		row[i+1] = uint8(uint32(row[i+1]) * alpha / 255)
		row[i+2] = uint8(uint32(row[i+2]) * alpha / 255)

		switch mode {
		case HalfAdditive:
			row[i+3] = uint8(alpha >> 2)
		case Additive:
			row[i+3] = 0
		}
	}
}
