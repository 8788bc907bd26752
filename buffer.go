// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package sprite

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"math/bits"

	"github.com/kelindar/sprite/internal/bitmap"
)

// Buffer owns a single contiguous block of pixels holding a number of frames
// of identical width and height. Each pixel is a 32-bit word stored as the
// bytes R, G, B, A; rows are stored top to bottom and frames are concatenated.
//
// A buffer is not safe for concurrent use. Frames may be loaded in parallel
// only once the block is allocated and each goroutine writes its own frame.
type Buffer struct {
	width  int    // Width of every frame, 0 until allocated
	height int    // Height of every frame, 0 until allocated
	frames int    // Number of frames in the block
	pixels []byte // Pixel block, nil until allocated
}

// NewBuffer creates an empty buffer for the given number of frames. A frame
// count of zero means the count is not known yet and must be set with Clear.
func NewBuffer(frames int) *Buffer {
	return &Buffer{frames: max(frames, 0)}
}

// Clear releases the pixel block, resets the size and sets a new frame count
// so the buffer can be reused for another image.
func (b *Buffer) Clear(frames int) {
	b.pixels = nil
	b.width = 0
	b.height = 0
	b.frames = max(frames, 0)
}

// Allocate allocates the pixel block for width*height pixels per frame. It only
// allocates once: the call is ignored if the block is already held or if any
// of width, height or the frame count is zero. Callers that need to know
// whether the block was actually sized check Width and Height afterwards.
func (b *Buffer) Allocate(width, height int) error {
	if b.pixels != nil || width <= 0 || height <= 0 || b.frames <= 0 {
		return nil
	}

	size, ok := bufferSize(width, height, b.frames)
	if !ok {
		return fmt.Errorf("%w: %dx%d pixels in %d frames", ErrOutOfMemory, width, height, b.frames)
	}

	pixels, err := allocate(size)
	if err != nil {
		return err
	}

	b.pixels = pixels
	b.width = width
	b.height = height
	return nil
}

// Width returns the width of every frame, or 0 if not allocated.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of every frame, or 0 if not allocated.
func (b *Buffer) Height() int {
	return b.height
}

// Frames returns the number of frames.
func (b *Buffer) Frames() int {
	return b.frames
}

// Pixels returns the whole pixel block of all frames, ready for upload.
func (b *Buffer) Pixels() []byte {
	return b.pixels
}

// Row returns the pixels of row y in the given frame, 4*Width() bytes long.
//
// The row and frame are not validated: the caller must ensure that
// 0 <= y < Height() and 0 <= frame < Frames(). Building with the spritedebug
// tag turns violations into panics.
func (b *Buffer) Row(y, frame int) []byte {
	if boundsCheck {
		b.checkRow(y, frame)
	}

	stride := 4 * b.width
	start := stride * (y + b.height*frame)
	return b.pixels[start : start+stride : start+stride]
}

// At returns the pixel at (x, y) of a frame as an RGBA word, with red in the
// lowest byte and alpha in the highest.
func (b *Buffer) At(x, y, frame int) uint32 {
	row := b.Row(y, frame)
	return binary.LittleEndian.Uint32(row[4*x:])
}

// Frame returns an image view of a frame. The view shares the buffer's pixels
// and is invalidated by Clear and ShrinkToHalfSize.
func (b *Buffer) Frame(frame int) image.Image {
	return b.frame(frame)
}

// frame returns a writable view of a frame.
func (b *Buffer) frame(frame int) *bitmap.Frame {
	size := 4 * b.width * b.height
	return bitmap.NewFrame(b.pixels[size*frame:size*(frame+1)], b.width, b.height)
}

// ShrinkToHalfSize replaces the contents of the buffer with a copy at half the
// width and height (rounded down). Every destination pixel is the rounded
// average of the corresponding 2x2 block of source pixels, per channel.
func (b *Buffer) ShrinkToHalfSize() error {
	result := NewBuffer(b.frames)
	if err := result.Allocate(b.width/2, b.height/2); err != nil {
		return err
	}

	stride := 4 * b.width
	out := result.pixels
	for frame := 0; frame < b.frames && result.pixels != nil; frame++ {
		for y := 0; y < result.height; y++ {
			top := b.pixels[stride*(b.height*frame+2*y):]
			bottom := b.pixels[stride*(b.height*frame+2*y+1):]
			for x := 0; x < 8*result.width; x += 8 {
				for c := x; c < x+4; c++ {
					out[0] = uint8((uint32(top[c]) + uint32(bottom[c]) +
						uint32(top[c+4]) + uint32(bottom[c+4]) + 2) / 4)
					out = out[1:]
				}
			}
		}
	}

	b.width = result.width
	b.height = result.height
	b.pixels = result.pixels
	return nil
}

// checkRow panics if the row or frame is outside of the buffer.
func (b *Buffer) checkRow(y, frame int) {
	if b.pixels == nil || y < 0 || y >= b.height || frame < 0 || frame >= b.frames {
		panic(fmt.Sprintf("sprite: row %d of frame %d is outside of a %dx%d buffer with %d frames",
			y, frame, b.width, b.height, b.frames))
	}
}

// bufferSize returns the size in bytes of the pixel block, or false if it
// does not fit in an int.
func bufferSize(width, height, frames int) (int, bool) {
	hi, pixels := bits.Mul64(uint64(width), uint64(height))
	if hi != 0 {
		return 0, false
	}

	hi, pixels = bits.Mul64(pixels, uint64(frames))
	if hi != 0 || pixels > math.MaxInt/4 {
		return 0, false
	}

	return int(pixels) * 4, true
}

// allocate makes the pixel block, turning a refused allocation into an error.
func allocate(size int) (pixels []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %d bytes: %v", ErrOutOfMemory, size, r)
		}
	}()

	return make([]byte, size), nil
}
