// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package sprite loads sprite and texture frames from compressed image files
// into a single contiguous block of straight 8-bit RGBA pixels, ready to be
// uploaded to a rendering pipeline. All frames of a Buffer share the same
// width and height; the first frame decoded into a buffer decides its shape.
package sprite

import (
	"errors"

	"github.com/kelindar/sprite/internal/codec"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("unable to decode image")
	ErrDimensionMismatch = errors.New("all image frames must have equal dimensions")
	ErrInvalidFrame      = errors.New("invalid frame index")

	// ErrOutOfMemory is returned when the pixel block of a buffer could not be
	// allocated. Unlike the other errors it is fatal for the whole asset: the
	// buffer must not be used for further frame loads.
	ErrOutOfMemory = errors.New("failed to allocate contiguous memory")
)

// IsFatal reports whether the error leaves the buffer in a state where the
// remaining frames of an asset can no longer be loaded.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory)
}

// Extensions returns the sorted list of file extensions that can be loaded.
func Extensions() []string {
	return codec.Extensions()
}

// IsSupported reports whether a file extension maps to a known codec.
func IsSupported(ext string) bool {
	_, ok := codec.Lookup(ext)
	return ok
}
