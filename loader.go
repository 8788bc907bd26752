// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package sprite

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kelindar/sprite/internal/codec"
	"github.com/kelindar/sprite/internal/source"
)

// DefaultMemoryLimit is the largest pixel block a Loader allocates by default.
const DefaultMemoryLimit = 4 << 30

// Source describes a compressed image file to load into one frame.
type Source struct {
	Path      string    // Location of the compressed bytes
	Extension string    // File extension, selects the codec
	Blend     BlendMode // How the pixels are meant to be composited
}

// NewSource creates a source for the path, taking the extension from the
// file name.
func NewSource(path string, blend BlendMode) Source {
	return Source{
		Path:      path,
		Extension: filepath.Ext(path),
		Blend:     blend,
	}
}

// Loader decodes compressed image files into the frames of a Buffer.
type Loader struct {
	logger   *slog.Logger
	basePath string
	limit    int64
}

// Option is a function that configures a Loader instance
type Option func(*Loader)

// WithLogger sets the sink for diagnostics. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBasePath resolves relative source paths against the given directory.
func WithBasePath(dir string) Option {
	return func(l *Loader) {
		l.basePath = dir
	}
}

// WithMemoryLimit sets the largest pixel block, in bytes, the loader will
// allocate for a buffer. Larger images fail with ErrOutOfMemory.
func WithMemoryLimit(bytes int64) Option {
	return func(l *Loader) {
		l.limit = bytes
	}
}

// NewLoader creates a new loader with the given options.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		logger: newNopLogger(),
		limit:  DefaultMemoryLimit,
	}

	for _, option := range options {
		option(l)
	}
	return l
}

// Load decodes the source into one frame of the buffer. The first frame loaded
// into an empty buffer allocates it at the image's size; every later frame
// must have exactly that size.
//
// A failed load leaves the other frames untouched. If the returned error is
// fatal (see IsFatal) the buffer could not be allocated and must not be used
// for further frames.
func (l *Loader) Load(buf *Buffer, src Source, frame int) error {
	c, ok := codec.Lookup(src.Extension)
	if !ok {
		return l.fail(fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.Extension), src)
	}

	if frame < 0 || frame >= buf.Frames() {
		return l.fail(fmt.Errorf("%w: frame %d of %d", ErrInvalidFrame, frame, buf.Frames()), src)
	}

	file := source.New(src.Path, source.WithBasePath(l.basePath))
	defer file.Close()

	// Read the header only, so the size is validated before any pixel is written
	r, err := file.Reader()
	if err != nil {
		return l.fail(fmt.Errorf("%w: %w", ErrDecode, err), src)
	}

	cfg, err := c.Config(r)
	if err != nil {
		return l.fail(fmt.Errorf("%w: %s: %w", ErrDecode, c.Name(), err), src)
	}

	if err := l.allocate(buf, src, cfg.Width, cfg.Height); err != nil {
		return err
	}

	if err := l.validate(buf, src, cfg.Width, cfg.Height); err != nil {
		return err
	}

	// Decode the scanlines into the frame
	if r, err = file.Reader(); err != nil {
		return l.fail(fmt.Errorf("%w: %w", ErrDecode, err), src)
	}

	if err := c.Decode(r, buf.frame(frame)); err != nil {
		return l.fail(fmt.Errorf("%w: %s: %w", ErrDecode, c.Name(), err), src)
	}

	buf.Premultiply(frame, src.Blend)
	return nil
}

// LoadAll builds a multi-frame asset from the sources, one frame per source in
// order. The buffer is cleared to len(sources) frames first. Loading is
// all-or-nothing: if any frame fails, the buffer is cleared to zero frames
// and the error of that frame is returned.
func (l *Loader) LoadAll(buf *Buffer, sources ...Source) error {
	buf.Clear(len(sources))
	for i, src := range sources {
		if err := l.Load(buf, src, i); err != nil {
			buf.Clear(0)
			return err
		}
	}
	return nil
}

// allocate sizes the buffer on the first frame. Failing to do so is fatal.
// Once the buffer holds pixels the size is left to validate.
func (l *Loader) allocate(buf *Buffer, src Source, width, height int) error {
	if buf.Pixels() != nil {
		return nil
	}

	if width > 0 && height > 0 && buf.Frames() > 0 {
		if size, ok := bufferSize(width, height, buf.Frames()); !ok || int64(size) > l.limit {
			err := fmt.Errorf("%w: %dx%d pixels in %d frames exceeds the limit of %d bytes",
				ErrOutOfMemory, width, height, buf.Frames(), l.limit)
			return l.fatal(err, src)
		}
	}

	if err := buf.Allocate(width, height); err != nil {
		return l.fatal(err, src)
	}
	return nil
}

// validate makes sure the frame has the same size as the buffer.
func (l *Loader) validate(buf *Buffer, src Source, width, height int) error {
	if width != 0 && height != 0 && width == buf.Width() && height == buf.Height() {
		return nil
	}

	message := fmt.Sprintf("skipped processing %q: all image frames must have equal", src.Path)
	if width != 0 && width != buf.Width() {
		l.logger.Error(fmt.Sprintf("%s width: expected %d but was %d", message, buf.Width(), width),
			"path", src.Path, "axis", "width", "expected", buf.Width(), "actual", width)
	}
	if height != 0 && height != buf.Height() {
		l.logger.Error(fmt.Sprintf("%s height: expected %d but was %d", message, buf.Height(), height),
			"path", src.Path, "axis", "height", "expected", buf.Height(), "actual", height)
	}

	return fmt.Errorf("%w: %q is %dx%d, expected %dx%d",
		ErrDimensionMismatch, src.Path, width, height, buf.Width(), buf.Height())
}

// fail logs a recoverable error and returns it.
func (l *Loader) fail(err error, src Source) error {
	l.logger.Error(fmt.Sprintf("skipped processing %q: %v", src.Path, err), "path", src.Path)
	return err
}

// fatal logs an allocation failure and returns it.
func (l *Loader) fatal(err error, src Source) error {
	l.logger.Error(fmt.Sprintf("failed to allocate contiguous memory for %q", src.Path),
		"path", src.Path, "error", err)
	return err
}
