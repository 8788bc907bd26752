// Package source provides scoped, read-only access to the compressed bytes of
// an image file. The file is memory-mapped on first use and unmapped on Close.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/go-mmap/mmap"
)

// Common errors
var (
	ErrReaderClosed = errors.New("source is closed")
	ErrEmpty        = errors.New("source is empty")
)

// File provides access to the bytes of a single source file
type File struct {
	mu          sync.Mutex
	reader      *mmap.File
	path        string
	basePath    string
	initialized bool
	closed      bool
}

// Option is a function that configures a File instance
type Option func(*File)

// WithBasePath resolves relative paths against the given directory
func WithBasePath(dir string) Option {
	return func(f *File) {
		f.basePath = dir
	}
}

// New creates a new File for the given path. Nothing is opened until the
// first call to Reader.
func New(path string, options ...Option) *File {
	f := &File{path: path}
	for _, option := range options {
		option(f)
	}

	if f.basePath != "" && !filepath.IsAbs(path) {
		f.path = filepath.Join(f.basePath, path)
	}
	return f
}

// ensureInitialized maps the file if it hasn't been already
func (f *File) ensureInitialized() error {
	switch {
	case f.closed:
		return ErrReaderClosed
	case f.initialized:
		return nil
	}

	info, err := os.Stat(f.path)
	switch {
	case err != nil:
		return fmt.Errorf("failed to access '%s': %w", f.path, err)
	case info.IsDir():
		return fmt.Errorf("provided path '%s' is a directory", f.path)
	case info.Size() == 0:
		return fmt.Errorf("%w: '%s'", ErrEmpty, f.path)
	}

	reader, err := mmap.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to map '%s': %w", f.path, err)
	}

	f.reader = reader
	f.initialized = true
	return nil
}

// Reader returns a new reader positioned at the start of the file. Every
// reader is independent, so the header can be read again before decoding.
func (f *File) Reader() (io.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureInitialized(); err != nil {
		return nil, err
	}

	return io.NewSectionReader(f.reader, 0, int64(f.reader.Len())), nil
}

// Close unmaps the file. Readers obtained earlier must not be used after.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	if f.reader == nil {
		return nil
	}

	err := f.reader.Close()
	f.reader = nil
	return err
}
