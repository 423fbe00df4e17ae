// Package linecache loads a lookup file once into an exact-match set.
package linecache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"line-lookup/internal/sanitize"
)

// Scanner buffer sizes for reading lookup files.
const (
	scannerInitialBuffer = 64 * 1024        // 64 KB
	DefaultMaxLineSize   = 16 * 1024 * 1024 // 16 MB
)

var (
	// ErrFileMissing is returned when the lookup file does not exist.
	ErrFileMissing = errors.New("lookup file not found")
	// ErrReadFailure is returned for any other I/O error while loading.
	ErrReadFailure = errors.New("lookup file read failed")
)

// Cache is a read-only set of trimmed lines. It is safe for concurrent use
// once built.
type Cache struct {
	entries map[string]struct{}
}

// Option configures Build.
type Option func(*options)

type options struct {
	maxLineSize int
	tee         io.Writer
}

// WithMaxLineSize caps the length of a single line. Longer lines fail the
// build with ErrReadFailure.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithTee copies every byte Build reads from the file to w, so a digest of
// exactly the loaded content can be taken in the same pass.
func WithTee(w io.Writer) Option {
	return func(o *options) {
		o.tee = w
	}
}

// Build reads every line of the file at path into a new Cache. Each line
// has its terminator (LF, CRLF or lone CR) removed by ScanLines,
// undecodable bytes dropped, and surrounding whitespace trimmed before
// insertion.
func Build(path string, opts ...Option) (*Cache, error) {
	o := options{maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("%w: failed to open file %s: %w", ErrReadFailure, path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if o.tee != nil {
		r = io.TeeReader(f, o.tee)
	}

	entries := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(scannerInitialBuffer, o.maxLineSize)), o.maxLineSize)
	scanner.Split(ScanLines)

	for scanner.Scan() {
		entries[sanitize.Line(scanner.Text())] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading file %s: %w", ErrReadFailure, path, err)
	}

	return &Cache{entries: entries}, nil
}

// FromLines builds a Cache from lines already held in memory, applying the
// same normalization as Build.
func FromLines(lines []string) *Cache {
	entries := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		entries[sanitize.Line(line)] = struct{}{}
	}
	return &Cache{entries: entries}
}

// Contains reports whether key was present in the file when the cache was
// built.
func (c *Cache) Contains(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of distinct entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
