package strategy

import (
	"bytes"
	"context"
	"unicode/utf8"

	"line-lookup/internal/linecache"
	"line-lookup/internal/mmap"
	"line-lookup/internal/sanitize"
)

// NewMmap returns a strategy that maps the file read-only for the duration
// of one query and walks the mapped lines, comparing each trimmed line with
// the key. Lines split the same way as the line cache, so a fresh-read
// lookup agrees with a cached one on the same file.
func NewMmap(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Mmap, path, func(_ context.Context, key string) (bool, error) {
		m, err := mmap.Open(path)
		if err != nil {
			return false, err
		}
		defer m.Close()

		_ = m.Advise(mmap.AccessSequential)
		return containsLine(m.Bytes(), []byte(key)), nil
	}, o)
}

// containsLine reports whether some line of data, with undecodable bytes
// dropped and surrounding whitespace trimmed, equals key. Lines end at LF,
// CRLF or a lone CR; a final line needs no terminator.
func containsLine(data, key []byte) bool {
	for len(data) > 0 {
		advance, line, _ := linecache.ScanLines(data, true)
		data = data[advance:]

		if utf8.Valid(line) {
			if bytes.Equal(bytes.TrimSpace(line), key) {
				return true
			}
			continue
		}
		if sanitize.Line(string(line)) == string(key) {
			return true
		}
	}
	return false
}
