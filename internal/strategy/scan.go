package strategy

import (
	"bufio"
	"context"
	"os"
	"slices"
	"strings"

	"line-lookup/internal/linecache"
	"line-lookup/internal/sanitize"
)

// ctxCheckInterval is how many lines the linear scan reads between
// cancellation checks.
const ctxCheckInterval = 4096

// NewLinear returns a strategy that streams the file line by line, trims
// each line and stops at the first equal one.
func NewLinear(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Linear, path, func(ctx context.Context, key string) (bool, error) {
		f, err := os.Open(path)
		if err != nil {
			return false, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, min(64*1024, o.maxLineSize)), o.maxLineSize)
		scanner.Split(linecache.ScanLines)

		n := 0
		for scanner.Scan() {
			if sanitize.Line(scanner.Text()) == key {
				return true, nil
			}
			n++
			if n%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return false, err
				}
			}
		}
		return false, scanner.Err()
	}, o)
}

// NewBulk returns a strategy that reads the whole file into a slice of
// lines, each keeping its newline, and tests membership of key+"\n".
//
// A key on the final line is only found when that line ends with a
// newline. Linear and mmap find it either way.
func NewBulk(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Bulk, path, func(_ context.Context, key string) (bool, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return false, err
		}
		return slices.Contains(readLines(data), key+"\n"), nil
	}, o)
}

// readLines splits data into lines that retain their terminator. CRLF and
// lone CR terminators are translated to LF; undecodable bytes are dropped.
func readLines(data []byte) []string {
	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
