package strategy

import (
	"bytes"
	"context"
	"fmt"
)

// awkProgram compares each record with a key taken from ARGV[1]. Passing
// the key as an argument keeps quotes and backslashes literal, and the
// empty-string concatenation forces a string rather than numeric
// comparison. ARGV[1] is cleared so awk does not open it as an input file.
const awkProgram = `BEGIN { key = ARGV[1] ""; ARGV[1] = "" } $0 "" == key`

// NewGrep returns a strategy that runs a fixed-string, whole-line, quiet
// grep over the file. Exit status 0 is a match, 1 is no match, anything
// else is a soft failure.
func NewGrep(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Grep, path, grepFinder(o, path, false), o)
}

// NewGrepFirst is NewGrep with grep told to stop after the first match.
func NewGrepFirst(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(GrepFirst, path, grepFinder(o, path, true), o)
}

func grepArgs(grep, path, key string, first bool) []string {
	argv := []string{grep, "-F", "-x", "-q"}
	if first {
		argv = append(argv, "-m", "1")
	}
	// -e keeps keys that start with "-" from being read as options.
	return append(argv, "-e", key, path)
}

func grepFinder(o options, path string, first bool) finder {
	return func(ctx context.Context, key string) (bool, error) {
		res, err := o.runner.Run(ctx, grepArgs(o.grep, path, key, first))
		if err != nil {
			return false, err
		}
		switch res.ExitCode {
		case 0:
			return true, nil
		case 1:
			return false, nil
		default:
			return false, fmt.Errorf("grep exited with status %d", res.ExitCode)
		}
	}
}

func awkArgs(awk, path, key string) []string {
	return []string{awk, awkProgram, key, path}
}

// NewAwk returns a strategy that prints every line equal to the key with
// awk; any non-blank output is a match.
func NewAwk(path string, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Awk, path, func(ctx context.Context, key string) (bool, error) {
		res, err := o.runner.Run(ctx, awkArgs(o.awk, path, key))
		if err != nil {
			return false, err
		}
		if len(bytes.TrimSpace(res.Stdout)) > 0 {
			return true, nil
		}
		if res.ExitCode != 0 {
			return false, fmt.Errorf("awk exited with status %d", res.ExitCode)
		}
		return false, nil
	}, o)
}
