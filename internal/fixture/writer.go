// Package fixture writes lookup files in the shape used by tests,
// benchmarks and the gen command.
package fixture

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultNeedle is the entry appended after the generated keys.
const DefaultNeedle = "needle"

// WriteLines writes lines to a plain text file, one per line. When
// trailingNewline is false the final line is left unterminated.
func WriteLines(lines []string, outputPath string, trailingNewline bool) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 && trailingNewline {
		content += "\n"
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}

	return nil
}

// WriteLookupFile writes key0 through key{n-1} followed by needle, every
// line newline-terminated.
func WriteLookupFile(outputPath string, n int, needle string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create lookup file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close lookup file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for i := range n {
		if _, err := fmt.Fprintf(w, "key%d\n", i); err != nil {
			return fmt.Errorf("failed to write lookup file: %w", err)
		}
	}
	if _, err := w.WriteString(needle + "\n"); err != nil {
		return fmt.Errorf("failed to write lookup file: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush lookup file: %w", err)
	}
	return nil
}
