package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"line-lookup/internal/fixture"
)

// Files written concurrently.
const workerPoolSize = 4

var (
	outputFile string
	sizes      []int
	needle     string
)

var rootCmd = &cobra.Command{
	Use:   "lookup-gen",
	Short: "Write benchmark lookup files",
	Long: `Writes one lookup file per size. Each file holds keys key0..key{n-1},
one per line, followed by the needle as the last line.

With several sizes the output path is used as a prefix: --output codes
--sizes 1000,5000 writes codes_1000.txt and codes_5000.txt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "valid_codes.txt", "Output file path, or prefix when several sizes are given")
	rootCmd.Flags().IntSliceVarP(&sizes, "sizes", "n", []int{10000}, "Number of keys per file")
	rootCmd.Flags().StringVar(&needle, "needle", fixture.DefaultNeedle, "Line appended after the generated keys")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	for _, n := range sizes {
		if n < 0 {
			return fmt.Errorf("invalid size %d: must not be negative", n)
		}
	}

	fmt.Printf("Lookup File Generator\n")
	fmt.Printf("=====================\n\n")

	programStart := time.Now()
	progress := func(msg string) {
		fmt.Printf("[%s] %s\n", formatElapsed(time.Since(programStart)), msg)
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(workerPoolSize)
	for _, n := range sizes {
		path := outputPath(outputFile, n, len(sizes) > 1)
		eg.Go(func() error {
			if err := fixture.WriteLookupFile(path, n, needle); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			mu.Lock()
			progress(fmt.Sprintf("Wrote %d keys to %s", n, path))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	fmt.Printf("\n✓ Success!\n")
	fmt.Printf("  Files written: %d\n", len(sizes))
	fmt.Printf("  Processing time: %s\n", time.Since(programStart).Round(time.Millisecond))
	fmt.Println()
	return nil
}

// outputPath returns the file for size n. Multi-size runs treat base as a
// prefix.
func outputPath(base string, n int, multi bool) string {
	if !multi {
		return base
	}
	return fmt.Sprintf("%s_%d.txt", base, n)
}

// formatElapsed formats a duration into a human-readable elapsed time string
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
