package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"line-lookup/internal/lookup"
	"line-lookup/internal/strategy"
)

var (
	queryStrategy string
	queryReread   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [key]",
	Short: "Report whether a key is a line of the lookup file",
	Long: `Queries the lookup file with the facade, or with a single strategy when
--strategy is given. A key of "-" reads the raw query from stdin.

Prints "match" or "no match". Errors are reported on stderr and count as
no match.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readKey(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		found, err := runQuery(cmd.Context(), raw)
		if err != nil {
			return err
		}
		printMatch(cmd.OutOrStdout(), found)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryStrategy, "strategy", "s", "", "Strategy to use instead of the facade")
	queryCmd.Flags().BoolVar(&queryReread, "reread", false, "Re-read the file on every query (facade only)")
}

func readKey(arg string, stdin io.Reader) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read query from stdin: %w", err)
	}
	return raw, nil
}

func runQuery(ctx context.Context, raw []byte) (bool, error) {
	if queryStrategy == "" {
		l, err := lookup.New(cfg.Lookup.File, queryReread || cfg.Lookup.RereadOnQuery,
			lookup.WithLogger(logger),
			lookup.WithMaxLineSize(cfg.Lookup.MaxLineSize),
		)
		if err != nil {
			return false, err
		}
		return l.FindMatch(ctx, raw), nil
	}

	opts := append(cfg.StrategyOptions(), strategy.WithLogger(logger))
	m, err := strategy.New(ctx, queryStrategy, cfg.Lookup.File, opts...)
	if err != nil {
		return false, err
	}
	defer m.Close()

	found, err := m.Lookup(ctx, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", m.Name(), err)
		return false, nil
	}
	return found, nil
}

func printMatch(w io.Writer, found bool) {
	if found {
		fmt.Fprintln(w, "match")
		return
	}
	fmt.Fprintln(w, "no match")
}
