package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"line-lookup/internal/strategy"
)

var compareRuns int

var compareCmd = &cobra.Command{
	Use:   "compare [key]",
	Short: "Run every enabled strategy on one key and tabulate the results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := compare(cmd.Context(), cfg.EnabledStrategies(), cfg.Lookup.File, []byte(args[0]), compareRuns,
			append(cfg.StrategyOptions(), strategy.WithLogger(logger))...)
		if err != nil {
			return err
		}
		return printComparison(cmd.OutOrStdout(), results)
	},
}

func init() {
	compareCmd.Flags().IntVar(&compareRuns, "runs", 1, "Queries per strategy; the mean duration is reported")
}

type comparison struct {
	Strategy string
	Found    bool
	Err      error
	Mean     time.Duration
}

// compare builds and queries each named strategy concurrently. Results are
// returned in the order of names. Construction failures are reported per
// strategy rather than aborting the run.
func compare(ctx context.Context, names []string, path string, raw []byte, runs int, opts ...strategy.Option) ([]comparison, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	results := make([]comparison, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			results[i] = compareOne(gctx, name, path, raw, runs, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compareOne(ctx context.Context, name, path string, raw []byte, runs int, opts []strategy.Option) comparison {
	c := comparison{Strategy: name}

	m, err := strategy.New(ctx, name, path, opts...)
	if err != nil {
		c.Err = err
		return c
	}
	defer m.Close()

	start := time.Now()
	for range runs {
		c.Found, c.Err = m.Lookup(ctx, raw)
		if c.Err != nil {
			break
		}
	}
	c.Mean = time.Since(start) / time.Duration(runs)
	if logger != nil {
		logger.Debug("strategy compared",
			zap.String("strategy", name),
			zap.Bool("found", c.Found),
			zap.Duration("mean", c.Mean),
		)
	}
	return c
}

func printComparison(w io.Writer, results []comparison) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tRESULT\tMEAN")
	for _, r := range results {
		result := "no match"
		switch {
		case r.Err != nil:
			result = "error: " + r.Err.Error()
		case r.Found:
			result = "match"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Strategy, result, r.Mean)
	}
	return tw.Flush()
}
