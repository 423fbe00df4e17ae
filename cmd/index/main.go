package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"line-lookup/internal/config"
	"line-lookup/internal/logging"
	"line-lookup/internal/sqlindex"
)

var (
	configPath string
	inputFile  string
	indexPath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lookup-index",
	Short: "Build a SQLite line index from a lookup file",
	Long: `Loads every sanitized line of the lookup file into a SQLite table so the
sqlite strategy can answer from a prebuilt index. An existing index is
replaced.

The index path defaults to LOOKUP_INDEX_PATH, then ./lookup.db.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("input") {
			cfg.Lookup.File = inputFile
		}
		if cmd.Flags().Changed("output") {
			cfg.Index.Path = indexPath
		}
		if cfg.Index.Path == "" {
			cfg.Index.Path = "./lookup.db"
		}

		logger, err := logging.New(logging.Verbose(cfg.Logging, verbose))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		return buildIndex(cmd.Context(), logger, cfg.Lookup.File, cfg.Index.Path)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "valid_codes.txt", "Lookup file to index")
	rootCmd.Flags().StringVarP(&indexPath, "output", "o", "", "Index database path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildIndex(ctx context.Context, logger *zap.Logger, input, dbPath string) error {
	logger.Info("building index", zap.String("input", input), zap.String("index", dbPath))
	start := time.Now()

	idx, err := sqlindex.Build(ctx, input, dbPath)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	defer idx.Close()

	n, err := idx.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count index rows: %w", err)
	}

	logger.Info("index ready",
		zap.String("index", dbPath),
		zap.Int("entries", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
