package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"line-lookup/internal/api"
	"line-lookup/internal/config"
	"line-lookup/internal/logging"
	"line-lookup/internal/lookup"
	"line-lookup/internal/strategy"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	verbose    bool
	lookupFile string
	reread     bool
	addr       string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lookup-server",
	Short: "Serve exact-line membership lookups over HTTP",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("file") {
			cfg.Lookup.File = lookupFile
		}
		if cmd.Flags().Changed("reread") {
			cfg.Lookup.RereadOnQuery = reread
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		logger, err = logging.New(logging.Verbose(cfg.Logging, verbose))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&lookupFile, "file", "valid_codes.txt", "Path to the lookup file")
	rootCmd.Flags().BoolVar(&reread, "reread", false, "Re-read the lookup file on every query")
	rootCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	l, err := lookup.New(cfg.Lookup.File, cfg.Lookup.RereadOnQuery,
		lookup.WithLogger(logger),
		lookup.WithMaxLineSize(cfg.Lookup.MaxLineSize),
	)
	if err != nil {
		return fmt.Errorf("failed to load lookup file: %w", err)
	}

	probers, closeAll := buildStrategies(ctx)
	defer closeAll()

	server := api.NewServer(l, probers, cfg.Server.APIKey, logger)
	s := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("file", cfg.Lookup.File),
			zap.String("mode", l.Mode()),
			zap.Int("strategies", len(probers)),
		)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildStrategies constructs every enabled strategy. Strategies that fail
// to load are logged and left out.
func buildStrategies(ctx context.Context) ([]api.Prober, func()) {
	opts := append(cfg.StrategyOptions(), strategy.WithLogger(logger))

	var matchers []*strategy.Matcher
	for _, name := range cfg.EnabledStrategies() {
		m, err := strategy.New(ctx, name, cfg.Lookup.File, opts...)
		if err != nil {
			logger.Warn("strategy unavailable", zap.String("strategy", name), zap.Error(err))
			continue
		}
		matchers = append(matchers, m)
	}

	closeAll := func() {
		for _, m := range matchers {
			if err := m.Close(); err != nil {
				logger.Warn("failed to close strategy", zap.String("strategy", m.Name()), zap.Error(err))
			}
		}
	}

	probers := make([]api.Prober, len(matchers))
	for i, m := range matchers {
		probers[i] = m
	}
	return probers, closeAll
}
