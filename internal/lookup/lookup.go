// Package lookup is the single query entry point over a lookup file.
//
// A Lookup runs in one of two modes fixed at construction:
//
//   - cached: the file is loaded once into a line cache; later changes to
//     the file are not seen.
//   - fresh-read: every query maps the file anew and reflects its current
//     contents.
package lookup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"line-lookup/internal/linecache"
	"line-lookup/internal/metrics"
	"line-lookup/internal/strategy"
)

// Mode names.
const (
	ModeCached    = "cached"
	ModeFreshRead = "fresh-read"
)

// Lookup answers exact-line membership queries against one file.
type Lookup struct {
	path          string
	rereadOnQuery bool
	cache         *linecache.Cache
	fingerprint   uint64
	search        strategy.Strategy
	logger        *zap.Logger
}

// Option configures a Lookup.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	maxLineSize int
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxLineSize caps line length when building the cache.
func WithMaxLineSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLineSize = n
		}
	}
}

// New returns a Lookup for path. With rereadOnQuery false the cache is
// built immediately and New fails with linecache.ErrFileMissing or
// linecache.ErrReadFailure if the file cannot be loaded. With
// rereadOnQuery true the file is not touched until the first query.
func New(path string, rereadOnQuery bool, opts ...Option) (*Lookup, error) {
	cfg := config{logger: zap.NewNop(), maxLineSize: linecache.DefaultMaxLineSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Lookup{
		path:          path,
		rereadOnQuery: rereadOnQuery,
		logger:        cfg.logger,
	}

	if rereadOnQuery {
		l.search = strategy.NewMmap(path, strategy.WithLogger(cfg.logger))
		cfg.logger.Info("lookup ready", zap.String("path", path), zap.String("mode", ModeFreshRead))
		return l, nil
	}

	digest := xxh3.New()
	cache, err := linecache.Build(path,
		linecache.WithMaxLineSize(cfg.maxLineSize),
		linecache.WithTee(digest),
	)
	if err != nil {
		cfg.logger.Error("failed to build line cache", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	metrics.SetCacheEntries(cache.Len())

	l.cache = cache
	l.fingerprint = digest.Sum64()
	l.search = strategy.NewCache(cache, strategy.WithLogger(cfg.logger))
	cfg.logger.Info("lookup ready",
		zap.String("path", path),
		zap.String("mode", ModeCached),
		zap.Int("entries", cache.Len()))
	return l, nil
}

// FindMatch reports whether the sanitized query equals a line of the file.
// It never fails; errors are logged and reported as false.
func (l *Lookup) FindMatch(ctx context.Context, raw []byte) bool {
	return l.search.Search(ctx, raw)
}

// Path returns the lookup file path.
func (l *Lookup) Path() string {
	return l.path
}

// Mode returns ModeCached or ModeFreshRead.
func (l *Lookup) Mode() string {
	if l.rereadOnQuery {
		return ModeFreshRead
	}
	return ModeCached
}

// Entries returns the number of cached entries, or -1 in fresh-read mode.
func (l *Lookup) Entries() int {
	if l.rereadOnQuery {
		return -1
	}
	return l.cache.Len()
}

// Stale reports whether the file has changed since the cache was built.
// Fresh-read lookups are never stale.
func (l *Lookup) Stale() (bool, error) {
	if l.rereadOnQuery {
		return false, nil
	}
	sum, err := fingerprint(l.path)
	if err != nil {
		return true, err
	}
	return sum != l.fingerprint, nil
}

func fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return h.Sum64(), nil
}
