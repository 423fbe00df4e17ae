// Package strategy implements interchangeable exact-line search strategies
// over a lookup file.
//
// Every strategy sanitizes the raw query with control-character stripping,
// then requires the canonical key to equal an entire line. Search is fail
// closed: any error encountered while answering a query is logged and
// reported as "no match". Lookup exposes the same answer together with the
// error for callers that need to tell the two apart.
package strategy

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"go.uber.org/zap"

	"line-lookup/internal/command"
	"line-lookup/internal/linecache"
	"line-lookup/internal/metrics"
	"line-lookup/internal/sanitize"
	"line-lookup/internal/sqlindex"
)

// Strategy names.
const (
	Linear    = "linear"
	Bulk      = "bulk"
	Mmap      = "mmap"
	Grep      = "grep"
	GrepFirst = "grep-m1"
	Awk       = "awk"
	Cache     = "cache"
	SQLite    = "sqlite"
)

// Strategy answers whether a sanitized query equals a whole line of the
// lookup file.
type Strategy interface {
	Name() string
	Search(ctx context.Context, raw []byte) bool
}

// finder reports whether key equals a line. Errors are soft failures.
type finder func(ctx context.Context, key string) (bool, error)

// Matcher is the concrete Strategy returned by every constructor.
type Matcher struct {
	name   string
	path   string
	find   finder
	closer io.Closer
	logger *zap.Logger
}

var _ Strategy = (*Matcher)(nil)

// Name returns the strategy name.
func (m *Matcher) Name() string {
	return m.name
}

// Path returns the lookup file the strategy reads, if any.
func (m *Matcher) Path() string {
	return m.path
}

// Lookup sanitizes raw and reports whether it matches a line. A non-nil
// error means the answer could not be determined; found is then false.
func (m *Matcher) Lookup(ctx context.Context, raw []byte) (bool, error) {
	key := sanitize.Canonical(raw)

	start := time.Now()
	found, err := m.find(ctx, key)
	metrics.ObserveQuery(m.name, found, err, time.Since(start))

	if err != nil {
		return false, fmt.Errorf("%s search: %w", m.name, err)
	}
	return found, nil
}

// Search is Lookup with errors folded into false.
func (m *Matcher) Search(ctx context.Context, raw []byte) bool {
	found, err := m.Lookup(ctx, raw)
	if err != nil {
		m.logger.Warn("lookup failed, reporting no match",
			zap.String("strategy", m.name),
			zap.String("path", m.path),
			zap.Error(err))
		return false
	}
	return found
}

// Close releases resources owned by the strategy.
func (m *Matcher) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// Option configures a strategy.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	runner      command.Runner
	grep        string
	awk         string
	indexDSN    string
	maxLineSize int
}

// WithLogger sets the logger used for soft-failure diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunner replaces the process runner used by external strategies.
func WithRunner(r command.Runner) Option {
	return func(o *options) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithGrep sets the grep executable.
func WithGrep(path string) Option {
	return func(o *options) {
		if path != "" {
			o.grep = path
		}
	}
}

// WithAwk sets the awk executable.
func WithAwk(path string) Option {
	return func(o *options) {
		if path != "" {
			o.awk = path
		}
	}
}

// WithIndexDSN sets where the sqlite strategy builds its index. The default
// is a private in-memory database.
func WithIndexDSN(dsn string) Option {
	return func(o *options) {
		o.indexDSN = dsn
	}
}

// WithMaxLineSize caps line length for scanning strategies and the cache.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:      zap.NewNop(),
		runner:      command.ExecRunner{},
		grep:        "grep",
		awk:         "awk",
		maxLineSize: linecache.DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Names lists every strategy New can construct.
func Names() []string {
	return []string{Linear, Bulk, Mmap, Grep, GrepFirst, Awk, Cache, SQLite}
}

// New constructs the named strategy for the file at path. Strategies that
// preload the file (cache, sqlite) fail here if it cannot be read; all
// others defer file access to query time.
func New(ctx context.Context, name, path string, opts ...Option) (*Matcher, error) {
	switch name {
	case Linear:
		return NewLinear(path, opts...), nil
	case Bulk:
		return NewBulk(path, opts...), nil
	case Mmap:
		return NewMmap(path, opts...), nil
	case Grep:
		return NewGrep(path, opts...), nil
	case GrepFirst:
		return NewGrepFirst(path, opts...), nil
	case Awk:
		return NewAwk(path, opts...), nil
	case Cache:
		o := newOptions(opts)
		c, err := linecache.Build(path, linecache.WithMaxLineSize(o.maxLineSize))
		if err != nil {
			return nil, err
		}
		metrics.SetCacheEntries(c.Len())
		m := NewCache(c, opts...)
		m.path = path
		return m, nil
	case SQLite:
		o := newOptions(opts)
		dsn := o.indexDSN
		if dsn == "" {
			dsn = sqlindex.MemoryDSN()
		}
		idx, err := sqlindex.Build(ctx, path, dsn)
		if err != nil {
			return nil, err
		}
		m := NewSQLite(idx, opts...)
		m.path = path
		m.closer = idx
		return m, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (valid: %v)", name, Names())
	}
}

// Valid reports whether name is a known strategy.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}

func newMatcher(name, path string, find finder, o options) *Matcher {
	return &Matcher{
		name:   name,
		path:   path,
		find:   find,
		logger: o.logger,
	}
}
