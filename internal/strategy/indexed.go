package strategy

import (
	"context"

	"line-lookup/internal/linecache"
	"line-lookup/internal/sqlindex"
)

// NewCache returns a strategy answering from a prebuilt line cache. It
// never touches the file.
func NewCache(c *linecache.Cache, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(Cache, "", func(_ context.Context, key string) (bool, error) {
		return c.Contains(key), nil
	}, o)
}

// NewSQLite returns a strategy answering from a SQLite line index. The
// caller keeps ownership of idx.
func NewSQLite(idx *sqlindex.Index, opts ...Option) *Matcher {
	o := newOptions(opts)
	return newMatcher(SQLite, "", func(ctx context.Context, key string) (bool, error) {
		return idx.Has(ctx, key)
	}, o)
}
