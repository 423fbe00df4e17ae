// Package sqlindex stores the lines of a lookup file in SQLite so that
// exact-line membership can be answered by a primary-key probe.
package sqlindex

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"line-lookup/internal/linecache"
	"line-lookup/internal/sanitize"
)

const (
	createTable = `
		CREATE TABLE IF NOT EXISTS lines (
			key TEXT PRIMARY KEY
		) WITHOUT ROWID;
	`
	clearTable  = `DELETE FROM lines`
	insertLine  = `INSERT OR IGNORE INTO lines (key) VALUES (?)`
	selectLine  = `SELECT 1 FROM lines WHERE key = ? LIMIT 1`
	countLines  = `SELECT COUNT(*) FROM lines`
	scanBufSize = 64 * 1024
	scanMaxSize = 16 * 1024 * 1024
)

// Index is an open SQLite line index.
type Index struct {
	db  *sql.DB
	dsn string
}

// MemoryDSN returns a DSN for a private, named in-memory database. Each
// call yields a distinct database.
func MemoryDSN() string {
	return fmt.Sprintf("file:lookup-%s?mode=memory&cache=shared", uuid.NewString())
}

// Open opens (and if needed creates) the index at dsn without loading any
// lines.
func Open(dsn string) (*Index, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	// One long-lived connection keeps a shared in-memory database alive and
	// avoids shared-cache table locks between connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping index: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create lines table: %w", err)
	}

	return &Index{db: db, dsn: dsn}, nil
}

// Build opens the index at dsn and replaces its contents with the lines of
// the file at path, normalized the same way as the line cache.
func Build(ctx context.Context, path, dsn string) (*Index, error) {
	idx, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := idx.Load(ctx, path); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// Load replaces the index contents with the lines of the file at path in a
// single transaction.
func (idx *Index) Load(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearTable); err != nil {
		return fmt.Errorf("failed to clear lines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertLine)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanBufSize), scanMaxSize)
	scanner.Split(linecache.ScanLines)
	for scanner.Scan() {
		if _, err := stmt.ExecContext(ctx, sanitize.Line(scanner.Text())); err != nil {
			return fmt.Errorf("failed to insert line: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Has reports whether key is stored in the index.
func (idx *Index) Has(ctx context.Context, key string) (bool, error) {
	var one int
	err := idx.db.QueryRowContext(ctx, selectLine, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query index: %w", err)
	}
	return true, nil
}

// Count returns the number of distinct keys in the index.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.QueryRowContext(ctx, countLines).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lines: %w", err)
	}
	return n, nil
}

// DSN returns the data source the index was opened with.
func (idx *Index) DSN() string {
	return idx.dsn
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
