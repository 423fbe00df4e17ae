package sqlindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuild_Memory(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, writeFile(t, "SAVE10\n  WELCOME  \nSAVE10\nLAST"), MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	tests := []struct {
		key   string
		found bool
	}{
		{"SAVE10", true},
		{"WELCOME", true},
		{"LAST", true},
		{"  WELCOME  ", false},
		{"SAVE", false},
		{"save10", false},
	}
	for _, tt := range tests {
		got, err := idx.Has(ctx, tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.found, got, "key %q", tt.key)
	}

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryDSN_Distinct(t *testing.T) {
	assert.NotEqual(t, MemoryDSN(), MemoryDSN())
}

func TestBuild_FileReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "index.db")

	idx, err := Build(ctx, writeFile(t, "ALPHA\nBETA\n"), dbPath)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	found, err := reopened.Has(ctx, "BETA")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, dbPath, reopened.DSN())
}

func TestLoad_Replaces(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, writeFile(t, "OLD\n"), MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	require.NoError(t, idx.Load(ctx, writeFile(t, "NEW\n")))

	found, err := idx.Has(ctx, "OLD")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = idx.Has(ctx, "NEW")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBuild_MissingFile(t *testing.T) {
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), MemoryDSN())
	assert.Error(t, err)
}

func TestHas_Closed(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, writeFile(t, "X\n"), MemoryDSN())
	require.NoError(t, err)
	idx.Close()

	_, err = idx.Has(ctx, "X")
	assert.Error(t, err)
}
