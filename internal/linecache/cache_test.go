package linecache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookup.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		content string
		present []string
		absent  []string
		wantLen int
	}{
		{
			name:    "multiple codes",
			content: "HAPPYHRS\nFIFTYOFF\nSUPER100\n",
			present: []string{"HAPPYHRS", "FIFTYOFF", "SUPER100"},
			absent:  []string{"happyhrs", "SUPER", "SUPER1000"},
			wantLen: 3,
		},
		{
			name:    "last line without newline",
			content: "CODE1\nCODE2",
			present: []string{"CODE1", "CODE2"},
			wantLen: 2,
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  CODE1\n\tCODE2\n   CODE3   \n",
			present: []string{"CODE1", "CODE2", "CODE3"},
			absent:  []string{"  CODE1", "\tCODE2"},
			wantLen: 3,
		},
		{
			name:    "crlf line endings",
			content: "CODE1\r\nCODE2\r\n",
			present: []string{"CODE1", "CODE2"},
			absent:  []string{"CODE1\r"},
			wantLen: 2,
		},
		{
			name:    "duplicates collapse",
			content: "SAME\nSAME\nSAME\n",
			present: []string{"SAME"},
			wantLen: 1,
		},
		{
			name:    "blank line is an entry",
			content: "CODE1\n\nCODE2\n",
			present: []string{"CODE1", "", "CODE2"},
			wantLen: 3,
		},
		{
			name:    "undecodable bytes dropped",
			content: "NEE\xffDLE\n",
			present: []string{"NEEDLE"},
			wantLen: 1,
		},
		{
			name:    "empty file",
			content: "",
			absent:  []string{"", "anything"},
			wantLen: 0,
		},
		{
			name:    "inner spaces preserved",
			content: "CODE WITH SPACES\n",
			present: []string{"CODE WITH SPACES"},
			absent:  []string{"CODEWITHSPACES"},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(writeFile(t, tt.content))
			require.NoError(t, err)

			for _, key := range tt.present {
				assert.True(t, c.Contains(key), "expected %q present", key)
			}
			for _, key := range tt.absent {
				assert.False(t, c.Contains(key), "expected %q absent", key)
			}
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestBuild_FileMissing(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nonexistent.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileMissing)
	assert.NotErrorIs(t, err, ErrReadFailure)
	assert.Contains(t, err.Error(), "nonexistent.txt")
}

func TestBuild_ReadFailure(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		_, err := Build(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReadFailure)
		assert.NotErrorIs(t, err, ErrFileMissing)
	})

	t.Run("line too long", func(t *testing.T) {
		path := writeFile(t, strings.Repeat("A", 2048)+"\n")
		_, err := Build(path, WithMaxLineSize(1024))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReadFailure)
	})
}

func TestBuild_SnapshotIgnoresLaterWrites(t *testing.T) {
	path := writeFile(t, "BEFORE\n")
	c, err := Build(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("AFTER\n"), 0644))

	assert.True(t, c.Contains("BEFORE"))
	assert.False(t, c.Contains("AFTER"))
}

func TestFromLines(t *testing.T) {
	c := FromLines([]string{" SAVE10 ", "WELCOME"})
	assert.True(t, c.Contains("SAVE10"))
	assert.True(t, c.Contains("WELCOME"))
	assert.False(t, c.Contains("INVALID"))
	assert.Equal(t, 2, c.Len())
}

func TestNilCache(t *testing.T) {
	var c *Cache
	assert.False(t, c.Contains("x"))
	assert.Equal(t, 0, c.Len())
}

func TestBuild_TeeSeesLoadedBytes(t *testing.T) {
	content := "key0\r\n  needle  \nlast"
	var buf bytes.Buffer

	c, err := Build(writeFile(t, content), WithTee(&buf))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, content, buf.String())
}
