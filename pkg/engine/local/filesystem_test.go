package local

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lakerunner/internal/testutil"
	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fileURL(path string) *url.URL {
	return &url.URL{Scheme: "file", Path: path}
}

func TestFileSystem_ListFrom_SortedAndBounded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "00000.json", "{}")
	writeFile(t, dir, "00001.json", "{}")
	writeFile(t, dir, "00002.json", "{}")

	fs := NewFileSystem(testutil.NewTestLogger(t))
	start := filepath.Join(dir, "00001.json")

	var locations []string
	for meta, err := range fs.ListFrom(context.Background(), fileURL(start)) {
		require.NoError(t, err)
		locations = append(locations, meta.Location.Path)
	}

	require.Len(t, locations, 2)
	for i, loc := range locations {
		assert.GreaterOrEqual(t, loc, start, "entry %d below the bound", i)
		if i > 0 {
			assert.Greater(t, loc, locations[i-1], "listing not strictly ascending")
		}
	}
}

func TestFileSystem_ListFrom_NestedDirsKeepByteOrder(t *testing.T) {
	dir := t.TempDir()
	// "a.x" sorts before "a/b" in byte order because '.' < '/'.
	writeFile(t, dir, "a.x", "1")
	writeFile(t, dir, filepath.Join("a", "b"), "2")

	fs := NewFileSystem(testutil.NewTestLogger(t))
	var locations []string
	for meta, err := range fs.ListFrom(context.Background(), fileURL(dir)) {
		require.NoError(t, err)
		locations = append(locations, meta.Location.Path)
	}

	require.Len(t, locations, 2)
	assert.Equal(t, filepath.Join(dir, "a.x"), locations[0])
	assert.Equal(t, filepath.Join(dir, "a", "b"), locations[1])
}

func TestFileSystem_ListFrom_EarlyTermination(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, dir, name, "x")
	}

	fs := NewFileSystem(testutil.NewTestLogger(t))
	seen := 0
	for _, err := range fs.ListFrom(context.Background(), fileURL(dir)) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestFileSystem_ReadFiles_RangesInOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", "hello world")

	fs := NewFileSystem(testutil.NewTestLogger(t))
	bufs, err := fs.ReadFiles(context.Background(), []engine.FileSlice{
		{Location: fileURL(path), Start: 6, End: 11},
		{Location: fileURL(path), Start: 0, End: 5},
		{Location: fileURL(path), Start: 0, End: 0},
	})
	require.NoError(t, err)
	require.Len(t, bufs, 3)
	assert.Equal(t, "world", string(bufs[0]))
	assert.Equal(t, "hello", string(bufs[1]))
	assert.Empty(t, bufs[2])
}

func TestFileSystem_ReadFiles_FailsWholeCall(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", "hello")

	fs := NewFileSystem(testutil.NewTestLogger(t))
	_, err := fs.ReadFiles(context.Background(), []engine.FileSlice{
		{Location: fileURL(path), Start: 0, End: 5},
		{Location: fileURL(filepath.Join(dir, "missing.bin")), Start: 0, End: 1},
	})
	var ioErr *engine.IOError
	require.ErrorAs(t, err, &ioErr)
}
