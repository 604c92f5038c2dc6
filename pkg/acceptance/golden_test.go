package acceptance_test

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lakerunner/internal/testutil"
	"github.com/leapstack-labs/lakerunner/pkg/acceptance"
	"github.com/leapstack-labs/lakerunner/pkg/engine/local"
)

func goldenDirFor(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, "expected", "latest", "table_content")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func rootURL(root string) *url.URL {
	return &url.URL{Scheme: "file", Path: root}
}

func TestReadGolden_ConcatenatesFiles(t *testing.T) {
	root := t.TempDir()
	dir := goldenDirFor(t, root)
	schema := testutil.Int64Schema("v")

	for i, rows := range []string{`[{"v": 1}]`, `[{"v": 2}, {"v": 3}]`} {
		rec := testutil.RecordFromJSON(t, schema, rows)
		testutil.WriteParquet(t, filepath.Join(dir, string(rune('a'+i))+".parquet"), rec)
		rec.Release()
	}
	// Non-parquet files in the golden directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_SUCCESS"), nil, 0o644))

	eng := local.New(testutil.NewTestLogger(t))
	got, err := acceptance.ReadGolden(context.Background(), eng, rootURL(root))
	require.NoError(t, err)
	require.NotNil(t, got)
	defer got.Release()
	assert.EqualValues(t, 3, got.NumRows())
}

func TestReadGolden_MissingDirectory(t *testing.T) {
	eng := local.New(testutil.NewTestLogger(t))
	got, err := acceptance.ReadGolden(context.Background(), eng, rootURL(t.TempDir()))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadGolden_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	goldenDirFor(t, root)

	eng := local.New(testutil.NewTestLogger(t))
	got, err := acceptance.ReadGolden(context.Background(), eng, rootURL(root))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadGolden_InconsistentSchemas(t *testing.T) {
	root := t.TempDir()
	dir := goldenDirFor(t, root)

	a := testutil.RecordFromJSON(t, testutil.Int64Schema("v"), `[{"v": 1}]`)
	testutil.WriteParquet(t, filepath.Join(dir, "a.parquet"), a)
	a.Release()
	b := testutil.RecordFromJSON(t, testutil.Int64Schema("other"), `[{"other": 2}]`)
	testutil.WriteParquet(t, filepath.Join(dir, "b.parquet"), b)
	b.Release()

	eng := local.New(testutil.NewTestLogger(t))
	got, err := acceptance.ReadGolden(context.Background(), eng, rootURL(root))
	require.NoError(t, err)
	assert.Nil(t, got)
}
