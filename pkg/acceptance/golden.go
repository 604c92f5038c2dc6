package acceptance

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
	"github.com/leapstack-labs/lakerunner/pkg/scan"
)

// goldenSubdir is where a test case stores its reference dataset, relative
// to the case root.
const goldenSubdir = "expected/latest/table_content"

// parquetExt marks golden files in the columnar binary format.
const parquetExt = ".parquet"

// ReadGolden reconstructs the reference dataset for one test case root. It
// enumerates the golden directory through the engine's file system
// capability, decodes every parquet file through its parquet capability, and
// concatenates the batches under the first file's schema.
//
// A nil record (with nil error) means no golden data: the directory is
// absent, holds no parquet files, or the files do not share one schema.
// Listing order is not significant; callers canonicalize before comparing.
func ReadGolden[J, P any](ctx context.Context, eng engine.Engine[J, P], testRoot *url.URL) (arrow.Record, error) {
	dir := path.Join(testRoot.Path, goldenSubdir)
	dirURL := &url.URL{Scheme: "file", Path: dir + "/"}

	var metas []engine.FileMeta
	for meta, err := range eng.FileSystemClient().ListFrom(ctx, dirURL) {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		if !strings.HasPrefix(meta.Location.Path, dir+"/") {
			// Past the prefix; the listing is ordered, nothing more can match.
			break
		}
		if strings.HasSuffix(meta.Location.Path, parquetExt) {
			metas = append(metas, meta)
		}
	}
	if len(metas) == 0 {
		return nil, nil
	}

	ph := eng.ParquetHandler()
	contexts, err := ph.ContextualizeFileReads(metas, nil)
	if err != nil {
		return nil, err
	}
	results, err := ph.ReadParquetFiles(ctx, contexts, nil)
	if err != nil {
		return nil, err
	}

	schema := results[0].Data.Schema()
	batches := make([]arrow.Record, len(results))
	for i, res := range results {
		if !schema.Equal(res.Data.Schema()) {
			return nil, nil
		}
		batches[i] = res.Data
	}
	return scan.ConcatBatches(schema, batches)
}
