// Package planner holds scan planner implementations for the conformance
// runner. Transaction-log replay lives outside this module; the directory
// planner here serves fixtures whose table content is plain parquet.
package planner

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
	"github.com/leapstack-labs/lakerunner/pkg/scan"
)

// Directory plans scans over a directory of parquet data files. It drives
// the full capability surface of an engine: listing, contextualization, and
// parquet decoding. Log directories are not interpreted.
type Directory[J, P any] struct {
	logger *slog.Logger
}

// NewDirectory returns a directory planner.
func NewDirectory[J, P any](logger *slog.Logger) *Directory[J, P] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory[J, P]{logger: logger}
}

// Scan plans a scan of every parquet file under tableRoot, excluding the
// transaction log directory.
func (p *Directory[J, P]) Scan(_ context.Context, _ engine.Engine[J, P], tableRoot *url.URL) (scan.Scan[J, P], error) {
	return &directoryScan[J, P]{root: tableRoot, logger: p.logger}, nil
}

type directoryScan[J, P any] struct {
	root   *url.URL
	logger *slog.Logger
}

func (s *directoryScan[J, P]) Execute(ctx context.Context, eng engine.Engine[J, P]) iter.Seq2[scan.Result, error] {
	return func(yield func(scan.Result, error) bool) {
		prefix := strings.TrimRight(s.root.Path, "/") + "/"
		listFrom := &url.URL{Scheme: "file", Path: prefix}

		var metas []engine.FileMeta
		for meta, err := range eng.FileSystemClient().ListFrom(ctx, listFrom) {
			if err != nil {
				yield(scan.Result{}, err)
				return
			}
			p := meta.Location.Path
			if !strings.HasPrefix(p, prefix) {
				break
			}
			if strings.Contains(p, "/_delta_log/") || !strings.HasSuffix(p, ".parquet") {
				continue
			}
			metas = append(metas, meta)
		}
		if len(metas) == 0 {
			return
		}
		s.logger.Debug("planned directory scan", "root", s.root.Path, "files", len(metas))

		ph := eng.ParquetHandler()
		contexts, err := ph.ContextualizeFileReads(metas, nil)
		if err != nil {
			yield(scan.Result{}, err)
			return
		}
		results, err := ph.ReadParquetFiles(ctx, contexts, nil)
		if err != nil {
			yield(scan.Result{}, err)
			return
		}
		for _, res := range results {
			if !yield(scan.Result{Data: res.Data}, nil) {
				return
			}
		}
	}
}
