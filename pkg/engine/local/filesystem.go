package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// readConcurrency bounds parallel file reads in ReadFiles.
const readConcurrency = 8

// FileSystem implements engine.FileSystemClient over the local file system.
// Locations use the file scheme.
type FileSystem struct {
	logger *slog.Logger
}

// NewFileSystem returns a local file system client.
func NewFileSystem(logger *slog.Logger) *FileSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSystem{logger: logger}
}

// ListFrom yields every file under the path's directory whose full path is
// lexicographically >= path, in ascending byte order. If path itself is a
// directory, everything beneath it is yielded. Subdirectories are descended
// into; the ordering guarantee holds over full paths, not per directory.
func (c *FileSystem) ListFrom(ctx context.Context, path *url.URL) iter.Seq2[engine.FileMeta, error] {
	return func(yield func(engine.FileMeta, error) bool) {
		root := path.Path
		bound := ""
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			bound = root
			root = filepath.Dir(root)
		}

		var paths []string
		walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !d.IsDir() {
				paths = append(paths, p)
			}
			return nil
		})
		if walkErr != nil {
			yield(engine.FileMeta{}, &engine.IOError{Op: "list", Path: root, Err: walkErr})
			return
		}
		// WalkDir visits per-directory lexical order, which is not full-path
		// byte order once names nest. Sort the snapshot instead.
		sort.Strings(paths)

		for _, p := range paths {
			if p < bound {
				continue
			}
			info, err := os.Stat(p)
			if err != nil {
				yield(engine.FileMeta{}, &engine.IOError{Op: "list", Path: p, Err: err})
				return
			}
			meta := engine.FileMeta{
				Location:     &url.URL{Scheme: "file", Path: p},
				LastModified: info.ModTime().UnixMilli(),
				Size:         info.Size(),
			}
			if !yield(meta, nil) {
				return
			}
		}
	}
}

// ReadFiles reads each slice's byte range, preserving input order. Reads run
// concurrently; the first failure fails the whole call.
func (c *FileSystem) ReadFiles(ctx context.Context, slices []engine.FileSlice) ([][]byte, error) {
	out := make([][]byte, len(slices))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(readConcurrency)
	for i, sl := range slices {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			buf, err := readRange(sl)
			if err != nil {
				return err
			}
			out[i] = buf
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readRange(sl engine.FileSlice) ([]byte, error) {
	if sl.End < sl.Start {
		return nil, &engine.IOError{
			Op:   "read",
			Path: sl.Location.Path,
			Err:  fmt.Errorf("invalid range [%d, %d)", sl.Start, sl.End),
		}
	}
	f, err := os.Open(sl.Location.Path)
	if err != nil {
		return nil, &engine.IOError{Op: "read", Path: sl.Location.Path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, sl.End-sl.Start)
	if _, err := io.ReadFull(io.NewSectionReader(f, sl.Start, sl.End-sl.Start), buf); err != nil {
		return nil, &engine.IOError{Op: "read", Path: sl.Location.Path, Err: err}
	}
	return buf, nil
}
