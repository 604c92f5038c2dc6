package local

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// ParquetReadContext carries the file under read. Opaque to the protocol
// core.
type ParquetReadContext struct {
	Meta engine.FileMeta
}

// ParquetHandler implements engine.ParquetHandler for parquet files on the
// local file system, decoded through pqarrow.
type ParquetHandler struct {
	logger *slog.Logger
}

// NewParquetHandler returns a parquet handler.
func NewParquetHandler(logger *slog.Logger) *ParquetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParquetHandler{logger: logger}
}

// ContextualizeFileReads wraps each file in a ParquetReadContext. The
// predicate is an optimization hint only and is not used here.
func (h *ParquetHandler) ContextualizeFileReads(files []engine.FileMeta, _ engine.Expression) ([]ParquetReadContext, error) {
	contexts := make([]ParquetReadContext, len(files))
	for i, f := range files {
		contexts[i] = ParquetReadContext{Meta: f}
	}
	return contexts, nil
}

// ReadParquetFiles decodes each context's file, projected to physicalSchema
// column names. A nil physicalSchema selects the file's own schema. Files
// are read concurrently; results preserve input order.
func (h *ParquetHandler) ReadParquetFiles(ctx context.Context, files []ParquetReadContext, physicalSchema *arrow.Schema) ([]engine.FileDataReadResult, error) {
	results := make([]engine.FileDataReadResult, len(files))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(readConcurrency)
	for i, fc := range files {
		eg.Go(func() error {
			rec, err := h.readOne(egctx, fc.Meta, physicalSchema)
			if err != nil {
				return err
			}
			results[i] = engine.FileDataReadResult{Meta: fc.Meta, Data: rec}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *ParquetHandler) readOne(ctx context.Context, meta engine.FileMeta, physicalSchema *arrow.Schema) (arrow.Record, error) {
	path := meta.Location.Path
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, &engine.IOError{Op: "read", Path: path, Err: err}
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, &engine.DecodeError{Path: path, Err: err}
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, &engine.DecodeError{Path: path, Err: err}
	}
	defer tbl.Release()

	rec, err := tableToRecord(tbl)
	if err != nil {
		return nil, &engine.DecodeError{Path: path, Err: err}
	}
	if physicalSchema == nil {
		return rec, nil
	}
	projected, err := projectRecord(rec, physicalSchema)
	if err != nil {
		return nil, &engine.DecodeError{Path: path, Err: err}
	}
	return projected, nil
}

// tableToRecord flattens a chunked table into a single record.
func tableToRecord(tbl arrow.Table) (arrow.Record, error) {
	mem := memory.DefaultAllocator
	schema := tbl.Schema()
	cols := make([]arrow.Array, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		chunks := tbl.Column(i).Data().Chunks()
		switch len(chunks) {
		case 0:
			cols[i] = array.MakeArrayOfNull(mem, schema.Field(i).Type, 0)
		case 1:
			chunks[0].Retain()
			cols[i] = chunks[0]
		default:
			merged, err := array.Concatenate(chunks, mem)
			if err != nil {
				return nil, err
			}
			cols[i] = merged
		}
	}
	return array.NewRecord(schema, cols, tbl.NumRows()), nil
}

// projectRecord selects physical's column names from rec, keeping the
// file-declared field definitions for the surviving columns.
func projectRecord(rec arrow.Record, physical *arrow.Schema) (arrow.Record, error) {
	fields := make([]arrow.Field, 0, physical.NumFields())
	cols := make([]arrow.Array, 0, physical.NumFields())
	for _, want := range physical.Fields() {
		indices := rec.Schema().FieldIndices(want.Name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("column %q not present in file", want.Name)
		}
		fields = append(fields, rec.Schema().Field(indices[0]))
		cols = append(cols, rec.Column(indices[0]))
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), cols, rec.NumRows()), nil
}
