// Package scan turns a planned scan into one logical dataset.
//
// The snapshot/scan planner itself lives outside this module; it is consumed
// through the [Planner] contract. This package only assembles what the
// engine produced: it executes a scan, applies per-result row masks, and
// concatenates the surviving batches in encounter order.
package scan

import (
	"context"
	"iter"
	"net/url"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// Result is one per-file unit of scan output: a decoded batch plus an
// optional row-selection mask. Data must never be nil.
type Result struct {
	Data arrow.Record
	// Mask selects rows of Data; nil keeps every row. When present its
	// length equals Data.NumRows().
	Mask []bool
}

// Scan is a planned scan ready to execute against an engine. Produced by an
// external planner; this package never builds one.
type Scan[J, P any] interface {
	// Execute lazily yields per-file scan results in encounter order.
	// A yielded error terminates the scan.
	Execute(ctx context.Context, eng engine.Engine[J, P]) iter.Seq2[Result, error]
}

// Planner builds a scan for a table root using the supplied engine. This is
// the boundary to the out-of-scope snapshot/scan planning logic.
type Planner[J, P any] interface {
	Scan(ctx context.Context, eng engine.Engine[J, P], tableRoot *url.URL) (Scan[J, P], error)
}

// Collect executes sc to completion and assembles one logical dataset.
//
// For each result, a present mask filters rows before the batch counts as
// output. The first batch's schema becomes the unifying schema; a batch
// whose schema differs structurally fails with *engine.SchemaMismatchError.
// A nil Data payload fails with *engine.MissingDataError. No sorting or
// semantic comparison happens here.
//
// Collect returns nil (no error) when the scan yields no results at all.
func Collect[J, P any](ctx context.Context, eng engine.Engine[J, P], sc Scan[J, P]) (arrow.Record, error) {
	var (
		schema  *arrow.Schema
		batches []arrow.Record
	)
	for res, err := range sc.Execute(ctx, eng) {
		if err != nil {
			return nil, err
		}
		if res.Data == nil {
			return nil, &engine.MissingDataError{Message: "scan result carried no raw data"}
		}
		batch := res.Data
		if res.Mask != nil {
			filtered, err := filterByMask(ctx, batch, res.Mask)
			if err != nil {
				return nil, err
			}
			batch = filtered
		}
		if schema == nil {
			schema = batch.Schema()
		} else if !schema.Equal(batch.Schema()) {
			return nil, &engine.SchemaMismatchError{
				Expected: schema.String(),
				Actual:   batch.Schema().String(),
			}
		}
		batches = append(batches, batch)
	}
	if schema == nil {
		return nil, nil
	}
	return ConcatBatches(schema, batches)
}

// ConcatBatches concatenates batches column-wise under schema. All batches
// must already share the schema structurally.
func ConcatBatches(schema *arrow.Schema, batches []arrow.Record) (arrow.Record, error) {
	mem := memory.DefaultAllocator
	rows := int64(0)
	for _, b := range batches {
		rows += b.NumRows()
	}
	cols := make([]arrow.Array, schema.NumFields())
	for i := range cols {
		parts := make([]arrow.Array, len(batches))
		for j, b := range batches {
			parts[j] = b.Column(i)
		}
		merged, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, &engine.SchemaMismatchError{
				Expected: schema.Field(i).String(),
				Actual:   err.Error(),
			}
		}
		cols[i] = merged
	}
	return array.NewRecord(schema, cols, rows), nil
}

func filterByMask(ctx context.Context, batch arrow.Record, mask []bool) (arrow.Record, error) {
	b := array.NewBooleanBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(mask, nil)
	filter := b.NewBooleanArray()
	defer filter.Release()
	return compute.FilterRecordBatch(ctx, batch, filter, compute.DefaultFilterOptions())
}
