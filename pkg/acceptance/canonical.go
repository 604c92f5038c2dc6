package acceptance

import (
	"bytes"
	"cmp"
	"context"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Canonicalize puts a batch's rows into a deterministic order so that two
// result sets differing only in row order compare equal column by column.
//
// Every column of a non-composite kind forms part of an ordered composite
// sort key, compared lexicographically in schema order, ascending, nulls
// first. Composite kinds (struct, list, map, union) cannot be ordered; they
// are left out of the key but reordered with everything else. Ties keep
// their original relative order, which makes the routine idempotent.
func Canonicalize(rec arrow.Record) (arrow.Record, error) {
	if rec == nil || rec.NumRows() < 2 {
		return rec, nil
	}

	var keys []func(i, j int) int
	for i, field := range rec.Schema().Fields() {
		if compositeKind(field.Type.ID()) {
			continue
		}
		c, ok := comparatorFor(rec.Column(i))
		if !ok {
			return nil, &SortError{Column: field.Name, Type: field.Type.String()}
		}
		keys = append(keys, c)
	}
	if len(keys) == 0 {
		return rec, nil
	}

	n := int(rec.NumRows())
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		for _, key := range keys {
			if c := key(perm[a], perm[b]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	return takeRecord(rec, perm)
}

// takeRecord applies the same row permutation to every column.
func takeRecord(rec arrow.Record, perm []int) (arrow.Record, error) {
	mem := memory.DefaultAllocator
	ctx := compute.WithAllocator(context.Background(), mem)

	ib := array.NewUint64Builder(mem)
	defer ib.Release()
	for _, idx := range perm {
		ib.Append(uint64(idx))
	}
	indices := ib.NewArray()
	defer indices.Release()

	cols := make([]arrow.Array, rec.NumCols())
	for i := range cols {
		taken, err := compute.TakeArray(ctx, rec.Column(i), indices)
		if err != nil {
			return nil, &SortError{Column: rec.Schema().Field(i).Name, Type: err.Error()}
		}
		cols[i] = taken
	}
	return array.NewRecord(rec.Schema(), cols, rec.NumRows()), nil
}

func compositeKind(id arrow.Type) bool {
	switch id {
	case arrow.STRUCT, arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST,
		arrow.LIST_VIEW, arrow.LARGE_LIST_VIEW, arrow.MAP,
		arrow.DENSE_UNION, arrow.SPARSE_UNION, arrow.RUN_END_ENCODED:
		return true
	}
	return false
}

// comparatorFor builds a null-aware three-way row comparator for one
// column. Reports false for types it cannot order.
func comparatorFor(col arrow.Array) (func(i, j int) int, bool) {
	switch a := col.(type) {
	case *array.Boolean:
		return cmpBy(col, func(i int) int {
			if a.Value(i) {
				return 1
			}
			return 0
		}), true
	case *array.Int8:
		return cmpBy(col, a.Value), true
	case *array.Int16:
		return cmpBy(col, a.Value), true
	case *array.Int32:
		return cmpBy(col, a.Value), true
	case *array.Int64:
		return cmpBy(col, a.Value), true
	case *array.Uint8:
		return cmpBy(col, a.Value), true
	case *array.Uint16:
		return cmpBy(col, a.Value), true
	case *array.Uint32:
		return cmpBy(col, a.Value), true
	case *array.Uint64:
		return cmpBy(col, a.Value), true
	case *array.Float32:
		return cmpBy(col, a.Value), true
	case *array.Float64:
		return cmpBy(col, a.Value), true
	case *array.String:
		return cmpBy(col, a.Value), true
	case *array.LargeString:
		return cmpBy(col, a.Value), true
	case *array.Binary:
		return cmpBytes(col, a.Value), true
	case *array.LargeBinary:
		return cmpBytes(col, a.Value), true
	case *array.FixedSizeBinary:
		return cmpBytes(col, a.Value), true
	case *array.Date32:
		return cmpBy(col, a.Value), true
	case *array.Date64:
		return cmpBy(col, a.Value), true
	case *array.Timestamp:
		return cmpBy(col, a.Value), true
	case *array.Time32:
		return cmpBy(col, a.Value), true
	case *array.Time64:
		return cmpBy(col, a.Value), true
	case *array.Duration:
		return cmpBy(col, a.Value), true
	case *array.Decimal128:
		return cmpDecimal(col, a), true
	case *array.Dictionary:
		values, ok := a.Dictionary().(*array.String)
		if !ok {
			return nil, false
		}
		return cmpBy(col, func(i int) string {
			return values.Value(a.GetValueIndex(i))
		}), true
	}
	return nil, false
}

// cmpBy lifts a per-row value accessor into a nulls-first comparator.
func cmpBy[T cmp.Ordered](col arrow.Array, value func(int) T) func(i, j int) int {
	return func(i, j int) int {
		if c, done := cmpNulls(col, i, j); done {
			return c
		}
		return cmp.Compare(value(i), value(j))
	}
}

func cmpBytes(col arrow.Array, value func(int) []byte) func(i, j int) int {
	return func(i, j int) int {
		if c, done := cmpNulls(col, i, j); done {
			return c
		}
		return bytes.Compare(value(i), value(j))
	}
}

// cmpDecimal compares via big integers; scale is constant within a column.
func cmpDecimal(col arrow.Array, a *array.Decimal128) func(i, j int) int {
	return func(i, j int) int {
		if c, done := cmpNulls(col, i, j); done {
			return c
		}
		return a.Value(i).BigInt().Cmp(a.Value(j).BigInt())
	}
}

func cmpNulls(col arrow.Array, i, j int) (int, bool) {
	switch {
	case col.IsNull(i) && col.IsNull(j):
		return 0, true
	case col.IsNull(i):
		return -1, true
	case col.IsNull(j):
		return 1, true
	}
	return 0, false
}
