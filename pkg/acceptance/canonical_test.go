package acceptance

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lakerunner/internal/testutil"
)

func canonicalized(t *testing.T, rec arrow.Record) arrow.Record {
	t.Helper()
	out, err := Canonicalize(rec)
	require.NoError(t, err)
	return out
}

func TestCanonicalize_SortsRows(t *testing.T) {
	rec := testutil.RecordFromJSON(t, testutil.Int64Schema("v"),
		`[{"v": 3}, {"v": 1}, {"v": 2}]`)
	defer rec.Release()

	out := canonicalized(t, rec)
	col := out.Column(0).(*array.Int64)
	assert.Equal(t, []int64{1, 2, 3}, col.Int64Values())
}

func TestCanonicalize_PermutationInsensitive(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "k", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "v", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	a := testutil.RecordFromJSON(t, schema,
		`[{"k": "b", "v": 2}, {"k": "a", "v": 1}, {"k": "c", "v": null}]`)
	defer a.Release()
	b := testutil.RecordFromJSON(t, schema,
		`[{"k": "c", "v": null}, {"k": "b", "v": 2}, {"k": "a", "v": 1}]`)
	defer b.Release()

	ca, cb := canonicalized(t, a), canonicalized(t, b)
	for i := range int(ca.NumCols()) {
		assert.True(t, array.Equal(ca.Column(i), cb.Column(i)),
			"column %s differs between permutations", schema.Field(i).Name)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	rec := testutil.RecordFromJSON(t, testutil.Int64Schema("v"),
		`[{"v": 2}, {"v": 2}, {"v": 1}]`)
	defer rec.Release()

	once := canonicalized(t, rec)
	twice := canonicalized(t, once)
	assert.True(t, array.Equal(once.Column(0), twice.Column(0)))
}

func TestCanonicalize_NullsFirst(t *testing.T) {
	rec := testutil.RecordFromJSON(t, testutil.Int64Schema("v"),
		`[{"v": 1}, {"v": null}, {"v": 0}]`)
	defer rec.Release()

	out := canonicalized(t, rec)
	col := out.Column(0).(*array.Int64)
	assert.True(t, col.IsNull(0), "null row should sort first")
	assert.Equal(t, int64(0), col.Value(1))
	assert.Equal(t, int64(1), col.Value(2))
}

func TestCanonicalize_CompositeColumnsFollowTheKey(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "k", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
	}, nil)
	rec := testutil.RecordFromJSON(t, schema,
		`[{"k": 2, "tags": ["x"]}, {"k": 1, "tags": ["y", "z"]}]`)
	defer rec.Release()

	out := canonicalized(t, rec)
	keys := out.Column(0).(*array.Int64)
	assert.Equal(t, []int64{1, 2}, keys.Int64Values())

	tags := out.Column(1).(*array.List)
	first := tags.ListValues().(*array.String)
	// Row 0 now carries ["y", "z"]: list columns moved with their rows.
	start, end := tags.ValueOffsets(0)
	require.EqualValues(t, 2, end-start)
	assert.Equal(t, "y", first.Value(int(start)))
}

func TestCanonicalize_OnlyCompositeColumns(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64), Nullable: true},
	}, nil)
	rec := testutil.RecordFromJSON(t, schema, `[{"tags": [2]}, {"tags": [1]}]`)
	defer rec.Release()

	// No orderable column to key on; the batch passes through unchanged.
	out := canonicalized(t, rec)
	assert.Same(t, rec, out)
}

func TestCanonicalize_SmallBatchesPassThrough(t *testing.T) {
	out, err := Canonicalize(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	one := testutil.RecordFromJSON(t, testutil.Int64Schema("v"), `[{"v": 7}]`)
	defer one.Release()
	out = canonicalized(t, one)
	assert.Same(t, one, out)
}
