package local

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lakerunner/internal/testutil"
	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

func evalSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

func evalBatch(t *testing.T) arrow.Record {
	t.Helper()
	rec := testutil.RecordFromJSON(t, evalSchema(), `[
		{"id": 1, "score": 0.5, "name": "a"},
		{"id": 2, "score": 1.5, "name": "b"},
		{"id": 3, "score": null, "name": "c"},
		{"id": null, "score": 3.5, "name": "d"}
	]`)
	t.Cleanup(rec.Release)
	return rec
}

func boolOutputs(t *testing.T, out arrow.Record) []any {
	t.Helper()
	require.EqualValues(t, 1, out.NumCols())
	require.Equal(t, "output", out.ColumnName(0))
	col, ok := out.Column(0).(*array.Boolean)
	require.True(t, ok, "output column is %s, want bool", out.Column(0).DataType())
	vals := make([]any, col.Len())
	for i := range vals {
		if !col.IsNull(i) {
			vals[i] = col.Value(i)
		}
	}
	return vals
}

func TestEvaluator_Comparison(t *testing.T) {
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	ev, err := h.GetEvaluator(evalSchema(), engine.Binary(engine.OpGt, engine.Column("id"), engine.Lit(1)))
	require.NoError(t, err)

	out, err := ev.Evaluate(evalBatch(t))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []any{false, true, true, nil}, boolOutputs(t, out))
}

func TestEvaluator_AndWithNulls(t *testing.T) {
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	expr := engine.Binary(engine.OpAnd,
		engine.Binary(engine.OpGe, engine.Column("id"), engine.Lit(2)),
		engine.Binary(engine.OpLt, engine.Column("score"), engine.Lit(2.0)),
	)
	ev, err := h.GetEvaluator(evalSchema(), expr)
	require.NoError(t, err)

	out, err := ev.Evaluate(evalBatch(t))
	require.NoError(t, err)
	defer out.Release()

	// Row 3 has a null score, row 4 a null id. Either null operand nulls
	// the conjunction.
	assert.Equal(t, []any{false, true, nil, nil}, boolOutputs(t, out))
}

func TestEvaluator_StringEquality(t *testing.T) {
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	ev, err := h.GetEvaluator(evalSchema(), engine.Binary(engine.OpEq, engine.Column("name"), engine.Lit("c")))
	require.NoError(t, err)

	out, err := ev.Evaluate(evalBatch(t))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []any{false, false, true, false}, boolOutputs(t, out))
}

func TestGetEvaluator_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		expr engine.Expression
	}{
		{"unknown column", engine.Binary(engine.OpEq, engine.Column("absent"), engine.Lit(1))},
		{"literal kind", engine.Binary(engine.OpEq, engine.Column("id"), engine.Lit([]byte("x")))},
		{"unknown operator", engine.Binary(engine.BinaryOp(99), engine.Column("id"), engine.Lit(1))},
	}
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.GetEvaluator(evalSchema(), tt.expr)
			var unsupported *engine.UnsupportedExpressionError
			require.ErrorAs(t, err, &unsupported)
		})
	}
}

func TestEvaluator_TypeMismatch(t *testing.T) {
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	ev, err := h.GetEvaluator(evalSchema(), engine.Binary(engine.OpEq, engine.Column("name"), engine.Lit(1)))
	require.NoError(t, err)

	_, err = ev.Evaluate(evalBatch(t))
	var evalErr *engine.EvaluationError
	require.ErrorAs(t, err, &evalErr)
}

func TestEvaluator_SchemaMismatch(t *testing.T) {
	h := NewExpressionHandler(testutil.NewTestLogger(t))
	ev, err := h.GetEvaluator(evalSchema(), engine.Binary(engine.OpEq, engine.Column("id"), engine.Lit(1)))
	require.NoError(t, err)

	other := testutil.RecordFromJSON(t, testutil.Int64Schema("id"), `[{"id": 1}]`)
	defer other.Release()

	_, err = ev.Evaluate(other)
	var evalErr *engine.EvaluationError
	require.ErrorAs(t, err, &evalErr)
}
