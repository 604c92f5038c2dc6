package local

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// ExpressionHandler implements engine.ExpressionHandler for expressions over
// primitive columns (bool, integers, floats, strings).
type ExpressionHandler struct {
	logger *slog.Logger
}

// NewExpressionHandler returns an expression handler.
func NewExpressionHandler(logger *slog.Logger) *ExpressionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpressionHandler{logger: logger}
}

// GetEvaluator binds expr to schema. Column references must resolve to
// primitive fields of the schema; unknown columns, literal kinds, or
// operators fail with *engine.UnsupportedExpressionError.
func (h *ExpressionHandler) GetEvaluator(schema *arrow.Schema, expr engine.Expression) (engine.ExpressionEvaluator, error) {
	if err := validateExpr(expr, schema); err != nil {
		return nil, err
	}
	return &evaluator{schema: schema, expr: expr}, nil
}

func validateExpr(expr engine.Expression, schema *arrow.Schema) error {
	switch e := expr.(type) {
	case *engine.ColumnRef:
		indices := schema.FieldIndices(e.Name)
		if len(indices) == 0 {
			return &engine.UnsupportedExpressionError{Expr: e.String(), Message: "column not in schema"}
		}
		if !orderableScalar(schema.Field(indices[0]).Type) {
			return &engine.UnsupportedExpressionError{Expr: e.String(), Message: "column type not supported"}
		}
	case *engine.Literal:
		switch e.Value.(type) {
		case bool, int, int8, int16, int32, int64, uint8, uint16, uint32, uint64, float32, float64, string:
		default:
			return &engine.UnsupportedExpressionError{Expr: e.String(), Message: fmt.Sprintf("literal kind %T not supported", e.Value)}
		}
	case *engine.BinaryExpr:
		if e.Op.String() == "" {
			return &engine.UnsupportedExpressionError{Expr: e.String(), Message: "unknown operator"}
		}
		if err := validateExpr(e.Left, schema); err != nil {
			return err
		}
		return validateExpr(e.Right, schema)
	default:
		return &engine.UnsupportedExpressionError{Expr: fmt.Sprintf("%T", expr), Message: "unknown expression node"}
	}
	return nil
}

func orderableScalar(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.BOOL,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64,
		arrow.STRING, arrow.LARGE_STRING:
		return true
	}
	return false
}

// evaluator holds one bound (schema, expression) pair. Stateless across
// calls; safe for concurrent use.
type evaluator struct {
	schema *arrow.Schema
	expr   engine.Expression
}

// Evaluate computes one output value per input row as a single-column
// record named "output".
func (ev *evaluator) Evaluate(batch arrow.Record) (arrow.Record, error) {
	if !batch.Schema().Equal(ev.schema) {
		return nil, &engine.EvaluationError{
			Message: fmt.Sprintf("batch schema %s does not match bound schema %s", batch.Schema(), ev.schema),
		}
	}
	vals, dt, err := evalNode(ev.expr, batch)
	if err != nil {
		return nil, err
	}
	col, err := buildColumn(dt, vals)
	if err != nil {
		return nil, err
	}
	schema := arrow.NewSchema([]arrow.Field{{Name: "output", Type: dt, Nullable: true}}, nil)
	return array.NewRecord(schema, []arrow.Array{col}, int64(len(vals))), nil
}

// evalNode evaluates expr over every row of batch. Values are normalized to
// int64/uint64/float64/string/bool, with nil for null.
func evalNode(expr engine.Expression, batch arrow.Record) ([]any, arrow.DataType, error) {
	n := int(batch.NumRows())
	switch e := expr.(type) {
	case *engine.ColumnRef:
		idx := batch.Schema().FieldIndices(e.Name)[0]
		vals, err := columnValues(batch.Column(idx))
		if err != nil {
			return nil, nil, err
		}
		return vals, normalizedType(batch.Schema().Field(idx).Type), nil
	case *engine.Literal:
		v := normalizeValue(e.Value)
		vals := make([]any, n)
		for i := range vals {
			vals[i] = v
		}
		return vals, literalType(v), nil
	case *engine.BinaryExpr:
		lv, _, err := evalNode(e.Left, batch)
		if err != nil {
			return nil, nil, err
		}
		rv, _, err := evalNode(e.Right, batch)
		if err != nil {
			return nil, nil, err
		}
		out := make([]any, n)
		for i := range out {
			r, err := applyOp(e.Op, lv[i], rv[i])
			if err != nil {
				return nil, nil, err
			}
			out[i] = r
		}
		return out, arrow.FixedWidthTypes.Boolean, nil
	}
	return nil, nil, &engine.EvaluationError{Message: fmt.Sprintf("unexpected node %T", expr)}
}

// applyOp applies one operator to a pair of row values. A null operand
// yields null.
func applyOp(op engine.BinaryOp, l, r any) (any, error) {
	if l == nil || r == nil {
		return nil, nil
	}
	switch op {
	case engine.OpAnd, engine.OpOr:
		lb, lok := l.(bool)
		rb, rok := r.(bool)
		if !lok || !rok {
			return nil, &engine.EvaluationError{Message: fmt.Sprintf("%s requires boolean operands, got %T and %T", op, l, r)}
		}
		if op == engine.OpAnd {
			return lb && rb, nil
		}
		return lb || rb, nil
	}
	cmp, err := compareValues(l, r)
	if err != nil {
		return nil, err
	}
	switch op {
	case engine.OpEq:
		return cmp == 0, nil
	case engine.OpNe:
		return cmp != 0, nil
	case engine.OpLt:
		return cmp < 0, nil
	case engine.OpLe:
		return cmp <= 0, nil
	case engine.OpGt:
		return cmp > 0, nil
	case engine.OpGe:
		return cmp >= 0, nil
	}
	return nil, &engine.EvaluationError{Message: fmt.Sprintf("unknown operator %v", op)}
}

func compareValues(l, r any) (int, error) {
	switch lv := l.(type) {
	case bool:
		rv, ok := r.(bool)
		if !ok {
			return 0, typeMismatch(l, r)
		}
		return boolCmp(lv) - boolCmp(rv), nil
	case string:
		rv, ok := r.(string)
		if !ok {
			return 0, typeMismatch(l, r)
		}
		switch {
		case lv < rv:
			return -1, nil
		case lv > rv:
			return 1, nil
		}
		return 0, nil
	case int64, uint64, float64:
		lf, lok := asFloat(l)
		rf, rok := asFloat(r)
		if !lok || !rok {
			return 0, typeMismatch(l, r)
		}
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		}
		return 0, nil
	}
	return 0, typeMismatch(l, r)
}

func typeMismatch(l, r any) error {
	return &engine.EvaluationError{Message: fmt.Sprintf("cannot compare %T with %T", l, r)}
}

func boolCmp(b bool) int {
	if b {
		return 1
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// normalizeValue maps a literal to the evaluator's canonical value kinds.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case float32:
		return float64(n)
	}
	return v
}

func literalType(v any) arrow.DataType {
	switch v.(type) {
	case bool:
		return arrow.FixedWidthTypes.Boolean
	case int64:
		return arrow.PrimitiveTypes.Int64
	case uint64:
		return arrow.PrimitiveTypes.Uint64
	case float64:
		return arrow.PrimitiveTypes.Float64
	case string:
		return arrow.BinaryTypes.String
	}
	return arrow.Null
}

// normalizedType maps a column's arrow type to the type its normalized
// values rebuild into.
func normalizedType(dt arrow.DataType) arrow.DataType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return arrow.PrimitiveTypes.Int64
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return arrow.PrimitiveTypes.Uint64
	case arrow.FLOAT32, arrow.FLOAT64:
		return arrow.PrimitiveTypes.Float64
	case arrow.STRING, arrow.LARGE_STRING:
		return arrow.BinaryTypes.String
	case arrow.BOOL:
		return arrow.FixedWidthTypes.Boolean
	}
	return dt
}

// columnValues extracts a primitive column into normalized Go values.
func columnValues(col arrow.Array) ([]any, error) {
	n := col.Len()
	out := make([]any, n)
	set := func(get func(int) any) {
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				continue
			}
			out[i] = get(i)
		}
	}
	switch a := col.(type) {
	case *array.Boolean:
		set(func(i int) any { return a.Value(i) })
	case *array.Int8:
		set(func(i int) any { return int64(a.Value(i)) })
	case *array.Int16:
		set(func(i int) any { return int64(a.Value(i)) })
	case *array.Int32:
		set(func(i int) any { return int64(a.Value(i)) })
	case *array.Int64:
		set(func(i int) any { return a.Value(i) })
	case *array.Uint8:
		set(func(i int) any { return uint64(a.Value(i)) })
	case *array.Uint16:
		set(func(i int) any { return uint64(a.Value(i)) })
	case *array.Uint32:
		set(func(i int) any { return uint64(a.Value(i)) })
	case *array.Uint64:
		set(func(i int) any { return a.Value(i) })
	case *array.Float32:
		set(func(i int) any { return float64(a.Value(i)) })
	case *array.Float64:
		set(func(i int) any { return a.Value(i) })
	case *array.String:
		set(func(i int) any { return a.Value(i) })
	case *array.LargeString:
		set(func(i int) any { return a.Value(i) })
	default:
		return nil, &engine.EvaluationError{Message: fmt.Sprintf("unsupported column type %s", col.DataType())}
	}
	return out, nil
}

// buildColumn rebuilds normalized values into an arrow array of dt.
func buildColumn(dt arrow.DataType, vals []any) (arrow.Array, error) {
	mem := memory.DefaultAllocator
	switch dt.ID() {
	case arrow.BOOL:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.Append(v.(bool))
			}
		}
		return b.NewArray(), nil
	case arrow.INT64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.Append(v.(int64))
			}
		}
		return b.NewArray(), nil
	case arrow.UINT64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.Append(v.(uint64))
			}
		}
		return b.NewArray(), nil
	case arrow.FLOAT64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.Append(v.(float64))
			}
		}
		return b.NewArray(), nil
	case arrow.STRING:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.Append(v.(string))
			}
		}
		return b.NewArray(), nil
	}
	return nil, &engine.EvaluationError{Message: fmt.Sprintf("cannot build output column of type %s", dt)}
}
