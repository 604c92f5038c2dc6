package engine

import "fmt"

// IOError wraps a listing or read failure surfaced by a capability.
// The core surfaces these to the caller; retry policy belongs to the host.
type IOError struct {
	Op   string // operation that failed, e.g. "list", "read"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s of %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed JSON content. Fatal for the whole call that
// encountered it; there is no row-level partial tolerance at this layer.
type ParseError struct {
	Row     int // index of the offending input string, -1 if unknown
	Message string
}

func (e *ParseError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("parse error at input %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// DecodeError reports malformed file content in a binary format. Fatal for
// that file's read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error in %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EvaluationError reports an input batch incompatible with the schema an
// evaluator was built for.
type EvaluationError struct {
	Message string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error: %s", e.Message)
}

// UnsupportedExpressionError reports an expression shape the host cannot
// evaluate. Raised at evaluator construction, never at evaluation.
type UnsupportedExpressionError struct {
	Expr    string
	Message string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression %s: %s", e.Expr, e.Message)
}

// SchemaMismatchError reports an attempt to concatenate batches whose
// schemas differ structurally.
type SchemaMismatchError struct {
	Expected string
	Actual   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// MissingDataError reports a scan result that carried no payload. This is a
// host contract violation: a scan result must always carry data.
type MissingDataError struct {
	Message string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing data: %s", e.Message)
}
