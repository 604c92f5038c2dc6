package engine

import (
	"context"
	"iter"
	"net/url"

	"github.com/apache/arrow-go/v18/arrow"
)

// FileMeta describes one addressable object in storage.
// Immutable once constructed.
type FileMeta struct {
	// Location is the fully qualified URL of the object.
	Location *url.URL
	// LastModified is the modification time in milliseconds since the epoch.
	LastModified int64
	// Size is the object size in bytes.
	Size int64
}

// FileSlice requests a contiguous byte range [Start, End) of one object.
// Multiple slices may reference the same location; overlapping ranges are
// legal.
type FileSlice struct {
	Location *url.URL
	Start    int64
	End      int64
}

// WholeFile returns a slice covering all of meta.
func WholeFile(meta FileMeta) FileSlice {
	return FileSlice{Location: meta.Location, Start: 0, End: meta.Size}
}

// FileDataReadResult associates decoded tabular data with the file it came
// from.
type FileDataReadResult struct {
	Meta FileMeta
	Data arrow.Record
}

// ExpressionEvaluator evaluates one bound expression against columnar
// batches. An evaluator is created once per (schema, expression) pair and may
// be invoked many times; it is safe for concurrent use.
type ExpressionEvaluator interface {
	// Evaluate computes one output value per input row. The batch schema
	// must match the schema the evaluator was built with; otherwise it
	// fails with *EvaluationError. The output is a single-column record
	// whose type is the expression's output type.
	Evaluate(batch arrow.Record) (arrow.Record, error)
}

// ExpressionHandler provides expression evaluation capability to the
// protocol core.
type ExpressionHandler interface {
	// GetEvaluator binds expr to an input schema. It performs no I/O and
	// has no side effects; it fails with *UnsupportedExpressionError if
	// the host cannot evaluate that expression shape.
	GetEvaluator(schema *arrow.Schema, expr Expression) (ExpressionEvaluator, error)
}

// FileSystemClient provides file system access to the protocol core.
//
// Implementations may suspend on external storage and must be safe for
// concurrent read-only use across scans.
type FileSystemClient interface {
	// ListFrom lazily yields objects whose location is lexicographically
	// greater than or equal to path (UTF-8 byte ordering), in strictly
	// ascending order by location. Callers rely on this for resumable,
	// prefix-bounded listing and may stop consuming early. A listing
	// failure is yielded as an *IOError; entries already yielded stand.
	ListFrom(ctx context.Context, path *url.URL) iter.Seq2[FileMeta, error]

	// ReadFiles returns one buffer per slice, in input order. A single
	// failure fails the whole call; callers needing partial tolerance
	// issue one call per slice.
	ReadFiles(ctx context.Context, slices []FileSlice) ([][]byte, error)
}

// FileHandler attaches host-specific read contexts to scan files.
//
// The context type C is chosen by the host. The core never inspects a
// context; it only threads each one, in order, into the matching read call.
type FileHandler[C any] interface {
	// ContextualizeFileReads returns exactly one context per input file,
	// same order. It is a pure transformation and must not perform I/O.
	// The predicate is advisory: hosts may use it to prune work, but row
	// correctness never depends on it. A nil predicate means no hint.
	ContextualizeFileReads(files []FileMeta, predicate Expression) ([]C, error)
}

// JSONHandler provides JSON decoding capability to the protocol core.
type JSONHandler[C any] interface {
	FileHandler[C]

	// ParseJSON parses one JSON document per input string, projecting
	// only the fields named in outputSchema. A row that cannot be parsed
	// fails the whole call with *ParseError.
	ParseJSON(jsonStrings []string, outputSchema *arrow.Schema) (arrow.Record, error)

	// ReadJSONFiles reads and decodes each context's underlying file,
	// projecting physicalSchema columns. Results preserve input order.
	ReadJSONFiles(ctx context.Context, files []C, physicalSchema *arrow.Schema) ([]FileDataReadResult, error)
}

// ParquetHandler provides parquet decoding capability to the protocol core.
type ParquetHandler[C any] interface {
	FileHandler[C]

	// ReadParquetFiles reads and decodes each context's underlying file,
	// projecting physicalSchema columns. A nil physicalSchema selects the
	// file's own schema. Results preserve input order.
	ReadParquetFiles(ctx context.Context, files []C, physicalSchema *arrow.Schema) ([]FileDataReadResult, error)
}

// Engine bundles one long-lived instance of every capability the protocol
// core may call on a host. J and P are the host's read-context types for
// JSON and parquet reads, fixed for the engine's lifetime; the core is
// generic over them and never constructs one.
//
// Capability instances are shared across scans and may be invoked
// concurrently; implementations must be safe under concurrent read-only use.
type Engine[J, P any] interface {
	ExpressionHandler() ExpressionHandler
	FileSystemClient() FileSystemClient
	JSONHandler() JSONHandler[J]
	ParquetHandler() ParquetHandler[P]
}
