package local

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// JSONReadContext carries the file under read. Opaque to the protocol core.
type JSONReadContext struct {
	Meta engine.FileMeta
}

// JSONHandler implements engine.JSONHandler for newline-delimited JSON files
// on the local file system.
type JSONHandler struct {
	fs     *FileSystem
	logger *slog.Logger
}

// NewJSONHandler returns a JSON handler reading through fs.
func NewJSONHandler(fs *FileSystem, logger *slog.Logger) *JSONHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONHandler{fs: fs, logger: logger}
}

// ContextualizeFileReads wraps each file in a JSONReadContext. The predicate
// is an optimization hint only and is not used here.
func (h *JSONHandler) ContextualizeFileReads(files []engine.FileMeta, _ engine.Expression) ([]JSONReadContext, error) {
	contexts := make([]JSONReadContext, len(files))
	for i, f := range files {
		contexts[i] = JSONReadContext{Meta: f}
	}
	return contexts, nil
}

// ParseJSON parses one JSON object per input string into a record shaped by
// outputSchema. Fields absent from a document become null; fields not named
// in the schema are dropped. Any unparsable document fails the whole call.
func (h *JSONHandler) ParseJSON(jsonStrings []string, outputSchema *arrow.Schema) (arrow.Record, error) {
	b := array.NewRecordBuilder(memory.DefaultAllocator, outputSchema)
	defer b.Release()
	for i, s := range jsonStrings {
		if err := b.UnmarshalJSON([]byte(s)); err != nil {
			return nil, &engine.ParseError{Row: i, Message: err.Error()}
		}
	}
	return b.NewRecord(), nil
}

// ReadJSONFiles reads each context's file as newline-delimited JSON,
// projecting physicalSchema columns. Results preserve input order.
func (h *JSONHandler) ReadJSONFiles(ctx context.Context, files []JSONReadContext, physicalSchema *arrow.Schema) ([]engine.FileDataReadResult, error) {
	results := make([]engine.FileDataReadResult, len(files))
	for i, fc := range files {
		bufs, err := h.fs.ReadFiles(ctx, []engine.FileSlice{engine.WholeFile(fc.Meta)})
		if err != nil {
			return nil, err
		}
		var lines []string
		scanner := bufio.NewScanner(bytes.NewReader(bufs[0]))
		scanner.Buffer(nil, maxJSONLine)
		for scanner.Scan() {
			if line := bytes.TrimSpace(scanner.Bytes()); len(line) > 0 {
				lines = append(lines, string(line))
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, &engine.DecodeError{Path: fc.Meta.Location.Path, Err: err}
		}
		rec, err := h.ParseJSON(lines, physicalSchema)
		if err != nil {
			return nil, err
		}
		results[i] = engine.FileDataReadResult{Meta: fc.Meta, Data: rec}
	}
	return results, nil
}

// maxJSONLine caps a single log line; checkpoints can carry wide add actions.
const maxJSONLine = 16 << 20
