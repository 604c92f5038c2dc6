package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// RecordFromJSON builds a record from a JSON array of row objects, failing
// the test on malformed input.
func RecordFromJSON(t testing.TB, schema *arrow.Schema, rows string) arrow.Record {
	t.Helper()
	rec, _, err := array.RecordFromJSON(memory.DefaultAllocator, schema, strings.NewReader(rows))
	if err != nil {
		t.Fatalf("failed to build record from JSON: %v", err)
	}
	return rec
}

// Int64Schema returns a single-column nullable int64 schema.
func Int64Schema(name string) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, nil)
}

// WriteParquet writes one record to a parquet file at path.
func WriteParquet(t testing.TB, path string, rec arrow.Record) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	fw, err := pqarrow.NewFileWriter(rec.Schema(), f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		t.Fatalf("failed to open parquet writer: %v", err)
	}
	if err := fw.Write(rec); err != nil {
		t.Fatalf("failed to write parquet: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("failed to close parquet writer: %v", err)
	}
}
