package acceptance

import "fmt"

// SortError reports a sort-key column the canonicalizer cannot compare.
// Composite-kind columns are excluded from the key before this can happen,
// so seeing one means a new scalar type needs a comparator.
type SortError struct {
	Column string
	Type   string
}

func (e *SortError) Error() string {
	return fmt.Sprintf("sort error: column %q has uncomparable type %s", e.Column, e.Type)
}

// MissingGoldenDataError reports a test case with no golden dataset.
type MissingGoldenDataError struct {
	TestCase string
}

func (e *MissingGoldenDataError) Error() string {
	return fmt.Sprintf("no golden data found for test case %q", e.TestCase)
}

// DataMismatchError reports a column whose values differ between the actual
// and golden datasets after canonicalization.
type DataMismatchError struct {
	TestCase string
	Column   string
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf("test case %q: column %q does not equal golden data", e.TestCase, e.Column)
}

// SchemaFieldMismatchError reports a schema field property that differs
// between the actual and golden schemas under the active comparison policy.
type SchemaFieldMismatchError struct {
	TestCase string
	Field    string
	Property string
}

func (e *SchemaFieldMismatchError) Error() string {
	return fmt.Sprintf("test case %q: schema field %q differs from golden: %s", e.TestCase, e.Field, e.Property)
}

// RowCountMismatchError reports differing row counts.
type RowCountMismatchError struct {
	TestCase string
	Actual   int64
	Golden   int64
}

func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("test case %q: actual has %d rows, golden has %d", e.TestCase, e.Actual, e.Golden)
}
