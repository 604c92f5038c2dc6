package acceptance

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// SchemaCompareOptions names the comparison policy for schema equivalence.
// Relaxations are deliberate and explicit: reference encodings routinely
// mark fields nullable that the protocol's declared schema does not, and
// field metadata is not semantically load-bearing.
type SchemaCompareOptions struct {
	// IgnoreNullability excludes field nullability from comparison.
	IgnoreNullability bool
	// IgnoreMetadata excludes field key/value metadata from comparison.
	IgnoreMetadata bool
}

// DefaultSchemaCompareOptions is the policy the conformance oracle uses:
// nullability and metadata both ignored.
func DefaultSchemaCompareOptions() SchemaCompareOptions {
	return SchemaCompareOptions{IgnoreNullability: true, IgnoreMetadata: true}
}

// FieldsEquivalent checks field-level structural equivalence between two
// schemas under opts: field count, then per field the name, declared data
// type, and dictionary ordering must match exactly. Returns nil or a
// *SchemaFieldMismatchError naming the first violated property.
func FieldsEquivalent(actual, golden *arrow.Schema, opts SchemaCompareOptions) error {
	if actual.NumFields() != golden.NumFields() {
		return &SchemaFieldMismatchError{Field: "", Property: "field count differs"}
	}
	for i := 0; i < actual.NumFields(); i++ {
		af, gf := actual.Field(i), golden.Field(i)
		if af.Name != gf.Name {
			return &SchemaFieldMismatchError{Field: af.Name, Property: "name differs"}
		}
		if !arrow.TypeEqual(af.Type, gf.Type) {
			return &SchemaFieldMismatchError{Field: af.Name, Property: "data type differs"}
		}
		if ad, ok := af.Type.(*arrow.DictionaryType); ok {
			if gd, ok := gf.Type.(*arrow.DictionaryType); ok && ad.Ordered != gd.Ordered {
				return &SchemaFieldMismatchError{Field: af.Name, Property: "dictionary ordering differs"}
			}
		}
		if !opts.IgnoreNullability && af.Nullable != gf.Nullable {
			return &SchemaFieldMismatchError{Field: af.Name, Property: "nullability differs"}
		}
		if !opts.IgnoreMetadata && af.Metadata.String() != gf.Metadata.String() {
			return &SchemaFieldMismatchError{Field: af.Name, Property: "metadata differs"}
		}
	}
	return nil
}
