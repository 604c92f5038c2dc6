package acceptance

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldSchema(fields ...arrow.Field) *arrow.Schema {
	return arrow.NewSchema(fields, nil)
}

func TestFieldsEquivalent(t *testing.T) {
	int64Field := func(name string, nullable bool) arrow.Field {
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: nullable}
	}

	tests := []struct {
		name     string
		actual   *arrow.Schema
		golden   *arrow.Schema
		opts     SchemaCompareOptions
		property string
	}{
		{
			name:   "identical",
			actual: fieldSchema(int64Field("a", true)),
			golden: fieldSchema(int64Field("a", true)),
		},
		{
			name:     "field count",
			actual:   fieldSchema(int64Field("a", true)),
			golden:   fieldSchema(int64Field("a", true), int64Field("b", true)),
			property: "field count differs",
		},
		{
			name:     "name",
			actual:   fieldSchema(int64Field("a", true)),
			golden:   fieldSchema(int64Field("b", true)),
			property: "name differs",
		},
		{
			name:     "data type",
			actual:   fieldSchema(int64Field("a", true)),
			golden:   fieldSchema(arrow.Field{Name: "a", Type: arrow.BinaryTypes.String, Nullable: true}),
			property: "data type differs",
		},
		{
			name:   "nullability ignored by default policy",
			actual: fieldSchema(int64Field("a", false)),
			golden: fieldSchema(int64Field("a", true)),
			opts:   DefaultSchemaCompareOptions(),
		},
		{
			name:     "nullability enforced when strict",
			actual:   fieldSchema(int64Field("a", false)),
			golden:   fieldSchema(int64Field("a", true)),
			property: "nullability differs",
		},
		{
			name: "metadata ignored by default policy",
			actual: fieldSchema(arrow.Field{
				Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true,
				Metadata: arrow.NewMetadata([]string{"origin"}, []string{"test"}),
			}),
			golden: fieldSchema(int64Field("a", true)),
			opts:   DefaultSchemaCompareOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FieldsEquivalent(tt.actual, tt.golden, tt.opts)
			if tt.property == "" {
				assert.NoError(t, err)
				return
			}
			var mismatch *SchemaFieldMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.property, mismatch.Property)
		})
	}
}
