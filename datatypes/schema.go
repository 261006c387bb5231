package datatypes

import (
	"github.com/apache/arrow/go/v11/arrow"
)

// NewSchema builds a schema without metadata.
func NewSchema(fields ...arrow.Field) *arrow.Schema {
	return arrow.NewSchema(fields, nil)
}

// FieldIndex returns the position of the first field named name.
func FieldIndex(schema *arrow.Schema, name string) (int, error) {
	for i, field := range schema.Fields() {
		if field.Name == name {
			return i, nil
		}
	}
	return -1, UnknownColumnError(name)
}

// ProjectSchema keeps the named fields, in the order given.
func ProjectSchema(schema *arrow.Schema, names []string) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(names))
	for _, name := range names {
		i, err := FieldIndex(schema, name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field(i))
	}
	return arrow.NewSchema(fields, nil), nil
}
