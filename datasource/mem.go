package datasource

import (
	"context"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// MemDataSource serves columns held in memory.
type MemDataSource struct {
	schema  *arrow.Schema
	columns []arrow.Array
	rows    int64
}

// NewMemDataSource checks that columns line up with schema and have one common length.
func NewMemDataSource(schema *arrow.Schema, columns []arrow.Array) (*MemDataSource, error) {
	if len(columns) != len(schema.Fields()) {
		return nil, errors.Newf("schema has %d fields but %d columns were given", len(schema.Fields()), len(columns))
	}
	var rows int64
	for i, col := range columns {
		field := schema.Field(i)
		if !arrow.TypeEqual(field.Type, col.DataType()) {
			return nil, datatypes.TypeMismatchErrorf("column %s is declared %s but holds %s", field.Name, field.Type, col.DataType())
		}
		if i == 0 {
			rows = int64(col.Len())
		} else if int64(col.Len()) != rows {
			return nil, errors.Newf("column %s has %d rows, expected %d", field.Name, col.Len(), rows)
		}
	}
	for _, col := range columns {
		col.Retain()
	}
	return &MemDataSource{schema: schema, columns: columns, rows: rows}, nil
}

// NewMemDataSourceFromRecord serves the columns of rec.
func NewMemDataSourceFromRecord(rec arrow.Record) *MemDataSource {
	columns := rec.Columns()
	for _, col := range columns {
		col.Retain()
	}
	return &MemDataSource{schema: rec.Schema(), columns: columns, rows: rec.NumRows()}
}

func (src *MemDataSource) Schema() *arrow.Schema {
	return src.schema
}

func (src *MemDataSource) Scan(ctx context.Context, projection []string) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return projectColumns(src.schema, src.columns, src.rows, projection)
}

// Release drops the references the source holds on its columns.
func (src *MemDataSource) Release() {
	for _, col := range src.columns {
		col.Release()
	}
}

func projectColumns(schema *arrow.Schema, columns []arrow.Array, rows int64, projection []string) (arrow.Record, error) {
	if projection == nil {
		return array.NewRecord(schema, columns, rows), nil
	}
	projected, err := datatypes.ProjectSchema(schema, projection)
	if err != nil {
		return nil, err
	}
	cols := make([]arrow.Array, len(projection))
	for i, name := range projection {
		idx, err := datatypes.FieldIndex(schema, name)
		if err != nil {
			return nil, err
		}
		cols[i] = columns[idx]
	}
	return array.NewRecord(projected, cols, rows), nil
}

// projectRecord narrows rec to the projected columns. The returned record holds its own references.
func projectRecord(rec arrow.Record, projection []string) (arrow.Record, error) {
	return projectColumns(rec.Schema(), rec.Columns(), rec.NumRows(), projection)
}
