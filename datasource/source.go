package datasource

import (
	"context"

	"github.com/apache/arrow/go/v11/arrow"
)

// DataSource produces record batches for a scan.
//
// Scan returns one batch holding the requested columns in the requested order, or every column when projection
// is nil. Naming a column that is not part of the schema fails with datatypes.ErrUnknownColumn.
type DataSource interface {
	Schema() *arrow.Schema
	Scan(ctx context.Context, projection []string) (arrow.Record, error)
}
