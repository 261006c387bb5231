package physical

import (
	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
)

// filterRecord keeps the rows of batch where mask is true. Null mask entries drop the row. Columns are cut into
// runs of selected rows and stitched back together, so the relative order of rows is kept.
func filterRecord(mem memory.Allocator, batch arrow.Record, mask *array.Boolean) (arrow.Record, error) {
	if int64(mask.Len()) != batch.NumRows() {
		return nil, errors.AssertionFailedf("mask has %d rows, batch has %d", mask.Len(), batch.NumRows())
	}
	type run struct{ start, end int64 }
	var runs []run
	var selected int64
	for i := 0; i < mask.Len(); i++ {
		if !mask.IsValid(i) || !mask.Value(i) {
			continue
		}
		selected++
		if n := len(runs); n > 0 && runs[n-1].end == int64(i) {
			runs[n-1].end++
			continue
		}
		runs = append(runs, run{int64(i), int64(i) + 1})
	}

	cols := make([]arrow.Array, 0, batch.NumCols())
	defer func() {
		for _, col := range cols {
			col.Release()
		}
	}()
	for _, col := range batch.Columns() {
		switch len(runs) {
		case 0:
			cols = append(cols, array.NewSlice(col, 0, 0))
		case 1:
			cols = append(cols, array.NewSlice(col, runs[0].start, runs[0].end))
		default:
			parts := make([]arrow.Array, len(runs))
			for j, r := range runs {
				parts[j] = array.NewSlice(col, r.start, r.end)
			}
			merged, err := array.Concatenate(parts, mem)
			for _, part := range parts {
				part.Release()
			}
			if err != nil {
				return nil, errors.Wrap(err, "filter")
			}
			cols = append(cols, merged)
		}
	}
	return array.NewRecord(batch.Schema(), cols, selected), nil
}
