package physical

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datasource"
	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/util"
)

var execLog = util.GetLog("exec")

// Plan is an executable node. Execute pulls the whole input of the node and returns one batch; executing the
// same plan again reads the sources again and returns an equal batch.
type Plan interface {
	Schema() *arrow.Schema
	Children() []Plan
	Execute(ctx context.Context) (arrow.Record, error)
	String() string
}

type ScanExec struct {
	Path       string
	Source     datasource.DataSource
	Projection []string
	schema     *arrow.Schema
}

func NewScanExec(path string, source datasource.DataSource, projection []string) (*ScanExec, error) {
	schema := source.Schema()
	if projection != nil {
		var err error
		if schema, err = datatypes.ProjectSchema(schema, projection); err != nil {
			return nil, err
		}
	}
	return &ScanExec{Path: path, Source: source, Projection: projection, schema: schema}, nil
}

func (scan *ScanExec) Schema() *arrow.Schema {
	return scan.schema
}

func (scan *ScanExec) Children() []Plan {
	return nil
}

func (scan *ScanExec) Execute(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := scan.Source.Scan(ctx, scan.Projection)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", scan.Path)
	}
	execLog.DebugF("scan %s: %d rows", scan.Path, rec.NumRows())
	return rec, nil
}

func (scan *ScanExec) String() string {
	if scan.Projection == nil {
		return fmt.Sprintf("ScanExec: %s; projection=None", scan.Path)
	}
	quoted := make([]string, len(scan.Projection))
	for i, name := range scan.Projection {
		quoted[i] = strconv.Quote(name)
	}
	return fmt.Sprintf("ScanExec: %s; projection=[%s]", scan.Path, strings.Join(quoted, ", "))
}

type FilterExec struct {
	Input     Plan
	Predicate Expr
	mem       memory.Allocator
}

func NewFilterExec(mem memory.Allocator, input Plan, predicate Expr) *FilterExec {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &FilterExec{Input: input, Predicate: predicate, mem: mem}
}

func (filter *FilterExec) Schema() *arrow.Schema {
	return filter.Input.Schema()
}

func (filter *FilterExec) Children() []Plan {
	return []Plan{filter.Input}
}

func (filter *FilterExec) Execute(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	batch, err := filter.Input.Execute(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Release()
	v, err := filter.Predicate.Evaluate(batch)
	if err != nil {
		return nil, errors.Wrapf(err, "filter %s", filter.Predicate)
	}
	defer v.Release()
	if v.IsScalar() {
		return nil, datatypes.TypeMismatchErrorf("filter predicate %s is a scalar, expected a boolean column", filter.Predicate)
	}
	mask, ok := v.Array().(*array.Boolean)
	if !ok {
		return nil, datatypes.TypeMismatchErrorf("filter predicate %s is %s, expected boolean", filter.Predicate, v.DataType())
	}
	out, err := filterRecord(filter.mem, batch, mask)
	if err != nil {
		return nil, err
	}
	execLog.DebugF("filter %s: kept %d of %d rows", filter.Predicate, out.NumRows(), batch.NumRows())
	return out, nil
}

func (filter *FilterExec) String() string {
	return fmt.Sprintf("FilterExec: %s", filter.Predicate)
}

// ProjectionExec evaluates one expression per output column. The schema is computed by the planner from the
// logical expressions.
type ProjectionExec struct {
	Input  Plan
	Exprs  []Expr
	schema *arrow.Schema
	mem    memory.Allocator
}

func NewProjectionExec(mem memory.Allocator, input Plan, exprs []Expr, schema *arrow.Schema) (*ProjectionExec, error) {
	if len(exprs) != len(schema.Fields()) {
		return nil, errors.AssertionFailedf("%d expressions for %d output fields", len(exprs), len(schema.Fields()))
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &ProjectionExec{Input: input, Exprs: exprs, schema: schema, mem: mem}, nil
}

func (proj *ProjectionExec) Schema() *arrow.Schema {
	return proj.schema
}

func (proj *ProjectionExec) Children() []Plan {
	return []Plan{proj.Input}
}

func (proj *ProjectionExec) Execute(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	batch, err := proj.Input.Execute(ctx)
	if err != nil {
		return nil, err
	}
	defer batch.Release()
	rows := batch.NumRows()
	cols := make([]arrow.Array, 0, len(proj.Exprs))
	defer func() {
		for _, col := range cols {
			col.Release()
		}
	}()
	for i, expr := range proj.Exprs {
		v, err := expr.Evaluate(batch)
		if err != nil {
			return nil, errors.Wrapf(err, "project %s", expr)
		}
		col := v.ToArray(proj.mem, int(rows))
		v.Release()
		cols = append(cols, col)
		field := proj.schema.Field(i)
		if !arrow.TypeEqual(field.Type, col.DataType()) {
			return nil, errors.AssertionFailedf("%s evaluated to %s, planned as %s", expr, col.DataType(), field.Type)
		}
	}
	return array.NewRecord(proj.schema, cols, rows), nil
}

func (proj *ProjectionExec) String() string {
	names := make([]string, len(proj.Exprs))
	for i, expr := range proj.Exprs {
		names[i] = expr.String()
	}
	return fmt.Sprintf("ProjectionExec: %s", strings.Join(names, ", "))
}

// Format renders the tree rooted at plan, one node per line, children indented by one tab.
func Format(plan Plan) string {
	var buf strings.Builder
	var format func(p Plan, depth int)
	format = func(p Plan, depth int) {
		buf.WriteString(strings.Repeat("\t", depth))
		buf.WriteString(p.String())
		buf.WriteByte('\n')
		for _, child := range p.Children() {
			format(child, depth+1)
		}
	}
	format(plan, 0)
	return buf.String()
}
