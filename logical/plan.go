package logical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/xiaobogaga/miniquery/datasource"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// Plan is a node of a logical plan tree. Nodes are immutable once built and may be shared between trees.
type Plan interface {
	// Schema is the schema of the batches the node produces.
	Schema() (*arrow.Schema, error)
	Children() []Plan
	// String describes the node alone. Format renders the whole tree.
	String() string
}

// Scan reads from a data source. A nil Projection keeps every column.
type Scan struct {
	Path       string
	Source     datasource.DataSource
	Projection []string
}

func NewScan(path string, source datasource.DataSource, projection []string) *Scan {
	return &Scan{Path: path, Source: source, Projection: projection}
}

func (scan *Scan) Schema() (*arrow.Schema, error) {
	if scan.Projection == nil {
		return scan.Source.Schema(), nil
	}
	return datatypes.ProjectSchema(scan.Source.Schema(), scan.Projection)
}

func (scan *Scan) Children() []Plan {
	return nil
}

func (scan *Scan) String() string {
	if scan.Projection == nil {
		return fmt.Sprintf("Scan: %s; projection=None", scan.Path)
	}
	quoted := make([]string, len(scan.Projection))
	for i, name := range scan.Projection {
		quoted[i] = strconv.Quote(name)
	}
	return fmt.Sprintf("Scan: %s; projection=[%s]", scan.Path, strings.Join(quoted, ", "))
}

// Filter keeps the rows of Input for which Predicate is true.
type Filter struct {
	Input     Plan
	Predicate Expr
}

func NewFilter(input Plan, predicate Expr) *Filter {
	return &Filter{Input: input, Predicate: predicate}
}

func (filter *Filter) Schema() (*arrow.Schema, error) {
	return filter.Input.Schema()
}

func (filter *Filter) Children() []Plan {
	return []Plan{filter.Input}
}

func (filter *Filter) String() string {
	return fmt.Sprintf("Filter: %s", filter.Predicate)
}

// Projection computes one output column per expression.
type Projection struct {
	Input Plan
	Exprs []Expr
}

func NewProjection(input Plan, exprs []Expr) *Projection {
	return &Projection{Input: input, Exprs: exprs}
}

func (proj *Projection) Schema() (*arrow.Schema, error) {
	input, err := proj.Input.Schema()
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, 0, len(proj.Exprs))
	for _, expr := range proj.Exprs {
		field, err := expr.ToField(input)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return arrow.NewSchema(fields, nil), nil
}

func (proj *Projection) Children() []Plan {
	return []Plan{proj.Input}
}

func (proj *Projection) String() string {
	return fmt.Sprintf("Projection: %s", exprList(proj.Exprs))
}

// Aggregate groups Input by GroupExprs and computes AggrExprs per group. It is only a placeholder in the logical
// layer: it renders, but has neither a schema nor a physical counterpart.
type Aggregate struct {
	Input      Plan
	GroupExprs []Expr
	AggrExprs  []Expr
}

func NewAggregate(input Plan, groupExprs, aggrExprs []Expr) *Aggregate {
	return &Aggregate{Input: input, GroupExprs: groupExprs, AggrExprs: aggrExprs}
}

func (aggr *Aggregate) Schema() (*arrow.Schema, error) {
	return nil, datatypes.NotImplementedErrorf("schema of %s", aggr)
}

func (aggr *Aggregate) Children() []Plan {
	return []Plan{aggr.Input}
}

func (aggr *Aggregate) String() string {
	return fmt.Sprintf("Aggregate: groupExpr=[%s], aggrExpr=[%s]", exprList(aggr.GroupExprs), exprList(aggr.AggrExprs))
}

// Format renders the tree rooted at plan, one node per line. Each level of depth adds one tab.
func Format(plan Plan) string {
	var buf strings.Builder
	format(&buf, plan, 0)
	return buf.String()
}

func format(buf *strings.Builder, plan Plan, depth int) {
	buf.WriteString(strings.Repeat("\t", depth))
	buf.WriteString(plan.String())
	buf.WriteByte('\n')
	for _, child := range plan.Children() {
		format(buf, child, depth+1)
	}
}
