package execution

import (
	"context"
	"io"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/xiaobogaga/miniquery/logical"
	"github.com/xiaobogaga/miniquery/output"
	"github.com/xiaobogaga/miniquery/physical"
)

// DataFrame is an immutable handle on a logical plan. Every transformation returns a new DataFrame whose plan has
// the old one as input, so one DataFrame can be the base of several queries.
type DataFrame struct {
	session *SessionContext
	plan    logical.Plan
}

func (df *DataFrame) with(plan logical.Plan) *DataFrame {
	return &DataFrame{session: df.session, plan: plan}
}

// Filter keeps the rows for which predicate is true.
func (df *DataFrame) Filter(predicate logical.Expr) *DataFrame {
	return df.with(logical.NewFilter(df.plan, predicate))
}

// Project computes one output column per expression.
func (df *DataFrame) Project(exprs ...logical.Expr) *DataFrame {
	return df.with(logical.NewProjection(df.plan, exprs))
}

// Select projects the named columns.
func (df *DataFrame) Select(names ...string) *DataFrame {
	exprs := make([]logical.Expr, len(names))
	for i, name := range names {
		exprs[i] = logical.Col(name)
	}
	return df.Project(exprs...)
}

func (df *DataFrame) LogicalPlan() logical.Plan {
	return df.plan
}

func (df *DataFrame) Schema() (*arrow.Schema, error) {
	return df.plan.Schema()
}

func (df *DataFrame) PhysicalPlan() (physical.Plan, error) {
	return df.session.planner.CreatePhysicalPlan(df.plan)
}

// Collect plans and runs the query. The caller releases the returned batch.
func (df *DataFrame) Collect(ctx context.Context) (arrow.Record, error) {
	plan, err := df.PhysicalPlan()
	if err != nil {
		return nil, err
	}
	log.DebugF("executing\n%s", physical.Format(plan))
	rec, err := plan.Execute(ctx)
	if err != nil {
		log.ErrorF("query failed: %v", err)
		return nil, err
	}
	return rec, nil
}

// Explain renders the logical plan followed by the physical plan it lowers to.
func (df *DataFrame) Explain() (string, error) {
	plan, err := df.PhysicalPlan()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString("logical plan:\n")
	buf.WriteString(logical.Format(df.plan))
	buf.WriteString("physical plan:\n")
	buf.WriteString(physical.Format(plan))
	return buf.String(), nil
}

// Show collects the query and prints it as a table.
func (df *DataFrame) Show(ctx context.Context, w io.Writer) error {
	rec, err := df.Collect(ctx)
	if err != nil {
		return err
	}
	defer rec.Release()
	return output.NewTableFormatter(w).Format(rec)
}
