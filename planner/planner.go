package planner

import (
	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/logical"
	"github.com/xiaobogaga/miniquery/physical"
	"github.com/xiaobogaga/miniquery/util"
)

var log = util.GetLog("planner")

// Planner lowers logical plans to physical plans. Column references are resolved to positions in the schema of
// the node's input, and every physical node allocates from mem.
type Planner struct {
	mem memory.Allocator
}

func NewPlanner(mem memory.Allocator) *Planner {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &Planner{mem: mem}
}

// CreatePhysicalPlan lowers plan with the default allocator.
func CreatePhysicalPlan(plan logical.Plan) (physical.Plan, error) {
	return NewPlanner(nil).CreatePhysicalPlan(plan)
}

// CreatePhysicalExpr binds expr to schema with the default allocator.
func CreatePhysicalExpr(schema *arrow.Schema, expr logical.Expr) (physical.Expr, error) {
	return NewPlanner(nil).CreatePhysicalExpr(schema, expr)
}

func (p *Planner) CreatePhysicalPlan(plan logical.Plan) (physical.Plan, error) {
	switch plan := plan.(type) {
	case *logical.Scan:
		return physical.NewScanExec(plan.Path, plan.Source, plan.Projection)
	case *logical.Filter:
		input, err := p.CreatePhysicalPlan(plan.Input)
		if err != nil {
			return nil, err
		}
		schema, err := plan.Input.Schema()
		if err != nil {
			return nil, err
		}
		predicate, err := p.CreatePhysicalExpr(schema, plan.Predicate)
		if err != nil {
			return nil, err
		}
		dt, err := plan.Predicate.DataType(schema)
		if err != nil {
			return nil, err
		}
		if dt.ID() != arrow.BOOL && dt.ID() != arrow.NULL {
			return nil, datatypes.TypeMismatchErrorf("filter predicate %s is %s, expected boolean", plan.Predicate, dt)
		}
		log.DebugF("planned filter %s", predicate)
		return physical.NewFilterExec(p.mem, input, predicate), nil
	case *logical.Projection:
		input, err := p.CreatePhysicalPlan(plan.Input)
		if err != nil {
			return nil, err
		}
		schema, err := plan.Input.Schema()
		if err != nil {
			return nil, err
		}
		fields := make([]arrow.Field, 0, len(plan.Exprs))
		exprs := make([]physical.Expr, 0, len(plan.Exprs))
		for _, e := range plan.Exprs {
			field, err := e.ToField(schema)
			if err != nil {
				return nil, err
			}
			expr, err := p.CreatePhysicalExpr(schema, e)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			exprs = append(exprs, expr)
		}
		log.DebugF("planned projection of %d expressions", len(exprs))
		return physical.NewProjectionExec(p.mem, input, exprs, arrow.NewSchema(fields, nil))
	case *logical.Aggregate:
		return nil, datatypes.NotImplementedErrorf("physical plan for %s", plan)
	}
	return nil, datatypes.NotImplementedErrorf("physical plan for %T", plan)
}

func (p *Planner) CreatePhysicalExpr(schema *arrow.Schema, expr logical.Expr) (physical.Expr, error) {
	switch expr := expr.(type) {
	case *logical.Column:
		i, err := datatypes.FieldIndex(schema, expr.Name)
		if err != nil {
			return nil, err
		}
		return physical.NewColumnExpr(expr.Name, i), nil
	case *logical.Literal:
		return physical.NewLiteralExpr(expr.Value), nil
	case *logical.Binary:
		// Type check the whole subtree once, before anything is evaluated.
		if _, err := expr.DataType(schema); err != nil {
			return nil, err
		}
		lhs, err := p.CreatePhysicalExpr(schema, expr.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := p.CreatePhysicalExpr(schema, expr.Rhs)
		if err != nil {
			return nil, err
		}
		return physical.NewBinaryExpr(p.mem, lhs, expr.Op, rhs), nil
	case *logical.AggregateExpr:
		return nil, datatypes.NotImplementedErrorf("physical expression for %s", expr)
	}
	return nil, datatypes.NotImplementedErrorf("physical expression for %T", expr)
}
