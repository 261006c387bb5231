package execution

import (
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/xiaobogaga/miniquery/datasource"
	"github.com/xiaobogaga/miniquery/logical"
	"github.com/xiaobogaga/miniquery/planner"
	"github.com/xiaobogaga/miniquery/util"
)

var log = util.GetLog("session")

// SessionContext is the entry point for building queries. It owns the allocator every plan built from it uses.
type SessionContext struct {
	mem     memory.Allocator
	planner *planner.Planner
}

func NewSessionContext() *SessionContext {
	return NewSessionContextWithAllocator(memory.DefaultAllocator)
}

func NewSessionContextWithAllocator(mem memory.Allocator) *SessionContext {
	return &SessionContext{mem: mem, planner: planner.NewPlanner(mem)}
}

// Csv starts a query over a CSV file.
func (ctx *SessionContext) Csv(path string, options datasource.CsvReadOptions) (*DataFrame, error) {
	src, err := datasource.NewCsvDataSource(path, options)
	if err != nil {
		return nil, err
	}
	log.InfoF("registered csv %s with %d columns", path, len(src.Schema().Fields()))
	return ctx.Read(path, src), nil
}

// Parquet starts a query over a parquet file.
func (ctx *SessionContext) Parquet(path string) (*DataFrame, error) {
	src, err := datasource.NewParquetDataSource(path)
	if err != nil {
		return nil, err
	}
	log.InfoF("registered parquet %s with %d columns", path, len(src.Schema().Fields()))
	return ctx.Read(path, src), nil
}

// Read starts a query over any data source. name is only used when the plan is printed.
func (ctx *SessionContext) Read(name string, source datasource.DataSource) *DataFrame {
	return &DataFrame{session: ctx, plan: logical.NewScan(name, source, nil)}
}
