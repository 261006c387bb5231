package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datasource"
	"github.com/xiaobogaga/miniquery/output"
	"github.com/xiaobogaga/miniquery/parser"
)

// TestQuery runs the files under testdata/query. Commands:
//
//	load file=<name>   open testdata/<name> as the current frame
//	query / explain     apply the "filter <expr>" and "select <exprs>" lines of the input, then print the rows
//	                    in the plain format or the plans
func TestQuery(t *testing.T) {
	datadriven.Walk(t, "testdata/query", func(t *testing.T, path string) {
		var df *DataFrame
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "load":
				var file string
				d.ScanArgs(t, "file", &file)
				options := datasource.DefaultCsvReadOptions()
				if d.HasArg("delimiter") {
					var delimiter string
					d.ScanArgs(t, "delimiter", &delimiter)
					options.Delimiter = []rune(delimiter)[0]
				}
				var err error
				df, err = NewSessionContext().Csv(filepath.Join("testdata", file), options)
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				schema, err := df.Schema()
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				var buf strings.Builder
				for _, field := range schema.Fields() {
					fmt.Fprintf(&buf, "%s: %s\n", field.Name, field.Type)
				}
				return buf.String()
			case "query", "explain":
				q, err := applyLines(df, d.Input)
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				if d.Cmd == "explain" {
					text, err := q.Explain()
					if err != nil {
						return fmt.Sprintf("error: %v", err)
					}
					return text
				}
				rec, err := q.Collect(context.Background())
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				defer rec.Release()
				var buf strings.Builder
				if err := output.NewPlainFormatter(&buf).Format(rec); err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				return buf.String()
			}
			d.Fatalf(t, "unknown command %s", d.Cmd)
			return ""
		})
	})
}

func applyLines(df *DataFrame, input string) (*DataFrame, error) {
	for _, line := range strings.Split(input, "\n") {
		verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch verb {
		case "":
		case "filter":
			predicate, err := parser.ParseExpr(rest)
			if err != nil {
				return nil, err
			}
			df = df.Filter(predicate)
		case "select":
			exprs, err := parser.ParseExprList(rest)
			if err != nil {
				return nil, err
			}
			df = df.Project(exprs...)
		default:
			return nil, errors.Newf("unknown line %q", line)
		}
	}
	return df, nil
}
