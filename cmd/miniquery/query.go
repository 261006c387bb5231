package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/xiaobogaga/miniquery/datasource"
	"github.com/xiaobogaga/miniquery/execution"
	"github.com/xiaobogaga/miniquery/output"
	"github.com/xiaobogaga/miniquery/parser"
)

type queryConfig struct {
	filter     string
	projection string
	format     string
	limitPrint int
	delimiter  string
	noHeader   bool
	lazyQuotes bool
	explain    bool
	logPath    string
	verbose    bool
}

var cfg = defaultQueryConfig()

func defaultQueryConfig() queryConfig {
	return queryConfig{format: "table", limitPrint: -1, delimiter: ","}
}

func addQueryFlags(f *pflag.FlagSet, c *queryConfig) {
	f.StringVar(&c.filter, "filter", c.filter, "keep the rows this expression is true for, e.g. \"c2 > 3 AND c1 != 'x'\"")
	f.StringVar(&c.projection, "select", c.projection, "comma separated expressions to print, all columns if empty")
	f.StringVar(&c.format, "format", c.format, "output format: "+strings.Join(output.Formats, ", "))
	f.IntVar(&c.limitPrint, "limit-print", c.limitPrint, "print at most this many rows, all rows if negative")
	f.StringVar(&c.delimiter, "delimiter", c.delimiter, "csv field delimiter")
	f.BoolVar(&c.noHeader, "no-header", c.noHeader, "the csv file has no header line")
	f.BoolVar(&c.lazyQuotes, "lazy-quotes", c.lazyQuotes, "accept bare quotes in csv fields")
	f.BoolVar(&c.explain, "explain", c.explain, "print the logical and physical plans instead of running the query")
	f.StringVar(&c.logPath, "log", c.logPath, "the log file path, no log file if empty")
	f.BoolVarP(&c.verbose, "verbose", "v", c.verbose, "echo log lines to stderr")
}

func openFile(session *execution.SessionContext, path string, c *queryConfig) (*execution.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		options := datasource.DefaultCsvReadOptions()
		options.HasHeader = !c.noHeader
		options.LazyQuotes = c.lazyQuotes
		delimiter, size := utf8.DecodeRuneInString(c.delimiter)
		if delimiter == utf8.RuneError || size != len(c.delimiter) {
			return nil, errors.Newf("delimiter must be a single character, got %q", c.delimiter)
		}
		options.Delimiter = delimiter
		return session.Csv(path, options)
	case ".parquet":
		return session.Parquet(path)
	}
	return nil, errors.Newf("unsupported file %s, expected .csv or .parquet", path)
}

// buildQuery applies --filter and --select to the frame over path.
func buildQuery(session *execution.SessionContext, path string, c *queryConfig) (*execution.DataFrame, error) {
	df, err := openFile(session, path, c)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.filter) != "" {
		predicate, err := parser.ParseExpr(c.filter)
		if err != nil {
			return nil, errors.Wrapf(err, "parse filter %q", c.filter)
		}
		df = df.Filter(predicate)
	}
	if strings.TrimSpace(c.projection) != "" {
		exprs, err := parser.ParseExprList(c.projection)
		if err != nil {
			return nil, errors.Wrapf(err, "parse select %q", c.projection)
		}
		df = df.Project(exprs...)
	}
	return df, nil
}

func runQuery(ctx context.Context, path string, c *queryConfig, w io.Writer) error {
	df, err := buildQuery(execution.NewSessionContext(), path, c)
	if err != nil {
		return err
	}
	if c.explain {
		text, err := df.Explain()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}
	formatter, err := output.New(c.format, w)
	if err != nil {
		return err
	}
	rec, err := df.Collect(ctx)
	if err != nil {
		return err
	}
	defer rec.Release()
	if c.limitPrint >= 0 && int64(c.limitPrint) < rec.NumRows() {
		limited := rec.NewSlice(0, int64(c.limitPrint))
		defer limited.Release()
		return formatter.Format(limited)
	}
	return formatter.Format(rec)
}
