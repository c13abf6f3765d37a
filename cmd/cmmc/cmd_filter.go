package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/files"
	"github.com/cmmc-org/cmmc/frame"
)

var (
	filterWhere []string
	filterSnake bool
	filterComma string

	filterGroupBy []string
	filterAgg     string
	filterMeasure string
	filterSort    string
	filterLimit   int
)

// filterCmd keeps the rows matching every --where clause
var filterCmd = &cobra.Command{
	Use:   "filter FILE...",
	Short: "Filter CSV or NDJSON rows by column conditions",
	Long: `Loads every FILE into one table (.csv by header, anything else as NDJSON)
and keeps the rows matching all --where clauses. A clause is
<column><op><value> with op one of ==, =, !=, >, >=, <, <=.

With --group-by or --agg the matching rows are reduced to one row per group:
the group columns, the row count and the aggregated --measure.

Example:
  cmmc filter results.csv --snake --where "score>=0.9" --where "model_name==alpha"
  cmmc filter results.csv --snake --group-by model_name --agg avg --measure score --sort value_desc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringArrayVarP(&filterWhere, "where", "w", nil, "Condition such as 'age>=30' (repeatable)")
	filterCmd.Flags().BoolVar(&filterSnake, "snake", false, "Normalize CSV headers to snake_case")
	filterCmd.Flags().StringVar(&filterComma, "comma", ",", "CSV field delimiter")
	filterCmd.Flags().StringSliceVarP(&filterGroupBy, "group-by", "g", nil, "Columns to group by (comma separated)")
	filterCmd.Flags().StringVar(&filterAgg, "agg", "", "Aggregation: count, sum, avg, min, max")
	filterCmd.Flags().StringVar(&filterMeasure, "measure", "", "Column the aggregation reduces")
	filterCmd.Flags().StringVar(&filterSort, "sort", "", "Group order: value_desc, value_asc, label_asc, label_desc")
	filterCmd.Flags().IntVar(&filterLimit, "limit", 0, "Keep at most this many groups (0 = all)")
}

func runFilter(cmd *cobra.Command, paths []string) error {
	conds := make([]frame.Condition, 0, len(filterWhere))
	for _, w := range filterWhere {
		c, err := frame.ParseCondition(w)
		if err != nil {
			return err
		}
		conds = append(conds, c)
	}

	var view frame.View
	for _, p := range paths {
		f, err := readTable(p)
		if err != nil {
			return err
		}
		logger.Debug("loaded table", zap.String("path", p), zap.Int("rows", f.Len()), zap.Strings("columns", f.Columns()))
		if view == nil {
			view = f
		} else {
			view = frame.Concat(view, f)
		}
	}

	filtered, err := frame.FilterAll(view, conds...)
	if err != nil {
		return err
	}
	logger.Debug("filtered", zap.Int("before", view.Len()), zap.Int("after", filtered.Len()))

	if len(filterGroupBy) == 0 && filterAgg == "" {
		return writeView(cmd, filtered)
	}

	spec := frame.AggregateSpec{GroupBy: filterGroupBy, Measure: filterMeasure, Limit: filterLimit}
	if filterAgg != "" {
		if spec.Aggregation, err = frame.ParseAggregation(filterAgg); err != nil {
			return err
		}
	}
	if spec.SortBy, err = frame.ParseSort(filterSort); err != nil {
		return err
	}
	summary, err := frame.Aggregate(filtered, spec)
	if err != nil {
		return err
	}
	return writeView(cmd, summary)
}

func readTable(path string) (*frame.Frame, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		comma := []rune(filterComma)
		if len(comma) != 1 {
			return nil, errors.Errorf("--comma must be a single character, got %q", filterComma)
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open CSV")
		}
		defer f.Close()

		fr, err := frame.ReadCSV(f, frame.WithSnakeCase(filterSnake), frame.WithComma(comma[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return fr, nil
	}

	rows, err := files.LoadNDJSON(path, files.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return frame.FromRecords(rows), nil
}
