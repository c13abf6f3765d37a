package frame

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/cmmc-org/cmmc/state"
)

// ============================================================================
// AGGREGATE — Grouping, Aggregation, and Sorting via View
// ============================================================================
// Grouping produces subViews (index lists into the parent view).
// Pipeline: group → aggregate → sort → limit → Frame.
// ============================================================================

// Aggregation names a reduction over a measure column.
type Aggregation string

const (
	AggCount Aggregation = "count"
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
)

// ParseAggregation validates an aggregation name.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(s))); a {
	case AggCount, AggSum, AggAvg, AggMin, AggMax:
		return a, nil
	}
	return "", fmt.Errorf("unknown aggregation %q: want count, sum, avg, min or max", s)
}

// Sort orders aggregated groups.
type Sort string

const (
	SortNone      Sort = ""
	SortValueDesc Sort = "value_desc"
	SortValueAsc  Sort = "value_asc"
	SortLabelAsc  Sort = "label_asc"
	SortLabelDesc Sort = "label_desc"
)

// Group is one distinct key of the grouping column(s) with the rows that
// carry it.
type Group struct {
	Key   []any
	Label string
	View  View
	Count int
	Value float64
}

// AggregateSpec describes one Aggregate call. An empty GroupBy reduces the
// whole view to a single "all" group.
type AggregateSpec struct {
	GroupBy     []string
	Measure     string
	Aggregation Aggregation
	SortBy      Sort
	Limit       int
}

// GroupBy splits view by the values of columns, in first-seen order.
// Rows missing a column group under nil.
func GroupBy(view View, columns ...string) []Group {
	if len(columns) == 0 {
		return []Group{{Label: "all", View: view}}
	}

	grouped := make(map[string][]int)
	keys := make(map[string][]any)
	var order []string

	for i := 0; i < view.Len(); i++ {
		key := make([]any, len(columns))
		for j, c := range columns {
			key[j], _ = view.Value(i, c)
		}
		id := groupID(key)
		if _, exists := grouped[id]; !exists {
			order = append(order, id)
			keys[id] = key
		}
		grouped[id] = append(grouped[id], i)
	}

	groups := make([]Group, 0, len(order))
	for _, id := range order {
		groups = append(groups, Group{
			Key:   keys[id],
			Label: groupLabel(keys[id]),
			View:  newSubView(view, grouped[id]),
		})
	}
	return groups
}

// groupID encodes a key without the collisions of its display label:
// 1 and "1" differ, and so do ["a / b", "c"] and ["a", "b / c"].
func groupID(key []any) string {
	b, err := json.Marshal(key)
	if err != nil {
		return fmt.Sprintf("%#v", key)
	}
	return string(b)
}

func groupLabel(key []any) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = cell(k)
	}
	return strings.Join(parts, " / ")
}

// Aggregate groups view, reduces Measure in every group and returns one row
// per group: the grouping columns, "count", then "<agg>_<measure>".
func Aggregate(view View, spec AggregateSpec) (*Frame, error) {
	for _, c := range spec.GroupBy {
		if !slices.Contains(view.Columns(), c) {
			return nil, fmt.Errorf("%w %q", ErrUnknownColumn, c)
		}
	}
	agg := spec.Aggregation
	if agg == "" {
		agg = AggCount
	}
	if _, err := ParseAggregation(string(agg)); err != nil {
		return nil, err
	}
	if agg != AggCount && !slices.Contains(view.Columns(), spec.Measure) {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, spec.Measure)
	}

	groups := GroupBy(view, spec.GroupBy...)
	for i := range groups {
		if err := aggregateGroup(&groups[i], spec.Measure, agg); err != nil {
			return nil, err
		}
	}

	SortGroups(groups, spec.SortBy)
	if spec.Limit > 0 && len(groups) > spec.Limit {
		groups = groups[:spec.Limit]
	}

	valueCol := string(agg)
	if agg != AggCount {
		valueCol = string(agg) + "_" + spec.Measure
	}
	columns := append(slices.Clone(spec.GroupBy), "count")
	if agg != AggCount {
		columns = append(columns, valueCol)
	}

	rows := make([]*state.State, 0, len(groups))
	for _, g := range groups {
		row := state.New(nil)
		for j, c := range spec.GroupBy {
			row.Set(c, g.Key[j])
		}
		row.Set("count", g.Count)
		if agg != AggCount {
			if math.IsNaN(g.Value) {
				row.Set(valueCol, nil)
			} else {
				row.Set(valueCol, g.Value)
			}
		}
		rows = append(rows, row)
	}
	return New(columns, rows), nil
}

// aggregateGroup fills Count and Value. Non-numeric and missing measure
// entries are skipped; a group with none left gets NaN.
func aggregateGroup(group *Group, measure string, agg Aggregation) error {
	group.Count = group.View.Len()
	if agg == AggCount {
		group.Value = float64(group.Count)
		return nil
	}

	var values []float64
	for i := 0; i < group.View.Len(); i++ {
		v, ok := group.View.Value(i, measure)
		if !ok || v == nil {
			continue
		}
		f, ok := toNumber(v)
		if !ok {
			var err error
			if f, err = cast.ToFloat64E(v); err != nil {
				continue
			}
		}
		values = append(values, f)
	}
	if len(values) == 0 {
		group.Value = math.NaN()
		return nil
	}

	switch agg {
	case AggSum:
		group.Value = sum(values)
	case AggAvg:
		group.Value = sum(values) / float64(len(values))
	case AggMin:
		group.Value = slices.Min(values)
	case AggMax:
		group.Value = slices.Max(values)
	default:
		return fmt.Errorf("unknown aggregation %q", agg)
	}
	return nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// SortGroups sorts groups in place. NaN values sort last either way.
func SortGroups(groups []Group, by Sort) {
	switch by {
	case SortValueDesc:
		slices.SortStableFunc(groups, byValue(true))
	case SortValueAsc:
		slices.SortStableFunc(groups, byValue(false))
	case SortLabelAsc:
		slices.SortStableFunc(groups, func(a, b Group) int { return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label)) })
	case SortLabelDesc:
		slices.SortStableFunc(groups, func(a, b Group) int { return strings.Compare(strings.ToLower(b.Label), strings.ToLower(a.Label)) })
	default:
		// preserve grouping order
	}
}

func byValue(desc bool) func(a, b Group) int {
	return func(a, b Group) int {
		an, bn := math.IsNaN(a.Value), math.IsNaN(b.Value)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		if desc {
			return cmpFloat(b.Value, a.Value)
		}
		return cmpFloat(a.Value, b.Value)
	}
}

// ParseSort validates a sort name. The empty string keeps grouping order.
func ParseSort(s string) (Sort, error) {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case SortNone, SortValueDesc, SortValueAsc, SortLabelAsc, SortLabelDesc:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort %q: want value_desc, value_asc, label_asc or label_desc", s)
}
