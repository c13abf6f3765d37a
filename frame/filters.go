package frame

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ============================================================================
// FILTERS — Column comparisons via View
// ============================================================================
// Single-pass filter: checks ALL conditions per row in one loop.
// Returns a subView (index list into parent), no data copy.
// ============================================================================

// Filter returns a view of the rows whose entry under column satisfies
// (entry op value). With op "==" a row is kept when its entry equals value.
//
// A row without an entry for column only satisfies "!=".
func Filter(view View, column string, op Operator, value any) (View, error) {
	return FilterAll(view, Condition{Column: column, Operator: op, Value: value})
}

// FilterAll returns a view of the rows matching every condition.
// No conditions = no restriction (returns the original view).
func FilterAll(view View, conds ...Condition) (View, error) {
	if len(conds) == 0 {
		return view, nil
	}

	cols := view.Columns()
	for _, c := range conds {
		if _, err := ParseOperator(string(c.Operator)); err != nil {
			return nil, err
		}
		if !slices.Contains(cols, c.Column) {
			return nil, fmt.Errorf("%w %q", ErrUnknownColumn, c.Column)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, c := range conds {
			entry, ok := view.Value(i, c.Column)
			match, err := matches(entry, ok, c.Operator, c.Value)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, c.Column, err)
			}
			if !match {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices), nil
}

// matches evaluates one comparison. Missing and null entries are unequal to
// everything (null included) and ordered against nothing. Values of
// different kinds are unequal; ordering them is an error.
func matches(entry any, present bool, op Operator, value any) (bool, error) {
	if !present || entry == nil || value == nil {
		return op == OpNotEqual, nil
	}

	c, err := compare(entry, value)
	if errors.Is(err, errNaN) {
		return op == OpNotEqual, nil
	}
	if err != nil {
		if op == OpEqual {
			return false, nil
		}
		if op == OpNotEqual {
			return true, nil
		}
		return false, err
	}

	switch op {
	case OpEqual:
		return c == 0, nil
	case OpNotEqual:
		return c != 0, nil
	case OpGreater:
		return c > 0, nil
	case OpGreaterEqual:
		return c >= 0, nil
	case OpLess:
		return c < 0, nil
	case OpLessEqual:
		return c <= 0, nil
	}
	return false, fmt.Errorf("%w %q", ErrUnknownOperator, op)
}

// errNaN marks a numeric comparison with a NaN side. NaN is unequal to
// everything and ordered against nothing, itself included.
var errNaN = fmt.Errorf("%w: NaN", ErrIncomparable)

// compare orders a and b. Numbers compare numerically (numeric strings count
// as numbers when the other side is a number), times chronologically, bools
// with false before true, strings lexically.
func compare(a, b any) (int, error) {
	if fa, ok := toNumber(a); ok {
		if fb, ok := toNumber(b); ok {
			return cmpNumbers(fa, fb)
		}
		if s, ok := b.(string); ok {
			if fb, err := cast.ToFloat64E(strings.TrimSpace(s)); err == nil {
				return cmpNumbers(fa, fb)
			}
		}
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}

	switch av := a.(type) {
	case string:
		if fb, ok := toNumber(b); ok {
			fa, err := cast.ToFloat64E(strings.TrimSpace(av))
			if err != nil {
				return 0, fmt.Errorf("%w: %q and %v", ErrIncomparable, av, b)
			}
			return cmpNumbers(fa, fb)
		}
		if bv, ok := b.(bool); ok {
			ab, err := cast.ToBoolE(av)
			if err != nil {
				return 0, fmt.Errorf("%w: %q and %v", ErrIncomparable, av, bv)
			}
			return boolOrder(ab, bv), nil
		}
		if bv, ok := b.(time.Time); ok {
			at, err := cast.ToTimeE(av)
			if err != nil {
				return 0, fmt.Errorf("%w: %q and %v", ErrIncomparable, av, bv)
			}
			return at.Compare(bv), nil
		}
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case bool:
		bb, err := cast.ToBoolE(b)
		if err != nil {
			return 0, fmt.Errorf("%w: %v and %v", ErrIncomparable, av, b)
		}
		return boolOrder(av, bb), nil
	case time.Time:
		bt, err := cast.ToTimeE(b)
		if err != nil {
			return 0, fmt.Errorf("%w: %v and %v", ErrIncomparable, av, b)
		}
		return av.Compare(bt), nil
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

func boolOrder(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(n), true
	case stdjson.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func cmpNumbers(a, b float64) (int, error) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, errNaN
	}
	return cmpFloat(a, b), nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
