package frame

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// FRAME TYPES — operators and conditions
// ============================================================================

// Operator is a comparison applied as (entry op value).
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

var operators = []Operator{OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess}

var (
	// ErrUnknownOperator is returned for operators other than ==, !=, >, >=, <, <=.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUnknownColumn is returned when filtering on a column the view lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrIncomparable is returned when an entry and the value cannot be ordered.
	ErrIncomparable = errors.New("incomparable values")
)

// ParseOperator validates op. "=" is accepted as "==".
func ParseOperator(op string) (Operator, error) {
	op = strings.TrimSpace(op)
	if op == "=" {
		return OpEqual, nil
	}
	for _, o := range operators {
		if string(o) == op {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOperator, op)
}

// Condition is one filter clause.
type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Value)
}

// ParseCondition parses clauses such as "age>=30", "name == bob" or
// "active!=true". The value stays a string; comparisons coerce it.
func ParseCondition(s string) (Condition, error) {
	for _, o := range operators {
		if i := strings.Index(s, string(o)); i > 0 {
			col := strings.TrimSpace(s[:i])
			val := strings.TrimSpace(s[i+len(o):])
			if col == "" {
				break
			}
			return Condition{Column: col, Operator: o, Value: unquote(val)}, nil
		}
	}
	if i := strings.Index(s, "="); i > 0 {
		col := strings.TrimSpace(s[:i])
		if col != "" && !strings.ContainsAny(col, "<>!") {
			return Condition{Column: col, Operator: OpEqual, Value: unquote(strings.TrimSpace(s[i+1:]))}, nil
		}
	}
	return Condition{}, fmt.Errorf("invalid condition %q: want <column><op><value>", s)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
