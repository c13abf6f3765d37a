package frame

import (
	"strconv"
	"strings"
	"unicode"
)

// ============================================================================
// TYPE DETECTION
// ============================================================================

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
	kindBool
)

// detectKind inspects the non-empty values of a column. Every value must
// match for the column to be typed; one stray value keeps it a string.
func detectKind(values []string) columnKind {
	if len(values) == 0 {
		return kindString
	}

	intCount, floatCount, boolCount := 0, 0, 0
	for _, v := range values {
		if isInt(v) {
			intCount++
		}
		if isFloat(v) {
			floatCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	switch len(values) {
	case boolCount:
		return kindBool
	case intCount:
		return kindInt
	case floatCount:
		return kindFloat
	}
	return kindString
}

// parse converts one trimmed cell. Empty cells are nil.
func (k columnKind) parse(s string) any {
	if s == "" {
		return nil
	}
	switch k {
	case kindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case kindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case kindBool:
		return strings.EqualFold(s, "true")
	}
	return s
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "false"
}

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	prev := rune(0)
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	return s
}
