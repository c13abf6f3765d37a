package args

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// kind is the value type of a defined argument.
type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
)

func (k kind) String() string {
	switch k {
	case kindInt:
		return "int"
	case kindFloat:
		return "float"
	case kindBool:
		return "bool"
	default:
		return "string"
	}
}

var kindNames = map[string]kind{
	"":        kindString,
	"str":     kindString,
	"string":  kindString,
	"int":     kindInt,
	"integer": kindInt,
	"float":   kindFloat,
	"bool":    kindBool,
	"boolean": kindBool,
}

// parseKind resolves a type name such as "integer" or "str".
func parseKind(name string) (kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return kindString, fmt.Errorf("unknown type string %q", name)
	}
	return k, nil
}

// ToBool interprets common boolean spellings: 1/true/yes/y/on and
// 0/false/no/n/off (case and surrounding space ignored), real bools, and the
// numbers 1 and 0. Anything else is an error.
func ToBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		case "0", "false", "no", "n", "off":
			return false, nil
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f := cast.ToFloat64(t)
		if f == 1 {
			return true, nil
		}
		if f == 0 {
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot interpret %#v as boolean", v)
}

// convert coerces a raw value (a default from code or YAML, or a positional
// token) to the argument's kind.
func convert(k kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case kindInt:
		return cast.ToIntE(v)
	case kindFloat:
		return cast.ToFloat64E(v)
	case kindBool:
		return ToBool(v)
	default:
		return cast.ToStringE(v)
	}
}

// optionalBool resolves a bool-or-bool-like-string field, using def when unset.
func optionalBool(v any, def bool) (bool, error) {
	if v == nil {
		return def, nil
	}
	return ToBool(v)
}
