package ifc

import (
	"math"
	"strconv"
	"strings"
)

// Native converts an attribute to a plain Go value: string, bool, int64,
// float64, []any or nil. Instance references have no native form.
func Native(v Value) any {
	switch v.Kind {
	case KindString, KindBinary:
		return v.Str
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindEnum:
		switch v.Str {
		case "T":
			return true
		case "F":
			return false
		case "U":
			return "UNKNOWN"
		default:
			return v.Str
		}
	case KindTyped:
		if v.Inner == nil {
			return nil
		}
		return Native(*v.Inner)
	case KindList:
		out := make([]any, 0, len(v.List))
		for _, item := range v.List {
			if n := Native(item); n != nil {
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

// FormatValue renders a native value as text. Booleans read True/False and
// reals always carry a fractional part or exponent, so 3.0 stays "3.0".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatReal(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Truthy reports whether v counts as set: non-empty text, true, a non-zero
// number or a non-empty aggregate.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	default:
		return false
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-4 && abs < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}
