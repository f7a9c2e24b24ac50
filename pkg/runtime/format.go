package runtime

import (
	"strconv"
	"strings"
)

// FormatValue renders a value for host output.
func FormatValue(val Value) string {
	switch v := val.(type) {
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case *ArrayValue:
		parts := make([]string, len(v.Elements))
		for idx, elem := range v.Elements {
			parts[idx] = FormatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionValue:
		if v.Name != "" {
			return "<function " + v.Name + ">"
		}
		return "<fun(" + strings.Join(v.Params, ", ") + ")>"
	case NativeFunctionValue:
		return "<native " + v.Name + ">"
	case *NativeFunctionValue:
		return "<native " + v.Name + ">"
	case nil:
		return "<nil>"
	default:
		return "[" + val.Kind().String() + "]"
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
