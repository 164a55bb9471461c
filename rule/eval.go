package rule

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

// Lookup traverses a dot-path into the record. A missing or non-map segment
// yields nil; lookup never panics.
func Lookup(record map[string]any, path string) any {
	if path == "" {
		return nil
	}
	var current any = record
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// Evaluate tests a single condition against the record.
//
// The operator switch is exhaustive: a structurally malformed condition (bad
// regex, bad range, bad CEL program, unknown operator) returns an error so
// the engine can skip the owning rule, while a well-formed condition that
// simply doesn't hold returns false with no error. Evaluate has no side
// effects and is safe for concurrent use.
func Evaluate(c Condition, record map[string]any) (bool, error) {
	field := Lookup(record, c.Field)

	switch c.Operator {
	case OperatorEquals:
		return equalValues(field, c.Value), nil

	case OperatorContains:
		haystack := strings.ToLower(stringify(field))
		needle := strings.ToLower(stringify(c.Value))
		return strings.Contains(haystack, needle), nil

	case OperatorGreaterThan:
		a, okA := coerceFloat(field)
		b, okB := coerceFloat(c.Value)
		if !okA || !okB || math.IsNaN(a) || math.IsNaN(b) {
			return false, nil
		}
		return a > b, nil

	case OperatorLessThan:
		a, okA := coerceFloat(field)
		b, okB := coerceFloat(c.Value)
		if !okA || !okB || math.IsNaN(a) || math.IsNaN(b) {
			return false, nil
		}
		return a < b, nil

	case OperatorBetween:
		min, max, err := rangeBounds(c.Value)
		if err != nil {
			return false, err
		}
		v, ok := coerceFloat(field)
		if !ok || math.IsNaN(v) {
			return false, nil
		}
		return v >= min && v <= max, nil

	case OperatorRegex:
		pattern, ok := c.Value.(string)
		if !ok {
			return false, fmt.Errorf("regex operator requires a string pattern, got %T", c.Value)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		return re.MatchString(stringify(field)), nil

	case OperatorExpression:
		expr, ok := c.Value.(string)
		if !ok {
			return false, fmt.Errorf("expression operator requires a string program, got %T", c.Value)
		}
		return evalExpression(expr, record)

	default:
		return false, fmt.Errorf("unknown operator %q", c.Operator)
	}
}

// equalValues implements the equals operator. Numbers compare numerically
// regardless of concrete type (JSON decoding yields float64 where rule
// literals may be int); everything else compares by deep equality.
func equalValues(a, b any) bool {
	fa, okA := numericValue(a)
	fb, okB := numericValue(b)
	if okA && okB {
		return fa == fb
	}
	if okA != okB {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// numericValue reports the float64 rendering of inherently numeric types.
// Strings are deliberately excluded so equals stays strict.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// coerceFloat converts a value to float64 for ordering comparisons, parsing
// numeric strings as well.
func coerceFloat(v any) (float64, bool) {
	if f, ok := numericValue(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// stringify renders a value for substring and regex matching.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// rangeBounds extracts the inclusive [min, max] pair for the between operator.
func rangeBounds(value any) (float64, float64, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, 0, fmt.Errorf("between operator requires a two-element list, got %T", value)
	}
	if rv.Len() != 2 {
		return 0, 0, fmt.Errorf("between operator requires exactly two bounds, got %d", rv.Len())
	}
	min, okMin := coerceFloat(rv.Index(0).Interface())
	max, okMax := coerceFloat(rv.Index(1).Interface())
	if !okMin || !okMax {
		return 0, 0, fmt.Errorf("between bounds must be numeric")
	}
	return min, max, nil
}

// celEnv is built once; programs are compiled per evaluation, which keeps the
// evaluator stateless at the cost of recompiling hot expressions.
// TODO: cache compiled programs keyed by expression once rule sets grow past
// a handful of expression conditions.
var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
	)
})

// evalExpression compiles and runs a CEL program against the record.
func evalExpression(expr string, record map[string]any) (bool, error) {
	env, err := celEnv()
	if err != nil {
		return false, fmt.Errorf("build expression environment: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return false, fmt.Errorf("compile expression: %w", iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("build expression program: %w", err)
	}
	out, _, err := prg.Eval(map[string]any{"record": record})
	if err != nil {
		return false, fmt.Errorf("evaluate expression: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression evaluated to %T, want bool", out.Value())
	}
	return result, nil
}
