package docmatch

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Absent is the type of Undefined.
type Absent struct{}

// String renders the absent value.
func (Absent) String() string { return "undefined" }

// Undefined stands in for a value that a path did not resolve to. It is
// equal only to itself and never equal to nil.
var Undefined = Absent{}

// IsUndefined reports whether v is the absent value.
func IsUndefined(v any) bool {
	_, ok := v.(Absent)
	return ok
}

// Equal reports whether a and b are structurally equal.
//
// Numbers compare by exact value across Go numeric types, json.Number and
// decimal.Decimal. Mappings compare key by key and sequences element by
// element, regardless of construction order. Undefined equals only
// Undefined. There is no other coercion: "1" does not equal 1.
//
// Values nested deeper than DefaultMaxDepth compare unequal.
func Equal(a, b any) bool {
	eq, err := equalDepth(a, b, DefaultMaxDepth)
	return err == nil && eq
}

// equalDepth is Equal with an explicit nesting budget.
func equalDepth(a, b any, remaining int) (bool, error) {
	if remaining < 0 {
		return false, ErrMaxDepthExceeded
	}

	switch av := a.(type) {
	case Absent:
		return IsUndefined(b), nil
	case nil:
		return b == nil, nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv, nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv, nil
	}
	if b == nil || IsUndefined(b) {
		return false, nil
	}

	if isNumber(a) || isNumber(b) {
		c, ok := compareNumbers(a, b)
		return ok && c == 0, nil
	}

	if am, ok := asMapping(a); ok {
		bm, ok := asMapping(b)
		if !ok || len(am) != len(bm) {
			return false, nil
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok {
				return false, nil
			}
			eq, err := equalDepth(av, bv, remaining-1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}

	if as, ok := asSequence(a); ok {
		bs, ok := asSequence(b)
		if !ok || len(as) != len(bs) {
			return false, nil
		}
		for i := range as {
			eq, err := equalDepth(as[i], bs[i], remaining-1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}

	return reflect.DeepEqual(a, b), nil
}

// CompareValues orders two values. Numbers order numerically and strings
// order bytewise; any other pairing, including number against string, is
// not comparable and reports false.
func CompareValues(a, b any) (int, bool) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	return compareNumbers(a, b)
}

// isNumber reports whether v is one of the supported numeric types.
func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number, decimal.Decimal:
		return true
	default:
		return false
	}
}

// compareNumbers orders two numeric values exactly. NaN is never ordered.
func compareNumbers(a, b any) (int, bool) {
	af, aIsFloat := asFloat(a)
	bf, bIsFloat := asFloat(b)
	if (aIsFloat && math.IsNaN(af)) || (bIsFloat && math.IsNaN(bf)) {
		return 0, false
	}

	// Infinities have no decimal form; compare them as floats.
	if (aIsFloat && math.IsInf(af, 0)) || (bIsFloat && math.IsInf(bf, 0)) {
		x, ok := toFloat64(a)
		if !ok {
			return 0, false
		}
		y, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		return compareFloat(x, y), true
	}

	x, ok := toDecimal(a)
	if !ok {
		return 0, false
	}
	y, ok := toDecimal(b)
	if !ok {
		return 0, false
	}
	return x.Cmp(y), true
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// toDecimal converts any supported numeric value to a decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return fromUint(uint64(n)), true
	case uint8:
		return fromUint(uint64(n)), true
	case uint16:
		return fromUint(uint64(n)), true
	case uint32:
		return fromUint(uint64(n)), true
	case uint64:
		return fromUint(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}

func fromUint(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

func toFloat64(v any) (float64, bool) {
	if f, ok := asFloat(v); ok {
		return f, true
	}
	d, ok := toDecimal(v)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// textOf returns the text a regular expression is matched against.
// Only strings, numbers and booleans have a text form.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case decimal.Decimal:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	}
	if d, ok := toDecimal(v); ok {
		return d.String(), true
	}
	return "", false
}

// asMapping returns v as a string-keyed mapping. map[string]any is returned
// as is; other string-keyed map types are copied.
func asMapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence returns v as a []any. []any is returned as is; other slice and
// array types are copied. Byte slices are not sequences.
func asSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// kindOf names the JSON kind of a value for diagnostics.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case Absent:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if isNumber(v) {
		return "number"
	}
	if _, ok := asMapping(v); ok {
		return "mapping"
	}
	if _, ok := asSequence(v); ok {
		return "sequence"
	}
	return reflect.TypeOf(v).String()
}
