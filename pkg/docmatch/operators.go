package docmatch

import (
	"fmt"
	"regexp"

	"github.com/randalmurphal/docmatch/pkg/docmatch/path"
)

// Operator is a comparison operator applied to the current document value.
type Operator int

// Supported operators.
const (
	OpEq Operator = iota + 1
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNin
	OpExists
	OpRegex
)

// operatorKeys maps query keys to operators. $re and $regex are aliases.
var operatorKeys = map[string]Operator{
	"$eq":     OpEq,
	"$ne":     OpNe,
	"$gt":     OpGt,
	"$gte":    OpGte,
	"$lt":     OpLt,
	"$lte":    OpLte,
	"$in":     OpIn,
	"$nin":    OpNin,
	"$exists": OpExists,
	"$re":     OpRegex,
	"$regex":  OpRegex,
}

// ParseOperator returns the operator for a query key.
func ParseOperator(key string) (Operator, bool) {
	op, ok := operatorKeys[key]
	return op, ok
}

// String returns the canonical query key of the operator.
func (o Operator) String() string {
	switch o {
	case OpEq:
		return "$eq"
	case OpNe:
		return "$ne"
	case OpGt:
		return "$gt"
	case OpGte:
		return "$gte"
	case OpLt:
		return "$lt"
	case OpLte:
		return "$lte"
	case OpIn:
		return "$in"
	case OpNin:
		return "$nin"
	case OpExists:
		return "$exists"
	case OpRegex:
		return "$regex"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Logical keys combine sub-queries.
const (
	keyAnd = "$and"
	keyOr  = "$or"
	keyNot = "$not"
)

// checkPayload validates the shape of an operator payload. Regex patterns
// are compiled into the evaluator's cache as a side effect.
func (e *Evaluator) checkPayload(op Operator, payload any) error {
	switch op {
	case OpIn, OpNin:
		if _, ok := asSequence(payload); !ok {
			return fmt.Errorf("%w: %s requires a sequence, got %s", ErrInvalidPayload, op, kindOf(payload))
		}
	case OpRegex:
		pattern, ok := payload.(string)
		if !ok {
			return fmt.Errorf("%w: %s requires a pattern string, got %s", ErrInvalidPayload, op, kindOf(payload))
		}
		if _, err := e.regexp(pattern); err != nil {
			return err
		}
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpExists:
	default:
		return ErrUnsupportedOperator
	}
	return nil
}

// apply evaluates op against the current value. root is the top-level
// document, used by the path form of $exists.
func (e *Evaluator) apply(op Operator, cur, payload, root any) (bool, error) {
	if err := e.checkPayload(op, payload); err != nil {
		return false, err
	}

	switch op {
	case OpEq:
		return equalDepth(cur, payload, e.maxDepth)
	case OpNe:
		eq, err := equalDepth(cur, payload, e.maxDepth)
		return !eq, err
	case OpGt, OpGte, OpLt, OpLte:
		return compareOp(op, cur, payload), nil
	case OpIn:
		return e.contains(payload, cur)
	case OpNin:
		in, err := e.contains(payload, cur)
		return !in, err
	case OpExists:
		return exists(cur, payload, root), nil
	case OpRegex:
		text, ok := textOf(cur)
		if !ok {
			return false, nil
		}
		re, err := e.regexp(payload.(string))
		if err != nil {
			return false, err
		}
		return re.MatchString(text), nil
	default:
		return false, ErrUnsupportedOperator
	}
}

func compareOp(op Operator, cur, payload any) bool {
	c, ok := CompareValues(cur, payload)
	if !ok {
		return false
	}
	switch op {
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	default:
		return false
	}
}

// contains reports whether seq holds a value structurally equal to v.
func (e *Evaluator) contains(seq, v any) (bool, error) {
	items, _ := asSequence(seq)
	for _, item := range items {
		eq, err := equalDepth(v, item, e.maxDepth)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// exists implements both forms of $exists. A path string is resolved
// against the root document; a boolean tests whether the current value is
// defined. Any other payload never matches.
func exists(cur, payload, root any) bool {
	switch p := payload.(type) {
	case string:
		_, found := path.Resolve(root, p)
		return found
	case bool:
		return !IsUndefined(cur) == p
	default:
		return false
	}
}

// regexp returns the compiled pattern, compiling and caching it on first use.
func (e *Evaluator) regexp(pattern string) (*regexp.Regexp, error) {
	return e.regexes.GetOrCompute(pattern, func() (*regexp.Regexp, error) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegex, err)
		}
		return re, nil
	})
}
