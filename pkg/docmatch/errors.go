package docmatch

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is matched by every error that means the query itself is
// invalid, as opposed to a document that simply does not match.
var ErrInvalidQuery = errors.New("invalid query")

// Sentinel errors for invalid queries. Each is reported wrapped in a
// *QueryError; errors.Is works against both these and ErrInvalidQuery.
var (
	// ErrUnsupportedOperator indicates a '$'-prefixed key that is not a known
	// logical or comparison operator.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrInvalidPayload indicates an operator value of the wrong shape, such as
	// $in with a non-sequence or $not with a non-mapping.
	ErrInvalidPayload = errors.New("invalid operator payload")

	// ErrInvalidRegex indicates a $re/$regex pattern that does not compile.
	ErrInvalidRegex = errors.New("invalid regular expression")

	// ErrMaxDepthExceeded indicates query or document nesting beyond the
	// configured limit.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrMalformedQuery indicates a query that is neither a mapping nor a
	// sequence. Only returned when strict query shape checking is enabled.
	ErrMalformedQuery = errors.New("query must be a mapping or sequence")
)

// QueryError locates an invalid-query failure.
type QueryError struct {
	// Key is the offending query key, e.g. "$in" or "$bogus".
	Key string
	// Location is the position of the key in the query, e.g. "$.tags.$in".
	Location string
	// Err is one of the sentinel errors above, possibly wrapping a cause.
	Err error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid query at %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("invalid query at %s: %s: %v", e.Location, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports every QueryError as an ErrInvalidQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// IsInvalidQuery reports whether err signals an invalid query.
func IsInvalidQuery(err error) bool {
	return errors.Is(err, ErrInvalidQuery)
}

func queryErr(loc, key string, err error) error {
	return &QueryError{Key: key, Location: loc, Err: err}
}
