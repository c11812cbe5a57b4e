/*
Package docmatch evaluates MongoDB-style filter queries against JSON-like
documents.

# Overview

A document is any value built from nil, booleans, numbers, strings,
sequences ([]any) and string-keyed mappings (map[string]any), the shapes
encoding/json decodes into. A query is a mapping or a sequence of mappings
that describes which documents match:

	ok, err := docmatch.Evaluate(
	    map[string]any{"status": "open", "priority": 3},
	    map[string]any{"status": "open", "priority": map[string]any{"$gte": 2}},
	) // true, nil

# Query Syntax

	<query>   := <mapping> | [ <query>, ... ]        a sequence is an AND
	<mapping> := { <key>: <value>, ... }             every key must hold

	<key> := '$and' | '$or' | '$not'                 logical keys
	       | '$eq' | '$ne' | '$gt' | ...             operator keys
	       | field | 'a.b[0].c'                      field keys and paths

A field key narrows the current value. If its value is a mapping, it is
matched as a sub-query against the narrowed value; otherwise the narrowed
value must be structurally equal to it:

	{"a": {"b": 1}}          a.b equals 1
	{"a.b": 1}               same, using a path key
	{"tags[0]": "urgent"}    first tag is "urgent"

# Operators

Logical operators:

	$and   [q1, q2, ...]   all sub-queries match (empty is true)
	$or    [q1, q2, ...]   any sub-query matches (empty is false)
	$not   {...}           the sub-query does not match

Comparison operators, applied to the current value:

	$eq      structurally equal
	$ne      not structurally equal
	$gt      greater than (numbers with numbers, strings with strings)
	$gte     greater than or equal
	$lt      less than
	$lte     less than or equal
	$in      equal to some element of a sequence
	$nin     equal to no element of a sequence
	$exists  "path": the path resolves against the root document
	         true/false: the current value is present / absent
	$regex   the text of a string, number or boolean matches an RE2 pattern
	$re      alias of $regex

# References

A string value starting with "$$" refers to the root document:

	{"mirror": {"$eq": "$$status"}}    mirror equals the top-level status
	{"tag": {"$in": "$$allowed"}}      payload taken from the document

References are resolved when a document is matched. A reference that does
not resolve yields Undefined, which equals nothing but itself.

# Errors

Invalid queries are reported as *QueryError, never as a false result.
errors.Is(err, ErrInvalidQuery) holds for all of them, and the wrapped
sentinel names the cause:

	ErrUnsupportedOperator   unknown '$' key such as $bogus
	ErrInvalidPayload        e.g. $in with a non-sequence
	ErrInvalidRegex          pattern does not compile
	ErrMaxDepthExceeded      nesting beyond WithMaxDepth
	ErrMalformedQuery        scalar query with WithStrictQueryShape

Literal payloads are checked by Compile; payloads given as references are
checked when matched.

# Thread Safety

An Evaluator and the Queries it compiles are safe for concurrent use.
Compiled queries and regular expressions are cached per Evaluator.
*/
package docmatch
