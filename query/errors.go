package query

import "fmt"

// ErrUnsupportedQuery is the sentinel error kind for a filter that uses
// an operator FromFilter does not recognize (§7). The profile ingester
// catches this per-entry and continues; it is never fatal to the
// engine as a whole.
var ErrUnsupportedQuery = fmt.Errorf("unsupported query")

// UnsupportedQueryError wraps ErrUnsupportedQuery with the field and
// operator that triggered it, grounded on plan/pir's errorf convention
// of attaching the offending node to a construction error.
type UnsupportedQueryError struct {
	Field, Op string
	Reason    string
}

func (e *UnsupportedQueryError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("unsupported query: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("unsupported query: field %q: operator %q: %s", e.Field, e.Op, e.Reason)
}

func (e *UnsupportedQueryError) Unwrap() error { return ErrUnsupportedQuery }

func unsupportedf(field, op, reason string, args ...any) error {
	return &UnsupportedQueryError{Field: field, Op: op, Reason: fmt.Sprintf(reason, args...)}
}
