package driver

import "errors"

// Fatal error kinds per §7. All but query-level UnsupportedQuery (which
// lives in package query and is handled by the profile ingester) surface
// here, since they all originate at the driver boundary or at engine
// startup validation of driver-adjacent configuration.
var (
	// ErrEmptyCollection means the source collection has zero documents.
	// The engine aborts before sampling.
	ErrEmptyCollection = errors.New("mindexer: source collection is empty")

	// ErrSampleDBNotDistinct means the configured sample database equals
	// the source database. Fatal at startup.
	ErrSampleDBNotDistinct = errors.New("mindexer: sample_db must differ from the source database")

	// ErrSampleUnavailable means the driver failed to materialize the
	// sample. Fatal.
	ErrSampleUnavailable = errors.New("mindexer: sample materialization failed")
)

// Error wraps a lower-level I/O failure observed at the driver boundary.
// Policy per §7: fatal, no partial results (they would be biased).
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "mindexer: driver: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns a *Error describing a failure of the named operation, or
// nil if err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
