package recon

import (
	"errors"
	"fmt"
)

// MalformedInputError reports a required column missing from an input table.
// It aborts the analysis before any partial result is produced.
type MalformedInputError struct {
	Table  string
	Column string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("table %q: missing required column %q", e.Table, e.Column)
}

// IsMalformedInput reports whether err is (or wraps) a MalformedInputError.
func IsMalformedInput(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}
