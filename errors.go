package roadnet

import (
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by the package wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	// ErrStructure indicates a violated topological invariant: duplicates, missing
	// lookups, mismatched endpoints, invalid lane counts.
	ErrStructure = errors.New("structure error")

	// ErrTemporal indicates a violated time-window rule or inconsistent
	// flow/travel time data.
	ErrTemporal = errors.New("temporal error")

	// ErrNotImplemented indicates a query path that is not supported.
	ErrNotImplemented = errors.New("not implemented")
)

func structureErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrStructure, format, args...)
}

func temporalErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrTemporal, format, args...)
}
