package irc

import (
	"github.com/cockroachdb/errors"
)

// Error kinds returned by the Capabilities accessors.  Use errors.Is to test
// for them.
var (
	// ErrInvalidArgument is returned when the caller passes a malformed or
	// unknown selector.  The capability map is not consulted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the server did not advertise what is needed
	// to answer.  Callers usually fall back to the protocol default.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue is returned when the server advertised a value that
	// does not have the expected shape.
	ErrInvalidValue = errors.New("invalid value")
)

func invalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func notFound(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func invalidValue(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidValue, format, args...)
}
