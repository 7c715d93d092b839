package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrUnauthorized indicates a missing, malformed or expired credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller may not touch the resource.
var ErrForbidden = errors.New("access denied")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or lifecycle conflict.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is a lifecycle conflict caused by the current status of a record.
// errors.Is(ErrInvalidState, ErrConflict) holds.
var ErrInvalidState = fmt.Errorf("%w: invalid state", ErrConflict)

// Invalid wraps ErrInvalid with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Reason returns the message attached by Invalid, or the error text otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrInvalid.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
