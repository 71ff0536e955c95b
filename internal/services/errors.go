package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Error kinds surfaced to callers. Every error returned by a service wraps at
// most one of them; none is retried automatically.
var (
	// ErrUnavailable means the store could not be reached; nothing was written.
	ErrUnavailable = errors.New("store unavailable")
	// ErrValidation means the input was rejected before any write was attempted.
	ErrValidation = errors.New("validation failed")
	// ErrWriteFailed means the store rejected an accepted request.
	ErrWriteFailed = errors.New("write failed")
	// ErrUnauthorized means credentials or tokens were not accepted.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means a unique value is already taken.
	ErrConflict = errors.New("conflict")
)

// FieldErrors maps a struct field to a readable validation message.
type FieldErrors map[string]string

// ValidationError carries per-field messages along with ErrValidation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(FieldErrors, len(verrs))
		for _, e := range verrs {
			fields[e.Field()] = "Field '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
		}
		return &ValidationError{Fields: fields}
	}
	return errors.Wrap(ErrValidation, err.Error())
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
