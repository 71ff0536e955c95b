package services

import (
	"github.com/pkg/errors"

	"vetrina/internal/repositories"
)

// readErr classifies a failed read: missing records stay ErrNotFound, anything
// else means the store could not be reached.
func readErr(err error) error {
	if err == nil || errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return errors.Wrap(ErrUnavailable, err.Error())
}

// writeErr classifies a failed write: missing records stay ErrNotFound,
// anything else is a write rejected by the store.
func writeErr(err error) error {
	if err == nil || errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return errors.Wrap(ErrWriteFailed, err.Error())
}
