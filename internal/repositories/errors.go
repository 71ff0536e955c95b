package repositories

import "github.com/pkg/errors"

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")
