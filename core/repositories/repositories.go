// Package repositories holds the errors shared by every repository.
package repositories

import (
	"errors"
)

var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrNotFound              = errors.New("record not found")
	ErrUnauthenticated       = errors.New("not authenticated")
)
