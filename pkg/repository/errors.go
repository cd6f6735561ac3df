package repository

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no document store was configured or the
// client could not be constructed at startup.
var ErrUnavailable = errors.New("database not available")

// StorageError reports a failed document store operation.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
