package user

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("user: record not found")
	ErrConflict = errors.New("user: record already exists for provider account")
)

// Record is the local user created from a provider's authentication result.
// Provider and OAuthID together identify the external account.
type Record struct {
	ID       string
	Provider string
	OAuthID  string
	Name     string
	Created  time.Time
}

// StorageError reports a failure of the underlying database, as opposed
// to a record simply being absent.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("user: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
