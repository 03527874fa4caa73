package services

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrMissingRequiredFile = errors.New("cover image and PDF file are required")
	ErrUnauthorized        = errors.New("access denied: no token provided")
	ErrForbidden           = errors.New("access denied: admin only")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// CatalogWriteError wraps a repository failure on a write path.
type CatalogWriteError struct {
	Op  string
	Err error
}

func (e *CatalogWriteError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *CatalogWriteError) Unwrap() error { return e.Err }

// StorageError wraps a filesystem failure while storing uploads.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
