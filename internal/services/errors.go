package services

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnauthorized is returned when the acting user is not the owner of the
// targeted resource. It is never substituted with a not-found error: existence
// is not hidden from authenticated non-owners.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials is returned on failed login attempts.
var ErrInvalidCredentials = errors.New("invalid login details")

// ErrInvalidToken is returned when a bearer token does not resolve to a user.
var ErrInvalidToken = errors.New("invalid access token")

// ValidationError reports malformed request input, keyed by field name.
// It is detected before any blob write or row mutation begins.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// StorageError reports a blob store write or delete failure.
type StorageError struct {
	Op  string
	Ref string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.Ref, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
