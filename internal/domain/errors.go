package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrCyclicHierarchy  = errors.New("cyclic folder hierarchy")
	ErrCacheUnavailable = errors.New("local cache unavailable")
	ErrRemoteFailed     = errors.New("remote store request failed")
)

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates a required field is missing or malformed.
	// The triggering mutation is rejected and the store is left unchanged.
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError wraps a validator error (e.g. ozzo validation.Errors)
// so callers can match it with errors.Is(err, ErrValidation).
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: err.Error()}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // folder, creation, token
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CyclicHierarchyError reports a folder that was reached twice while walking
// parent links, i.e. the forest invariant is broken.
type CyclicHierarchyError struct {
	FolderID string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("folder %q is its own ancestor", e.FolderID)
}

func (e *CyclicHierarchyError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *CyclicHierarchyError) Is(target error) bool { return target == ErrCyclicHierarchy }

// CacheError is a local cache read/write failure. It never reaches the
// presentation layer; the persistence adapter logs it and falls back.
type CacheError struct {
	Op  string // get, set, remove, open, decode
	Key string
	Err error
}

func (e *CacheError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("local cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("local cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error        { return e.Err }
func (e *CacheError) Is(target error) bool { return target == ErrCacheUnavailable }

// RemoteError is a remote store failure. A not-found cause stays visible
// through errors.Is(err, ErrNotFound) so callers can seed the remote.
type RemoteError struct {
	Op       string // fetch, store
	UserID   string
	Resource string // profile, folders, creations
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s %s for user %s: %v", e.Op, e.Resource, e.UserID, e.Err)
}

func (e *RemoteError) Unwrap() error        { return e.Err }
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteFailed }

// StatusCode maps a remote failure to the status the remote reported when known.
func (e *RemoteError) StatusCode() int {
	if errors.Is(e.Err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
