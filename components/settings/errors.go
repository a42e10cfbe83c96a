package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfirmationDeclined short-circuits a destructive reset the user refused.
	ErrConfirmationDeclined = errors.New("settings: reset declined by user")
	// ErrSaveInProgress rejects a save or reset issued while a save is running.
	ErrSaveInProgress = errors.New("settings: save already in progress")
	// ErrNotFound is returned by persisters that hold no document for a domain.
	ErrNotFound = errors.New("settings: domain not found")
	// ErrRejected marks a payload the persistence backend refused to accept.
	ErrRejected = errors.New("settings: payload rejected")
	// ErrInvalidPath reports a path that is not in domain.section.field form.
	ErrInvalidPath = errors.New("settings: invalid path")

	errMissingConfirmer = errors.New("settings: confirmer is required")
)

// UnknownPathError reports a path that is not part of the schema.
type UnknownPathError struct {
	Path FieldPath
	Keys []string
}

func (e *UnknownPathError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("settings: unknown path %s/%s", e.Path, strings.Join(e.Keys, "/"))
	}
	return fmt.Sprintf("settings: unknown path %s", e.Path)
}

// TypeMismatchError reports a value whose shape does not match the field kind.
type TypeMismatchError struct {
	Path     FieldPath
	Expected Kind
	Got      string
	Err      error
}

func (e *TypeMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("settings: %s expects %s, got %s: %v", e.Path, e.Expected, e.Got, e.Err)
	}
	return fmt.Sprintf("settings: %s expects %s, got %s", e.Path, e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// SaveError wraps a persistence failure for one domain.
type SaveError struct {
	Domain    string
	Err       error
	Retryable bool
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("settings: save %s: %v", e.Domain, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// LoadError wraps a persistence failure while seeding one domain.
type LoadError struct {
	Domain string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("settings: load %s: %v", e.Domain, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func newSaveError(domain string, err error) *SaveError {
	return &SaveError{
		Domain:    domain,
		Err:       err,
		Retryable: !errors.Is(err, ErrRejected),
	}
}
