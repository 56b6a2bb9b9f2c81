package domain

import (
	"errors"
	"net/http"
)

// HTTPError is implemented by domain errors that map directly to an HTTP
// status code, so handlers can translate without a type switch per error.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a resource was not found.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure.
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// SaveError aggregates the individual failures of one reconciliation pass.
// Remote state may hold a mix of old and new records when it is returned;
// retrying the save re-runs the full delete-all/insert-all cycle, which
// cleans up whatever the failed pass left behind.
type SaveError struct {
	EpisodeID string
	Type      string // content type being reconciled
	Deleted   int    // records deleted before the failure surfaced
	Inserted  int    // inserts that completed
	Err       error  // joined individual call errors
}

func (e *SaveError) Error() string {
	return "save " + e.Type + " for episode " + e.EpisodeID + ": " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }

func (e *SaveError) StatusCode() int { return http.StatusBadGateway }
