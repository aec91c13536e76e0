package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling without
// switching on concrete types in every handler.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against the corresponding sentinel.
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrParse      = errors.New("hierarchy parse failed")
)

// ParseError reports a malformed source hierarchy: a cycle, a node
// identifier appearing in more than one place, or a depth beyond the
// configured bound. Parsing stops at the first such defect; no partial
// tree is returned.
type ParseError struct {
	NodeID  string // offending node, if known
	Message string
}

func (e *ParseError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("parse hierarchy: %s (node %s)", e.Message, e.NodeID)
	}
	return "parse hierarchy: " + e.Message
}

// StatusCode implements the HTTPError interface. A broken source
// hierarchy is the caller's data, not our bug.
func (e *ParseError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is allows errors.Is() to match against ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// AggregationError signals an internal invariant violation during result
// merging (e.g. a result referencing a batch that was never created).
// It indicates a programming defect, not a recoverable user condition.
type AggregationError struct {
	Message string
}

func (e *AggregationError) Error() string {
	return "aggregate results: " + e.Message
}
