// Package services applies canvas edits to workflow graphs and exposes
// validation, saving and run requests.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/dukex/flowcanvas/pkg/validation"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrWorkflowNameRequired = errors.New("workflow name is required")

	// Business Logic Conflicts (409 Conflict).
	ErrRunBlocked = errors.New("workflow cannot run")
)

// RunBlockedError carries the problems that stopped a run request.
type RunBlockedError struct {
	WorkflowID string
	Problems   []validation.Problem
}

func (e *RunBlockedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRunBlocked, strings.Join(validation.Messages(e.Problems), "; "))
}

func (e *RunBlockedError) Is(target error) bool {
	return target == ErrRunBlocked
}

// IsRunBlocked checks if an error is a refused run and returns it.
func IsRunBlocked(err error) (*RunBlockedError, bool) {
	var blocked *RunBlockedError
	if errors.As(err, &blocked) {
		return blocked, true
	}

	return nil, false
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, models.ErrUnknownNodeKind) ||
		graph.IsInvalidInput(err)
}

// IsNotFoundError checks if an error names a missing workflow, node or edge.
func IsNotFoundError(err error) bool {
	return persistence.IsWorkflowNotFound(err) ||
		graph.IsNodeNotFound(err) ||
		graph.IsEdgeNotFound(err)
}
