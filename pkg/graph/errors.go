package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNodeNotFound indicates a node was not found by the given identifier.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an edge was not found by the given identifier.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrInvalidTemplate indicates a node template failed validation.
	ErrInvalidTemplate = errors.New("invalid node template")

	// ErrInvalidConfig indicates a node configuration failed validation.
	ErrInvalidConfig = errors.New("invalid node config")

	// ErrInvalidConnectionType indicates an edge carries an unknown connection type.
	ErrInvalidConnectionType = errors.New("invalid connection type")

	// ErrInvalidSelection indicates a selection names both a node and an edge.
	ErrInvalidSelection = errors.New("select either a node or an edge")

	// ErrCorruptSnapshot indicates a snapshot breaks the graph invariants.
	ErrCorruptSnapshot = errors.New("corrupt workflow snapshot")
)

// MutationError wraps a refused store mutation with the operation and target.
type MutationError struct {
	Op     string // Operation being performed (e.g., "RemoveNode", "Select")
	Target string // Node or edge ID
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func (e *MutationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// LoadError lists every invariant a snapshot breaks.
type LoadError struct {
	Issues []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCorruptSnapshot, strings.Join(e.Issues, "; "))
}

func (e *LoadError) Is(target error) bool {
	return target == ErrCorruptSnapshot
}

// IsNodeNotFound checks if an error indicates a node was not found.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// IsEdgeNotFound checks if an error indicates an edge was not found.
func IsEdgeNotFound(err error) bool {
	return errors.Is(err, ErrEdgeNotFound)
}

// IsCorruptSnapshot checks if an error indicates a snapshot failed integrity checks.
func IsCorruptSnapshot(err error) bool {
	return errors.Is(err, ErrCorruptSnapshot)
}

// IsInvalidInput checks if an error was caused by malformed caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidTemplate) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidConnectionType) ||
		errors.Is(err, ErrInvalidSelection)
}
