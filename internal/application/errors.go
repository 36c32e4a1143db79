package application

import (
	"errors"
	"fmt"

	"vired/internal/domain"
	"vired/internal/ports"
)

// Sentinel errors for common conditions
var (
	ErrParseAmbiguity = domain.ErrParseAmbiguity
	ErrValidation     = errors.New("validation failed")
	ErrExecution      = errors.New("execution failed")
	ErrAlreadyApplied = errors.New("already applied")
	ErrUndoConflict   = errors.New("undo conflict")

	ErrDestinationOccupied = ports.ErrDestinationOccupied
	ErrTrashEntryMissing   = ports.ErrTrashEntryMissing

	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrAlreadyEditing    = errors.New("directory is already being edited")
	ErrNotEditing        = errors.New("directory is not being edited")
	ErrSessionNotFound   = errors.New("session not found")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
)

// ValidationError represents a pre-flight check failure with details
type ValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ExecutionError represents a filesystem call that failed while applying an operation
type ExecutionError struct {
	Op  domain.Operation
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// UndoConflictError represents an inverse or replay that could not be applied
// because the filesystem changed since the original operation
type UndoConflictError struct {
	Op     domain.UndoOperation
	Reason string
	Err    error
}

func (e *UndoConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot %s %q: %s: %v", e.Reason, domain.Describe(e.Op), e.Op.Path, e.Err)
	}
	return fmt.Sprintf("cannot %s %q", e.Reason, domain.Describe(e.Op))
}

func (e *UndoConflictError) Unwrap() error {
	return e.Err
}

func (e *UndoConflictError) Is(target error) bool {
	return target == ErrUndoConflict
}
