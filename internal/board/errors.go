package board

import "errors"

var (
	// Validation errors
	ErrEmptyTitle     = errors.New("task title cannot be empty")
	ErrEmptyLabelName = errors.New("label name cannot be empty")
	ErrInvalidStatus  = errors.New("unknown task status")
	ErrUnknownTask    = errors.New("task is not on the board")

	// State errors
	ErrNotLoaded     = errors.New("no project loaded")
	ErrAlreadyMember = errors.New("user is already a project member")

	// ErrPermissionDenied is returned when the local policy rules the
	// operation out before any request is sent
	ErrPermissionDenied = errors.New("you do not have permission to do that")

	// ErrDeclined is returned when the injected confirmation
	// capability rejects a destructive operation
	ErrDeclined = errors.New("operation cancelled")
)
