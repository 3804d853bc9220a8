package taskdetail

import "errors"

var (
	ErrNotBound        = errors.New("no task bound to the detail view")
	ErrEmptyComment    = errors.New("comment content cannot be empty")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrInvalidStatus   = errors.New("unknown task status")
	ErrInvalidPriority = errors.New("unknown task priority")
	ErrNotEditing      = errors.New("detail view is not in edit mode")
)
