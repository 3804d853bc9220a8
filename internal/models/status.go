package models

// Status represents the workflow state of a task
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists all task statuses in workflow order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Advance returns the next status in the cyclic ring
// TODO -> IN_PROGRESS -> DONE -> TODO. It is the single
// compact-view transition; it never errors and has no side effects.
func (s Status) Advance() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusTodo
	}
	return s
}

// Valid reports whether s is one of the three known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}
