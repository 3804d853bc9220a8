package models

import "time"

// Task is a unit of work within a project. Assignee, when present,
// must be a project member; the server is authoritative for that
// constraint. Labels is always a subset of the owning project's labels.
// CommentCount is server-maintained.
type Task struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"project_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority"`
	AssignedTo   *int      `json:"assigned_to"`
	Assignee     *User     `json:"assignee"`
	DueDate      *Date     `json:"due_date"`
	Labels       []Label   `json:"labels"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasLabel reports whether the task carries the label with the given ID
func (t *Task) HasLabel(labelID int) bool {
	for _, l := range t.Labels {
		if l.ID == labelID {
			return true
		}
	}
	return false
}

// Summary holds the server-computed per-status task counts for one
// project under the active filter. The client never recomputes these.
type Summary struct {
	Todo       int `json:"TODO"`
	InProgress int `json:"IN_PROGRESS"`
	Done       int `json:"DONE"`
	Total      int `json:"total"`
}

// TaskPage is one task-list response: the filtered tasks in server
// order plus the summary computed at the same instant.
type TaskPage struct {
	Tasks   []Task  `json:"tasks"`
	Summary Summary `json:"summary"`
}
