// Package remote defines the contract between the client core and the
// tracker server, plus the HTTP implementation of it. Controllers
// depend only on the Client interface; every failure they see is
// classified by the Kind taxonomy in errors.go.
package remote

import (
	"context"

	"github.com/tracklite/tracklite/internal/models"
)

// Client is the remote collaborator: all project/task/label/comment/
// activity CRUD the core needs. List results arrive in server order
// and are adopted verbatim; the client never re-sorts or re-filters.
type Client interface {
	// Projects and members
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id int) error
	AddMember(ctx context.Context, projectID, userID int) (*models.Project, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Labels
	ListLabels(ctx context.Context, projectID int) ([]models.Label, error)
	CreateLabel(ctx context.Context, projectID int, req CreateLabelRequest) (*models.Label, error)
	DeleteLabel(ctx context.Context, labelID int) error

	// Tasks
	ListTasks(ctx context.Context, projectID int, filter TaskFilter) (*models.TaskPage, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID int, patch TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID int) error
	AttachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error)
	DetachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error)

	// Comments and activity
	ListComments(ctx context.Context, taskID int) ([]models.Comment, error)
	AddComment(ctx context.Context, taskID int, content string) (*models.Comment, error)
	ListActivity(ctx context.Context, taskID int) ([]models.ActivityEntry, error)
}

// CreateProjectRequest carries the fields for a new project
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateLabelRequest carries the fields for a new label
type CreateLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TaskFilter narrows a task list by status and/or priority. Zero
// values mean "no filter" and are omitted from the request.
type TaskFilter struct {
	Status   models.Status
	Priority models.Priority
}

// CreateTaskRequest carries the fields for a new task. Optional
// fields left zero take server defaults (status TODO, priority MEDIUM).
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ProjectID   int             `json:"project_id"`
	Priority    models.Priority `json:"priority,omitempty"`
	DueDate     *models.Date    `json:"due_date,omitempty"`
	AssignedTo  *int            `json:"assigned_to,omitempty"`
}

// TaskPatch is a partial task update. Nil fields are left untouched
// by the server; set fields replace the stored value.
type TaskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *models.Status   `json:"status,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	AssignedTo  *int             `json:"assigned_to,omitempty"`
	DueDate     *models.Date     `json:"due_date,omitempty"`
}
