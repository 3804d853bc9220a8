package taskdetail

import (
	"context"
	"sync"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

// fakeRemote covers the slice of remote.Client the detail controller
// touches; the board-facing methods return empty results.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	listCommentsFn func(ctx context.Context, taskID int) ([]models.Comment, error)
	listActivityFn func(ctx context.Context, taskID int) ([]models.ActivityEntry, error)
	addCommentFn   func(ctx context.Context, taskID int, content string) (*models.Comment, error)
	updateTaskFn   func(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error)
	attachLabelFn  func(ctx context.Context, taskID, labelID int) (*models.Task, error)
	detachLabelFn  func(ctx context.Context, taskID, labelID int) (*models.Task, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: map[string]int{}}
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRemote) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) ListComments(ctx context.Context, taskID int) ([]models.Comment, error) {
	f.record("ListComments")
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeRemote) ListActivity(ctx context.Context, taskID int) ([]models.ActivityEntry, error) {
	f.record("ListActivity")
	if f.listActivityFn != nil {
		return f.listActivityFn(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeRemote) AddComment(ctx context.Context, taskID int, content string) (*models.Comment, error) {
	f.record("AddComment")
	if f.addCommentFn != nil {
		return f.addCommentFn(ctx, taskID, content)
	}
	return &models.Comment{ID: 1, TaskID: taskID, Content: content}, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error) {
	f.record("UpdateTask")
	if f.updateTaskFn != nil {
		return f.updateTaskFn(ctx, taskID, patch)
	}
	return &models.Task{ID: taskID, Title: "updated", Status: models.StatusTodo, Priority: models.DefaultPriority}, nil
}

func (f *fakeRemote) AttachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	f.record("AttachLabel")
	if f.attachLabelFn != nil {
		return f.attachLabelFn(ctx, taskID, labelID)
	}
	return &models.Task{ID: taskID, Title: "task", Labels: []models.Label{{ID: labelID}}}, nil
}

func (f *fakeRemote) DetachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	f.record("DetachLabel")
	if f.detachLabelFn != nil {
		return f.detachLabelFn(ctx, taskID, labelID)
	}
	return &models.Task{ID: taskID, Title: "task"}, nil
}

func (f *fakeRemote) GetProjects(ctx context.Context) ([]models.Project, error) { return nil, nil }
func (f *fakeRemote) GetProject(ctx context.Context, id int) (*models.Project, error) {
	return nil, nil
}
func (f *fakeRemote) CreateProject(ctx context.Context, req remote.CreateProjectRequest) (*models.Project, error) {
	return nil, nil
}
func (f *fakeRemote) DeleteProject(ctx context.Context, id int) error { return nil }
func (f *fakeRemote) AddMember(ctx context.Context, projectID, userID int) (*models.Project, error) {
	return nil, nil
}
func (f *fakeRemote) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeRemote) ListLabels(ctx context.Context, projectID int) ([]models.Label, error) {
	return nil, nil
}
func (f *fakeRemote) CreateLabel(ctx context.Context, projectID int, req remote.CreateLabelRequest) (*models.Label, error) {
	return nil, nil
}
func (f *fakeRemote) DeleteLabel(ctx context.Context, labelID int) error { return nil }
func (f *fakeRemote) ListTasks(ctx context.Context, projectID int, filter remote.TaskFilter) (*models.TaskPage, error) {
	return &models.TaskPage{}, nil
}
func (f *fakeRemote) CreateTask(ctx context.Context, req remote.CreateTaskRequest) (*models.Task, error) {
	return nil, nil
}
func (f *fakeRemote) DeleteTask(ctx context.Context, taskID int) error { return nil }
