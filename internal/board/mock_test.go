package board

import (
	"context"
	"sync"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

// fakeRemote is a hand-written remote.Client for controller tests.
// Each method delegates to an optional hook; unset read hooks return
// empty results so tests only wire what they exercise. Calls are
// counted under a mutex so tests can assert on traffic.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	getProjectFn  func(ctx context.Context, id int) (*models.Project, error)
	listUsersFn   func(ctx context.Context) ([]models.User, error)
	listLabelsFn  func(ctx context.Context, projectID int) ([]models.Label, error)
	listTasksFn   func(ctx context.Context, projectID int, filter remote.TaskFilter) (*models.TaskPage, error)
	createTaskFn  func(ctx context.Context, req remote.CreateTaskRequest) (*models.Task, error)
	updateTaskFn  func(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error)
	deleteTaskFn  func(ctx context.Context, taskID int) error
	deleteProjFn  func(ctx context.Context, id int) error
	addMemberFn   func(ctx context.Context, projectID, userID int) (*models.Project, error)
	createLabelFn func(ctx context.Context, projectID int, req remote.CreateLabelRequest) (*models.Label, error)
	deleteLabelFn func(ctx context.Context, labelID int) error
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

func (f *fakeRemote) GetProjects(ctx context.Context) ([]models.Project, error) {
	f.record("GetProjects")
	return nil, nil
}

func (f *fakeRemote) GetProject(ctx context.Context, id int) (*models.Project, error) {
	f.record("GetProject")
	if f.getProjectFn != nil {
		return f.getProjectFn(ctx, id)
	}
	return &models.Project{ID: id, Name: "Test Project", OwnerID: 1}, nil
}

func (f *fakeRemote) CreateProject(ctx context.Context, req remote.CreateProjectRequest) (*models.Project, error) {
	f.record("CreateProject")
	return &models.Project{ID: 99, Name: req.Name, OwnerID: 1}, nil
}

func (f *fakeRemote) DeleteProject(ctx context.Context, id int) error {
	f.record("DeleteProject")
	if f.deleteProjFn != nil {
		return f.deleteProjFn(ctx, id)
	}
	return nil
}

func (f *fakeRemote) AddMember(ctx context.Context, projectID, userID int) (*models.Project, error) {
	f.record("AddMember")
	if f.addMemberFn != nil {
		return f.addMemberFn(ctx, projectID, userID)
	}
	return &models.Project{ID: projectID, Name: "Test Project", OwnerID: 1}, nil
}

func (f *fakeRemote) ListUsers(ctx context.Context) ([]models.User, error) {
	f.record("ListUsers")
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}
	return nil, nil
}

func (f *fakeRemote) ListLabels(ctx context.Context, projectID int) ([]models.Label, error) {
	f.record("ListLabels")
	if f.listLabelsFn != nil {
		return f.listLabelsFn(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeRemote) CreateLabel(ctx context.Context, projectID int, req remote.CreateLabelRequest) (*models.Label, error) {
	f.record("CreateLabel")
	if f.createLabelFn != nil {
		return f.createLabelFn(ctx, projectID, req)
	}
	return &models.Label{ID: 1, Name: req.Name, Color: req.Color, ProjectID: projectID}, nil
}

func (f *fakeRemote) DeleteLabel(ctx context.Context, labelID int) error {
	f.record("DeleteLabel")
	if f.deleteLabelFn != nil {
		return f.deleteLabelFn(ctx, labelID)
	}
	return nil
}

func (f *fakeRemote) ListTasks(ctx context.Context, projectID int, filter remote.TaskFilter) (*models.TaskPage, error) {
	f.record("ListTasks")
	if f.listTasksFn != nil {
		return f.listTasksFn(ctx, projectID, filter)
	}
	return &models.TaskPage{Tasks: []models.Task{}, Summary: models.Summary{}}, nil
}

func (f *fakeRemote) CreateTask(ctx context.Context, req remote.CreateTaskRequest) (*models.Task, error) {
	f.record("CreateTask")
	if f.createTaskFn != nil {
		return f.createTaskFn(ctx, req)
	}
	return &models.Task{ID: 1, Title: req.Title, ProjectID: req.ProjectID, Status: models.StatusTodo, Priority: models.DefaultPriority}, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error) {
	f.record("UpdateTask")
	if f.updateTaskFn != nil {
		return f.updateTaskFn(ctx, taskID, patch)
	}
	return &models.Task{ID: taskID, Title: "updated", Status: models.StatusTodo, Priority: models.DefaultPriority}, nil
}

func (f *fakeRemote) DeleteTask(ctx context.Context, taskID int) error {
	f.record("DeleteTask")
	if f.deleteTaskFn != nil {
		return f.deleteTaskFn(ctx, taskID)
	}
	return nil
}

func (f *fakeRemote) AttachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	f.record("AttachLabel")
	return &models.Task{ID: taskID, Title: "task"}, nil
}

func (f *fakeRemote) DetachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	f.record("DetachLabel")
	return &models.Task{ID: taskID, Title: "task"}, nil
}

func (f *fakeRemote) ListComments(ctx context.Context, taskID int) ([]models.Comment, error) {
	f.record("ListComments")
	return nil, nil
}

func (f *fakeRemote) AddComment(ctx context.Context, taskID int, content string) (*models.Comment, error) {
	f.record("AddComment")
	return &models.Comment{ID: 1, TaskID: taskID, Content: content}, nil
}

func (f *fakeRemote) ListActivity(ctx context.Context, taskID int) ([]models.ActivityEntry, error) {
	f.record("ListActivity")
	return nil, nil
}
