// Package board holds the client-side state of one project: its
// tasks, labels, members, and the server-computed summary counts.
// The controller exclusively owns that state; every mutation goes to
// the server first and is made visible locally by a refetch, never by
// a local patch, so the board can not drift from the server's view.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/policy"
	"github.com/tracklite/tracklite/internal/remote"
)

// ConfirmFunc asks the user to confirm a destructive operation.
// It is injected by the caller; the controller never prompts itself.
type ConfirmFunc func(prompt string) bool

// Filter narrows the task list. Zero values mean "no filter".
type Filter struct {
	Status   models.Status
	Priority models.Priority
}

// FilterPatch is a partial filter change; nil fields keep the current
// value.
type FilterPatch struct {
	Status   *models.Status
	Priority *models.Priority
}

// CreateTaskInput carries the caller-supplied fields for a new task.
// The project is implicit. AssignedTo is not validated locally; the
// server rejects non-members.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     *models.Date
	AssignedTo  *int
}

// Controller owns the board state for a single project
type Controller struct {
	remote  remote.Client
	user    *models.User
	confirm ConfirmFunc
	logger  *slog.Logger

	mu      sync.Mutex
	project *models.Project
	tasks   []models.Task
	labels  []models.Label
	users   []models.User
	summary models.Summary
	filter  Filter

	// reloadGen guards against a stale task-list response being
	// adopted after a newer reload was issued (last filter wins)
	reloadGen uint64
}

// NewController builds a board controller for the given user. A nil
// confirm treats every destructive operation as confirmed; a nil
// logger falls back to slog.Default().
func NewController(client remote.Client, user *models.User, confirm ConfirmFunc, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		remote:  client,
		user:    user,
		confirm: confirm,
		logger:  logger,
	}
}

// Load binds the controller to a project. The project fetch is
// terminal on failure: the caller must navigate away on NotFound or
// Forbidden. The user directory and label fetches fail independently
// and only log; the task list is loaded last under the empty filter.
func (c *Controller) Load(ctx context.Context, projectID int) error {
	project, err := c.remote.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load project %d: %w", projectID, err)
	}

	c.mu.Lock()
	c.project = project
	c.filter = Filter{}
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		users, err := c.remote.ListUsers(ctx)
		if err != nil {
			c.logger.Error("loading user directory failed", "error", err)
			return
		}
		c.mu.Lock()
		c.users = users
		c.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		labels, err := c.remote.ListLabels(ctx, projectID)
		if err != nil {
			c.logger.Error("loading labels failed", "error", err)
			return
		}
		c.mu.Lock()
		c.labels = labels
		c.mu.Unlock()
	}()
	wg.Wait()

	c.ReloadTasks(ctx)
	return nil
}

// SetFilter merges the patch into the active filter and reloads the
// task list under it.
func (c *Controller) SetFilter(ctx context.Context, patch FilterPatch) {
	c.mu.Lock()
	if patch.Status != nil {
		c.filter.Status = *patch.Status
	}
	if patch.Priority != nil {
		c.filter.Priority = *patch.Priority
	}
	c.mu.Unlock()

	c.ReloadTasks(ctx)
}

// ReloadTasks refetches the task list and summary under the active
// filter and replaces both wholesale. A failure logs and leaves the
// previous list on screen. If a newer reload is issued while this one
// is in flight, the stale result is discarded.
func (c *Controller) ReloadTasks(ctx context.Context) {
	c.mu.Lock()
	if c.project == nil {
		c.mu.Unlock()
		return
	}
	c.reloadGen++
	gen := c.reloadGen
	projectID := c.project.ID
	filter := remote.TaskFilter{Status: c.filter.Status, Priority: c.filter.Priority}
	c.mu.Unlock()

	page, err := c.remote.ListTasks(ctx, projectID, filter)
	if err != nil {
		c.logger.Error("reloading tasks failed", "project", projectID, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.reloadGen {
		// A newer reload superseded this one; last filter wins.
		return
	}
	c.tasks = page.Tasks
	c.summary = page.Summary
}

// CreateTask creates a task in the bound project. The new task shows
// up only after the follow-up reload, never optimistically.
func (c *Controller) CreateTask(ctx context.Context, input CreateTaskInput) error {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()
	if project == nil {
		return ErrNotLoaded
	}
	if strings.TrimSpace(input.Title) == "" {
		return ErrEmptyTitle
	}

	req := remote.CreateTaskRequest{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   project.ID,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
	}
	if _, err := c.remote.CreateTask(ctx, req); err != nil {
		return err
	}

	c.ReloadTasks(ctx)
	return nil
}

// SetTaskStatus sends a partial update carrying only the new status.
// Both the compact-view advance gesture and the detail edit form
// funnel through this same remote operation.
func (c *Controller) SetTaskStatus(ctx context.Context, taskID int, status models.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	patch := remote.TaskPatch{Status: &status}
	if _, err := c.remote.UpdateTask(ctx, taskID, patch); err != nil {
		return err
	}

	c.ReloadTasks(ctx)
	return nil
}

// AdvanceTask moves a task one step around the status ring
// TODO -> IN_PROGRESS -> DONE -> TODO.
func (c *Controller) AdvanceTask(ctx context.Context, taskID int) error {
	c.mu.Lock()
	var current *models.Status
	for i := range c.tasks {
		if c.tasks[i].ID == taskID {
			s := c.tasks[i].Status
			current = &s
			break
		}
	}
	c.mu.Unlock()
	if current == nil {
		return ErrUnknownTask
	}

	return c.SetTaskStatus(ctx, taskID, current.Advance())
}

// DeleteTask removes a task after the injected confirmation approves
func (c *Controller) DeleteTask(ctx context.Context, taskID int) error {
	if c.confirm != nil && !c.confirm(fmt.Sprintf("Delete task %d?", taskID)) {
		return ErrDeclined
	}

	if err := c.remote.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	c.ReloadTasks(ctx)
	return nil
}

// DeleteProject deletes the bound project. On success the controller
// is spent; the caller must navigate away and discard it.
func (c *Controller) DeleteProject(ctx context.Context) error {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()
	if project == nil {
		return ErrNotLoaded
	}
	if !c.Permissions().CanDeleteProject {
		return ErrPermissionDenied
	}
	if c.confirm != nil && !c.confirm(fmt.Sprintf("Delete project %q and all its tasks?", project.Name)) {
		return ErrDeclined
	}

	if err := c.remote.DeleteProject(ctx, project.ID); err != nil {
		return err
	}

	c.mu.Lock()
	c.project = nil
	c.tasks = nil
	c.labels = nil
	c.summary = models.Summary{}
	c.mu.Unlock()
	return nil
}

// AddMember adds a user to the project. The member list comes back
// from the server; nothing is synthesized locally.
func (c *Controller) AddMember(ctx context.Context, userID int) error {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()
	if project == nil {
		return ErrNotLoaded
	}
	if !c.Permissions().CanManageMembers {
		return ErrPermissionDenied
	}
	if project.HasMember(userID) {
		return ErrAlreadyMember
	}

	updated, err := c.remote.AddMember(ctx, project.ID, userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.project = updated
	c.mu.Unlock()
	return nil
}

// MemberCandidates returns the users who could still be added: the
// directory minus current members, in directory order.
func (c *Controller) MemberCandidates() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.project == nil {
		return nil
	}
	var candidates []models.User
	for _, u := range c.users {
		if !c.project.HasMember(u.ID) {
			candidates = append(candidates, u)
		}
	}
	return candidates
}

// CreateLabel creates a project label and refetches the label set
func (c *Controller) CreateLabel(ctx context.Context, name, color string) error {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()
	if project == nil {
		return ErrNotLoaded
	}
	if !c.Permissions().CanManageLabels {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(name) == "" {
		return ErrEmptyLabelName
	}

	req := remote.CreateLabelRequest{Name: name, Color: color}
	if _, err := c.remote.CreateLabel(ctx, project.ID, req); err != nil {
		return err
	}

	c.reloadLabels(ctx, project.ID)
	return nil
}

// DeleteLabel removes a project label and refetches the label set.
// Tasks still referencing it keep it until the next task reload; the
// server's cascade is authoritative.
func (c *Controller) DeleteLabel(ctx context.Context, labelID int) error {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()
	if project == nil {
		return ErrNotLoaded
	}
	if !c.Permissions().CanManageLabels {
		return ErrPermissionDenied
	}

	if err := c.remote.DeleteLabel(ctx, labelID); err != nil {
		return err
	}

	c.reloadLabels(ctx, project.ID)
	return nil
}

func (c *Controller) reloadLabels(ctx context.Context, projectID int) {
	labels, err := c.remote.ListLabels(ctx, projectID)
	if err != nil {
		c.logger.Error("reloading labels failed", "project", projectID, "error", err)
		return
	}
	c.mu.Lock()
	c.labels = labels
	c.mu.Unlock()
}

// ReplaceTask swaps in a task returned by a detail-view mutation, by
// id. This is the only way detail edits reach the board; summary
// counts stay as the server last computed them until the next reload.
func (c *Controller) ReplaceTask(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
}

// Permissions evaluates the policy for the bound (user, project) pair
func (c *Controller) Permissions() policy.Permissions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return policy.Effective(c.user, c.project)
}

// DisplayRole returns the presentational role badge for the bound pair
func (c *Controller) DisplayRole() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return policy.DisplayRole(c.user, c.project)
}

// Project returns the bound project, or nil before Load
func (c *Controller) Project() *models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

// Tasks returns the current task list in server order
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Labels returns the project's labels in server order
func (c *Controller) Labels() []models.Label {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// Users returns the full user directory
func (c *Controller) Users() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.User, len(c.users))
	copy(out, c.users)
	return out
}

// Summary returns the server-computed counts under the active filter
func (c *Controller) Summary() models.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Filter returns the active filter
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}
