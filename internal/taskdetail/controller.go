// Package taskdetail holds the client-side state of one task's detail
// view: its comments, activity log, and the inline edit buffer. The
// controller is bound to a single task at a time; re-binding discards
// everything, and a stale-response guard keyed by bind generation
// keeps a previous task's late fetch results from leaking in.
package taskdetail

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

// Mode is the detail view's display mode
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "VIEW"
}

// EditBuffer is a full copy of the task's editable fields. It is
// reset from the bound task on Bind and CancelEdit and sent whole by
// SaveEdit.
type EditBuffer struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	AssignedTo  *int
	DueDate     *models.Date
}

func bufferFrom(task *models.Task) EditBuffer {
	return EditBuffer{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		AssignedTo:  task.AssignedTo,
		DueDate:     task.DueDate,
	}
}

// Controller owns the detail state for the currently displayed task
type Controller struct {
	remote remote.Client
	logger *slog.Logger

	// onTaskUpdated tells the board controller to replace the task by
	// id. One-way; the detail controller never reads board state.
	onTaskUpdated func(models.Task)

	mu       sync.Mutex
	task     *models.Task
	comments []models.Comment
	activity []models.ActivityEntry
	buffer   EditBuffer
	mode     Mode

	// bindGen invalidates in-flight fetches from a previous binding
	bindGen uint64
}

// NewController builds a detail controller. onTaskUpdated may be nil
// when no board is listening; a nil logger falls back to
// slog.Default().
func NewController(client remote.Client, onTaskUpdated func(models.Task), logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		remote:        client,
		onTaskUpdated: onTaskUpdated,
		logger:        logger,
	}
}

// Bind points the view at a task: the edit buffer is reset from it,
// the mode returns to VIEW, and comments and activity are fetched
// concurrently. Results belonging to a previously bound task are
// discarded by generation.
func (c *Controller) Bind(ctx context.Context, task models.Task) {
	c.mu.Lock()
	c.bindGen++
	gen := c.bindGen
	bound := task
	c.task = &bound
	c.buffer = bufferFrom(&bound)
	c.mode = ModeView
	c.comments = nil
	c.activity = nil
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.fetchComments(ctx, task.ID, gen)
	}()
	go func() {
		defer wg.Done()
		c.fetchActivity(ctx, task.ID, gen)
	}()
	wg.Wait()
}

// Unbind discards all detail state
func (c *Controller) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGen++
	c.task = nil
	c.comments = nil
	c.activity = nil
	c.buffer = EditBuffer{}
	c.mode = ModeView
}

func (c *Controller) fetchComments(ctx context.Context, taskID int, gen uint64) {
	comments, err := c.remote.ListComments(ctx, taskID)
	if err != nil {
		if remote.IsNotFound(err) {
			c.clearIfCurrent(gen)
			return
		}
		c.logger.Error("loading comments failed", "task", taskID, "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.bindGen {
		// A different task was bound while this fetch was in flight.
		return
	}
	c.comments = comments
}

func (c *Controller) fetchActivity(ctx context.Context, taskID int, gen uint64) {
	activity, err := c.remote.ListActivity(ctx, taskID)
	if err != nil {
		if remote.IsNotFound(err) {
			c.clearIfCurrent(gen)
			return
		}
		c.logger.Error("loading activity failed", "task", taskID, "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.bindGen {
		return
	}
	c.activity = activity
}

// clearIfCurrent empties the view when the bound task has vanished
// server-side, unless a newer binding already replaced it.
func (c *Controller) clearIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.bindGen {
		return
	}
	c.bindGen++
	c.task = nil
	c.comments = nil
	c.activity = nil
	c.buffer = EditBuffer{}
	c.mode = ModeView
}

// AddComment posts a comment. The comment list is never appended to
// locally: both comments and activity are refetched, so the activity
// feed narrates the comment too.
func (c *Controller) AddComment(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyComment
	}

	c.mu.Lock()
	task := c.task
	gen := c.bindGen
	c.mu.Unlock()
	if task == nil {
		return ErrNotBound
	}

	if _, err := c.remote.AddComment(ctx, task.ID, content); err != nil {
		if remote.IsNotFound(err) {
			c.clearIfCurrent(gen)
		}
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.fetchComments(ctx, task.ID, gen)
	}()
	go func() {
		defer wg.Done()
		c.fetchActivity(ctx, task.ID, gen)
	}()
	wg.Wait()
	return nil
}

// BeginEdit switches to EDIT mode
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return ErrNotBound
	}
	c.mode = ModeEdit
	return nil
}

// CancelEdit discards unsaved buffer changes by re-copying from the
// last-known task and returns to VIEW mode.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task != nil {
		c.buffer = bufferFrom(c.task)
	}
	c.mode = ModeView
}

// SetBuffer replaces the edit buffer with caller-edited fields
func (c *Controller) SetBuffer(buf EditBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return ErrNotBound
	}
	if c.mode != ModeEdit {
		return ErrNotEditing
	}
	c.buffer = buf
	return nil
}

// SaveEdit sends the whole edit buffer as a partial task update. On
// success the bound task is replaced with the server's task, the view
// returns to VIEW mode, and the activity log is refetched: field
// changes generate activity entries server-side.
func (c *Controller) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	task := c.task
	buf := c.buffer
	gen := c.bindGen
	c.mu.Unlock()
	if task == nil {
		return ErrNotBound
	}
	if strings.TrimSpace(buf.Title) == "" {
		return ErrEmptyTitle
	}
	if !buf.Status.Valid() {
		return ErrInvalidStatus
	}
	if !buf.Priority.Valid() {
		return ErrInvalidPriority
	}

	patch := remote.TaskPatch{
		Title:       &buf.Title,
		Description: &buf.Description,
		Status:      &buf.Status,
		Priority:    &buf.Priority,
		AssignedTo:  buf.AssignedTo,
		DueDate:     buf.DueDate,
	}
	updated, err := c.remote.UpdateTask(ctx, task.ID, patch)
	if err != nil {
		if remote.IsNotFound(err) {
			c.clearIfCurrent(gen)
		}
		return err
	}

	c.adoptTask(gen, updated, true)
	c.fetchActivity(ctx, task.ID, gen)
	return nil
}

// AttachLabel attaches a label to the bound task. Safe to call when
// the label is already attached; the server's returned task carries
// the authoritative label set either way.
func (c *Controller) AttachLabel(ctx context.Context, labelID int) error {
	return c.labelOp(ctx, labelID, c.remote.AttachLabel)
}

// DetachLabel removes a label from the bound task. Idempotent from
// the caller's perspective.
func (c *Controller) DetachLabel(ctx context.Context, labelID int) error {
	return c.labelOp(ctx, labelID, c.remote.DetachLabel)
}

func (c *Controller) labelOp(ctx context.Context, labelID int, op func(context.Context, int, int) (*models.Task, error)) error {
	c.mu.Lock()
	task := c.task
	gen := c.bindGen
	c.mu.Unlock()
	if task == nil {
		return ErrNotBound
	}

	updated, err := op(ctx, task.ID, labelID)
	if err != nil {
		if remote.IsNotFound(err) {
			c.clearIfCurrent(gen)
		}
		return err
	}

	c.adoptTask(gen, updated, false)
	return nil
}

// adoptTask replaces the bound task with the server's version and
// notifies the board listener, unless a newer binding intervened.
// The edit buffer is re-copied only when the edit is over, so a label
// change mid-edit does not clobber unsaved fields.
func (c *Controller) adoptTask(gen uint64, updated *models.Task, exitEdit bool) {
	c.mu.Lock()
	if gen != c.bindGen {
		c.mu.Unlock()
		return
	}
	bound := *updated
	c.task = &bound
	if exitEdit {
		c.mode = ModeView
	}
	if c.mode == ModeView {
		c.buffer = bufferFrom(&bound)
	}
	notify := c.onTaskUpdated
	c.mu.Unlock()

	if notify != nil {
		notify(*updated)
	}
}

// Task returns the bound task, or nil when nothing is bound
func (c *Controller) Task() *models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return nil
	}
	t := *c.task
	return &t
}

// Comments returns the comment list in server order
func (c *Controller) Comments() []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Comment, len(c.comments))
	copy(out, c.comments)
	return out
}

// Activity returns the activity log in server order
func (c *Controller) Activity() []models.ActivityEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ActivityEntry, len(c.activity))
	copy(out, c.activity)
	return out
}

// Buffer returns the current edit buffer
func (c *Controller) Buffer() EditBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// Mode returns the current display mode
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}
