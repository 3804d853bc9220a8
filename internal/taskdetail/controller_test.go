package taskdetail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

func sampleTask() models.Task {
	return models.Task{
		ID:        5,
		ProjectID: 1,
		Title:     "Fix login",
		Status:    models.StatusTodo,
		Priority:  models.PriorityHigh,
	}
}

func TestBindResetsStateAndFetches(t *testing.T) {
	fake := newFakeRemote()
	fake.listCommentsFn = func(ctx context.Context, taskID int) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, TaskID: taskID, Content: "first"}}, nil
	}
	fake.listActivityFn = func(ctx context.Context, taskID int) ([]models.ActivityEntry, error) {
		return []models.ActivityEntry{{ID: 1, TaskID: taskID, Action: "created"}}, nil
	}

	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	if c.Mode() != ModeView {
		t.Errorf("mode = %s, want VIEW", c.Mode())
	}
	if buf := c.Buffer(); buf.Title != "Fix login" || buf.Status != models.StatusTodo {
		t.Errorf("buffer = %+v, want copied from the task", buf)
	}
	if len(c.Comments()) != 1 || c.Comments()[0].Content != "first" {
		t.Errorf("comments = %+v, want the fetched comment", c.Comments())
	}
	if len(c.Activity()) != 1 || c.Activity()[0].Action != "created" {
		t.Errorf("activity = %+v, want the fetched entry", c.Activity())
	}
}

func TestStaleBindResponseIsDiscarded(t *testing.T) {
	taskA := sampleTask()
	taskB := models.Task{ID: 8, ProjectID: 1, Title: "Write docs", Status: models.StatusTodo, Priority: models.PriorityLow}

	fake := newFakeRemote()
	aStarted := make(chan struct{})
	release := make(chan struct{})
	fake.listCommentsFn = func(ctx context.Context, taskID int) ([]models.Comment, error) {
		if taskID == taskA.ID {
			// Task A's fetch resolves only after task B is bound.
			close(aStarted)
			<-release
			return []models.Comment{{ID: 1, TaskID: taskA.ID, Content: "from A"}}, nil
		}
		return []models.Comment{{ID: 2, TaskID: taskB.ID, Content: "from B"}}, nil
	}

	c := NewController(fake, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Bind(context.Background(), taskA)
	}()

	<-aStarted
	c.Bind(context.Background(), taskB)
	close(release)
	wg.Wait()

	comments := c.Comments()
	if len(comments) != 1 || comments[0].Content != "from B" {
		t.Errorf("comments = %+v, want only task B's comments", comments)
	}
	if c.Task().ID != taskB.ID {
		t.Errorf("bound task = %d, want %d", c.Task().ID, taskB.ID)
	}
}

func TestAddCommentValidatesContent(t *testing.T) {
	fake := newFakeRemote()
	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	if err := c.AddComment(context.Background(), "   \n "); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("err = %v, want ErrEmptyComment", err)
	}
	if fake.callCount("AddComment") != 0 {
		t.Error("whitespace-only comments must not be sent")
	}
}

func TestAddCommentRefetchesCommentsAndActivity(t *testing.T) {
	fake := newFakeRemote()
	var posted bool
	fake.addCommentFn = func(ctx context.Context, taskID int, content string) (*models.Comment, error) {
		posted = true
		return &models.Comment{ID: 9, TaskID: taskID, Content: content}, nil
	}
	fake.listCommentsFn = func(ctx context.Context, taskID int) ([]models.Comment, error) {
		if posted {
			return []models.Comment{{ID: 9, TaskID: taskID, Content: "looks good"}}, nil
		}
		return nil, nil
	}
	fake.listActivityFn = func(ctx context.Context, taskID int) ([]models.ActivityEntry, error) {
		if posted {
			return []models.ActivityEntry{{ID: 3, TaskID: taskID, Action: "commented"}}, nil
		}
		return nil, nil
	}

	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	if err := c.AddComment(context.Background(), "looks good"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if len(c.Comments()) != 1 {
		t.Error("comments should come from the refetch, not a local append")
	}
	if len(c.Activity()) != 1 || c.Activity()[0].Action != "commented" {
		t.Error("activity should be refetched so the feed narrates the comment")
	}
	if got := fake.callCount("ListActivity"); got != 2 {
		t.Errorf("ListActivity called %d times, want 2 (bind + comment)", got)
	}
}

func TestAddCommentOnDeletedTaskClearsView(t *testing.T) {
	fake := newFakeRemote()
	fake.addCommentFn = func(ctx context.Context, taskID int, content string) (*models.Comment, error) {
		return nil, remote.NewError(remote.KindNotFound, "Task not found")
	}

	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	err := c.AddComment(context.Background(), "hello")
	if !remote.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if c.Task() != nil {
		t.Error("a vanished task must clear the detail view")
	}
}

func TestEditLifecycle(t *testing.T) {
	fake := newFakeRemote()
	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	if err := c.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if c.Mode() != ModeEdit {
		t.Fatalf("mode = %s, want EDIT", c.Mode())
	}

	buf := c.Buffer()
	buf.Title = "Fix login flow"
	buf.Priority = models.PriorityLow
	if err := c.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer failed: %v", err)
	}

	c.CancelEdit()
	if c.Mode() != ModeView {
		t.Error("cancel should return to VIEW")
	}
	if c.Buffer().Title != "Fix login" {
		t.Error("cancel should discard buffer changes by re-copying the task")
	}
}

func TestSetBufferOutsideEditMode(t *testing.T) {
	fake := newFakeRemote()
	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())

	if err := c.SetBuffer(EditBuffer{Title: "x"}); !errors.Is(err, ErrNotEditing) {
		t.Errorf("err = %v, want ErrNotEditing", err)
	}
}

func TestSaveEditSendsFullBufferAndAdoptsResult(t *testing.T) {
	fake := newFakeRemote()
	var gotPatch remote.TaskPatch
	fake.updateTaskFn = func(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error) {
		gotPatch = patch
		return &models.Task{
			ID: taskID, ProjectID: 1, Title: *patch.Title,
			Status: *patch.Status, Priority: *patch.Priority,
		}, nil
	}

	var notified *models.Task
	notify := func(task models.Task) { notified = &task }

	c := NewController(fake, notify, nil)
	c.Bind(context.Background(), sampleTask())
	if err := c.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	buf := c.Buffer()
	buf.Title = "Fix login flow"
	buf.Status = models.StatusInProgress
	if err := c.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer failed: %v", err)
	}

	if err := c.SaveEdit(context.Background()); err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}

	if gotPatch.Title == nil || *gotPatch.Title != "Fix login flow" {
		t.Error("patch should carry the edited title")
	}
	if gotPatch.Status == nil || *gotPatch.Status != models.StatusInProgress {
		t.Error("patch should carry the edited status")
	}
	if gotPatch.Priority == nil || *gotPatch.Priority != models.PriorityHigh {
		t.Error("patch should carry every editable field, changed or not")
	}
	if c.Mode() != ModeView {
		t.Error("save should exit EDIT mode")
	}
	if c.Task().Title != "Fix login flow" {
		t.Error("bound task should be replaced with the server's task")
	}
	if notified == nil || notified.ID != 5 {
		t.Error("the board listener should be told about the update")
	}
	if got := fake.callCount("ListActivity"); got != 2 {
		t.Errorf("ListActivity called %d times, want 2 (bind + save)", got)
	}
}

func TestSaveEditFailureKeepsEditMode(t *testing.T) {
	fake := newFakeRemote()
	fake.updateTaskFn = func(ctx context.Context, taskID int, patch remote.TaskPatch) (*models.Task, error) {
		return nil, remote.NewError(remote.KindForbidden, "Access denied")
	}

	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())
	if err := c.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	err := c.SaveEdit(context.Background())
	if !remote.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden surfaced to caller", err)
	}
	if c.Mode() != ModeEdit {
		t.Error("a failed save must leave the user in EDIT mode")
	}
	if c.Task().Title != "Fix login" {
		t.Error("a failed save must not touch the bound task")
	}
}

func TestSaveEditValidatesBuffer(t *testing.T) {
	fake := newFakeRemote()
	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())
	if err := c.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	buf := c.Buffer()
	buf.Title = "  "
	if err := c.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer failed: %v", err)
	}
	if err := c.SaveEdit(context.Background()); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	if fake.callCount("UpdateTask") != 0 {
		t.Error("an invalid buffer must not be sent")
	}
}

func TestDetachLabelIsIdempotent(t *testing.T) {
	fake := newFakeRemote()
	fake.detachLabelFn = func(ctx context.Context, taskID, labelID int) (*models.Task, error) {
		// The server answers the same whether or not the label was
		// attached: the task with its authoritative label set.
		return &models.Task{ID: taskID, Title: "Fix login", Labels: []models.Label{}}, nil
	}

	c := NewController(fake, nil, nil)
	task := sampleTask()
	task.Labels = []models.Label{{ID: 7, Name: "bug"}}
	c.Bind(context.Background(), task)

	if err := c.DetachLabel(context.Background(), 7); err != nil {
		t.Fatalf("first detach failed: %v", err)
	}
	if c.Task().HasLabel(7) {
		t.Fatal("label should be gone after the first detach")
	}

	if err := c.DetachLabel(context.Background(), 7); err != nil {
		t.Fatalf("second detach must not error: %v", err)
	}
	if len(c.Task().Labels) != 0 {
		t.Error("label set must be unchanged after the second detach")
	}
}

func TestAttachLabelReplacesBoundTask(t *testing.T) {
	fake := newFakeRemote()
	fake.attachLabelFn = func(ctx context.Context, taskID, labelID int) (*models.Task, error) {
		return &models.Task{ID: taskID, Title: "Fix login", Labels: []models.Label{{ID: labelID, Name: "bug"}}}, nil
	}

	var notified *models.Task
	c := NewController(fake, func(task models.Task) { notified = &task }, nil)
	c.Bind(context.Background(), sampleTask())

	if err := c.AttachLabel(context.Background(), 7); err != nil {
		t.Fatalf("AttachLabel failed: %v", err)
	}
	if !c.Task().HasLabel(7) {
		t.Error("bound task should carry the server's label set")
	}
	if notified == nil {
		t.Error("the board listener should be notified")
	}
}

func TestOperationsRequireBinding(t *testing.T) {
	fake := newFakeRemote()
	c := NewController(fake, nil, nil)

	if err := c.AddComment(context.Background(), "hi"); !errors.Is(err, ErrNotBound) {
		t.Errorf("AddComment err = %v, want ErrNotBound", err)
	}
	if err := c.BeginEdit(); !errors.Is(err, ErrNotBound) {
		t.Errorf("BeginEdit err = %v, want ErrNotBound", err)
	}
	if err := c.SaveEdit(context.Background()); !errors.Is(err, ErrNotBound) {
		t.Errorf("SaveEdit err = %v, want ErrNotBound", err)
	}
	if err := c.AttachLabel(context.Background(), 1); !errors.Is(err, ErrNotBound) {
		t.Errorf("AttachLabel err = %v, want ErrNotBound", err)
	}
}

func TestUnbindDiscardsEverything(t *testing.T) {
	fake := newFakeRemote()
	fake.listCommentsFn = func(ctx context.Context, taskID int) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, TaskID: taskID, Content: "hello"}}, nil
	}

	c := NewController(fake, nil, nil)
	c.Bind(context.Background(), sampleTask())
	c.Unbind()

	if c.Task() != nil || len(c.Comments()) != 0 || len(c.Activity()) != 0 {
		t.Error("unbind must discard all detail state")
	}
	if c.Buffer() != (EditBuffer{}) {
		t.Error("unbind must reset the edit buffer")
	}
}
