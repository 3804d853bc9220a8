package apitest

import (
	"context"
	"testing"
	"time"

	"github.com/tracklite/tracklite/internal/auth"
	"github.com/tracklite/tracklite/internal/board"
	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
	"github.com/tracklite/tracklite/internal/taskdetail"
)

func newClient(s *Server, token string) remote.Client {
	return remote.NewHTTPClient(s.URL(), func() string { return token }, 5*time.Second)
}

func confirmAll(string) bool { return true }

func TestAuthRegisterLoginRestore(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	svc := auth.NewService(srv.URL(), 5*time.Second)
	user, err := svc.Register(ctx, "Noe", "noe@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != models.RoleMember {
		t.Errorf("registered role = %q, want MEMBER", user.Role)
	}
	token := svc.Token()
	if token == "" {
		t.Fatal("expected a token after registration")
	}

	svc.Logout()
	if svc.CurrentUser() != nil {
		t.Error("expected no session after logout")
	}

	if _, err := svc.Login(ctx, "noe@example.com", "wrong"); !remote.IsUnauthenticated(err) {
		t.Errorf("bad password: got %v, want unauthenticated", err)
	}
	if _, err := svc.Login(ctx, "noe@example.com", "hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	restored := auth.NewService(srv.URL(), 5*time.Second)
	u, err := restored.Restore(ctx, token)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if u.Email != "noe@example.com" {
		t.Errorf("restored user = %q, want noe@example.com", u.Email)
	}
}

func TestBoardLifecycle(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	ownerID := srv.SeedUser("Owner", "owner@example.com", models.RoleMember)
	otherID := srv.SeedUser("Other", "other@example.com", models.RoleMember)
	projectID := srv.SeedProject("Website", ownerID)

	client := newClient(srv, srv.TokenFor(ownerID))
	owner := &models.User{ID: ownerID, Name: "Owner", Email: "owner@example.com", Role: models.RoleMember}
	ctrl := board.NewController(client, owner, confirmAll, nil)

	if err := ctrl.Load(ctx, projectID); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ctrl.Project().Name; got != "Website" {
		t.Errorf("project name = %q, want Website", got)
	}
	if len(ctrl.Tasks()) != 0 {
		t.Errorf("expected empty board, got %d tasks", len(ctrl.Tasks()))
	}

	// The owner is not a site admin, but owns the project.
	perms := ctrl.Permissions()
	if perms.CanCreateProject {
		t.Error("non-admin should not create projects")
	}
	if !perms.CanDeleteProject || !perms.CanManageLabels {
		t.Error("owner should manage their project")
	}
	if got := ctrl.DisplayRole(); got != "OWNER" {
		t.Errorf("display role = %q, want OWNER", got)
	}

	if err := ctrl.CreateTask(ctx, board.CreateTaskInput{Title: "Ship v1", Priority: models.PriorityHigh}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := ctrl.CreateTask(ctx, board.CreateTaskInput{Title: "Write docs"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	tasks := ctrl.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if got := ctrl.Summary(); got.Todo != 2 || got.Total != 2 {
		t.Errorf("summary = %+v, want 2 TODO of 2", got)
	}

	var ship models.Task
	for _, task := range tasks {
		if task.Title == "Ship v1" {
			ship = task
		}
	}
	if ship.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want HIGH", ship.Priority)
	}

	if err := ctrl.AdvanceTask(ctx, ship.ID); err != nil {
		t.Fatalf("AdvanceTask: %v", err)
	}
	if got := ctrl.Summary(); got.InProgress != 1 || got.Todo != 1 {
		t.Errorf("summary after advance = %+v", got)
	}

	// Filtering delegates to the server; the summary covers only the
	// visible slice.
	status := models.StatusInProgress
	ctrl.SetFilter(ctx, board.FilterPatch{Status: &status})
	if got := ctrl.Tasks(); len(got) != 1 || got[0].ID != ship.ID {
		t.Fatalf("filtered tasks = %v", got)
	}
	if got := ctrl.Summary(); got.Total != 1 || got.InProgress != 1 {
		t.Errorf("filtered summary = %+v", got)
	}
	none := models.Status("")
	ctrl.SetFilter(ctx, board.FilterPatch{Status: &none})

	if err := ctrl.AddMember(ctx, otherID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !ctrl.Project().HasMember(otherID) {
		t.Error("expected Other to be a member")
	}
	if err := ctrl.AddMember(ctx, otherID); err == nil {
		t.Error("expected duplicate membership to fail")
	}
	if got := ctrl.MemberCandidates(); len(got) != 0 {
		t.Errorf("candidates = %v, want none left", got)
	}

	if err := ctrl.CreateLabel(ctx, "bug", "#ef4444"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	labels := ctrl.Labels()
	if len(labels) != 1 || labels[0].Name != "bug" {
		t.Fatalf("labels = %v", labels)
	}
	if err := ctrl.CreateLabel(ctx, "bug", "#ef4444"); !remote.IsValidation(err) {
		t.Errorf("duplicate label: got %v, want validation error", err)
	}

	if err := ctrl.DeleteTask(ctx, ship.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if got := ctrl.Summary(); got.Total != 1 {
		t.Errorf("summary after delete = %+v", got)
	}
}

func TestBoardMembershipDenied(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	ownerID := srv.SeedUser("Owner", "owner@example.com", models.RoleMember)
	strangerID := srv.SeedUser("Stranger", "stranger@example.com", models.RoleMember)
	projectID := srv.SeedProject("Private", ownerID)

	client := newClient(srv, srv.TokenFor(strangerID))
	stranger := &models.User{ID: strangerID, Role: models.RoleMember}
	ctrl := board.NewController(client, stranger, confirmAll, nil)

	err := ctrl.Load(ctx, projectID)
	if !remote.IsForbidden(err) {
		t.Fatalf("Load as stranger: got %v, want forbidden", err)
	}
	if ctrl.Project() != nil {
		t.Error("no project state should survive a failed load")
	}
}

func TestAdminSeesEverything(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	ownerID := srv.SeedUser("Owner", "owner@example.com", models.RoleMember)
	adminID := srv.SeedUser("Admin", "admin@example.com", models.RoleAdmin)
	projectID := srv.SeedProject("Private", ownerID)

	client := newClient(srv, srv.TokenFor(adminID))
	admin := &models.User{ID: adminID, Role: models.RoleAdmin}
	ctrl := board.NewController(client, admin, confirmAll, nil)

	if err := ctrl.Load(ctx, projectID); err != nil {
		t.Fatalf("Load as admin: %v", err)
	}
	if got := ctrl.DisplayRole(); got != "ADMIN" {
		t.Errorf("display role = %q, want ADMIN", got)
	}
	if err := ctrl.DeleteProject(ctx); err != nil {
		t.Fatalf("DeleteProject as admin: %v", err)
	}
	if ctrl.Project() != nil {
		t.Error("expected cleared state after project deletion")
	}
}

func TestTaskDetailFlow(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	ownerID := srv.SeedUser("Owner", "owner@example.com", models.RoleMember)
	projectID := srv.SeedProject("Website", ownerID)

	client := newClient(srv, srv.TokenFor(ownerID))
	owner := &models.User{ID: ownerID, Role: models.RoleMember}
	boardCtrl := board.NewController(client, owner, confirmAll, nil)
	if err := boardCtrl.Load(ctx, projectID); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := boardCtrl.CreateTask(ctx, board.CreateTaskInput{Title: "Fix login"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := boardCtrl.CreateLabel(ctx, "bug", "#ef4444"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	task := boardCtrl.Tasks()[0]
	label := boardCtrl.Labels()[0]

	detail := taskdetail.NewController(client, boardCtrl.ReplaceTask, nil)
	detail.Bind(ctx, task)

	activity := detail.Activity()
	if len(activity) != 1 || activity[0].Action != "created" {
		t.Fatalf("activity = %v, want single created entry", activity)
	}

	if err := detail.AddComment(ctx, "  Looks like a cookie issue  "); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	comments := detail.Comments()
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	if comments[0].Content != "Looks like a cookie issue" {
		t.Errorf("comment content = %q, want trimmed text", comments[0].Content)
	}
	if comments[0].Author == nil || comments[0].Author.Name != "Owner" {
		t.Errorf("comment author = %v, want Owner", comments[0].Author)
	}
	if len(detail.Activity()) != 2 {
		t.Errorf("expected a commented activity entry, got %v", detail.Activity())
	}

	if err := detail.AttachLabel(ctx, label.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}
	if !detail.Task().HasLabel(label.ID) {
		t.Error("bound task should carry the attached label")
	}
	// Attaching again is a no-op on the server side.
	if err := detail.AttachLabel(ctx, label.ID); err != nil {
		t.Fatalf("AttachLabel twice: %v", err)
	}
	if got := len(detail.Task().Labels); got != 1 {
		t.Errorf("got %d labels, want 1", got)
	}

	// The board learns about detail-side changes through the listener.
	if !boardCtrl.Tasks()[0].HasLabel(label.ID) {
		t.Error("board task should reflect the attached label")
	}

	if err := detail.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	buf := detail.Buffer()
	buf.Title = "Fix login redirect"
	buf.Status = models.StatusInProgress
	if err := detail.SetBuffer(buf); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	if err := detail.SaveEdit(ctx); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if detail.Mode() != taskdetail.ModeView {
		t.Error("save should return to view mode")
	}
	if got := detail.Task(); got.Title != "Fix login redirect" || got.Status != models.StatusInProgress {
		t.Errorf("saved task = %+v", got)
	}
	if got := boardCtrl.Tasks()[0]; got.Title != "Fix login redirect" {
		t.Errorf("board task title = %q, want the saved title", got.Title)
	}

	// The status change lands in the activity feed with both values.
	var statusEntry *models.ActivityEntry
	for _, e := range detail.Activity() {
		if e.FieldChanged != nil && *e.FieldChanged == "status" {
			entry := e
			statusEntry = &entry
		}
	}
	if statusEntry == nil {
		t.Fatal("expected a status change entry")
	}
	if *statusEntry.OldValue != "TODO" || *statusEntry.NewValue != "IN_PROGRESS" {
		t.Errorf("status entry = %q -> %q", *statusEntry.OldValue, *statusEntry.NewValue)
	}

	if err := detail.DetachLabel(ctx, label.ID); err != nil {
		t.Fatalf("DetachLabel: %v", err)
	}
	if detail.Task().HasLabel(label.ID) {
		t.Error("label should be gone after detach")
	}
}

func TestDetailNotFoundClearsView(t *testing.T) {
	srv := New(t)
	ctx := context.Background()

	ownerID := srv.SeedUser("Owner", "owner@example.com", models.RoleMember)
	projectID := srv.SeedProject("Website", ownerID)

	client := newClient(srv, srv.TokenFor(ownerID))
	owner := &models.User{ID: ownerID, Role: models.RoleMember}
	boardCtrl := board.NewController(client, owner, confirmAll, nil)
	if err := boardCtrl.Load(ctx, projectID); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := boardCtrl.CreateTask(ctx, board.CreateTaskInput{Title: "Ephemeral"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	task := boardCtrl.Tasks()[0]

	detail := taskdetail.NewController(client, nil, nil)
	detail.Bind(ctx, task)

	// Someone else deletes the task out from under the detail view.
	if err := boardCtrl.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	err := detail.AddComment(ctx, "still there?")
	if !remote.IsNotFound(err) {
		t.Fatalf("comment on deleted task: got %v, want not found", err)
	}
	if detail.Task() != nil {
		t.Error("detail view should clear when the task is gone")
	}
}
