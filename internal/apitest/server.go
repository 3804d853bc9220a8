// Package apitest runs an in-process tracker API against an
// in-memory sqlite database. Integration tests point the real HTTP
// client at it to exercise the full client stack without a deployed
// server. It mirrors the production API's routes, payloads, and
// permission checks, including the server-side activity logging the
// client refetches after mutations.
package apitest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tracklite/tracklite/internal/models"
)

const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'MEMBER',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner_id INTEGER NOT NULL REFERENCES users(id),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE project_members (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	PRIMARY KEY (project_id, user_id)
);

CREATE TABLE labels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '#6b7280'
);

CREATE TABLE tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'TODO',
	priority TEXT NOT NULL DEFAULT 'MEDIUM',
	assigned_to INTEGER REFERENCES users(id),
	due_date TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE task_labels (
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	label_id INTEGER NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (task_id, label_id)
);

CREATE TABLE comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE activity_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	action TEXT NOT NULL,
	field_changed TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Server is the in-process tracker API
type Server struct {
	t    *testing.T
	db   *sql.DB
	http *httptest.Server

	mu     sync.Mutex
	tokens map[string]int // bearer token -> user id
	seq    int
}

// New starts a server over a fresh in-memory database. It shuts down
// with the test.
func New(t *testing.T) *Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	// The server handles requests concurrently; a single connection
	// keeps the in-memory database shared and serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	s := &Server{t: t, db: db, tokens: map[string]int{}}
	s.http = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.http.Close()
		db.Close()
	})
	return s
}

// URL returns the server's base URL
func (s *Server) URL() string {
	return s.http.URL
}

// SeedUser inserts a user and returns its id
func (s *Server) SeedUser(name, email string, role models.Role) int {
	s.t.Helper()
	res, err := s.db.Exec("INSERT INTO users (name, email, role) VALUES (?, ?, ?)", name, email, string(role))
	if err != nil {
		s.t.Fatalf("seed user: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

// SeedProject inserts a project owned by ownerID, with the owner as
// its first member
func (s *Server) SeedProject(name string, ownerID int) int {
	s.t.Helper()
	res, err := s.db.Exec("INSERT INTO projects (name, owner_id) VALUES (?, ?)", name, ownerID)
	if err != nil {
		s.t.Fatalf("seed project: %v", err)
	}
	id, _ := res.LastInsertId()
	if _, err := s.db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", id, ownerID); err != nil {
		s.t.Fatalf("seed owner membership: %v", err)
	}
	return int(id)
}

// SeedMember adds a user to a project's member list
func (s *Server) SeedMember(projectID, userID int) {
	s.t.Helper()
	if _, err := s.db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", projectID, userID); err != nil {
		s.t.Fatalf("seed member: %v", err)
	}
}

// TokenFor issues a bearer token for the given user
func (s *Server) TokenFor(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	token := fmt.Sprintf("token-%d-%d", userID, s.seq)
	s.tokens[token] = userID
	return token
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/profile", s.withUser(s.profile))
	mux.HandleFunc("GET /api/auth/users", s.withUser(s.listUsers))
	mux.HandleFunc("GET /api/projects", s.withUser(s.listProjects))
	mux.HandleFunc("GET /api/projects/{id}", s.withUser(s.getProject))
	mux.HandleFunc("POST /api/projects", s.withUser(s.createProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.withUser(s.deleteProject))
	mux.HandleFunc("POST /api/projects/{id}/members", s.withUser(s.addMember))
	mux.HandleFunc("GET /api/projects/{id}/labels", s.withUser(s.listLabels))
	mux.HandleFunc("POST /api/projects/{id}/labels", s.withUser(s.createLabel))
	mux.HandleFunc("DELETE /api/labels/{id}", s.withUser(s.deleteLabel))
	mux.HandleFunc("GET /api/tasks/project/{id}", s.withUser(s.listTasks))
	mux.HandleFunc("POST /api/tasks", s.withUser(s.createTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.withUser(s.updateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.withUser(s.deleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/labels/{label}", s.withUser(s.attachLabel))
	mux.HandleFunc("DELETE /api/tasks/{id}/labels/{label}", s.withUser(s.detachLabel))
	mux.HandleFunc("GET /api/tasks/{id}/comments", s.withUser(s.listComments))
	mux.HandleFunc("POST /api/tasks/{id}/comments", s.withUser(s.addComment))
	mux.HandleFunc("GET /api/tasks/{id}/activity", s.withUser(s.listActivity))

	return mux
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, user *models.User)

// withUser resolves the bearer token to a user and rejects requests
// without a valid session
func (s *Server) withUser(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		userID, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		user, err := s.loadUser(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		h(w, r, user)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}

// canAccess reports whether the user may see the project at all
func canAccess(user *models.User, project *models.Project) bool {
	return user.Role == models.RoleAdmin || project.HasMember(user.ID)
}

// canManage reports whether the user may administer the project
func canManage(user *models.User, project *models.Project) bool {
	return user.Role == models.RoleAdmin || project.OwnerID == user.ID
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, email, password")
		return
	}
	var exists int
	s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", body.Email).Scan(&exists)
	if exists > 0 {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	res, err := s.db.Exec("INSERT INTO users (name, email, password) VALUES (?, ?, ?)", body.Name, body.Email, body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id, _ := res.LastInsertId()
	user, _ := s.loadUser(int(id))
	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "access_token": s.TokenFor(int(id))})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	var id int
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ? AND password = ?", body.Email, body.Password).Scan(&id)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	user, _ := s.loadUser(id)
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "access_token": s.TokenFor(id)})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request, user *models.User) {
	rows, err := s.db.Query("SELECT id, name, email, role FROM users ORDER BY name")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		users = append(users, u)
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request, user *models.User) {
	query := "SELECT id FROM projects ORDER BY id"
	args := []any{}
	if user.Role != models.RoleAdmin {
		query = "SELECT p.id FROM projects p JOIN project_members m ON m.project_id = p.id WHERE m.user_id = ? ORDER BY p.id"
		args = append(args, user.ID)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		p, err := s.loadProject(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		projects = append(projects, *p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request, user *models.User) {
	if user.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Only admins can create projects")
		return
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: name")
		return
	}
	res, err := s.db.Exec("INSERT INTO projects (name, description, owner_id) VALUES (?, ?, ?)", body.Name, body.Description, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id, _ := res.LastInsertId()
	s.db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", id, user.ID)

	project, _ := s.loadProject(int(id))
	writeJSON(w, http.StatusCreated, map[string]any{"project": project})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "Only admins or the owner can delete this project")
		return
	}
	s.db.Exec("DELETE FROM projects WHERE id = ?", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "Only admins or the owner can add members")
		return
	}
	var body struct {
		UserID int `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required field: user_id")
		return
	}
	if _, err := s.loadUser(body.UserID); err != nil {
		writeError(w, http.StatusBadRequest, "User does not exist")
		return
	}
	if project.HasMember(body.UserID) {
		writeError(w, http.StatusBadRequest, "User is already a member")
		return
	}
	s.db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", id, body.UserID)

	updated, _ := s.loadProject(id)
	writeJSON(w, http.StatusOK, map[string]any{"project": updated})
}

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	labels, err := s.labelsFor(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) createLabel(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "Only admins or the owner can create labels")
		return
	}
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "Label name is required")
		return
	}
	if body.Color == "" {
		body.Color = "#6b7280"
	}
	var exists int
	s.db.QueryRow("SELECT COUNT(*) FROM labels WHERE project_id = ? AND name = ?", id, body.Name).Scan(&exists)
	if exists > 0 {
		writeError(w, http.StatusBadRequest, "Label with this name already exists")
		return
	}
	res, err := s.db.Exec("INSERT INTO labels (project_id, name, color) VALUES (?, ?, ?)", id, body.Name, body.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	labelID, _ := res.LastInsertId()
	writeJSON(w, http.StatusCreated, models.Label{ID: int(labelID), Name: body.Name, Color: body.Color, ProjectID: id})
}

func (s *Server) deleteLabel(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	var projectID int
	if err := s.db.QueryRow("SELECT project_id FROM labels WHERE id = ?", id).Scan(&projectID); err != nil {
		writeError(w, http.StatusNotFound, "Label not found")
		return
	}
	project, err := s.loadProject(projectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "Only admins or the owner can delete labels")
		return
	}
	s.db.Exec("DELETE FROM labels WHERE id = ?", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Label deleted"})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	project, err := s.loadProject(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	query := "SELECT id FROM tasks WHERE project_id = ?"
	args := []any{id}
	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		query += " AND priority = ?"
		args = append(args, priority)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	tasks := []models.Task{}
	summary := models.Summary{}
	for rows.Next() {
		var taskID int
		if err := rows.Scan(&taskID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		task, err := s.loadTask(taskID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		tasks = append(tasks, *task)
		switch task.Status {
		case models.StatusTodo:
			summary.Todo++
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusDone:
			summary.Done++
		}
		summary.Total++
	}
	writeJSON(w, http.StatusOK, models.TaskPage{Tasks: tasks, Summary: summary})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request, user *models.User) {
	var body struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ProjectID   int     `json:"project_id"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"due_date"`
		AssignedTo  *int    `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Title) == "" || body.ProjectID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields: title, project_id")
		return
	}
	project, err := s.loadProject(body.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	if body.Priority == "" {
		body.Priority = string(models.DefaultPriority)
	}
	res, err := s.db.Exec(
		"INSERT INTO tasks (project_id, title, description, priority, assigned_to, due_date) VALUES (?, ?, ?, ?, ?, ?)",
		body.ProjectID, body.Title, body.Description, body.Priority, body.AssignedTo, body.DueDate,
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	taskID, _ := res.LastInsertId()
	s.logActivity(int(taskID), user.ID, "created", nil, nil, nil)

	task, _ := s.loadTask(int(taskID))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created", "task": task})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	before, err := s.loadTask(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	project, err := s.loadProject(before.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	var patch struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		AssignedTo  *int    `json:"assigned_to"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if patch.Status != nil && !models.Status(*patch.Status).Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if patch.Priority != nil && !models.Priority(*patch.Priority).Valid() {
		writeError(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	apply := func(column string, value any) {
		s.db.Exec("UPDATE tasks SET "+column+" = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", value, id)
	}
	if patch.Title != nil {
		apply("title", *patch.Title)
	}
	if patch.Description != nil {
		apply("description", *patch.Description)
	}
	if patch.Status != nil {
		apply("status", *patch.Status)
		if models.Status(*patch.Status) != before.Status {
			oldVal := string(before.Status)
			field := "status"
			s.logActivity(id, user.ID, "updated", &field, &oldVal, patch.Status)
		}
	}
	if patch.Priority != nil {
		apply("priority", *patch.Priority)
		if models.Priority(*patch.Priority) != before.Priority {
			oldVal := string(before.Priority)
			field := "priority"
			s.logActivity(id, user.ID, "updated", &field, &oldVal, patch.Priority)
		}
	}
	if patch.AssignedTo != nil {
		apply("assigned_to", *patch.AssignedTo)
	}
	if patch.DueDate != nil {
		apply("due_date", *patch.DueDate)
	}

	task, _ := s.loadTask(id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated", "task": task})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, _ := pathID(r, "id")
	task, err := s.loadTask(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	project, err := s.loadProject(task.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (s *Server) attachLabel(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.labelOp(w, r, user, true)
}

func (s *Server) detachLabel(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.labelOp(w, r, user, false)
}

func (s *Server) labelOp(w http.ResponseWriter, r *http.Request, user *models.User, attach bool) {
	taskID, _ := pathID(r, "id")
	labelID, _ := pathID(r, "label")

	task, err := s.loadTask(taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	var labelProject int
	if err := s.db.QueryRow("SELECT project_id FROM labels WHERE id = ?", labelID).Scan(&labelProject); err != nil {
		writeError(w, http.StatusNotFound, "Label not found")
		return
	}
	if attach && labelProject != task.ProjectID {
		writeError(w, http.StatusBadRequest, "Label does not belong to this project")
		return
	}
	project, err := s.loadProject(task.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !canAccess(user, project) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	// Both directions are idempotent: attaching an attached label and
	// detaching an absent one answer 200 with the task unchanged.
	if attach {
		s.db.Exec("INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)", taskID, labelID)
	} else {
		s.db.Exec("DELETE FROM task_labels WHERE task_id = ? AND label_id = ?", taskID, labelID)
	}

	updated, _ := s.loadTask(taskID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, user *models.User) {
	taskID, _ := pathID(r, "id")
	if _, err := s.requireTaskAccess(taskID, user); err != nil {
		writeError(w, err.status, err.message)
		return
	}

	rows, err := s.db.Query(
		"SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, u.name, u.email, u.role FROM comments c JOIN users u ON u.id = c.user_id WHERE c.task_id = ? ORDER BY c.created_at, c.id",
		taskID,
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var author models.User
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &author.Name, &author.Email, &author.Role); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		author.ID = c.UserID
		c.Author = &author
		comments = append(comments, c)
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	taskID, _ := pathID(r, "id")
	if _, err := s.requireTaskAccess(taskID, user); err != nil {
		writeError(w, err.status, err.message)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	content := strings.TrimSpace(body.Content)

	res, err := s.db.Exec("INSERT INTO comments (task_id, user_id, content) VALUES (?, ?, ?)", taskID, user.ID, content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	commentID, _ := res.LastInsertId()
	s.logActivity(taskID, user.ID, "commented", nil, nil, nil)

	writeJSON(w, http.StatusCreated, models.Comment{
		ID:        int(commentID),
		TaskID:    taskID,
		UserID:    user.ID,
		Author:    user,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request, user *models.User) {
	taskID, _ := pathID(r, "id")
	if _, err := s.requireTaskAccess(taskID, user); err != nil {
		writeError(w, err.status, err.message)
		return
	}

	rows, err := s.db.Query(
		"SELECT a.id, a.task_id, a.user_id, a.action, a.field_changed, a.old_value, a.new_value, a.created_at, u.name, u.email, u.role FROM activity_logs a JOIN users u ON u.id = a.user_id WHERE a.task_id = ? ORDER BY a.created_at, a.id",
		taskID,
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	entries := []models.ActivityEntry{}
	for rows.Next() {
		var e models.ActivityEntry
		var actor models.User
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Action, &e.FieldChanged, &e.OldValue, &e.NewValue, &e.CreatedAt, &actor.Name, &actor.Email, &actor.Role); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		actor.ID = e.UserID
		e.User = &actor
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, entries)
}

type apiError struct {
	status  int
	message string
}

// requireTaskAccess loads a task and checks project membership
func (s *Server) requireTaskAccess(taskID int, user *models.User) (*models.Task, *apiError) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, &apiError{http.StatusNotFound, "Task not found"}
	}
	project, err := s.loadProject(task.ProjectID)
	if err != nil {
		return nil, &apiError{http.StatusNotFound, "Project not found"}
	}
	if !canAccess(user, project) {
		return nil, &apiError{http.StatusForbidden, "Access denied"}
	}
	return task, nil
}

func (s *Server) labelsFor(projectID int) ([]models.Label, error) {
	rows, err := s.db.Query("SELECT id, name, color, project_id FROM labels WHERE project_id = ? ORDER BY name", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.ProjectID); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func (s *Server) logActivity(taskID, userID int, action string, field, oldValue, newValue *string) {
	s.db.Exec(
		"INSERT INTO activity_logs (task_id, user_id, action, field_changed, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?)",
		taskID, userID, action, field, oldValue, newValue,
	)
}

func (s *Server) loadUser(id int) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow("SELECT id, name, email, role FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Server) loadProject(id int) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow("SELECT id, name, description, owner_id, created_at FROM projects WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT u.id, u.name, u.email, u.role FROM users u JOIN project_members m ON m.user_id = u.id WHERE m.project_id = ? ORDER BY u.name",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	p.Members = []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		p.Members = append(p.Members, u)
	}

	s.db.QueryRow("SELECT COUNT(*) FROM tasks WHERE project_id = ?", id).Scan(&p.TaskCount)
	return &p, nil
}

func (s *Server) loadTask(id int) (*models.Task, error) {
	var t models.Task
	var dueDate *string
	err := s.db.QueryRow(
		"SELECT id, project_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at FROM tasks WHERE id = ?",
		id,
	).Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssignedTo, &dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate != nil {
		d, err := models.ParseDate(*dueDate)
		if err == nil {
			t.DueDate = &d
		}
	}
	if t.AssignedTo != nil {
		if assignee, err := s.loadUser(*t.AssignedTo); err == nil {
			t.Assignee = assignee
		}
	}

	rows, err := s.db.Query(
		"SELECT l.id, l.name, l.color, l.project_id FROM labels l JOIN task_labels tl ON tl.label_id = l.id WHERE tl.task_id = ? ORDER BY l.name",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	t.Labels = []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.ProjectID); err != nil {
			return nil, err
		}
		t.Labels = append(t.Labels, l)
	}

	s.db.QueryRow("SELECT COUNT(*) FROM comments WHERE task_id = ?", id).Scan(&t.CommentCount)
	return &t, nil
}
