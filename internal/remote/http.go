package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tracklite/tracklite/internal/models"
)

// TokenSource supplies the bearer token for each request. An empty
// return means no session; the server will answer 401.
type TokenSource func() string

// httpClient implements Client against the tracker's REST API
type httpClient struct {
	baseURL string
	hc      *http.Client
	token   TokenSource
}

// NewHTTPClient builds a Client talking to the API at baseURL.
// A nil token source sends unauthenticated requests.
func NewHTTPClient(baseURL string, token TokenSource, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		token:   token,
	}
}

// errorBody is the server's uniform failure payload
type errorBody struct {
	Error string `json:"error"`
}

// do issues one API request and decodes the response into out (when
// non-nil). Transport failures classify as transient; HTTP statuses
// map onto the error taxonomy.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewError(KindValidation, fmt.Sprintf("encode request: %v", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return NewError(KindTransient, fmt.Sprintf("build request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return NewError(KindTransient, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(KindTransient, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode >= 400 {
		return ClassifyStatus(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return NewError(KindValidation, fmt.Sprintf("malformed response: %v", err))
		}
	}
	return nil
}

// ClassifyStatus maps an HTTP error status onto the taxonomy,
// carrying the server's message verbatim when one is present.
func ClassifyStatus(status int, body []byte) *Error {
	var eb errorBody
	message := http.StatusText(status)
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		message = eb.Error
	}

	switch {
	case status == http.StatusUnauthorized:
		return NewError(KindUnauthenticated, message)
	case status == http.StatusForbidden:
		return NewError(KindForbidden, message)
	case status == http.StatusNotFound:
		return NewError(KindNotFound, message)
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return NewError(KindValidation, message)
	default:
		return NewError(KindTransient, message)
	}
}

func (c *httpClient) GetProjects(ctx context.Context) ([]models.Project, error) {
	var envelope struct {
		Projects *[]models.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Projects == nil {
		return nil, NewError(KindValidation, "malformed response: missing projects")
	}
	return *envelope.Projects, nil
}

func (c *httpClient) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var envelope struct {
		Project *models.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, &envelope); err != nil {
		return nil, err
	}
	return checkProject(envelope.Project)
}

func (c *httpClient) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	var envelope struct {
		Project *models.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &envelope); err != nil {
		return nil, err
	}
	return checkProject(envelope.Project)
}

func (c *httpClient) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, nil)
}

func (c *httpClient) AddMember(ctx context.Context, projectID, userID int) (*models.Project, error) {
	body := map[string]int{"user_id": userID}
	var envelope struct {
		Project *models.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), body, &envelope); err != nil {
		return nil, err
	}
	return checkProject(envelope.Project)
}

func (c *httpClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var envelope struct {
		Users *[]models.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Users == nil {
		return nil, NewError(KindValidation, "malformed response: missing users")
	}
	return *envelope.Users, nil
}

func (c *httpClient) ListLabels(ctx context.Context, projectID int) ([]models.Label, error) {
	var labels []models.Label
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d/labels", projectID), nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *httpClient) CreateLabel(ctx context.Context, projectID int, req CreateLabelRequest) (*models.Label, error) {
	var label models.Label
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/labels", projectID), req, &label); err != nil {
		return nil, err
	}
	if label.ID == 0 || label.Name == "" {
		return nil, NewError(KindValidation, "malformed response: incomplete label")
	}
	return &label, nil
}

func (c *httpClient) DeleteLabel(ctx context.Context, labelID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/labels/%d", labelID), nil, nil)
}

func (c *httpClient) ListTasks(ctx context.Context, projectID int, filter TaskFilter) (*models.TaskPage, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	path := fmt.Sprintf("/api/tasks/project/%d", projectID)
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page struct {
		Tasks   *[]models.Task  `json:"tasks"`
		Summary *models.Summary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	if page.Tasks == nil || page.Summary == nil {
		return nil, NewError(KindValidation, "malformed response: missing tasks or summary")
	}
	return &models.TaskPage{Tasks: *page.Tasks, Summary: *page.Summary}, nil
}

func (c *httpClient) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	var envelope struct {
		Task *models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &envelope); err != nil {
		return nil, err
	}
	return checkTask(envelope.Task)
}

func (c *httpClient) UpdateTask(ctx context.Context, taskID int, patch TaskPatch) (*models.Task, error) {
	var envelope struct {
		Task *models.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), patch, &envelope); err != nil {
		return nil, err
	}
	return checkTask(envelope.Task)
}

func (c *httpClient) DeleteTask(ctx context.Context, taskID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), nil, nil)
}

func (c *httpClient) AttachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/labels/%d", taskID, labelID), nil, &task); err != nil {
		return nil, err
	}
	return checkTask(&task)
}

func (c *httpClient) DetachLabel(ctx context.Context, taskID, labelID int) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d/labels/%d", taskID, labelID), nil, &task); err != nil {
		return nil, err
	}
	return checkTask(&task)
}

func (c *httpClient) ListComments(ctx context.Context, taskID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d/comments", taskID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *httpClient) AddComment(ctx context.Context, taskID int, content string) (*models.Comment, error) {
	body := map[string]string{"content": content}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", taskID), body, &comment); err != nil {
		return nil, err
	}
	if comment.ID == 0 || comment.Content == "" {
		return nil, NewError(KindValidation, "malformed response: incomplete comment")
	}
	return &comment, nil
}

func (c *httpClient) ListActivity(ctx context.Context, taskID int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d/activity", taskID), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// checkProject narrows a decoded project: the entity and its required
// fields must be present, otherwise the response is a validation
// failure rather than silently tolerated.
func checkProject(p *models.Project) (*models.Project, error) {
	if p == nil || p.ID == 0 || p.Name == "" {
		return nil, NewError(KindValidation, "malformed response: incomplete project")
	}
	return p, nil
}

// checkTask narrows a decoded task the same way
func checkTask(t *models.Task) (*models.Task, error) {
	if t == nil || t.ID == 0 || t.Title == "" {
		return nil, NewError(KindValidation, "malformed response: incomplete task")
	}
	if !t.Status.Valid() || !t.Priority.Valid() {
		return nil, NewError(KindValidation, "malformed response: unknown status or priority")
	}
	return t, nil
}
