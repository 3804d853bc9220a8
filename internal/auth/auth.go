// Package auth is the session collaborator the rest of the client
// assumes: it knows who the current user is and holds the bearer
// token in memory. Token persistence and refresh live outside this
// module; callers that want a durable session keep the token
// themselves and hand it back through Restore on startup.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

// Service is the authentication contract the controllers rely on
type Service interface {
	// CurrentUser returns the authenticated user, or nil when there
	// is no session.
	CurrentUser() *models.User

	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, name, email, password string) (*models.User, error)

	// Restore re-validates a previously issued token and, on success,
	// establishes the session from it.
	Restore(ctx context.Context, token string) (*models.User, error)

	// Logout clears the session locally. The server keeps no session
	// state beyond the token's own expiry.
	Logout()

	// Token returns the active bearer token ("" without a session);
	// it satisfies remote.TokenSource.
	Token() string
}

type service struct {
	baseURL string
	hc      *http.Client

	mu    sync.Mutex
	user  *models.User
	token string
}

// NewService builds an auth service against the API at baseURL
func NewService(baseURL string, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &service{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// sessionResponse is the payload of login, register, and profile
type sessionResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (s *service) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := s.post(ctx, "/api/auth/login", body)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	resp, err := s.post(ctx, "/api/auth/register", body)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *service) Restore(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/auth/profile", nil)
	if err != nil {
		return nil, remote.NewError(remote.KindTransient, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.roundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.AccessToken = token
	return s.establish(resp)
}

func (s *service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}

// establish validates the session payload and stores it
func (s *service) establish(resp *sessionResponse) (*models.User, error) {
	if resp.User == nil || resp.User.ID == 0 || resp.AccessToken == "" {
		return nil, remote.NewError(remote.KindValidation, "malformed response: incomplete session")
	}
	s.mu.Lock()
	s.user = resp.User
	s.token = resp.AccessToken
	s.mu.Unlock()
	u := *resp.User
	return &u, nil
}

func (s *service) post(ctx context.Context, path string, body any) (*sessionResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, remote.NewError(remote.KindValidation, fmt.Sprintf("encode request: %v", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, remote.NewError(remote.KindTransient, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	return s.roundTrip(req)
}

func (s *service) roundTrip(req *http.Request) (*sessionResponse, error) {
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, remote.NewError(remote.KindTransient, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.NewError(remote.KindTransient, fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode >= 400 {
		return nil, remote.ClassifyStatus(resp.StatusCode, data)
	}

	var session sessionResponse
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, remote.NewError(remote.KindValidation, fmt.Sprintf("malformed response: %v", err))
	}
	return &session, nil
}
