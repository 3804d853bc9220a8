package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(srv.URL, 5*time.Second)
}

func TestLoginEstablishesSession(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %s, want /api/auth/login", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user":         models.User{ID: 1, Name: "Ana", Email: "ana@example.com", Role: models.RoleAdmin},
			"access_token": "jwt-token",
		})
	})

	user, err := svc.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("user = %+v, want Ana", user)
	}
	if svc.Token() != "jwt-token" {
		t.Errorf("Token = %q, want the issued token", svc.Token())
	}
	if svc.CurrentUser() == nil || svc.CurrentUser().ID != 1 {
		t.Error("CurrentUser should return the session user")
	}
}

func TestLoginRejectionIsUnauthenticated(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
	})

	_, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	if !remote.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
	if svc.CurrentUser() != nil {
		t.Error("a failed login must not establish a session")
	}
}

func TestRestoreValidatesToken(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer old-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Missing token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": models.User{ID: 2, Name: "Ben", Role: models.RoleMember},
		})
	})

	user, err := svc.Restore(context.Background(), "old-token")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if user.ID != 2 {
		t.Errorf("user = %+v, want Ben", user)
	}
	if svc.Token() != "old-token" {
		t.Error("Restore should keep using the supplied token")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user":         models.User{ID: 1, Name: "Ana"},
			"access_token": "jwt-token",
		})
	})

	if _, err := svc.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	svc.Logout()

	if svc.CurrentUser() != nil {
		t.Error("CurrentUser should be nil after logout")
	}
	if svc.Token() != "" {
		t.Error("Token should be empty after logout")
	}
}

func TestIncompleteSessionIsValidationFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": models.User{ID: 1}})
	})

	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	if !remote.IsValidation(err) {
		t.Errorf("err = %v, want validation failure for a session without a token", err)
	}
}
