package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tracklite/tracklite/internal/auth"
	"github.com/tracklite/tracklite/internal/cli/styles"
	"github.com/tracklite/tracklite/internal/config"
	"github.com/tracklite/tracklite/internal/logging"
	"github.com/tracklite/tracklite/internal/models"
	"github.com/tracklite/tracklite/internal/remote"
)

// CLI carries the shared state every command needs: configuration,
// the auth session, and a client bound to that session's token.
type CLI struct {
	Config *config.Config
	Auth   auth.Service
	Client remote.Client
}

// NewCLI loads config, initializes logging and styles, and restores
// the saved session if a token file exists. Commands that need a user
// call RequireUser afterwards.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		// Logging to a file is best-effort; the CLI still works.
		slog.Warn("could not initialize log file", "error", err)
	}
	styles.Init(cfg.Theme)

	svc := auth.NewService(cfg.ServerURL, cfg.RequestTimeout)
	if token, err := LoadToken(); err == nil && token != "" {
		if _, err := svc.Restore(ctx, token); err != nil {
			// A dead token is not fatal here; RequireUser reports it.
			slog.Debug("stored session did not restore", "error", err)
		}
	}

	return &CLI{
		Config: cfg,
		Auth:   svc,
		Client: remote.NewHTTPClient(cfg.ServerURL, svc.Token, cfg.RequestTimeout),
	}, nil
}

// RequireUser returns the signed-in user or an error telling the
// caller to log in first
func (c *CLI) RequireUser() (*models.User, error) {
	user := c.Auth.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("not logged in")
	}
	return user, nil
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tracklite", "token"), nil
}

// SaveToken persists the session token for later invocations
func SaveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// LoadToken reads the persisted session token, if any
func LoadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the persisted session token
func ClearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
