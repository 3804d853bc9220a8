package cli

import (
	"context"
	"fmt"
)

type contextKey struct{}

// WithCLI stores the CLI instance on the context so subcommands can
// retrieve it without global state
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// GetCLIFromContext retrieves the CLI instance placed by the root
// command
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	c, ok := ctx.Value(contextKey{}).(*CLI)
	if !ok {
		return nil, fmt.Errorf("CLI not initialized")
	}
	return c, nil
}
